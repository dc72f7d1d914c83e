package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

var (
	_ storage.ThreadSink   = (*Mongo)(nil)
	_ storage.ThreadFinder = (*Mongo)(nil)
	_ storage.Pinger       = (*Mongo)(nil)
)

// threadDoc — документ ветки. Дерево хранится плоским списком в pre-order
// с глубиной, так как вложенность документов MongoDB ограничена.
type threadDoc struct {
	LinkID         string       `bson:"_id"`
	Subreddit      string       `bson:"subreddit"`
	CommentCount   int          `bson:"comment_count"`
	RootCount      int          `bson:"root_count"`
	CreatedUTCMin  int64        `bson:"created_utc_min"`
	CreatedUTCMax  int64        `bson:"created_utc_max"`
	OrphanComments int          `bson:"orphan_comments"`
	Comments       []commentDoc `bson:"comments"`
}

// commentDoc — узел без детей. Edited хранится как исходный JSON-текст.
type commentDoc struct {
	ID               string  `bson:"id"`
	ParentID         string  `bson:"parent_id"`
	Author           *string `bson:"author"`
	Body             *string `bson:"body"`
	BodyCleaned      *string `bson:"body_cleaned"`
	Score            int64   `bson:"score"`
	Controversiality int64   `bson:"controversiality"`
	CreatedUTC       int64   `bson:"created_utc"`
	Distinguished    *string `bson:"distinguished"`
	Edited           string  `bson:"edited,omitempty"`
	Depth            int     `bson:"depth"`
}

func toDoc(rec *models.ThreadRecord) threadDoc {
	flat := models.Flatten(rec.Roots)
	comments := make([]commentDoc, len(flat))
	for i, f := range flat {
		comments[i] = commentDoc{
			ID:               f.ID,
			ParentID:         f.ParentID,
			Author:           f.Author,
			Body:             f.Body,
			BodyCleaned:      f.BodyCleaned,
			Score:            f.Score,
			Controversiality: f.Controversiality,
			CreatedUTC:       f.CreatedUTC,
			Distinguished:    f.Distinguished,
			Edited:           string(f.Edited),
			Depth:            f.Depth,
		}
	}

	return threadDoc{
		LinkID:         rec.LinkID,
		Subreddit:      rec.Subreddit,
		CommentCount:   rec.CommentCount,
		RootCount:      rec.RootCount,
		CreatedUTCMin:  rec.CreatedUTCMin,
		CreatedUTCMax:  rec.CreatedUTCMax,
		OrphanComments: rec.OrphanComments,
		Comments:       comments,
	}
}

func fromDoc(doc *threadDoc) (*models.ThreadRecord, error) {
	flat := make([]models.FlatNode, len(doc.Comments))
	for i, c := range doc.Comments {
		flat[i] = models.FlatNode{
			ID:               c.ID,
			ParentID:         c.ParentID,
			Author:           c.Author,
			Body:             c.Body,
			BodyCleaned:      c.BodyCleaned,
			Score:            c.Score,
			Controversiality: c.Controversiality,
			CreatedUTC:       c.CreatedUTC,
			Distinguished:    c.Distinguished,
			Depth:            c.Depth,
		}
		if c.Edited != "" {
			flat[i].Edited = json.RawMessage(c.Edited)
		}
	}

	roots, err := models.Unflatten(flat)
	if err != nil {
		return nil, err
	}

	return &models.ThreadRecord{
		LinkID:         doc.LinkID,
		Subreddit:      doc.Subreddit,
		CommentCount:   doc.CommentCount,
		RootCount:      doc.RootCount,
		CreatedUTCMin:  doc.CreatedUTCMin,
		CreatedUTCMax:  doc.CreatedUTCMax,
		OrphanComments: doc.OrphanComments,
		Roots:          roots,
	}, nil
}

// WriteThread сохраняет ветку.
//   - replace=false: вставка; повтор link_id — storage.ErrConflict;
//   - replace=true: замена документа с upsert.
func (m *Mongo) WriteThread(ctx context.Context, rec *models.ThreadRecord) error {
	const op = "storage/mongo/WriteThread"

	doc := toDoc(rec)

	if m.replace {
		_, err := m.threads.ReplaceOne(ctx, bson.M{"_id": doc.LinkID}, doc, options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	if _, err := m.threads.InsertOne(ctx, doc); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ThreadByLinkID читает ветку и восстанавливает дерево.
// Если документа нет — storage.ErrNotFound.
func (m *Mongo) ThreadByLinkID(ctx context.Context, linkID string) (*models.ThreadRecord, error) {
	const op = "storage/mongo/ThreadByLinkID"

	var doc threadDoc
	if err := m.threads.FindOne(ctx, bson.M{"_id": linkID}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := fromDoc(&doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}
