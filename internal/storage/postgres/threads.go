package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

var (
	_ storage.ThreadSink   = (*ThreadsStorage)(nil)
	_ storage.ThreadFinder = (*ThreadsStorage)(nil)
	_ storage.Pinger       = (*ThreadsStorage)(nil)
)

const (
	fieldLinkID         = "link_id"
	fieldSubreddit      = "subreddit"
	fieldCommentCount   = "comment_count"
	fieldRootCount      = "root_count"
	fieldCreatedUTCMin  = "created_utc_min"
	fieldCreatedUTCMax  = "created_utc_max"
	fieldOrphanComments = "orphan_comments"
	fieldComments       = "comments"
)

func threadColumns() []string {
	return []string{
		fieldLinkID,
		fieldSubreddit,
		fieldCommentCount,
		fieldRootCount,
		fieldCreatedUTCMin,
		fieldCreatedUTCMax,
		fieldOrphanComments,
		fieldComments,
	}
}

// upsertSuffix перезаписывает все колонки, кроме ключа.
const upsertSuffix = `ON CONFLICT (link_id) DO UPDATE SET
subreddit = EXCLUDED.subreddit,
comment_count = EXCLUDED.comment_count,
root_count = EXCLUDED.root_count,
created_utc_min = EXCLUDED.created_utc_min,
created_utc_max = EXCLUDED.created_utc_max,
orphan_comments = EXCLUDED.orphan_comments,
comments = EXCLUDED.comments`

// insertQuery собирает INSERT для ветки; комментарии сериализуются в JSON.
func (s *ThreadsStorage) insertQuery(rec *models.ThreadRecord) (string, []any, error) {
	comments, err := json.Marshal(models.Flatten(rec.Roots))
	if err != nil {
		return "", nil, err
	}

	q := psql.Insert(tableThreads).
		Columns(threadColumns()...).
		Values(
			rec.LinkID,
			rec.Subreddit,
			rec.CommentCount,
			rec.RootCount,
			rec.CreatedUTCMin,
			rec.CreatedUTCMax,
			rec.OrphanComments,
			string(comments),
		)

	if s.replace {
		q = q.Suffix(upsertSuffix)
	}

	return q.ToSql()
}

// WriteThread сохраняет ветку.
// Ошибки: storage.ErrConflict при повторе link_id без replace, иные — как есть.
func (s *ThreadsStorage) WriteThread(ctx context.Context, rec *models.ThreadRecord) error {
	const op = "storage/postgres/threads/WriteThread"

	query, args, err := s.insertQuery(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// scanThread сканирует строку веток и восстанавливает дерево из JSONB.
func scanThread(row pgx.Row) (*models.ThreadRecord, error) {
	var (
		rec      models.ThreadRecord
		comments []byte
	)

	if err := row.Scan(
		&rec.LinkID,
		&rec.Subreddit,
		&rec.CommentCount,
		&rec.RootCount,
		&rec.CreatedUTCMin,
		&rec.CreatedUTCMax,
		&rec.OrphanComments,
		&comments,
	); err != nil {
		return nil, err
	}

	var flat []models.FlatNode
	if err := json.Unmarshal(comments, &flat); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	roots, err := models.Unflatten(flat)
	if err != nil {
		return nil, err
	}
	rec.Roots = roots

	return &rec, nil
}

// ThreadByLinkID возвращает ветку по link_id.
// Ошибки: storage.ErrNotFound, либо ошибка выполнения запроса.
func (s *ThreadsStorage) ThreadByLinkID(ctx context.Context, linkID string) (*models.ThreadRecord, error) {
	const op = "storage/postgres/threads/ThreadByLinkID"

	query, args, err := psql.Select(threadColumns()...).
		From(tableThreads).
		Where(sq.Eq{fieldLinkID: linkID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := scanThread(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}
