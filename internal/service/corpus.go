package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/pkg/log"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

// DocumentWriter принимает документы корпуса.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, doc *models.Document) error
}

// CorpusStats — итог построения корпуса.
type CorpusStats struct {
	Considered int
	Written    int
}

// BuildCorpus превращает каждую ветку источника в один текстовый документ.
//
// Правила (значения из cfg.Corpus):
//   - ветки с comment_count < min_comments пропускаются;
//   - текст — тела комментариев в порядке обхода в глубину (корни по порядку),
//     body_cleaned приоритетнее body, пустые после обрезки пробелов пропускаются,
//     части соединяются через "\n";
//   - ветка с пустым текстом пропускается;
//   - после max_docs документов чтение прекращается (0 — без ограничения).
func (s *Service) BuildCorpus(ctx context.Context, src storage.ThreadSource, dst DocumentWriter) (CorpusStats, error) {
	const op = "service/corpus/BuildCorpus"

	lg := log.Op(ctx, op)
	cc := s.cfg.Corpus

	var st CorpusStats
	err := src.ForEach(ctx, func(_ int, rec *models.ThreadRecord) error {
		st.Considered++

		if rec.CommentCount >= cc.MinComments {
			if text := ThreadText(rec); text != "" {
				doc := &models.Document{
					LinkID:        rec.LinkID,
					Subreddit:     rec.Subreddit,
					CommentCount:  rec.CommentCount,
					RootCount:     rec.RootCount,
					CreatedUTCMin: rec.CreatedUTCMin,
					CreatedUTCMax: rec.CreatedUTCMax,
					Text:          text,
				}
				if err := dst.WriteDocument(ctx, doc); err != nil {
					return fmt.Errorf("write document %s: %w", rec.LinkID, err)
				}
				st.Written++
				s.metrics.DocumentsWritten.Inc()

				if cc.MaxDocs > 0 && st.Written >= cc.MaxDocs {
					return storage.ErrStop
				}
			}
		}

		if cc.ReportEvery > 0 && st.Considered%cc.ReportEvery == 0 {
			lg.Info("corpus_progress",
				slog.String("threads", humanize.Comma(int64(st.Considered))),
				slog.String("documents", humanize.Comma(int64(st.Written))),
			)
		}

		return nil
	})
	if err != nil && !errors.Is(err, storage.ErrStop) {
		return st, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("corpus_done",
		slog.Int("considered", st.Considered),
		slog.Int("written", st.Written),
	)

	return st, nil
}

// ThreadText склеивает тексты комментариев ветки в порядке обхода в глубину.
func ThreadText(rec *models.ThreadRecord) string {
	var b strings.Builder
	models.Walk(rec.Roots, func(n *models.ThreadNode) bool {
		text := n.BodyCleaned
		if text == nil || *text == "" {
			text = n.Body
		}
		if text == nil {
			return true
		}
		if t := strings.TrimSpace(*text); t != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(t)
		}
		return true
	})

	return b.String()
}
