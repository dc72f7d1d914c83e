package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/pkg/log"
	"github.com/pribylovaa/reddit-threads/internal/render"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

// ThreadQuery — выбор ветки: по LinkID, если он задан, иначе по порядковому номеру.
type ThreadQuery struct {
	LinkID string
	Index  int
}

// FindThread возвращает ветку из источника. ErrNotFound — ветки нет,
// ErrInvalidArgument — отрицательный индекс.
func (s *Service) FindThread(ctx context.Context, src storage.ThreadSource, q ThreadQuery) (*models.ThreadRecord, error) {
	const op = "service/view/FindThread"

	var (
		rec *models.ThreadRecord
		err error
	)

	switch {
	case q.LinkID != "":
		rec, err = src.ThreadByLinkID(ctx, q.LinkID)
	case q.Index < 0:
		return nil, fmt.Errorf("%s: index %d: %w", op, q.Index, ErrInvalidArgument)
	default:
		rec, err = src.ThreadAt(ctx, q.Index)
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}

// LookupThread ищет ветку по link_id в хранилище с доступом по ключу.
func (s *Service) LookupThread(ctx context.Context, finder storage.ThreadFinder, linkID string) (*models.ThreadRecord, error) {
	const op = "service/view/LookupThread"

	if strings.TrimSpace(linkID) == "" {
		return nil, fmt.Errorf("%s: empty link_id: %w", op, ErrInvalidArgument)
	}

	rec, err := finder.ThreadByLinkID(ctx, linkID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}

// MaxBodyChars — лимит длины тела комментария при рендеринге по умолчанию.
func (s *Service) MaxBodyChars() int { return s.cfg.Render.MaxBodyChars }

// RenderThread находит ветку и возвращает её текстовое представление.
func (s *Service) RenderThread(ctx context.Context, src storage.ThreadSource, q ThreadQuery) (string, error) {
	rec, err := s.FindThread(ctx, src, q)
	if err != nil {
		return "", err
	}

	return render.Thread(rec, s.cfg.Render.MaxBodyChars), nil
}

// ExportText пишет каждую ветку источника в отдельный файл dir/NNNNNN_<link_id>.txt.
// limit > 0 ограничивает число файлов. Возвращает число записанных файлов.
func (s *Service) ExportText(ctx context.Context, src storage.ThreadSource, dir string, limit int) (int, error) {
	const op = "service/view/ExportText"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	exported := 0
	err := src.ForEach(ctx, func(i int, rec *models.ThreadRecord) error {
		name := fmt.Sprintf("%06d_%s.txt", i, SanitizeFilename(rec.LinkID))
		content := render.Thread(rec, s.cfg.Render.MaxBodyChars) + "\n"

		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}

		exported++
		if limit > 0 && exported >= limit {
			return storage.ErrStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, storage.ErrStop) {
		return exported, fmt.Errorf("%s: %w", op, err)
	}

	log.Op(ctx, op).Info("export_done",
		slog.String("dir", dir),
		slog.Int("files", exported),
	)

	return exported, nil
}

// SanitizeFilename оставляет буквы, цифры, '-' и '_', остальное заменяет на '_'.
func SanitizeFilename(linkID string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, linkID)

	if safe == "" {
		return "thread"
	}

	return safe
}
