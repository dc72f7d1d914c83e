package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

const readBufferSize = 1 << 20

var (
	_ storage.ThreadSource = (*Reader)(nil)
	_ storage.Pinger       = (*Reader)(nil)
)

// Reader читает ветки из JSONL-файла. Каждый проход открывает файл заново,
// поэтому один Reader можно использовать из нескольких горутин.
type Reader struct {
	path string
}

// Open проверяет, что файл существует и это не каталог.
func Open(path string) (*Reader, error) {
	const op = "storage/jsonl/Open"

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s: %s is a directory", op, path)
	}

	return &Reader{path: path}, nil
}

// Ping проверяет, что файл всё ещё доступен.
func (r *Reader) Ping(_ context.Context) error {
	if _, err := os.Stat(r.path); err != nil {
		return fmt.Errorf("storage/jsonl/Ping: %w", err)
	}
	return nil
}

// Path возвращает путь к файлу.
func (r *Reader) Path() string { return r.path }

// ForEach вызывает fn для каждой непустой строки по порядку; i — номер записи с нуля.
// storage.ErrStop из fn прерывает обход и возвращается как есть.
func (r *Reader) ForEach(ctx context.Context, fn func(i int, rec *models.ThreadRecord) error) error {
	const op = "storage/jsonl/ForEach"

	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, readBufferSize)
	lineNo, i := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("%s: %w", op, readErr)
		}
		if len(line) == 0 && readErr != nil {
			return nil
		}
		lineNo++

		if line = bytes.TrimSpace(line); len(line) > 0 {
			rec, err := models.DecodeThreadRecord(line)
			if err != nil {
				return fmt.Errorf("%s: line %d: %w", op, lineNo, err)
			}

			if err := fn(i, rec); err != nil {
				if errors.Is(err, storage.ErrStop) {
					return err
				}
				return fmt.Errorf("%s: %w", op, err)
			}
			i++
		}

		if readErr != nil {
			return nil
		}
	}
}

// ThreadByLinkID ищет первую ветку с данным link_id.
func (r *Reader) ThreadByLinkID(ctx context.Context, linkID string) (*models.ThreadRecord, error) {
	return r.find(ctx, func(_ int, rec *models.ThreadRecord) bool { return rec.LinkID == linkID })
}

// ThreadAt возвращает i-ю (с нуля) непустую запись файла.
func (r *Reader) ThreadAt(ctx context.Context, i int) (*models.ThreadRecord, error) {
	return r.find(ctx, func(j int, _ *models.ThreadRecord) bool { return j == i })
}

func (r *Reader) find(ctx context.Context, match func(i int, rec *models.ThreadRecord) bool) (*models.ThreadRecord, error) {
	var found *models.ThreadRecord

	err := r.ForEach(ctx, func(i int, rec *models.ThreadRecord) error {
		if match(i, rec) {
			found = rec
			return storage.ErrStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, storage.ErrStop) {
		return nil, err
	}
	if found == nil {
		return nil, storage.ErrNotFound
	}

	return found, nil
}
