// jsonl реализует построчное JSON-хранилище веток (один объект на строку).
package jsonl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

const writeBufferSize = 1 << 20

var _ storage.ThreadSink = (*Writer)(nil)

// Writer пишет записи в поток по одной на строку. Не потокобезопасен.
type Writer struct {
	bw    *bufio.Writer
	enc   *json.Encoder
	close func() error
	abort func() error
}

// NewWriter оборачивает w. Close сбрасывает буфер, но не закрывает w.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriterSize(w, writeBufferSize)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	noop := func() error { return nil }

	return &Writer{bw: bw, enc: enc, close: noop, abort: noop}
}

// Create пишет во временный файл рядом с path, создавая родительские каталоги.
// Close переносит его на место path, Abort удаляет, и прежний path остаётся как был.
func Create(path string) (*Writer, error) {
	const op = "storage/jsonl/Create"

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w := NewWriter(f)
	w.close = func() error {
		if err := f.Close(); err != nil {
			_ = os.Remove(f.Name())
			return err
		}
		return os.Rename(f.Name(), path)
	}
	w.abort = func() error {
		return errors.Join(f.Close(), os.Remove(f.Name()))
	}

	return w, nil
}

// WriteThread пишет одну ветку.
func (w *Writer) WriteThread(_ context.Context, rec *models.ThreadRecord) error {
	const op = "storage/jsonl/WriteThread"

	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// WriteDocument пишет один документ корпуса.
func (w *Writer) WriteDocument(_ context.Context, doc *models.Document) error {
	const op = "storage/jsonl/WriteDocument"

	if err := w.enc.Encode(doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close сбрасывает буфер и, если Writer создан через Create, публикует файл.
// При ошибке сброса файл не публикуется.
func (w *Writer) Close(_ context.Context) error {
	const op = "storage/jsonl/Close"

	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", op, errors.Join(err, w.abort()))
	}
	if err := w.close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Abort отбрасывает записанное вместо Close: временный файл Create удаляется.
func (w *Writer) Abort(_ context.Context) error {
	const op = "storage/jsonl/Abort"

	if err := w.abort(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
