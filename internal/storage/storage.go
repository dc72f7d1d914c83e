// storage определяет контракты вывода и чтения собранных веток.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/reddit-threads/internal/models"
)

var (
	// ErrNotFound — ветка отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — ветка с таким link_id уже сохранена, а перезапись выключена.
	ErrConflict = errors.New("conflict")
)

// ThreadSink принимает собранные ветки в порядке публикаций.
type ThreadSink interface {
	// WriteThread сохраняет одну полностью собранную ветку.
	// Реализация не должна удерживать rec после возврата.
	WriteThread(ctx context.Context, rec *models.ThreadRecord) error
	// Close дописывает буферы и освобождает ресурсы.
	Close(ctx context.Context) error
}

// ThreadFinder ищет ветку по id публикации.
// Если ветки нет — ErrNotFound.
type ThreadFinder interface {
	ThreadByLinkID(ctx context.Context, linkID string) (*models.ThreadRecord, error)
}

// Pinger проверяет доступность хранилища (readiness).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ThreadSource последовательно отдаёт сохранённые ветки (JSONL-файл).
type ThreadSource interface {
	ThreadFinder
	// ForEach вызывает fn для каждой ветки по порядку; fn может вернуть ErrStop.
	ForEach(ctx context.Context, fn func(i int, rec *models.ThreadRecord) error) error
	// ThreadAt возвращает ветку по порядковому номеру (с нуля).
	ThreadAt(ctx context.Context, i int) (*models.ThreadRecord, error)
}

// ErrStop прерывает ForEach без ошибки.
var ErrStop = errors.New("stop iteration")
