// handlers — REST-обработчики чтения собранных веток.
package handlers

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

// ThreadService — операции сервиса, нужные обработчикам.
type ThreadService interface {
	LookupThread(ctx context.Context, finder storage.ThreadFinder, linkID string) (*models.ThreadRecord, error)
	MaxBodyChars() int
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc    ThreadService
	finder storage.ThreadFinder
}

func New(svc ThreadService, finder storage.ThreadFinder) *Handlers {
	return &Handlers{svc: svc, finder: finder}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
