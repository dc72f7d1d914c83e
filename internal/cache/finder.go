package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/pkg/log"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

var (
	_ storage.ThreadFinder = (*Finder)(nil)
	_ storage.Pinger       = (*Finder)(nil)
)

// Finder — read-through кэш перед хранилищем веток.
// Ошибки кэша не ломают чтение: запрос уходит в хранилище.
type Finder struct {
	next  storage.ThreadFinder
	cache ThreadCache
	ttl   time.Duration
}

// NewFinder оборачивает next кэшем c с временем жизни записей ttl.
func NewFinder(next storage.ThreadFinder, c ThreadCache, ttl time.Duration) *Finder {
	return &Finder{next: next, cache: c, ttl: ttl}
}

// ThreadByLinkID сначала смотрит в кэш, затем в хранилище; найденное кладёт в кэш.
// Отсутствие ветки не кэшируется.
func (f *Finder) ThreadByLinkID(ctx context.Context, linkID string) (*models.ThreadRecord, error) {
	const op = "cache/finder/ThreadByLinkID"

	lg := log.Op(ctx, op)

	rec, ok, err := f.cache.Get(ctx, linkID)
	switch {
	case err != nil:
		lg.Warn("cache_get_failed", slog.String("err", err.Error()))
	case ok:
		lg.Debug("cache_hit", slog.String("link_id", linkID))
		return rec, nil
	}

	rec, err = f.next.ThreadByLinkID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, rec, f.ttl); err != nil {
		lg.Warn("cache_set_failed", slog.String("err", err.Error()))
	}

	return rec, nil
}

// Ping проверяет хранилище за кэшем; кэш на готовность не влияет.
func (f *Finder) Ping(ctx context.Context) error {
	if p, ok := f.next.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
