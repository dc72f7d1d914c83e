// cache — Redis-кэш собранных веток для HTTP API.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/reddit-threads/internal/models"
)

// ThreadCache — минимальный контракт кэша веток.
type ThreadCache interface {
	// Get возвращает ветку и признак её наличия в кэше.
	Get(ctx context.Context, linkID string) (*models.ThreadRecord, bool, error)
	// Set сохраняет ветку с TTL.
	Set(ctx context.Context, rec *models.ThreadRecord, ttl time.Duration) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "threads:".
func NewRedisCache(ctx context.Context, redisURL, prefix string) (ThreadCache, error) {
	if prefix == "" {
		prefix = "threads:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(linkID string) string { return c.prefix + linkID }

// Храним запись целиком как JSON строки выхода.
func (c *redisCache) Get(ctx context.Context, linkID string) (*models.ThreadRecord, bool, error) {
	b, err := c.rdb.Get(ctx, c.key(linkID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rec, err := models.DecodeThreadRecord(b)
	if err != nil {
		return nil, false, err
	}

	return rec, true, nil
}

func (c *redisCache) Set(ctx context.Context, rec *models.ThreadRecord, ttl time.Duration) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.key(rec.LinkID), b, ttl).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
