// postgres предоставляет реализацию storage.ThreadSink и storage.ThreadFinder на базе PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tableThreads = "threads"

// schema — таблица веток. Комментарии хранятся плоским pre-order списком в JSONB.
const schema = `
CREATE TABLE IF NOT EXISTS threads (
	link_id         TEXT PRIMARY KEY,
	subreddit       TEXT NOT NULL,
	comment_count   INTEGER NOT NULL,
	root_count      INTEGER NOT NULL,
	created_utc_min BIGINT NOT NULL,
	created_utc_max BIGINT NOT NULL,
	orphan_comments INTEGER NOT NULL,
	comments        JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS threads_created_min_idx ON threads (created_utc_min, link_id);
`

// psql — построитель запросов с плейсхолдерами $N.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type ThreadsStorage struct {
	db      *pgxpool.Pool
	replace bool
}

// New создает пул соединений, проверяет его и создает схему.
// replace=true включает перезапись существующих веток.
func New(ctx context.Context, dbURL string, replace bool) (*ThreadsStorage, error) {
	const op = "storage/postgres/New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &ThreadsStorage{db: db, replace: replace}, nil
}

// Ping проверяет доступность пула.
func (s *ThreadsStorage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close закрывает пул соединений.
func (s *ThreadsStorage) Close(_ context.Context) error {
	s.db.Close()
	return nil
}
