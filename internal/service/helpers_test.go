package service

// Тесты сервисного слоя (internal/service).
//
//  Проверяем:
//  - группировку и порядок публикаций;
//  - сборку деревьев: корни, сироты, циклы, глубокие цепочки;
//  - порог, лимит, пропуск публикаций без корней и детерминизм при нескольких воркерах;
//  - корпус, поиск, рендер и экспорт поверх JSONL.
//
// Подготовка окружения:
//   mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//   go test ./internal/service -v -race -count=1

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/reddit-threads/internal/config"
	"github.com/pribylovaa/reddit-threads/internal/graph"
	"github.com/pribylovaa/reddit-threads/internal/ingest"
	"github.com/pribylovaa/reddit-threads/internal/models"
)

// line — строка входа в формате дампа.
func line(id, parent, link string, created int64) string {
	return fmt.Sprintf(`{"id":%q,"parent_id":%q,"link_id":%q,"subreddit":"test","created_utc":%d,"score":1,"body":"body %s"}`,
		id, parent, link, created, id)
}

// mustIndex строит индекс и граф из строк.
func mustIndex(t *testing.T, lines ...string) (*ingest.Index, *graph.Graph) {
	t.Helper()

	idx, _, err := ingest.NewReader(ingest.Options{}).Read(context.Background(), strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	return idx, graph.Build(idx)
}

// testConfig — конфигурация с дефолтами сборки.
func testConfig(workers, minComments, maxThreads int) config.Config {
	return config.Config{
		Reconstruct: config.ReconstructConfig{
			MinComments: minComments,
			MaxThreads:  maxThreads,
			Workers:     workers,
		},
		Corpus: config.CorpusConfig{MinComments: 5},
		Render: config.RenderConfig{MaxBodyChars: 140},
	}
}

// collectSink — потокобезопасный sink, запоминающий записи.
type collectSink struct {
	mu   sync.Mutex
	recs []*models.ThreadRecord
	err  error
	// failAt — номер записи (с 1), на которой вернуть err.
	failAt int
}

func (c *collectSink) WriteThread(_ context.Context, rec *models.ThreadRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failAt > 0 && len(c.recs)+1 == c.failAt {
		return c.err
	}
	c.recs = append(c.recs, rec)

	return nil
}

func (c *collectSink) Close(context.Context) error { return nil }

func (c *collectSink) linkIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, len(c.recs))
	for i, r := range c.recs {
		ids[i] = r.LinkID
	}

	return ids
}

// subtreeSize считает узлы обходом.
func subtreeSize(roots []*models.ThreadNode) int {
	n := 0
	models.Walk(roots, func(*models.ThreadNode) bool { n++; return true })
	return n
}
