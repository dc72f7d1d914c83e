package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pribylovaa/reddit-threads/internal/pkg/log"
)

const (
	readBufferSize = 1 << 20
	// Как часто (в строках) проверяется отмена контекста.
	ctxCheckEvery = 4096
)

// Options — настройки чтения входа.
type Options struct {
	// Subreddit — фильтр по сабреддиту без учёта регистра; пустая строка отключает фильтр.
	Subreddit string
	// ReportEvery — период прогресс-лога в строках; 0 отключает лог.
	ReportEvery int
}

// Stats — итог чтения.
type Stats struct {
	Lines    int
	Records  int
	Filtered int
	Comments int
	Elapsed  time.Duration
}

// Reader читает построчный вход и строит Index.
type Reader struct {
	opts Options
}

// NewReader создаёт Reader.
func NewReader(opts Options) *Reader {
	return &Reader{opts: opts}
}

// Read читает весь поток r.
//
// Особенности:
//   - пустые строки пропускаются, но учитываются в нумерации и прогрессе;
//   - валидация выполняется до фильтра по сабреддиту: битая строка из чужого
//     сабреддита всё равно прерывает чтение;
//   - ошибки чтения оборачиваются через %w.
func (rd *Reader) Read(ctx context.Context, r io.Reader) (*Index, Stats, error) {
	const op = "ingest/reader/Read"

	lg := log.Op(ctx, op)
	start := time.Now()

	br := bufio.NewReaderSize(r, readBufferSize)
	b := NewBuilder(0)

	var st Stats
	for {
		if st.Lines%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, st, fmt.Errorf("%s: %w", op, err)
			}
		}

		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, st, fmt.Errorf("%s: line %d: %w", op, st.Lines+1, readErr)
		}
		if len(line) == 0 && readErr != nil {
			break
		}

		st.Lines++
		if err := rd.consume(b, bytes.TrimSpace(line), st.Lines, &st); err != nil {
			return nil, st, fmt.Errorf("%s: %w", op, err)
		}

		if rd.opts.ReportEvery > 0 && st.Lines%rd.opts.ReportEvery == 0 {
			lg.Info("ingest_progress",
				slog.String("lines", humanize.Comma(int64(st.Lines))),
				slog.String("comments", humanize.Comma(int64(st.Comments))),
			)
		}

		if readErr != nil {
			break
		}
	}

	st.Elapsed = time.Since(start)
	lg.Info("ingest_done",
		slog.Int("lines", st.Lines),
		slog.Int("records", st.Records),
		slog.Int("filtered", st.Filtered),
		slog.Int("comments", st.Comments),
		slog.Duration("elapsed", st.Elapsed),
	)

	return b.Freeze(), st, nil
}

func (rd *Reader) consume(b *Builder, line []byte, lineNo int, st *Stats) error {
	if len(line) == 0 {
		return nil
	}

	c, err := ParseLine(line, lineNo)
	if err != nil {
		return err
	}
	st.Records++

	if rd.opts.Subreddit != "" && !strings.EqualFold(c.Subreddit, rd.opts.Subreddit) {
		st.Filtered++
		return nil
	}

	if err := b.Add(c, lineNo); err != nil {
		return err
	}
	st.Comments++

	return nil
}
