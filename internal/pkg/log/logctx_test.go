package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Тесты для internal/pkg/log.
//
// Покрытие:
//  - From без логгера -> slog.Default();
//  - Into/From round-trip;
//  - «мусорные» значения и *slog.Logger(nil) под нашим ключом;
//  - Into(nil) оставляет прежний логгер;
//  - With добавляет атрибуты и не трогает родительский контекст;
//  - Op добавляет атрибут op.
//
// Тесты меняют slog.Default(), поэтому t.Parallel() не используется.

func newBuffered(sb *strings.Builder) *slog.Logger {
	return slog.New(slog.NewTextHandler(sb, nil))
}

func TestFrom_ReturnsDefault_WhenNoLoggerInContext(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var sb strings.Builder
	def := newBuffered(&sb)
	slog.SetDefault(def)

	require.Equal(t, def, From(context.Background()))
}

func TestIntoAndFrom_RoundTrip(t *testing.T) {
	var sb strings.Builder
	l := newBuffered(&sb)

	ctx := Into(context.Background(), l)
	require.Equal(t, l, From(ctx))
}

func TestFrom_IgnoresWrongTypeAndNil(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var sb strings.Builder
	def := newBuffered(&sb)
	slog.SetDefault(def)

	ctxWrong := context.WithValue(context.Background(), ctxKey{}, "not-a-logger")
	require.Equal(t, def, From(ctxWrong))

	var nilLogger *slog.Logger
	ctxNil := context.WithValue(context.Background(), ctxKey{}, nilLogger)
	require.Equal(t, def, From(ctxNil))
}

// TestWith_AddsAttrs — атрибуты из With попадают в записи дочернего контекста,
// но не в записи родителя.
func TestWith_AddsAttrs(t *testing.T) {
	var sb strings.Builder
	parent := Into(context.Background(), newBuffered(&sb))

	child := With(parent, "run_id", "r-1")

	From(child).Info("child_event")
	require.Contains(t, sb.String(), "run_id=r-1")

	sb.Reset()
	From(parent).Info("parent_event")
	require.NotContains(t, sb.String(), "run_id")
}

func TestInto_NilKeepsParentLogger(t *testing.T) {
	var sb strings.Builder
	l := newBuffered(&sb)

	ctx := Into(Into(context.Background(), l), nil)
	require.Equal(t, l, From(ctx))
}

func TestOp_AddsOperation(t *testing.T) {
	var sb strings.Builder
	ctx := With(Into(context.Background(), newBuffered(&sb)), "run_id", "r-2")

	Op(ctx, "service/assemble/Assemble").Info("assemble_progress")

	out := sb.String()
	require.Contains(t, out, "run_id=r-2")
	require.Contains(t, out, "op=service/assemble/Assemble")
	require.Contains(t, out, "msg=assemble_progress")
}
