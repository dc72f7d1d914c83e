package jsonl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

func strPtr(s string) *string { return &s }

func record(linkID string, created int64) *models.ThreadRecord {
	root := &models.ThreadNode{
		ID: "t1_" + linkID, ParentID: linkID, Author: strPtr("a"), Body: strPtr("<b>&</b>"),
		CreatedUTC: created, Children: []*models.ThreadNode{},
	}
	return &models.ThreadRecord{
		LinkID: linkID, Subreddit: "test", CommentCount: 1, RootCount: 1,
		CreatedUTCMin: created, CreatedUTCMax: created, Roots: []*models.ThreadNode{root},
	}
}

// writeFixture пишет записи через Create и возвращает путь.
func writeFixture(t *testing.T, recs ...*models.ThreadRecord) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "dir", "threads.jsonl")
	w, err := Create(path)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.WriteThread(context.Background(), r))
	}
	require.NoError(t, w.Close(context.Background()))

	return path
}

func TestWriter_OneObjectPerLine_NoHTMLEscape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteThread(context.Background(), record("t3_a", 1)))
	require.NoError(t, w.WriteDocument(context.Background(), &models.Document{LinkID: "t3_a", Text: "x"}))
	require.NoError(t, w.Close(context.Background()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"body":"<b>&</b>"`)
	require.Contains(t, lines[0], `"children":[]`)
	require.Contains(t, lines[1], `"text":"x"`)
}

func TestWriter_Deterministic(t *testing.T) {
	t.Parallel()

	a := writeFixture(t, record("t3_a", 1), record("t3_b", 2))
	b := writeFixture(t, record("t3_a", 1), record("t3_b", 2))

	ba, err := os.ReadFile(a)
	require.NoError(t, err)
	bb, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, ba, bb)
}

func TestCreate_PublishesOnClose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "threads.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteThread(context.Background(), record("t3_a", 1)))

	// До Close на месте path лежит прежний файл.
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "old\n", string(b))

	require.NoError(t, w.Close(context.Background()))

	b, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"link_id":"t3_a"`)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestCreate_AbortKeepsPreviousFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "threads.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteThread(context.Background(), record("t3_a", 1)))
	require.NoError(t, w.Abort(context.Background()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "old\n", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Без прежнего файла Abort ничего не оставляет.
	fresh := filepath.Join(dir, "fresh.jsonl")
	w, err = Create(fresh)
	require.NoError(t, err)
	require.NoError(t, w.Abort(context.Background()))
	_, err = os.Stat(fresh)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader_ForEachAndLookups(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, record("t3_a", 1), record("t3_b", 2), record("t3_c", 3))
	r, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, path, r.Path())

	var ids []string
	require.NoError(t, r.ForEach(context.Background(), func(i int, rec *models.ThreadRecord) error {
		require.Equal(t, len(ids), i)
		ids = append(ids, rec.LinkID)
		return nil
	}))
	require.Equal(t, []string{"t3_a", "t3_b", "t3_c"}, ids)

	rec, err := r.ThreadByLinkID(context.Background(), "t3_b")
	require.NoError(t, err)
	require.Equal(t, "t3_b", rec.LinkID)
	require.Len(t, rec.Roots, 1)
	require.Equal(t, "<b>&</b>", *rec.Roots[0].Body)

	rec, err = r.ThreadAt(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "t3_c", rec.LinkID)

	_, err = r.ThreadByLinkID(context.Background(), "t3_zzz")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = r.ThreadAt(context.Background(), 3)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReader_DeepChainRoundTrip(t *testing.T) {
	t.Parallel()

	const depth = 20_000

	root := &models.ThreadNode{ID: "t1_0", ParentID: "t3_deep", Children: []*models.ThreadNode{}}
	n := root
	for i := 1; i < depth; i++ {
		child := &models.ThreadNode{
			ID: fmt.Sprintf("t1_%d", i), ParentID: n.ID, CreatedUTC: int64(i), Depth: i,
			Children: []*models.ThreadNode{},
		}
		n.Children = append(n.Children, child)
		n = child
	}
	deep := &models.ThreadRecord{
		LinkID: "t3_deep", Subreddit: "test", CommentCount: depth, RootCount: 1,
		CreatedUTCMax: depth - 1, Roots: []*models.ThreadNode{root},
	}

	r, err := Open(writeFixture(t, record("t3_a", 1), deep, record("t3_b", 2)))
	require.NoError(t, err)

	got, err := r.ThreadByLinkID(context.Background(), "t3_deep")
	require.NoError(t, err)
	require.Equal(t, depth, got.CommentCount)

	levels := 0
	for n := got.Roots[0]; ; n = n.Children[0] {
		require.Equal(t, levels, n.Depth)
		levels++
		if len(n.Children) == 0 {
			break
		}
	}
	require.Equal(t, depth, levels)

	// Запись после глубокой строки тоже читается.
	rec, err := r.ThreadAt(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "t3_b", rec.LinkID)
}

func TestReader_SkipsBlankLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "t.jsonl")
	data := "\n" + `{"link_id":"t3_a","roots":[]}` + "\n\n" + `{"link_id":"t3_b","roots":[]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	r, err := Open(path)
	require.NoError(t, err)

	rec, err := r.ThreadAt(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "t3_b", rec.LinkID)
}

func TestReader_ErrStopAndCallbackError(t *testing.T) {
	t.Parallel()

	r, err := Open(writeFixture(t, record("t3_a", 1), record("t3_b", 2)))
	require.NoError(t, err)

	calls := 0
	err = r.ForEach(context.Background(), func(int, *models.ThreadRecord) error {
		calls++
		return storage.ErrStop
	})
	require.ErrorIs(t, err, storage.ErrStop)
	require.Equal(t, 1, calls)

	boom := errors.New("boom")
	err = r.ForEach(context.Background(), func(int, *models.ThreadRecord) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestReader_BadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"link_id":"t3_a","roots":[]}`+"\n{oops\n"), 0o600))

	r, err := Open(path)
	require.NoError(t, err)

	err = r.ForEach(context.Background(), func(int, *models.ThreadRecord) error { return nil })
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "none.jsonl"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(t.TempDir())
	require.Error(t, err)
}

func TestReader_Cancelled(t *testing.T) {
	t.Parallel()

	r, err := Open(writeFixture(t, record("t3_a", 1)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = r.ForEach(ctx, func(int, *models.ThreadRecord) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestReader_Ping(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, record("t3_a", 1))
	r, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Ping(context.Background()))

	require.NoError(t, os.Remove(path))
	require.ErrorIs(t, r.Ping(context.Background()), os.ErrNotExist)
}
