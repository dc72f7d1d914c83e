package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/storage"
	"github.com/pribylovaa/reddit-threads/mocks"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func TestFindThread(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := mocks.NewMockThreadSource(ctrl)
	s := New(nil, testConfig(1, 1, 0), nil)
	want := &models.ThreadRecord{LinkID: "t3_a"}

	src.EXPECT().ThreadByLinkID(gomock.Any(), "t3_a").Return(want, nil)
	got, err := s.FindThread(context.Background(), src, ThreadQuery{LinkID: "t3_a"})
	require.NoError(t, err)
	require.Same(t, want, got)

	src.EXPECT().ThreadAt(gomock.Any(), 3).Return(nil, storage.ErrNotFound)
	_, err = s.FindThread(context.Background(), src, ThreadQuery{Index: 3})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindThread(context.Background(), src, ThreadQuery{Index: -1})
	require.ErrorIs(t, err, ErrInvalidArgument)

	boom := errors.New("io")
	src.EXPECT().ThreadByLinkID(gomock.Any(), "t3_b").Return(nil, boom)
	_, err = s.FindThread(context.Background(), src, ThreadQuery{LinkID: "t3_b"})
	require.ErrorIs(t, err, boom)
}

func TestLookupThread(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	finder := mocks.NewMockThreadFinder(ctrl)
	s := New(nil, testConfig(1, 1, 0), nil)
	want := &models.ThreadRecord{LinkID: "t3_a"}

	finder.EXPECT().ThreadByLinkID(gomock.Any(), "t3_a").Return(want, nil)
	got, err := s.LookupThread(context.Background(), finder, "t3_a")
	require.NoError(t, err)
	require.Same(t, want, got)

	finder.EXPECT().ThreadByLinkID(gomock.Any(), "t3_x").Return(nil, storage.ErrNotFound)
	_, err = s.LookupThread(context.Background(), finder, "t3_x")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.LookupThread(context.Background(), finder, "  ")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRenderThread(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := mocks.NewMockThreadSource(ctrl)
	s := New(nil, testConfig(1, 1, 0), nil)

	src.EXPECT().ThreadAt(gomock.Any(), 0).Return(&models.ThreadRecord{
		LinkID: "t3_a", Subreddit: "x", CommentCount: 1, RootCount: 1,
		Roots: []*models.ThreadNode{node("t1_r", strPtr("hi"), nil)},
	}, nil)

	out, err := s.RenderThread(context.Background(), src, ThreadQuery{})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Thread t3_a | subreddit=x"))
	require.Contains(t, out, "Root #1")
	require.Contains(t, out, "\n  hi")
}

func TestExportText(t *testing.T) {
	t.Parallel()

	recs := []*models.ThreadRecord{
		{LinkID: "t3_a", Roots: []*models.ThreadNode{node("t1_r", strPtr("a"), nil)}},
		{LinkID: "t3/b?", Roots: []*models.ThreadNode{}},
		{LinkID: "", Roots: []*models.ThreadNode{}},
	}

	dir := filepath.Join(t.TempDir(), "out")
	s := New(nil, testConfig(1, 1, 0), nil)

	n, err := s.ExportText(context.Background(), sourceOf(t, recs...), dir, 0)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"000000_t3_a.txt", "000001_t3_b_.txt", "000002_thread.txt"}, names)

	data, err := os.ReadFile(filepath.Join(dir, "000000_t3_a.txt"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"))

	limited := filepath.Join(t.TempDir(), "lim")
	n, err = s.ExportText(context.Background(), sourceOf(t, recs...), limited, 2)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	require.Equal(t, "t3_abc", SanitizeFilename("t3_abc"))
	require.Equal(t, "a_b-c", SanitizeFilename("a.b-c"))
	require.Equal(t, "thread", SanitizeFilename(""))
}
