package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/reddit-threads/internal/ingest"
	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/storage/jsonl"
	"github.com/pribylovaa/reddit-threads/mocks"
)

// newServiceWithMocks — сервис с моком sink.
func newServiceWithMocks(t *testing.T, cfg ...func(c *Service)) (*Service, *mocks.MockThreadSink) {
	t.Helper()

	ctrl := gomock.NewController(t)
	ms := mocks.NewMockThreadSink(ctrl)
	s := New(ms, testConfig(1, 1, 0), nil)
	for _, f := range cfg {
		f(s)
	}

	return s, ms
}

const s1Input = `{"id":"c1","parent_id":"s1","link_id":"s1","subreddit":"test","created_utc":10}
{"id":"c2","parent_id":"t1_c1","link_id":"s1","subreddit":"test","created_utc":20}
{"id":"c3","parent_id":"s1","link_id":"s1","subreddit":"test","created_utc":15}
`

func TestReconstruct_EndToEnd(t *testing.T) {
	t.Parallel()

	s, ms := newServiceWithMocks(t)

	ms.EXPECT().WriteThread(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *models.ThreadRecord) error {
			require.Equal(t, "s1", rec.LinkID)
			require.Equal(t, 3, rec.CommentCount)
			require.Equal(t, 2, rec.RootCount)
			require.Equal(t, "t1_c1", rec.Roots[0].ID)
			require.Equal(t, "t1_c3", rec.Roots[1].ID)
			require.Equal(t, "t1_c2", rec.Roots[0].Children[0].ID)
			require.Equal(t, 1, rec.Roots[0].Children[0].Depth)
			return nil
		}).Times(1)

	st, err := s.Reconstruct(context.Background(), strings.NewReader(s1Input))
	require.NoError(t, err)
	require.Equal(t, 1, st.Emitted)
	require.Equal(t, 1, st.Submissions)
	require.Equal(t, 3, st.Ingest.Comments)
}

func TestReconstruct_Threshold(t *testing.T) {
	t.Parallel()

	s, _ := newServiceWithMocks(t, func(s *Service) { s.cfg.Reconstruct.MinComments = 5 })

	// WriteThread не ожидается: три комментария меньше порога.
	st, err := s.Reconstruct(context.Background(), strings.NewReader(s1Input))
	require.NoError(t, err)
	require.Zero(t, st.Emitted)
	require.Equal(t, 1, st.SkippedSmall)
}

func TestReconstruct_Cap(t *testing.T) {
	t.Parallel()

	in := s1Input +
		`{"id":"e1","parent_id":"t3_early","link_id":"t3_early","created_utc":5}` + "\n"

	for _, workers := range []int{1, 4} {
		s, ms := newServiceWithMocks(t, func(s *Service) {
			s.cfg.Reconstruct.MaxThreads = 1
			s.cfg.Reconstruct.Workers = workers
		})

		ms.EXPECT().WriteThread(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, rec *models.ThreadRecord) error {
				require.Equal(t, "t3_early", rec.LinkID)
				return nil
			}).Times(1)

		st, err := s.Reconstruct(context.Background(), strings.NewReader(in))
		require.NoError(t, err)
		require.Equal(t, 1, st.Emitted)
	}
}

func TestReconstruct_ZeroRootSubmissionSkipped(t *testing.T) {
	t.Parallel()

	in := `{"id":"a","parent_id":"t1_b","link_id":"t3_loop","created_utc":1}
{"id":"b","parent_id":"t1_a","link_id":"t3_loop","created_utc":2}
` + s1Input

	s, ms := newServiceWithMocks(t)
	ms.EXPECT().WriteThread(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	st, err := s.Reconstruct(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, st.Emitted)
	require.Equal(t, 1, st.SkippedEmpty)
}

func TestReconstruct_SinkErrorIsFatal(t *testing.T) {
	t.Parallel()

	in := s1Input + `{"id":"z","parent_id":"t3_z","link_id":"t3_z","created_utc":99}` + "\n"
	boom := errors.New("disk full")

	s, ms := newServiceWithMocks(t)
	ms.EXPECT().WriteThread(gomock.Any(), gomock.Any()).Return(boom).Times(1)

	_, err := s.Reconstruct(context.Background(), strings.NewReader(in))
	require.ErrorIs(t, err, boom)
}

func TestReconstruct_MalformedAndDuplicate(t *testing.T) {
	t.Parallel()

	s, _ := newServiceWithMocks(t)

	_, err := s.Reconstruct(context.Background(), strings.NewReader(s1Input+`{"id":"x"}`))
	require.ErrorIs(t, err, ingest.ErrMalformedRecord)

	_, err = s.Reconstruct(context.Background(), strings.NewReader(s1Input+
		`{"id":"t1_c3","parent_id":"s1","link_id":"s1","created_utc":1}`))
	require.ErrorIs(t, err, ingest.ErrDuplicateComment)
}

func TestReconstruct_SubredditFilterTurnsParentsIntoOrphans(t *testing.T) {
	t.Parallel()

	in := `{"id":"p","parent_id":"t3_s","link_id":"t3_s","subreddit":"other","created_utc":1}
{"id":"c","parent_id":"t1_p","link_id":"t3_s","subreddit":"Test","created_utc":2}
`
	sink := &collectSink{}
	s := New(sink, testConfig(1, 1, 0), nil)
	s.cfg.Reconstruct.Subreddit = "test"

	_, err := s.Reconstruct(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, sink.recs, 1)
	require.Equal(t, 1, sink.recs[0].OrphanComments)
	require.Equal(t, "Test", sink.recs[0].Subreddit)
}

// genInput — много публикаций с совпадающими временами и вложенностью.
func genInput(submissions, perSubmission int) string {
	var b strings.Builder
	for s := range submissions {
		link := fmt.Sprintf("t3_%04d", s)
		for c := range perSubmission {
			parent := link
			if c > 0 {
				parent = fmt.Sprintf("t1_%04d_%03d", s, (c-1)/2)
			}
			if c%7 == 6 {
				parent = "t1_missing"
			}
			fmt.Fprintf(&b, `{"id":"%04d_%03d","parent_id":%q,"link_id":%q,"created_utc":%d,"body":"b"}`+"\n",
				s, c, parent, link, (s%13)*10+c%3)
		}
	}
	return b.String()
}

func TestReconstruct_DeterministicAcrossWorkers(t *testing.T) {
	t.Parallel()

	in := genInput(300, 15)

	run := func(workers int) []byte {
		var buf bytes.Buffer
		w := jsonl.NewWriter(&buf)
		s := New(w, testConfig(workers, 1, 0), nil)

		st, err := s.Reconstruct(context.Background(), strings.NewReader(in))
		require.NoError(t, err)
		require.Equal(t, 300, st.Emitted)
		require.NoError(t, w.Close(context.Background()))

		return buf.Bytes()
	}

	first := run(1)
	require.Equal(t, first, run(1))
	require.Equal(t, first, run(8))
}

func TestReconstruct_OutputOrderedBySubmission(t *testing.T) {
	t.Parallel()

	sink := &collectSink{}
	s := New(sink, testConfig(4, 1, 0), nil)

	_, err := s.Reconstruct(context.Background(), strings.NewReader(genInput(100, 4)))
	require.NoError(t, err)

	for i := 1; i < len(sink.recs); i++ {
		a, b := sink.recs[i-1], sink.recs[i]
		require.True(t, a.CreatedUTCMin < b.CreatedUTCMin ||
			(a.CreatedUTCMin == b.CreatedUTCMin && a.LinkID < b.LinkID))
	}
}

func TestReconstruct_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(&collectSink{}, testConfig(1, 1, 0), nil)
	_, err := s.Reconstruct(ctx, strings.NewReader(s1Input))
	require.ErrorIs(t, err, context.Canceled)
}
