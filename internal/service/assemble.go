package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pribylovaa/reddit-threads/internal/graph"
	"github.com/pribylovaa/reddit-threads/internal/ingest"
	"github.com/pribylovaa/reddit-threads/internal/models"
	"github.com/pribylovaa/reddit-threads/internal/pkg/log"
)

// Причины пропуска публикации (метка метрики threads_skipped_total).
const (
	skipBelowMin = "below_min_comments"
	skipNoRoots  = "no_roots"
)

// Stats — итог сборки.
type Stats struct {
	Ingest        ingest.Stats
	Submissions   int
	Eligible      int
	Emitted       int
	SkippedSmall  int
	SkippedEmpty  int
	OrphanComment int
	Elapsed       time.Duration
}

// Reconstruct читает вход, строит граф и выпускает ветки в sink.
// Ошибки разбора (MalformedRecordError, DuplicateCommentError) и ошибки ввода-вывода фатальны.
func (s *Service) Reconstruct(ctx context.Context, in io.Reader) (Stats, error) {
	const op = "service/assemble/Reconstruct"

	lg := log.Op(ctx, op)
	rc := s.cfg.Reconstruct
	start := time.Now()

	stage := time.Now()
	idx, ist, err := ingest.NewReader(ingest.Options{
		Subreddit:   rc.Subreddit,
		ReportEvery: rc.ReportEvery,
	}).Read(ctx, in)
	s.metrics.LinesRead.Add(float64(ist.Lines))
	if err != nil {
		return Stats{Ingest: ist}, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CommentsIndexed.Add(float64(ist.Comments))
	s.metrics.CommentsFiltered.Add(float64(ist.Filtered))
	s.metrics.StageDuration.WithLabelValues("ingest").Observe(time.Since(stage).Seconds())

	stage = time.Now()
	g := graph.Build(idx)
	s.metrics.StageDuration.WithLabelValues("graph").Observe(time.Since(stage).Seconds())
	lg.Info("graph_built",
		slog.Int("nodes", g.Len()),
		slog.Duration("elapsed", time.Since(stage)),
	)

	stage = time.Now()
	groups := GroupSubmissions(idx)
	s.metrics.StageDuration.WithLabelValues("group").Observe(time.Since(stage).Seconds())
	lg.Info("submissions_grouped", slog.Int("submissions", len(groups)))

	st, err := s.Assemble(ctx, idx, g, groups)
	st.Ingest = ist
	st.Elapsed = time.Since(start)
	if err != nil {
		return st, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("reconstruct_done",
		slog.String("threads", humanize.Comma(int64(st.Emitted))),
		slog.Int("submissions", st.Submissions),
		slog.Int("skipped_small", st.SkippedSmall),
		slog.Int("skipped_empty", st.SkippedEmpty),
		slog.Int("orphan_comments", st.OrphanComment),
		slog.Duration("elapsed", st.Elapsed),
	)

	return st, nil
}

// Assemble применяет порог и лимит, собирает деревья и пишет их в sink по порядку групп.
//
// Правила:
//   - порог min_comments сравнивается с размером группы до отбора корней;
//   - публикация без корней пропускается без ошибки;
//   - после max_threads записей новые группы не берутся (0 — без ограничения);
//   - запись целиком собирается до WriteThread.
func (s *Service) Assemble(ctx context.Context, idx *ingest.Index, g *graph.Graph, groups []SubmissionGroup) (Stats, error) {
	const op = "service/assemble/Assemble"

	lg := log.Op(ctx, op)
	rc := s.cfg.Reconstruct
	start := time.Now()

	st := Stats{Submissions: len(groups)}
	s.metrics.Submissions.Add(float64(len(groups)))

	eligible := make([]*SubmissionGroup, 0, len(groups))
	for i := range groups {
		if len(groups[i].Members) < rc.MinComments {
			st.SkippedSmall++
			continue
		}
		eligible = append(eligible, &groups[i])
	}
	st.Eligible = len(eligible)
	s.metrics.ThreadsSkipped.WithLabelValues(skipBelowMin).Add(float64(st.SkippedSmall))

	// Начатые до отмены группы дописываются, поэтому запись не зависит от отмены ctx.
	writeCtx := context.WithoutCancel(ctx)

	build := func(i int) *models.ThreadRecord {
		return Materialize(idx, g, eligible[i])
	}

	emit := func(i int, rec *models.ThreadRecord) (bool, error) {
		if rec == nil {
			st.SkippedEmpty++
			s.metrics.ThreadsSkipped.WithLabelValues(skipNoRoots).Inc()
			lg.Debug("thread_skipped",
				slog.String("link_id", eligible[i].LinkID),
				slog.String("reason", skipNoRoots),
			)
			return false, nil
		}

		if err := s.sink.WriteThread(writeCtx, rec); err != nil {
			return true, fmt.Errorf("write thread %s: %w", rec.LinkID, err)
		}

		st.Emitted++
		st.OrphanComment += rec.OrphanComments
		s.metrics.ThreadsEmitted.Inc()
		s.metrics.OrphanComments.Add(float64(rec.OrphanComments))
		s.metrics.ThreadSize.Observe(float64(rec.CommentCount))

		if rc.ReportEvery > 0 && st.Emitted%rc.ReportEvery == 0 {
			lg.Info("assemble_progress",
				slog.String("threads", humanize.Comma(int64(st.Emitted))),
				slog.Int("of", len(eligible)),
			)
		}

		return rc.MaxThreads > 0 && st.Emitted >= rc.MaxThreads, nil
	}

	err := runOrdered(ctx, len(eligible), rc.Workers, build, emit)
	s.metrics.StageDuration.WithLabelValues("assemble").Observe(time.Since(start).Seconds())
	if err != nil {
		return st, fmt.Errorf("%s: %w", op, err)
	}

	return st, nil
}
