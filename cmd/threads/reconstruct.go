package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/reddit-threads/internal/config"
	"github.com/pribylovaa/reddit-threads/internal/service"
)

func newReconstructCmd(a *app) *cobra.Command {
	var (
		subreddit   string
		minComments int
		maxThreads  int
		reportEvery int
		workers     int
		sinkKind    string
		replace     bool
	)

	cmd := &cobra.Command{
		Use:   "reconstruct <input> [output]",
		Short: "Rebuild comment trees from a raw comments JSONL dump",
		Long: "Reads a monthly comments dump (\"-\" for stdin), rebuilds one tree per submission " +
			"and writes the records in submission order to the configured sink.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			rc := &a.cfg.Reconstruct
			if flags.Changed("subreddit") {
				rc.Subreddit = subreddit
			}
			if flags.Changed("min-comments") {
				rc.MinComments = minComments
			}
			if flags.Changed("max-threads") {
				rc.MaxThreads = maxThreads
			}
			if flags.Changed("report-every") {
				rc.ReportEvery = reportEvery
			}
			if flags.Changed("workers") {
				rc.Workers = workers
			}
			if flags.Changed("sink") {
				a.cfg.Sink.Kind = sinkKind
			}
			if flags.Changed("replace") {
				a.cfg.Sink.Replace = replace
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			var output string
			if len(args) > 1 {
				output = args[1]
			}

			return a.reconstruct(cmd, args[0], output)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&subreddit, "subreddit", "", "keep only comments of this subreddit (case-insensitive)")
	flags.IntVar(&minComments, "min-comments", 1, "drop submissions with fewer comments")
	flags.IntVar(&maxThreads, "max-threads", 0, "stop after this many threads (0 = unbounded)")
	flags.IntVar(&reportEvery, "report-every", 250000, "log progress every N lines (0 = off)")
	flags.IntVar(&workers, "workers", 1, "parallel tree builders")
	flags.StringVar(&sinkKind, "sink", config.SinkJSONL, "output sink: jsonl, mongo or postgres")
	flags.BoolVar(&replace, "replace", false, "overwrite threads already present in the sink")

	return cmd
}

func (a *app) reconstruct(cmd *cobra.Command, inputPath, output string) (err error) {
	ctx := cmd.Context()

	var in io.Reader = cmd.InOrStdin()
	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	sink, err := a.openSink(ctx, output)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.closeSink(ctx, sink, err))
		if err == nil && a.cfg.Sink.Kind == config.SinkJSONL {
			err = a.uploadArtifact(ctx, output)
		}
		a.pushMetrics(ctx)
	}()

	svc := service.New(sink, *a.cfg, a.metrics)

	_, err = svc.Reconstruct(ctx, in)
	return err
}
