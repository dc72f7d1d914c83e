package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/reddit-threads/internal/service"
	"github.com/pribylovaa/reddit-threads/internal/storage/jsonl"
)

func newCorpusCmd(a *app) *cobra.Command {
	var (
		minComments int
		maxDocs     int
		reportEvery int
	)

	cmd := &cobra.Command{
		Use:   "corpus <threads> <output>",
		Short: "Turn reconstructed threads into one text document per thread",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("min-comments") {
				a.cfg.Corpus.MinComments = minComments
			}
			if flags.Changed("max-docs") {
				a.cfg.Corpus.MaxDocs = maxDocs
			}
			if flags.Changed("report-every") {
				a.cfg.Corpus.ReportEvery = reportEvery
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			return a.corpus(cmd, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&minComments, "min-comments", 5, "skip threads with fewer comments")
	flags.IntVar(&maxDocs, "max-docs", 0, "stop after this many documents (0 = unbounded)")
	flags.IntVar(&reportEvery, "report-every", 5000, "log progress every N threads (0 = off)")

	return cmd
}

func (a *app) corpus(cmd *cobra.Command, threadsPath, output string) (err error) {
	ctx := cmd.Context()

	src, err := jsonl.Open(threadsPath)
	if err != nil {
		return err
	}

	dst, err := jsonl.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.closeSink(ctx, dst, err))
		if err == nil {
			err = a.uploadArtifact(ctx, output)
		}
		a.pushMetrics(ctx)
	}()

	_, err = service.New(nil, *a.cfg, a.metrics).BuildCorpus(ctx, src, dst)
	return err
}
