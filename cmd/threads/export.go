package main

import (
	"github.com/spf13/cobra"

	"github.com/pribylovaa/reddit-threads/internal/service"
	"github.com/pribylovaa/reddit-threads/internal/storage/jsonl"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		maxBodyChars int
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "export <threads> <dir>",
		Short: "Write every thread as a text file into a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-body-chars") {
				a.cfg.Render.MaxBodyChars = maxBodyChars
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			src, err := jsonl.Open(args[0])
			if err != nil {
				return err
			}

			_, err = service.New(nil, *a.cfg, a.metrics).ExportText(cmd.Context(), src, args[1], limit)
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&maxBodyChars, "max-body-chars", 140, "truncate comment bodies to this many characters")
	flags.IntVar(&limit, "limit", 0, "export at most this many threads (0 = all)")

	return cmd
}
