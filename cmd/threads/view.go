package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/reddit-threads/internal/service"
	"github.com/pribylovaa/reddit-threads/internal/storage/jsonl"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		linkID       string
		index        int
		maxBodyChars int
		output       string
	)

	cmd := &cobra.Command{
		Use:   "view <threads>",
		Short: "Pretty-print one reconstructed thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("max-body-chars") {
				a.cfg.Render.MaxBodyChars = maxBodyChars
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			src, err := jsonl.Open(args[0])
			if err != nil {
				return err
			}

			text, err := service.New(nil, *a.cfg, a.metrics).
				RenderThread(cmd.Context(), src, service.ThreadQuery{LinkID: linkID, Index: index})
			if err != nil {
				return err
			}

			if output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), text+"\n")
				return err
			}

			if err := os.WriteFile(output, []byte(text+"\n"), 0o644); err != nil {
				return err
			}
			a.log.Info("view_written", slog.String("path", output))

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&linkID, "link-id", "", "submission link_id to display (e.g. t3_648iy)")
	flags.IntVar(&index, "index", 0, "zero-based index of the thread in the file")
	flags.IntVar(&maxBodyChars, "max-body-chars", 140, "truncate comment bodies to this many characters")
	flags.StringVar(&output, "output", "", "write the rendered tree to this file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("link-id", "index")
	cmd.MarkFlagsOneRequired("link-id", "index")

	return cmd
}
