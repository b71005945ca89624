package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiffcs/statcard/internal/duration"
	"github.com/spiffcs/statcard/internal/output"
	"github.com/spiffcs/statcard/internal/stats"
)

// NewCmdHistory creates the history command.
func NewCmdHistory() *cobra.Command {
	var limit int
	var since string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past generate runs",
		Long: `List snapshots recorded by previous generate runs, newest first.
Changes are shown relative to the previous run of the same user.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			store, err := stats.NewStore()
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			return runHistory(cmd.OutOrStdout(), store, historyOptions{
				limit:  limit,
				since:  since,
				format: format,
			}, time.Now())
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Number of runs to show (0 for all)")
	cmd.Flags().StringVarP(&since, "since", "s", "", "Only show runs since (e.g., 1w, 30d, 6mo)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, markdown)")

	return cmd
}

type historyOptions struct {
	limit  int
	since  string
	format output.Format
}

func runHistory(w io.Writer, store *stats.Store, opts historyOptions, now time.Time) error {
	var records []stats.Snapshot
	if opts.since != "" {
		t, err := duration.Ago(opts.since, now)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		records = store.Since(t)
	} else {
		// everything, so deltas can see runs older than the limit
		records = store.Since(time.Time{})
	}

	if len(records) == 0 {
		if opts.format == output.FormatJSON {
			fmt.Fprintln(w, "[]")
			return nil
		}
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}

	runs := output.Runs(records)
	if opts.limit > 0 && len(runs) > opts.limit {
		runs = runs[:opts.limit]
	}

	if err := output.NewFormatter(opts.format).Format(runs, now, w); err != nil {
		return err
	}
	if opts.format == output.FormatTable || opts.format == "" {
		fmt.Fprintf(w, "\n%d of %d runs (%s)\n", len(runs), len(records), store.Path())
	}
	return nil
}
