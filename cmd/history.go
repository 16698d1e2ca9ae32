package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/microcopy/internal/writeback"
)

var (
	historyLocale string
	historyLimit  int
	historyShow   int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded feed snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Output.HistoryDB == "" {
			return fmt.Errorf("output.history_db is not set")
		}
		history, err := writeback.OpenHistory(cfg.Output.HistoryDB)
		if err != nil {
			return err
		}
		defer func() { _ = history.Close() }()

		if historyShow > 0 {
			return showSnapshot(cmd.Context(), cmd.OutOrStdout(), history, historyShow)
		}
		return listSnapshots(cmd.Context(), cmd.OutOrStdout(), history, historyLocale, historyLimit)
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyLocale, "locale", "l", "", "Only list this locale")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum rows (0 for all)")
	historyCmd.Flags().Int64Var(&historyShow, "show", 0, "Print the feed of one snapshot id")
	rootCmd.AddCommand(historyCmd)
}

func listSnapshots(ctx context.Context, out io.Writer, h *writeback.HistorySink, locale string, limit int) error {
	snaps, err := h.List(ctx, locale, limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVERSION\tLOCALE\tCREATED\tBYTES")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
			s.ID, s.Version, s.Locale, s.CreatedAt.UTC().Format(time.RFC3339), s.Bytes)
	}
	return tw.Flush()
}

func showSnapshot(ctx context.Context, out io.Writer, h *writeback.HistorySink, id int64) error {
	content, err := h.Content(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(content)
}
