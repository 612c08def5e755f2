package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/f3rmion/senti/internal/history"
	"github.com/f3rmion/senti/internal/sentiment"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var errNoHistory = errors.New("history is disabled or unavailable")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent classifications",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show label percentages over recent classifications",
	Long: `Count positive, negative and neutral results over the last N
classifications stored locally. N must be between 5 and 100.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "number of records")
	statsCmd.Flags().Int("last", history.DefaultStatsWindow, "number of recent records")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if a.store == nil {
		return errNoHistory
	}

	records, err := a.store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return printHistory(cmd.OutOrStdout(), records)
}

func printHistory(w io.Writer, records []history.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No classifications yet.")
		return err
	}

	for _, r := range records {
		label := r.Label
		if e, ok := sentiment.Present(r.Label); ok {
			label = e.Emoji + " " + e.Label
		}
		_, err := fmt.Fprintf(w, "%s  %s %4d%%  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			runewidth.FillRight(runewidth.Truncate(label, 12, "…"), 12),
			r.Probability,
			runewidth.Truncate(r.Text, 60, "…"),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	last, _ := cmd.Flags().GetInt("last")

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if a.store == nil {
		return errNoHistory
	}

	st, err := a.store.Stats(cmd.Context(), last)
	if err != nil {
		return err
	}
	return printStats(cmd.OutOrStdout(), st)
}

func printStats(w io.Writer, st history.Stats) error {
	_, err := fmt.Fprintf(w,
		"Total: %d\n  Positivo  %3d  %5.1f%%\n  Negativo  %3d  %5.1f%%\n  Neutral   %3d  %5.1f%%\n",
		st.Total,
		st.Positive, st.PositivePercent,
		st.Negative, st.NegativePercent,
		st.Neutral, st.NeutralPercent,
	)
	return err
}
