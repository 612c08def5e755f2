package cmd

import (
	"fmt"
	"io"

	"github.com/f3rmion/senti/internal/batch"
	"github.com/f3rmion/senti/internal/sentiment"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file.csv>",
	Short: "Classify every line of a CSV file",
	Long: `Classify each text of a CSV file, one text per line.

A first line naming the column (texto, text, mensaje, comentario, ...) is
skipped, as are blank lines. Texts of 10 characters or less are skipped
without being sent. Successful results are recorded in the history like any
other classification.

Example:
  senti batch comentarios.csv --list`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolP("list", "l", false, "print the result of every line")
}

func runBatch(cmd *cobra.Command, args []string) error {
	list, _ := cmd.Flags().GetBool("list")

	f, err := batch.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	texts, err := batch.ReadTexts(f)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("batch started", "file", args[0], "texts", len(texts))
	summary, err := batch.Run(cmd.Context(), a.controller(), texts, a.logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if list {
		if err := printBatchItems(out, summary.Items); err != nil {
			return err
		}
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(out, "%d textos omitidos por tener %d caracteres o menos\n", summary.Skipped, a.cfg.MinLength)
	}
	_, err = fmt.Fprintln(out, summary.Message())
	return err
}

func printBatchItems(w io.Writer, items []batch.Item) error {
	for _, it := range items {
		var status string
		switch {
		case it.Skipped:
			status = "omitido"
		case it.Err != nil:
			status = "ERROR"
		default:
			status = fmt.Sprintf("%s %3d%%", it.Label, it.Percent)
			if e, ok := sentiment.Present(it.Label); ok {
				status = fmt.Sprintf("%s %s %3d%%", e.Emoji, e.Label, it.Percent)
			}
		}
		_, err := fmt.Fprintf(w, "%4d  %s  %s\n",
			it.Line,
			runewidth.FillRight(runewidth.Truncate(status, 16, "…"), 16),
			runewidth.Truncate(it.Value, 60, "…"),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
