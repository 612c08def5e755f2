package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/f3rmion/senti/internal/flow"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify a text without the TUI",
	Long: `Send a text to the classification service and print the result.

The text must be longer than the configured minimum length (10 characters by
default) after trimming.

Example:
  senti classify "Me encantó el servicio, volveré pronto"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.controller()
	ctrl.OnInputChanged(strings.Join(args, " "))

	st, ok := ctrl.Submit(cmd.Context())
	if !ok || st.Submission == flow.SubmissionError {
		return errors.New(st.Advisory)
	}

	return printRendering(cmd.OutOrStdout(), st.Rendering)
}

func printRendering(w io.Writer, r *flow.Rendering) error {
	if r == nil {
		_, err := fmt.Fprintln(w, "Resultado no reconocido")
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s (%d%%)\n%s\n", r.Entry.Emoji, r.Entry.Label, r.Percent, r.Entry.Description)
	return err
}
