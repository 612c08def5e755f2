package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/senti/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize senti configuration",
	Long: `Write a config.yaml with the default settings to your config directory.

Edit it to point senti at another classification service, change the request
timeout or the minimum text length, or disable the local history.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := filepath.Join(configDir, config.FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.Save(configDir, config.Default(configDir)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit config.yaml if you use another classification service")
	fmt.Fprintln(out, "  2. Run 'senti' to open the interactive UI")
	fmt.Fprintln(out, "  3. Run 'senti classify <text>' for a one-off classification")

	return nil
}
