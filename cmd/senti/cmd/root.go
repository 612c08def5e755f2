// Package cmd contains all CLI commands for senti.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/senti/internal/classifier"
	"github.com/f3rmion/senti/internal/config"
	"github.com/f3rmion/senti/internal/flow"
	"github.com/f3rmion/senti/internal/history"
	"github.com/f3rmion/senti/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "senti",
	Short: "Sentiment analysis for short texts",
	Long: `senti sends a text to a sentiment classification service and shows
whether it reads as positive, negative or neutral, with the model's
confidence.

Running 'senti' without arguments launches the interactive TUI.

Controls:
  enter       Analyze the text (more than 10 characters)
  alt+enter   New line
  esc/b       Back to the form (result screen)
  y           Copy the result (result screen)
  ctrl+c      Quit`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/senti)")
	flags.Bool("verbose", false, "debug logging")
	flags.String("endpoint", "", "classification service URL")
	flags.String("timeout", "", "request timeout, e.g. 10s")
	flags.Bool("history", true, "record successful classifications")

	viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.BindPFlag("endpoint", flags.Lookup("endpoint"))
	viper.BindPFlag("timeout", flags.Lookup("timeout"))
	viper.BindPFlag("history", flags.Lookup("history"))
}

// initConfig reads in ENV variables and resolves the config directory.
func initConfig() {
	if cfgDir != "" {
		viper.Set("config_dir", cfgDir)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("SENTI")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// app bundles everything a command needs to talk to the service.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *classifier.Client
	store   *history.Store
	closers []io.Closer
}

// loadApp loads configuration and opens the log file and history store.
func loadApp() (*app, error) {
	cfg, err := config.Load(getConfigDir())
	if err != nil {
		return nil, err
	}
	if err := cfg.Override(viper.GetViper()); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	logger, closer, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	timeout, _ := cfg.Timeout()
	a.client = classifier.NewClient(cfg.Endpoint, timeout)

	if cfg.HistoryEnabled {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			// History is optional; keep going without it.
			logger.Warn("history disabled", "path", cfg.HistoryPath, "error", err)
		} else {
			a.store = store
			a.closers = append(a.closers, store)
		}
	}

	logger.Debug("config loaded", "endpoint", cfg.Endpoint, "timeout", timeout, "history", a.store != nil)
	return a, nil
}

// controller builds a submission controller wired to the app's collaborators.
func (a *app) controller() *flow.Controller {
	timeout, _ := a.cfg.Timeout()
	opts := flow.Options{
		MinLength: a.cfg.MinLength,
		Timeout:   timeout,
		Logger:    a.logger,
	}
	if a.store != nil {
		opts.Recorder = a.store
	}
	return flow.NewController(a.client, opts)
}

// Close releases the log file and history store.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// newLogger opens a text slog handler on path. An empty path discards logs.
func newLogger(path, level string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})), f, nil
}

// runTUI launches the interactive TUI.
func runTUI(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(
		tui.NewApp(ctx, a.controller()),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
