package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamsammich/twinpane/internal/config"
	"github.com/bamsammich/twinpane/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// globals holds the persistent flags and everything derived from them
// before a subcommand runs.
type globals struct {
	logger     *slog.Logger
	logClose   func() error
	logFile    string
	configPath string
	settings   config.Settings
	verbose    int
	quiet      bool
	noProgress bool
}

func run() int {
	g := &globals{}
	rootCmd := newRootCmd(g)

	err := rootCmd.Execute()
	if g.logClose != nil {
		_ = g.logClose() //nolint:errcheck // best-effort close of the log file
	}
	if err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd(g *globals) *cobra.Command {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:           "twinpane",
		Short:         "Copy, move, delete and search files with progress and conflict handling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "twinpane %s\n", version)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&g.verbose, "verbose", "v", "verbose output (repeat for debug)")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "suppress all output except errors")
	pf.BoolVar(&g.noProgress, "no-progress", false, "disable progress display")
	pf.StringVar(&g.logFile, "log", "", "write structured JSON log to FILE")
	pf.StringVar(&g.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/twinpane/config.toml)")

	rootCmd.AddCommand(
		newTransferCmd(g, "copy"),
		newTransferCmd(g, "move"),
		newDeleteCmd(g),
		newSearchCmd(g),
		newClipCmd(g),
		docsCmd,
	)
	return rootCmd
}

// setup configures logging and loads the config file.
func (g *globals) setup(cmd *cobra.Command) error {
	logLevel := slog.LevelWarn
	switch {
	case g.quiet:
		logLevel = slog.LevelError
	case g.verbose >= 2:
		logLevel = slog.LevelDebug
	case g.verbose == 1:
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	var logHandler slog.Handler = textHandler
	if g.logFile != "" {
		lf, err := os.Create(g.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		g.logClose = lf.Close
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	g.logger = slog.New(logHandler)
	slog.SetDefault(g.logger)

	var (
		cfg config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		g.logger.Warn("failed to load config", "error", err)
		cfg = config.Config{}
	}
	if len(cfg.Unknown) > 0 {
		g.logger.Warn("unknown config keys", "keys", cfg.Unknown)
	}

	g.settings, err = cfg.Settings()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ui.ApplyTheme(cfg.Theme)
	return nil
}

// presenterConfig returns the presenter settings for the current terminal.
func (g *globals) presenterConfig(cmd *cobra.Command, root string) ui.Config {
	return ui.Config{
		Writer:     cmd.OutOrStdout(),
		ErrWriter:  cmd.ErrOrStderr(),
		Root:       root,
		IsTTY:      isTerminal(cmd.ErrOrStderr()),
		Quiet:      g.quiet,
		NoProgress: g.noProgress,
	}
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && ui.IsTTY(f.Fd())
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
