// Package commands implements the calcmvc command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/calcmvc/internal/app"
	"github.com/dshills/calcmvc/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// flags holds the persistent flag values shared by every command.
type flags struct {
	configPath string
	logFile    string
	logLevel   string
	keyboard   string
}

// options converts the flags into application options.
func (f *flags) options() app.Options {
	path := f.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return app.Options{
		ConfigPath: path,
		LogFile:    f.logFile,
		LogLevel:   f.logLevel,
		Keyboard:   f.keyboard,
	}
}

// Execute runs the root command with the process arguments.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewRootCommand builds the command tree. Without a subcommand it opens the
// calculator window in the terminal.
func NewRootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "calcmvc",
		Short: "Terminal calculator built on a model, view and controller",
		Long: `calcmvc opens a calculator keypad in the terminal.

Click the keypad or type digits and operators. Enter or = calculates,
Esc or c clears, Ctrl+Q quits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return app.ErrNotTerminal
			}
			return runCalculator(cmd.Context(), f.options())
		},
	}

	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "config file (default "+displayPath(config.DefaultPath())+")")
	root.PersistentFlags().StringVar(&f.logFile, "log-file", "", "write logs to this file")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&f.keyboard, "keyboard", "k", "", "keyboard policy (restricted, raw)")

	root.AddCommand(configCmd(f), evalCmd(), versionCmd())
	return root
}

func runCalculator(ctx context.Context, opts app.Options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func displayPath(p string) string {
	if p == "" {
		return "none"
	}
	return p
}
