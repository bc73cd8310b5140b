package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/drapequote/internal/config"
	"github.com/roach88/drapequote/internal/export"
	"github.com/roach88/drapequote/internal/ids"
	"github.com/roach88/drapequote/internal/ledger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DataDir    string
	ConfigPath string

	// IDs, Clock and Exporter override the defaults (for testing).
	IDs      ids.Generator
	Clock    ledger.Clock
	Exporter export.Writer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the drapequote CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drapequote",
		Short: "drapequote - curtain quoting",
		Long: `Price curtain jobs and keep their quotes.

Maintains the sewing price list, customers and their projects, and each
project's quote, and exports quotes into spreadsheet templates. All data
lives as JSON documents in the data directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.resolve(cmd)
		},
	}

	if opts.Format == "" {
		opts.Format = "text"
	}

	// Preset options become the flag defaults.
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", opts.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", opts.DataDir, "data directory (default $DRAPEQUOTE_DATA_DIR or ./data)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "config file (default <data-dir>/config.json)")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewPriceCommand(opts))
	cmd.AddCommand(NewCustomerCommand(opts))
	cmd.AddCommand(NewProjectCommand(opts))
	cmd.AddCommand(NewQuoteCommand(opts))

	return cmd
}

// resolve fills unset options from the environment and configures logging.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	env, err := config.LoadEnv()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read environment", err)
	}
	if o.DataDir == "" {
		o.DataDir = env.DataDir
	}
	if o.ConfigPath == "" {
		env.DataDir = o.DataDir
		o.ConfigPath = env.ResolveConfigPath()
	}

	level, err := env.Level()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read environment", err)
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	configureLogging(cmd.ErrOrStderr(), level)
	return nil
}

func configureLogging(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout(), Verbose: o.Verbose}
}

func (o *RootOptions) generator() ids.Generator {
	if o.IDs != nil {
		return o.IDs
	}
	return ids.UUIDv7{}
}

func (o *RootOptions) now() time.Time {
	if o.Clock != nil {
		return o.Clock.Now()
	}
	return time.Now()
}

func (o *RootOptions) exporter() export.Writer {
	if o.Exporter != nil {
		return o.Exporter
	}
	return export.ExcelWriter{}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are reported on stdout in the selected format.
func Execute(args []string, stdout, stderr io.Writer) int {
	return execute(&RootOptions{}, args, stdout, stderr)
}

func execute(opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	format := opts.Format
	if !isValidFormat(format) {
		format = "text"
	}
	out := &OutputFormatter{Format: format, Writer: stdout, Verbose: opts.Verbose}
	_ = out.Error(ErrorCode(err), err.Error(), nil)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Flag and argument errors from cobra.
		return ExitCommandError
	}
	return GetExitCode(err)
}
