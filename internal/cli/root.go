package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/love/internal/config"
	"github.com/roach88/love/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	Database        string
	Policy          string
	BusyRetries     uint64
	RecountTimeout  time.Duration
	MetricsTextfile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the love CLI. Flag defaults
// come from the LOVE_* environment (see package config).
func NewRootCommand() *cobra.Command {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Defaults()
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "love",
		Short: "love - reaction counters for any entity",
		Long: `Manage reaction types, record reactions, and rebuild the
denormalized reaction counters and totals from the reaction ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", cfgErr)
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := engine.ParseConflictPolicy(opts.Policy); err != nil {
				return WrapExitError(ExitCommandError, "invalid --policy", err)
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.Database, "db", cfg.DB, "path to SQLite database (LOVE_DB)")
	flags.StringVar(&opts.Policy, "policy", cfg.ConflictPolicy, "conflict policy: accumulate|replace|reject (LOVE_CONFLICT_POLICY)")
	flags.Uint64Var(&opts.BusyRetries, "busy-retries", cfg.BusyRetries, "transaction retries on SQLITE_BUSY (LOVE_BUSY_RETRIES)")
	opts.RecountTimeout = cfg.RecountTimeout
	opts.MetricsTextfile = cfg.MetricsTextfile

	// Add subcommands
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewReactCommand(opts))
	cmd.AddCommand(NewUnreactCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewRecountCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
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
