package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/love/internal/engine"
)

// RecountOptions holds flags for the recount command.
type RecountOptions struct {
	*RootOptions
	EntityType      string
	ReactionType    string
	MetricsTextfile string
}

// NewRecountCommand creates the recount command.
func NewRecountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recount",
		Short: "Rebuild counters and totals from the reaction ledger",
		Long: `Rebuild reaction counters and totals from the recorded reactions.

Each reactant is rebuilt in its own transaction; a reactant that fails is
reported and skipped. Without flags every reactant and every reaction type
is rebuilt.

Exit codes:
  0 - All reactants in scope recounted
  1 - One or more reactants failed
  2 - Command error (unknown scope, database unavailable, timeout)

Examples:
  love recount
  love recount --model article
  love recount --model blog.Article --type Like
  love recount --format json --metrics-textfile /var/lib/node_exporter/love.prom`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecount(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.EntityType, "model", "", "reactable entity type name or alias (default: all)")
	cmd.Flags().StringVar(&opts.ReactionType, "type", "", "reaction type name (default: all)")
	cmd.Flags().StringVar(&opts.MetricsTextfile, "metrics-textfile", rootOpts.MetricsTextfile,
		"write recount metrics in Prometheus text format to this file (LOVE_METRICS_TEXTFILE)")

	return cmd
}

func runRecount(opts *RecountOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.RecountTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.RecountTimeout)
		defer cancel()
	}

	scope := engine.Scope{EntityType: opts.EntityType, ReactionType: opts.ReactionType}
	formatter.VerboseLog("Recounting %s", scope)

	report, runErr := s.engine.Recount(ctx, scope)
	if runErr != nil && report.RunID == "" {
		// The run never started: bad scope or the reactants could not be listed.
		if code, ok := engine.CodeOf(runErr); ok {
			return formatter.Fail(ExitCommandError, string(code), "invalid recount scope", runErr)
		}
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "recount failed", runErr)
	}

	if err := s.writeMetrics(opts.MetricsTextfile); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write metrics", err)
	}

	if formatter.Format == "json" {
		if err := formatRecountJSON(formatter, report, runErr); err != nil {
			return err
		}
	} else {
		formatRecountText(formatter, report)
	}

	if runErr != nil {
		return WrapExitError(ExitFailure,
			fmt.Sprintf("recount %s: %d of %d reactant(s) failed", report.RunID, report.Failed, report.Reactants),
			runErr)
	}
	return nil
}

func formatRecountJSON(formatter *OutputFormatter, report engine.RecountReport, runErr error) error {
	response := CLIResponse{
		Status: "ok",
		Data:   report,
		RunID:  report.RunID,
	}
	if runErr != nil {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeGeneric,
			Message: fmt.Sprintf("%d reactant(s) failed", report.Failed),
		}
	}
	return encodeJSON(formatter.Writer, response)
}

func formatRecountText(formatter *OutputFormatter, report engine.RecountReport) {
	w := formatter.Writer
	mark := "✓"
	if report.Failed > 0 {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s Recount %s (%s)\n", mark, report.RunID, report.Scope)
	fmt.Fprintf(w, "  reactants: %d  recounted: %d  failed: %d  duration: %s\n",
		report.Reactants, report.Recounted, report.Failed, report.Duration)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  reactant %d: %s\n", f.ReactantID, f.Error)
	}
}
