package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/love/internal/engine"
)

// ReactResult describes an applied react or unreact.
type ReactResult struct {
	Op           string `json:"op"` // "react" | "unreact"
	ReacterID    int64  `json:"reacter_id"`
	ReactantID   int64  `json:"reactant_id"`
	ReactionType string `json:"reaction_type"`
}

// NewReactCommand creates the react command.
func NewReactCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "react <reacter-id> <reactant-id> <reaction-type>",
		Short: "Record a reaction and update counters",
		Long: `Record that a reacter reacted to a reactant with a reaction type.
The reactant's counter for that type and its total are updated in the same
transaction as the reaction.

How a second reaction by the same reacter is handled depends on --policy.

Exit codes:
  0 - Reaction recorded
  1 - Reaction rejected (unknown type, null participant, conflict)
  2 - Command error (bad arguments, database unavailable)`,
		Example:       `  love react 1 7 Like`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReaction(rootOpts, "react", args, cmd)
		},
	}
}

// NewUnreactCommand creates the unreact command.
func NewUnreactCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unreact <reacter-id> <reactant-id> <reaction-type>",
		Short: "Remove a reaction and update counters",
		Long: `Remove a reaction of the given type and update counters. Removing a
reaction that was never recorded changes nothing.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReaction(rootOpts, "unreact", args, cmd)
		},
	}
}

func runReaction(opts *RootOptions, op string, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	reacterID, err := parseID("reacter-id", args[0])
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadArgument, "invalid reacter id", err)
	}
	reactantID, err := parseID("reactant-id", args[1])
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadArgument, "invalid reactant id", err)
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	reacter, reactant, err := loadParticipants(ctx, s.engine, reacterID, reactantID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to load participants", err)
	}

	if op == "react" {
		err = s.engine.ReactTo(ctx, reacter, reactant, args[2])
	} else {
		err = s.engine.UnreactTo(ctx, reacter, reactant, args[2])
	}
	if err != nil {
		if code, ok := engine.CodeOf(err); ok {
			return formatter.Fail(ExitFailure, string(code), op+" failed", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, op+" failed", err)
	}

	result := ReactResult{
		Op:           op,
		ReacterID:    reacterID,
		ReactantID:   reactantID,
		ReactionType: engine.NormalizeName(args[2]),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ %s: reacter %d → reactant %d (%s)\n",
		op, reacterID, reactantID, result.ReactionType)
	return nil
}

// loadParticipants resolves ids to participants. Unknown ids resolve to the
// null variants so that the engine reports them with its own error codes.
func loadParticipants(ctx context.Context, eng *engine.Engine, reacterID, reactantID int64) (engine.Reacter, engine.Reactant, error) {
	reacter, err := eng.ReacterByID(ctx, reacterID)
	if err != nil {
		return nil, nil, err
	}
	reactant, err := eng.ReactantByID(ctx, reactantID)
	if err != nil {
		return nil, nil, err
	}
	return reacter, reactant, nil
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, s)
	}
	return id, nil
}
