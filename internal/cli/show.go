package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ShowResult is a reactant's counters and total.
type ShowResult struct {
	ReactantID int64         `json:"reactant_id"`
	Type       string        `json:"type"`
	Counters   []ShowCounter `json:"counters"`
	Total      ShowTotal     `json:"total"`
}

// ShowCounter is one counter row labelled with its reaction type name.
type ShowCounter struct {
	ReactionType string `json:"reaction_type"`
	Count        int64  `json:"count"`
	Weight       int64  `json:"weight"`
}

// ShowTotal is the reactant's total row.
type ShowTotal struct {
	Count  int64 `json:"count"`
	Weight int64 `json:"weight"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <reactant-id>",
		Short:         "Show a reactant's reaction counters and total",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	id, err := parseID("reactant-id", arg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadArgument, "invalid reactant id", err)
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	reactant, err := s.engine.ReactantByID(ctx, id)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to load reactant", err)
	}
	if reactant.IsNull() {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("reactant %d not found", id), nil)
	}

	types, err := s.engine.ReactionTypes(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to list reaction types", err)
	}
	names := make(map[int64]string, len(types))
	for _, rt := range types {
		names[rt.ID] = rt.Name
	}

	counters, err := reactant.ReactionCounters(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to load counters", err)
	}
	total, err := reactant.ReactionTotal(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to load total", err)
	}

	result := ShowResult{
		ReactantID: id,
		Type:       reactant.Type(),
		Counters:   make([]ShowCounter, 0, len(counters)),
		Total:      ShowTotal{Count: total.Count, Weight: total.Weight},
	}
	for _, c := range counters {
		result.Counters = append(result.Counters, ShowCounter{
			ReactionType: names[c.ReactionTypeID],
			Count:        c.Count,
			Weight:       c.Weight,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "reactant %d (%s)\n", result.ReactantID, result.Type)
	for _, c := range result.Counters {
		fmt.Fprintf(formatter.Writer, "  %-16s count=%d weight=%d\n", c.ReactionType, c.Count, c.Weight)
	}
	fmt.Fprintf(formatter.Writer, "  %-16s count=%d weight=%d\n", "total", result.Total.Count, result.Total.Weight)
	return nil
}
