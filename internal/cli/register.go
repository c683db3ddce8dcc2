package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RegisterResult describes a newly registered participant.
type RegisterResult struct {
	Kind string `json:"kind"` // "reactant" | "reacter"
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// NewRegisterCommand creates the register command group.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a reactant or reacter for an entity",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reactant <entity-type>",
		Short: "Register a reactant for a reactable entity type (name or alias)",
		Example: `  love register reactant blog.Article
  love register reactant article`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(rootOpts, "reactant", args[0], cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "reacter <entity-type>",
		Short:         "Register a reacter for a reacterable entity type (name or alias)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(rootOpts, "reacter", args[0], cmd)
		},
	})

	return cmd
}

func runRegister(opts *RootOptions, kind, entityType string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	result := RegisterResult{Kind: kind}
	if kind == "reactant" {
		r, err := s.engine.RegisterReactant(ctx, entityType)
		if err != nil {
			return formatter.Fail(ExitFailure, CodeFor(err, ErrCodeGeneric), "failed to register reactant", err)
		}
		result.ID, result.Type = r.ID(), r.Type()
	} else {
		r, err := s.engine.RegisterReacter(ctx, entityType)
		if err != nil {
			return formatter.Fail(ExitFailure, CodeFor(err, ErrCodeGeneric), "failed to register reacter", err)
		}
		result.ID, result.Type = r.ID(), r.Type()
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s %d (%s)\n", result.Kind, result.ID, result.Type)
	return nil
}
