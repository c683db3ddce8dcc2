package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/love/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid         bool                       `json:"valid"`
	ReactionTypes int                        `json:"reaction_types"`
	EntityTypes   int                        `json:"entity_types"`
	Errors        []compiler.ValidationError `json:"errors,omitempty"`
}

// ApplyResult lists what catalog apply registered.
type ApplyResult struct {
	ReactionTypes []string `json:"reaction_types"`
	EntityTypes   []string `json:"entity_types"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate or apply a CUE catalog of reaction and entity types",
		Long: `A catalog declares reaction types and entity types in CUE:

  reaction_type: Like: weight: 1
  entity_type: "blog.Article": {alias: "article", reactable: true}`,
	}

	cmd.AddCommand(newCatalogValidateCommand(rootOpts))
	cmd.AddCommand(newCatalogApplyCommand(rootOpts))
	return cmd
}

func newCatalogValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a catalog without touching the database",
		Long: `Compile every CUE file in the directory and check the catalog for
empty names, duplicates (after Unicode normalization), alias clashes, and
entity types with no capability.

Exit codes:
  0 - Catalog valid
  1 - Validation errors
  2 - Command error (missing directory, no CUE files, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogValidate(rootOpts, args[0], cmd)
		},
	}
}

func runCatalogValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadCatalog(dir, LoadModeCollectAll)
	if loadResult == nil {
		return failLoad(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	var validationErrors []compiler.ValidationError
	for _, err := range loadErrors {
		validationErrors = append(validationErrors, loadErrorToValidation(err))
	}
	validationErrors = append(validationErrors, compiler.Validate(&loadResult.Catalog)...)

	result := ValidationResult{
		Valid:         len(validationErrors) == 0,
		ReactionTypes: len(loadResult.Catalog.ReactionTypes),
		EntityTypes:   len(loadResult.Catalog.EntityTypes),
		Errors:        validationErrors,
	}
	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Catalog valid: %d reaction type(s), %d entity type(s)\n",
		result.ReactionTypes, result.EntityTypes)
	return nil
}

func newCatalogApplyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <catalog-dir>",
		Short: "Register a catalog's reaction types and entity types",
		Long: `Validate the catalog, then register every reaction type and entity
type in the database. Applying the same catalog twice is a no-op. Changing the
weight of an existing reaction type fails with REACTION_TYPE_IMMUTABLE.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogApply(rootOpts, args[0], cmd)
		},
	}
}

func runCatalogApply(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadCatalog(dir, LoadModeFailFast)
	if loadResult == nil {
		return failLoad(formatter, loadErrors[0])
	}
	if len(loadErrors) > 0 {
		v := loadErrorToValidation(loadErrors[0])
		return formatter.Fail(ExitFailure, v.Code, "invalid catalog", loadErrors[0])
	}
	if errs := compiler.Validate(&loadResult.Catalog); len(errs) > 0 {
		return outputValidationErrors(formatter, ValidationResult{
			ReactionTypes: len(loadResult.Catalog.ReactionTypes),
			EntityTypes:   len(loadResult.Catalog.EntityTypes),
			Errors:        errs,
		})
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	result := ApplyResult{ReactionTypes: []string{}, EntityTypes: []string{}}

	for _, rt := range loadResult.Catalog.ReactionTypes {
		registered, err := s.engine.RegisterReactionType(ctx, rt.Name, rt.Weight)
		if err != nil {
			return formatter.Fail(ExitFailure, CodeFor(err, ErrCodeGeneric), "failed to register reaction type", err)
		}
		formatter.VerboseLog("reaction type %s (weight %d)", registered.Name, registered.Weight)
		result.ReactionTypes = append(result.ReactionTypes, registered.Name)
	}

	for _, et := range loadResult.Catalog.EntityTypes {
		if err := s.engine.RegisterEntityType(ctx, et.EntityType); err != nil {
			return formatter.Fail(ExitFailure, CodeFor(err, ErrCodeGeneric), "failed to register entity type", err)
		}
		formatter.VerboseLog("entity type %s", et.Name)
		result.EntityTypes = append(result.EntityTypes, et.Name)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Applied %d reaction type(s), %d entity type(s)\n",
		len(result.ReactionTypes), len(result.EntityTypes))
	return nil
}

// failLoad reports a loader error that prevented loading entirely.
// These are command-level errors (exit code 2).
func failLoad(formatter *OutputFormatter, err error) error {
	v := loadErrorToValidation(err)
	_ = formatter.Error(v.Code, v.Message)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", v.Code, v.Message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		if err := encodeJSON(formatter.Writer, response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
