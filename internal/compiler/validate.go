package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/love/internal/engine"
)

// Validation error codes (E100-E199)
const (
	// Reaction type errors (E101-E104)
	ErrReactionTypeNameEmpty = "E101" // name is required
	ErrDuplicateReactionType = "E102" // two types normalize to the same name
	ErrWeightOutOfRange      = "E103" // weight overflows count*weight arithmetic

	// Entity type errors (E110-E114)
	ErrEntityTypeNameEmpty = "E110" // name is required
	ErrDuplicateEntityType = "E111" // two types normalize to the same name
	ErrDuplicateAlias      = "E112" // two types share an alias
	ErrAliasShadowsName    = "E113" // alias equals another type's full name
	ErrNoCapability        = "E114" // neither reactable nor reacterable
)

// MaxWeight bounds reaction type weights so that count times weight stays
// far from int64 overflow.
const MaxWeight = 1 << 31

// ValidationError represents a catalog validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled catalog.
// Returns all errors found (does not fail-fast).
func Validate(c *Catalog) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateReactionTypes(c.ReactionTypes)...)
	errs = append(errs, validateEntityTypes(c.EntityTypes)...)
	return errs
}

func validateReactionTypes(specs []ReactionTypeSpec) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)

	for i, rt := range specs {
		field := fmt.Sprintf("reaction_type[%d]", i)
		name := engine.NormalizeName(rt.Name)

		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "reaction type name is required and must be non-empty",
				Code:    ErrReactionTypeNameEmpty,
				Line:    rt.Pos.Line(),
			})
			continue
		}

		if seen[name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate reaction type name: %q", name),
				Code:    ErrDuplicateReactionType,
				Line:    rt.Pos.Line(),
			})
		}
		seen[name] = true

		if rt.Weight > MaxWeight || rt.Weight < -MaxWeight {
			errs = append(errs, ValidationError{
				Field:   field + ".weight",
				Message: fmt.Sprintf("weight %d of %q is outside [-%d, %d]", rt.Weight, name, int64(MaxWeight), int64(MaxWeight)),
				Code:    ErrWeightOutOfRange,
				Line:    rt.Pos.Line(),
			})
		}
	}
	return errs
}

func validateEntityTypes(specs []EntityTypeSpec) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool)
	aliases := make(map[string]string)

	for _, et := range specs {
		names[engine.NormalizeName(et.Name)] = true
	}

	seen := make(map[string]bool)
	for i, et := range specs {
		field := fmt.Sprintf("entity_type[%d]", i)
		name := engine.NormalizeName(et.Name)
		alias := engine.NormalizeName(et.Alias)

		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "entity type name is required and must be non-empty",
				Code:    ErrEntityTypeNameEmpty,
				Line:    et.Pos.Line(),
			})
			continue
		}

		if seen[name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate entity type name: %q", name),
				Code:    ErrDuplicateEntityType,
				Line:    et.Pos.Line(),
			})
		}
		seen[name] = true

		if !et.Reactable && !et.Reacterable {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("entity type %q must be reactable, reacterable, or both", name),
				Code:    ErrNoCapability,
				Line:    et.Pos.Line(),
			})
		}

		if alias == "" {
			continue
		}
		if owner, ok := aliases[alias]; ok {
			errs = append(errs, ValidationError{
				Field:   field + ".alias",
				Message: fmt.Sprintf("alias %q of %q is already used by %q", alias, name, owner),
				Code:    ErrDuplicateAlias,
				Line:    et.Pos.Line(),
			})
		} else {
			aliases[alias] = name
		}
		if alias != name && names[alias] {
			errs = append(errs, ValidationError{
				Field:   field + ".alias",
				Message: fmt.Sprintf("alias %q of %q is the full name of another entity type", alias, name),
				Code:    ErrAliasShadowsName,
				Line:    et.Pos.Line(),
			})
		}
	}
	return errs
}
