package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/love/internal/model"
)

// ReactionTypeSpec is a reaction type declared in a catalog.
type ReactionTypeSpec struct {
	Name   string    `json:"name"`
	Weight int64     `json:"weight"`
	Pos    token.Pos `json:"-"`
}

// EntityTypeSpec is an entity type declared in a catalog.
type EntityTypeSpec struct {
	model.EntityType
	Pos token.Pos `json:"-"`
}

// Catalog is everything declared in a set of CUE files, in declaration order.
type Catalog struct {
	ReactionTypes []ReactionTypeSpec `json:"reaction_types"`
	EntityTypes   []EntityTypeSpec   `json:"entity_types"`
}

// CompileReactionType parses one reaction type. The name is the struct
// label; weight is a required integer.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`reaction_type: Like: weight: 1`)
//	spec, err := CompileReactionType(v.LookupPath(cue.ParsePath("reaction_type.Like")))
func CompileReactionType(v cue.Value) (*ReactionTypeSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ReactionTypeSpec{Name: labelOf(v), Pos: v.Pos()}

	weightVal := v.LookupPath(cue.ParsePath("weight"))
	if !weightVal.Exists() {
		return nil, &CompileError{
			Field:   "weight",
			Message: "weight is required",
			Pos:     v.Pos(),
		}
	}
	if k := weightVal.IncompleteKind(); k != cue.IntKind {
		return nil, &CompileError{
			Field:   "weight",
			Message: fmt.Sprintf("weight must be an integer, got %v", k),
			Pos:     weightVal.Pos(),
		}
	}
	weight, err := weightVal.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	spec.Weight = weight

	return spec, nil
}

// CompileEntityType parses one entity type. The full type name is the
// struct label; alias, reactable, and reacterable are optional.
func CompileEntityType(v cue.Value) (*EntityTypeSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &EntityTypeSpec{Pos: v.Pos()}
	spec.Name = labelOf(v)

	var err error
	if spec.Alias, err = optionalString(v, "alias"); err != nil {
		return nil, err
	}
	if spec.Reactable, err = optionalBool(v, "reactable"); err != nil {
		return nil, err
	}
	if spec.Reacterable, err = optionalBool(v, "reacterable"); err != nil {
		return nil, err
	}

	if !spec.Reactable && !spec.Reacterable {
		return nil, &CompileError{
			Field:   "entity_type",
			Message: fmt.Sprintf("entity type %q must be reactable, reacterable, or both", spec.Name),
			Pos:     v.Pos(),
		}
	}
	return spec, nil
}

// labelOf returns the last path selector of v, unquoted.
func labelOf(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	sel := labels[len(labels)-1]
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: "must be a string", Pos: fv.Pos()}
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, &CompileError{Field: field, Message: "must be a bool", Pos: fv.Pos()}
	}
	return b, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
