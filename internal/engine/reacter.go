package engine

import (
	"context"
	"fmt"

	"github.com/roach88/love/internal/model"
)

// Reacter is the giving side of reactions. It is either a registered
// reacter or NullReacter.
type Reacter interface {
	ID() int64
	Type() string
	IsNull() bool

	ReactTo(ctx context.Context, r Reactant, reactionTypeName string) error
	UnreactTo(ctx context.Context, r Reactant, reactionTypeName string) error

	IsReactedTo(ctx context.Context, r Reactant) (bool, error)
	IsNotReactedTo(ctx context.Context, r Reactant) (bool, error)
	IsReactedToWithType(ctx context.Context, r Reactant, reactionTypeName string) (bool, error)
	IsNotReactedToWithType(ctx context.Context, r Reactant, reactionTypeName string) (bool, error)

	Reactions(ctx context.Context) ([]model.Reaction, error)
}

var (
	_ Reacter = (*reacter)(nil)
	_ Reacter = NullReacter{}
)

type reacter struct {
	e *Engine
	m model.Reacter
}

func (r *reacter) ID() int64    { return r.m.ID }
func (r *reacter) Type() string { return r.m.Type }
func (r *reacter) IsNull() bool { return false }

func (r *reacter) ReactTo(ctx context.Context, to Reactant, reactionTypeName string) error {
	return r.e.ReactTo(ctx, r, to, reactionTypeName)
}

func (r *reacter) UnreactTo(ctx context.Context, to Reactant, reactionTypeName string) error {
	return r.e.UnreactTo(ctx, r, to, reactionTypeName)
}

func (r *reacter) IsReactedTo(ctx context.Context, to Reactant) (bool, error) {
	return orNullReactant(to).IsReactedBy(ctx, r)
}

func (r *reacter) IsNotReactedTo(ctx context.Context, to Reactant) (bool, error) {
	return orNullReactant(to).IsNotReactedBy(ctx, r)
}

func (r *reacter) IsReactedToWithType(ctx context.Context, to Reactant, reactionTypeName string) (bool, error) {
	return orNullReactant(to).IsReactedByWithType(ctx, r, reactionTypeName)
}

func (r *reacter) IsNotReactedToWithType(ctx context.Context, to Reactant, reactionTypeName string) (bool, error) {
	return orNullReactant(to).IsNotReactedByWithType(ctx, r, reactionTypeName)
}

func (r *reacter) Reactions(ctx context.Context) ([]model.Reaction, error) {
	reactions, err := r.e.store.ReactionsForReacter(ctx, r.m.ID)
	if err != nil {
		return nil, fmt.Errorf("reactions of reacter %d: %w", r.m.ID, err)
	}
	return reactions, nil
}

// NullReacter stands in for an entity that has no registered reacter.
// It never reacted to anything and cannot react.
type NullReacter struct{}

func (NullReacter) ID() int64    { return 0 }
func (NullReacter) Type() string { return "" }
func (NullReacter) IsNull() bool { return true }

func (NullReacter) ReactTo(context.Context, Reactant, string) error { return reacterNull() }

func (NullReacter) UnreactTo(context.Context, Reactant, string) error { return reacterNull() }

func (NullReacter) IsReactedTo(context.Context, Reactant) (bool, error) { return false, nil }

func (NullReacter) IsNotReactedTo(context.Context, Reactant) (bool, error) { return true, nil }

func (NullReacter) IsReactedToWithType(context.Context, Reactant, string) (bool, error) {
	return false, nil
}

func (NullReacter) IsNotReactedToWithType(context.Context, Reactant, string) (bool, error) {
	return true, nil
}

func (NullReacter) Reactions(context.Context) ([]model.Reaction, error) {
	return []model.Reaction{}, nil
}
