package engine

import (
	"context"
	"fmt"

	"github.com/roach88/love/internal/model"
)

// Reactant is the receiving side of reactions. It is either a registered
// reactant or NullReactant.
type Reactant interface {
	ID() int64
	Type() string
	IsNull() bool

	ReactionCounters(ctx context.Context) ([]model.ReactionCounter, error)
	ReactionCounterOfType(ctx context.Context, reactionTypeName string) (model.ReactionCounter, error)
	ReactionTotal(ctx context.Context) (model.ReactionTotal, error)

	IsReactedBy(ctx context.Context, r Reacter) (bool, error)
	IsNotReactedBy(ctx context.Context, r Reacter) (bool, error)
	IsReactedByWithType(ctx context.Context, r Reacter, reactionTypeName string) (bool, error)
	IsNotReactedByWithType(ctx context.Context, r Reacter, reactionTypeName string) (bool, error)

	Reactions(ctx context.Context) ([]model.Reaction, error)
}

var (
	_ Reactant = (*reactant)(nil)
	_ Reactant = NullReactant{}
)

type reactant struct {
	e *Engine
	m model.Reactant
}

func (r *reactant) ID() int64    { return r.m.ID }
func (r *reactant) Type() string { return r.m.Type }
func (r *reactant) IsNull() bool { return false }

func (r *reactant) ReactionCounters(ctx context.Context) ([]model.ReactionCounter, error) {
	counters, err := r.e.store.ListCounters(ctx, r.m.ID)
	if err != nil {
		return nil, fmt.Errorf("reaction counters of reactant %d: %w", r.m.ID, err)
	}
	return counters, nil
}

func (r *reactant) ReactionCounterOfType(ctx context.Context, reactionTypeName string) (model.ReactionCounter, error) {
	rt, err := r.e.ReactionType(ctx, reactionTypeName)
	if err != nil {
		return model.ReactionCounter{}, err
	}
	c, err := r.e.store.GetCounter(ctx, model.CounterKey{ReactantID: r.m.ID, ReactionTypeID: rt.ID})
	if err != nil {
		return model.ReactionCounter{}, fmt.Errorf("reaction counter of reactant %d: %w", r.m.ID, err)
	}
	return c, nil
}

func (r *reactant) ReactionTotal(ctx context.Context) (model.ReactionTotal, error) {
	t, err := r.e.store.GetTotal(ctx, r.m.ID)
	if err != nil {
		return model.ReactionTotal{}, fmt.Errorf("reaction total of reactant %d: %w", r.m.ID, err)
	}
	return t, nil
}

func (r *reactant) IsReactedBy(ctx context.Context, by Reacter) (bool, error) {
	if by == nil || by.IsNull() {
		return false, nil
	}
	ok, err := r.e.store.HasReaction(ctx, by.ID(), r.m.ID, 0)
	if err != nil {
		return false, fmt.Errorf("is reactant %d reacted by %d: %w", r.m.ID, by.ID(), err)
	}
	return ok, nil
}

func (r *reactant) IsNotReactedBy(ctx context.Context, by Reacter) (bool, error) {
	ok, err := r.IsReactedBy(ctx, by)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (r *reactant) IsReactedByWithType(ctx context.Context, by Reacter, reactionTypeName string) (bool, error) {
	rt, err := r.e.ReactionType(ctx, reactionTypeName)
	if err != nil {
		return false, err
	}
	if by == nil || by.IsNull() {
		return false, nil
	}
	ok, err := r.e.store.HasReaction(ctx, by.ID(), r.m.ID, rt.ID)
	if err != nil {
		return false, fmt.Errorf("is reactant %d reacted by %d: %w", r.m.ID, by.ID(), err)
	}
	return ok, nil
}

func (r *reactant) IsNotReactedByWithType(ctx context.Context, by Reacter, reactionTypeName string) (bool, error) {
	ok, err := r.IsReactedByWithType(ctx, by, reactionTypeName)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (r *reactant) Reactions(ctx context.Context) ([]model.Reaction, error) {
	reactions, err := r.e.store.ReactionsForReactant(ctx, r.m.ID)
	if err != nil {
		return nil, fmt.Errorf("reactions of reactant %d: %w", r.m.ID, err)
	}
	return reactions, nil
}

// NullReactant stands in for an entity that has no registered reactant.
// Reads answer "nothing" without touching the store.
type NullReactant struct{}

func (NullReactant) ID() int64    { return 0 }
func (NullReactant) Type() string { return "" }
func (NullReactant) IsNull() bool { return true }

func (NullReactant) ReactionCounters(context.Context) ([]model.ReactionCounter, error) {
	return []model.ReactionCounter{}, nil
}

func (NullReactant) ReactionCounterOfType(context.Context, string) (model.ReactionCounter, error) {
	return model.ReactionCounter{}, nil
}

func (NullReactant) ReactionTotal(context.Context) (model.ReactionTotal, error) {
	return model.ReactionTotal{}, nil
}

func (NullReactant) IsReactedBy(context.Context, Reacter) (bool, error) { return false, nil }

func (NullReactant) IsNotReactedBy(context.Context, Reacter) (bool, error) { return true, nil }

func (NullReactant) IsReactedByWithType(context.Context, Reacter, string) (bool, error) {
	return false, nil
}

func (NullReactant) IsNotReactedByWithType(context.Context, Reacter, string) (bool, error) {
	return true, nil
}

func (NullReactant) Reactions(context.Context) ([]model.Reaction, error) {
	return []model.Reaction{}, nil
}

func orNullReactant(r Reactant) Reactant {
	if r == nil {
		return NullReactant{}
	}
	return r
}
