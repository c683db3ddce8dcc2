package engine

import (
	"context"

	"github.com/roach88/love/internal/model"
)

// The helpers below answer common questions straight from domain entities.
// A nil entity is treated as one without a registered reacter or reactant.
// Helpers that take a reaction type name resolve it first, so an unknown
// name fails with REACTION_TYPE_INVALID even when the entities are null.

// IsReacterableReactedTo reports whether reacterable reacted to reactable
// with any type.
func (e *Engine) IsReacterableReactedTo(ctx context.Context, reacterable Reacterable, reactable Reactable) (bool, error) {
	reacter, reactant, err := e.participants(ctx, reacterable, reactable)
	if err != nil {
		return false, err
	}
	return reacter.IsReactedTo(ctx, reactant)
}

// IsReacterableNotReactedTo is the negation of IsReacterableReactedTo.
func (e *Engine) IsReacterableNotReactedTo(ctx context.Context, reacterable Reacterable, reactable Reactable) (bool, error) {
	ok, err := e.IsReacterableReactedTo(ctx, reacterable, reactable)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// IsReacterableReactedToWithType reports whether reacterable reacted to
// reactable with the named type.
func (e *Engine) IsReacterableReactedToWithType(ctx context.Context, reacterable Reacterable, reactable Reactable, reactionTypeName string) (bool, error) {
	if _, err := e.ReactionType(ctx, reactionTypeName); err != nil {
		return false, err
	}
	reacter, reactant, err := e.participants(ctx, reacterable, reactable)
	if err != nil {
		return false, err
	}
	return reacter.IsReactedToWithType(ctx, reactant, reactionTypeName)
}

// IsReacterableNotReactedToWithType is the negation of
// IsReacterableReactedToWithType.
func (e *Engine) IsReacterableNotReactedToWithType(ctx context.Context, reacterable Reacterable, reactable Reactable, reactionTypeName string) (bool, error) {
	ok, err := e.IsReacterableReactedToWithType(ctx, reacterable, reactable, reactionTypeName)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// ReactableReactionsOfTypeCount returns the counter count of reactable for
// the named type.
func (e *Engine) ReactableReactionsOfTypeCount(ctx context.Context, reactable Reactable, reactionTypeName string) (int64, error) {
	c, err := e.reactableCounterOfType(ctx, reactable, reactionTypeName)
	return c.Count, err
}

// ReactableReactionsOfTypeWeight returns the counter weight of reactable for
// the named type.
func (e *Engine) ReactableReactionsOfTypeWeight(ctx context.Context, reactable Reactable, reactionTypeName string) (int64, error) {
	c, err := e.reactableCounterOfType(ctx, reactable, reactionTypeName)
	return c.Weight, err
}

// ReactableReactionsTotalCount returns the total count of reactable.
func (e *Engine) ReactableReactionsTotalCount(ctx context.Context, reactable Reactable) (int64, error) {
	t, err := e.reactableTotal(ctx, reactable)
	return t.Count, err
}

// ReactableReactionsTotalWeight returns the total weight of reactable.
func (e *Engine) ReactableReactionsTotalWeight(ctx context.Context, reactable Reactable) (int64, error) {
	t, err := e.reactableTotal(ctx, reactable)
	return t.Weight, err
}

// IsReactionOfType reports whether reaction has the named type.
func (e *Engine) IsReactionOfType(ctx context.Context, reaction model.Reaction, reactionTypeName string) (bool, error) {
	rt, err := e.ReactionType(ctx, reactionTypeName)
	if err != nil {
		return false, err
	}
	return reaction.ReactionTypeID == rt.ID, nil
}

func (e *Engine) participants(ctx context.Context, reacterable Reacterable, reactable Reactable) (Reacter, Reactant, error) {
	reacter, err := e.ReacterOf(ctx, reacterable)
	if err != nil {
		return nil, nil, err
	}
	reactant, err := e.ReactantOf(ctx, reactable)
	if err != nil {
		return nil, nil, err
	}
	return reacter, reactant, nil
}

func (e *Engine) reactableCounterOfType(ctx context.Context, reactable Reactable, reactionTypeName string) (model.ReactionCounter, error) {
	if _, err := e.ReactionType(ctx, reactionTypeName); err != nil {
		return model.ReactionCounter{}, err
	}
	reactant, err := e.ReactantOf(ctx, reactable)
	if err != nil {
		return model.ReactionCounter{}, err
	}
	return reactant.ReactionCounterOfType(ctx, reactionTypeName)
}

func (e *Engine) reactableTotal(ctx context.Context, reactable Reactable) (model.ReactionTotal, error) {
	reactant, err := e.ReactantOf(ctx, reactable)
	if err != nil {
		return model.ReactionTotal{}, err
	}
	return reactant.ReactionTotal(ctx)
}
