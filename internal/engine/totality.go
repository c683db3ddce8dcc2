package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/love/internal/model"
	"github.com/roach88/love/internal/store"
)

// applyDelta moves the (reactant, type) counter and then the reactant's
// total by the same delta. Both statements run in tx, so either both land
// or neither does.
func applyDelta(ctx context.Context, tx *store.Tx, key model.CounterKey, d model.Delta) error {
	if err := tx.IncrementCounter(ctx, key, d); err != nil {
		return driftHint(key.ReactantID, err)
	}
	if err := tx.IncrementTotal(ctx, key.ReactantID, d); err != nil {
		return driftHint(key.ReactantID, err)
	}
	return nil
}

func driftHint(reactantID int64, err error) error {
	if errors.Is(err, store.ErrCounterUnderflow) {
		return fmt.Errorf("aggregates of reactant %d drifted from the ledger, recount it: %w", reactantID, err)
	}
	return err
}

// ReactionTotal returns the total of reactant. Null or nil reactants have
// a (0, 0) total.
func (e *Engine) ReactionTotal(ctx context.Context, reactant Reactant) (model.ReactionTotal, error) {
	return orNullReactant(reactant).ReactionTotal(ctx)
}

// ReactionCounters returns every counter row of reactant.
func (e *Engine) ReactionCounters(ctx context.Context, reactant Reactant) ([]model.ReactionCounter, error) {
	return orNullReactant(reactant).ReactionCounters(ctx)
}

// ReactionCounterOfType returns reactant's counter for the named type, or a
// zero counter when none exists.
func (e *Engine) ReactionCounterOfType(ctx context.Context, reactant Reactant, reactionTypeName string) (model.ReactionCounter, error) {
	return orNullReactant(reactant).ReactionCounterOfType(ctx, reactionTypeName)
}

// IsReactedBy reports whether reacter reacted to reactant with any type.
func (e *Engine) IsReactedBy(ctx context.Context, reactant Reactant, reacter Reacter) (bool, error) {
	return orNullReactant(reactant).IsReactedBy(ctx, reacter)
}

// IsNotReactedBy is the negation of IsReactedBy.
func (e *Engine) IsNotReactedBy(ctx context.Context, reactant Reactant, reacter Reacter) (bool, error) {
	return orNullReactant(reactant).IsNotReactedBy(ctx, reacter)
}

// IsReactedByWithType reports whether reacter reacted to reactant with the
// named type.
func (e *Engine) IsReactedByWithType(ctx context.Context, reactant Reactant, reacter Reacter, reactionTypeName string) (bool, error) {
	return orNullReactant(reactant).IsReactedByWithType(ctx, reacter, reactionTypeName)
}

// IsNotReactedByWithType is the negation of IsReactedByWithType.
func (e *Engine) IsNotReactedByWithType(ctx context.Context, reactant Reactant, reacter Reacter, reactionTypeName string) (bool, error) {
	return orNullReactant(reactant).IsNotReactedByWithType(ctx, reacter, reactionTypeName)
}
