package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/love/internal/metrics"
	"github.com/roach88/love/internal/model"
	"github.com/roach88/love/internal/store"
)

// Engine is the reaction counter service.
//
// Thread-safety model:
//   - every method is safe from any goroutine
//   - writes serialize on the store's single SQLite connection
//   - the Engine holds no mutable state of its own after New
type Engine struct {
	store   *store.Store
	logger  *slog.Logger
	policy  ConflictPolicy
	metrics *metrics.Recorder
	runIDs  RunIDGenerator
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithConflictPolicy sets what ReactTo does when the reacter already
// reacted with a different type. Default: ConflictPolicyAccumulate.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithMetrics sets the metrics recorder. Default: none.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// WithRunIDGenerator sets the recount run ID generator.
// Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// WithClock sets the time source used to measure recount runs.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine over s.
func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		logger: slog.Default(),
		policy: DefaultConflictPolicy,
		runIDs: UUIDv7Generator{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Policy returns the engine's conflict policy.
func (e *Engine) Policy() ConflictPolicy {
	return e.policy
}

// ReactTo records that reacter reacted to reactant with the named type.
//
// Validation happens before any mutation: a null reacter fails with
// REACTER_INVALID, a null reactant with REACTANT_INVALID, and an unknown type
// with REACTION_TYPE_INVALID. Reacting again with the same type is a no-op.
func (e *Engine) ReactTo(ctx context.Context, reacter Reacter, reactant Reactant, reactionTypeName string) error {
	applied, err := e.reactTo(ctx, reacter, reactant, reactionTypeName)
	e.metrics.ObserveReaction(metrics.OpReact, writeResult(applied, err))
	return err
}

// UnreactTo removes the reaction of the named type from reacter to
// reactant. Validation matches ReactTo. Unreacting a reaction that does not
// exist is a no-op.
func (e *Engine) UnreactTo(ctx context.Context, reacter Reacter, reactant Reactant, reactionTypeName string) error {
	applied, err := e.unreactTo(ctx, reacter, reactant, reactionTypeName)
	e.metrics.ObserveReaction(metrics.OpUnreact, writeResult(applied, err))
	return err
}

func writeResult(applied bool, err error) string {
	switch {
	case err != nil:
		return metrics.ResultError
	case applied:
		return metrics.ResultApplied
	default:
		return metrics.ResultNoop
	}
}

func validateParticipants(reacter Reacter, reactant Reactant) error {
	if reacter == nil || reacter.IsNull() {
		return reacterNull()
	}
	if reactant == nil || reactant.IsNull() {
		return reactantNull()
	}
	return nil
}

func (e *Engine) reactTo(ctx context.Context, reacter Reacter, reactant Reactant, reactionTypeName string) (bool, error) {
	if err := validateParticipants(reacter, reactant); err != nil {
		return false, err
	}
	rt, err := e.ReactionType(ctx, reactionTypeName)
	if err != nil {
		return false, err
	}

	var applied bool
	err = e.store.WithTx(ctx, func(tx *store.Tx) error {
		applied = false

		existing, err := tx.ReactionsBetween(ctx, reacter.ID(), reactant.ID())
		if err != nil {
			return err
		}
		for _, r := range existing {
			if r.ReactionTypeID == rt.ID {
				return nil
			}
		}

		if len(existing) > 0 {
			if err := e.resolveConflict(ctx, tx, rt, existing); err != nil {
				return err
			}
		}

		_, inserted, err := tx.InsertReaction(ctx, reacter.ID(), reactant.ID(), rt.ID)
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}
		if err := applyDelta(ctx, tx, model.CounterKey{ReactantID: reactant.ID(), ReactionTypeID: rt.ID}, model.ReactDelta(rt)); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("react to reactant %d: %w", reactant.ID(), err)
	}

	e.logger.Debug("reacted",
		"reacter_id", reacter.ID(),
		"reactant_id", reactant.ID(),
		"reaction_type", rt.Name,
		"applied", applied)
	return applied, nil
}

// resolveConflict applies the conflict policy to the reacter's existing
// reactions of other types.
func (e *Engine) resolveConflict(ctx context.Context, tx *store.Tx, rt model.ReactionType, existing []model.Reaction) error {
	switch e.policy {
	case ConflictPolicyReject:
		other, err := tx.ReactionTypeByID(ctx, existing[0].ReactionTypeID)
		if err != nil {
			return err
		}
		return reactionConflict(rt.Name, other.Name)

	case ConflictPolicyReplace:
		for _, r := range existing {
			other, err := tx.ReactionTypeByID(ctx, r.ReactionTypeID)
			if err != nil {
				return err
			}
			deleted, err := tx.DeleteReaction(ctx, r.ReacterID, r.ReactantID, r.ReactionTypeID)
			if err != nil {
				return err
			}
			if !deleted {
				continue
			}
			if err := applyDelta(ctx, tx, model.CounterKey{ReactantID: r.ReactantID, ReactionTypeID: other.ID}, model.UnreactDelta(other)); err != nil {
				return err
			}
		}
		return nil

	default:
		return nil
	}
}

func (e *Engine) unreactTo(ctx context.Context, reacter Reacter, reactant Reactant, reactionTypeName string) (bool, error) {
	if err := validateParticipants(reacter, reactant); err != nil {
		return false, err
	}
	rt, err := e.ReactionType(ctx, reactionTypeName)
	if err != nil {
		return false, err
	}

	var applied bool
	err = e.store.WithTx(ctx, func(tx *store.Tx) error {
		applied = false

		deleted, err := tx.DeleteReaction(ctx, reacter.ID(), reactant.ID(), rt.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		if err := applyDelta(ctx, tx, model.CounterKey{ReactantID: reactant.ID(), ReactionTypeID: rt.ID}, model.UnreactDelta(rt)); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("unreact to reactant %d: %w", reactant.ID(), err)
	}

	e.logger.Debug("unreacted",
		"reacter_id", reacter.ID(),
		"reactant_id", reactant.ID(),
		"reaction_type", rt.Name,
		"applied", applied)
	return applied, nil
}

// DeleteReactant removes a reactant with its reactions, counters, and total.
// Deleting a reactant that does not exist is a no-op.
func (e *Engine) DeleteReactant(ctx context.Context, id int64) error {
	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.DeleteAllForReactant(ctx, id); err != nil {
			return err
		}
		return tx.DeleteReactant(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete reactant %d: %w", id, err)
	}
	return nil
}

// DeleteReacter removes a reacter and every reaction it gave, reversing each
// reaction's delta on the affected counters and totals.
func (e *Engine) DeleteReacter(ctx context.Context, id int64) error {
	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		reactions, err := tx.ReactionsForReacter(ctx, id)
		if err != nil {
			return err
		}
		types := map[int64]model.ReactionType{}
		for _, r := range reactions {
			rt, ok := types[r.ReactionTypeID]
			if !ok {
				if rt, err = tx.ReactionTypeByID(ctx, r.ReactionTypeID); err != nil {
					return err
				}
				types[rt.ID] = rt
			}
			if _, err := tx.DeleteReaction(ctx, r.ReacterID, r.ReactantID, r.ReactionTypeID); err != nil {
				return err
			}
			if err := applyDelta(ctx, tx, model.CounterKey{ReactantID: r.ReactantID, ReactionTypeID: rt.ID}, model.UnreactDelta(rt)); err != nil {
				return err
			}
		}
		return tx.DeleteReacter(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete reacter %d: %w", id, err)
	}
	return nil
}
