package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/love/internal/model"
	"github.com/roach88/love/internal/store"
)

// RecountReport summarizes one recount run.
type RecountReport struct {
	RunID     string           `json:"run_id"`
	Scope     Scope            `json:"scope"`
	Reactants int              `json:"reactants"`
	Recounted int              `json:"recounted"`
	Failed    int              `json:"failed"`
	Failures  []RecountFailure `json:"failures,omitempty"`
	Duration  time.Duration    `json:"duration_ns"`
}

// RecountFailure records a reactant whose recount transaction failed.
type RecountFailure struct {
	ReactantID int64  `json:"reactant_id"`
	Error      string `json:"error"`
}

// Recount rebuilds counters and totals from the ledger.
//
// The scope is validated first: an unknown or non-reactable entity type fails
// with REACTABLE_INVALID and an unknown reaction type with
// REACTION_TYPE_INVALID, both before anything is written.
//
// Each reactant in scope is then rebuilt in its own transaction. Counters of
// reaction types outside the scope are left as they are; the total is
// recomputed from all of the reactant's counters. A reactant with no facts in
// scope ends with no in-scope counter rows.
//
// A failed reactant is logged, reported, and skipped; the returned error
// aggregates every failure. The report carries a RunID only once the run has
// started: an error with an empty RunID means nothing was recounted.
// Cancelling ctx stops the run between reactants; reactants already committed
// stay committed.
func (e *Engine) Recount(ctx context.Context, scope Scope) (RecountReport, error) {
	rs, err := e.resolveScope(ctx, scope)
	if err != nil {
		return RecountReport{}, err
	}

	report := RecountReport{Scope: scope}
	start := e.now()

	ids, err := e.store.ListReactantIDs(ctx, rs.entityType)
	if err != nil {
		return report, fmt.Errorf("recount: list reactants: %w", err)
	}
	report.RunID = e.runIDs.Generate()
	report.Reactants = len(ids)
	logger := e.logger.With("run_id", report.RunID, "scope", scope.String())
	logger.Info("recount started", "reactants", len(ids))

	var result *multierror.Error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, fmt.Errorf("recount interrupted: %w", err))
			break
		}
		if err := e.recountReactant(ctx, id, rs.reactionType.ID); err != nil {
			logger.Error("recount reactant failed", "reactant_id", id, "error", err)
			report.Failed++
			report.Failures = append(report.Failures, RecountFailure{ReactantID: id, Error: err.Error()})
			result = multierror.Append(result, fmt.Errorf("reactant %d: %w", id, err))
			continue
		}
		logger.Debug("reactant recounted", "reactant_id", id)
		report.Recounted++
	}

	report.Duration = e.now().Sub(start)
	e.metrics.ObserveRecount(report.Recounted, report.Failed, report.Duration)
	logger.Info("recount finished",
		"recounted", report.Recounted,
		"failed", report.Failed,
		"duration", report.Duration)

	return report, result.ErrorOrNil()
}

// recountReactant rebuilds one reactant's counters inside one transaction.
// reactionTypeID 0 means every type.
func (e *Engine) recountReactant(ctx context.Context, reactantID, reactionTypeID int64) error {
	return e.store.WithTx(ctx, func(tx *store.Tx) error {
		if _, err := tx.DeleteCounters(ctx, reactantID, reactionTypeID); err != nil {
			return err
		}

		tallies, err := tx.TallyFacts(ctx, reactantID, reactionTypeID)
		if err != nil {
			return err
		}
		for _, t := range tallies {
			err := tx.PutCounter(ctx, model.ReactionCounter{
				ReactantID:     reactantID,
				ReactionTypeID: t.ReactionTypeID,
				Count:          t.Count,
				Weight:         t.Count * t.TypeWeight,
			})
			if err != nil {
				return err
			}
		}

		_, err = tx.RecomputeTotal(ctx, reactantID)
		return err
	})
}
