package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/love/internal/model"
)

// IncrementTotal applies d to the total of a reactant. It follows the same
// positive-UPSERT / negative-UPDATE split as IncrementCounter.
func (q queries) IncrementTotal(ctx context.Context, reactantID int64, d model.Delta) error {
	if d.Count >= 0 {
		_, err := q.q.ExecContext(ctx, `
			INSERT INTO reaction_totals (reactant_id, count, weight)
			VALUES (?, ?, ?)
			ON CONFLICT(reactant_id) DO UPDATE SET
				count = count + excluded.count,
				weight = weight + excluded.weight
		`, reactantID, d.Count, d.Weight)
		if err != nil {
			return fmt.Errorf("increment total %d: %w", reactantID, err)
		}
		return nil
	}

	res, err := q.q.ExecContext(ctx, `
		UPDATE reaction_totals
		SET count = count + ?, weight = weight + ?
		WHERE reactant_id = ?
	`, d.Count, d.Weight, reactantID)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("decrement total %d: %w", reactantID, ErrCounterUnderflow)
		}
		return fmt.Errorf("decrement total %d: %w", reactantID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement total: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("decrement total %d: missing row: %w", reactantID, ErrCounterUnderflow)
	}
	return nil
}

// GetTotal returns the total of a reactant, or (0, 0) when no row exists.
func (q queries) GetTotal(ctx context.Context, reactantID int64) (model.ReactionTotal, error) {
	t := model.ReactionTotal{ReactantID: reactantID}
	err := q.q.QueryRowContext(ctx, `
		SELECT count, weight FROM reaction_totals WHERE reactant_id = ?
	`, reactantID).Scan(&t.Count, &t.Weight)
	if errors.Is(err, sql.ErrNoRows) {
		return t, nil
	}
	if err != nil {
		return model.ReactionTotal{}, fmt.Errorf("get total %d: %w", reactantID, err)
	}
	return t, nil
}

// RecomputeTotal overwrites the total of a reactant with the sum of its
// counter rows and returns the new value. A reactant with no counters gets
// a (0, 0) row.
func (q queries) RecomputeTotal(ctx context.Context, reactantID int64) (model.ReactionTotal, error) {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO reaction_totals (reactant_id, count, weight)
		SELECT ?, COALESCE(SUM(count), 0), COALESCE(SUM(weight), 0)
		FROM reaction_counters
		WHERE reactant_id = ?
		ON CONFLICT(reactant_id) DO UPDATE SET
			count = excluded.count,
			weight = excluded.weight
	`, reactantID, reactantID)
	if err != nil {
		return model.ReactionTotal{}, fmt.Errorf("recompute total %d: %w", reactantID, err)
	}
	return q.GetTotal(ctx, reactantID)
}
