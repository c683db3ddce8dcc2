package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/love/internal/model"
)

// ErrCounterUnderflow is returned when a delta would take a counter or total
// below zero, or when a decrement targets a row that does not exist. Either
// way the stored aggregates have drifted from the ledger; a recount repairs
// them.
var ErrCounterUnderflow = errors.New("store: counter underflow")

// IncrementCounter applies d to the counter for key, creating the row when a
// positive delta finds none. Count and weight move in one statement.
//
// Positive deltas are a single UPSERT. Negative deltas are a plain UPDATE:
// SQLite checks constraints on the candidate INSERT row before resolving the
// conflict, so a negative count can never go through the UPSERT path.
func (q queries) IncrementCounter(ctx context.Context, key model.CounterKey, d model.Delta) error {
	if d.Count >= 0 {
		_, err := q.q.ExecContext(ctx, `
			INSERT INTO reaction_counters (reactant_id, reaction_type_id, count, weight)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(reactant_id, reaction_type_id) DO UPDATE SET
				count = count + excluded.count,
				weight = weight + excluded.weight
		`, key.ReactantID, key.ReactionTypeID, d.Count, d.Weight)
		if err != nil {
			return fmt.Errorf("increment counter (%d, %d): %w", key.ReactantID, key.ReactionTypeID, err)
		}
		return nil
	}

	res, err := q.q.ExecContext(ctx, `
		UPDATE reaction_counters
		SET count = count + ?, weight = weight + ?
		WHERE reactant_id = ? AND reaction_type_id = ?
	`, d.Count, d.Weight, key.ReactantID, key.ReactionTypeID)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("decrement counter (%d, %d): %w", key.ReactantID, key.ReactionTypeID, ErrCounterUnderflow)
		}
		return fmt.Errorf("decrement counter (%d, %d): %w", key.ReactantID, key.ReactionTypeID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement counter: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("decrement counter (%d, %d): missing row: %w", key.ReactantID, key.ReactionTypeID, ErrCounterUnderflow)
	}
	return nil
}

// GetCounter returns the counter for key, or a zero counter with the same
// key when no row exists.
func (q queries) GetCounter(ctx context.Context, key model.CounterKey) (model.ReactionCounter, error) {
	c := model.ReactionCounter{ReactantID: key.ReactantID, ReactionTypeID: key.ReactionTypeID}
	err := q.q.QueryRowContext(ctx, `
		SELECT count, weight FROM reaction_counters
		WHERE reactant_id = ? AND reaction_type_id = ?
	`, key.ReactantID, key.ReactionTypeID).Scan(&c.Count, &c.Weight)
	if errors.Is(err, sql.ErrNoRows) {
		return c, nil
	}
	if err != nil {
		return model.ReactionCounter{}, fmt.Errorf("get counter (%d, %d): %w", key.ReactantID, key.ReactionTypeID, err)
	}
	return c, nil
}

// ListCounters returns every counter row of a reactant, zeroed rows
// included. Ordered by reaction type id.
func (q queries) ListCounters(ctx context.Context, reactantID int64) ([]model.ReactionCounter, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT reactant_id, reaction_type_id, count, weight
		FROM reaction_counters
		WHERE reactant_id = ?
		ORDER BY reaction_type_id ASC
	`, reactantID)
	if err != nil {
		return nil, fmt.Errorf("list counters: %w", err)
	}
	defer rows.Close()

	counters := []model.ReactionCounter{}
	for rows.Next() {
		var c model.ReactionCounter
		if err := rows.Scan(&c.ReactantID, &c.ReactionTypeID, &c.Count, &c.Weight); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		counters = append(counters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counters: %w", err)
	}
	return counters, nil
}

// ListAllCounters returns every counter row in the database, ordered by
// (reactant, type). Used for snapshots and consistency checks.
func (q queries) ListAllCounters(ctx context.Context) ([]model.ReactionCounter, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT reactant_id, reaction_type_id, count, weight
		FROM reaction_counters
		ORDER BY reactant_id ASC, reaction_type_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list all counters: %w", err)
	}
	defer rows.Close()

	counters := []model.ReactionCounter{}
	for rows.Next() {
		var c model.ReactionCounter
		if err := rows.Scan(&c.ReactantID, &c.ReactionTypeID, &c.Count, &c.Weight); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		counters = append(counters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counters: %w", err)
	}
	return counters, nil
}

// PutCounter overwrites the counter for c's key with c's values.
func (q queries) PutCounter(ctx context.Context, c model.ReactionCounter) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO reaction_counters (reactant_id, reaction_type_id, count, weight)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(reactant_id, reaction_type_id) DO UPDATE SET
			count = excluded.count,
			weight = excluded.weight
	`, c.ReactantID, c.ReactionTypeID, c.Count, c.Weight)
	if err != nil {
		return fmt.Errorf("put counter (%d, %d): %w", c.ReactantID, c.ReactionTypeID, err)
	}
	return nil
}

// DeleteCounters removes the counters of a reactant: all of them when
// reactionTypeID is 0, only that type's row otherwise. Returns the number of
// rows removed.
func (q queries) DeleteCounters(ctx context.Context, reactantID, reactionTypeID int64) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if reactionTypeID == 0 {
		res, err = q.q.ExecContext(ctx, `
			DELETE FROM reaction_counters WHERE reactant_id = ?
		`, reactantID)
	} else {
		res, err = q.q.ExecContext(ctx, `
			DELETE FROM reaction_counters WHERE reactant_id = ? AND reaction_type_id = ?
		`, reactantID, reactionTypeID)
	}
	if err != nil {
		return 0, fmt.Errorf("delete counters of reactant %d: %w", reactantID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete counters: rows affected: %w", err)
	}
	return n, nil
}

// DeleteAllForReactant removes every counter of a reactant and its total.
func (q queries) DeleteAllForReactant(ctx context.Context, reactantID int64) error {
	if _, err := q.DeleteCounters(ctx, reactantID, 0); err != nil {
		return err
	}
	if _, err := q.q.ExecContext(ctx, `
		DELETE FROM reaction_totals WHERE reactant_id = ?
	`, reactantID); err != nil {
		return fmt.Errorf("delete total of reactant %d: %w", reactantID, err)
	}
	return nil
}

// TruncateAggregates removes every counter and total row. The ledger is
// untouched; a full recount restores the aggregates.
func (q queries) TruncateAggregates(ctx context.Context) error {
	for _, stmt := range []string{
		`DELETE FROM reaction_counters`,
		`DELETE FROM reaction_totals`,
	} {
		if _, err := q.q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("truncate aggregates: %w", err)
		}
	}
	return nil
}
