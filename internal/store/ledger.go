package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/love/internal/model"
)

// InsertReaction appends a fact to the ledger.
// Uses ON CONFLICT DO NOTHING on (reacter, reactant, type): inserted is false
// when the fact already existed, and the existing row is returned.
func (q queries) InsertReaction(ctx context.Context, reacterID, reactantID, reactionTypeID int64) (reaction model.Reaction, inserted bool, err error) {
	now := q.now().UTC()
	res, err := q.q.ExecContext(ctx, `
		INSERT INTO reactions (reacter_id, reactant_id, reaction_type_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(reacter_id, reactant_id, reaction_type_id) DO NOTHING
	`, reacterID, reactantID, reactionTypeID, formatTime(now))
	if err != nil {
		return model.Reaction{}, false, fmt.Errorf("insert reaction: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return model.Reaction{}, false, fmt.Errorf("insert reaction: rows affected: %w", err)
	}

	reaction, err = q.FindReaction(ctx, reacterID, reactantID, reactionTypeID)
	if err != nil {
		return model.Reaction{}, false, fmt.Errorf("insert reaction: %w", err)
	}
	return reaction, rowsAffected > 0, nil
}

// DeleteReaction removes a fact from the ledger.
// deleted is false when there was nothing to remove.
func (q queries) DeleteReaction(ctx context.Context, reacterID, reactantID, reactionTypeID int64) (deleted bool, err error) {
	res, err := q.q.ExecContext(ctx, `
		DELETE FROM reactions
		WHERE reacter_id = ? AND reactant_id = ? AND reaction_type_id = ?
	`, reacterID, reactantID, reactionTypeID)
	if err != nil {
		return false, fmt.Errorf("delete reaction: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete reaction: rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// FindReaction returns the fact for an exact triple.
// Returns ErrNotFound if there is none.
func (q queries) FindReaction(ctx context.Context, reacterID, reactantID, reactionTypeID int64) (model.Reaction, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT id, reacter_id, reactant_id, reaction_type_id, created_at
		FROM reactions
		WHERE reacter_id = ? AND reactant_id = ? AND reaction_type_id = ?
	`, reacterID, reactantID, reactionTypeID)
	return scanReaction(row)
}

// ReactionsBetween returns every fact from reacter to reactant, whatever
// the type. Ordered by id.
func (q queries) ReactionsBetween(ctx context.Context, reacterID, reactantID int64) ([]model.Reaction, error) {
	return q.listReactions(ctx, `
		SELECT id, reacter_id, reactant_id, reaction_type_id, created_at
		FROM reactions
		WHERE reacter_id = ? AND reactant_id = ?
		ORDER BY id ASC
	`, reacterID, reactantID)
}

// ReactionsForReactant returns the facts of a reactant. Ordered by id.
func (q queries) ReactionsForReactant(ctx context.Context, reactantID int64) ([]model.Reaction, error) {
	return q.listReactions(ctx, `
		SELECT id, reacter_id, reactant_id, reaction_type_id, created_at
		FROM reactions
		WHERE reactant_id = ?
		ORDER BY id ASC
	`, reactantID)
}

// ReactionsForReacter returns the facts given by a reacter. Ordered by id.
func (q queries) ReactionsForReacter(ctx context.Context, reacterID int64) ([]model.Reaction, error) {
	return q.listReactions(ctx, `
		SELECT id, reacter_id, reactant_id, reaction_type_id, created_at
		FROM reactions
		WHERE reacter_id = ?
		ORDER BY id ASC
	`, reacterID)
}

// HasReaction reports whether reacter reacted to reactant, with any type
// when reactionTypeID is 0, or with exactly that type otherwise.
func (q queries) HasReaction(ctx context.Context, reacterID, reactantID, reactionTypeID int64) (bool, error) {
	var exists int
	var err error
	if reactionTypeID == 0 {
		err = q.q.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM reactions WHERE reacter_id = ? AND reactant_id = ?)
		`, reacterID, reactantID).Scan(&exists)
	} else {
		err = q.q.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM reactions
				WHERE reacter_id = ? AND reactant_id = ? AND reaction_type_id = ?
			)
		`, reacterID, reactantID, reactionTypeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("has reaction: %w", err)
	}
	return exists != 0, nil
}

// FactTally is the ledger's grouped count for one (reactant, type) pair,
// with the type's current weight.
type FactTally struct {
	ReactionTypeID int64
	Count          int64
	TypeWeight     int64
}

// TallyFacts groups a reactant's ledger facts by reaction type, restricted to
// one type when reactionTypeID is non-zero. Types without facts are absent.
// Ordered by reaction type id.
//
// Run inside a transaction, this is the single snapshot a recount computes
// its counters from.
func (q queries) TallyFacts(ctx context.Context, reactantID, reactionTypeID int64) ([]FactTally, error) {
	query := `
		SELECT r.reaction_type_id, COUNT(*), rt.weight
		FROM reactions r
		JOIN reaction_types rt ON rt.id = r.reaction_type_id
		WHERE r.reactant_id = ?`
	args := []any{reactantID}
	if reactionTypeID != 0 {
		query += ` AND r.reaction_type_id = ?`
		args = append(args, reactionTypeID)
	}
	query += `
		GROUP BY r.reaction_type_id, rt.weight
		ORDER BY r.reaction_type_id ASC`

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tally facts: %w", err)
	}
	defer rows.Close()

	tallies := []FactTally{}
	for rows.Next() {
		var t FactTally
		if err := rows.Scan(&t.ReactionTypeID, &t.Count, &t.TypeWeight); err != nil {
			return nil, fmt.Errorf("scan fact tally: %w", err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fact tallies: %w", err)
	}
	return tallies, nil
}

func (q queries) listReactions(ctx context.Context, query string, args ...any) ([]model.Reaction, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reactions: %w", err)
	}
	defer rows.Close()

	reactions := []model.Reaction{}
	for rows.Next() {
		r, err := scanReaction(rows)
		if err != nil {
			return nil, err
		}
		reactions = append(reactions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reactions: %w", err)
	}
	return reactions, nil
}

func scanReaction(row rowScanner) (model.Reaction, error) {
	var r model.Reaction
	var created string
	if err := row.Scan(&r.ID, &r.ReacterID, &r.ReactantID, &r.ReactionTypeID, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reaction{}, ErrNotFound
		}
		return model.Reaction{}, fmt.Errorf("scan reaction: %w", err)
	}
	var err error
	if r.CreatedAt, err = parseTime("reaction created_at", created); err != nil {
		return model.Reaction{}, err
	}
	return r, nil
}
