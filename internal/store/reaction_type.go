package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/love/internal/model"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("store: not found")

// InsertReactionType creates a reaction type, or returns the existing one
// when the name is already taken. Callers compare the returned weight to
// detect attempts to change it.
func (q queries) InsertReactionType(ctx context.Context, name string, weight int64) (model.ReactionType, bool, error) {
	res, err := q.q.ExecContext(ctx, `
		INSERT INTO reaction_types (name, weight, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, weight, formatTime(q.now()))
	if err != nil {
		return model.ReactionType{}, false, fmt.Errorf("insert reaction type: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return model.ReactionType{}, false, fmt.Errorf("insert reaction type: rows affected: %w", err)
	}

	rt, err := q.ReactionTypeByName(ctx, name)
	if err != nil {
		return model.ReactionType{}, false, fmt.Errorf("insert reaction type: %w", err)
	}
	return rt, rowsAffected > 0, nil
}

// ReactionTypeByName returns the reaction type with exactly this name.
// Returns ErrNotFound if there is none.
func (q queries) ReactionTypeByName(ctx context.Context, name string) (model.ReactionType, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT id, name, weight, created_at FROM reaction_types WHERE name = ?
	`, name)
	return scanReactionType(row)
}

// ReactionTypeByID returns the reaction type with this id.
// Returns ErrNotFound if there is none.
func (q queries) ReactionTypeByID(ctx context.Context, id int64) (model.ReactionType, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT id, name, weight, created_at FROM reaction_types WHERE id = ?
	`, id)
	return scanReactionType(row)
}

// ListReactionTypes returns all reaction types ordered by id.
func (q queries) ListReactionTypes(ctx context.Context) ([]model.ReactionType, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, name, weight, created_at FROM reaction_types ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query reaction types: %w", err)
	}
	defer rows.Close()

	types := []model.ReactionType{}
	for rows.Next() {
		rt, err := scanReactionType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reaction types: %w", err)
	}
	return types, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReactionType(row rowScanner) (model.ReactionType, error) {
	var rt model.ReactionType
	var created string
	if err := row.Scan(&rt.ID, &rt.Name, &rt.Weight, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReactionType{}, ErrNotFound
		}
		return model.ReactionType{}, fmt.Errorf("scan reaction type: %w", err)
	}
	var err error
	rt.CreatedAt, err = parseTime("reaction type created_at", created)
	if err != nil {
		return model.ReactionType{}, err
	}
	return rt, nil
}
