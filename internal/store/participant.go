package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/love/internal/model"
)

// InsertReactant registers a new reactant for an entity of the given type.
func (q queries) InsertReactant(ctx context.Context, entityType string) (model.Reactant, error) {
	now := q.now().UTC()
	res, err := q.q.ExecContext(ctx, `
		INSERT INTO reactants (type, created_at) VALUES (?, ?)
	`, entityType, formatTime(now))
	if err != nil {
		return model.Reactant{}, fmt.Errorf("insert reactant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Reactant{}, fmt.Errorf("insert reactant: last insert id: %w", err)
	}
	return model.Reactant{ID: id, Type: entityType, CreatedAt: now}, nil
}

// InsertReacter registers a new reacter for an entity of the given type.
func (q queries) InsertReacter(ctx context.Context, entityType string) (model.Reacter, error) {
	now := q.now().UTC()
	res, err := q.q.ExecContext(ctx, `
		INSERT INTO reacters (type, created_at) VALUES (?, ?)
	`, entityType, formatTime(now))
	if err != nil {
		return model.Reacter{}, fmt.Errorf("insert reacter: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Reacter{}, fmt.Errorf("insert reacter: last insert id: %w", err)
	}
	return model.Reacter{ID: id, Type: entityType, CreatedAt: now}, nil
}

// ReactantByID returns the reactant with this id.
// Returns ErrNotFound if there is none.
func (q queries) ReactantByID(ctx context.Context, id int64) (model.Reactant, error) {
	var r model.Reactant
	var created string
	err := q.q.QueryRowContext(ctx, `
		SELECT id, type, created_at FROM reactants WHERE id = ?
	`, id).Scan(&r.ID, &r.Type, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reactant{}, ErrNotFound
	}
	if err != nil {
		return model.Reactant{}, fmt.Errorf("scan reactant: %w", err)
	}
	if r.CreatedAt, err = parseTime("reactant created_at", created); err != nil {
		return model.Reactant{}, err
	}
	return r, nil
}

// ReacterByID returns the reacter with this id.
// Returns ErrNotFound if there is none.
func (q queries) ReacterByID(ctx context.Context, id int64) (model.Reacter, error) {
	var r model.Reacter
	var created string
	err := q.q.QueryRowContext(ctx, `
		SELECT id, type, created_at FROM reacters WHERE id = ?
	`, id).Scan(&r.ID, &r.Type, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reacter{}, ErrNotFound
	}
	if err != nil {
		return model.Reacter{}, fmt.Errorf("scan reacter: %w", err)
	}
	if r.CreatedAt, err = parseTime("reacter created_at", created); err != nil {
		return model.Reacter{}, err
	}
	return r, nil
}

// ListReactantIDs returns the ids of all reactants, or only those of one
// entity type when entityType is non-empty. Ordered by id.
func (q queries) ListReactantIDs(ctx context.Context, entityType string) ([]int64, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if entityType == "" {
		rows, err = q.q.QueryContext(ctx, `SELECT id FROM reactants ORDER BY id ASC`)
	} else {
		rows, err = q.q.QueryContext(ctx, `
			SELECT id FROM reactants WHERE type = ? ORDER BY id ASC
		`, entityType)
	}
	if err != nil {
		return nil, fmt.Errorf("query reactant ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reactant id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reactant ids: %w", err)
	}
	return ids, nil
}

// DeleteReactant removes a reactant. Its reactions, counters, and total are
// removed by ON DELETE CASCADE.
func (q queries) DeleteReactant(ctx context.Context, id int64) error {
	if _, err := q.q.ExecContext(ctx, `DELETE FROM reactants WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete reactant %d: %w", id, err)
	}
	return nil
}

// DeleteReacter removes a reacter. Its reactions are removed by ON DELETE
// CASCADE; counters are the caller's responsibility.
func (q queries) DeleteReacter(ctx context.Context, id int64) error {
	if _, err := q.q.ExecContext(ctx, `DELETE FROM reacters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete reacter %d: %w", id, err)
	}
	return nil
}
