package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/love/internal/model"
)

// UpsertEntityType registers an entity type or updates its alias and
// capabilities. An empty alias is stored as NULL so that many types may
// have no alias.
func (q queries) UpsertEntityType(ctx context.Context, et model.EntityType) error {
	var alias any
	if et.Alias != "" {
		alias = et.Alias
	}
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO entity_types (name, alias, reactable, reacterable)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			alias = excluded.alias,
			reactable = excluded.reactable,
			reacterable = excluded.reacterable
	`, et.Name, alias, boolToInt(et.Reactable), boolToInt(et.Reacterable))
	if err != nil {
		return fmt.Errorf("upsert entity type %s: %w", et.Name, err)
	}
	return nil
}

// EntityTypeByNameOrAlias returns the entity type whose full name or alias
// equals key. A full-name match wins over an alias match.
// Returns ErrNotFound if neither matches.
func (q queries) EntityTypeByNameOrAlias(ctx context.Context, key string) (model.EntityType, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT name, COALESCE(alias, ''), reactable, reacterable
		FROM entity_types
		WHERE name = ? OR alias = ?
		ORDER BY CASE WHEN name = ? THEN 0 ELSE 1 END
		LIMIT 1
	`, key, key, key)

	var et model.EntityType
	var reactable, reacterable int
	if err := row.Scan(&et.Name, &et.Alias, &reactable, &reacterable); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.EntityType{}, ErrNotFound
		}
		return model.EntityType{}, fmt.Errorf("scan entity type: %w", err)
	}
	et.Reactable = reactable != 0
	et.Reacterable = reacterable != 0
	return et, nil
}

// ListEntityTypes returns all entity types ordered by name.
func (q queries) ListEntityTypes(ctx context.Context) ([]model.EntityType, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT name, COALESCE(alias, ''), reactable, reacterable
		FROM entity_types
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query entity types: %w", err)
	}
	defer rows.Close()

	types := []model.EntityType{}
	for rows.Next() {
		var et model.EntityType
		var reactable, reacterable int
		if err := rows.Scan(&et.Name, &et.Alias, &reactable, &reacterable); err != nil {
			return nil, fmt.Errorf("scan entity type: %w", err)
		}
		et.Reactable = reactable != 0
		et.Reacterable = reacterable != 0
		types = append(types, et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entity types: %w", err)
	}
	return types, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
