package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/love/internal/model"
	"github.com/roach88/love/internal/store"
)

// Reactable is a domain entity that can receive reactions. ReactantID is
// the id of the reactant registered for it, or 0 when none was.
type Reactable interface {
	ReactableType() string
	ReactantID() int64
}

// Reacterable is a domain entity that can give reactions. ReacterID is the
// id of the reacter registered for it, or 0 when none was.
type Reacterable interface {
	ReacterableType() string
	ReacterID() int64
}

// ReactableRef is a Reactable held by value.
type ReactableRef struct {
	Type string `json:"type" yaml:"type"`
	ID   int64  `json:"id" yaml:"id"`
}

func (r ReactableRef) ReactableType() string { return r.Type }
func (r ReactableRef) ReactantID() int64     { return r.ID }

// ReacterableRef is a Reacterable held by value.
type ReacterableRef struct {
	Type string `json:"type" yaml:"type"`
	ID   int64  `json:"id" yaml:"id"`
}

func (r ReacterableRef) ReacterableType() string { return r.Type }
func (r ReacterableRef) ReacterID() int64        { return r.ID }

// RegisterEntityType adds an entity type to the resolver, or updates its
// alias and capabilities.
func (e *Engine) RegisterEntityType(ctx context.Context, et model.EntityType) error {
	et.Name = NormalizeName(et.Name)
	et.Alias = NormalizeName(et.Alias)
	if et.Name == "" {
		return fmt.Errorf("register entity type: name must not be empty")
	}
	if err := e.store.UpsertEntityType(ctx, et); err != nil {
		return fmt.Errorf("register entity type %q: %w", et.Name, err)
	}
	return nil
}

// EntityTypes returns every registered entity type ordered by name.
func (e *Engine) EntityTypes(ctx context.Context) ([]model.EntityType, error) {
	types, err := e.store.ListEntityTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entity types: %w", err)
	}
	return types, nil
}

// ResolveReactableType resolves an entity type by full name or alias and
// checks that it can receive reactions. Fails with REACTABLE_INVALID when
// the type is unknown or not reactable.
func (e *Engine) ResolveReactableType(ctx context.Context, nameOrAlias string) (model.EntityType, error) {
	et, err := e.store.EntityTypeByNameOrAlias(ctx, NormalizeName(nameOrAlias))
	if errors.Is(err, store.ErrNotFound) {
		return model.EntityType{}, reactableNotExist(nameOrAlias)
	}
	if err != nil {
		return model.EntityType{}, fmt.Errorf("resolve entity type %q: %w", nameOrAlias, err)
	}
	if !et.Reactable {
		return model.EntityType{}, reactableNotReactable(et.Name)
	}
	return et, nil
}

// ResolveReacterableType resolves an entity type by full name or alias and
// checks that it can give reactions. Fails with REACTER_INVALID otherwise.
func (e *Engine) ResolveReacterableType(ctx context.Context, nameOrAlias string) (model.EntityType, error) {
	et, err := e.store.EntityTypeByNameOrAlias(ctx, NormalizeName(nameOrAlias))
	if errors.Is(err, store.ErrNotFound) {
		return model.EntityType{}, reacterTypeNotReacterable(nameOrAlias)
	}
	if err != nil {
		return model.EntityType{}, fmt.Errorf("resolve entity type %q: %w", nameOrAlias, err)
	}
	if !et.Reacterable {
		return model.EntityType{}, reacterTypeNotReacterable(et.Name)
	}
	return et, nil
}

// RegisterReactant registers a reactant for an entity of the given type
// (full name or alias). The reactant is stored under the full name.
func (e *Engine) RegisterReactant(ctx context.Context, entityType string) (Reactant, error) {
	et, err := e.ResolveReactableType(ctx, entityType)
	if err != nil {
		return nil, err
	}
	m, err := e.store.InsertReactant(ctx, et.Name)
	if err != nil {
		return nil, fmt.Errorf("register reactant: %w", err)
	}
	return &reactant{e: e, m: m}, nil
}

// RegisterReacter registers a reacter for an entity of the given type
// (full name or alias). The reacter is stored under the full name.
func (e *Engine) RegisterReacter(ctx context.Context, entityType string) (Reacter, error) {
	et, err := e.ResolveReacterableType(ctx, entityType)
	if err != nil {
		return nil, err
	}
	m, err := e.store.InsertReacter(ctx, et.Name)
	if err != nil {
		return nil, fmt.Errorf("register reacter: %w", err)
	}
	return &reacter{e: e, m: m}, nil
}

// ReactantByID returns the reactant with this id, or NullReactant when
// there is none.
func (e *Engine) ReactantByID(ctx context.Context, id int64) (Reactant, error) {
	if id == 0 {
		return NullReactant{}, nil
	}
	m, err := e.store.ReactantByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NullReactant{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load reactant %d: %w", id, err)
	}
	return &reactant{e: e, m: m}, nil
}

// ReacterByID returns the reacter with this id, or NullReacter when there
// is none.
func (e *Engine) ReacterByID(ctx context.Context, id int64) (Reacter, error) {
	if id == 0 {
		return NullReacter{}, nil
	}
	m, err := e.store.ReacterByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NullReacter{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load reacter %d: %w", id, err)
	}
	return &reacter{e: e, m: m}, nil
}

// ReactantOf returns the reactant of a reactable entity. The entity's type
// must resolve to a reactable entity type, or REACTABLE_INVALID is returned.
// A nil reactable, one without a registered reactant, or one whose reactant
// belongs to another entity type yields NullReactant.
func (e *Engine) ReactantOf(ctx context.Context, r Reactable) (Reactant, error) {
	if r == nil {
		return NullReactant{}, nil
	}
	et, err := e.ResolveReactableType(ctx, r.ReactableType())
	if err != nil {
		return nil, err
	}
	reactant, err := e.ReactantByID(ctx, r.ReactantID())
	if err != nil {
		return nil, err
	}
	if !reactant.IsNull() && reactant.Type() != et.Name {
		return NullReactant{}, nil
	}
	return reactant, nil
}

// ReacterOf returns the reacter of a reacterable entity. The entity's type
// must resolve to a reacterable entity type, or REACTER_INVALID is returned.
// A nil reacterable, one without a registered reacter, or one whose reacter
// belongs to another entity type yields NullReacter.
func (e *Engine) ReacterOf(ctx context.Context, r Reacterable) (Reacter, error) {
	if r == nil {
		return NullReacter{}, nil
	}
	et, err := e.ResolveReacterableType(ctx, r.ReacterableType())
	if err != nil {
		return nil, err
	}
	reacter, err := e.ReacterByID(ctx, r.ReacterID())
	if err != nil {
		return nil, err
	}
	if !reacter.IsNull() && reacter.Type() != et.Name {
		return NullReacter{}, nil
	}
	return reacter, nil
}
