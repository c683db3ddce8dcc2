package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/love/internal/model"
	"github.com/roach88/love/internal/store"
)

// NormalizeName returns the stored form of a reaction type or entity type
// name. Names are compared case-sensitively after NFC normalization, so
// "Café" typed with a combining accent finds the precomposed type.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// RegisterReactionType creates a reaction type. Registering an existing name
// with the same weight returns the existing type; with a different weight it
// fails with REACTION_TYPE_IMMUTABLE, because stored counters would no longer
// match count times weight.
func (e *Engine) RegisterReactionType(ctx context.Context, name string, weight int64) (model.ReactionType, error) {
	name = NormalizeName(name)
	if name == "" {
		return model.ReactionType{}, fmt.Errorf("register reaction type: name must not be empty")
	}

	rt, created, err := e.store.InsertReactionType(ctx, name, weight)
	if err != nil {
		return model.ReactionType{}, fmt.Errorf("register reaction type %q: %w", name, err)
	}
	if !created && rt.Weight != weight {
		return model.ReactionType{}, reactionTypeWeightChanged(name, rt.Weight, weight)
	}

	if created {
		e.logger.Info("reaction type registered", "name", rt.Name, "weight", rt.Weight)
	}
	return rt, nil
}

// ReactionType resolves a reaction type by name.
// Fails with REACTION_TYPE_INVALID when the name is not registered.
func (e *Engine) ReactionType(ctx context.Context, name string) (model.ReactionType, error) {
	rt, err := e.store.ReactionTypeByName(ctx, NormalizeName(name))
	if errors.Is(err, store.ErrNotFound) {
		return model.ReactionType{}, reactionTypeNotExist(name)
	}
	if err != nil {
		return model.ReactionType{}, fmt.Errorf("resolve reaction type %q: %w", name, err)
	}
	return rt, nil
}

// ReactionTypes returns every registered reaction type ordered by id.
func (e *Engine) ReactionTypes(ctx context.Context) ([]model.ReactionType, error) {
	types, err := e.store.ListReactionTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reaction types: %w", err)
	}
	return types, nil
}
