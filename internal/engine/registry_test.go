package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/love/internal/model"
)

func TestRegisterReactionType_Idempotent(t *testing.T) {
	e := setupTestEngine(t)
	ctx := context.Background()

	first, err := e.RegisterReactionType(ctx, "Like", 1)
	require.NoError(t, err)
	second, err := e.RegisterReactionType(ctx, "Like", 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	types, err := e.ReactionTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)
}

func TestRegisterReactionType_WeightIsImmutable(t *testing.T) {
	e := setupTestEngine(t)
	ctx := context.Background()
	mustReactionType(t, e, "Like", 1)

	_, err := e.RegisterReactionType(ctx, "Like", 2)
	assert.True(t, errors.Is(err, ErrReactionTypeImmutable), "got %v", err)

	rt, err := e.ReactionType(ctx, "Like")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rt.Weight)
}

func TestRegisterReactionType_EmptyName(t *testing.T) {
	e := setupTestEngine(t)

	_, err := e.RegisterReactionType(context.Background(), "", 1)
	assert.Error(t, err)
}

func TestReactionType_NFCNormalized(t *testing.T) {
	e := setupTestEngine(t)
	ctx := context.Background()

	precomposed := "Caf\u00e9"
	decomposed := "Cafe\u0301"
	rt := mustReactionType(t, e, decomposed, 4)
	assert.Equal(t, precomposed, rt.Name)

	got, err := e.ReactionType(ctx, precomposed)
	require.NoError(t, err)
	assert.Equal(t, rt.ID, got.ID)
}

func TestReactionType_Unknown(t *testing.T) {
	e := setupTestEngine(t)

	_, err := e.ReactionType(context.Background(), "Nope")
	require.Error(t, err)
	assert.True(t, IsReactionTypeInvalid(err))

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "Nope", de.Name)
}

func TestRegisterReactant_ResolvesAlias(t *testing.T) {
	e := setupTestEngine(t)

	r, err := e.RegisterReactant(context.Background(), aliasMorphed)
	require.NoError(t, err)
	assert.Equal(t, typeEntityMorphed, r.Type())
	assert.False(t, r.IsNull())
}

func TestRegisterReactant_NotReactable(t *testing.T) {
	e := setupTestEngine(t)
	ctx := context.Background()

	_, err := e.RegisterReactant(ctx, typeUser)
	assert.True(t, IsReactableInvalid(err), "got %v", err)

	_, err = e.RegisterReactant(ctx, "app.Missing")
	assert.True(t, IsReactableInvalid(err), "got %v", err)
}

func TestRegisterReacter_NotReacterable(t *testing.T) {
	e := setupTestEngine(t)

	_, err := e.RegisterReacter(context.Background(), typeEntity)
	assert.True(t, IsReacterInvalid(err), "got %v", err)
}

func TestRegisterEntityType_UpdatesCapabilities(t *testing.T) {
	e := setupTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.RegisterEntityType(ctx, model.EntityType{Name: typeUser, Alias: "user", Reactable: true, Reacterable: true}))

	et, err := e.ResolveReactableType(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, typeUser, et.Name)

	types, err := e.EntityTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 3)
}

func TestReactantOf_SelectsVariant(t *testing.T) {
	e := setupTestEngine(t)
	ctx := context.Background()
	registered := mustReactant(t, e, typeEntity)

	tests := []struct {
		name     string
		ref      Reactable
		wantNull bool
	}{
		{"nil", nil, true},
		{"zero id", ReactableRef{Type: typeEntity}, true},
		{"missing row", ReactableRef{Type: typeEntity, ID: 999}, true},
		{"registered", ReactableRef{Type: typeEntity, ID: registered.ID()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := e.ReactantOf(ctx, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNull, r.IsNull())
		})
	}
}

func TestReacterOf_SelectsVariant(t *testing.T) {
	e := setupTestEngine(t)
	ctx := context.Background()
	registered := mustReacter(t, e)

	r, err := e.ReacterOf(ctx, ReacterableRef{Type: typeUser, ID: registered.ID()})
	require.NoError(t, err)
	assert.False(t, r.IsNull())
	assert.Equal(t, registered.ID(), r.ID())

	r, err = e.ReacterOf(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, NullReacter{}, r)
}

func TestReactantOf_ChecksEntityType(t *testing.T) {
	e := setupTestEngine(t)
	ctx := context.Background()
	entity := mustReactant(t, e, typeEntity)
	morphed := mustReactant(t, e, aliasMorphed)

	t.Run("unknown type", func(t *testing.T) {
		_, err := e.ReactantOf(ctx, ReactableRef{Type: "no.Such.Type", ID: entity.ID()})
		assert.True(t, IsReactableInvalid(err), "got %v", err)
	})

	t.Run("type not reactable", func(t *testing.T) {
		_, err := e.ReactantOf(ctx, ReactableRef{Type: typeUser, ID: entity.ID()})
		assert.True(t, IsReactableInvalid(err), "got %v", err)
	})

	t.Run("reactant of another type", func(t *testing.T) {
		r, err := e.ReactantOf(ctx, ReactableRef{Type: typeEntityMorphed, ID: entity.ID()})
		require.NoError(t, err)
		assert.True(t, r.IsNull())
	})

	t.Run("alias", func(t *testing.T) {
		r, err := e.ReactantOf(ctx, ReactableRef{Type: aliasMorphed, ID: morphed.ID()})
		require.NoError(t, err)
		assert.False(t, r.IsNull())
		assert.Equal(t, morphed.ID(), r.ID())
	})
}

func TestReacterOf_ChecksEntityType(t *testing.T) {
	e := setupTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.RegisterEntityType(ctx, model.EntityType{Name: "app.Bot", Reacterable: true}))
	user := mustReacter(t, e)

	t.Run("unknown type", func(t *testing.T) {
		_, err := e.ReacterOf(ctx, ReacterableRef{Type: "no.Such.Type", ID: user.ID()})
		assert.True(t, IsReacterInvalid(err), "got %v", err)
	})

	t.Run("type not reacterable", func(t *testing.T) {
		_, err := e.ReacterOf(ctx, ReacterableRef{Type: typeEntity, ID: user.ID()})
		assert.True(t, IsReacterInvalid(err), "got %v", err)
	})

	t.Run("reacter of another type", func(t *testing.T) {
		r, err := e.ReacterOf(ctx, ReacterableRef{Type: "app.Bot", ID: user.ID()})
		require.NoError(t, err)
		assert.Equal(t, NullReacter{}, r)
	})

	t.Run("alias", func(t *testing.T) {
		r, err := e.ReacterOf(ctx, ReacterableRef{Type: "user", ID: user.ID()})
		require.NoError(t, err)
		assert.Equal(t, user.ID(), r.ID())
	})
}
