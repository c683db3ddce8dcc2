package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertReaction_Idempotent(t *testing.T) {
	s := createTestStore(t)
	f := seed(t, s)
	ctx := context.Background()

	first, inserted, err := s.InsertReaction(ctx, f.reacter.ID, f.reactant.ID, f.like.ID)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, testTime, first.CreatedAt)

	second, inserted, err := s.InsertReaction(ctx, f.reacter.ID, f.reactant.ID, f.like.ID)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first, second)
}

func TestInsertReaction_DifferentTypesCoexist(t *testing.T) {
	s := createTestStore(t)
	f := seed(t, s)
	ctx := context.Background()

	_, _, err := s.InsertReaction(ctx, f.reacter.ID, f.reactant.ID, f.like.ID)
	require.NoError(t, err)
	_, _, err = s.InsertReaction(ctx, f.reacter.ID, f.reactant.ID, f.dislike.ID)
	require.NoError(t, err)

	between, err := s.ReactionsBetween(ctx, f.reacter.ID, f.reactant.ID)
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, f.like.ID, between[0].ReactionTypeID)
	assert.Equal(t, f.dislike.ID, between[1].ReactionTypeID)
}

func TestInsertReaction_UnknownReactantFails(t *testing.T) {
	s := createTestStore(t)
	f := seed(t, s)

	_, _, err := s.InsertReaction(context.Background(), f.reacter.ID, 999, f.like.ID)
	assert.Error(t, err)
}

func TestDeleteReaction(t *testing.T) {
	s := createTestStore(t)
	f := seed(t, s)
	ctx := context.Background()

	deleted, err := s.DeleteReaction(ctx, f.reacter.ID, f.reactant.ID, f.like.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "nothing to delete")

	_, _, err = s.InsertReaction(ctx, f.reacter.ID, f.reactant.ID, f.like.ID)
	require.NoError(t, err)

	deleted, err = s.DeleteReaction(ctx, f.reacter.ID, f.reactant.ID, f.like.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.FindReaction(ctx, f.reacter.ID, f.reactant.ID, f.like.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHasReaction(t *testing.T) {
	s := createTestStore(t)
	f := seed(t, s)
	ctx := context.Background()

	_, _, err := s.InsertReaction(ctx, f.reacter.ID, f.reactant.ID, f.dislike.ID)
	require.NoError(t, err)

	anyType, err := s.HasReaction(ctx, f.reacter.ID, f.reactant.ID, 0)
	require.NoError(t, err)
	assert.True(t, anyType)

	withDislike, err := s.HasReaction(ctx, f.reacter.ID, f.reactant.ID, f.dislike.ID)
	require.NoError(t, err)
	assert.True(t, withDislike)

	withLike, err := s.HasReaction(ctx, f.reacter.ID, f.reactant.ID, f.like.ID)
	require.NoError(t, err)
	assert.False(t, withLike)
}

func TestTallyFacts(t *testing.T) {
	s := createTestStore(t)
	f := seed(t, s)
	ctx := context.Background()

	other, err := s.InsertReacter(ctx, "User")
	require.NoError(t, err)

	for _, r := range []struct{ reacter, typ int64 }{
		{f.reacter.ID, f.like.ID},
		{other.ID, f.like.ID},
		{other.ID, f.dislike.ID},
	} {
		_, _, err := s.InsertReaction(ctx, r.reacter, f.reactant.ID, r.typ)
		require.NoError(t, err)
	}

	all, err := s.TallyFacts(ctx, f.reactant.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []FactTally{
		{ReactionTypeID: f.like.ID, Count: 2, TypeWeight: 1},
		{ReactionTypeID: f.dislike.ID, Count: 1, TypeWeight: -1},
	}, all)

	likes, err := s.TallyFacts(ctx, f.reactant.ID, f.like.ID)
	require.NoError(t, err)
	assert.Equal(t, []FactTally{{ReactionTypeID: f.like.ID, Count: 2, TypeWeight: 1}}, likes)

	none, err := s.TallyFacts(ctx, 999, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
