package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/love/internal/model"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(func() time.Time { return testTime }))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedFixture registers one reacter, one reactant, and the Like (+1) and
// Dislike (-1) types.
type seedFixture struct {
	reacter  model.Reacter
	reactant model.Reactant
	like     model.ReactionType
	dislike  model.ReactionType
}

func seed(t *testing.T, s *Store) seedFixture {
	t.Helper()
	ctx := context.Background()

	like, _, err := s.InsertReactionType(ctx, "Like", 1)
	require.NoError(t, err)
	dislike, _, err := s.InsertReactionType(ctx, "Dislike", -1)
	require.NoError(t, err)
	reacter, err := s.InsertReacter(ctx, "User")
	require.NoError(t, err)
	reactant, err := s.InsertReactant(ctx, "Article")
	require.NoError(t, err)

	return seedFixture{reacter: reacter, reactant: reactant, like: like, dislike: dislike}
}

func counterKey(reactantID, reactionTypeID int64) model.CounterKey {
	return model.CounterKey{ReactantID: reactantID, ReactionTypeID: reactionTypeID}
}

func reactDelta(weight int64) model.Delta {
	return model.Delta{Count: 1, Weight: weight}
}

func unreactDelta(weight int64) model.Delta {
	return model.Delta{Count: -1, Weight: -weight}
}
