package engine

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/love/internal/model"
	"github.com/roach88/love/internal/store"
	"github.com/roach88/love/internal/testutil"
)

const (
	typeUser          = "app.User"
	typeEntity        = "app.Entity"
	typeEntityMorphed = "app.EntityWithMorphMap"
	aliasMorphed      = "entity-with-morph-map"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestEngine opens a fresh store and registers the User, Entity, and
// EntityWithMorphMap entity types.
func setupTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	clock := testutil.NewDeterministicClock(testutil.Epoch, time.Millisecond)
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), store.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	base := []Option{
		WithLogger(discardLogger()),
		WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run")),
		WithClock(clock.Now),
	}
	e := New(s, append(base, opts...)...)

	ctx := context.Background()
	for _, et := range []model.EntityType{
		{Name: typeUser, Alias: "user", Reacterable: true},
		{Name: typeEntity, Reactable: true},
		{Name: typeEntityMorphed, Alias: aliasMorphed, Reactable: true},
	} {
		require.NoError(t, e.RegisterEntityType(ctx, et))
	}
	return e
}

func mustReactionType(t *testing.T, e *Engine, name string, weight int64) model.ReactionType {
	t.Helper()
	rt, err := e.RegisterReactionType(context.Background(), name, weight)
	require.NoError(t, err)
	return rt
}

func mustReacter(t *testing.T, e *Engine) Reacter {
	t.Helper()
	r, err := e.RegisterReacter(context.Background(), typeUser)
	require.NoError(t, err)
	return r
}

func mustReactant(t *testing.T, e *Engine, entityType string) Reactant {
	t.Helper()
	r, err := e.RegisterReactant(context.Background(), entityType)
	require.NoError(t, err)
	return r
}

func mustReact(t *testing.T, e *Engine, reacter Reacter, reactant Reactant, typeName string) {
	t.Helper()
	require.NoError(t, e.ReactTo(context.Background(), reacter, reactant, typeName))
}

func allCounters(t *testing.T, e *Engine) []model.ReactionCounter {
	t.Helper()
	counters, err := e.Store().ListAllCounters(context.Background())
	require.NoError(t, err)
	return counters
}

// scenario is four reacters and three reactants with ten reactions:
//
//	r1: e1 Like,    e2 Like,    e3 Dislike
//	r2: e1 Like,    e2 Dislike, e3 Like
//	r3: e1 Like,    e2 Like,    e3 Like
//	r4:                         e3 Dislike
//
// e1 and e3 are Entity; e2 is EntityWithMorphMap.
type scenario struct {
	like, dislike model.ReactionType
	r             [4]Reacter
	e1, e2, e3    Reactant
}

func setupScenario(t *testing.T, e *Engine) scenario {
	t.Helper()
	return setupScenarioWithDislike(t, e, -1)
}

// setupScenarioWithDislike is setupScenario with the Dislike weight chosen by
// the caller.
func setupScenarioWithDislike(t *testing.T, e *Engine, dislikeWeight int64) scenario {
	t.Helper()

	sc := scenario{
		like:    mustReactionType(t, e, "Like", 1),
		dislike: mustReactionType(t, e, "Dislike", dislikeWeight),
	}
	for i := range sc.r {
		sc.r[i] = mustReacter(t, e)
	}
	sc.e1 = mustReactant(t, e, typeEntity)
	sc.e2 = mustReactant(t, e, aliasMorphed)
	sc.e3 = mustReactant(t, e, typeEntity)

	for _, f := range []struct {
		reacter  Reacter
		reactant Reactant
		typ      string
	}{
		{sc.r[0], sc.e1, "Like"},
		{sc.r[0], sc.e2, "Like"},
		{sc.r[0], sc.e3, "Dislike"},
		{sc.r[1], sc.e1, "Like"},
		{sc.r[1], sc.e2, "Dislike"},
		{sc.r[1], sc.e3, "Like"},
		{sc.r[2], sc.e1, "Like"},
		{sc.r[2], sc.e2, "Like"},
		{sc.r[2], sc.e3, "Like"},
		{sc.r[3], sc.e3, "Dislike"},
	} {
		mustReact(t, e, f.reacter, f.reactant, f.typ)
	}
	return sc
}

func (sc scenario) counter(reactant Reactant, rt model.ReactionType, count int64) model.ReactionCounter {
	return model.ReactionCounter{
		ReactantID:     reactant.ID(),
		ReactionTypeID: rt.ID,
		Count:          count,
		Weight:         count * rt.Weight,
	}
}
