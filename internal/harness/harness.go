package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/love/internal/engine"
	"github.com/roach88/love/internal/model"
	"github.com/roach88/love/internal/store"
	"github.com/roach88/love/internal/testutil"
)

// OutcomeOK is the trace outcome of a step that succeeded.
const OutcomeOK = "ok"

// OutcomeError is the trace outcome of a step that failed with an error
// that carries no engine error code (e.g. a counter underflow).
const OutcomeError = "ERROR"

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and recount run IDs.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger

	reacters  map[string]engine.Reacter
	reactants map[string]engine.Reactant

	// order of declaration, for state snapshots
	reactantOrder []string
	reactantLabel map[int64]string
	typeName      map[int64]string

	seq int64
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and engine
// 2. Register reaction types, entity types, reacters, and reactants
// 3. Execute steps, checking each outcome against expect_error
// 4. Snapshot counters and totals
// 5. Evaluate assertions
//
// An error is returned only when the scenario cannot be set up; step and
// assertion mismatches are reported in Result.Errors.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	clock := testutil.NewDeterministicClock(testutil.Epoch, time.Millisecond)

	st, err := store.Open(":memory:", store.WithClock(clock.Now))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	policy, err := engine.ParseConflictPolicy(scenario.Policy)
	if err != nil {
		return nil, err
	}

	// Suppress logs in tests
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	eng := engine.New(st,
		engine.WithLogger(logger),
		engine.WithConflictPolicy(policy),
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator("recount")),
		engine.WithClock(clock.Now),
	)

	h := &Harness{
		store:         st,
		engine:        eng,
		logger:        logger,
		reacters:      map[string]engine.Reacter{NullLabel: engine.NullReacter{}},
		reactants:     map[string]engine.Reactant{NullLabel: engine.NullReactant{}},
		reactantLabel: make(map[int64]string),
		typeName:      make(map[int64]string),
	}

	if err := h.setup(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	result := NewResult()
	h.executeSteps(ctx, scenario.Steps, result)

	state, err := h.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot state: %w", err)
	}
	result.State = state

	for _, errMsg := range EvaluateAssertions(ctx, h, result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// setup registers the catalog and participants. Setup steps are assumed to
// succeed.
func (h *Harness) setup(ctx context.Context, s *Scenario) error {
	for _, def := range s.ReactionTypes {
		rt, err := h.engine.RegisterReactionType(ctx, def.Name, def.Weight)
		if err != nil {
			return err
		}
		h.typeName[rt.ID] = rt.Name
	}

	for _, def := range s.EntityTypes {
		err := h.engine.RegisterEntityType(ctx, model.EntityType{
			Name:        def.Name,
			Alias:       def.Alias,
			Reactable:   def.Reactable,
			Reacterable: def.Reacterable,
		})
		if err != nil {
			return err
		}
	}

	for _, p := range s.Reacters {
		r, err := h.engine.RegisterReacter(ctx, p.Type)
		if err != nil {
			return fmt.Errorf("reacter %q: %w", p.Label, err)
		}
		h.reacters[p.Label] = r
	}

	for _, p := range s.Reactants {
		r, err := h.engine.RegisterReactant(ctx, p.Type)
		if err != nil {
			return fmt.Errorf("reactant %q: %w", p.Label, err)
		}
		h.reactants[p.Label] = r
		h.reactantLabel[r.ID()] = p.Label
		h.reactantOrder = append(h.reactantOrder, p.Label)
	}

	h.logger.Info("setup completed",
		"reaction_types", len(s.ReactionTypes),
		"reacters", len(s.Reacters),
		"reactants", len(s.Reactants),
	)
	return nil
}

// executeSteps runs every step in order. A step whose outcome differs from
// its expect_error is recorded as an error; execution continues.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) {
	for i, step := range steps {
		h.seq++
		ev := TraceEvent{
			Seq:          h.seq,
			Op:           step.Op,
			Reacter:      step.Reacter,
			Reactant:     step.Reactant,
			ReactionType: step.Type,
		}

		err := h.executeStep(ctx, step, &ev)
		ev.Outcome = outcomeOf(err)
		result.AddTrace(ev)

		want := step.ExpectError
		if want == "" {
			want = OutcomeOK
		}
		if ev.Outcome != want {
			msg := fmt.Sprintf("steps[%d] %s: expected outcome %s, got %s", i, step.Op, want, ev.Outcome)
			if err != nil {
				msg += fmt.Sprintf(" (%v)", err)
			}
			result.AddError(msg)
		}

		h.logger.Info("step completed",
			"step", i,
			"op", step.Op,
			"outcome", ev.Outcome,
		)
	}
}

func (h *Harness) executeStep(ctx context.Context, step Step, ev *TraceEvent) error {
	switch step.Op {
	case OpReact:
		return h.reacters[step.Reacter].ReactTo(ctx, h.reactants[step.Reactant], step.Type)

	case OpUnreact:
		return h.reacters[step.Reacter].UnreactTo(ctx, h.reactants[step.Reactant], step.Type)

	case OpRecount:
		var scope engine.Scope
		if step.Scope != nil {
			scope = *step.Scope
		}
		ev.Scope = scope.String()
		report, err := h.engine.Recount(ctx, scope)
		ev.RunID = report.RunID
		return err

	case OpTruncate:
		return h.store.TruncateAggregates(ctx)

	case OpDeleteReactant:
		r := h.reactants[step.Reactant]
		if err := h.engine.DeleteReactant(ctx, r.ID()); err != nil {
			return err
		}
		h.reactants[step.Reactant] = engine.NullReactant{}
		return nil

	case OpDeleteReacter:
		r := h.reacters[step.Reacter]
		if err := h.engine.DeleteReacter(ctx, r.ID()); err != nil {
			return err
		}
		h.reacters[step.Reacter] = engine.NullReacter{}
		return nil

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

// outcomeOf maps a step error to its trace outcome.
func outcomeOf(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if code, ok := engine.CodeOf(err); ok {
		return string(code)
	}
	return OutcomeError
}

// snapshot collects every counter row and the total of every live reactant,
// labelled by scenario names.
func (h *Harness) snapshot(ctx context.Context) (State, error) {
	state := State{
		Counters: []CounterState{},
		Totals:   []TotalState{},
	}

	counters, err := h.store.ListAllCounters(ctx)
	if err != nil {
		return State{}, err
	}
	for _, c := range counters {
		state.Counters = append(state.Counters, CounterState{
			Reactant:     h.reactantLabel[c.ReactantID],
			ReactionType: h.typeName[c.ReactionTypeID],
			Count:        c.Count,
			Weight:       c.Weight,
		})
	}

	for _, label := range h.reactantOrder {
		r := h.reactants[label]
		if r.IsNull() {
			continue
		}
		total, err := r.ReactionTotal(ctx)
		if err != nil {
			return State{}, err
		}
		state.Totals = append(state.Totals, TotalState{
			Reactant: label,
			Count:    total.Count,
			Weight:   total.Weight,
		})
	}

	return state, nil
}
