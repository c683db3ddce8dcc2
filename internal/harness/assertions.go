package harness

import (
	"context"
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, describeEvent(event))
		}
	}

	return buf.String()
}

func describeEvent(ev TraceEvent) string {
	parts := []string{ev.Op}
	if ev.Reacter != "" {
		parts = append(parts, "reacter="+ev.Reacter)
	}
	if ev.Reactant != "" {
		parts = append(parts, "reactant="+ev.Reactant)
	}
	if ev.ReactionType != "" {
		parts = append(parts, "type="+ev.ReactionType)
	}
	if ev.Scope != "" {
		parts = append(parts, ev.Scope)
	}
	parts = append(parts, "-> "+ev.Outcome)
	return strings.Join(parts, " ")
}

// assertCounter checks one counter of the final state. A missing counter
// row counts as (0, 0).
func assertCounter(state State, a Assertion) error {
	var count, weight int64
	for _, c := range state.Counters {
		if c.Reactant == a.Reactant && c.ReactionType == a.ReactionType {
			count, weight = c.Count, c.Weight
			break
		}
	}

	if count != a.Count || weight != a.Weight {
		return &AssertionError{
			Type:     AssertCounter,
			Expected: fmt.Sprintf("%s/%s count=%d weight=%d", a.Reactant, a.ReactionType, a.Count, a.Weight),
			Actual:   fmt.Sprintf("count=%d weight=%d", count, weight),
		}
	}
	return nil
}

// assertTotal checks one total of the final state. A missing total counts
// as (0, 0).
func assertTotal(state State, a Assertion) error {
	var count, weight int64
	for _, t := range state.Totals {
		if t.Reactant == a.Reactant {
			count, weight = t.Count, t.Weight
			break
		}
	}

	if count != a.Count || weight != a.Weight {
		return &AssertionError{
			Type:     AssertTotal,
			Expected: fmt.Sprintf("%s count=%d weight=%d", a.Reactant, a.Count, a.Weight),
			Actual:   fmt.Sprintf("count=%d weight=%d", count, weight),
		}
	}
	return nil
}

// assertReacted asks the engine whether the reacter has reacted to the
// reactant, optionally with a reaction type.
func assertReacted(ctx context.Context, h *Harness, a Assertion) error {
	if h == nil {
		return fmt.Errorf("reacted assertion requires a running harness")
	}

	reactant := h.reactants[a.Reactant]
	reacter := h.reacters[a.Reacter]

	var got bool
	var err error
	if a.ReactionType == "" {
		got, err = reactant.IsReactedBy(ctx, reacter)
	} else {
		got, err = reactant.IsReactedByWithType(ctx, reacter, a.ReactionType)
	}
	if err != nil {
		return &AssertionError{
			Type:     AssertReacted,
			Expected: fmt.Sprintf("%s reacted to %s = %t", a.Reacter, a.Reactant, *a.Want),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}

	if got != *a.Want {
		target := a.Reactant
		if a.ReactionType != "" {
			target += " with " + a.ReactionType
		}
		return &AssertionError{
			Type:     AssertReacted,
			Expected: fmt.Sprintf("%s reacted to %s = %t", a.Reacter, target, *a.Want),
			Actual:   fmt.Sprintf("%t", got),
		}
	}
	return nil
}

// assertTraceCount checks that exactly Count steps ran with the op (and the
// outcome, when set).
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op != a.Op {
			continue
		}
		if a.Outcome != "" && event.Outcome != a.Outcome {
			continue
		}
		count++
	}

	if int64(count) != a.Count {
		what := a.Op
		if a.Outcome != "" {
			what += " -> " + a.Outcome
		}
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, what),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// h provides engine access for reacted assertions and may be nil when none
// are present.
func EvaluateAssertions(ctx context.Context, h *Harness, result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertCounter:
			err = assertCounter(result.State, assertion)
		case AssertTotal:
			err = assertTotal(result.State, assertion)
		case AssertReacted:
			if assertion.Want == nil {
				err = fmt.Errorf("assertion[%d]: reacted requires want", i)
			} else {
				err = assertReacted(ctx, h, assertion)
			}
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
