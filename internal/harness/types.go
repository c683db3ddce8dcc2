package harness

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq          int64  `json:"seq"`
	Op           string `json:"op"`
	Reacter      string `json:"reacter,omitempty"`
	Reactant     string `json:"reactant,omitempty"`
	ReactionType string `json:"reaction_type,omitempty"`
	Scope        string `json:"scope,omitempty"`

	// Outcome is "ok" or the error code the step failed with.
	Outcome string `json:"outcome"`

	// RunID is set for recount steps.
	RunID string `json:"run_id,omitempty"`
}

// CounterState is one counter row, with participants and reaction types
// named by their scenario labels.
type CounterState struct {
	Reactant     string `json:"reactant"`
	ReactionType string `json:"reaction_type"`
	Count        int64  `json:"count"`
	Weight       int64  `json:"weight"`
}

// TotalState is one reactant's total.
type TotalState struct {
	Reactant string `json:"reactant"`
	Count    int64  `json:"count"`
	Weight   int64  `json:"weight"`
}

// State is the aggregate state after the last step.
type State struct {
	Counters []CounterState `json:"counters"`
	Totals   []TotalState   `json:"totals"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true if every step outcome and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains one event per executed step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State holds the final counters and totals.
	State State `json:"state"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		State: State{
			Counters: []CounterState{},
			Totals:   []TotalState{},
		},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
