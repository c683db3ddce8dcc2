package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/love/internal/engine"
)

// NullLabel names the null reacter or reactant in steps and assertions.
const NullLabel = "none"

// Scenario defines a conformance test scenario: a catalog, a set of
// participants, a sequence of steps, and assertions over the resulting
// trace and counters.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Policy is the conflict policy (accumulate, replace, reject).
	// Empty means accumulate.
	Policy string `yaml:"policy,omitempty"`

	ReactionTypes []ReactionTypeDef `yaml:"reaction_types"`
	EntityTypes   []EntityTypeDef   `yaml:"entity_types"`

	// Reacters and Reactants are registered in order before the first step.
	Reacters  []Participant `yaml:"reacters,omitempty"`
	Reactants []Participant `yaml:"reactants,omitempty"`

	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	// Supported types: counter, total, reacted, trace_count
	Assertions []Assertion `yaml:"assertions"`
}

// ReactionTypeDef declares a reaction type.
type ReactionTypeDef struct {
	Name   string `yaml:"name"`
	Weight int64  `yaml:"weight"`
}

// EntityTypeDef declares an entity type.
type EntityTypeDef struct {
	Name        string `yaml:"name"`
	Alias       string `yaml:"alias,omitempty"`
	Reactable   bool   `yaml:"reactable,omitempty"`
	Reacterable bool   `yaml:"reacterable,omitempty"`
}

// Participant is a labelled reacter or reactant of an entity type
// (full name or alias).
type Participant struct {
	Label string `yaml:"label"`
	Type  string `yaml:"type"`
}

// Step is one operation against the engine.
type Step struct {
	// Op is one of react, unreact, recount, truncate, delete_reactant,
	// delete_reacter.
	Op string `yaml:"op"`

	Reacter  string `yaml:"reacter,omitempty"`
	Reactant string `yaml:"reactant,omitempty"`
	Type     string `yaml:"type,omitempty"`

	// Scope limits a recount step. Nil means everything.
	Scope *engine.Scope `yaml:"scope,omitempty"`

	// ExpectError is the error code the step must fail with
	// (e.g. REACTION_CONFLICT). Empty means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Step op constants.
const (
	OpReact          = "react"
	OpUnreact        = "unreact"
	OpRecount        = "recount"
	OpTruncate       = "truncate"
	OpDeleteReactant = "delete_reactant"
	OpDeleteReacter  = "delete_reacter"
)

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "counter": a reactant's counter of one reaction type equals count/weight
	// - "total": a reactant's total equals count/weight
	// - "reacted": whether reacter has reacted to reactant (optionally with a type)
	// - "trace_count": number of steps with op (and outcome, if set)
	Type string `yaml:"type"`

	Reactant     string `yaml:"reactant,omitempty"`
	Reacter      string `yaml:"reacter,omitempty"`
	ReactionType string `yaml:"reaction_type,omitempty"`

	Count  int64 `yaml:"count,omitempty"`
	Weight int64 `yaml:"weight,omitempty"`

	// Want is the expected answer of a reacted assertion.
	Want *bool `yaml:"want,omitempty"`

	// Op and Outcome filter trace events (used by trace_count).
	Op      string `yaml:"op,omitempty"`
	Outcome string `yaml:"outcome,omitempty"`
}

// Assertion type constants.
const (
	AssertCounter    = "counter"
	AssertTotal      = "total"
	AssertReacted    = "reacted"
	AssertTraceCount = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and that every
// label a step or assertion uses is declared.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := engine.ParseConflictPolicy(s.Policy); err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	if len(s.ReactionTypes) == 0 {
		return fmt.Errorf("reaction_types list is required and must be non-empty")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, rt := range s.ReactionTypes {
		if rt.Name == "" {
			return fmt.Errorf("reaction_types[%d]: name is required", i)
		}
	}
	for i, et := range s.EntityTypes {
		if et.Name == "" {
			return fmt.Errorf("entity_types[%d]: name is required", i)
		}
	}

	reacters, err := labelSet("reacters", s.Reacters)
	if err != nil {
		return err
	}
	reactants, err := labelSet("reactants", s.Reactants)
	if err != nil {
		return err
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step, reacters, reactants); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, reacters, reactants); err != nil {
			return err
		}
	}

	return nil
}

func labelSet(field string, ps []Participant) (map[string]bool, error) {
	set := map[string]bool{NullLabel: true}
	for i, p := range ps {
		switch {
		case p.Label == "":
			return nil, fmt.Errorf("%s[%d]: label is required", field, i)
		case p.Label == NullLabel:
			return nil, fmt.Errorf("%s[%d]: label %q is reserved", field, i, NullLabel)
		case set[p.Label]:
			return nil, fmt.Errorf("%s[%d]: duplicate label %q", field, i, p.Label)
		case p.Type == "":
			return nil, fmt.Errorf("%s[%d]: type is required", field, i)
		}
		set[p.Label] = true
	}
	return set, nil
}

// validateStep validates a single step based on its op.
func validateStep(index int, s *Step, reacters, reactants map[string]bool) error {
	switch s.Op {
	case OpReact, OpUnreact:
		if !reacters[s.Reacter] {
			return fmt.Errorf("steps[%d]: unknown reacter %q", index, s.Reacter)
		}
		if !reactants[s.Reactant] {
			return fmt.Errorf("steps[%d]: unknown reactant %q", index, s.Reactant)
		}
		if s.Type == "" {
			return fmt.Errorf("steps[%d]: type is required for %s", index, s.Op)
		}
	case OpDeleteReactant:
		if s.Reactant == NullLabel || !reactants[s.Reactant] {
			return fmt.Errorf("steps[%d]: unknown reactant %q", index, s.Reactant)
		}
	case OpDeleteReacter:
		if s.Reacter == NullLabel || !reacters[s.Reacter] {
			return fmt.Errorf("steps[%d]: unknown reacter %q", index, s.Reacter)
		}
	case OpRecount, OpTruncate:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, reacters, reactants map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCounter:
		if !reactants[a.Reactant] {
			return fmt.Errorf("assertions[%d]: unknown reactant %q", index, a.Reactant)
		}
		if a.ReactionType == "" {
			return fmt.Errorf("assertions[%d]: reaction_type is required for counter", index)
		}
	case AssertTotal:
		if !reactants[a.Reactant] {
			return fmt.Errorf("assertions[%d]: unknown reactant %q", index, a.Reactant)
		}
	case AssertReacted:
		if !reacters[a.Reacter] {
			return fmt.Errorf("assertions[%d]: unknown reacter %q", index, a.Reacter)
		}
		if !reactants[a.Reactant] {
			return fmt.Errorf("assertions[%d]: unknown reactant %q", index, a.Reactant)
		}
		if a.Want == nil {
			return fmt.Errorf("assertions[%d]: want is required for reacted", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
