package engine

import "fmt"

// ConflictPolicy decides what ReactTo does when the reacter already reacted
// to the reactant with a different reaction type.
type ConflictPolicy string

const (
	// ConflictPolicyAccumulate keeps the existing reactions and adds the new
	// one. A reacter may hold one reaction of each type per reactant.
	ConflictPolicyAccumulate ConflictPolicy = "accumulate"

	// ConflictPolicyReplace removes the existing reactions (reversing their
	// counter deltas) before adding the new one.
	ConflictPolicyReplace ConflictPolicy = "replace"

	// ConflictPolicyReject fails with REACTION_CONFLICT.
	ConflictPolicyReject ConflictPolicy = "reject"
)

// DefaultConflictPolicy is used unless WithConflictPolicy overrides it.
const DefaultConflictPolicy = ConflictPolicyAccumulate

// ParseConflictPolicy validates a policy name. Empty selects the default.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case "":
		return DefaultConflictPolicy, nil
	case ConflictPolicyAccumulate, ConflictPolicyReplace, ConflictPolicyReject:
		return ConflictPolicy(s), nil
	default:
		return "", fmt.Errorf("invalid conflict policy %q: must be accumulate, replace, or reject", s)
	}
}
