package model

// Delta is a change applied to a counter and, identically, to the total of
// the same reactant.
type Delta struct {
	Count  int64 `json:"count"`
	Weight int64 `json:"weight"`
}

// ReactDelta returns the delta of adding one reaction of type rt.
func ReactDelta(rt ReactionType) Delta {
	return Delta{Count: 1, Weight: rt.Weight}
}

// UnreactDelta returns the delta of removing one reaction of type rt.
func UnreactDelta(rt ReactionType) Delta {
	return ReactDelta(rt).Negate()
}

// Negate returns the inverse delta.
func (d Delta) Negate() Delta {
	return Delta{Count: -d.Count, Weight: -d.Weight}
}
