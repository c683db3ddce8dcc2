package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactDelta_MovesCountAndWeightTogether(t *testing.T) {
	rt := ReactionType{ID: 1, Name: "Like", Weight: 3}

	assert.Equal(t, Delta{Count: 1, Weight: 3}, ReactDelta(rt))
	assert.Equal(t, Delta{Count: -1, Weight: -3}, UnreactDelta(rt))
}

func TestUnreactDelta_NegativeWeight(t *testing.T) {
	rt := ReactionType{ID: 2, Name: "Dislike", Weight: -1}

	assert.Equal(t, Delta{Count: -1, Weight: 1}, UnreactDelta(rt))
	assert.Equal(t, ReactDelta(rt), UnreactDelta(rt).Negate())
}

func TestDelta_NegateZero(t *testing.T) {
	assert.Equal(t, Delta{}, Delta{}.Negate())
}
