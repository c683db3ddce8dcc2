package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("react: %w", reactionTypeNotExist("Nope"))

	assert.True(t, errors.Is(err, ErrReactionTypeInvalid))
	assert.False(t, errors.Is(err, ErrReacterInvalid))
	assert.True(t, IsReactionTypeInvalid(err))
	assert.Equal(t, `REACTION_TYPE_INVALID: reaction type with name "Nope" not exists`, errors.Unwrap(err).Error())
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(fmt.Errorf("wrapped: %w", reactantNull()))
	assert.True(t, ok)
	assert.Equal(t, CodeReactantInvalid, code)

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestParseConflictPolicy(t *testing.T) {
	p, err := ParseConflictPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, ConflictPolicyAccumulate, p)

	p, err = ParseConflictPolicy("replace")
	assert.NoError(t, err)
	assert.Equal(t, ConflictPolicyReplace, p)

	_, err = ParseConflictPolicy("merge")
	assert.Error(t, err)
}

func TestScope_String(t *testing.T) {
	assert.Equal(t, "entity_type=* reaction_type=*", Scope{}.String())
	assert.Equal(t, "entity_type=article reaction_type=Like", Scope{EntityType: "article", ReactionType: "Like"}.String())
}
