package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// CodeReactionTypeInvalid indicates a reaction type name that is not in
	// the registry.
	CodeReactionTypeInvalid ErrorCode = "REACTION_TYPE_INVALID"

	// CodeReacterInvalid indicates a write attempted by a null reacter, or a
	// reacter registered for a type that cannot react.
	CodeReacterInvalid ErrorCode = "REACTER_INVALID"

	// CodeReactantInvalid indicates a write attempted against a null reactant.
	CodeReactantInvalid ErrorCode = "REACTANT_INVALID"

	// CodeReactableInvalid indicates an entity type that is unknown or not
	// able to receive reactions.
	CodeReactableInvalid ErrorCode = "REACTABLE_INVALID"

	// CodeReactionConflict indicates a react rejected by ConflictPolicyReject
	// because the reacter already reacted to the reactant with another type.
	CodeReactionConflict ErrorCode = "REACTION_CONFLICT"

	// CodeReactionTypeImmutable indicates an attempt to re-register a reaction
	// type with a different weight.
	CodeReactionTypeImmutable ErrorCode = "REACTION_TYPE_IMMUTABLE"
)

// Error is a domain error. Name carries the offending reaction type or
// entity type name, when there is one.
type Error struct {
	Code    ErrorCode
	Message string
	Name    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrReactionTypeInvalid   = &Error{Code: CodeReactionTypeInvalid, Message: "reaction type invalid"}
	ErrReacterInvalid        = &Error{Code: CodeReacterInvalid, Message: "reacter invalid"}
	ErrReactantInvalid       = &Error{Code: CodeReactantInvalid, Message: "reactant invalid"}
	ErrReactableInvalid      = &Error{Code: CodeReactableInvalid, Message: "reactable invalid"}
	ErrReactionConflict      = &Error{Code: CodeReactionConflict, Message: "reaction conflict"}
	ErrReactionTypeImmutable = &Error{Code: CodeReactionTypeImmutable, Message: "reaction type immutable"}
)

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// IsReactionTypeInvalid returns true if err is a REACTION_TYPE_INVALID error.
func IsReactionTypeInvalid(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeReactionTypeInvalid
}

// IsReacterInvalid returns true if err is a REACTER_INVALID error.
func IsReacterInvalid(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeReacterInvalid
}

// IsReactantInvalid returns true if err is a REACTANT_INVALID error.
func IsReactantInvalid(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeReactantInvalid
}

// IsReactableInvalid returns true if err is a REACTABLE_INVALID error.
func IsReactableInvalid(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeReactableInvalid
}

func reactionTypeNotExist(name string) *Error {
	return &Error{
		Code:    CodeReactionTypeInvalid,
		Message: fmt.Sprintf("reaction type with name %q not exists", name),
		Name:    name,
	}
}

func reacterNull() *Error {
	return &Error{Code: CodeReacterInvalid, Message: "reacter is null and cannot react"}
}

func reacterTypeNotReacterable(typeName string) *Error {
	return &Error{
		Code:    CodeReacterInvalid,
		Message: fmt.Sprintf("type %q is not registered as reacterable", typeName),
		Name:    typeName,
	}
}

func reactantNull() *Error {
	return &Error{Code: CodeReactantInvalid, Message: "reactant is null and cannot be reacted to"}
}

func reactableNotExist(typeName string) *Error {
	return &Error{
		Code:    CodeReactableInvalid,
		Message: fmt.Sprintf("reactable with type %q not exists", typeName),
		Name:    typeName,
	}
}

func reactableNotReactable(typeName string) *Error {
	return &Error{
		Code:    CodeReactableInvalid,
		Message: fmt.Sprintf("type %q is not registered as reactable", typeName),
		Name:    typeName,
	}
}

func reactionConflict(typeName string, existing string) *Error {
	return &Error{
		Code:    CodeReactionConflict,
		Message: fmt.Sprintf("cannot react with %q: already reacted with %q", typeName, existing),
		Name:    typeName,
	}
}

func reactionTypeWeightChanged(name string, have, want int64) *Error {
	return &Error{
		Code:    CodeReactionTypeImmutable,
		Message: fmt.Sprintf("reaction type %q has weight %d, cannot change to %d", name, have, want),
		Name:    name,
	}
}
