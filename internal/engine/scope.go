package engine

import (
	"context"
	"strings"

	"github.com/roach88/love/internal/model"
)

// Scope selects which counters a recount rebuilds. Empty fields mean "all".
//
// EntityType accepts a full type name or an alias. ReactionType is a reaction
// type name.
type Scope struct {
	EntityType   string `json:"entity_type,omitempty" yaml:"entity_type,omitempty"`
	ReactionType string `json:"reaction_type,omitempty" yaml:"reaction_type,omitempty"`
}

// String renders the scope for logs, e.g. "entity_type=Article reaction_type=*".
func (s Scope) String() string {
	var b strings.Builder
	b.WriteString("entity_type=")
	b.WriteString(orStar(s.EntityType))
	b.WriteString(" reaction_type=")
	b.WriteString(orStar(s.ReactionType))
	return b.String()
}

func orStar(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

// resolvedScope is a Scope after validation: the canonical entity type name
// ("" for all) and the reaction type (ID 0 for all).
type resolvedScope struct {
	entityType   string
	reactionType model.ReactionType
}

// resolveScope validates both halves of s without side effects.
func (e *Engine) resolveScope(ctx context.Context, s Scope) (resolvedScope, error) {
	var rs resolvedScope
	if s.EntityType != "" {
		et, err := e.ResolveReactableType(ctx, s.EntityType)
		if err != nil {
			return resolvedScope{}, err
		}
		rs.entityType = et.Name
	}
	if s.ReactionType != "" {
		rt, err := e.ReactionType(ctx, s.ReactionType)
		if err != nil {
			return resolvedScope{}, err
		}
		rs.reactionType = rt
	}
	return rs, nil
}
