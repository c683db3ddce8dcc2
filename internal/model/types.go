package model

import "time"

// ReactionType is a named kind of reaction (Like, Dislike, ...) with a
// signed weight. Weight is fixed once the type is created: stored counters
// are never rescaled.
type ReactionType struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Weight    int64     `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
}

// Reaction is a single ledger fact: reacter reacted to reactant with a type.
// At most one exists per (ReacterID, ReactantID, ReactionTypeID).
type Reaction struct {
	ID             int64     `json:"id"`
	ReacterID      int64     `json:"reacter_id"`
	ReactantID     int64     `json:"reactant_id"`
	ReactionTypeID int64     `json:"reaction_type_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// CounterKey identifies a single reaction counter.
type CounterKey struct {
	ReactantID     int64 `json:"reactant_id"`
	ReactionTypeID int64 `json:"reaction_type_id"`
}

// ReactionCounter is the denormalized (count, weight) pair for one reactant
// and one reaction type.
type ReactionCounter struct {
	ReactantID     int64 `json:"reactant_id"`
	ReactionTypeID int64 `json:"reaction_type_id"`
	Count          int64 `json:"count"`
	Weight         int64 `json:"weight"`
}

// ReactionTotal is the sum of all counters of a reactant.
type ReactionTotal struct {
	ReactantID int64 `json:"reactant_id"`
	Count      int64 `json:"count"`
	Weight     int64 `json:"weight"`
}

// EntityType describes a domain entity type known to the resolver.
// Name is the full type name (e.g. "blog.Article"); Alias is an optional
// short name (e.g. "article") accepted wherever Name is.
type EntityType struct {
	Name        string `json:"name"`
	Alias       string `json:"alias,omitempty"`
	Reactable   bool   `json:"reactable"`
	Reacterable bool   `json:"reacterable"`
}

// Reactant is the registered participant that receives reactions on behalf
// of a reactable entity.
type Reactant struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Reacter is the registered participant that gives reactions on behalf of
// a reacterable entity.
type Reacter struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
