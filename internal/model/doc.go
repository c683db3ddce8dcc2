// Package model defines the domain types for love: reaction types, reaction
// facts, denormalized counters and totals, and the entity types that can take
// part in reactions.
//
// This package contains type definitions only. All other internal packages
// import model; model imports nothing internal.
//
// Key design constraints:
//   - Counter and total counts are never negative
//   - Counter weight is always count multiplied by the reaction type weight
//   - All JSON tags use snake_case
package model
