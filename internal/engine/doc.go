// Package engine keeps denormalized reaction counters consistent with the
// reaction ledger.
//
// The Engine is a service object constructed once over a *store.Store and
// passed to whoever needs it. Every method is safe from any goroutine.
//
// WRITE PATH:
//
// ReactTo and UnreactTo validate everything before touching the store, then
// run one transaction:
//  1. Insert (or delete) the ledger fact
//  2. Apply the delta to the (reactant, type) counter
//  3. Apply the same delta to the reactant's total
//
// Deltas are single SQL statements, so concurrent writers to the same counter
// never lose an update. Re-reacting with the same type, or unreacting a
// reaction that does not exist, is a no-op.
//
// REPAIR PATH:
//
// Recount rebuilds counters from the ledger, one transaction per reactant:
// delete the in-scope counters, tally the ledger facts, write fresh counters,
// and recompute the total from all of the reactant's counters. A failed
// reactant does not roll back the others.
//
// NULL OBJECTS:
//
// ReactantOf and ReacterOf resolve the entity's type first: a type without the
// capability fails with REACTABLE_INVALID or REACTER_INVALID. They return a
// null variant for entities that were never registered, or whose participant
// row belongs to another type. Null reads answer "nothing" without touching
// the store; null writes fail with REACTER_INVALID or REACTANT_INVALID.
package engine
