// Package store provides SQLite-backed storage for love.
//
// The store owns five groups of tables:
//   - Registry: reaction_types and entity_types
//   - Participants: reacters and reactants
//   - Ledger: reactions, one row per (reacter, reactant, reaction type)
//   - Counters: reaction_counters, one (count, weight) row per (reactant, type)
//   - Totals: reaction_totals, one (count, weight) row per reactant
//
// Ledger rows are authoritative. Counter and total rows are denormalized and
// may drift; the engine's recount rebuilds them from the ledger.
//
// # Atomicity
//
// Counter and total deltas are single UPSERT/UPDATE statements, so two
// writers touching the same key never lose an update. Multi-statement work
// (ledger write plus deltas, or one reactant's recount) runs inside WithTx.
// A negative count is rejected by a CHECK constraint and surfaces as
// ErrCounterUnderflow.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Transactions that still hit SQLITE_BUSY or SQLITE_LOCKED are replayed with
// exponential backoff.
package store
