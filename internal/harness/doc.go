// Package harness runs reaction scenarios against a real engine and checks
// the resulting trace and counters.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: like_and_recount
//	description: "What this scenario validates"
//	policy: accumulate
//	reaction_types:
//	  - {name: Like, weight: 1}
//	entity_types:
//	  - {name: app.User, alias: user, reacterable: true}
//	  - {name: blog.Article, alias: article, reactable: true}
//	reacters:
//	  - {label: alice, type: user}
//	reactants:
//	  - {label: post, type: article}
//	steps:
//	  - {op: react, reacter: alice, reactant: post, type: Like}
//	  - {op: truncate}
//	  - {op: recount, scope: {entity_type: article}}
//	  - {op: react, reacter: none, reactant: post, type: Like, expect_error: REACTER_INVALID}
//	assertions:
//	  - {type: counter, reactant: post, reaction_type: Like, count: 1, weight: 1}
//	  - {type: total, reactant: post, count: 1, weight: 1}
//	  - {type: reacted, reacter: alice, reactant: post, want: true}
//	  - {type: trace_count, op: react, outcome: ok, count: 1}
//
// The label "none" names the null reacter and the null reactant.
//
// # Step Ops
//
//   - react, unreact: a reacter reacts to (or withdraws from) a reactant
//   - recount: rebuild counters from the ledger, optionally scoped
//   - truncate: wipe every counter and total, simulating drift
//   - delete_reactant, delete_reacter: remove a participant
//
// A step succeeds unless it names an expect_error code. A mismatched
// outcome fails the scenario but does not stop it.
//
// # Deterministic Testing
//
// Every scenario runs in its own in-memory SQLite database with a
// deterministic clock and recount run IDs "recount-1", "recount-2", ...
// so snapshots are byte-identical across runs.
package harness
