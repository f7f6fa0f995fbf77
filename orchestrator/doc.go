// Package orchestrator drives the dual-agent refinement loop: an Actor
// (game designer) produces a document, a Critic (game reviewer) evaluates it,
// and the two alternate until the Critic approves or the iteration budget is
// exhausted.
//
// The guiding policy is "always return something usable": transient backend
// failures and malformed generations are retried with exponential backoff and
// then absorbed into deterministic fallbacks, never surfaced to the caller.
// Only the Success flag and TerminationReason on the Result distinguish a
// clean approval from a degraded best-effort outcome.
package orchestrator
