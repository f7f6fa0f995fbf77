// Package retry implements a generic bounded retry runner with exponential
// backoff, a typed taxonomy of retryable failure kinds, and context-aware
// delays. It never fabricates fallback values; deciding what to do after
// exhaustion belongs to the caller.
package retry
