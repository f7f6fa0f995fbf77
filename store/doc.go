// Package store persists completed refinement runs. The in-memory
// implementation is suited for tests and single-process tooling; a durable
// backend can implement the same Store interface.
package store
