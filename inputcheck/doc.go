// Package inputcheck performs a keyword-based pre-flight check on a game
// concept before any model call is made. It detects genre, platform and art
// style hints, verifies a core concept is present, and produces follow-up
// questions for whatever is missing. Purely heuristic and deterministic.
package inputcheck
