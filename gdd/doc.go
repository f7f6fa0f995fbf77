// Package gdd defines the Game Design Document schema, its structural
// validation rules, JSON extraction from raw model output, and the
// deterministic fallback builder used when generation is unrecoverable.
package gdd
