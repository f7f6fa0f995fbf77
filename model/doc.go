// Package model defines the provider-agnostic abstractions for calling
// text-generation backends.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Surface usage metadata (tokens, latency, finish reason) uniformly
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so the orchestrator remains decoupled from vendor SDKs.
package model
