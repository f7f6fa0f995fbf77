// Package gddforge provides a high-level façade over the refinement
// orchestrator and its services (models, run storage, input checking and
// logging) enabling rapid construction of GDD generation pipelines. Most
// applications interact with this package by:
//  1. Creating a Forge via New() with a model (optionally overriding defaults)
//  2. Calling Plan() with a free-form game concept
//  3. Rendering or persisting the returned Result
//
// The façade delegates iteration control to orchestrator.Orchestrator while
// keeping setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply real model
// backends and a structured logger.
package gddforge

import (
	"context"

	"github.com/hupe1980/gddforge/inputcheck"
	"github.com/hupe1980/gddforge/logging"
	"github.com/hupe1980/gddforge/model"
	"github.com/hupe1980/gddforge/orchestrator"
	"github.com/hupe1980/gddforge/store"
)

// Options configures the Forge instance.
type Options struct {
	// Orchestrator configuration (iteration cap, temperatures, timeouts, retries).
	Config orchestrator.Config

	// Store keeps completed runs (defaults to an in-memory implementation).
	Store store.Store

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger

	// CheckInput enables the pre-flight input sufficiency check. When the
	// concept is too thin, Plan still proceeds but the Result's input report
	// carries follow-up questions for the caller to surface.
	CheckInput bool
}

// Forge is the high-level façade aggregating the orchestrator and services.
type Forge struct {
	opts    Options
	orch    *orchestrator.Orchestrator
	checker *inputcheck.Checker
}

// New creates a Forge around the given model with optional overrides. Any
// unset service is initialized with an in-memory or no-op implementation.
func New(m model.Model, optFns ...func(o *Options)) *Forge {
	opts := Options{
		Config:     orchestrator.DefaultConfig(),
		Store:      store.NewInMemoryStore(),
		Logger:     logging.NoOpLogger{},
		CheckInput: true,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	orch := orchestrator.New(m,
		orchestrator.WithConfig(opts.Config),
		orchestrator.WithLogger(opts.Logger),
	)

	return &Forge{
		opts:    opts,
		orch:    orch,
		checker: inputcheck.NewChecker(),
	}
}

// PlanOutput bundles the refinement result with the pre-flight input report.
type PlanOutput struct {
	Result *orchestrator.Result
	Input  *inputcheck.Result
}

// Plan runs the full actor/critic refinement session for the given concept
// and persists the result in the configured store. The input report is
// advisory; generation proceeds even for thin concepts.
func (f *Forge) Plan(ctx context.Context, concept string) (*PlanOutput, error) {
	out := &PlanOutput{}

	if f.opts.CheckInput {
		report := f.checker.Check(concept)
		out.Input = &report
	}

	res, err := f.orch.Execute(ctx, concept)
	if err != nil {
		return nil, err
	}
	out.Result = res

	if err := f.opts.Store.Save(res); err != nil {
		return nil, err
	}
	return out, nil
}

// Run retrieves a previously completed run by its ID.
func (f *Forge) Run(runID string) (*orchestrator.Result, error) {
	return f.opts.Store.Get(runID)
}

// Runs lists all completed runs held by the store.
func (f *Forge) Runs() ([]*orchestrator.Result, error) {
	return f.opts.Store.List()
}
