package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/gddforge/gdd"
	"github.com/hupe1980/gddforge/logging"
	"github.com/hupe1980/gddforge/model"
	"github.com/hupe1980/gddforge/prompt"
)

// Orchestrator coordinates the Actor and Critic roles against a single
// generation backend. A single Execute call is one sequential session;
// multiple sessions may run concurrently against the same Model because no
// state is shared between them.
type Orchestrator struct {
	model  model.Model
	cfg    Config
	logger logging.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) { o.cfg = cfg }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New constructs an Orchestrator around a generation backend.
func New(m model.Model, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		model:  m,
		cfg:    DefaultConfig(),
		logger: logging.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg.MaxIterations < 1 {
		o.cfg.MaxIterations = 1
	}
	return o
}

// Execute runs the full generate/review/revise loop for a user request:
//
//	doc[0] := Actor(request)
//	for i < maxIterations:
//	    feedback := Critic(doc[i])
//	    if feedback approves: done
//	    doc[i+1] := Actor(doc[i], feedback)   // state replacement, no history
//
// Execute always returns a usable Result unless a defect occurs before any
// document exists, which is the only case where the error return is non-nil.
func (o *Orchestrator) Execute(ctx context.Context, userPrompt string) (res *Result, err error) {
	start := time.Now()
	runID := uuid.NewString()

	var (
		history  []IterationRecord
		current  *gdd.Document
		usage    model.TokenUsage
		degraded bool
	)

	finish := func(doc *gdd.Document, reason TerminationReason, iters int, success bool) *Result {
		return &Result{
			RunID:           runID,
			FinalDocument:   doc,
			Reason:          reason,
			TotalIterations: iters,
			History:         history,
			TotalDuration:   time.Since(start),
			Prompt:          userPrompt,
			Success:         success,
			Degraded:        degraded,
			Usage:           usage,
		}
	}

	// settle maps an invoker error onto a terminal result. Deadline expiry
	// and caller cancellation yield a TimedOut result, built entirely from
	// the fallback builder when no document exists yet. A defect is
	// contained only if there is a document to return.
	settle := func(cause error) (*Result, error) {
		if errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
			o.logger.Warn("session deadline elapsed", "run_id", runID, "error", cause)
			doc := current
			if doc == nil {
				doc = gdd.Fallback(userPrompt)
				degraded = true
			}
			return finish(doc, ReasonTimeout, len(history), false), nil
		}
		if current != nil {
			o.logger.Error("unrecoverable error, returning best-effort result", "run_id", runID, "error", cause)
			return finish(current, ReasonError, len(history), false), nil
		}
		return nil, cause
	}

	// Defects (panics) from outside the invoker boundary are contained the
	// same way, but only when a document already exists; otherwise there is
	// no data worth returning and the controller fails loudly.
	defer func() {
		if r := recover(); r != nil {
			if current == nil {
				panic(r)
			}
			o.logger.Error("defect during refinement, returning best-effort result", "run_id", runID, "panic", r)
			res = finish(current, ReasonError, len(history), false)
			err = nil
		}
	}()

	o.logger.Info("starting document generation", "run_id", runID, "prompt", truncate(userPrompt, 100))

	actorStart := time.Now()
	initial, aerr := o.invokeActor(ctx, prompt.ActorMessage(userPrompt), userPrompt)
	if aerr != nil {
		return settle(aerr)
	}
	actorDur := time.Since(actorStart)
	current = initial.doc
	usage.Add(initial.resp)
	degraded = degraded || initial.degraded

	o.logger.Info("actor produced initial document", "run_id", runID,
		"title", current.Meta.Title,
		"input_tokens", initial.resp.InputTokens, "output_tokens", initial.resp.OutputTokens)

	for i := 0; i < o.cfg.MaxIterations; i++ {
		o.logger.Info("critic reviewing document", "run_id", runID,
			"iteration", i+1, "max_iterations", o.cfg.MaxIterations)

		docJSON, jerr := current.ToJSON()
		if jerr != nil {
			return settle(fmt.Errorf("serialize document for review: %w", jerr))
		}

		criticStart := time.Now()
		verdict, cerr := o.invokeCritic(ctx, prompt.CriticMessage(userPrompt, docJSON))
		if cerr != nil {
			return settle(cerr)
		}
		criticDur := time.Since(criticStart)
		usage.Add(verdict.resp)
		degraded = degraded || verdict.degraded

		// The single point where history grows: one record per iteration.
		history = append(history, IterationRecord{
			Index:          i,
			Document:       current,
			Feedback:       verdict.fb,
			ActorDuration:  actorDur,
			CriticDuration: criticDur,
			Timestamp:      time.Now().UTC(),
		})

		o.logger.Info("critic decision", "run_id", runID,
			"decision", verdict.fb.Decision,
			"overall_score", verdict.fb.OverallScore(),
			"issues", len(verdict.fb.Issues))

		if verdict.fb.Approved() {
			o.logger.Info("critic approved document", "run_id", runID,
				"title", current.Meta.Title, "iterations", i+1)
			return finish(current, ReasonApproved, i+1, true), nil
		}
		if i == o.cfg.MaxIterations-1 {
			o.logger.Warn("max iterations reached, returning best-effort document",
				"run_id", runID, "max_iterations", o.cfg.MaxIterations)
			break
		}

		o.logger.Info("actor revising document", "run_id", runID,
			"issues_to_address", len(verdict.fb.Issues))

		actorStart = time.Now()
		revised, rerr := o.invokeActor(ctx, prompt.RevisionMessage(docJSON, verdict.fb.ActorFeedback()), userPrompt)
		if rerr != nil {
			return settle(rerr)
		}
		actorDur = time.Since(actorStart)
		current = revised.doc
		usage.Add(revised.resp)
		degraded = degraded || revised.degraded
	}

	return finish(current, ReasonMaxIterations, o.cfg.MaxIterations, false), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
