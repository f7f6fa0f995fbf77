package orchestrator

import (
	"fmt"
	"time"

	"github.com/hupe1980/gddforge/gdd"
	"github.com/hupe1980/gddforge/model"
	"github.com/hupe1980/gddforge/review"
)

// TerminationReason states why the refinement loop stopped.
type TerminationReason string

const (
	// ReasonApproved means the Critic accepted the document.
	ReasonApproved TerminationReason = "approved"
	// ReasonMaxIterations means the budget ran out; the result is best effort.
	ReasonMaxIterations TerminationReason = "max_iterations"
	// ReasonError means an unexpected defect was contained; the last good
	// document is returned.
	ReasonError TerminationReason = "error"
	// ReasonTimeout means the overall deadline elapsed.
	ReasonTimeout TerminationReason = "timeout"
)

// IterationRecord is the append-only audit entry for one review cycle. It is
// never mutated after creation; revision produces a new Document rather than
// touching the one recorded here.
type IterationRecord struct {
	Index          int              `json:"index"`
	Document       *gdd.Document    `json:"document"`
	Feedback       *review.Feedback `json:"feedback,omitempty"`
	ActorDuration  time.Duration    `json:"actor_duration_ms"`
	CriticDuration time.Duration    `json:"critic_duration_ms,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

// Result is the sole externally observable output of Execute. Inspect
// Success and Reason rather than assuming presence of a document implies
// quality: a degraded fallback is still a document.
type Result struct {
	RunID           string            `json:"run_id"`
	FinalDocument   *gdd.Document     `json:"final_document"`
	Reason          TerminationReason `json:"termination_reason"`
	TotalIterations int               `json:"total_iterations"`
	History         []IterationRecord `json:"iteration_history,omitempty"`
	TotalDuration   time.Duration     `json:"total_duration_ms"`
	Prompt          string            `json:"original_request"`
	Success         bool              `json:"success"`
	// Degraded is set when any role fell back after exhausting retries.
	Degraded bool             `json:"degraded,omitempty"`
	Usage    model.TokenUsage `json:"usage"`
}

// FinalFeedback returns the last recorded critic feedback, if any.
func (r *Result) FinalFeedback() *review.Feedback {
	if len(r.History) == 0 {
		return nil
	}
	return r.History[len(r.History)-1].Feedback
}

// Summary renders a short human-readable outcome line.
func (r *Result) Summary() string {
	status := "SUCCESS"
	if !r.Success {
		status = "BEST EFFORT"
	}
	return fmt.Sprintf("%s\nGame: %s\nTermination: %s\nIterations: %d\nDuration: %s\nTokens: %d in / %d out",
		status, r.FinalDocument.Meta.Title, r.Reason, r.TotalIterations,
		r.TotalDuration.Round(time.Millisecond), r.Usage.InputTokens, r.Usage.OutputTokens)
}
