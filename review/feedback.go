package review

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/gddforge/gdd"
)

// Decision is the Critic's verdict on a document.
type Decision string

const (
	// DecisionApprove accepts the document as-is.
	DecisionApprove Decision = "approve"
	// DecisionRevise requests another Actor pass.
	DecisionRevise Decision = "revise"
)

// Severity classifies how badly an issue blocks the document.
type Severity string

const (
	// SeverityCritical marks issues that undermine the core design.
	SeverityCritical Severity = "critical"
	// SeverityMajor marks issues likely to cause implementation or balance problems.
	SeverityMajor Severity = "major"
)

// Weights of the five review dimensions in the overall score. They sum to 1.0.
const (
	WeightFeasibility  = 0.25
	WeightCoherence    = 0.20
	WeightFunFactor    = 0.25
	WeightCompleteness = 0.15
	WeightOriginality  = 0.15
)

// Issue is a single blocking problem the Critic found.
type Issue struct {
	Section      string   `json:"section"`
	Description  string   `json:"issue"`
	Severity     Severity `json:"severity"`
	SuggestedFix string   `json:"suggestion,omitempty"`
}

// String renders the issue for injection into a revision prompt.
func (i Issue) String() string {
	s := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(i.Severity)), i.Section, i.Description)
	if i.SuggestedFix != "" {
		s += fmt.Sprintf("\n  Fix: %s", i.SuggestedFix)
	}
	return s
}

// Feedback is the Critic's complete verdict: a decision, zero or more
// blocking issues and scores across the five review dimensions (1-10 each).
// Feedback values are immutable once produced.
type Feedback struct {
	Decision          Decision `json:"decision"`
	Issues            []Issue  `json:"blocking_issues,omitempty"`
	FeasibilityScore  int      `json:"feasibility_score"`
	CoherenceScore    int      `json:"coherence_score"`
	FunFactorScore    int      `json:"fun_factor_score"`
	CompletenessScore int      `json:"completeness_score"`
	OriginalityScore  int      `json:"originality_score"`
	Notes             string   `json:"review_notes,omitempty"`
}

// Approved reports whether the Critic accepted the document.
func (f *Feedback) Approved() bool { return f.Decision == DecisionApprove }

// OverallScore is the fixed weighted average of the five dimension scores.
// Scores and decision are validated independently; a high score never
// overrides a revise decision.
func (f *Feedback) OverallScore() float64 {
	return float64(f.FeasibilityScore)*WeightFeasibility +
		float64(f.CoherenceScore)*WeightCoherence +
		float64(f.FunFactorScore)*WeightFunFactor +
		float64(f.CompletenessScore)*WeightCompleteness +
		float64(f.OriginalityScore)*WeightOriginality
}

// HasCritical reports whether any blocking issue is critical.
func (f *Feedback) HasCritical() bool {
	for _, issue := range f.Issues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// Validate enforces score ranges and decision consistency:
// approve is incompatible with a critical issue, and revise requires at
// least one issue to act on.
func (f *Feedback) Validate() error {
	switch f.Decision {
	case DecisionApprove, DecisionRevise:
	default:
		return fmt.Errorf("unknown decision %q", f.Decision)
	}
	for name, score := range map[string]int{
		"feasibility_score":  f.FeasibilityScore,
		"coherence_score":    f.CoherenceScore,
		"fun_factor_score":   f.FunFactorScore,
		"completeness_score": f.CompletenessScore,
		"originality_score":  f.OriginalityScore,
	} {
		if score < 1 || score > 10 {
			return fmt.Errorf("%s must be between 1 and 10, got %d", name, score)
		}
	}
	for _, issue := range f.Issues {
		if issue.Severity != SeverityCritical && issue.Severity != SeverityMajor {
			return fmt.Errorf("unknown issue severity %q", issue.Severity)
		}
	}
	if f.Decision == DecisionApprove && f.HasCritical() {
		return fmt.Errorf("decision cannot be %q while critical blocking issues exist", DecisionApprove)
	}
	if f.Decision == DecisionRevise && len(f.Issues) == 0 {
		return fmt.Errorf("decision cannot be %q without blocking issues", DecisionRevise)
	}
	return nil
}

// ActorFeedback formats the verdict for injection into the Actor's revision
// prompt. Only the current feedback is carried forward, never the full
// iteration history.
func (f *Feedback) ActorFeedback() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## CRITIC DECISION: %s\n\n", strings.ToUpper(string(f.Decision)))
	fmt.Fprintf(&b, "### SCORES (Overall: %.1f/10)\n", f.OverallScore())
	fmt.Fprintf(&b, "- Feasibility: %d/10\n", f.FeasibilityScore)
	fmt.Fprintf(&b, "- Coherence: %d/10\n", f.CoherenceScore)
	fmt.Fprintf(&b, "- Fun Factor: %d/10\n", f.FunFactorScore)
	fmt.Fprintf(&b, "- Completeness: %d/10\n", f.CompletenessScore)
	fmt.Fprintf(&b, "- Originality: %d/10\n\n", f.OriginalityScore)

	if len(f.Issues) > 0 {
		b.WriteString("### BLOCKING ISSUES (Must Fix)\n\n")
		for _, issue := range f.Issues {
			b.WriteString(issue.String())
			b.WriteString("\n\n")
		}
	}
	if f.Notes != "" {
		b.WriteString("### REVIEWER NOTES\n")
		b.WriteString(f.Notes)
		b.WriteString("\n")
	}
	return b.String()
}

// Decode extracts and decodes Feedback from raw model output without
// validating it. Callers that need to distinguish malformed JSON from
// decision-consistency violations run Validate separately.
func Decode(raw string) (*Feedback, error) {
	payload, err := gdd.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var fb Feedback
	if err := json.Unmarshal([]byte(payload), &fb); err != nil {
		return nil, fmt.Errorf("invalid JSON in critic response: %w", err)
	}
	return &fb, nil
}

// Parse extracts, decodes and validates Feedback from raw model output.
func Parse(raw string) (*Feedback, error) {
	fb, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := fb.Validate(); err != nil {
		return nil, fmt.Errorf("feedback failed validation: %w", err)
	}
	return fb, nil
}

// AutoApprove builds the synthetic approval used when the Critic is
// unavailable after exhausting retries. Mid-range scores, no issues, and a
// note flagging that the review was skipped.
func AutoApprove(note string) *Feedback {
	if note == "" {
		note = "Auto-approved due to repeated critic failures. Manual review recommended."
	}
	return &Feedback{
		Decision:          DecisionApprove,
		FeasibilityScore:  7,
		CoherenceScore:    7,
		FunFactorScore:    7,
		CompletenessScore: 7,
		OriginalityScore:  7,
		Notes:             note,
	}
}
