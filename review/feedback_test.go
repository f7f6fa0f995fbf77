package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedFeedback() *Feedback {
	return &Feedback{
		Decision:          DecisionApprove,
		FeasibilityScore:  8,
		CoherenceScore:    7,
		FunFactorScore:    9,
		CompletenessScore: 6,
		OriginalityScore:  5,
	}
}

func TestOverallScore_WeightedAverage(t *testing.T) {
	fb := approvedFeedback()

	want := 8*0.25 + 7*0.20 + 9*0.25 + 6*0.15 + 5*0.15
	assert.InDelta(t, want, fb.OverallScore(), 1e-9)
}

func TestOverallScore_UniformScores(t *testing.T) {
	fb := AutoApprove("")
	// Weights sum to 1.0, so uniform scores collapse to the score itself.
	assert.InDelta(t, 7.0, fb.OverallScore(), 1e-9)
}

func TestValidate_AcceptsConsistentFeedback(t *testing.T) {
	require.NoError(t, approvedFeedback().Validate())

	revise := approvedFeedback()
	revise.Decision = DecisionRevise
	revise.Issues = []Issue{{
		Section:     "core_loop",
		Description: "Loop has no fail state",
		Severity:    SeverityMajor,
	}}
	require.NoError(t, revise.Validate())

	// Approve with only major (non-critical) issues is allowed.
	approveWithMajor := approvedFeedback()
	approveWithMajor.Issues = []Issue{{
		Section:     "narrative",
		Description: "Premise is thin",
		Severity:    SeverityMajor,
	}}
	require.NoError(t, approveWithMajor.Validate())
}

func TestValidate_RejectsInconsistentFeedback(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Feedback)
	}{
		{
			name:   "unknown decision",
			mutate: func(f *Feedback) { f.Decision = "maybe" },
		},
		{
			name:   "score below range",
			mutate: func(f *Feedback) { f.FunFactorScore = 0 },
		},
		{
			name:   "score above range",
			mutate: func(f *Feedback) { f.CoherenceScore = 11 },
		},
		{
			name: "approve with critical issue",
			mutate: func(f *Feedback) {
				f.Issues = []Issue{{Section: "systems", Description: "No core system", Severity: SeverityCritical}}
			},
		},
		{
			name: "revise without issues",
			mutate: func(f *Feedback) {
				f.Decision = DecisionRevise
				f.Issues = nil
			},
		},
		{
			name: "unknown severity",
			mutate: func(f *Feedback) {
				f.Issues = []Issue{{Section: "systems", Description: "bad", Severity: "cosmetic"}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := approvedFeedback()
			tt.mutate(fb)
			assert.Error(t, fb.Validate())
		})
	}
}

func TestParse_FromFencedJSON(t *testing.T) {
	raw := "Review complete.\n```json\n" + `{
		"decision": "revise",
		"blocking_issues": [
			{"section": "progression", "issue": "Milestones jump too fast", "severity": "major", "suggestion": "Add intermediate unlocks"}
		],
		"feasibility_score": 7,
		"coherence_score": 6,
		"fun_factor_score": 7,
		"completeness_score": 5,
		"originality_score": 8,
		"review_notes": "Needs one more pass."
	}` + "\n```"

	fb, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, DecisionRevise, fb.Decision)
	assert.False(t, fb.Approved())
	require.Len(t, fb.Issues, 1)
	assert.Equal(t, "progression", fb.Issues[0].Section)
	assert.Equal(t, SeverityMajor, fb.Issues[0].Severity)
	assert.Equal(t, "Add intermediate unlocks", fb.Issues[0].SuggestedFix)
}

func TestParse_RejectsInvalidFeedback(t *testing.T) {
	// Decodes fine but violates decision consistency.
	raw := `{"decision": "revise", "feasibility_score": 7, "coherence_score": 7,
		"fun_factor_score": 7, "completeness_score": 7, "originality_score": 7}`

	_, err := Parse(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")

	// Decode alone must accept the same payload.
	fb, err := Decode(raw)
	require.NoError(t, err)
	assert.Error(t, fb.Validate())
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode(`{"decision": "approve"`)
	assert.Error(t, err)
}

func TestAutoApprove(t *testing.T) {
	fb := AutoApprove("critic was unavailable")

	require.NoError(t, fb.Validate())
	assert.True(t, fb.Approved())
	assert.Empty(t, fb.Issues)
	assert.Equal(t, "critic was unavailable", fb.Notes)

	// Default note when none supplied.
	assert.Contains(t, AutoApprove("").Notes, "Manual review recommended")
}

func TestHasCritical(t *testing.T) {
	fb := approvedFeedback()
	assert.False(t, fb.HasCritical())

	fb.Issues = append(fb.Issues, Issue{Severity: SeverityMajor})
	assert.False(t, fb.HasCritical())

	fb.Issues = append(fb.Issues, Issue{Severity: SeverityCritical})
	assert.True(t, fb.HasCritical())
}

func TestActorFeedback_Rendering(t *testing.T) {
	fb := &Feedback{
		Decision:          DecisionRevise,
		FeasibilityScore:  6,
		CoherenceScore:    6,
		FunFactorScore:    6,
		CompletenessScore: 6,
		OriginalityScore:  6,
		Issues: []Issue{{
			Section:      "technical",
			Description:  "Engine choice conflicts with platform list",
			Severity:     SeverityCritical,
			SuggestedFix: "Pick an engine that ships on all target platforms",
		}},
		Notes: "Fix the engine mismatch first.",
	}

	out := fb.ActorFeedback()
	assert.Contains(t, out, "CRITIC DECISION: REVISE")
	assert.Contains(t, out, "Overall: 6.0/10")
	assert.Contains(t, out, "BLOCKING ISSUES")
	assert.Contains(t, out, "[CRITICAL] technical: Engine choice conflicts with platform list")
	assert.Contains(t, out, "Fix: Pick an engine that ships on all target platforms")
	assert.Contains(t, out, "REVIEWER NOTES")
}

func TestActorFeedback_OmitsEmptySections(t *testing.T) {
	out := approvedFeedback().ActorFeedback()
	assert.NotContains(t, out, "BLOCKING ISSUES")
	assert.NotContains(t, out, "REVIEWER NOTES")
}
