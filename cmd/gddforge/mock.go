package main

import (
	"encoding/json"

	"github.com/hupe1980/gddforge/gdd"
	"github.com/hupe1980/gddforge/model"
	"github.com/hupe1980/gddforge/review"
)

// newMockModel scripts a single draft-then-approve cycle so the CLI can be
// exercised end to end without credentials or network access.
func newMockModel() model.Model {
	doc := gdd.Fallback("a cozy mock game about testing pipelines")
	doc.Meta.Title = "Mock Quest"
	docJSON, _ := doc.ToJSON()

	fb := review.Feedback{
		Decision:          review.DecisionApprove,
		FeasibilityScore:  8,
		CoherenceScore:    8,
		FunFactorScore:    7,
		CompletenessScore: 8,
		OriginalityScore:  6,
		Notes:             "Scripted approval from the mock provider.",
	}
	fbJSON, _ := json.Marshal(fb)

	return model.NewMockModel("mock").
		EnqueueResponse(docJSON).
		EnqueueResponse(string(fbJSON))
}
