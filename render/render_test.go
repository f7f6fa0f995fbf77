package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gddforge/gdd"
)

func fixtureDoc() *gdd.Document {
	doc := gdd.Fallback("a heist game where the getaway car is sentient")
	doc.Meta.Title = "Wheelman"
	doc.Meta.Genres = []string{"action", "stealth"}
	doc.Risks = []gdd.Risk{{
		Description: "AI companion dialogue scope",
		Likelihood:  "medium",
		Impact:      "high",
		Mitigation:  "Limit the car to a fixed phrase pool for the first milestone",
	}}
	return doc
}

func TestMarkdown_ContainsAllSections(t *testing.T) {
	out := Markdown(fixtureDoc())

	assert.True(t, strings.HasPrefix(out, "# Wheelman\n"))
	for _, heading := range []string{
		"## Overview",
		"## Core Loop",
		"## Game Systems",
		"## Progression",
		"## Narrative",
		"## Technical",
		"## Risks",
	} {
		assert.Contains(t, out, heading)
	}

	assert.Contains(t, out, "action, stealth")
	assert.Contains(t, out, "| Milestone | Description | Unlock Condition |")
	assert.Contains(t, out, "AI companion dialogue scope")
}

func TestMarkdown_OmitsEmptyOptionalFields(t *testing.T) {
	doc := fixtureDoc()
	doc.Risks = nil
	doc.Meta.EstimatedDevTimeWeeks = 0
	doc.CoreLoop.SessionLengthMinutes = 0

	out := Markdown(doc)
	assert.NotContains(t, out, "## Risks")
	assert.NotContains(t, out, "Estimated Dev Time")
	assert.NotContains(t, out, "Session Length")
}

func TestHTML_ProducesWellFormedPage(t *testing.T) {
	page, err := HTML(fixtureDoc())
	require.NoError(t, err)

	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "<title>Wheelman</title>")
	assert.Contains(t, page, "Wheelman")
	assert.Contains(t, page, "</html>")
}

func TestHTML_EscapesDocumentContent(t *testing.T) {
	doc := fixtureDoc()
	doc.Meta.Title = `<script>alert("x")</script>`

	page, err := HTML(doc)
	require.NoError(t, err)
	assert.NotContains(t, page, `<script>alert("x")</script>`)
}
