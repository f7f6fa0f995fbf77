package render

import (
	"fmt"
	"strings"

	"github.com/hupe1980/gddforge/gdd"
)

// Markdown renders the document as a multi-section Markdown report.
func Markdown(doc *gdd.Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Meta.Title)
	fmt.Fprintf(&b, "> %s\n\n", doc.Meta.UniqueSellingPoint)

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- **Genres**: %s\n", strings.Join(doc.Meta.Genres, ", "))
	fmt.Fprintf(&b, "- **Platforms**: %s\n", strings.Join(doc.Meta.TargetPlatforms, ", "))
	fmt.Fprintf(&b, "- **Target Audience**: %s\n", doc.Meta.TargetAudience)
	if doc.Meta.EstimatedDevTimeWeeks > 0 {
		fmt.Fprintf(&b, "- **Estimated Dev Time**: %d weeks\n", doc.Meta.EstimatedDevTimeWeeks)
	}
	b.WriteString("\n")

	b.WriteString("## Core Loop\n\n")
	fmt.Fprintf(&b, "**Primary Actions**: %s\n\n", strings.Join(doc.CoreLoop.PrimaryActions, " → "))
	fmt.Fprintf(&b, "%s\n\n", doc.CoreLoop.LoopDescription)
	fmt.Fprintf(&b, "- **Challenge**: %s\n", doc.CoreLoop.ChallengeDescription)
	fmt.Fprintf(&b, "- **Reward**: %s\n", doc.CoreLoop.RewardDescription)
	if doc.CoreLoop.SessionLengthMinutes > 0 {
		fmt.Fprintf(&b, "- **Session Length**: ~%d minutes\n", doc.CoreLoop.SessionLengthMinutes)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Game Systems (%d)\n\n", len(doc.Systems))
	for _, sys := range doc.Systems {
		fmt.Fprintf(&b, "### %s (`%s`)\n\n%s\n\n", sys.Name, sys.Type, sys.Description)
		if len(sys.Mechanics) > 0 {
			for _, m := range sys.Mechanics {
				fmt.Fprintf(&b, "- %s\n", m)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Progression\n\n")
	fmt.Fprintf(&b, "**Type**: %s\n\n", doc.Progression.Type)
	if doc.Progression.DifficultyCurve != "" {
		fmt.Fprintf(&b, "%s\n\n", doc.Progression.DifficultyCurve)
	}
	b.WriteString("| Milestone | Description | Unlock Condition |\n")
	b.WriteString("|-----------|-------------|------------------|\n")
	for _, m := range doc.Progression.Milestones {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", m.Name, m.Description, m.UnlockCondition)
	}
	b.WriteString("\n")

	b.WriteString("## Narrative\n\n")
	fmt.Fprintf(&b, "**Setting**: %s\n\n", doc.Narrative.Setting)
	fmt.Fprintf(&b, "%s\n\n", doc.Narrative.StoryPremise)
	if len(doc.Narrative.Themes) > 0 {
		fmt.Fprintf(&b, "- **Themes**: %s\n", strings.Join(doc.Narrative.Themes, ", "))
	}
	if len(doc.Narrative.NarrativeDelivery) > 0 {
		fmt.Fprintf(&b, "- **Delivery**: %s\n", strings.Join(doc.Narrative.NarrativeDelivery, ", "))
	}
	if doc.Narrative.StoryStructure != "" {
		fmt.Fprintf(&b, "- **Structure**: %s\n", doc.Narrative.StoryStructure)
	}
	b.WriteString("\n")

	b.WriteString("## Technical\n\n")
	fmt.Fprintf(&b, "- **Engine**: %s\n", doc.Technical.RecommendedEngine)
	fmt.Fprintf(&b, "- **Art Style**: %s\n", doc.Technical.ArtStyle)
	if len(doc.Technical.KeyTechnologies) > 0 {
		fmt.Fprintf(&b, "- **Key Technologies**: %s\n", strings.Join(doc.Technical.KeyTechnologies, ", "))
	}
	if doc.Technical.Audio.MusicStyle != "" {
		fmt.Fprintf(&b, "- **Music**: %s\n", doc.Technical.Audio.MusicStyle)
	}
	b.WriteString("\n")

	if len(doc.Risks) > 0 {
		b.WriteString("## Risks\n\n")
		for _, r := range doc.Risks {
			fmt.Fprintf(&b, "- **%s** (likelihood: %s, impact: %s)", r.Description, orDash(r.Likelihood), orDash(r.Impact))
			if r.Mitigation != "" {
				fmt.Fprintf(&b, " - mitigation: %s", r.Mitigation)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if doc.AdditionalNotes != "" {
		fmt.Fprintf(&b, "## Notes\n\n%s\n\n", doc.AdditionalNotes)
	}

	fmt.Fprintf(&b, "---\n\n*Schema %s, generated %s*\n", doc.SchemaVersion, doc.GeneratedAt)
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
