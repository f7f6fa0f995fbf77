package gdd

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fallback builds a minimal but schema-valid Document from the original
// request text. It is purely deterministic and performs no I/O, so it can be
// used as the last line of defense when generation fails after all retries.
// The result always passes Validate.
func Fallback(userPrompt string) *Document {
	title := titleHint(userPrompt)
	concept := userPrompt
	if len(concept) > 100 {
		concept = concept[:100] + "..."
	}

	return &Document{
		SchemaVersion: "1.0",
		GeneratedAt:   nowUTC(),
		Meta: Meta{
			Title:                 title,
			Genres:                []string{"action"},
			TargetPlatforms:       []string{"pc"},
			TargetAudience:        "General gaming audience - this is a fallback document",
			UniqueSellingPoint:    fmt.Sprintf("Based on concept: %s (fallback - needs revision)", concept),
			EstimatedDevTimeWeeks: 26,
		},
		CoreLoop: CoreLoop{
			PrimaryActions:       []string{"Play", "Progress"},
			ChallengeDescription: "Fallback document - challenges need to be defined based on the concept",
			RewardDescription:    "Fallback document - rewards need to be defined based on the concept",
			LoopDescription:      "Fallback document - core loop needs to be designed based on the concept",
			SessionLengthMinutes: 30,
		},
		Systems: []System{
			{
				Name:        "Core Gameplay System",
				Type:        "custom",
				Description: "Fallback system - needs to be defined based on the concept",
				Mechanics:   []string{"Placeholder mechanic"},
			},
			{
				Name:        "Progression System",
				Type:        "leveling",
				Description: "Fallback progression - needs to be defined based on the concept",
				Mechanics:   []string{"Level up"},
			},
			{
				Name:        "UI System",
				Type:        "ui",
				Description: "Standard UI system for menus and HUD",
				Mechanics:   []string{"Menu navigation", "HUD display"},
			},
		},
		Progression: Progression{
			Type: "linear",
			Milestones: []Milestone{
				{Name: "Tutorial Complete", Description: "Complete the tutorial", UnlockCondition: "Finish tutorial sequence"},
				{Name: "First Challenge", Description: "Complete the first challenge", UnlockCondition: "Beat first challenge"},
				{Name: "Mid-game", Description: "Reach mid-game content", UnlockCondition: "Complete 50% of content"},
				{Name: "End-game", Description: "Reach end-game content", UnlockCondition: "Complete 80% of content"},
				{Name: "Completion", Description: "Complete the game", UnlockCondition: "Finish all main content"},
			},
			DifficultyCurve: "Fallback - difficulty curve needs to be designed",
		},
		Narrative: Narrative{
			Setting:           "Fallback setting - needs to be defined based on the concept",
			StoryPremise:      fmt.Sprintf("Based on concept: %s (needs full narrative design)", concept),
			Themes:            []string{"Adventure"},
			NarrativeDelivery: []string{"none"},
			StoryStructure:    "Fallback - story structure needs to be designed",
		},
		Technical: Technical{
			RecommendedEngine: "unity",
			ArtStyle:          "stylized",
			KeyTechnologies:   []string{"Game engine", "Version control"},
			Audio: Audio{
				MusicStyle:      "Background music",
				SoundCategories: []string{"UI", "Gameplay"},
			},
		},
		AdditionalNotes: "This is a FALLBACK document generated after repeated generation failures. Please regenerate with more specific prompts.",
	}
}

// titleHint derives a placeholder title from the first words of the request.
func titleHint(userPrompt string) string {
	words := strings.Fields(userPrompt)
	if len(words) > 5 {
		words = words[:5]
	}
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	if len(words) == 0 {
		return "Untitled Game (Fallback)"
	}
	return strings.Join(words, " ") + " (Fallback)"
}
