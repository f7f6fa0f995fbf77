package gdd

import (
	"encoding/json"
	"fmt"
	"time"
)

// Schema minimums enforced by Validate. A document below these counts is not
// usable by downstream consumers (renderers, task generators).
const (
	MinSystems    = 3
	MinMilestones = 5
	MinUSPLength  = 20
)

// Meta holds the core identity of a game: what it is, who it is for and why
// it is worth building.
type Meta struct {
	Title                 string   `json:"title"`
	Genres                []string `json:"genres"`
	TargetPlatforms       []string `json:"target_platforms"`
	TargetAudience        string   `json:"target_audience"`
	UniqueSellingPoint    string   `json:"unique_selling_point"`
	EstimatedDevTimeWeeks int      `json:"estimated_dev_time_weeks,omitempty"`
}

// CoreLoop describes the primary gameplay cycle the player repeats every
// session.
type CoreLoop struct {
	PrimaryActions       []string `json:"primary_actions"`
	ChallengeDescription string   `json:"challenge_description"`
	RewardDescription    string   `json:"reward_description"`
	LoopDescription      string   `json:"loop_description"`
	SessionLengthMinutes int      `json:"session_length_minutes,omitempty"`
}

// System is a discrete gameplay system (combat, crafting, progression, UI...).
type System struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Mechanics   []string `json:"mechanics,omitempty"`
}

// Milestone is a named step in the player's progression.
type Milestone struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	UnlockCondition string `json:"unlock_condition"`
}

// Progression describes how the player advances through the game.
type Progression struct {
	Type            string      `json:"type"`
	Milestones      []Milestone `json:"milestones"`
	DifficultyCurve string      `json:"difficulty_curve_description,omitempty"`
}

// Narrative covers setting, premise and how the story is delivered.
type Narrative struct {
	Setting           string   `json:"setting"`
	StoryPremise      string   `json:"story_premise"`
	Themes            []string `json:"themes,omitempty"`
	NarrativeDelivery []string `json:"narrative_delivery,omitempty"`
	StoryStructure    string   `json:"story_structure,omitempty"`
}

// Audio captures music and sound requirements.
type Audio struct {
	MusicStyle      string   `json:"music_style,omitempty"`
	SoundCategories []string `json:"sound_categories,omitempty"`
}

// Technical holds engine, art style and tooling recommendations.
type Technical struct {
	RecommendedEngine string   `json:"recommended_engine"`
	ArtStyle          string   `json:"art_style"`
	KeyTechnologies   []string `json:"key_technologies,omitempty"`
	Audio             Audio    `json:"audio,omitempty"`
}

// Risk is an identified project risk with its mitigation.
type Risk struct {
	Description string `json:"description"`
	Likelihood  string `json:"likelihood,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Mitigation  string `json:"mitigation,omitempty"`
}

// Document is a complete Game Design Document. It is the artifact the Actor
// produces and the Critic reviews. Documents are treated as immutable value
// objects: a revision always yields a new Document, never mutates an old one.
type Document struct {
	SchemaVersion   string      `json:"schema_version"`
	GeneratedAt     string      `json:"generated_at,omitempty"`
	Meta            Meta        `json:"meta"`
	CoreLoop        CoreLoop    `json:"core_loop"`
	Systems         []System    `json:"systems"`
	Progression     Progression `json:"progression"`
	Narrative       Narrative   `json:"narrative"`
	Technical       Technical   `json:"technical"`
	Risks           []Risk      `json:"risks,omitempty"`
	AdditionalNotes string      `json:"additional_notes,omitempty"`
}

// Validate checks the structural invariants every usable document must hold.
// The fallback builder is covered by the same rules, so a degraded document
// can never be schema-invalid.
func (d *Document) Validate() error {
	if d.Meta.Title == "" {
		return fmt.Errorf("document requires a title")
	}
	if len(d.Meta.UniqueSellingPoint) < MinUSPLength {
		return fmt.Errorf("unique selling point must be at least %d characters to be meaningful", MinUSPLength)
	}
	if len(d.Systems) < MinSystems {
		return fmt.Errorf("document requires at least %d game systems, got %d", MinSystems, len(d.Systems))
	}
	if len(d.Progression.Milestones) < MinMilestones {
		return fmt.Errorf("progression requires at least %d milestones, got %d", MinMilestones, len(d.Progression.Milestones))
	}
	if len(d.CoreLoop.PrimaryActions) == 0 {
		return fmt.Errorf("core loop requires at least one primary action")
	}
	return nil
}

// ToJSON serializes the document with indentation for prompt embedding and
// file output.
func (d *Document) ToJSON() (string, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(b), nil
}

// Summary renders a short human-readable overview of the document.
func (d *Document) Summary() string {
	s := fmt.Sprintf("%s (%v on %v)\nUSP: %s\nSystems: %d, Milestones: %d",
		d.Meta.Title, d.Meta.Genres, d.Meta.TargetPlatforms,
		d.Meta.UniqueSellingPoint, len(d.Systems), len(d.Progression.Milestones))
	return s
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
