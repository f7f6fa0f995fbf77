// Package template builds a validated document directly from a YAML template
// file, bypassing generation entirely. Useful for deterministic scaffolding
// and for teams that maintain house templates.
package template

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/gddforge/gdd"
)

// Template mirrors the document schema with yaml tags. Fields left empty in
// the file are filled from sensible defaults where the schema allows it.
type Template struct {
	Title           string   `yaml:"title"`
	Genres          []string `yaml:"genre"`
	Platforms       []string `yaml:"platforms"`
	TargetAudience  string   `yaml:"target_audience"`
	USP             string   `yaml:"unique_selling_point"`
	PrimaryActions  []string `yaml:"primary_actions"`
	Challenge       string   `yaml:"challenge"`
	Reward          string   `yaml:"reward"`
	Loop            string   `yaml:"loop"`
	Systems         []System `yaml:"systems"`
	ProgressionType string   `yaml:"progression_type"`
	Milestones      []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Unlock      string `yaml:"unlock"`
	} `yaml:"milestones"`
	Setting string   `yaml:"setting"`
	Premise string   `yaml:"premise"`
	Themes  []string `yaml:"themes"`
	Engine  string   `yaml:"engine"`
	Art     string   `yaml:"art_style"`
	Notes   string   `yaml:"notes"`
}

// System is one gameplay system entry in a template.
type System struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Mechanics   []string `yaml:"mechanics"`
}

// Load reads and parses a YAML template file.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Parse(data)
}

// Parse decodes template YAML.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template yaml: %w", err)
	}
	if t.Title == "" {
		return nil, fmt.Errorf("template requires a title")
	}
	return &t, nil
}

// Concept renders the template as a generation prompt so a template can seed
// the refinement loop instead of replacing it.
func (t *Template) Concept() string {
	var b strings.Builder
	fmt.Fprintf(&b, "A game titled %q", t.Title)
	if len(t.Genres) > 0 {
		fmt.Fprintf(&b, ", a %s game", strings.Join(t.Genres, "/"))
	}
	if len(t.Platforms) > 0 {
		fmt.Fprintf(&b, " for %s", strings.Join(t.Platforms, ", "))
	}
	b.WriteString(".")
	if t.USP != "" {
		fmt.Fprintf(&b, " Unique selling point: %s.", t.USP)
	}
	if t.Loop != "" {
		fmt.Fprintf(&b, " Core loop: %s.", t.Loop)
	}
	if t.Setting != "" {
		fmt.Fprintf(&b, " Setting: %s.", t.Setting)
	}
	if t.Art != "" {
		fmt.Fprintf(&b, " Art style: %s.", t.Art)
	}
	if t.Notes != "" {
		fmt.Fprintf(&b, " Additional notes: %s", t.Notes)
	}
	return b.String()
}

// Document converts the template to a validated document. Missing optional
// fields fall back to defaults; the result must still satisfy the schema
// minimums, so thin templates fail loudly rather than producing an invalid
// document.
func (t *Template) Document() (*gdd.Document, error) {
	doc := &gdd.Document{
		SchemaVersion: "1.0",
		Meta: gdd.Meta{
			Title:              t.Title,
			Genres:             defaultSlice(t.Genres, "puzzle"),
			TargetPlatforms:    defaultSlice(t.Platforms, "pc"),
			TargetAudience:     defaultStr(t.TargetAudience, "General gaming audience"),
			UniqueSellingPoint: t.USP,
		},
		CoreLoop: gdd.CoreLoop{
			PrimaryActions:       t.PrimaryActions,
			ChallengeDescription: defaultStr(t.Challenge, "Challenges defined by the template"),
			RewardDescription:    defaultStr(t.Reward, "Rewards defined by the template"),
			LoopDescription:      defaultStr(t.Loop, "Core loop defined by the template"),
		},
		Progression: gdd.Progression{
			Type: defaultStr(t.ProgressionType, "linear"),
		},
		Narrative: gdd.Narrative{
			Setting:      defaultStr(t.Setting, "Setting defined by the template"),
			StoryPremise: defaultStr(t.Premise, "Premise defined by the template"),
			Themes:       t.Themes,
		},
		Technical: gdd.Technical{
			RecommendedEngine: defaultStr(t.Engine, "godot"),
			ArtStyle:          defaultStr(t.Art, "stylized"),
		},
		AdditionalNotes: t.Notes,
	}
	for _, s := range t.Systems {
		doc.Systems = append(doc.Systems, gdd.System{
			Name:        s.Name,
			Type:        defaultStr(s.Type, "custom"),
			Description: s.Description,
			Mechanics:   s.Mechanics,
		})
	}
	for _, m := range t.Milestones {
		doc.Progression.Milestones = append(doc.Progression.Milestones, gdd.Milestone{
			Name:            m.Name,
			Description:     m.Description,
			UnlockCondition: m.Unlock,
		})
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("template produces invalid document: %w", err)
	}
	return doc, nil
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func defaultSlice(s []string, def string) []string {
	if len(s) == 0 {
		return []string{def}
	}
	return s
}
