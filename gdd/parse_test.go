package gdd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocJSON(t *testing.T) string {
	t.Helper()
	doc := Fallback("a tower defense game where the towers are unionized workers")
	s, err := doc.ToJSON()
	require.NoError(t, err)
	return s
}

func TestExtractJSON(t *testing.T) {
	payload := `{"meta": {"title": "Test"}}`

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "raw JSON",
			raw:  payload,
		},
		{
			name: "json fence",
			raw:  "```json\n" + payload + "\n```",
		},
		{
			name: "bare fence",
			raw:  "```\n" + payload + "\n```",
		},
		{
			name: "prose around fence",
			raw:  "Here is the document you asked for:\n\n```json\n" + payload + "\n```\n\nLet me know if you need changes.",
		},
		{
			name: "prose before bare payload",
			raw:  "Sure! " + payload,
		},
		{
			name: "array payload",
			raw:  "```json\n[1, 2]\n```",
			want: "[1, 2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			require.NoError(t, err)
			want := tt.want
			if want == "" {
				want = payload
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestExtractJSON_Errors(t *testing.T) {
	_, err := ExtractJSON("")
	assert.Error(t, err)

	_, err = ExtractJSON("I could not produce a document, sorry.")
	assert.Error(t, err)
}

func TestParseDocument_Valid(t *testing.T) {
	raw := "```json\n" + validDocJSON(t) + "\n```"

	doc, err := ParseDocument(raw)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Meta.Title)
	assert.GreaterOrEqual(t, len(doc.Systems), MinSystems)
	assert.GreaterOrEqual(t, len(doc.Progression.Milestones), MinMilestones)
}

func TestParseDocument_BackfillsSchemaFields(t *testing.T) {
	raw := validDocJSON(t)
	raw = strings.Replace(raw, `"schema_version": "1.0",`, "", 1)

	doc, err := ParseDocument(raw)
	require.NoError(t, err)
	assert.Equal(t, "1.0", doc.SchemaVersion)
	assert.NotEmpty(t, doc.GeneratedAt)
}

func TestParseDocument_InvalidJSON(t *testing.T) {
	_, err := ParseDocument(`{"meta": {"title": "Broken"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestParseDocument_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Document)
		wantErr string
	}{
		{
			name:    "missing title",
			mutate:  func(d *Document) { d.Meta.Title = "" },
			wantErr: "title",
		},
		{
			name:    "short USP",
			mutate:  func(d *Document) { d.Meta.UniqueSellingPoint = "fun game" },
			wantErr: "unique selling point",
		},
		{
			name:    "too few systems",
			mutate:  func(d *Document) { d.Systems = d.Systems[:2] },
			wantErr: "systems",
		},
		{
			name:    "too few milestones",
			mutate:  func(d *Document) { d.Progression.Milestones = d.Progression.Milestones[:4] },
			wantErr: "milestones",
		},
		{
			name:    "no primary actions",
			mutate:  func(d *Document) { d.CoreLoop.PrimaryActions = nil },
			wantErr: "primary action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Fallback("schema violation fixture")
			tt.mutate(doc)
			raw, err := doc.ToJSON()
			require.NoError(t, err)

			_, err = ParseDocument(raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
