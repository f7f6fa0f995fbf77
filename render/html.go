package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/hupe1980/gddforge/gdd"
)

// htmlPage is the self-contained report template. Styling is inlined so the
// output is a single shareable file.
const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Meta.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f5f6f8; color: #24292f; }
  .wrap { max-width: 960px; margin: 0 auto; padding: 2rem; }
  header { background: #1f2937; color: #fff; padding: 2rem; border-radius: 8px; margin-bottom: 2rem; }
  header h1 { margin: 0 0 .5rem; }
  header p { margin: 0; opacity: .85; }
  section { background: #fff; border-radius: 8px; padding: 1.5rem; margin-bottom: 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  h2 { border-bottom: 2px solid #e5e7eb; padding-bottom: .4rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: .5rem .75rem; border-bottom: 1px solid #e5e7eb; }
  .tag { display: inline-block; background: #eef2ff; color: #3730a3; border-radius: 999px; padding: .15rem .7rem; margin: 0 .25rem .25rem 0; font-size: .85rem; }
  footer { text-align: center; color: #6b7280; font-size: .85rem; padding: 1rem 0 2rem; }
</style>
</head>
<body>
<div class="wrap">
<header>
  <h1>{{.Meta.Title}}</h1>
  <p>{{.Meta.UniqueSellingPoint}}</p>
</header>

<section>
  <h2>Overview</h2>
  <p>{{range .Meta.Genres}}<span class="tag">{{.}}</span>{{end}}</p>
  <p>{{range .Meta.TargetPlatforms}}<span class="tag">{{.}}</span>{{end}}</p>
  <p><strong>Audience:</strong> {{.Meta.TargetAudience}}</p>
  {{if .Meta.EstimatedDevTimeWeeks}}<p><strong>Estimated dev time:</strong> {{.Meta.EstimatedDevTimeWeeks}} weeks</p>{{end}}
</section>

<section>
  <h2>Core Loop</h2>
  <p><strong>Actions:</strong> {{join .CoreLoop.PrimaryActions ", "}}</p>
  <p>{{.CoreLoop.LoopDescription}}</p>
  <p><strong>Challenge:</strong> {{.CoreLoop.ChallengeDescription}}</p>
  <p><strong>Reward:</strong> {{.CoreLoop.RewardDescription}}</p>
</section>

<section>
  <h2>Game Systems</h2>
  {{range .Systems}}
  <h3>{{.Name}} <small>({{.Type}})</small></h3>
  <p>{{.Description}}</p>
  {{if .Mechanics}}<p>{{range .Mechanics}}<span class="tag">{{.}}</span>{{end}}</p>{{end}}
  {{end}}
</section>

<section>
  <h2>Progression ({{.Progression.Type}})</h2>
  {{if .Progression.DifficultyCurve}}<p>{{.Progression.DifficultyCurve}}</p>{{end}}
  <table>
    <tr><th>Milestone</th><th>Description</th><th>Unlock</th></tr>
    {{range .Progression.Milestones}}
    <tr><td>{{.Name}}</td><td>{{.Description}}</td><td>{{.UnlockCondition}}</td></tr>
    {{end}}
  </table>
</section>

<section>
  <h2>Narrative</h2>
  <p><strong>Setting:</strong> {{.Narrative.Setting}}</p>
  <p>{{.Narrative.StoryPremise}}</p>
  {{if .Narrative.Themes}}<p>{{range .Narrative.Themes}}<span class="tag">{{.}}</span>{{end}}</p>{{end}}
</section>

<section>
  <h2>Technical</h2>
  <p><strong>Engine:</strong> {{.Technical.RecommendedEngine}}</p>
  <p><strong>Art style:</strong> {{.Technical.ArtStyle}}</p>
  {{if .Technical.KeyTechnologies}}<p>{{range .Technical.KeyTechnologies}}<span class="tag">{{.}}</span>{{end}}</p>{{end}}
</section>

{{if .Risks}}
<section>
  <h2>Risks</h2>
  <table>
    <tr><th>Risk</th><th>Likelihood</th><th>Impact</th><th>Mitigation</th></tr>
    {{range .Risks}}
    <tr><td>{{.Description}}</td><td>{{.Likelihood}}</td><td>{{.Impact}}</td><td>{{.Mitigation}}</td></tr>
    {{end}}
  </table>
</section>
{{end}}

{{if .AdditionalNotes}}
<section>
  <h2>Notes</h2>
  <p>{{.AdditionalNotes}}</p>
</section>
{{end}}

<footer>Schema {{.SchemaVersion}} · generated {{.GeneratedAt}}</footer>
</div>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("gdd").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(htmlPage))

// HTML renders the document as a standalone HTML page. Content is escaped by
// html/template, so model-produced text cannot inject markup.
func HTML(doc *gdd.Document) (string, error) {
	var b strings.Builder
	if err := htmlTmpl.Execute(&b, doc); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return b.String(), nil
}
