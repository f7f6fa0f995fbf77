package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gddforge/gdd"
	"github.com/hupe1980/gddforge/model"
	"github.com/hupe1980/gddforge/review"
)

// fastConfig disables backoff sleeps and shrinks timeouts so failure paths
// stay fast.
func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.ActorTimeout = time.Second
	cfg.CriticTimeout = time.Second
	cfg.BackoffUnit = 0
	return cfg
}

func docJSON(t *testing.T, title string) string {
	t.Helper()
	doc := gdd.Fallback("a deck-building dungeon crawler about sentient recipes")
	doc.Meta.Title = title
	s, err := doc.ToJSON()
	require.NoError(t, err)
	return s
}

func feedbackJSON(t *testing.T, fb review.Feedback) string {
	t.Helper()
	b, err := json.Marshal(fb)
	require.NoError(t, err)
	return string(b)
}

func approveFB(t *testing.T) string {
	return feedbackJSON(t, review.Feedback{
		Decision:          review.DecisionApprove,
		FeasibilityScore:  8,
		CoherenceScore:    8,
		FunFactorScore:    7,
		CompletenessScore: 7,
		OriginalityScore:  6,
		Notes:             "Looks good.",
	})
}

func reviseFB(t *testing.T) string {
	return feedbackJSON(t, review.Feedback{
		Decision: review.DecisionRevise,
		Issues: []review.Issue{{
			Section:      "core_loop",
			Description:  "Loop lacks a fail state",
			Severity:     review.SeverityMajor,
			SuggestedFix: "Add a lose condition per run",
		}},
		FeasibilityScore:  6,
		CoherenceScore:    6,
		FunFactorScore:    5,
		CompletenessScore: 4,
		OriginalityScore:  7,
	})
}

func TestExecute_ApprovedFirstIteration(t *testing.T) {
	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "First Try")).
		EnqueueResponse(approveFB(t))

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(context.Background(), "a game about first tries")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, ReasonApproved, res.Reason)
	assert.Equal(t, 1, res.TotalIterations)
	assert.False(t, res.Degraded)
	assert.Equal(t, "First Try", res.FinalDocument.Meta.Title)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "a game about first tries", res.Prompt)

	require.Len(t, res.History, 1)
	assert.Equal(t, 0, res.History[0].Index)
	assert.True(t, res.History[0].Feedback.Approved())

	// One actor call, one critic call.
	assert.Equal(t, 2, m.CallCount())
}

func TestExecute_ReviseThenApprove(t *testing.T) {
	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Draft One")).
		EnqueueResponse(reviseFB(t)).
		EnqueueResponse(docJSON(t, "Draft Two")).
		EnqueueResponse(approveFB(t))

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(context.Background(), "a game that needs one revision")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, ReasonApproved, res.Reason)
	assert.Equal(t, 2, res.TotalIterations)
	assert.Equal(t, "Draft Two", res.FinalDocument.Meta.Title)

	require.Len(t, res.History, 2)
	assert.Equal(t, "Draft One", res.History[0].Document.Meta.Title)
	assert.Equal(t, review.DecisionRevise, res.History[0].Feedback.Decision)
	assert.Equal(t, "Draft Two", res.History[1].Document.Meta.Title)
	assert.True(t, res.History[1].Feedback.Approved())
}

func TestExecute_RevisionPromptCarriesOnlyLatestState(t *testing.T) {
	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Gen One")).
		EnqueueResponse(reviseFB(t)).
		EnqueueResponse(docJSON(t, "Gen Two")).
		EnqueueResponse(reviseFB(t)).
		EnqueueResponse(docJSON(t, "Gen Three")).
		EnqueueResponse(approveFB(t))

	o := New(m, WithConfig(fastConfig()))
	_, err := o.Execute(context.Background(), "state replacement check")
	require.NoError(t, err)

	calls := m.Calls()
	require.Len(t, calls, 6)

	// Second revision prompt (call index 4) carries the latest draft and the
	// latest feedback, but none of the first draft.
	rev := calls[4].UserPrompt
	assert.Contains(t, rev, "PREVIOUS GDD DRAFT")
	assert.Contains(t, rev, "Gen Two")
	assert.NotContains(t, rev, "Gen One")
	assert.Contains(t, rev, "CRITIC DECISION: REVISE")
	assert.Contains(t, rev, "Loop lacks a fail state")
}

func TestExecute_MaxIterationsExhausted(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxIterations = 2

	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Stubborn Draft")).
		EnqueueResponse(reviseFB(t)).
		EnqueueResponse(docJSON(t, "Still Not Good Enough")).
		EnqueueResponse(reviseFB(t))

	o := New(m, WithConfig(cfg))
	res, err := o.Execute(context.Background(), "a game the critic never likes")

	require.NoError(t, err)
	assert.False(t, res.Success, "exhausting the cap is not success")
	assert.Equal(t, ReasonMaxIterations, res.Reason)
	assert.Equal(t, 2, res.TotalIterations)
	assert.Equal(t, "Still Not Good Enough", res.FinalDocument.Meta.Title, "best-effort document is still returned")
	assert.Len(t, res.History, 2)

	// No extra actor call after the final verdict.
	assert.Equal(t, 4, m.CallCount())
}

func TestExecute_ActorFallbackAfterRepeatedParseFailures(t *testing.T) {
	m := model.NewMockModel("m").
		EnqueueResponse("I cannot produce JSON today").
		EnqueueResponse("still prose").
		EnqueueResponse("{\"meta\": truncated").
		EnqueueResponse(approveFB(t))

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(context.Background(), "a game about resilience")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Degraded)
	assert.Equal(t, ReasonApproved, res.Reason)
	assert.Contains(t, res.FinalDocument.Meta.Title, "(Fallback)")
	require.NoError(t, res.FinalDocument.Validate(), "fallback must be schema-valid")

	// Three failed actor attempts plus the critic call.
	assert.Equal(t, 4, m.CallCount())
}

func TestExecute_CriticAutoApproveAfterRepeatedFailures(t *testing.T) {
	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Unreviewed Gem")).
		EnqueueResponse("no json here").
		EnqueueResponse("still no json").
		EnqueueResponse("nope")

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(context.Background(), "a game nobody reviews")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Degraded)
	assert.Equal(t, ReasonApproved, res.Reason)
	assert.Equal(t, "Unreviewed Gem", res.FinalDocument.Meta.Title)

	fb := res.FinalFeedback()
	require.NotNil(t, fb)
	assert.True(t, fb.Approved())
	assert.Contains(t, fb.Notes, "Auto-approved")
}

func TestExecute_InconsistentFeedbackIsRetried(t *testing.T) {
	// Decodes fine but approve carries a critical issue, which must be
	// rejected and retried rather than acted on.
	inconsistent := feedbackJSON(t, review.Feedback{
		Decision: review.DecisionApprove,
		Issues: []review.Issue{{
			Section:     "systems",
			Description: "No combat system at all",
			Severity:    review.SeverityCritical,
		}},
		FeasibilityScore:  7,
		CoherenceScore:    7,
		FunFactorScore:    7,
		CompletenessScore: 7,
		OriginalityScore:  7,
	})

	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Consistency Check")).
		EnqueueResponse(inconsistent).
		EnqueueResponse(approveFB(t))

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(context.Background(), "a game with a picky pipeline")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Degraded, "a retry that succeeds is not degradation")
	assert.Equal(t, 3, m.CallCount())
}

func TestExecute_BackendDownForBothRoles(t *testing.T) {
	// Every call fails with a connection error: the actor falls back after
	// its attempts, the critic auto-approves after its own.
	m := model.NewMockModel("m")
	for i := 0; i < 6; i++ {
		m.EnqueueError(errors.New("connection refused"))
	}

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(context.Background(), "a game generated during an outage")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Degraded)
	assert.Equal(t, ReasonApproved, res.Reason)
	assert.Contains(t, res.FinalDocument.Meta.Title, "(Fallback)")
	require.NotNil(t, res.FinalFeedback())
	assert.Contains(t, res.FinalFeedback().Notes, "Auto-approved")
	assert.Equal(t, 6, m.CallCount())
}

func TestExecute_ActorHangBoundedByAttemptTimeout(t *testing.T) {
	cfg := fastConfig()
	cfg.ActorTimeout = 50 * time.Millisecond

	m := model.NewMockModel("m").
		EnqueueDelay(time.Hour, "never").
		EnqueueDelay(time.Hour, "never").
		EnqueueDelay(time.Hour, "never").
		EnqueueResponse(approveFB(t))

	o := New(m, WithConfig(cfg))
	start := time.Now()
	res, err := o.Execute(context.Background(), "a game from a hung backend")

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "hung attempts must be cut off, not waited out")
	assert.True(t, res.Success)
	assert.True(t, res.Degraded)
	assert.Contains(t, res.FinalDocument.Meta.Title, "(Fallback)")
}

func TestExecute_SessionTimeoutBeforeAnyDocument(t *testing.T) {
	m := model.NewMockModel("m").EnqueueDelay(time.Hour, "never")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(ctx, "a game that outlives its deadline")

	require.NoError(t, err, "timeout still yields a usable result")
	assert.False(t, res.Success)
	assert.True(t, res.Degraded)
	assert.Equal(t, ReasonTimeout, res.Reason)
	require.NotNil(t, res.FinalDocument)
	assert.Contains(t, res.FinalDocument.Meta.Title, "(Fallback)")
	assert.Empty(t, res.History)
}

func TestExecute_SessionTimeoutKeepsCurrentDocument(t *testing.T) {
	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Rescued Draft")).
		EnqueueDelay(time.Hour, "critic never answers")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(ctx, "a game interrupted mid-review")

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, ReasonTimeout, res.Reason)
	assert.Equal(t, "Rescued Draft", res.FinalDocument.Meta.Title)
	assert.False(t, res.Degraded, "an interrupted real draft is not a fallback")
}

func TestExecute_RolePromptsAndBudgets(t *testing.T) {
	cfg := fastConfig()
	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Budget Check")).
		EnqueueResponse(approveFB(t))

	o := New(m, WithConfig(cfg))
	_, err := o.Execute(context.Background(), "a game about budgets")
	require.NoError(t, err)

	calls := m.Calls()
	require.Len(t, calls, 2)

	actor, critic := calls[0], calls[1]
	assert.Equal(t, cfg.ActorTemperature, actor.Temperature)
	assert.Equal(t, cfg.MaxTokens, actor.MaxTokens)
	assert.Contains(t, actor.UserPrompt, "a game about budgets")

	assert.Equal(t, cfg.CriticTemperature, critic.Temperature)
	assert.Equal(t, cfg.MaxTokens/2, critic.MaxTokens)
	assert.Contains(t, critic.UserPrompt, "Budget Check")
	assert.Contains(t, critic.UserPrompt, "a game about budgets")
}

func TestExecute_TokenUsageAccumulates(t *testing.T) {
	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Counted")).
		EnqueueResponse(approveFB(t))

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(context.Background(), "a game about accounting")

	require.NoError(t, err)
	assert.Greater(t, res.Usage.Total(), 0)
	assert.Greater(t, res.Usage.InputTokens, 0)
	assert.Greater(t, res.Usage.OutputTokens, 0)
}

func TestExecute_IterationCapClampedToOne(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxIterations = 0

	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Single Pass")).
		EnqueueResponse(reviseFB(t))

	o := New(m, WithConfig(cfg))
	res, err := o.Execute(context.Background(), "a game with a broken config")

	require.NoError(t, err)
	assert.Equal(t, ReasonMaxIterations, res.Reason)
	assert.Equal(t, 1, res.TotalIterations, "review must run at least once")
	assert.Len(t, res.History, 1)
}

func TestExecute_RepeatedRunsAreIndependent(t *testing.T) {
	m := model.NewMockModel("m")
	o := New(m, WithConfig(fastConfig()))

	var runIDs []string
	for i := 0; i < 3; i++ {
		m.Reset()
		m.EnqueueResponse(docJSON(t, "Same Input")).EnqueueResponse(approveFB(t))

		res, err := o.Execute(context.Background(), "identical request")
		require.NoError(t, err)
		assert.Equal(t, "Same Input", res.FinalDocument.Meta.Title)
		assert.Equal(t, 1, res.TotalIterations)
		runIDs = append(runIDs, res.RunID)
	}

	// Same semantics every run, but distinct run identities.
	assert.Len(t, uniqueStrings(runIDs), 3)
}

func uniqueStrings(in []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// defectiveModel serves scripted calls from its inner MockModel until the
// healthy allotment runs out, then panics. Simulates a broken adapter rather
// than a failing backend.
type defectiveModel struct {
	inner   *model.MockModel
	healthy int
	calls   int
}

var _ model.Model = (*defectiveModel)(nil)

func (d *defectiveModel) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	d.calls++
	if d.calls > d.healthy {
		panic("adapter defect")
	}
	return d.inner.Generate(ctx, req)
}

func (d *defectiveModel) Info() model.Info { return d.inner.Info() }

func TestExecute_DefectAfterDocumentReturnsBestEffort(t *testing.T) {
	inner := model.NewMockModel("m").EnqueueResponse(docJSON(t, "Last Good Draft"))
	m := &defectiveModel{inner: inner, healthy: 1}

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(context.Background(), "a game undone by a defective critic")

	// The defect struck during review, after a draft existed. The last good
	// document comes back instead of the panic.
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, ReasonError, res.Reason)
	assert.Equal(t, "Last Good Draft", res.FinalDocument.Meta.Title)
	assert.NoError(t, res.FinalDocument.Validate())
}

func TestExecute_DefectBeforeAnyDocumentPanics(t *testing.T) {
	m := &defectiveModel{inner: model.NewMockModel("m"), healthy: 0}
	o := New(m, WithConfig(fastConfig()))

	// With no document to salvage there is nothing worth returning, so the
	// defect is not contained.
	assert.Panics(t, func() {
		_, _ = o.Execute(context.Background(), "a game that never starts")
	})
}

func TestExecute_SummaryMentionsOutcome(t *testing.T) {
	m := model.NewMockModel("m").
		EnqueueResponse(docJSON(t, "Summarized")).
		EnqueueResponse(approveFB(t))

	o := New(m, WithConfig(fastConfig()))
	res, err := o.Execute(context.Background(), "a summarizable game")
	require.NoError(t, err)

	s := res.Summary()
	assert.True(t, strings.Contains(s, "approved"), "summary should name the termination reason: %s", s)
	assert.Contains(t, s, "Summarized")
}
