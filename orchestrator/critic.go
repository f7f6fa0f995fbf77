package orchestrator

import (
	"context"
	"errors"

	"github.com/hupe1980/gddforge/model"
	"github.com/hupe1980/gddforge/prompt"
	"github.com/hupe1980/gddforge/retry"
	"github.com/hupe1980/gddforge/review"
)

// criticOutcome pairs a feedback verdict with the response that carried it.
type criticOutcome struct {
	fb       *review.Feedback
	resp     *model.Response
	degraded bool
}

// invokeCritic runs one Critic call under the retry policy. A feedback that
// decodes but violates the decision-consistency rules is a defect in the
// reviewing step's output and is retried like a parse failure. After
// exhaustion the pipeline must not deadlock: the critic auto-approves with an
// explanatory note rather than blocking the session.
func (o *Orchestrator) invokeCritic(ctx context.Context, message string) (criticOutcome, error) {
	out, err := retry.Do(ctx, o.cfg.retryPolicy(), func(ctx context.Context) (criticOutcome, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.CriticTimeout)
		defer cancel()

		resp, err := o.model.Generate(attemptCtx, model.Request{
			SystemPrompt: prompt.ReviewerSystem,
			UserPrompt:   message,
			Temperature:  o.cfg.CriticTemperature,
			MaxTokens:    o.cfg.MaxTokens / 2, // review needs less room than generation
		})
		if err != nil {
			if ctx.Err() != nil {
				return criticOutcome{}, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				o.logger.Warn("critic attempt timed out", "timeout", o.cfg.CriticTimeout)
				return criticOutcome{}, retry.Wrap(retry.KindTimeout, err)
			}
			o.logger.Warn("critic backend error", "error", err)
			return criticOutcome{}, retry.Wrap(retry.KindNetwork, err)
		}

		fb, perr := review.Decode(resp.Content)
		if perr != nil {
			o.logger.Warn("critic produced unparseable feedback", "error", perr)
			return criticOutcome{}, retry.Wrap(retry.KindParse, perr)
		}
		if verr := fb.Validate(); verr != nil {
			o.logger.Warn("critic feedback violates consistency rules", "error", verr)
			return criticOutcome{}, retry.Wrap(retry.KindConsistency, verr)
		}
		return criticOutcome{fb: fb, resp: resp}, nil
	})
	if err == nil {
		return out, nil
	}
	if !retry.IsRetryable(err) {
		return criticOutcome{}, err
	}

	o.logger.Warn("critic failed after all attempts, auto-approving",
		"attempts", o.cfg.MaxRetries, "error", err)

	return criticOutcome{
		fb:       review.AutoApprove("Auto-approved: review skipped after repeated critic failures. Manual review recommended."),
		resp:     degradedResponse(),
		degraded: true,
	}, nil
}
