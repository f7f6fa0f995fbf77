package orchestrator

import (
	"context"
	"errors"

	"github.com/hupe1980/gddforge/gdd"
	"github.com/hupe1980/gddforge/model"
	"github.com/hupe1980/gddforge/prompt"
	"github.com/hupe1980/gddforge/retry"
)

// actorOutcome pairs a produced document with the response that carried it.
// degraded marks documents synthesized by the fallback builder.
type actorOutcome struct {
	doc      *gdd.Document
	resp     *model.Response
	degraded bool
}

// invokeActor runs one Actor call under the retry policy. Timeouts, backend
// errors and unparseable output are all retryable: a different generation
// attempt may succeed. After exhaustion it never fails the caller; it
// synthesizes a fallback document from the original request instead. The only
// errors returned are session cancellation and non-retryable defects.
func (o *Orchestrator) invokeActor(ctx context.Context, message, originalPrompt string) (actorOutcome, error) {
	out, err := retry.Do(ctx, o.cfg.retryPolicy(), func(ctx context.Context) (actorOutcome, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.ActorTimeout)
		defer cancel()

		resp, err := o.model.Generate(attemptCtx, model.Request{
			SystemPrompt: prompt.DesignerSystem,
			UserPrompt:   message,
			Temperature:  o.cfg.ActorTemperature,
			MaxTokens:    o.cfg.MaxTokens,
		})
		if err != nil {
			if ctx.Err() != nil {
				// The session itself ended; abandon instead of retrying.
				return actorOutcome{}, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				o.logger.Warn("actor attempt timed out", "timeout", o.cfg.ActorTimeout)
				return actorOutcome{}, retry.Wrap(retry.KindTimeout, err)
			}
			o.logger.Warn("actor backend error", "error", err)
			return actorOutcome{}, retry.Wrap(retry.KindNetwork, err)
		}

		doc, perr := gdd.ParseDocument(resp.Content)
		if perr != nil {
			o.logger.Warn("actor produced unparseable document", "error", perr)
			return actorOutcome{}, retry.Wrap(retry.KindParse, perr)
		}
		return actorOutcome{doc: doc, resp: resp}, nil
	})
	if err == nil {
		return out, nil
	}
	if !retry.IsRetryable(err) {
		return actorOutcome{}, err
	}

	o.logger.Warn("actor failed after all attempts, using fallback document",
		"attempts", o.cfg.MaxRetries, "error", err)

	return actorOutcome{
		doc:      gdd.Fallback(originalPrompt),
		resp:     degradedResponse(),
		degraded: true,
	}, nil
}

// degradedResponse is the zero-usage metadata record attached to fallback
// output so token accounting stays consistent.
func degradedResponse() *model.Response {
	return &model.Response{
		Content:      "{}",
		Model:        "fallback",
		FinishReason: "degraded",
	}
}
