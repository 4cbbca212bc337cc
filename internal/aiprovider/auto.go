package aiprovider

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
)

// Auto tries each configured hosted provider in order, moving to the next
// the instant one's circuit is open or its call fails — never waiting out
// a timeout per candidate.
type Auto struct {
	candidates []Provider
}

// NewAuto builds a fallback chain over candidates, in priority order.
func NewAuto(candidates ...Provider) *Auto {
	return &Auto{candidates: candidates}
}

func (a *Auto) Name() string { return "auto" }

func (a *Auto) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error
	for _, c := range a.candidates {
		reply, err := c.Generate(ctx, systemPrompt, userPrompt)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			continue
		}
	}
	if lastErr == nil {
		lastErr = errors.New("auto: no candidate providers configured")
	}
	return "", lastErr
}
