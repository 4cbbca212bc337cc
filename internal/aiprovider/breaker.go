package aiprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerHook is invoked on every circuit state transition, wired by main
// to a Prometheus gauge.
type BreakerHook func(providerName string, from, to gobreaker.State)

// WithBreaker wraps p so a provider that is failing fast trips its circuit
// and returns immediately instead of waiting out a timeout on every call,
// letting Auto skip straight to the next provider or the deterministic
// fallback.
func WithBreaker(p Provider, onStateChange BreakerHook) Provider {
	settings := gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	if onStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			onStateChange(name, from, to)
		}
	}
	return &breakerProvider{inner: p, cb: gobreaker.NewCircuitBreaker(settings)}
}

type breakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

func (b *breakerProvider) Name() string { return b.inner.Name() }

func (b *breakerProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, systemPrompt, userPrompt)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", b.inner.Name(), err)
	}
	return result.(string), nil
}
