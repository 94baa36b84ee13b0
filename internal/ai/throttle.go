package ai

import (
	"context"

	"golang.org/x/time/rate"
)

// throttled rate-limits calls to an underlying provider so the hosted
// service's throughput limits are respected.
type throttled struct {
	inner   Provider
	limiter *rate.Limiter
}

// Throttle wraps a provider with a requests-per-second limiter.
// A non-positive rps returns the provider unchanged.
func Throttle(p Provider, rps float64) Provider {
	if rps <= 0 {
		return p
	}
	return &throttled{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (t *throttled) Complete(ctx context.Context, req Request) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.inner.Complete(ctx, req)
}
