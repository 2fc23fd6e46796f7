package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// ThrottledProvider wraps a Provider with a client-side request rate limit
// so batch runs stay under vendor quotas.
type ThrottledProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

var _ Provider = (*ThrottledProvider)(nil)

// Throttle wraps p with a requests-per-minute budget. rpm <= 0 disables
// throttling and returns p unchanged.
func Throttle(p Provider, rpm int) Provider {
	if rpm <= 0 {
		return p
	}
	return &ThrottledProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}
}

func (t *ThrottledProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.inner.GenerateResponse(ctx, prompt, systemPrompt, options)
}

func (t *ThrottledProvider) AdaptInstructions(raw string) string {
	return t.inner.AdaptInstructions(raw)
}
