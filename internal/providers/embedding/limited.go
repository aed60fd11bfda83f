package embedding

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// Limited throttles calls to the wrapped Gateway, bounds each call with a timeout and
// rejects empty or non-finite vectors.
type Limited struct {
	next    Gateway
	limiter *rate.Limiter
	timeout time.Duration
}

func WithLimits(next Gateway, rps float64, burst int, timeout time.Duration) *Limited {
	l := &Limited{next: next, timeout: timeout}
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		l.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return l
}

func (l *Limited) Model() string { return l.next.Model() }

func (l *Limited) Embed(ctx context.Context, text string) ([]float32, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}

	vec, err := l.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrMalformedResponse)
	}
	for _, v := range vec {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("%w: non-finite component", ErrMalformedResponse)
		}
	}
	return vec, nil
}
