package llm

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimitedProvider caps how many completions may start per minute.
// Up to rpm requests may burst after an idle minute; beyond that each
// request waits for its slot. Nothing is retried or dropped.
type RateLimitedProvider struct {
	provider Provider
	rpm      int
	interval time.Duration // time to earn one request slot
	now      func() time.Time

	mu        sync.Mutex
	available int
	earnedAt  time.Time
}

// NewRateLimitedProvider wraps provider so that at most rpm completions
// start per minute.
func NewRateLimitedProvider(provider Provider, rpm int) *RateLimitedProvider {
	r := &RateLimitedProvider{
		provider:  provider,
		rpm:       rpm,
		interval:  time.Minute / time.Duration(rpm),
		now:       time.Now,
		available: rpm,
	}
	r.earnedAt = r.now()
	return r
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

// Complete waits for a slot, then forwards the request. A context that ends
// while waiting yields a *ProviderError and the backend is never called.
func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	for {
		delay := r.reserve()
		if delay <= 0 {
			break
		}

		slog.Debug("llm: completion throttled", "provider", r.Name(), "rpm", r.rpm, "wait", delay)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &ProviderError{Provider: r.Name(), Err: ctx.Err()}
		case <-timer.C:
		}
	}
	return r.provider.Complete(ctx, req)
}

// reserve takes a slot and returns zero, or returns how long until the next
// slot is earned.
func (r *RateLimitedProvider) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if earned := int(now.Sub(r.earnedAt) / r.interval); earned > 0 {
		r.available += earned
		// Advance by whole slots only so partial progress carries over.
		r.earnedAt = r.earnedAt.Add(time.Duration(earned) * r.interval)
		if r.available >= r.rpm {
			r.available = r.rpm
			r.earnedAt = now
		}
	}

	if r.available > 0 {
		r.available--
		return 0
	}
	return r.earnedAt.Add(r.interval).Sub(now)
}
