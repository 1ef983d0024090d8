package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/club-games-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	defaultMaxBackoff    = 2 * time.Second
)

// RetryPolicy bounds how the retrying decorator treats failing upstream calls.
// Every EventAPI method, reference loads included, goes through the same policy.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultRetryAttempts
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = defaultBackoff
	}
	if p.MaxInterval < p.InitialInterval {
		p.MaxInterval = defaultMaxBackoff
		if p.MaxInterval < p.InitialInterval {
			p.MaxInterval = p.InitialInterval
		}
	}
	return p
}

// retryingAPI wraps an EventAPI with retry/backoff behavior and provider metrics.
type retryingAPI struct {
	inner        EventAPI
	logger       *slog.Logger
	recorder     *metrics.Recorder
	providerName string
	policy       RetryPolicy
	newBackOff   func() backoff.BackOff
}

// NewRetrying wraps the given API with retries. Zero policy fields fall back to defaults.
func NewRetrying(inner EventAPI, logger *slog.Logger, recorder *metrics.Recorder, name string, policy RetryPolicy) EventAPI {
	if name == "" {
		name = "provider"
	}
	r := &retryingAPI{
		inner:        inner,
		logger:       logger,
		recorder:     recorder,
		providerName: name,
		policy:       policy.withDefaults(),
	}
	r.newBackOff = r.exponential
	return r
}

func (r *retryingAPI) exponential() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (r *retryingAPI) FetchEvents(ctx context.Context, q EventQuery) ([]RawEvent, error) {
	return retryCall(ctx, r, "get-events", func(ctx context.Context) ([]RawEvent, error) {
		return r.inner.FetchEvents(ctx, q)
	})
}

func (r *retryingAPI) FetchEventByID(ctx context.Context, id string) (RawEvent, error) {
	return retryCall(ctx, r, "get-event", func(ctx context.Context) (RawEvent, error) {
		return r.inner.FetchEventByID(ctx, id)
	})
}

func (r *retryingAPI) FetchTeams(ctx context.Context) ([]RawEntity, error) {
	return retryCall(ctx, r, "get-team", r.inner.FetchTeams)
}

func (r *retryingAPI) FetchLeagues(ctx context.Context) ([]RawEntity, error) {
	return retryCall(ctx, r, "get-league", r.inner.FetchLeagues)
}

func (r *retryingAPI) FetchSeasons(ctx context.Context) ([]RawEntity, error) {
	return retryCall(ctx, r, "get-season", r.inner.FetchSeasons)
}

func (r *retryingAPI) FetchVenues(ctx context.Context) ([]RawEntity, error) {
	return retryCall(ctx, r, "get-venue", r.inner.FetchVenues)
}

func retryCall[T any](ctx context.Context, r *retryingAPI, op string, fn func(context.Context) (T, error)) (T, error) {
	if r.inner == nil {
		var zero T
		return zero, ErrProviderUnavailable
	}

	hinted := &retryAfterBackOff{BackOff: r.newBackOff()}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(hinted, uint64(r.policy.MaxAttempts-1)),
		ctx,
	)

	attempt := 0
	operation := func() (T, error) {
		attempt++
		start := time.Now()
		v, err := fn(ctx)
		r.recorder.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return v, nil
		}
		if rlErr, ok := AsRateLimitError(err); ok {
			r.recorder.RecordRateLimit(r.providerName, rlErr.RetryAfter)
			hinted.hint = rlErr.RetryAfter
		}
		if !Retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	notify := func(err error, delay time.Duration) {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch retry",
			"op", op,
			"attempt", attempt,
			"max_attempts", r.policy.MaxAttempts,
			"delay_ms", delay.Milliseconds(),
			"err", err,
		)
	}

	v, err := backoff.RetryNotifyWithData(operation, policy, notify)
	if err != nil {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch failed",
			"op", op,
			"attempts", attempt,
			"err", err,
		)
	}
	return v, err
}

// Retryable reports whether another attempt at the same call could succeed.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrProviderUnavailable):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}

// retryAfterBackOff prefers an upstream Retry-After hint over the wrapped schedule.
type retryAfterBackOff struct {
	backoff.BackOff
	hint time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.hint > 0 {
		next = b.hint
		b.hint = 0
	}
	return next
}
