// Package retry runs a single remote invocation with bounded, class-specific
// backoff.
//
// Failures are sorted into three classes. Rate-limited responses (HTTP 429)
// back off exponentially, transient server errors (500, 502, 503) back off
// linearly and everything else fails on the spot. Attempts never overlap.
package retry

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/relay"
	"go.uber.org/zap"
)

// DefaultMaxAttempts is the number of attempts made when none is configured.
const DefaultMaxAttempts = 3

const (
	rateLimitBase = 1000 * time.Millisecond
	rateLimitCap  = 10000 * time.Millisecond
	transientStep = 2000 * time.Millisecond
)

// Class is the retry category of a failed attempt.
type Class int

const (
	ClassFatal Class = iota
	ClassRateLimited
	ClassTransient
)

// String returns a short lowercase name for the class.
func (c Class) String() string {
	switch c {
	case ClassRateLimited:
		return "rate_limited"
	case ClassTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// Classify returns the retry class of err based on the HTTP status it carries.
func Classify(err error) Class {
	switch relay.StatusCode(err) {
	case http.StatusTooManyRequests:
		return ClassRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return ClassTransient
	default:
		return ClassFatal
	}
}

// Delay returns how long to wait after the given 1-based attempt failed with
// class c. The second result is false when c must not be retried.
func Delay(c Class, attempt int) (time.Duration, bool) {
	switch c {
	case ClassRateLimited:
		d := rateLimitCap
		if attempt < 5 {
			d = min(rateLimitBase<<(attempt-1), rateLimitCap)
		}
		return d, true
	case ClassTransient:
		return transientStep * time.Duration(attempt), true
	default:
		return 0, false
	}
}

// Attempt describes a failed attempt that is about to be retried.
type Attempt struct {
	Number int
	Class  Class
	Delay  time.Duration
	Err    error
}

// Executor runs invocations with retries. The zero value is usable and makes
// DefaultMaxAttempts attempts.
type Executor struct {
	// MaxAttempts bounds the number of attempts; <= 0 means DefaultMaxAttempts.
	MaxAttempts int

	// Sleep waits between attempts. Defaults to [Sleep].
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry, if set, is called before each backoff wait.
	OnRetry func(Attempt)

	// Logger receives attempt diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Option configures an [Executor].
type Option func(*Executor)

// WithMaxAttempts sets the attempt limit.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) { e.MaxAttempts = n }
}

// WithSleep overrides the wait between attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) { e.Sleep = fn }
}

// WithOnRetry registers a hook called before each backoff wait.
func WithOnRetry(fn func(Attempt)) Option {
	return func(e *Executor) { e.OnRetry = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) { e.Logger = l }
}

// New creates an Executor with the given options.
func New(opts ...Option) *Executor {
	e := &Executor{
		MaxAttempts: DefaultMaxAttempts,
		Sleep:       Sleep,
		Logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Execute calls invoke until it succeeds, fails with a non-retryable error or
// the attempt limit is reached. The last error is returned as is. A done
// context during a backoff wait ends the loop with the context error.
func (e *Executor) Execute(ctx context.Context, invoke relay.Invoke) (*relay.Response, error) {
	maxAttempts := e.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	sleep := e.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := invoke(ctx)
		if err == nil {
			if attempt > 1 {
				log.Debug("retry succeeded", zap.Int("attempt", attempt))
			}
			return resp, nil
		}
		lastErr = err

		class := Classify(err)
		delay, retryable := Delay(class, attempt)
		if !retryable || attempt == maxAttempts {
			log.Warn("attempt failed",
				zap.Int("attempt", attempt),
				zap.Stringer("class", class),
				zap.Error(err))
			break
		}

		log.Debug("attempt failed, backing off",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Stringer("class", class),
			zap.Duration("delay", delay),
			zap.Error(err))
		if e.OnRetry != nil {
			e.OnRetry(Attempt{Number: attempt, Class: class, Delay: delay, Err: err})
		}
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
