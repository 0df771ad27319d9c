package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rosterlab/rosterize/model"
)

// RetryPolicy bounds how hard the adapter leans on a flaky engine.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first call.
	MaxRetries int

	// InitialDelay is the first backoff delay.
	InitialDelay time.Duration

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration

	// BackoffFactor is the exponential growth factor.
	BackoffFactor float64

	// CallTimeout is the hard per-call budget. A stuck engine call never
	// costs more than this.
	CallTimeout time.Duration
}

// DefaultRetryPolicy returns sensible default configuration.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		CallTimeout:   60 * time.Second,
	}
}

// Retrier wraps an Engine with bounded exponential backoff and a hard
// per-call timeout. On exhaustion it returns ErrEngineUnavailable;
// callers mark the page ocr-incomplete and move on.
type Retrier struct {
	engine Engine
	policy RetryPolicy
	log    *zap.Logger
}

// NewRetrier creates a retrying adapter around engine. A nil logger
// disables retry logging.
func NewRetrier(engine Engine, policy RetryPolicy, log *zap.Logger) *Retrier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Retrier{engine: engine, policy: policy, log: log}
}

// Recognize calls the wrapped engine, retrying transient failures with
// exponential backoff. Permanent failures (OCR not compiled in,
// cancelled context) are returned immediately.
func (r *Retrier) Recognize(ctx context.Context, image []byte) ([]model.Token, error) {
	delay := r.policy.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			r.log.Warn("retrying OCR call",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Error(lastErr))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}

			delay = time.Duration(float64(delay) * r.policy.BackoffFactor)
			if delay > r.policy.MaxDelay {
				delay = r.policy.MaxDelay
			}
		}

		tokens, err := r.callOnce(ctx, image)
		if err == nil {
			return tokens, nil
		}
		if isPermanent(ctx, err) {
			return nil, err
		}
		lastErr = err
	}

	r.log.Error("OCR engine exhausted retries", zap.Error(lastErr))
	return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, lastErr)
}

// callOnce runs a single engine call under the hard timeout. The engine
// call runs in its own goroutine because native OCR calls cannot be
// interrupted; a timed-out call is abandoned, not cancelled.
func (r *Retrier) callOnce(ctx context.Context, image []byte) ([]model.Token, error) {
	callCtx := ctx
	cancel := func() {}
	if r.policy.CallTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, r.policy.CallTimeout)
	}
	defer cancel()

	type result struct {
		tokens []model.Token
		err    error
	}
	ch := make(chan result, 1)

	go func() {
		tokens, err := r.engine.Recognize(callCtx, image)
		ch <- result{tokens: tokens, err: err}
	}()

	select {
	case <-callCtx.Done():
		return nil, callCtx.Err()
	case res := <-ch:
		return res.tokens, res.err
	}
}

// isPermanent reports errors that retrying cannot fix: OCR support
// missing, or the caller's own context ending.
func isPermanent(ctx context.Context, err error) bool {
	if errors.Is(err, ErrNotEnabled) {
		return true
	}
	if ctx.Err() != nil {
		return true
	}
	return false
}
