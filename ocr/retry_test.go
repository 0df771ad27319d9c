package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rosterlab/rosterize/model"
)

// fastPolicy keeps test backoffs tiny.
func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		CallTimeout:   100 * time.Millisecond,
	}
}

func TestRetrier_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	engine := EngineFunc(func(ctx context.Context, image []byte) ([]model.Token, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("engine hiccup")
		}
		return []model.Token{{Text: "BELGIUM"}}, nil
	})

	r := NewRetrier(engine, fastPolicy(), nil)
	tokens, err := r.Recognize(context.Background(), []byte("img"))

	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(tokens) != 1 || tokens[0].Text != "BELGIUM" {
		t.Errorf("unexpected tokens: %+v", tokens)
	}
}

func TestRetrier_ExhaustionReturnsEngineUnavailable(t *testing.T) {
	calls := 0
	engine := EngineFunc(func(ctx context.Context, image []byte) ([]model.Token, error) {
		calls++
		return nil, errors.New("persistent failure")
	})

	r := NewRetrier(engine, fastPolicy(), nil)
	_, err := r.Recognize(context.Background(), []byte("img"))

	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
	if calls != 4 { // initial call + 3 retries
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestRetrier_NotEnabledIsNotRetried(t *testing.T) {
	calls := 0
	engine := EngineFunc(func(ctx context.Context, image []byte) ([]model.Token, error) {
		calls++
		return nil, ErrNotEnabled
	})

	r := NewRetrier(engine, fastPolicy(), nil)
	_, err := r.Recognize(context.Background(), []byte("img"))

	if !errors.Is(err, ErrNotEnabled) {
		t.Fatalf("expected ErrNotEnabled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetrier_StuckCallHitsHardTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	engine := EngineFunc(func(ctx context.Context, image []byte) ([]model.Token, error) {
		<-block // never returns during the test
		return nil, nil
	})

	policy := fastPolicy()
	policy.MaxRetries = 0
	policy.CallTimeout = 10 * time.Millisecond

	r := NewRetrier(engine, policy, nil)

	start := time.Now()
	_, err := r.Recognize(context.Background(), []byte("img"))
	elapsed := time.Since(start)

	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
	if elapsed > time.Second {
		t.Errorf("stuck call took %v, hard timeout did not fire", elapsed)
	}
}

func TestRetrier_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	engine := EngineFunc(func(ctx context.Context, image []byte) ([]model.Token, error) {
		calls++
		cancel()
		return nil, errors.New("failure after cancel")
	})

	r := NewRetrier(engine, fastPolicy(), nil)
	_, err := r.Recognize(ctx, []byte("img"))

	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
