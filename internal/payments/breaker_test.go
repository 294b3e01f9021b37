package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v76"
)

type fakeProcessor struct {
	calls int
	err   error
}

func (f *fakeProcessor) CreateIntent(ctx context.Context, p IntentParams) (Intent, error) {
	f.calls++
	if f.err != nil {
		return Intent{}, f.err
	}
	return Intent{ID: "pi_1", ClientSecret: "pi_1_secret", Amount: p.Amount}, nil
}

func newTestBreaker(inner Processor) (*Breaker, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(inner, BreakerConfig{FailureThreshold: 2, Cooldown: time.Minute})
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreaker_OpensAfterThresholdAndFailsFast(t *testing.T) {
	inner := &fakeProcessor{err: errors.New("connection reset")}
	b, _ := newTestBreaker(inner)

	for i := 0; i < 2; i++ {
		if _, err := b.CreateIntent(context.Background(), IntentParams{Amount: 100}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	_, err := b.CreateIntent(context.Background(), IntentParams{Amount: 100})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected inner called 2 times, got %d", inner.calls)
	}
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	inner := &fakeProcessor{err: errors.New("timeout")}
	b, now := newTestBreaker(inner)

	_, _ = b.CreateIntent(context.Background(), IntentParams{Amount: 100})
	_, _ = b.CreateIntent(context.Background(), IntentParams{Amount: 100})

	*now = now.Add(2 * time.Minute)
	inner.err = nil

	intent, err := b.CreateIntent(context.Background(), IntentParams{Amount: 100})
	if err != nil {
		t.Fatalf("expected trial call to pass, got %v", err)
	}
	if intent.ClientSecret == "" {
		t.Fatalf("expected client secret")
	}
	if b.state != stateClosed {
		t.Fatalf("expected closed after successful trial, got %s", b.state)
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	inner := &fakeProcessor{err: errors.New("timeout")}
	b, now := newTestBreaker(inner)

	_, _ = b.CreateIntent(context.Background(), IntentParams{Amount: 100})
	_, _ = b.CreateIntent(context.Background(), IntentParams{Amount: 100})

	*now = now.Add(2 * time.Minute)

	if _, err := b.CreateIntent(context.Background(), IntentParams{Amount: 100}); errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("trial call should reach the processor")
	}
	if b.state != stateOpen {
		t.Fatalf("expected open after failed trial, got %s", b.state)
	}
}

func TestBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "amount too small", err: ErrAmountTooSmall},
		{name: "not configured", err: ErrNotConfigured},
		{name: "card declined", err: &stripe.Error{HTTPStatusCode: 402, Code: stripe.ErrorCodeCardDeclined}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &fakeProcessor{err: tt.err}
			b, _ := newTestBreaker(inner)

			for i := 0; i < 5; i++ {
				_, err := b.CreateIntent(context.Background(), IntentParams{Amount: 100})
				if errors.Is(err, ErrCircuitOpen) {
					t.Fatalf("circuit opened on a client error")
				}
			}
			if inner.calls != 5 {
				t.Fatalf("expected 5 inner calls, got %d", inner.calls)
			}
		})
	}
}

func TestNewProcessor_WithoutKeyIsDisabled(t *testing.T) {
	p := NewProcessor("  ", "usd")

	_, err := p.CreateIntent(context.Background(), IntentParams{Amount: 500})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestStripe_RejectsAmountBelowMinimumWithoutCalling(t *testing.T) {
	// nil api: reaching the client would panic
	s := &Stripe{currency: "usd"}

	_, err := s.CreateIntent(context.Background(), IntentParams{Amount: 10})
	if !errors.Is(err, ErrAmountTooSmall) {
		t.Fatalf("expected ErrAmountTooSmall, got %v", err)
	}
}
