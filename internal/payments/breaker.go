package payments

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v76"
)

var ErrCircuitOpen = errors.New("payment processor circuit open")

type breakerState string

const (
	stateClosed   breakerState = "closed"
	stateOpen     breakerState = "open"
	stateHalfOpen breakerState = "half_open"
)

type BreakerConfig struct {
	Timeout          time.Duration // hard timeout per call
	FailureThreshold int           // consecutive failures to open circuit
	Cooldown         time.Duration // how long to stay open before half-open
	HalfOpenMaxCalls int           // allow N trial calls in half-open
}

// Breaker wraps a Processor with a per-call timeout and a circuit breaker.
// While open, calls fail with ErrCircuitOpen without reaching the processor.
type Breaker struct {
	inner Processor
	cfg   BreakerConfig
	now   func() time.Time

	mu                  sync.Mutex
	state               breakerState
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
}

func NewBreaker(inner Processor, cfg BreakerConfig) *Breaker {
	//defaults
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &Breaker{
		inner: inner,
		cfg:   cfg,
		now:   time.Now,
		state: stateClosed,
	}
}

func (b *Breaker) CreateIntent(ctx context.Context, p IntentParams) (Intent, error) {
	if !b.allowRequest() {
		return Intent{}, ErrCircuitOpen
	}

	callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	intent, err := b.inner.CreateIntent(callCtx, p)

	b.afterRequest(err)

	return intent, err
}

func (b *Breaker) allowRequest() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return false
		}
		b.state = stateHalfOpen
		b.halfOpenInFlight = 0
		fallthrough
	case stateHalfOpen:
		if b.halfOpenInFlight >= b.cfg.HalfOpenMaxCalls {
			return false
		}
		b.halfOpenInFlight++
		return true
	default:
		return true
	}
}

func (b *Breaker) afterRequest(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateHalfOpen && b.halfOpenInFlight > 0 {
		b.halfOpenInFlight--
	}

	if !countsAsFailure(err) {
		b.consecutiveFailures = 0
		b.state = stateClosed
		return
	}

	b.consecutiveFailures++

	if b.state == stateHalfOpen || b.consecutiveFailures >= b.cfg.FailureThreshold {
		b.state = stateOpen
		b.openedAt = b.now()
	}
}

// Declined cards and bad parameters are the caller's problem, not an outage.
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, ErrAmountTooSmall) || errors.Is(err, ErrNotConfigured) {
		return false
	}

	var se *stripe.Error
	if errors.As(err, &se) && se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500 && se.HTTPStatusCode != 429 {
		return false
	}

	return true
}
