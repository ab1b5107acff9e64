package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var ErrOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to the remote library service. After
// maxFailures consecutive failures it opens and rejects calls until the
// cooldown passes, then lets a single probe through.
type CircuitBreaker struct {
	maxFailures int
	cooldown    time.Duration

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

func New(maxFailures int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		state:       StateClosed,
	}
}

// Execute runs fn unless the breaker is open. When open and a fallback is
// given, the fallback runs instead; otherwise ErrOpen is returned. A probe
// failure in the half-open state re-opens the breaker immediately.
func (cb *CircuitBreaker) Execute(fn func() error, fallback func() error) error {
	cb.mu.Lock()
	if cb.state == StateOpen {
		if time.Since(cb.openedAt) < cb.cooldown {
			cb.mu.Unlock()
			if fallback != nil {
				return fallback()
			}
			return ErrOpen
		}
		cb.state = StateHalfOpen
	}
	state := cb.state
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		if state == StateHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = StateOpen
			cb.openedAt = time.Now()
		}
		return err
	}

	cb.state = StateClosed
	cb.failures = 0
	return nil
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
