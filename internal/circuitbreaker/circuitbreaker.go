// Package circuitbreaker wraps sony/gobreaker with typed results and
// defaults tuned for RPC call paths.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fd1az/escrow-desk/internal/apperror"
)

// Config holds circuit breaker settings.
type Config struct {
	Name        string
	MaxRequests uint32        // requests allowed through while half-open
	Interval    time.Duration // closed-state counter reset interval
	Timeout     time.Duration // open-state duration before half-open
	MaxFailures uint32        // consecutive failures that trip the breaker
}

// DefaultConfig returns settings suitable for blockchain RPC calls.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		MaxFailures: 5,
	}
}

// CircuitBreaker guards a call path returning T.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a circuit breaker from the given config.
func New[T any](cfg Config) *CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
	}
	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn through the breaker. When the breaker is open the
// call is rejected immediately with CodeCircuitOpen.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	v, err := c.cb.Execute(fn)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		var zero T
		return zero, apperror.New(apperror.CodeCircuitOpen,
			apperror.WithContext(c.cb.Name()),
			apperror.WithCause(err))
	}
	return v, err
}

// State returns the breaker state name for logging.
func (c *CircuitBreaker[T]) State() string {
	return c.cb.State().String()
}
