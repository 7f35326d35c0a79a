package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testBreaker returns a breaker with a controllable clock
func testBreaker(maxFailures int, cooldown time.Duration) (*CircuitBreaker, *time.Time) {
	cb := NewCircuitBreaker(maxFailures, cooldown)
	current := time.Now()
	cb.now = func() time.Time { return current }
	return cb, &current
}

// TestBreakerOpensAfterConsecutiveFailures verifies the CLOSED -> OPEN
// transition at the failure threshold, and that a success resets the count.
func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := testBreaker(3, 30*time.Second)

	assert.Equal(t, StateClosed, cb.State("resolve-unit"))

	cb.RecordFailure("resolve-unit")
	cb.RecordFailure("resolve-unit")
	assert.Equal(t, StateClosed, cb.State("resolve-unit"), "below threshold stays CLOSED")

	// A success interleaved resets the consecutive count
	cb.RecordSuccess("resolve-unit")
	cb.RecordFailure("resolve-unit")
	cb.RecordFailure("resolve-unit")
	assert.Equal(t, StateClosed, cb.State("resolve-unit"))

	cb.RecordFailure("resolve-unit")
	assert.Equal(t, StateOpen, cb.State("resolve-unit"))
}

// TestBreakerHalfOpensAfterCooldown verifies the lazy OPEN -> HALF_OPEN
// transition and the HALF_OPEN -> CLOSED recovery on success.
func TestBreakerHalfOpensAfterCooldown(t *testing.T) {
	cb, clock := testBreaker(1, 30*time.Second)

	cb.RecordFailure("resolve-unit")
	assert.Equal(t, StateOpen, cb.State("resolve-unit"))

	// A success while still cooling down does not close the circuit
	cb.RecordSuccess("resolve-unit")
	assert.Equal(t, StateOpen, cb.State("resolve-unit"))

	*clock = clock.Add(31 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State("resolve-unit"))

	cb.RecordSuccess("resolve-unit")
	assert.Equal(t, StateClosed, cb.State("resolve-unit"))
}

// TestBreakerReopensFromHalfOpen verifies that a failure during the probe
// phase reopens the circuit and restarts the cooldown.
func TestBreakerReopensFromHalfOpen(t *testing.T) {
	cb, clock := testBreaker(1, 30*time.Second)

	cb.RecordFailure("resolve-unit")
	*clock = clock.Add(31 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State("resolve-unit"))

	cb.RecordFailure("resolve-unit")
	assert.Equal(t, StateOpen, cb.State("resolve-unit"))

	// Cooldown restarted from the reopen, not the original open
	*clock = clock.Add(29 * time.Second)
	assert.Equal(t, StateOpen, cb.State("resolve-unit"))
	*clock = clock.Add(2 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State("resolve-unit"))
}

// TestBreakerIsolatesRoutes verifies per-route tracking and the States
// snapshot used by the health endpoint.
func TestBreakerIsolatesRoutes(t *testing.T) {
	cb, _ := testBreaker(1, 30*time.Second)

	cb.RecordFailure("resolve-unit")
	cb.RecordSuccess("other-route")

	assert.Equal(t, StateOpen, cb.State("resolve-unit"))
	assert.Equal(t, StateClosed, cb.State("other-route"))

	states := cb.States()
	assert.Equal(t, map[string]string{
		"resolve-unit": StateOpen,
		"other-route":  StateClosed,
	}, states)
}
