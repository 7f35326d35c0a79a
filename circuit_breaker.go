package main

import (
	"log"
	"sync"
	"time"
)

// Circuit breaker states
const (
	StateClosed   = "CLOSED"
	StateOpen     = "OPEN"
	StateHalfOpen = "HALF_OPEN"
)

// routeHealth tracks the health of a single route
type routeHealth struct {
	state                string
	consecutiveFails     int
	consecutiveSuccesses int
	openedAt             time.Time
}

// CircuitBreaker tracks per-route health: CLOSED -> OPEN after maxFailures
// consecutive failures, OPEN -> HALF_OPEN after the cooldown elapses,
// HALF_OPEN -> CLOSED on the next success or back to OPEN on a failure.
// Advisory only: it feeds monitoring and never blocks requests, since a
// failure for one token must not deny service for an unrelated one.
type CircuitBreaker struct {
	routes      map[string]*routeHealth
	maxFailures int
	cooldown    time.Duration
	mutex       sync.Mutex
	now         func() time.Time
}

// NewCircuitBreaker creates a breaker that opens a route after maxFailures
// consecutive failures and half-opens it after cooldown
func NewCircuitBreaker(maxFailures int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		routes:      make(map[string]*routeHealth),
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// RecordSuccess records a request outcome that proves the route works
func (cb *CircuitBreaker) RecordSuccess(routeKey string) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	rh := cb.route(routeKey)
	state := cb.effectiveState(rh)

	rh.consecutiveFails = 0
	rh.consecutiveSuccesses++

	if state == StateHalfOpen || state == StateClosed {
		if rh.state != StateClosed && state == StateHalfOpen {
			log.Printf("🔌 Circuit %s: HALF_OPEN -> CLOSED", routeKey)
		}
		rh.state = StateClosed
	}
	// A success while OPEN and still cooling down leaves the route OPEN;
	// the breaker is advisory and lost updates are tolerable
}

// RecordFailure records an infrastructure-class failure on the route
func (cb *CircuitBreaker) RecordFailure(routeKey string) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	rh := cb.route(routeKey)
	state := cb.effectiveState(rh)

	rh.consecutiveSuccesses = 0
	rh.consecutiveFails++

	switch {
	case state == StateHalfOpen:
		rh.state = StateOpen
		rh.openedAt = cb.now()
		log.Printf("🔌 Circuit %s: HALF_OPEN -> OPEN", routeKey)
	case state == StateClosed && rh.consecutiveFails >= cb.maxFailures:
		rh.state = StateOpen
		rh.openedAt = cb.now()
		log.Printf("🔌 Circuit %s: CLOSED -> OPEN after %d consecutive failures", routeKey, rh.consecutiveFails)
	}
}

// State reports the current state of a route
func (cb *CircuitBreaker) State(routeKey string) string {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.effectiveState(cb.route(routeKey))
}

// States reports every tracked route, for the health endpoint
func (cb *CircuitBreaker) States() map[string]string {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	out := make(map[string]string, len(cb.routes))
	for key, rh := range cb.routes {
		out[key] = cb.effectiveState(rh)
	}
	return out
}

// route returns the tracked health for a key, creating it CLOSED
func (cb *CircuitBreaker) route(routeKey string) *routeHealth {
	rh, ok := cb.routes[routeKey]
	if !ok {
		rh = &routeHealth{state: StateClosed}
		cb.routes[routeKey] = rh
	}
	return rh
}

// effectiveState applies the cooldown transition lazily: an OPEN route
// whose cooldown has elapsed is HALF_OPEN
func (cb *CircuitBreaker) effectiveState(rh *routeHealth) string {
	if rh.state == StateOpen && cb.now().Sub(rh.openedAt) >= cb.cooldown {
		return StateHalfOpen
	}
	return rh.state
}
