package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRateLimiterAllowsWithinBudget verifies that requests inside the window
// budget are admitted and counted.
func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("client-1", "resolve-unit")
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}
	assert.Equal(t, 0, rl.Remaining("client-1", "resolve-unit"))
}

// TestRateLimiterDeniesOverBudget verifies the denial and its retry hint once
// the budget is exhausted.
func TestRateLimiterDeniesOverBudget(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	rl.Allow("client-1", "resolve-unit")
	rl.Allow("client-1", "resolve-unit")

	allowed, resetAfter := rl.Allow("client-1", "resolve-unit")
	require.False(t, allowed)
	assert.GreaterOrEqual(t, resetAfter, time.Second)
	assert.LessOrEqual(t, resetAfter, time.Minute)

	// A denied request does not consume budget: remaining stays at zero,
	// not negative
	assert.Equal(t, 0, rl.Remaining("client-1", "resolve-unit"))
}

// TestRateLimiterIsolatesClients verifies that one client exhausting its
// budget does not affect another client or another route.
func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	allowed, _ := rl.Allow("client-1", "resolve-unit")
	require.True(t, allowed)
	allowed, _ = rl.Allow("client-1", "resolve-unit")
	require.False(t, allowed)

	allowed, _ = rl.Allow("client-2", "resolve-unit")
	assert.True(t, allowed, "a different client has its own budget")

	allowed, _ = rl.Allow("client-1", "other-route")
	assert.True(t, allowed, "a different route has its own budget")
}

// TestRateLimiterSlidingWindow verifies that budget recovers as old requests
// fall out of the window.
func TestRateLimiterSlidingWindow(t *testing.T) {
	rl := NewRateLimiter(2, 100*time.Millisecond)

	rl.Allow("client-1", "resolve-unit")
	rl.Allow("client-1", "resolve-unit")

	allowed, _ := rl.Allow("client-1", "resolve-unit")
	require.False(t, allowed)

	time.Sleep(120 * time.Millisecond)

	allowed, _ = rl.Allow("client-1", "resolve-unit")
	assert.True(t, allowed, "budget should recover once the window slides")
}
