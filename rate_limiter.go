package main

import (
	"sync"
	"time"
)

// RateLimiter enforces a sliding-window request budget per (client, route)
// pair. Safe for concurrent use.
type RateLimiter struct {
	limits       map[string][]time.Time // client|route -> request timestamps
	maxPerWindow int
	window       time.Duration
	mutex        sync.Mutex
}

// NewRateLimiter creates a new rate limiter allowing maxPerWindow requests
// per window for each (client, route) pair
func NewRateLimiter(maxPerWindow int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limits:       make(map[string][]time.Time),
		maxPerWindow: maxPerWindow,
		window:       window,
	}

	// Cleanup goroutine drops idle clients so the map doesn't grow forever
	go rl.cleanupOldTimestamps()

	return rl
}

// Allow checks whether the caller is within its budget and records the
// request when it is. When denied, resetAfter is how long until the oldest
// in-window request falls out and a retry can succeed.
func (rl *RateLimiter) Allow(clientID, routeKey string) (allowed bool, resetAfter time.Duration) {
	key := clientID + "|" + routeKey

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	// Keep only requests inside the window
	filtered := []time.Time{}
	for _, ts := range rl.limits[key] {
		if ts.After(cutoff) {
			filtered = append(filtered, ts)
		}
	}

	if len(filtered) >= rl.maxPerWindow {
		rl.limits[key] = filtered
		resetAfter = filtered[0].Add(rl.window).Sub(now)
		if resetAfter < time.Second {
			resetAfter = time.Second
		}
		return false, resetAfter
	}

	rl.limits[key] = append(filtered, now)
	return true, 0
}

// Remaining reports how many requests the caller has left in the current
// window
func (rl *RateLimiter) Remaining(clientID, routeKey string) int {
	key := clientID + "|" + routeKey

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := time.Now().Add(-rl.window)
	count := 0
	for _, ts := range rl.limits[key] {
		if ts.After(cutoff) {
			count++
		}
	}

	remaining := rl.maxPerWindow - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// cleanupOldTimestamps removes fully-expired entries every 5 minutes
func (rl *RateLimiter) cleanupOldTimestamps() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		cutoff := time.Now().Add(-rl.window)

		for key, timestamps := range rl.limits {
			filtered := []time.Time{}
			for _, ts := range timestamps {
				if ts.After(cutoff) {
					filtered = append(filtered, ts)
				}
			}

			if len(filtered) == 0 {
				delete(rl.limits, key)
			} else {
				rl.limits[key] = filtered
			}
		}
		rl.mutex.Unlock()
	}
}
