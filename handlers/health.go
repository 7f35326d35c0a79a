/*
# Module: handlers/health.go
Health check endpoint with circuit state reporting.

## Linked Modules
- [resolve](./resolve.go) - Resolution endpoint

## Tags
http, health, monitoring

## Exports
BreakerStates, HealthAPI, NewHealthAPI, HandleHealth

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/health.go" ;
    code:description "Health check endpoint with circuit state reporting" ;
    code:linksTo [
        code:name "resolve" ;
        code:path "./resolve.go" ;
        code:relationship "Resolution endpoint"
    ] ;
    code:exports :BreakerStates, :HealthAPI, :NewHealthAPI, :HandleHealth ;
    code:tags "http", "health", "monitoring" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// BreakerStates reports the advisory circuit state per route
type BreakerStates interface {
	States() map[string]string
}

// HealthAPI serves GET /api/health
type HealthAPI struct {
	breaker BreakerStates
	started time.Time
}

// NewHealthAPI creates the health handler
func NewHealthAPI(breaker BreakerStates) *HealthAPI {
	return &HealthAPI{
		breaker: breaker,
		started: time.Now(),
	}
}

// HandleHealth reports service liveness and per-route circuit states. The
// service stays healthy even with circuits open; open circuits are advisory.
func (h *HealthAPI) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	circuits := map[string]string{}
	if h.breaker != nil {
		circuits = h.breaker.States()
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "healthy",
		"service":        "unit-resolver",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"circuits":       circuits,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
