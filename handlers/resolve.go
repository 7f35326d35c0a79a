/*
# Module: handlers/resolve.go
HTTP handler for POST /api/resolve.

## Linked Modules
- [services/gate](../services/gate.go) - Request gate
- [types/api_types](../types/api_types.go) - Request/response shapes

## Tags
http, api, resolve

## Exports
ClientIDFunc, ResolveAPI, NewResolveAPI, HandleResolve

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/resolve.go" ;
    code:description "HTTP handler for POST /api/resolve" ;
    code:linksTo [
        code:name "services/gate" ;
        code:path "../services/gate.go" ;
        code:relationship "Request gate"
    ], [
        code:name "types/api_types" ;
        code:path "../types/api_types.go" ;
        code:relationship "Request/response shapes"
    ] ;
    code:exports :ClientIDFunc, :ResolveAPI, :NewResolveAPI, :HandleResolve ;
    code:tags "http", "api", "resolve" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"unit-resolver/services"
	"unit-resolver/types"
)

// ClientIDFunc derives the rate-limit identity of a caller
type ClientIDFunc func(*http.Request) string

// ResolveAPI handles token resolution requests
type ResolveAPI struct {
	gate     *services.Gate
	clientID ClientIDFunc
}

// NewResolveAPI creates the resolve handler
func NewResolveAPI(gate *services.Gate, clientID ClientIDFunc) *ResolveAPI {
	return &ResolveAPI{
		gate:     gate,
		clientID: clientID,
	}
}

// HandleResolve handles POST /api/resolve. Every response, success or
// failure, carries a request_id for tracing.
func (a *ResolveAPI) HandleResolve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	requestID := uuid.New().String()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req types.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, requestID, types.ErrMissingToken())
		return
	}

	token := req.ResolvedToken()
	if token == "" {
		writeError(w, requestID, types.ErrMissingToken())
		return
	}

	unit, cacheState, err := a.gate.Resolve(r.Context(), token, a.clientID(r))
	if err != nil {
		re := types.AsResolveError(err)
		log.Printf("❌ Resolve %s failed: %s (request %s)", token, re.Code, requestID)
		writeError(w, requestID, re)
		return
	}

	log.Printf("✅ Resolved %s via %s store [%s] (request %s)", token, unit.Source, cacheState, requestID)

	json.NewEncoder(w).Encode(types.ResolveResponse{
		RequestID: requestID,
		Cache:     cacheState,
		Unit:      unit,
	})
}

// writeError emits the classified error body and, for rate limiting, the
// Retry-After header
func writeError(w http.ResponseWriter, requestID string, re *types.ResolveError) {
	retryAfterSeconds := 0
	if re.RetryAfter > 0 {
		retryAfterSeconds = int(re.RetryAfter.Seconds() + 0.5)
		if retryAfterSeconds < 1 {
			retryAfterSeconds = 1
		}
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfterSeconds))
	}

	w.WriteHeader(re.Status)
	json.NewEncoder(w).Encode(types.ErrorResponse{
		RequestID:         requestID,
		Error:             re.Message,
		Code:              re.Code,
		Retryable:         re.Retryable,
		RetryAfterSeconds: retryAfterSeconds,
	})
}
