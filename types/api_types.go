/*
# Module: types/api_types.go
HTTP request/response shapes and the classified error taxonomy.

## Linked Modules
- [types/unit](./unit.go) - Canonical unit structure

## Tags
data-types, api, errors

## Exports
ResolveRequest, ResolveResponse, ErrorResponse, ResolveError

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/api_types.go" ;
    code:description "HTTP request/response shapes and the classified error taxonomy" ;
    code:linksTo [
        code:name "types/unit" ;
        code:path "./unit.go" ;
        code:relationship "Canonical unit structure"
    ] ;
    code:exports :ResolveRequest, :ResolveResponse, :ErrorResponse, :ResolveError ;
    code:tags "data-types", "api", "errors" .
<!-- End LinkedDoc RDF -->
*/
package types

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Error codes returned in response bodies
const (
	CodeMissingToken  = "MISSING_TOKEN"
	CodeRateLimited   = "RATE_LIMITED"
	CodeNotFound      = "NOT_FOUND"
	CodeDBUnavailable = "DB_UNAVAILABLE"
	CodeServerError   = "SERVER_ERROR"
)

// Cache indicators on successful responses
const (
	CacheHit  = "HIT"
	CacheMiss = "MISS"
)

// ResolveRequest is the POST /api/resolve body. unitId and unit_id are
// accepted as aliases of token for older portal clients.
type ResolveRequest struct {
	Token     string `json:"token"`
	UnitID    string `json:"unitId"`
	UnitIDAlt string `json:"unit_id"`
}

// ResolvedToken returns the first populated token field, trimmed
func (r ResolveRequest) ResolvedToken() string {
	for _, t := range []string{r.Token, r.UnitID, r.UnitIDAlt} {
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
	}
	return ""
}

// ResolveResponse is the success body
type ResolveResponse struct {
	RequestID string         `json:"request_id"`
	Cache     string         `json:"cache"`
	Unit      *CanonicalUnit `json:"unit"`
}

// ErrorResponse is the failure body. Retryable tells the caller whether to
// retry or render a permanent state.
type ErrorResponse struct {
	RequestID         string `json:"request_id"`
	Error             string `json:"error"`
	Code              string `json:"code"`
	Retryable         bool   `json:"retryable"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

// ResolveError is a classified resolution failure. The pipeline resolves to
// either a CanonicalUnit or one of these; unclassified errors never cross the
// pipeline boundary.
type ResolveError struct {
	Code       string
	Message    string
	Status     int
	Retryable  bool
	RetryAfter time.Duration
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrMissingToken is returned when no token field is populated
func ErrMissingToken() *ResolveError {
	return &ResolveError{
		Code:      CodeMissingToken,
		Message:   "request body must include a token",
		Status:    http.StatusBadRequest,
		Retryable: false,
	}
}

// ErrRateLimited is returned when the caller is over its window budget
func ErrRateLimited(retryAfter time.Duration) *ResolveError {
	return &ResolveError{
		Code:       CodeRateLimited,
		Message:    "too many requests, slow down",
		Status:     http.StatusTooManyRequests,
		Retryable:  true,
		RetryAfter: retryAfter,
	}
}

// ErrTokenNotFound is returned when every store answered and none matched
func ErrTokenNotFound(token string) *ResolveError {
	return &ResolveError{
		Code:      CodeNotFound,
		Message:   fmt.Sprintf("no unit found for token %q", token),
		Status:    http.StatusNotFound,
		Retryable: false,
	}
}

// ErrStoreUnavailable is returned when no store matched and at least one
// store call failed. Distinct from NOT_FOUND so callers retry instead of
// showing a permanent missing state.
func ErrStoreUnavailable() *ResolveError {
	return &ResolveError{
		Code:      CodeDBUnavailable,
		Message:   "backing stores temporarily unavailable, retry shortly",
		Status:    http.StatusServiceUnavailable,
		Retryable: true,
	}
}

// ErrServer wraps an unexpected fault
func ErrServer(err error) *ResolveError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ResolveError{
		Code:      CodeServerError,
		Message:   msg,
		Status:    http.StatusInternalServerError,
		Retryable: true,
	}
}

// AsResolveError coerces any error to a classified one, defaulting to
// SERVER_ERROR
func AsResolveError(err error) *ResolveError {
	if re, ok := err.(*ResolveError); ok {
		return re
	}
	return ErrServer(err)
}
