/*
# Module: services/gate.go
Request gate: admission control, cache-aside lookup, and breaker bookkeeping.

## Linked Modules
- [services/resolver](./resolver.go) - Resolution pipeline
- [services/cache](./cache.go) - TTL cache
- [types/api_types](../types/api_types.go) - Error taxonomy

## Tags
business-logic, gate, rate-limit, circuit-breaker, cache

## Exports
RateLimiter, Breaker, UnitResolver, Gate, NewGate, Resolve

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/gate.go" ;
    code:description "Request gate: admission control, cache-aside lookup, and breaker bookkeeping" ;
    code:linksTo [
        code:name "services/resolver" ;
        code:path "./resolver.go" ;
        code:relationship "Resolution pipeline"
    ], [
        code:name "services/cache" ;
        code:path "./cache.go" ;
        code:relationship "TTL cache"
    ], [
        code:name "types/api_types" ;
        code:path "../types/api_types.go" ;
        code:relationship "Error taxonomy"
    ] ;
    code:exports :RateLimiter, :Breaker, :UnitResolver, :Gate, :NewGate, :Resolve ;
    code:tags "business-logic", "gate", "rate-limit", "circuit-breaker", "cache" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"strings"
	"time"

	"unit-resolver/types"
)

// RouteKeyResolve is the route key under which the limiter and breaker
// account for the resolve operation
const RouteKeyResolve = "resolve-unit"

// RateLimiter is the admission-control dependency: per-caller and hard
type RateLimiter interface {
	Allow(clientID, routeKey string) (allowed bool, resetAfter time.Duration)
}

// Breaker is the health-tracking dependency: per-route and advisory. It is
// updated, never enforced - a resolution failure for one token must not
// deny service for an unrelated token.
type Breaker interface {
	RecordSuccess(routeKey string)
	RecordFailure(routeKey string)
}

// UnitResolver resolves one token to a canonical unit or a classified error
type UnitResolver interface {
	Resolve(ctx context.Context, token string) (*types.CanonicalUnit, error)
}

// Gate is the entry point in front of the cache-wrapped pipeline
type Gate struct {
	limiter  RateLimiter
	breaker  Breaker
	cache    *Cache
	resolver UnitResolver
	cacheTTL time.Duration
}

// NewGate wires the request gate
func NewGate(limiter RateLimiter, breaker Breaker, cache *Cache, resolver UnitResolver, cacheTTL time.Duration) *Gate {
	return &Gate{
		limiter:  limiter,
		breaker:  breaker,
		cache:    cache,
		resolver: resolver,
		cacheTTL: cacheTTL,
	}
}

// Resolve handles one request. The returned cache indicator is HIT or MISS
// on success, empty on failure. Order matters:
//  1. rate limiter - a denial touches nothing else, not even the breaker
//  2. cache - hits skip the pipeline but still record a breaker success
//  3. pipeline - successes are cached, outcomes recorded in the breaker
func (g *Gate) Resolve(ctx context.Context, token, clientID string) (*types.CanonicalUnit, string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, "", types.ErrMissingToken()
	}

	if allowed, resetAfter := g.limiter.Allow(clientID, RouteKeyResolve); !allowed {
		return nil, "", types.ErrRateLimited(resetAfter)
	}

	if unit, ok := g.cache.Get(token); ok {
		g.breaker.RecordSuccess(RouteKeyResolve)
		return unit, types.CacheHit, nil
	}

	unit, err := g.resolver.Resolve(ctx, token)
	if err != nil {
		g.recordOutcome(err)
		return nil, "", types.AsResolveError(err)
	}

	// Write only after a complete, successful assembly; failures never
	// populate the cache so a store recovery is visible on the next request
	g.cache.Set(token, unit, g.cacheTTL)
	g.breaker.RecordSuccess(RouteKeyResolve)
	return unit, types.CacheMiss, nil
}

// recordOutcome maps a classified error to a breaker outcome. NOT_FOUND is
// a healthy answer (the stores responded); only infrastructure-class
// failures open the breaker.
func (g *Gate) recordOutcome(err error) {
	re := types.AsResolveError(err)
	switch re.Code {
	case types.CodeDBUnavailable, types.CodeServerError:
		g.breaker.RecordFailure(RouteKeyResolve)
	default:
		g.breaker.RecordSuccess(RouteKeyResolve)
	}
}
