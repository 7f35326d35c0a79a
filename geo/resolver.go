/*
# Module: geo/resolver.go
Coordinate resolver composing overrides, known locations and the external geocoder.

## Linked Modules
- [geo/tables](./tables.go) - Override and known-location tables
- [clients/geocoder](../clients/geocoder.go) - External geocoder client
- [types/unit](../types/unit.go) - Coordinates structure

## Tags
geolocation, resolver, priority-chain

## Exports
Resolver, NewResolver, Resolve

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "geo/resolver.go" ;
    code:description "Coordinate resolver composing overrides, known locations and the external geocoder" ;
    code:linksTo [
        code:name "geo/tables" ;
        code:path "./tables.go" ;
        code:relationship "Override and known-location tables"
    ], [
        code:name "clients/geocoder" ;
        code:path "../clients/geocoder.go" ;
        code:relationship "External geocoder client"
    ], [
        code:name "types/unit" ;
        code:path "../types/unit.go" ;
        code:relationship "Coordinates structure"
    ] ;
    code:exports :Resolver, :NewResolver, :Resolve ;
    code:tags "geolocation", "resolver", "priority-chain" .
<!-- End LinkedDoc RDF -->
*/
package geo

import (
	"context"
	"log"
	"time"

	"unit-resolver/clients"
	"unit-resolver/types"
)

// geocodeTimeout bounds the external call so a slow provider falls through
// to the stored-coordinate tiers instead of stalling the request
const geocodeTimeout = 4 * time.Second

// Resolver walks the coordinate priority chain:
//  1. override table (source of truth, either id-space)
//  2. known-location keyword match
//  3. external geocoder (only with a non-empty address)
//  4. stored unit coordinates
//  5. stored parent development coordinates
//  6. nil - missing coordinates are not a failure
//
// Tiers are evaluated strictly in order; the first hit wins.
type Resolver struct {
	overrides *OverrideTable
	known     *KnownLocations
	geocoder  clients.Geocoder
}

// NewResolver creates a coordinate resolver. geocoder may be nil when no
// external provider is configured; tier 3 then always misses.
func NewResolver(overrides *OverrideTable, known *KnownLocations, geocoder clients.Geocoder) *Resolver {
	return &Resolver{
		overrides: overrides,
		known:     known,
		geocoder:  geocoder,
	}
}

// Resolve returns coordinates for a matched record, or nil when every tier
// misses. developmentIDs carries the parent identifier in every known
// id-space so the override lookup can win regardless of which store matched.
func (r *Resolver) Resolve(ctx context.Context, developmentIDs []string, addressText string, unitCoords, parentCoords *types.Coordinates) *types.Coordinates {
	if c, ok := r.overrides.Lookup(developmentIDs...); ok {
		log.Printf("📌 Coordinate override hit for development %v", developmentIDs)
		return c
	}

	if c, ok := r.known.Match(addressText); ok {
		return c
	}

	if r.geocoder != nil && addressText != "" {
		gctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
		defer cancel()
		if c, ok := r.geocoder.Geocode(gctx, addressText); ok {
			return c
		}
	}

	if unitCoords != nil {
		c := *unitCoords
		return &c
	}

	if parentCoords != nil {
		c := *parentCoords
		return &c
	}

	return nil
}
