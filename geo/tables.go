/*
# Module: geo/tables.go
Static coordinate-override and known-location tables, immutable after load.

## Linked Modules
- [types/unit](../types/unit.go) - Coordinates structure

## Tags
geolocation, configuration, override, heuristic

## Exports
OverrideTable, KnownLocations, NewOverrideTable, NewKnownLocations

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "geo/tables.go" ;
    code:description "Static coordinate-override and known-location tables, immutable after load" ;
    code:linksTo [
        code:name "types/unit" ;
        code:path "../types/unit.go" ;
        code:relationship "Coordinates structure"
    ] ;
    code:exports :OverrideTable, :KnownLocations, :NewOverrideTable, :NewKnownLocations ;
    code:tags "geolocation", "configuration", "override", "heuristic" .
<!-- End LinkedDoc RDF -->
*/
package geo

import (
	"strings"

	"unit-resolver/types"
)

// OverrideTable maps development identifiers to authoritative coordinates.
// Keys may be in either id-space (development UUID or development code); a
// present entry always wins over every other coordinate source. Loaded once
// at startup and never mutated.
type OverrideTable struct {
	entries map[string]types.Coordinates
}

// NewOverrideTable builds an override table. Keys are matched
// case-insensitively.
func NewOverrideTable(entries map[string]types.Coordinates) *OverrideTable {
	normalized := make(map[string]types.Coordinates, len(entries))
	for k, v := range entries {
		normalized[strings.ToLower(k)] = v
	}
	return &OverrideTable{entries: normalized}
}

// Lookup returns the override for the first identifier with an entry
func (t *OverrideTable) Lookup(ids ...string) (*types.Coordinates, bool) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if c, ok := t.entries[strings.ToLower(id)]; ok {
			coords := c
			return &coords, true
		}
	}
	return nil, false
}

// Len reports the number of override entries
func (t *OverrideTable) Len() int {
	return len(t.entries)
}

// KnownLocations is a keyword-to-coordinates table used as a fast, API-free
// geocoding fallback. Keywords are matched as case-insensitive substrings of
// the address text. Loaded once at startup and never mutated.
type KnownLocations struct {
	keywords []string
	coords   map[string]types.Coordinates
}

// NewKnownLocations builds a known-location table
func NewKnownLocations(entries map[string]types.Coordinates) *KnownLocations {
	kl := &KnownLocations{
		coords: make(map[string]types.Coordinates, len(entries)),
	}
	for k, v := range entries {
		key := strings.ToLower(k)
		kl.keywords = append(kl.keywords, key)
		kl.coords[key] = v
	}
	return kl
}

// Match scans the address text for a known place-name keyword
func (kl *KnownLocations) Match(addressText string) (*types.Coordinates, bool) {
	if addressText == "" {
		return nil, false
	}
	haystack := strings.ToLower(addressText)
	for _, kw := range kl.keywords {
		if strings.Contains(haystack, kw) {
			coords := kl.coords[kw]
			return &coords, true
		}
	}
	return nil, false
}

// Len reports the number of known-location entries
func (kl *KnownLocations) Len() int {
	return len(kl.coords)
}
