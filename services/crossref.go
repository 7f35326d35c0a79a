/*
# Module: services/crossref.go
Best-effort cross-reference enrichment of legacy matches from the primary store.

## Linked Modules
- [storage/repository](../storage/repository.go) - Primary store interface

## Tags
business-logic, enrichment, cross-reference, heuristic

## Exports
CrossRef, NewCrossRef, EnrichName, LeadingHouseNumber

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/crossref.go" ;
    code:description "Best-effort cross-reference enrichment of legacy matches from the primary store" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Primary store interface"
    ] ;
    code:exports :CrossRef, :NewCrossRef, :EnrichName, :LeadingHouseNumber ;
    code:tags "business-logic", "enrichment", "cross-reference", "heuristic" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"log"
	"strings"

	"unit-resolver/storage"
)

// LeadingHouseNumber extracts a house number from the front of a free-text
// address: a run of digits immediately followed by a space ("8 Longview
// Park..." -> "8"). Addresses starting with a letter-prefixed designator
// ("Apt 4, ...") do not parse; this is a heuristic over unconstrained input
// and a false return is the normal outcome, not an error.
func LeadingHouseNumber(address string) (string, bool) {
	s := strings.TrimSpace(address)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != ' ' {
		return "", false
	}
	return s[:i], true
}

// CrossRef enriches a legacy-store match with authoritative fields from the
// primary store. Enrichment is best-effort: every failure path returns
// ok=false and is swallowed, never surfaced.
type CrossRef struct {
	units storage.UnitRepository
}

// NewCrossRef creates a cross-reference resolver over the primary store
func NewCrossRef(units storage.UnitRepository) *CrossRef {
	return &CrossRef{units: units}
}

// EnrichName looks up the purchaser name for the unit identified by the
// development code and the address-derived house number. Returns ok=false
// when the address does not parse, the unit is absent, the store errors, or
// the primary record has no name.
func (c *CrossRef) EnrichName(ctx context.Context, developmentCode, address string) (string, bool) {
	number, ok := LeadingHouseNumber(address)
	if !ok {
		return "", false
	}

	unit, err := c.units.FindByDevelopmentAndNumber(ctx, developmentCode, number)
	if err != nil {
		// Swallowed: cross-referencing is an enrichment, never a hard
		// dependency
		log.Printf("🔗 Cross-reference miss for %s #%s: %v", developmentCode, number, err)
		return "", false
	}

	if unit.PurchaserName == "" {
		return "", false
	}

	log.Printf("🔗 Cross-reference enriched name for %s #%s", developmentCode, number)
	return unit.PurchaserName, true
}
