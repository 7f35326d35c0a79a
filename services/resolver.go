/*
# Module: services/resolver.go
Ordered multi-store fallback resolution pipeline.

## Linked Modules
- [storage/repository](../storage/repository.go) - Store interfaces
- [services/crossref](./crossref.go) - Cross-reference enrichment
- [services/assembler](./assembler.go) - Canonicalization
- [geo/resolver](../geo/resolver.go) - Coordinate resolution

## Tags
business-logic, pipeline, resolution, fallback

## Exports
TokenShape, DetectShape, Pipeline, NewPipeline, Resolve

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/resolver.go" ;
    code:description "Ordered multi-store fallback resolution pipeline" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Store interfaces"
    ], [
        code:name "services/crossref" ;
        code:path "./crossref.go" ;
        code:relationship "Cross-reference enrichment"
    ], [
        code:name "services/assembler" ;
        code:path "./assembler.go" ;
        code:relationship "Canonicalization"
    ], [
        code:name "geo/resolver" ;
        code:path "../geo/resolver.go" ;
        code:relationship "Coordinate resolution"
    ] ;
    code:exports :TokenShape, :DetectShape, :Pipeline, :NewPipeline, :Resolve ;
    code:tags "business-logic", "pipeline", "resolution", "fallback" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"unit-resolver/geo"
	"unit-resolver/storage"
	"unit-resolver/types"
)

// TokenShape classifies a caller-supplied token
type TokenShape int

const (
	// ShapeCanonical is a UUID-shaped token (hyphenated hex, case-insensitive)
	ShapeCanonical TokenShape = iota
	// ShapeCode is any other free-form unit code (e.g. "LV-PARK-008")
	ShapeCode
)

// DetectShape classifies a token. The shape selects which predicates run
// against each store; every store is still attempted in order regardless.
func DetectShape(token string) TokenShape {
	if _, err := uuid.Parse(token); err == nil {
		return ShapeCanonical
	}
	return ShapeCode
}

// storeTimeout bounds each individual store call so one slow dependency
// cannot stall the whole pipeline
const storeTimeout = 3 * time.Second

// Pipeline is the core resolution algorithm: stages A (primary), B (legacy,
// with cross-reference enrichment) and C (directory) run strictly in order;
// the first match wins and later stages are never consulted. A store-level
// error downgrades to a transient-fault flag and the next stage runs; the
// flag decides DB_UNAVAILABLE vs NOT_FOUND when nothing matched.
type Pipeline struct {
	units        storage.UnitRepository
	developments storage.DevelopmentRepository
	homeowners   storage.HomeownerRepository
	residents    storage.ResidentRepository
	crossRef     *CrossRef
	coords       *geo.Resolver
	legacyDevMap map[string]string
}

// NewPipeline wires the resolution pipeline. legacyDevMap maps legacy
// development codes to primary-store development UUIDs.
func NewPipeline(
	units storage.UnitRepository,
	developments storage.DevelopmentRepository,
	homeowners storage.HomeownerRepository,
	residents storage.ResidentRepository,
	crossRef *CrossRef,
	coords *geo.Resolver,
	legacyDevMap map[string]string,
) *Pipeline {
	if legacyDevMap == nil {
		legacyDevMap = map[string]string{}
	}
	return &Pipeline{
		units:        units,
		developments: developments,
		homeowners:   homeowners,
		residents:    residents,
		crossRef:     crossRef,
		coords:       coords,
		legacyDevMap: legacyDevMap,
	}
}

// Resolve runs the full pipeline for one token. It returns either a
// CanonicalUnit or a classified *types.ResolveError; store failures never
// propagate unclassified.
func (p *Pipeline) Resolve(ctx context.Context, token string) (*types.CanonicalUnit, error) {
	shape := DetectShape(token)
	transient := false

	// Stage A: primary store
	if unit, fault := p.findPrimary(ctx, token, shape); fault {
		transient = true
	} else if unit != nil {
		return p.assemblePrimary(ctx, unit), nil
	}

	// Stage B: legacy store
	if h, fault := p.findLegacy(ctx, token, shape); fault {
		transient = true
	} else if h != nil {
		return p.assembleLegacy(ctx, h), nil
	}

	// Stage C: directory store
	if res, fault := p.findResident(ctx, token, shape); fault {
		transient = true
	} else if res != nil {
		return p.assembleResident(ctx, res), nil
	}

	// A store outage must never be misreported as absence: the caller's
	// retry behavior differs completely between the two
	if transient {
		return nil, types.ErrStoreUnavailable()
	}
	return nil, types.ErrTokenNotFound(token)
}

// findPrimary queries the primary store by identifier then code. Returns
// (nil, true) on a store-level fault.
func (p *Pipeline) findPrimary(ctx context.Context, token string, shape TokenShape) (*types.PrimaryUnit, bool) {
	if shape == ShapeCanonical {
		unit, err := p.unitsByID(ctx, strings.ToLower(token))
		if err == nil {
			return unit, false
		}
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("⚠️  Primary store fault (id lookup): %v", err)
			return nil, true
		}
	}

	unit, err := p.unitsByCode(ctx, normalizeCode(token))
	if err == nil {
		return unit, false
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("⚠️  Primary store fault (code lookup): %v", err)
		return nil, true
	}
	return nil, false
}

// findLegacy queries the legacy store by token, falling back to identifier
// for canonical-shaped tokens
func (p *Pipeline) findLegacy(ctx context.Context, token string, shape TokenShape) (*types.LegacyHomeowner, bool) {
	h, err := p.homeownersByToken(ctx, normalizeCode(token))
	if err == nil {
		return h, false
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("⚠️  Legacy store fault (token lookup): %v", err)
		return nil, true
	}

	if shape == ShapeCanonical {
		h, err := p.homeownersByID(ctx, strings.ToLower(token))
		if err == nil {
			return h, false
		}
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("⚠️  Legacy store fault (id lookup): %v", err)
			return nil, true
		}
	}
	return nil, false
}

// findResident queries the directory store by token, falling back to
// identifier for canonical-shaped tokens
func (p *Pipeline) findResident(ctx context.Context, token string, shape TokenShape) (*types.DirectoryResident, bool) {
	res, err := p.residentsByToken(ctx, strings.TrimSpace(token))
	if err == nil {
		return res, false
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("⚠️  Directory store fault (token lookup): %v", err)
		return nil, true
	}

	if shape == ShapeCanonical {
		res, err := p.residentsByID(ctx, strings.ToLower(token))
		if err == nil {
			return res, false
		}
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("⚠️  Directory store fault (id lookup): %v", err)
			return nil, true
		}
	}
	return nil, false
}

func (p *Pipeline) assemblePrimary(ctx context.Context, unit *types.PrimaryUnit) *types.CanonicalUnit {
	dev := p.fetchDevelopment(ctx, unit.DevelopmentID)

	address := joinAddress(unit.AddressLine1, unit.City, unit.PostalCode)
	coords := p.coords.Resolve(ctx,
		[]string{unit.DevelopmentID, unit.DevelopmentCode},
		address,
		coordsFrom(unit.Latitude, unit.Longitude),
		developmentCoords(dev),
	)

	return Assemble(types.SourceRecord{Primary: unit}, dev, coords, "")
}

func (p *Pipeline) assembleLegacy(ctx context.Context, h *types.LegacyHomeowner) *types.CanonicalUnit {
	// The legacy development reference lives in a different id-space; map
	// it to the primary store's UUID where the static table knows it
	primaryDevID := p.legacyDevMap[h.DevelopmentCode]
	dev := p.fetchDevelopment(ctx, primaryDevID)

	coords := p.coords.Resolve(ctx,
		[]string{primaryDevID, h.DevelopmentCode},
		h.Address,
		nil,
		developmentCoords(dev),
	)

	enriched := ""
	if p.crossRef != nil {
		if name, ok := p.crossRef.EnrichName(ctx, h.DevelopmentCode, h.Address); ok {
			enriched = name
		}
	}

	return Assemble(types.SourceRecord{Legacy: h}, dev, coords, enriched)
}

func (p *Pipeline) assembleResident(ctx context.Context, res *types.DirectoryResident) *types.CanonicalUnit {
	dev := p.fetchDevelopment(ctx, res.DevelopmentID)

	coords := p.coords.Resolve(ctx,
		[]string{res.DevelopmentID},
		res.UnitAddress,
		coordsFrom(res.Latitude, res.Longitude),
		developmentCoords(dev),
	)

	return Assemble(types.SourceRecord{Directory: res}, dev, coords, "")
}

// fetchDevelopment is best-effort: a missing or unreachable parent record
// only costs branding and fallback coordinates, never the resolution
func (p *Pipeline) fetchDevelopment(ctx context.Context, id string) *types.Development {
	if id == "" || p.developments == nil {
		return nil
	}
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	dev, err := p.developments.FindByID(cctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("⚠️  Development fetch failed for %s: %v", id, err)
		}
		return nil
	}
	return dev
}

func (p *Pipeline) unitsByID(ctx context.Context, id string) (*types.PrimaryUnit, error) {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return p.units.FindByID(cctx, id)
}

func (p *Pipeline) unitsByCode(ctx context.Context, code string) (*types.PrimaryUnit, error) {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return p.units.FindByCode(cctx, code)
}

func (p *Pipeline) homeownersByToken(ctx context.Context, token string) (*types.LegacyHomeowner, error) {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return p.homeowners.FindByToken(cctx, token)
}

func (p *Pipeline) homeownersByID(ctx context.Context, id string) (*types.LegacyHomeowner, error) {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return p.homeowners.FindByID(cctx, id)
}

func (p *Pipeline) residentsByToken(ctx context.Context, token string) (*types.DirectoryResident, error) {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return p.residents.FindByToken(cctx, token)
}

func (p *Pipeline) residentsByID(ctx context.Context, id string) (*types.DirectoryResident, error) {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return p.residents.FindByID(cctx, id)
}

// normalizeCode uppercases free-form codes the way the stores index them
func normalizeCode(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

func joinAddress(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}

func coordsFrom(lat, lng *float64) *types.Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	return &types.Coordinates{Lat: *lat, Lng: *lng}
}

func developmentCoords(dev *types.Development) *types.Coordinates {
	if dev == nil {
		return nil
	}
	return coordsFrom(dev.Latitude, dev.Longitude)
}
