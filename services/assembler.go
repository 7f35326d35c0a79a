/*
# Module: services/assembler.go
Canonicalization of the three heterogeneous source shapes into one CanonicalUnit.

## Linked Modules
- [types/unit](../types/unit.go) - Canonical unit structure
- [types/source_record](../types/source_record.go) - Raw store record shapes

## Tags
business-logic, canonicalization, normalization

## Exports
DefaultResidentName, DefaultAddress, Assemble

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/assembler.go" ;
    code:description "Canonicalization of the three heterogeneous source shapes into one CanonicalUnit" ;
    code:linksTo [
        code:name "types/unit" ;
        code:path "../types/unit.go" ;
        code:relationship "Canonical unit structure"
    ], [
        code:name "types/source_record" ;
        code:path "../types/source_record.go" ;
        code:relationship "Raw store record shapes"
    ] ;
    code:exports :DefaultResidentName, :DefaultAddress, :Assemble ;
    code:tags "business-logic", "canonicalization", "normalization" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"strings"

	"unit-resolver/types"
)

// Placeholder defaults rendered directly by the consuming portal; optional
// fields are never emitted as nulls
const (
	DefaultResidentName = "Valued Resident"
	DefaultAddress      = "Address not available"
)

// Assemble normalizes a SourceRecord into the canonical output shape.
// development may be nil when the parent record could not be fetched; coords
// may be nil when every coordinate tier missed.
func Assemble(record types.SourceRecord, development *types.Development, coords *types.Coordinates, residentName string) *types.CanonicalUnit {
	unit := &types.CanonicalUnit{
		ResidentName: DefaultResidentName,
		Address:      DefaultAddress,
		Source:       record.Source(),
	}

	switch {
	case record.Primary != nil:
		p := record.Primary
		unit.ID = p.ID
		unit.UnitCode = p.UnitUID
		unit.UnitNumber = p.UnitNumber
		unit.DevelopmentID = p.DevelopmentID
		unit.TenantID = p.TenantID
		unit.City = p.City
		unit.PostalCode = p.PostalCode
		unit.HouseTypeCode = p.HouseTypeCode
		unit.Bedrooms = p.Bedrooms
		unit.Milestones = cloneMilestones(p.Metadata)
		setIfPresent(&unit.Address, p.AddressLine1)
		setIfPresent(&unit.ResidentName, p.PurchaserName)

	case record.Legacy != nil:
		h := record.Legacy
		unit.ID = h.ID
		unit.UnitCode = h.QRToken
		unit.DevelopmentID = h.DevelopmentCode
		unit.TenantID = h.TenantID
		unit.HouseTypeCode = h.HouseType
		unit.Milestones = cloneMilestones(h.Metadata)
		setIfPresent(&unit.Address, h.Address)
		setIfPresent(&unit.ResidentName, h.Name)
		if number, ok := LeadingHouseNumber(h.Address); ok {
			unit.UnitNumber = number
		}

	case record.Directory != nil:
		d := record.Directory
		unit.ID = d.ID
		unit.UnitCode = d.Token
		unit.DevelopmentID = d.DevelopmentID
		unit.Milestones = cloneMilestones(d.Metadata)
		setIfPresent(&unit.Address, d.UnitAddress)
		setIfPresent(&unit.ResidentName, d.DisplayName)
	}

	// An enriched name from the cross-reference wins over the source field
	setIfPresent(&unit.ResidentName, residentName)

	if development != nil {
		unit.DevelopmentName = development.Name
		unit.LogoURL = development.LogoURL
		// A resolved parent in the primary id-space wins over a legacy code
		if development.ID != "" {
			unit.DevelopmentID = development.ID
		}
	}

	if coords != nil {
		lat, lng := coords.Lat, coords.Lng
		unit.Latitude = &lat
		unit.Longitude = &lng
	}

	return unit
}

func setIfPresent(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func cloneMilestones(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
