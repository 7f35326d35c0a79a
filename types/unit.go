/*
# Module: types/unit.go
Canonical unit and development data structures.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, unit, development, geolocation

## Exports
CanonicalUnit, Development, Coordinates

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/unit.go" ;
    code:description "Canonical unit and development data structures" ;
    code:exports :CanonicalUnit, :Development, :Coordinates ;
    code:tags "data-types", "unit", "development", "geolocation" .
<!-- End LinkedDoc RDF -->
*/
package types

import "encoding/json"

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat" dynamodbav:"lat"`
	Lng float64 `json:"lng" dynamodbav:"lng"`
}

// Development represents a parent development (scheme) record
type Development struct {
	ID        string   `json:"id" dynamodbav:"id"`
	Code      string   `json:"code" dynamodbav:"code"`
	Name      string   `json:"name" dynamodbav:"name"`
	Address   string   `json:"address,omitempty" dynamodbav:"address"`
	Latitude  *float64 `json:"latitude,omitempty" dynamodbav:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" dynamodbav:"longitude"`
	LogoURL   string   `json:"logo_url,omitempty" dynamodbav:"logo_url"`
}

// CanonicalUnit is the single normalized output shape produced for every
// successful resolution, regardless of which backing store supplied the match
type CanonicalUnit struct {
	ID              string
	UnitCode        string
	UnitNumber      string
	DevelopmentID   string
	DevelopmentName string
	TenantID        string
	Address         string
	City            string
	PostalCode      string
	ResidentName    string
	HouseTypeCode   string
	Bedrooms        int
	LogoURL         string
	Latitude        *float64
	Longitude       *float64
	Source          string
	Milestones      map[string]any
}

// MarshalJSON emits both snake_case and camelCase keys for every aliased
// field. Existing portal consumers read one or the other; this is a
// compatibility shim, not the preferred shape going forward.
func (u CanonicalUnit) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"id":               u.ID,
		"unit_code":        u.UnitCode,
		"unitCode":         u.UnitCode,
		"unit_number":      u.UnitNumber,
		"unitNumber":       u.UnitNumber,
		"development_id":   u.DevelopmentID,
		"developmentId":    u.DevelopmentID,
		"development_name": u.DevelopmentName,
		"developmentName":  u.DevelopmentName,
		"tenant_id":        u.TenantID,
		"tenantId":         u.TenantID,
		"address":          u.Address,
		"city":             u.City,
		"postal_code":      u.PostalCode,
		"postalCode":       u.PostalCode,
		"resident_name":    u.ResidentName,
		"residentName":     u.ResidentName,
		"house_type_code":  u.HouseTypeCode,
		"houseTypeCode":    u.HouseTypeCode,
		"bedrooms":         u.Bedrooms,
		"logo_url":         u.LogoURL,
		"logoUrl":          u.LogoURL,
		"latitude":         u.Latitude,
		"longitude":        u.Longitude,
		"source":           u.Source,
	}

	// Milestone fields ride along verbatim; canonical keys win on collision
	for k, v := range u.Milestones {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}

	return json.Marshal(m)
}
