/*
# Module: types/source_record.go
Raw record shapes for the three backing stores.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, storage, source-record

## Exports
PrimaryUnit, LegacyHomeowner, DirectoryResident, SourceRecord

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/source_record.go" ;
    code:description "Raw record shapes for the three backing stores" ;
    code:exports :PrimaryUnit, :LegacyHomeowner, :DirectoryResident, :SourceRecord ;
    code:tags "data-types", "storage", "source-record" .
<!-- End LinkedDoc RDF -->
*/
package types

// PrimaryUnit is a row from the current-schema units table
type PrimaryUnit struct {
	ID              string         `json:"id" dynamodbav:"id"`
	TenantID        string         `json:"tenant_id" dynamodbav:"tenant_id"`
	DevelopmentID   string         `json:"development_id" dynamodbav:"development_id"`
	DevelopmentCode string         `json:"development_code" dynamodbav:"development_code"`
	UnitNumber      string         `json:"unit_number" dynamodbav:"unit_number"`
	UnitCode        string         `json:"unit_code" dynamodbav:"unit_code"`
	UnitUID         string         `json:"unit_uid" dynamodbav:"unit_uid"`
	AddressLine1    string         `json:"address_line_1" dynamodbav:"address_line_1"`
	City            string         `json:"city,omitempty" dynamodbav:"city"`
	PostalCode      string         `json:"postal_code,omitempty" dynamodbav:"postal_code"`
	HouseTypeCode   string         `json:"house_type_code" dynamodbav:"house_type_code"`
	Bedrooms        int            `json:"bedrooms,omitempty" dynamodbav:"bedrooms"`
	PurchaserName   string         `json:"purchaser_name,omitempty" dynamodbav:"purchaser_name"`
	Latitude        *float64       `json:"latitude,omitempty" dynamodbav:"latitude"`
	Longitude       *float64       `json:"longitude,omitempty" dynamodbav:"longitude"`
	Metadata        map[string]any `json:"metadata,omitempty" dynamodbav:"metadata"`
}

// LegacyHomeowner is a row from the legacy homeowners table. Its development
// reference is a development code (e.g. "LV-PARK"), a different id-space than
// the primary store's UUIDs.
type LegacyHomeowner struct {
	ID              string         `json:"id" dynamodbav:"id"`
	TenantID        string         `json:"tenant_id,omitempty" dynamodbav:"tenant_id"`
	DevelopmentCode string         `json:"development_code" dynamodbav:"development_code"`
	Name            string         `json:"name" dynamodbav:"name"`
	Email           string         `json:"email,omitempty" dynamodbav:"email"`
	HouseType       string         `json:"house_type,omitempty" dynamodbav:"house_type"`
	Address         string         `json:"address,omitempty" dynamodbav:"address"`
	QRToken         string         `json:"unique_qr_token,omitempty" dynamodbav:"unique_qr_token"`
	Metadata        map[string]any `json:"metadata,omitempty" dynamodbav:"metadata"`
}

// DirectoryResident is a row from the resident directory table, keyed by its
// own token format
type DirectoryResident struct {
	ID            string         `json:"id" dynamodbav:"id"`
	Token         string         `json:"resident_token" dynamodbav:"resident_token"`
	UnitID        string         `json:"unit_id,omitempty" dynamodbav:"unit_id"`
	DevelopmentID string         `json:"development_id,omitempty" dynamodbav:"development_id"`
	DisplayName   string         `json:"display_name,omitempty" dynamodbav:"display_name"`
	UnitAddress   string         `json:"unit_address,omitempty" dynamodbav:"unit_address"`
	Latitude      *float64       `json:"latitude,omitempty" dynamodbav:"latitude"`
	Longitude     *float64       `json:"longitude,omitempty" dynamodbav:"longitude"`
	Metadata      map[string]any `json:"metadata,omitempty" dynamodbav:"metadata"`
}

// SourceRecord is a tagged union over the three store shapes. Exactly one
// field is non-nil on a match. Adding a fourth source means adding one field
// here and one mapping function in the assembler.
type SourceRecord struct {
	Primary   *PrimaryUnit
	Legacy    *LegacyHomeowner
	Directory *DirectoryResident
}

// Source names the store that supplied the match
func (r SourceRecord) Source() string {
	switch {
	case r.Primary != nil:
		return "primary"
	case r.Legacy != nil:
		return "legacy"
	case r.Directory != nil:
		return "directory"
	}
	return "unknown"
}
