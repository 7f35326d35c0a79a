/*
# Module: storage/repository.go
Repository interfaces for the backing stores consulted by the resolution pipeline.

## Linked Modules
- [types/source_record](../types/source_record.go) - Raw store record shapes
- [types/unit](../types/unit.go) - Development structure

## Tags
storage, repository, interface, persistence

## Exports
ErrNotFound, UnitRepository, DevelopmentRepository, HomeownerRepository, ResidentRepository

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/repository.go" ;
    code:description "Repository interfaces for the backing stores consulted by the resolution pipeline" ;
    code:linksTo [
        code:name "types/source_record" ;
        code:path "../types/source_record.go" ;
        code:relationship "Raw store record shapes"
    ], [
        code:name "types/unit" ;
        code:path "../types/unit.go" ;
        code:relationship "Development structure"
    ] ;
    code:exports :ErrNotFound, :UnitRepository, :DevelopmentRepository, :HomeownerRepository, :ResidentRepository ;
    code:tags "storage", "repository", "interface", "persistence" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"errors"

	"unit-resolver/types"
)

// ErrNotFound marks a clean zero-row answer. Callers classify with
// errors.Is: ErrNotFound means genuine absence, anything else is a
// store-level fault.
var ErrNotFound = errors.New("record not found")

// UnitRepository reads the primary (current-schema) units store
type UnitRepository interface {
	FindByID(ctx context.Context, id string) (*types.PrimaryUnit, error)
	FindByCode(ctx context.Context, code string) (*types.PrimaryUnit, error)
	FindByDevelopmentAndNumber(ctx context.Context, developmentCode, unitNumber string) (*types.PrimaryUnit, error)
}

// DevelopmentRepository reads parent development records
type DevelopmentRepository interface {
	FindByID(ctx context.Context, id string) (*types.Development, error)
}

// HomeownerRepository reads the legacy homeowners store
type HomeownerRepository interface {
	FindByToken(ctx context.Context, token string) (*types.LegacyHomeowner, error)
	FindByID(ctx context.Context, id string) (*types.LegacyHomeowner, error)
}

// ResidentRepository reads the resident directory store
type ResidentRepository interface {
	FindByToken(ctx context.Context, token string) (*types.DirectoryResident, error)
	FindByID(ctx context.Context, id string) (*types.DirectoryResident, error)
}
