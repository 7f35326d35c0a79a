package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unit-resolver/geo"
	"unit-resolver/storage"
	"unit-resolver/types"
)

// Fake repositories backed by plain maps. A missing key answers with
// storage.ErrNotFound; a set err field simulates a store-level fault on
// every call.

type fakeUnits struct {
	byID        map[string]*types.PrimaryUnit
	byCode      map[string]*types.PrimaryUnit
	byDevNumber map[string]*types.PrimaryUnit
	err         error
}

func (f *fakeUnits) FindByID(ctx context.Context, id string) (*types.PrimaryUnit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUnits) FindByCode(ctx context.Context, code string) (*types.PrimaryUnit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byCode[code]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUnits) FindByDevelopmentAndNumber(ctx context.Context, developmentCode, unitNumber string) (*types.PrimaryUnit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byDevNumber[developmentCode+"|"+unitNumber]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

type fakeDevelopments struct {
	byID map[string]*types.Development
	err  error
}

func (f *fakeDevelopments) FindByID(ctx context.Context, id string) (*types.Development, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, storage.ErrNotFound
}

type fakeHomeowners struct {
	byToken map[string]*types.LegacyHomeowner
	byID    map[string]*types.LegacyHomeowner
	err     error
}

func (f *fakeHomeowners) FindByToken(ctx context.Context, token string) (*types.LegacyHomeowner, error) {
	if f.err != nil {
		return nil, f.err
	}
	if h, ok := f.byToken[token]; ok {
		return h, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeHomeowners) FindByID(ctx context.Context, id string) (*types.LegacyHomeowner, error) {
	if f.err != nil {
		return nil, f.err
	}
	if h, ok := f.byID[id]; ok {
		return h, nil
	}
	return nil, storage.ErrNotFound
}

type fakeResidents struct {
	byToken map[string]*types.DirectoryResident
	byID    map[string]*types.DirectoryResident
	err     error
}

func (f *fakeResidents) FindByToken(ctx context.Context, token string) (*types.DirectoryResident, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.byToken[token]; ok {
		return r, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeResidents) FindByID(ctx context.Context, id string) (*types.DirectoryResident, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, storage.ErrNotFound
}

// newTestPipeline wires a pipeline over the given fakes with an empty
// coordinate chain unless overridden
func newTestPipeline(units *fakeUnits, devs *fakeDevelopments, owners *fakeHomeowners, residents *fakeResidents, coords *geo.Resolver, legacyDevMap map[string]string) *Pipeline {
	if units == nil {
		units = &fakeUnits{}
	}
	if devs == nil {
		devs = &fakeDevelopments{}
	}
	if owners == nil {
		owners = &fakeHomeowners{}
	}
	if residents == nil {
		residents = &fakeResidents{}
	}
	if coords == nil {
		coords = geo.NewResolver(geo.NewOverrideTable(nil), geo.NewKnownLocations(nil), nil)
	}
	return NewPipeline(units, devs, owners, residents, NewCrossRef(units), coords, legacyDevMap)
}

// TestDetectShape verifies token classification.
func TestDetectShape(t *testing.T) {
	assert.Equal(t, ShapeCanonical, DetectShape("a3bb189e-8bf9-3888-9912-ace4e6543002"))
	assert.Equal(t, ShapeCanonical, DetectShape("A3BB189E-8BF9-3888-9912-ACE4E6543002"))
	assert.Equal(t, ShapeCode, DetectShape("LV-PARK-008"))
	assert.Equal(t, ShapeCode, DetectShape("LVQR-A1B2C3"))
}

// TestResolvePrimaryByCode verifies a primary-store match on a unit code,
// including case normalization of the incoming token.
func TestResolvePrimaryByCode(t *testing.T) {
	units := &fakeUnits{byCode: map[string]*types.PrimaryUnit{
		"LV-PARK-008": {
			ID:              "a3bb189e-8bf9-3888-9912-ace4e6543002",
			UnitUID:         "LV-PARK-008",
			UnitNumber:      "8",
			DevelopmentID:   "dev-1",
			DevelopmentCode: "LV-PARK",
			AddressLine1:    "8 Longview Park",
			City:            "Cork",
			PurchaserName:   "Aoife Murphy",
		},
	}}
	p := newTestPipeline(units, nil, nil, nil, nil, nil)

	unit, err := p.Resolve(context.Background(), "lv-park-008")
	require.NoError(t, err)
	assert.Equal(t, "primary", unit.Source)
	assert.Equal(t, "LV-PARK-008", unit.UnitCode)
	assert.Equal(t, "Aoife Murphy", unit.ResidentName)
	assert.Equal(t, "8 Longview Park", unit.Address)
}

// TestResolvePrimaryByID verifies a primary-store match on a canonical
// UUID-shaped token.
func TestResolvePrimaryByID(t *testing.T) {
	units := &fakeUnits{byID: map[string]*types.PrimaryUnit{
		"a3bb189e-8bf9-3888-9912-ace4e6543002": {
			ID:      "a3bb189e-8bf9-3888-9912-ace4e6543002",
			UnitUID: "LV-PARK-008",
		},
	}}
	p := newTestPipeline(units, nil, nil, nil, nil, nil)

	// Uppercase input still matches: canonical ids are lowercased on lookup
	unit, err := p.Resolve(context.Background(), "A3BB189E-8BF9-3888-9912-ACE4E6543002")
	require.NoError(t, err)
	assert.Equal(t, "primary", unit.Source)
	assert.Equal(t, "a3bb189e-8bf9-3888-9912-ace4e6543002", unit.ID)
}

// TestResolveLegacyWithEnrichment verifies the full legacy path: QR token
// match, development mapped across id-spaces, coordinate override win, and
// resident name enriched from the primary store.
func TestResolveLegacyWithEnrichment(t *testing.T) {
	units := &fakeUnits{byDevNumber: map[string]*types.PrimaryUnit{
		"LV-PARK|8": {ID: "u-8", PurchaserName: "Aoife Murphy"},
	}}
	owners := &fakeHomeowners{byToken: map[string]*types.LegacyHomeowner{
		"LVQR-A1B2C3": {
			ID:              "ho-42",
			DevelopmentCode: "LV-PARK",
			Name:            "A. Murphy (legacy)",
			Address:         "8 Longview Park, Ballyhooly Road, Ballyvolane, Cork City",
			QRToken:         "LVQR-A1B2C3",
		},
	}}
	devs := &fakeDevelopments{byID: map[string]*types.Development{
		"dev-1": {ID: "dev-1", Code: "LV-PARK", Name: "Longview Park", LogoURL: "https://cdn.example.com/lv.png"},
	}}
	coords := geo.NewResolver(
		geo.NewOverrideTable(map[string]types.Coordinates{"LV-PARK": {Lat: 51.9285, Lng: -8.4468}}),
		geo.NewKnownLocations(map[string]types.Coordinates{"ballyvolane": {Lat: 51.9265, Lng: -8.4532}}),
		nil,
	)
	p := newTestPipeline(units, devs, owners, nil, coords, map[string]string{"LV-PARK": "dev-1"})

	unit, err := p.Resolve(context.Background(), "lvqr-a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, "legacy", unit.Source)
	assert.Equal(t, "ho-42", unit.ID)
	assert.Equal(t, "8", unit.UnitNumber)

	// Development reconciled into the primary id-space
	assert.Equal(t, "dev-1", unit.DevelopmentID)
	assert.Equal(t, "Longview Park", unit.DevelopmentName)
	assert.Equal(t, "https://cdn.example.com/lv.png", unit.LogoURL)

	// Override beats the known-location keyword in the address
	require.NotNil(t, unit.Latitude)
	require.NotNil(t, unit.Longitude)
	assert.Equal(t, 51.9285, *unit.Latitude)
	assert.Equal(t, -8.4468, *unit.Longitude)

	// Enriched name wins over the legacy record's own name field
	assert.Equal(t, "Aoife Murphy", unit.ResidentName)
}

// TestResolveLegacyKnownLocation verifies the scenario of a unit code living
// only in the legacy store with no stored coordinates and no override: the
// known-location keyword in its address supplies the coordinates.
func TestResolveLegacyKnownLocation(t *testing.T) {
	owners := &fakeHomeowners{byToken: map[string]*types.LegacyHomeowner{
		"LV-PARK-008": {
			ID:              "ho-8",
			DevelopmentCode: "LV-PARK",
			Name:            "Legacy Name",
			Address:         "8 Longview Park, Ballyvolane",
		},
	}}
	coords := geo.NewResolver(
		geo.NewOverrideTable(nil),
		geo.NewKnownLocations(map[string]types.Coordinates{"ballyvolane": {Lat: 51.9265, Lng: -8.4532}}),
		nil,
	)
	p := newTestPipeline(nil, nil, owners, nil, coords, nil)

	unit, err := p.Resolve(context.Background(), "LV-PARK-008")
	require.NoError(t, err)
	assert.Equal(t, "legacy", unit.Source)
	require.NotNil(t, unit.Latitude)
	assert.Equal(t, 51.9265, *unit.Latitude)
	assert.Equal(t, -8.4532, *unit.Longitude)

	// No cross-reference match in the primary store: the legacy name stands
	assert.Equal(t, "Legacy Name", unit.ResidentName)
}

// TestResolveFirstMatchWins verifies stage ordering: a token present in both
// the legacy and directory stores resolves from the legacy store, and the
// directory store is only reached when the earlier stages miss.
func TestResolveFirstMatchWins(t *testing.T) {
	owners := &fakeHomeowners{byToken: map[string]*types.LegacyHomeowner{
		"SHARED-TOKEN": {ID: "ho-1", Name: "Legacy Match"},
	}}
	residents := &fakeResidents{byToken: map[string]*types.DirectoryResident{
		"shared-token": {ID: "res-1", DisplayName: "Directory Match"},
		"dir-only":     {ID: "res-2", DisplayName: "Directory Only"},
	}}
	p := newTestPipeline(nil, nil, owners, residents, nil, nil)

	unit, err := p.Resolve(context.Background(), "shared-token")
	require.NoError(t, err)
	assert.Equal(t, "legacy", unit.Source)
	assert.Equal(t, "ho-1", unit.ID)

	unit, err = p.Resolve(context.Background(), "dir-only")
	require.NoError(t, err)
	assert.Equal(t, "directory", unit.Source)
	assert.Equal(t, "Directory Only", unit.ResidentName)
}

// TestResolveNotFound verifies that clean misses across every store produce
// NOT_FOUND, not a transient error.
func TestResolveNotFound(t *testing.T) {
	p := newTestPipeline(nil, nil, nil, nil, nil, nil)

	_, err := p.Resolve(context.Background(), "no-such-token")
	require.Error(t, err)

	re := types.AsResolveError(err)
	assert.Equal(t, types.CodeNotFound, re.Code)
	assert.Equal(t, 404, re.Status)
	assert.False(t, re.Retryable)
}

// TestResolveFaultClassification verifies that a store-level fault with no
// match anywhere is reported as DB_UNAVAILABLE, never NOT_FOUND.
func TestResolveFaultClassification(t *testing.T) {
	units := &fakeUnits{err: errors.New("connection refused")}
	p := newTestPipeline(units, nil, nil, nil, nil, nil)

	_, err := p.Resolve(context.Background(), "LV-PARK-008")
	require.Error(t, err)

	re := types.AsResolveError(err)
	assert.Equal(t, types.CodeDBUnavailable, re.Code)
	assert.Equal(t, 503, re.Status)
	assert.True(t, re.Retryable)
}

// TestResolveFaultFallsThrough verifies that a fault in an earlier store does
// not stop later stages: a legacy match still resolves when the primary store
// is down.
func TestResolveFaultFallsThrough(t *testing.T) {
	units := &fakeUnits{err: errors.New("connection refused")}
	owners := &fakeHomeowners{byToken: map[string]*types.LegacyHomeowner{
		"LVQR-A1B2C3": {ID: "ho-42", Name: "A. Murphy"},
	}}
	p := newTestPipeline(units, nil, owners, nil, nil, nil)

	unit, err := p.Resolve(context.Background(), "LVQR-A1B2C3")
	require.NoError(t, err)
	assert.Equal(t, "legacy", unit.Source)
	assert.Equal(t, "A. Murphy", unit.ResidentName)
}

// TestResolveDefaultsApplied verifies the placeholder defaults when a source
// record carries neither a name nor an address.
func TestResolveDefaultsApplied(t *testing.T) {
	residents := &fakeResidents{byToken: map[string]*types.DirectoryResident{
		"bare-token": {ID: "res-9", Token: "bare-token"},
	}}
	p := newTestPipeline(nil, nil, nil, residents, nil, nil)

	unit, err := p.Resolve(context.Background(), "bare-token")
	require.NoError(t, err)
	assert.Equal(t, DefaultResidentName, unit.ResidentName)
	assert.Equal(t, DefaultAddress, unit.Address)
	assert.Nil(t, unit.Latitude)
	assert.Nil(t, unit.Longitude)
}
