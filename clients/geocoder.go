/*
# Module: clients/geocoder.go
Google Geocoding API client used as a coordinate-resolution fallback tier.

## Linked Modules
- [types/unit](../types/unit.go) - Coordinates structure

## Tags
api-client, google, geocoding, geolocation

## Exports
Geocoder, GoogleGeocoder, NewGoogleGeocoder, Geocode

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "clients/geocoder.go" ;
    code:description "Google Geocoding API client used as a coordinate-resolution fallback tier" ;
    code:linksTo [
        code:name "types/unit" ;
        code:path "../types/unit.go" ;
        code:relationship "Coordinates structure"
    ] ;
    code:exports :Geocoder, :GoogleGeocoder, :NewGoogleGeocoder, :Geocode ;
    code:tags "api-client", "google", "geocoding", "geolocation" .
<!-- End LinkedDoc RDF -->
*/
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"unit-resolver/types"
)

// Geocoder turns free-text addresses into coordinates. A false return is a
// miss, never a failure: every error inside an implementation must degrade
// to a miss so the caller can fall through to its next coordinate tier.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*types.Coordinates, bool)
}

// GoogleGeocoder handles Google Geocoding API requests
type GoogleGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleGeocoder creates a new Google Geocoding API client
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey:     apiKey,
		baseURL:    "https://maps.googleapis.com/maps/api/geocode/json",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// NewGoogleGeocoderWithBaseURL creates a client pointed at a custom endpoint.
// Used by tests.
func NewGoogleGeocoderWithBaseURL(apiKey, baseURL string) *GoogleGeocoder {
	g := NewGoogleGeocoder(apiKey)
	g.baseURL = baseURL
	return g
}

// geocodeResponse is the subset of the provider response we read
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to coordinates. Any transport error, non-200
// status, or non-"OK" provider status is treated as a miss.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*types.Coordinates, bool) {
	if g.apiKey == "" {
		log.Println("⚠️  Google Maps API key not set, skipping geocoding")
		return nil, false
	}
	if address == "" {
		return nil, false
	}

	params := url.Values{}
	params.Add("address", address)
	params.Add("key", g.apiKey)
	fullURL := g.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		log.Printf("⚠️  Geocoder request build failed: %v", err)
		return nil, false
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️  Geocoder call failed: %v", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️  Geocoder returned status %d for address %q", resp.StatusCode, address)
		return nil, false
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("⚠️  Failed to parse geocoder response: %v", err)
		return nil, false
	}

	if result.Status != "OK" || len(result.Results) == 0 {
		log.Printf("🗺️  Geocoder miss for address %q (status %s)", address, result.Status)
		return nil, false
	}

	loc := result.Results[0].Geometry.Location
	coords := &types.Coordinates{Lat: loc.Lat, Lng: loc.Lng}
	log.Printf("🗺️  Geocoded %q to (%.6f, %.6f)", address, coords.Lat, coords.Lng)
	return coords, true
}

// String describes the client configuration for health reporting
func (g *GoogleGeocoder) String() string {
	if g.apiKey == "" {
		return "google-geocoder (no key)"
	}
	return fmt.Sprintf("google-geocoder (%s)", g.baseURL)
}
