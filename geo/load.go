/*
# Module: geo/load.go
Startup loader for the static geo configuration (S3, local file, or built-in defaults).

## Linked Modules
- [geo/tables](./tables.go) - Override and known-location tables
- [types/unit](../types/unit.go) - Coordinates structure

## Tags
configuration, s3, geolocation, startup

## Exports
Config, Load, LoadFromFile, LoadFromS3, Defaults

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "geo/load.go" ;
    code:description "Startup loader for the static geo configuration" ;
    code:linksTo [
        code:name "geo/tables" ;
        code:path "./tables.go" ;
        code:relationship "Override and known-location tables"
    ], [
        code:name "types/unit" ;
        code:path "../types/unit.go" ;
        code:relationship "Coordinates structure"
    ] ;
    code:exports :Config, :Load, :LoadFromFile, :LoadFromS3, :Defaults ;
    code:tags "configuration", "s3", "geolocation", "startup" .
<!-- End LinkedDoc RDF -->
*/
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"unit-resolver/types"
)

// Config is the static geo configuration document. It is read once at
// process start; the derived tables are immutable afterwards.
type Config struct {
	// CoordinateOverrides maps a development identifier (UUID or code) to
	// authoritative coordinates
	CoordinateOverrides map[string]types.Coordinates `json:"coordinate_overrides"`

	// KnownLocations maps a place-name keyword to coordinates
	KnownLocations map[string]types.Coordinates `json:"known_locations"`

	// LegacyDevelopments maps a legacy development code to the primary
	// store's development UUID
	LegacyDevelopments map[string]string `json:"legacy_developments"`
}

// Defaults returns the compiled-in configuration used when neither an S3
// object nor a local file is configured
func Defaults() Config {
	return Config{
		CoordinateOverrides: map[string]types.Coordinates{
			// Longview Park: surveyed site entrance, corrects a geocode that
			// lands on the wrong side of the Ballyhooly Road
			"LV-PARK": {Lat: 51.9285, Lng: -8.4468},
		},
		KnownLocations: map[string]types.Coordinates{
			"ballyvolane":  {Lat: 51.9265, Lng: -8.4532},
			"ballyhooly":   {Lat: 51.9301, Lng: -8.4505},
			"glanmire":     {Lat: 51.9169, Lng: -8.4009},
			"rochestown":   {Lat: 51.8790, Lng: -8.4418},
			"ballincollig": {Lat: 51.8879, Lng: -8.5900},
			"cork city":    {Lat: 51.8985, Lng: -8.4756},
		},
		LegacyDevelopments: map[string]string{},
	}
}

// S3Object names an S3 location holding a Config JSON document
type S3Object struct {
	Bucket string
	Key    string
}

// Load resolves the geo configuration: S3 if configured, then a local file,
// then compiled-in defaults. A load failure falls back rather than aborting
// startup; the service can resolve tokens without site-specific overrides.
func Load(ctx context.Context, s3Client *s3.Client, obj S3Object, filePath string) Config {
	if s3Client != nil && obj.Bucket != "" && obj.Key != "" {
		cfg, err := LoadFromS3(ctx, s3Client, obj)
		if err == nil {
			log.Printf("✅ Loaded geo config from s3://%s/%s (%d overrides, %d known locations)",
				obj.Bucket, obj.Key, len(cfg.CoordinateOverrides), len(cfg.KnownLocations))
			return cfg
		}
		log.Printf("⚠️  Failed to load geo config from S3: %v", err)
	}

	if filePath != "" {
		cfg, err := LoadFromFile(filePath)
		if err == nil {
			log.Printf("✅ Loaded geo config from %s (%d overrides, %d known locations)",
				filePath, len(cfg.CoordinateOverrides), len(cfg.KnownLocations))
			return cfg
		}
		log.Printf("⚠️  Failed to load geo config from file: %v", err)
	}

	log.Printf("📋 Using built-in geo defaults")
	return Defaults()
}

// LoadFromS3 reads a Config JSON document from S3
func LoadFromS3(ctx context.Context, client *s3.Client, obj S3Object) (Config, error) {
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to get geo config object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read geo config object: %w", err)
	}

	return parseConfig(data)
}

// LoadFromFile reads a Config JSON document from the local filesystem
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read geo config file: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse geo config: %w", err)
	}
	if cfg.CoordinateOverrides == nil {
		cfg.CoordinateOverrides = map[string]types.Coordinates{}
	}
	if cfg.KnownLocations == nil {
		cfg.KnownLocations = map[string]types.Coordinates{}
	}
	if cfg.LegacyDevelopments == nil {
		cfg.LegacyDevelopments = map[string]string{}
	}
	return cfg, nil
}
