package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"unit-resolver/clients"
	"unit-resolver/geo"
	"unit-resolver/handlers"
	"unit-resolver/services"
	"unit-resolver/storage"
)

func main() {
	ctx := context.Background()

	region := envOr("AWS_REGION", "eu-west-1")
	unitsTable := envOr("UNITS_TABLE", "units")
	developmentsTable := envOr("DEVELOPMENTS_TABLE", "developments")
	homeownersTable := envOr("HOMEOWNERS_TABLE", "homeowners")
	residentsTable := envOr("RESIDENTS_TABLE", "residents")

	rateLimitMax := envInt("RATE_LIMIT_MAX", 30)
	rateLimitWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second
	cacheTTL := time.Duration(envInt("CACHE_TTL_SECONDS", 300)) * time.Second
	breakerFailures := envInt("BREAKER_FAILURES", 5)
	breakerCooldown := time.Duration(envInt("BREAKER_COOLDOWN_SECONDS", 30)) * time.Second

	log.Printf("✅ Unit resolver starting...")

	// AWS clients. A failed config load leaves the clients nil; the
	// repositories guard for that and resolution degrades to DB_UNAVAILABLE
	// instead of crashing at startup.
	var dynamoClient *dynamodb.Client
	var s3Client *s3.Client
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config: %v", err)
	} else {
		dynamoClient = dynamodb.NewFromConfig(awsCfg)
		s3Client = s3.NewFromConfig(awsCfg)
		log.Printf("💾 DynamoDB connected (region %s, tables: %s, %s, %s, %s)",
			region, unitsTable, developmentsTable, homeownersTable, residentsTable)
	}

	units := storage.NewUnitDynamoDBRepository(dynamoClient, unitsTable)
	developments := storage.NewDevelopmentDynamoDBRepository(dynamoClient, developmentsTable)
	homeowners := storage.NewHomeownerDynamoDBRepository(dynamoClient, homeownersTable)
	residents := storage.NewResidentDynamoDBRepository(dynamoClient, residentsTable)

	// Geo configuration: S3, then local file, then compiled-in defaults
	geoCfg := geo.Load(ctx, s3Client, geo.S3Object{
		Bucket: os.Getenv("GEO_CONFIG_S3_BUCKET"),
		Key:    os.Getenv("GEO_CONFIG_S3_KEY"),
	}, os.Getenv("GEO_CONFIG_FILE"))

	var geocoder clients.Geocoder
	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		geocoder = clients.NewGoogleGeocoder(apiKey)
		log.Printf("🗺️  Google geocoder enabled")
	} else {
		log.Printf("⚠️  GOOGLE_MAPS_API_KEY not set - geocoder tier disabled")
	}

	coordResolver := geo.NewResolver(
		geo.NewOverrideTable(geoCfg.CoordinateOverrides),
		geo.NewKnownLocations(geoCfg.KnownLocations),
		geocoder,
	)

	pipeline := services.NewPipeline(
		units,
		developments,
		homeowners,
		residents,
		services.NewCrossRef(units),
		coordResolver,
		geoCfg.LegacyDevelopments,
	)

	limiter := NewRateLimiter(rateLimitMax, rateLimitWindow)
	breaker := NewCircuitBreaker(breakerFailures, breakerCooldown)
	gate := services.NewGate(limiter, breaker, services.NewCache(), pipeline, cacheTTL)

	resolveAPI := handlers.NewResolveAPI(gate, clientIdentifier)
	healthAPI := handlers.NewHealthAPI(breaker)

	http.HandleFunc("/api/resolve", resolveAPI.HandleResolve)
	http.HandleFunc("/api/health", healthAPI.HandleHealth)

	log.Printf("🏪 Rate limit: %d requests per %s per client", rateLimitMax, rateLimitWindow)
	log.Printf("📌 Cache TTL: %s, breaker: %d failures / %s cooldown", cacheTTL, breakerFailures, breakerCooldown)

	port := envOr("PORT", "8080")
	log.Printf("🌍 Server running on http://:%s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
