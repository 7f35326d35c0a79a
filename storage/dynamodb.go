/*
# Module: storage/dynamodb.go
Consolidated DynamoDB repository implementations for the four backing tables.

## Linked Modules
- [storage/repository](./repository.go) - Repository interfaces
- [types/source_record](../types/source_record.go) - Raw store record shapes
- [types/unit](../types/unit.go) - Development structure

## Tags
storage, dynamodb, persistence, repository

## Exports
UnitDynamoDBRepository, DevelopmentDynamoDBRepository, HomeownerDynamoDBRepository, ResidentDynamoDBRepository

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/dynamodb.go" ;
    code:description "Consolidated DynamoDB repository implementations for the four backing tables" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Repository interfaces"
    ], [
        code:name "types/source_record" ;
        code:path "../types/source_record.go" ;
        code:relationship "Raw store record shapes"
    ], [
        code:name "types/unit" ;
        code:path "../types/unit.go" ;
        code:relationship "Development structure"
    ] ;
    code:exports :UnitDynamoDBRepository, :DevelopmentDynamoDBRepository, :HomeownerDynamoDBRepository, :ResidentDynamoDBRepository ;
    code:tags "storage", "dynamodb", "persistence", "repository" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"unit-resolver/types"
)

// GSI names on the backing tables
const (
	unitCodeIndex       = "unit_uid-index"
	unitDevNumberIndex  = "development_code-unit_number-index"
	homeownerTokenIndex = "unique_qr_token-index"
	residentTokenIndex  = "resident_token-index"
)

// getItem fetches one row by primary key and unmarshals it into out.
// Returns ErrNotFound on a clean empty result.
func getItem(ctx context.Context, client *dynamodb.Client, table, keyAttr, keyValue string, out any) error {
	if client == nil {
		return fmt.Errorf("DynamoDB client not initialized")
	}

	result, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]dynamodbtypes.AttributeValue{
			keyAttr: &dynamodbtypes.AttributeValueMemberS{Value: keyValue},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to get item from %s: %w", table, err)
	}

	if result.Item == nil {
		return fmt.Errorf("%s %s=%s: %w", table, keyAttr, keyValue, ErrNotFound)
	}

	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item from %s: %w", table, err)
	}

	return nil
}

// queryOne fetches the first row matching an equality condition on a GSI.
// Returns ErrNotFound on a clean empty result.
func queryOne(ctx context.Context, client *dynamodb.Client, table, index, keyAttr, keyValue string, out any) error {
	if client == nil {
		return fmt.Errorf("DynamoDB client not initialized")
	}

	result, err := client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(table),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": keyAttr,
		},
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":v": &dynamodbtypes.AttributeValueMemberS{Value: keyValue},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to query %s.%s: %w", table, index, err)
	}

	if len(result.Items) == 0 {
		return fmt.Errorf("%s %s=%s: %w", table, keyAttr, keyValue, ErrNotFound)
	}

	if err := attributevalue.UnmarshalMap(result.Items[0], out); err != nil {
		return fmt.Errorf("failed to unmarshal item from %s: %w", table, err)
	}

	return nil
}

// UnitDynamoDBRepository implements UnitRepository using DynamoDB
type UnitDynamoDBRepository struct {
	client    *dynamodb.Client
	tableName string
}

// NewUnitDynamoDBRepository creates a new DynamoDB unit repository
func NewUnitDynamoDBRepository(client *dynamodb.Client, tableName string) *UnitDynamoDBRepository {
	return &UnitDynamoDBRepository{
		client:    client,
		tableName: tableName,
	}
}

// FindByID retrieves a unit by its UUID primary key
func (r *UnitDynamoDBRepository) FindByID(ctx context.Context, id string) (*types.PrimaryUnit, error) {
	var unit types.PrimaryUnit
	if err := getItem(ctx, r.client, r.tableName, "id", id, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// FindByCode retrieves a unit by its human-readable unit code (unit_uid)
func (r *UnitDynamoDBRepository) FindByCode(ctx context.Context, code string) (*types.PrimaryUnit, error) {
	var unit types.PrimaryUnit
	if err := queryOne(ctx, r.client, r.tableName, unitCodeIndex, "unit_uid", code, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// FindByDevelopmentAndNumber retrieves a unit by development code and unit
// number. Used by the cross-reference enrichment path.
func (r *UnitDynamoDBRepository) FindByDevelopmentAndNumber(ctx context.Context, developmentCode, unitNumber string) (*types.PrimaryUnit, error) {
	if r.client == nil {
		return nil, fmt.Errorf("DynamoDB client not initialized")
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(unitDevNumberIndex),
		KeyConditionExpression: aws.String("development_code = :dc AND unit_number = :un"),
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":dc": &dynamodbtypes.AttributeValueMemberS{Value: developmentCode},
			":un": &dynamodbtypes.AttributeValueMemberS{Value: unitNumber},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", r.tableName, unitDevNumberIndex, err)
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("%s development_code=%s unit_number=%s: %w",
			r.tableName, developmentCode, unitNumber, ErrNotFound)
	}

	var unit types.PrimaryUnit
	if err := attributevalue.UnmarshalMap(result.Items[0], &unit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unit: %w", err)
	}

	return &unit, nil
}

// DevelopmentDynamoDBRepository implements DevelopmentRepository using DynamoDB
type DevelopmentDynamoDBRepository struct {
	client    *dynamodb.Client
	tableName string
}

// NewDevelopmentDynamoDBRepository creates a new DynamoDB development repository
func NewDevelopmentDynamoDBRepository(client *dynamodb.Client, tableName string) *DevelopmentDynamoDBRepository {
	return &DevelopmentDynamoDBRepository{
		client:    client,
		tableName: tableName,
	}
}

// FindByID retrieves a development by its UUID primary key
func (r *DevelopmentDynamoDBRepository) FindByID(ctx context.Context, id string) (*types.Development, error) {
	var dev types.Development
	if err := getItem(ctx, r.client, r.tableName, "id", id, &dev); err != nil {
		return nil, err
	}
	return &dev, nil
}

// HomeownerDynamoDBRepository implements HomeownerRepository using DynamoDB
type HomeownerDynamoDBRepository struct {
	client    *dynamodb.Client
	tableName string
}

// NewHomeownerDynamoDBRepository creates a new DynamoDB homeowner repository
func NewHomeownerDynamoDBRepository(client *dynamodb.Client, tableName string) *HomeownerDynamoDBRepository {
	return &HomeownerDynamoDBRepository{
		client:    client,
		tableName: tableName,
	}
}

// FindByToken retrieves a homeowner by its legacy QR token
func (r *HomeownerDynamoDBRepository) FindByToken(ctx context.Context, token string) (*types.LegacyHomeowner, error) {
	var h types.LegacyHomeowner
	if err := queryOne(ctx, r.client, r.tableName, homeownerTokenIndex, "unique_qr_token", token, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// FindByID retrieves a homeowner by its UUID primary key
func (r *HomeownerDynamoDBRepository) FindByID(ctx context.Context, id string) (*types.LegacyHomeowner, error) {
	var h types.LegacyHomeowner
	if err := getItem(ctx, r.client, r.tableName, "id", id, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ResidentDynamoDBRepository implements ResidentRepository using DynamoDB
type ResidentDynamoDBRepository struct {
	client    *dynamodb.Client
	tableName string
}

// NewResidentDynamoDBRepository creates a new DynamoDB resident repository
func NewResidentDynamoDBRepository(client *dynamodb.Client, tableName string) *ResidentDynamoDBRepository {
	return &ResidentDynamoDBRepository{
		client:    client,
		tableName: tableName,
	}
}

// FindByToken retrieves a resident by its directory token
func (r *ResidentDynamoDBRepository) FindByToken(ctx context.Context, token string) (*types.DirectoryResident, error) {
	var res types.DirectoryResident
	if err := queryOne(ctx, r.client, r.tableName, residentTokenIndex, "resident_token", token, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FindByID retrieves a resident by its UUID primary key
func (r *ResidentDynamoDBRepository) FindByID(ctx context.Context, id string) (*types.DirectoryResident, error) {
	var res types.DirectoryResident
	if err := getItem(ctx, r.client, r.tableName, "id", id, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
