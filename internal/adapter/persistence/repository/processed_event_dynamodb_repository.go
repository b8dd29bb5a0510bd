package repository

import (
	"context"
	"fmt"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	eventStateProcessing = "processing"
	eventStateProcessed  = "processed"
)

// ProcessedEventDynamoRepository is the webhook ledger backed by DynamoDB.
//
// Table requirements:
//   - PK: event_key (string, "provider#externalEventId")
//
// Every write is conditional, so concurrent deliveries of the same event race on
// DynamoDB and exactly one of them wins the claim.
type ProcessedEventDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IProcessedEventRepository = (*ProcessedEventDynamoRepository)(nil)

func NewProcessedEventDynamoRepository(ddb DynamoAPI, tableName string) *ProcessedEventDynamoRepository {
	return &ProcessedEventDynamoRepository{
		ddb:       ddb,
		tableName: tableName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *ProcessedEventDynamoRepository) Claim(ctx context.Context, key entities.EventKey, token string, leaseUntil time.Time) (bool, error) {
	_, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"event_key":         &types.AttributeValueMemberS{Value: key.String()},
			"provider":          &types.AttributeValueMemberS{Value: string(key.Provider)},
			"external_event_id": &types.AttributeValueMemberS{Value: key.ExternalEventID},
			"state":             &types.AttributeValueMemberS{Value: eventStateProcessing},
			"claim_token":       &types.AttributeValueMemberS{Value: token},
			"lease_until":       &types.AttributeValueMemberS{Value: formatTime(leaseUntil)},
			"claimed_at":        &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
		ConditionExpression: aws.String("attribute_not_exists(#event_key) OR (#state = :processing AND #lease_until < :now)"),
		ExpressionAttributeNames: map[string]string{
			"#event_key":   "event_key",
			"#state":       "state",
			"#lease_until": "lease_until",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":processing": &types.AttributeValueMemberS{Value: eventStateProcessing},
			":now":        &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	return true, nil
}

func (r *ProcessedEventDynamoRepository) MarkProcessed(ctx context.Context, key entities.EventKey, token string, processedAt time.Time) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"event_key": &types.AttributeValueMemberS{Value: key.String()},
		},
		ConditionExpression: aws.String("#claim_token = :token"),
		UpdateExpression:    aws.String("SET #state = :processed, #processed_at = :processed_at REMOVE #lease_until"),
		ExpressionAttributeNames: map[string]string{
			"#claim_token":  "claim_token",
			"#state":        "state",
			"#processed_at": "processed_at",
			"#lease_until":  "lease_until",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token":        &types.AttributeValueMemberS{Value: token},
			":processed":    &types.AttributeValueMemberS{Value: eventStateProcessed},
			":processed_at": &types.AttributeValueMemberS{Value: formatTime(processedAt)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("%w: claim %s is no longer held", entities.ErrStorage, key)
		}
		return fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	return nil
}

// Release deletes an uncommitted claim. A claim taken over by another delivery is left alone.
func (r *ProcessedEventDynamoRepository) Release(ctx context.Context, key entities.EventKey, token string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"event_key": &types.AttributeValueMemberS{Value: key.String()},
		},
		ConditionExpression: aws.String("#claim_token = :token AND #state = :processing"),
		ExpressionAttributeNames: map[string]string{
			"#claim_token": "claim_token",
			"#state":       "state",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token":      &types.AttributeValueMemberS{Value: token},
			":processing": &types.AttributeValueMemberS{Value: eventStateProcessing},
		},
	})
	if err != nil && !isConditionalCheckFailed(err) {
		return fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	return nil
}

func (r *ProcessedEventDynamoRepository) HasProcessed(ctx context.Context, key entities.EventKey) (bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"event_key": &types.AttributeValueMemberS{Value: key.String()},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	if len(out.Item) == 0 {
		return false, nil
	}
	state, ok := out.Item["state"].(*types.AttributeValueMemberS)
	return ok && state.Value == eventStateProcessed, nil
}
