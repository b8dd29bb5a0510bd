package repository

import (
	"context"
	"fmt"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const paymentsExternalIDIndex = "external_id-index"

// DynamoAPI is the subset of *dynamodb.Client used by the repositories.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

type paymentItem struct {
	ID               string `dynamodbav:"id"`
	ExternalID       string `dynamodbav:"external_id"`
	Provider         string `dynamodbav:"provider"`
	Status           string `dynamodbav:"status"`
	AmountMinorUnits int64  `dynamodbav:"amount_minor_units"`
	Currency         string `dynamodbav:"currency"`
	RedirectURL      string `dynamodbav:"redirect_url,omitempty"`
	ExpiresAt        string `dynamodbav:"expires_at,omitempty"`
	CreatedAt        string `dynamodbav:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at"`
	RawPayload       string `dynamodbav:"raw_payload,omitempty"`
}

// PaymentDynamoRepository persists PaymentRecord entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: external_id-index (PK: external_id)

type PaymentDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb DynamoAPI, tableName string) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{
		ddb:       ddb,
		tableName: tableName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.PaymentRecord) (entities.PaymentRecord, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.PaymentRecord{}, fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		// A retried creation with the same idempotency key yields the same provider id.
		if isConditionalCheckFailed(err) {
			return r.GetByID(ctx, p.ID)
		}
		return entities.PaymentRecord{}, fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.PaymentRecord, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentRecord{}, fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	if len(out.Item) == 0 {
		return entities.PaymentRecord{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentRecord{}, fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	return fromPaymentItem(it), nil
}

// UpdateStatus resolves subjectID as the primary key first and then through the
// external_id index, since webhooks may only carry our external id.
func (r *PaymentDynamoRepository) UpdateStatus(ctx context.Context, subjectID string, status entities.CanonicalStatus) error {
	updated, err := r.updateStatusByID(ctx, subjectID, status)
	if err != nil || updated {
		return err
	}

	recs, err := r.ListByExternalID(ctx, subjectID)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return entities.ErrPaymentNotFound
	}
	for _, p := range recs {
		if _, err := r.updateStatusByID(ctx, p.ID, status); err != nil {
			return err
		}
	}
	return nil
}

// ListByExternalID reads the external_id index, which is eventually consistent.
func (r *PaymentDynamoRepository) ListByExternalID(ctx context.Context, externalID string) ([]entities.PaymentRecord, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsExternalIDIndex),
		KeyConditionExpression: aws.String("external_id = :eid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eid": &types.AttributeValueMemberS{Value: externalID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}

	recs := make([]entities.PaymentRecord, 0, len(out.Items))
	for _, raw := range out.Items {
		var it paymentItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrStorage, err)
		}
		recs = append(recs, fromPaymentItem(it))
	}
	return recs, nil
}

func (r *PaymentDynamoRepository) updateStatusByID(ctx context.Context, id string, status entities.CanonicalStatus) (bool, error) {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #status = :status, #updated_at = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
		ExpressionAttributeNames: mergeNames(map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		}, map[string]string{"#id": "id"}),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	return true, nil
}

func toPaymentItem(p entities.PaymentRecord) paymentItem {
	it := paymentItem{
		ID:               p.ID,
		ExternalID:       p.ExternalID,
		Provider:         string(p.Provider),
		Status:           string(p.Status),
		AmountMinorUnits: p.AmountMinorUnits,
		Currency:         string(p.Currency),
		RedirectURL:      p.RedirectURL,
		CreatedAt:        formatTime(p.CreatedAt),
		UpdatedAt:        formatTime(p.UpdatedAt),
		RawPayload:       string(p.RawPayload),
	}
	if p.ExpiresAt != nil {
		it.ExpiresAt = formatTime(*p.ExpiresAt)
	}
	return it
}

func fromPaymentItem(it paymentItem) entities.PaymentRecord {
	p := entities.PaymentRecord{
		ID:               it.ID,
		ExternalID:       it.ExternalID,
		Provider:         entities.Provider(it.Provider),
		Status:           entities.CanonicalStatus(it.Status),
		AmountMinorUnits: it.AmountMinorUnits,
		Currency:         entities.Currency(it.Currency),
		RedirectURL:      it.RedirectURL,
		CreatedAt:        parseTime(it.CreatedAt),
		UpdatedAt:        parseTime(it.UpdatedAt),
	}
	if it.ExpiresAt != "" {
		exp := parseTime(it.ExpiresAt)
		p.ExpiresAt = &exp
	}
	if it.RawPayload != "" {
		p.RawPayload = []byte(it.RawPayload)
	}
	return p
}
