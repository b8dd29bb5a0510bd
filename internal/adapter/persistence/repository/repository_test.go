package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"payment_gateway/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeDynamo struct {
	putItem    func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	getItem    func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	updateItem func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	deleteItem func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
	query      func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)

	updates []string
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return f.putItem(in)
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return f.getItem(in)
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if id, ok := in.Key["id"].(*types.AttributeValueMemberS); ok {
		f.updates = append(f.updates, id.Value)
	}
	return f.updateItem(in)
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return f.deleteItem(in)
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return f.query(in)
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: strPtr("conditional check failed")}
}

func strPtr(s string) *string { return &s }

func TestPaymentRepository_CreateAndGetByID(t *testing.T) {
	var stored map[string]types.AttributeValue
	fake := &fakeDynamo{
		putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			if got := *in.ConditionExpression; got != "attribute_not_exists(#id)" {
				t.Fatalf("unexpected condition %q", got)
			}
			stored = in.Item
			return &dynamodb.PutItemOutput{}, nil
		},
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: stored}, nil
		},
	}
	repo := NewPaymentDynamoRepository(fake, "payments")

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	exp := now.Add(30 * time.Minute)
	rec := entities.PaymentRecord{
		ID:               "cs_test_1",
		ExternalID:       "ord_1",
		Provider:         entities.ProviderCardCheckout,
		Status:           entities.StatusPending,
		AmountMinorUnits: 2500,
		Currency:         entities.CurrencyBRL,
		RedirectURL:      "https://checkout.example/cs_test_1",
		ExpiresAt:        &exp,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(context.Background(), "cs_test_1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ExternalID != "ord_1" || got.AmountMinorUnits != 2500 || got.Status != entities.StatusPending {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(exp) {
		t.Fatalf("expires_at not preserved: %v", got.ExpiresAt)
	}
}

func TestPaymentRepository_CreateExistingReturnsStored(t *testing.T) {
	existing, _ := attributevalue.MarshalMap(paymentItem{ID: "cs_1", ExternalID: "ord_1", Status: "completed"})
	fake := &fakeDynamo{
		putItem: func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) { return nil, conditionFailed() },
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: existing}, nil
		},
	}
	repo := NewPaymentDynamoRepository(fake, "payments")

	got, err := repo.Create(context.Background(), entities.PaymentRecord{ID: "cs_1", Status: entities.StatusPending})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.Status != entities.StatusCompleted {
		t.Fatalf("expected stored record, got %+v", got)
	}
}

func TestPaymentRepository_GetByIDMissing(t *testing.T) {
	fake := &fakeDynamo{
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) { return &dynamodb.GetItemOutput{}, nil },
	}
	got, err := NewPaymentDynamoRepository(fake, "payments").GetByID(context.Background(), "nope")
	if err != nil || got.ID != "" {
		t.Fatalf("expected empty record, got %+v err=%v", got, err)
	}
}

func TestPaymentRepository_UpdateStatusByPrimaryKey(t *testing.T) {
	fake := &fakeDynamo{
		updateItem: func(in *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			if v := in.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS).Value; v != "completed" {
				t.Fatalf("unexpected status %q", v)
			}
			return &dynamodb.UpdateItemOutput{}, nil
		},
		query: func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			t.Fatalf("index should not be queried")
			return nil, nil
		},
	}
	if err := NewPaymentDynamoRepository(fake, "payments").UpdateStatus(context.Background(), "cs_1", entities.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
}

func TestPaymentRepository_UpdateStatusFallsBackToExternalID(t *testing.T) {
	item, _ := attributevalue.MarshalMap(paymentItem{ID: "bill_9", ExternalID: "ord_9"})
	fake := &fakeDynamo{
		updateItem: func(in *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			if in.Key["id"].(*types.AttributeValueMemberS).Value == "ord_9" {
				return nil, conditionFailed()
			}
			return &dynamodb.UpdateItemOutput{}, nil
		},
		query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			if *in.IndexName != paymentsExternalIDIndex {
				t.Fatalf("unexpected index %q", *in.IndexName)
			}
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}, nil
		},
	}
	if err := NewPaymentDynamoRepository(fake, "payments").UpdateStatus(context.Background(), "ord_9", entities.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if strings.Join(fake.updates, ",") != "ord_9,bill_9" {
		t.Fatalf("unexpected update sequence %v", fake.updates)
	}
}

func TestPaymentRepository_ListByExternalID(t *testing.T) {
	a, _ := attributevalue.MarshalMap(paymentItem{ID: "pref_1", ExternalID: "ord_5", AmountMinorUnits: 1000, Currency: "BRL"})
	b, _ := attributevalue.MarshalMap(paymentItem{ID: "pref_2", ExternalID: "ord_5", AmountMinorUnits: 4990, Currency: "BRL"})
	fake := &fakeDynamo{
		query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			if got := in.ExpressionAttributeValues[":eid"].(*types.AttributeValueMemberS).Value; got != "ord_5" {
				t.Fatalf("unexpected external id %q", got)
			}
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{a, b}}, nil
		},
	}
	got, err := NewPaymentDynamoRepository(fake, "payments").ListByExternalID(context.Background(), "ord_5")
	if err != nil {
		t.Fatalf("ListByExternalID() error = %v", err)
	}
	if len(got) != 2 || got[1].ID != "pref_2" || got[1].AmountMinorUnits != 4990 {
		t.Fatalf("unexpected records %+v", got)
	}

	fake.query = func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error) { return nil, errors.New("throttled") }
	if _, err := NewPaymentDynamoRepository(fake, "payments").ListByExternalID(context.Background(), "ord_5"); !errors.Is(err, entities.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestPaymentRepository_UpdateStatusNotFound(t *testing.T) {
	fake := &fakeDynamo{
		updateItem: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) { return nil, conditionFailed() },
		query: func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{}, nil
		},
	}
	err := NewPaymentDynamoRepository(fake, "payments").UpdateStatus(context.Background(), "ghost", entities.StatusCompleted)
	if !errors.Is(err, entities.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestPaymentRepository_StorageErrorKind(t *testing.T) {
	fake := &fakeDynamo{
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) { return nil, errors.New("throttled") },
	}
	_, err := NewPaymentDynamoRepository(fake, "payments").GetByID(context.Background(), "x")
	if !errors.Is(err, entities.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestProcessedEventRepository_Claim(t *testing.T) {
	key := entities.EventKey{Provider: entities.ProviderCardCheckout, ExternalEventID: "evt_1"}
	calls := 0
	fake := &fakeDynamo{
		putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			calls++
			if v := in.Item["event_key"].(*types.AttributeValueMemberS).Value; v != "card_checkout#evt_1" {
				t.Fatalf("unexpected key %q", v)
			}
			if !strings.Contains(*in.ConditionExpression, "attribute_not_exists(#event_key)") {
				t.Fatalf("claim must be conditional, got %q", *in.ConditionExpression)
			}
			if calls > 1 {
				return nil, conditionFailed()
			}
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	repo := NewProcessedEventDynamoRepository(fake, "events")
	lease := time.Now().Add(time.Minute)

	ok, err := repo.Claim(context.Background(), key, "t1", lease)
	if err != nil || !ok {
		t.Fatalf("first claim: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Claim(context.Background(), key, "t2", lease)
	if err != nil || ok {
		t.Fatalf("second claim: ok=%v err=%v", ok, err)
	}
}

func TestProcessedEventRepository_ReleaseIgnoresLostClaim(t *testing.T) {
	fake := &fakeDynamo{
		deleteItem: func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) { return nil, conditionFailed() },
	}
	repo := NewProcessedEventDynamoRepository(fake, "events")
	if err := repo.Release(context.Background(), entities.EventKey{Provider: entities.ProviderPixBilling, ExternalEventID: "1"}, "t"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

func TestProcessedEventRepository_HasProcessed(t *testing.T) {
	fake := &fakeDynamo{
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
				"event_key": &types.AttributeValueMemberS{Value: "wallet_billing#e"},
				"state":     &types.AttributeValueMemberS{Value: eventStateProcessed},
			}}, nil
		},
	}
	ok, err := NewProcessedEventDynamoRepository(fake, "events").HasProcessed(context.Background(), entities.EventKey{Provider: entities.ProviderWalletBilling, ExternalEventID: "e"})
	if err != nil || !ok {
		t.Fatalf("HasProcessed() ok=%v err=%v", ok, err)
	}
}

func TestFormatTime_SortsLikeTime(t *testing.T) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	instants := []time.Time{
		base,
		base.Add(time.Nanosecond),
		base.Add(500 * time.Millisecond),
		base.Add(999 * time.Millisecond),
		base.Add(time.Second),
		base.Add(time.Second + 10*time.Microsecond),
	}
	for i := 1; i < len(instants); i++ {
		earlier, later := formatTime(instants[i-1]), formatTime(instants[i])
		if !(earlier < later) {
			t.Fatalf("expected %q < %q", earlier, later)
		}
		if len(earlier) != len(later) {
			t.Fatalf("expected fixed width, got %q and %q", earlier, later)
		}
	}

	local := time.Date(2026, 5, 1, 7, 0, 0, 250, time.FixedZone("BRT", -3*3600))
	if got := parseTime(formatTime(local)); !got.Equal(local) {
		t.Fatalf("round trip: expected %s got %s", local, got)
	}
	if got := parseTime("2026-05-01T10:00:00.5Z"); !got.Equal(base.Add(500 * time.Millisecond)) {
		t.Fatalf("stored RFC3339Nano values must still parse, got %s", got)
	}
}

type fakeDescriber map[string]types.TableStatus

func (f fakeDescriber) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	status, ok := f[*in.TableName]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: in.TableName}
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: status}}, nil
}

func TestTableHealthCheck(t *testing.T) {
	cases := []struct {
		name   string
		tables fakeDescriber
		want   entities.HealthState
	}{
		{"both active", fakeDescriber{"payments": types.TableStatusActive, "events": types.TableStatusActive}, entities.HealthOK},
		{"ledger missing", fakeDescriber{"payments": types.TableStatusActive}, entities.HealthFailed},
		{"table still creating", fakeDescriber{"payments": types.TableStatusActive, "events": types.TableStatusCreating}, entities.HealthFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewTableHealthCheck(tc.tables, "payments", "events").Check(context.Background())
			if got.Status != tc.want {
				t.Fatalf("expected %s, got %+v", tc.want, got)
			}
			if tc.want == entities.HealthFailed && got.Error == "" {
				t.Fatalf("failed check must carry the error")
			}
		})
	}
}
