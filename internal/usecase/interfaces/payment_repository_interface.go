package interfaces

import (
	"context"
	"time"

	"payment_gateway/internal/domain/entities"
)

//go:generate mockgen -source=payment_repository_interface.go -destination=mocks/payment_repository_interface_mock.go -package=mock_interfaces

// IPaymentRepository abstracts persistence for PaymentRecord.
//
// UpdateStatus accepts either the provider payment id or our external id as subjectID
// and returns entities.ErrPaymentNotFound when neither matches. Implementations must be
// idempotent: applying the same status twice is not an error. ListByExternalID returns
// every attempt made for one external id, in no particular order.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.PaymentRecord) (entities.PaymentRecord, error)
	GetByID(ctx context.Context, id string) (entities.PaymentRecord, error)
	ListByExternalID(ctx context.Context, externalID string) ([]entities.PaymentRecord, error)
	UpdateStatus(ctx context.Context, subjectID string, status entities.CanonicalStatus) error
}

// IProcessedEventRepository is the webhook deduplication ledger.
//
// Claim is the atomic insert-if-absent: it returns true only for the caller that created
// the entry (or took over a claim whose lease expired). MarkProcessed commits the entry
// after the side effects succeeded; Release drops an uncommitted claim so a provider
// redelivery is processed again.
type IProcessedEventRepository interface {
	Claim(ctx context.Context, key entities.EventKey, token string, leaseUntil time.Time) (bool, error)
	MarkProcessed(ctx context.Context, key entities.EventKey, token string, processedAt time.Time) error
	Release(ctx context.Context, key entities.EventKey, token string) error
	HasProcessed(ctx context.Context, key entities.EventKey) (bool, error)
}
