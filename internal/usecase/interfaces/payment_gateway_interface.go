package interfaces

import (
	"context"

	"payment_gateway/internal/domain/entities"
)

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/payment_gateway_interface_mock.go -package=mock_interfaces

// IPaymentGateway abstracts one external payment provider (Stripe Checkout, Mercado Pago,
// AbacatePay).
//
// CreatePayment performs exactly one outbound call and never retries. Failures carry
// entities.ErrProviderConfiguration or entities.ErrProviderRequest.
type IPaymentGateway interface {
	Provider() entities.Provider
	CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error)
}

// IPaymentStatusFetcher asks the provider of record for the current state of a payment.
// It is used when an inbound webhook carries no verifiable signature.
//
// A payment the provider does not know returns entities.ErrPaymentNotFound.
type IPaymentStatusFetcher interface {
	FetchPaymentStatus(ctx context.Context, subjectID string) (entities.StatusSnapshot, error)
}
