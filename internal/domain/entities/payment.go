package entities

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Customer is the optional payer information forwarded to the provider.
type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	TaxID string `json:"tax_id,omitempty"`
}

// PaymentRequest is the provider-agnostic creation command.
//
// ExternalID is the caller's idempotency key. Every adapter forwards it to the provider
// as the reconciliation key so webhooks can be joined back to the payment.
// Amount and currency must not change once the request has been dispatched.

type PaymentRequest struct {
	Provider         Provider          `json:"provider"`
	ExternalID       string            `json:"external_id"`
	AmountMinorUnits int64             `json:"amount_minor_units"`
	Currency         Currency          `json:"currency"`
	Description      string            `json:"description"`
	Customer         *Customer         `json:"customer,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	RequireShipping  bool              `json:"require_shipping,omitempty"`
}

// Validate checks the invariants every adapter relies on.
func (r PaymentRequest) Validate() error {
	if !r.Provider.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, r.Provider)
	}
	if strings.TrimSpace(r.ExternalID) == "" {
		return fmt.Errorf("%w: external_id is required", ErrValidation)
	}
	if r.AmountMinorUnits < MinAmountMinorUnits || r.AmountMinorUnits > MaxAmountMinorUnits {
		return fmt.Errorf("%w: amount_minor_units must be between %d and %d", ErrValidation, MinAmountMinorUnits, MaxAmountMinorUnits)
	}
	if !r.Currency.IsValid() {
		return fmt.Errorf("%w: unsupported currency %q", ErrValidation, r.Currency)
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if r.Customer != nil && r.Customer.Email != "" && !strings.Contains(r.Customer.Email, "@") {
		return fmt.Errorf("%w: invalid customer email", ErrValidation)
	}
	return nil
}

// PaymentResult is what an adapter returns after creating the provider session.
// Raw is kept for audit logging only.
type PaymentResult struct {
	Provider         Provider        `json:"provider"`
	PaymentID        string          `json:"payment_id"`
	Status           CanonicalStatus `json:"status"`
	AmountMinorUnits int64           `json:"amount_minor_units"`
	Currency         Currency        `json:"currency"`
	RedirectURL      string          `json:"redirect_url,omitempty"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	Raw              json.RawMessage `json:"-"`
}
