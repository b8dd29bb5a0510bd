package request

import (
	"errors"
	"fmt"
	"strings"

	"payment_gateway/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var (
	ErrAmountRequired  = errors.New("amount or amount_decimal is required")
	ErrAmountAmbiguous = errors.New("send either amount or amount_decimal, not both")
)

type CustomerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	TaxID string `json:"tax_id"`
}

// PaymentCreateRequest is the payload of POST /v1/payments.
//
// Amount is in minor units (2500 = 25.00). AmountDecimal accepts a decimal string
// ("25.00") and is rounded half away from zero at the currency precision.
type PaymentCreateRequest struct {
	Provider        string            `json:"provider" binding:"required" example:"card_checkout"`
	ExternalID      string            `json:"external_id" binding:"required" example:"ord_1"`
	Amount          *int64            `json:"amount,omitempty" example:"2500"`
	AmountDecimal   string            `json:"amount_decimal,omitempty" example:"25.00"`
	Currency        string            `json:"currency" binding:"required" example:"BRL"`
	Description     string            `json:"description" binding:"required" example:"Order 1"`
	Customer        *CustomerRequest  `json:"customer,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	RequireShipping bool              `json:"require_shipping,omitempty"`
}

// ToEntity converts the payload into the domain command. Range checks are left to
// PaymentRequest.Validate.
func (r PaymentCreateRequest) ToEntity() (entities.PaymentRequest, error) {
	provider, err := entities.ParseProvider(r.Provider)
	if err != nil {
		return entities.PaymentRequest{}, fmt.Errorf("%w: %q", err, r.Provider)
	}
	currency, err := entities.ParseCurrency(r.Currency)
	if err != nil {
		return entities.PaymentRequest{}, err
	}

	amount, err := r.minorUnits(currency)
	if err != nil {
		return entities.PaymentRequest{}, fmt.Errorf("%w: %w", entities.ErrValidation, err)
	}

	out := entities.PaymentRequest{
		Provider:         provider,
		ExternalID:       strings.TrimSpace(r.ExternalID),
		AmountMinorUnits: amount,
		Currency:         currency,
		Description:      strings.TrimSpace(r.Description),
		Metadata:         r.Metadata,
		RequireShipping:  r.RequireShipping,
	}
	if r.Customer != nil {
		out.Customer = &entities.Customer{
			Email: strings.TrimSpace(r.Customer.Email),
			Name:  strings.TrimSpace(r.Customer.Name),
			Phone: strings.TrimSpace(r.Customer.Phone),
			TaxID: strings.TrimSpace(r.Customer.TaxID),
		}
	}
	return out, nil
}

func (r PaymentCreateRequest) minorUnits(c entities.Currency) (int64, error) {
	raw := strings.TrimSpace(r.AmountDecimal)
	switch {
	case r.Amount != nil && raw != "":
		return 0, ErrAmountAmbiguous
	case r.Amount != nil:
		return *r.Amount, nil
	case raw == "":
		return 0, ErrAmountRequired
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid amount_decimal %q", raw)
	}
	return entities.ToMinorUnits(value, c)
}
