package response

import (
	"time"

	"payment_gateway/internal/domain/entities"
)

type PaymentResponse struct {
	Provider      string     `json:"provider"`
	PaymentID     string     `json:"payment_id"`
	ExternalID    string     `json:"external_id,omitempty"`
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	AmountDecimal string     `json:"amount_decimal"`
	Currency      string     `json:"currency"`
	RedirectURL   string     `json:"redirect_url,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func FromPaymentResult(externalID string, r entities.PaymentResult) PaymentResponse {
	return PaymentResponse{
		Provider:      string(r.Provider),
		PaymentID:     r.PaymentID,
		ExternalID:    externalID,
		Status:        string(r.Status),
		Amount:        r.AmountMinorUnits,
		AmountDecimal: formatAmount(r.AmountMinorUnits, r.Currency),
		Currency:      string(r.Currency),
		RedirectURL:   r.RedirectURL,
		ExpiresAt:     r.ExpiresAt,
	}
}

func FromPaymentRecord(p entities.PaymentRecord) PaymentResponse {
	created, updated := p.CreatedAt, p.UpdatedAt
	return PaymentResponse{
		Provider:      string(p.Provider),
		PaymentID:     p.ID,
		ExternalID:    p.ExternalID,
		Status:        string(p.Status),
		Amount:        p.AmountMinorUnits,
		AmountDecimal: formatAmount(p.AmountMinorUnits, p.Currency),
		Currency:      string(p.Currency),
		RedirectURL:   p.RedirectURL,
		ExpiresAt:     p.ExpiresAt,
		CreatedAt:     &created,
		UpdatedAt:     &updated,
	}
}

func formatAmount(units int64, c entities.Currency) string {
	d, err := entities.FromMinorUnits(units, c)
	if err != nil {
		return ""
	}
	exp, _ := entities.MinorUnitExponent(c)
	return d.StringFixed(exp)
}

// WebhookResponse is the acknowledgement returned to providers.
type WebhookResponse struct {
	Received bool   `json:"received"`
	Status   string `json:"status"`
	EventID  string `json:"event_id,omitempty"`
}
