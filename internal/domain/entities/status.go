package entities

import (
	"log"
	"strings"
)

// CanonicalStatus is the single payment lifecycle vocabulary used across the service.
// Provider-specific statuses are collapsed into it by MapProviderStatus.

type CanonicalStatus string

const (
	StatusPending    CanonicalStatus = "pending"
	StatusProcessing CanonicalStatus = "processing"
	StatusCompleted  CanonicalStatus = "completed"
	StatusFailed     CanonicalStatus = "failed"
	StatusCancelled  CanonicalStatus = "cancelled"
	StatusRefunded   CanonicalStatus = "refunded"
	StatusExpired    CanonicalStatus = "expired"
)

// CanonicalStatuses lists every value of the enum.
func CanonicalStatuses() []CanonicalStatus {
	return []CanonicalStatus{
		StatusPending,
		StatusProcessing,
		StatusCompleted,
		StatusFailed,
		StatusCancelled,
		StatusRefunded,
		StatusExpired,
	}
}

func (s CanonicalStatus) IsValid() bool {
	for _, v := range CanonicalStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further provider transition is expected.
func (s CanonicalStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded, StatusExpired:
		return true
	}
	return false
}

func (s CanonicalStatus) String() string {
	return string(s)
}

// Status tables, keyed by the lower-cased provider status.
//
// CardCheckout mixes PaymentIntent statuses with Checkout Session status/payment_status
// because both object kinds arrive through the same webhook endpoint.
var providerStatusTables = map[Provider]map[string]CanonicalStatus{
	ProviderCardCheckout: {
		"requires_payment_method": StatusPending,
		"requires_confirmation":   StatusPending,
		"requires_action":         StatusPending,
		"open":                    StatusPending,
		"unpaid":                  StatusPending,
		"processing":              StatusProcessing,
		"requires_capture":        StatusCompleted,
		"succeeded":               StatusCompleted,
		"paid":                    StatusCompleted,
		"complete":                StatusCompleted,
		"no_payment_required":     StatusCompleted,
		"canceled":                StatusCancelled,
		"expired":                 StatusExpired,
		"refunded":                StatusRefunded,
		"failed":                  StatusFailed,
	},
	ProviderPixBilling: {
		"pending":      StatusPending,
		"authorized":   StatusProcessing,
		"in_process":   StatusProcessing,
		"in_mediation": StatusProcessing,
		"approved":     StatusCompleted,
		"rejected":     StatusFailed,
		"cancelled":    StatusCancelled,
		"refunded":     StatusRefunded,
		"charged_back": StatusRefunded,
		"expired":      StatusExpired,
	},
	ProviderWalletBilling: {
		"pending":   StatusPending,
		"paid":      StatusCompleted,
		"expired":   StatusExpired,
		"cancelled": StatusCancelled,
		"refunded":  StatusRefunded,
	},
}

// KnownProviderStatuses returns the documented statuses of a provider.
func KnownProviderStatuses(p Provider) []string {
	table := providerStatusTables[p]
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	return out
}

// MapProviderStatus translates a provider status into the canonical enum.
//
// The function is total: anything it does not recognize becomes StatusFailed, so the
// event still surfaces as an error state instead of being dropped.
func MapProviderStatus(p Provider, providerStatus string) CanonicalStatus {
	key := strings.ToLower(strings.TrimSpace(providerStatus))
	if table, ok := providerStatusTables[p]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	log.Printf("[payment][status] unknown provider status provider=%s status=%q mapped=%s", p, providerStatus, StatusFailed)
	return StatusFailed
}
