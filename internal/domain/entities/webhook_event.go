package entities

import (
	"encoding/json"
	"time"
)

// WebhookEvent is an inbound provider notification after verification.
//
// SubjectID is the provider's own payment/billing id. Reference is our ExternalID when
// the payload carries it; the reconciler prefers it because it is the join key we sent.
// ProviderStatus is the provider vocabulary value extracted from the payload, empty when
// the event kind does not carry one.

type WebhookEvent struct {
	Provider        Provider        `json:"provider"`
	ExternalEventID string          `json:"external_event_id"`
	SubjectID       string          `json:"subject_id"`
	Reference       string          `json:"reference,omitempty"`
	Kind            string          `json:"kind"`
	ProviderStatus  string          `json:"provider_status,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
	Test            bool            `json:"test,omitempty"`
	Raw             json.RawMessage `json:"-"`
}

// Key returns the deduplication key of the event.
func (e WebhookEvent) Key() EventKey {
	return EventKey{Provider: e.Provider, ExternalEventID: e.ExternalEventID}
}

// EventKey is the (provider, externalEventId) pair of the processed-event ledger.
type EventKey struct {
	Provider        Provider
	ExternalEventID string
}

func (k EventKey) String() string {
	return string(k.Provider) + "#" + k.ExternalEventID
}

// ProcessedEventRecord is a ledger entry owned by the storage collaborator.
type ProcessedEventRecord struct {
	Key         EventKey
	ProcessedAt time.Time
}

// StatusSnapshot is the provider of record's view of a payment, fetched when a
// webhook cannot be authenticated cryptographically.
type StatusSnapshot struct {
	SubjectID      string
	Reference      string
	ProviderStatus string
}
