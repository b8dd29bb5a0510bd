package metrics

import "sync/atomic"

type Counters struct {
	PaymentsCreated      uint64
	PaymentsFailed       uint64
	PaymentRetries       uint64
	PaymentPersistFailed uint64

	WebhooksReceived  uint64
	WebhooksApplied   uint64
	WebhooksDuplicate uint64
	WebhooksIgnored   uint64
	WebhooksRejected  uint64
	WebhooksFailed    uint64
	NotifyFailed      uint64
}

// Snapshot is a point-in-time copy safe to serialize.
type Snapshot struct {
	PaymentsCreated      uint64 `json:"payments_created"`
	PaymentsFailed       uint64 `json:"payments_failed"`
	PaymentRetries       uint64 `json:"payment_retries"`
	PaymentPersistFailed uint64 `json:"payment_persist_failed"`
	WebhooksReceived     uint64 `json:"webhooks_received"`
	WebhooksApplied      uint64 `json:"webhooks_applied"`
	WebhooksDuplicate    uint64 `json:"webhooks_duplicate"`
	WebhooksIgnored      uint64 `json:"webhooks_ignored"`
	WebhooksRejected     uint64 `json:"webhooks_rejected"`
	WebhooksFailed       uint64 `json:"webhooks_failed"`
	NotifyFailed         uint64 `json:"notify_failed"`
}

func (c *Counters) IncPaymentsCreated()      { atomic.AddUint64(&c.PaymentsCreated, 1) }
func (c *Counters) IncPaymentsFailed()       { atomic.AddUint64(&c.PaymentsFailed, 1) }
func (c *Counters) IncPaymentRetries()       { atomic.AddUint64(&c.PaymentRetries, 1) }
func (c *Counters) IncPaymentPersistFailed() { atomic.AddUint64(&c.PaymentPersistFailed, 1) }
func (c *Counters) IncWebhooksReceived()     { atomic.AddUint64(&c.WebhooksReceived, 1) }
func (c *Counters) IncWebhooksApplied()      { atomic.AddUint64(&c.WebhooksApplied, 1) }
func (c *Counters) IncWebhooksDuplicate()    { atomic.AddUint64(&c.WebhooksDuplicate, 1) }
func (c *Counters) IncWebhooksIgnored()      { atomic.AddUint64(&c.WebhooksIgnored, 1) }
func (c *Counters) IncWebhooksRejected()     { atomic.AddUint64(&c.WebhooksRejected, 1) }
func (c *Counters) IncWebhooksFailed()       { atomic.AddUint64(&c.WebhooksFailed, 1) }
func (c *Counters) IncNotifyFailed()         { atomic.AddUint64(&c.NotifyFailed, 1) }

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		PaymentsCreated:      atomic.LoadUint64(&c.PaymentsCreated),
		PaymentsFailed:       atomic.LoadUint64(&c.PaymentsFailed),
		PaymentRetries:       atomic.LoadUint64(&c.PaymentRetries),
		PaymentPersistFailed: atomic.LoadUint64(&c.PaymentPersistFailed),
		WebhooksReceived:     atomic.LoadUint64(&c.WebhooksReceived),
		WebhooksApplied:      atomic.LoadUint64(&c.WebhooksApplied),
		WebhooksDuplicate:    atomic.LoadUint64(&c.WebhooksDuplicate),
		WebhooksIgnored:      atomic.LoadUint64(&c.WebhooksIgnored),
		WebhooksRejected:     atomic.LoadUint64(&c.WebhooksRejected),
		WebhooksFailed:       atomic.LoadUint64(&c.WebhooksFailed),
		NotifyFailed:         atomic.LoadUint64(&c.NotifyFailed),
	}
}
