package usecase

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/metrics"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/google/uuid"
)

//go:generate mockgen -source=webhook_usecase.go -destination=../adapter/http/handlers/mocks/webhook_usecase_mock.go -package=mocks

// WebhookState is the terminal state reached by one webhook delivery.
type WebhookState string

const (
	WebhookRejected  WebhookState = "rejected"
	WebhookDuplicate WebhookState = "duplicate"
	WebhookApplied   WebhookState = "applied"
	WebhookIgnored   WebhookState = "ignored"
)

// WebhookOutcome describes what the reconciler did with a delivery.
type WebhookOutcome struct {
	State     WebhookState
	Provider  entities.Provider
	EventID   string
	SubjectID string
	Kind      string
	Status    entities.CanonicalStatus
	Reason    string
}

// IWebhookUseCase is the webhook reconciler.
//
// Per delivery: Received -> Verified -> Duplicate | Applying -> Applied, or Rejected when
// verification fails. Unknown kinds and provider test events end as Ignored and never
// touch storage.
type IWebhookUseCase interface {
	HandleWebhook(ctx context.Context, provider entities.Provider, rawBody []byte, headers http.Header) (WebhookOutcome, error)
}

type WebhookUseCase struct {
	verifiers map[entities.Provider]interfaces.IWebhookVerifier
	kinds     map[entities.Provider]map[string]struct{}
	fetchers  map[entities.Provider]interfaces.IPaymentStatusFetcher
	ledger    interfaces.IProcessedEventRepository
	payments  interfaces.IPaymentRepository
	notifier  interfaces.INotifier
	lease     time.Duration
	counters  *metrics.Counters

	now      func() time.Time
	newToken func() string
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

// NewWebhookUseCase wires the reconciler. fetchers holds the providers whose webhooks carry
// no verifiable signature; their status is always re-read from the provider of record.
func NewWebhookUseCase(
	verifiers []interfaces.IWebhookVerifier,
	fetchers map[entities.Provider]interfaces.IPaymentStatusFetcher,
	ledger interfaces.IProcessedEventRepository,
	payments interfaces.IPaymentRepository,
	notifier interfaces.INotifier,
	lease time.Duration,
	counters *metrics.Counters,
) *WebhookUseCase {
	if counters == nil {
		counters = &metrics.Counters{}
	}
	if lease <= 0 {
		lease = 2 * time.Minute
	}
	u := &WebhookUseCase{
		verifiers: make(map[entities.Provider]interfaces.IWebhookVerifier, len(verifiers)),
		kinds:     make(map[entities.Provider]map[string]struct{}, len(verifiers)),
		fetchers:  fetchers,
		ledger:    ledger,
		payments:  payments,
		notifier:  notifier,
		lease:     lease,
		counters:  counters,
		now:       func() time.Time { return time.Now().UTC() },
		newToken:  uuid.NewString,
	}
	for _, v := range verifiers {
		if v == nil {
			continue
		}
		u.verifiers[v.Provider()] = v
		set := make(map[string]struct{})
		for _, k := range v.RecognizedKinds() {
			set[k] = struct{}{}
		}
		u.kinds[v.Provider()] = set
	}
	return u
}

func (u *WebhookUseCase) HandleWebhook(ctx context.Context, provider entities.Provider, rawBody []byte, headers http.Header) (WebhookOutcome, error) {
	u.counters.IncWebhooksReceived()
	out := WebhookOutcome{Provider: provider}

	verifier, ok := u.verifiers[provider]
	if !ok {
		log.Printf("[webhook][reconciler] no verifier registered provider=%s", provider)
		out.State = WebhookRejected
		u.counters.IncWebhooksRejected()
		return out, entities.NewProviderError(entities.ErrUnsupportedProvider, provider, "", "handle webhook", nil)
	}

	ev, err := verifier.Verify(rawBody, headers)
	if err != nil {
		out.State = WebhookRejected
		u.counters.IncWebhooksRejected()
		log.Printf("[webhook][reconciler] rejected provider=%s body_len=%d err=%v", provider, len(rawBody), err)
		kind := entities.KindOr(err, entities.ErrMalformedPayload)
		return out, entities.NewProviderError(kind, provider, "", "verify webhook", err)
	}

	out.EventID = ev.ExternalEventID
	out.SubjectID = ev.SubjectID
	out.Kind = ev.Kind
	log.Printf("[webhook][reconciler] verified provider=%s event_id=%s kind=%s subject_id=%s", provider, ev.ExternalEventID, ev.Kind, ev.SubjectID)

	if ev.Test {
		return u.ignore(out, "provider test event"), nil
	}
	if _, known := u.kinds[provider][ev.Kind]; !known {
		return u.ignore(out, "unrecognized event kind"), nil
	}

	key := ev.Key()
	token := u.newToken()
	claimed, err := u.ledger.Claim(ctx, key, token, u.now().Add(u.lease))
	if err != nil {
		u.counters.IncWebhooksFailed()
		log.Printf("[webhook][reconciler] ledger claim failed key=%s err=%v", key, err)
		return out, entities.NewProviderError(entities.ErrStorage, provider, ev.Reference, "claim webhook event", err)
	}
	if !claimed {
		out.State = WebhookDuplicate
		u.counters.IncWebhooksDuplicate()
		log.Printf("[webhook][reconciler] duplicate delivery key=%s", key)
		return out, nil
	}

	if fetcher, ok := u.fetchers[provider]; ok && fetcher != nil {
		snap, fErr := fetcher.FetchPaymentStatus(ctx, ev.SubjectID)
		if fErr != nil {
			u.release(ctx, key, token)
			if errors.Is(fErr, entities.ErrPaymentNotFound) {
				log.Printf("[webhook][reconciler] payment not found at provider key=%s subject_id=%s", key, ev.SubjectID)
				return u.ignore(out, "payment not found at provider"), nil
			}
			u.counters.IncWebhooksFailed()
			log.Printf("[webhook][reconciler] provider re-fetch failed key=%s subject_id=%s err=%v", key, ev.SubjectID, fErr)
			return out, entities.NewProviderError(entities.KindOr(fErr, entities.ErrProviderRequest), provider, ev.Reference, "re-fetch payment status", fErr)
		}
		ev.ProviderStatus = snap.ProviderStatus
		if snap.Reference != "" {
			ev.Reference = snap.Reference
		}
	}

	if ev.ProviderStatus == "" {
		u.release(ctx, key, token)
		return u.ignore(out, "event carries no payment status"), nil
	}

	status := entities.MapProviderStatus(provider, ev.ProviderStatus)
	subject := ev.SubjectID
	if ev.Reference != "" {
		subject = ev.Reference
	}
	out.SubjectID = subject
	out.Status = status

	if err := u.payments.UpdateStatus(ctx, subject, status); err != nil {
		u.release(ctx, key, token)
		u.counters.IncWebhooksFailed()
		if errors.Is(err, entities.ErrPaymentNotFound) {
			// The record may not be persisted or indexed yet; the provider redelivers.
			log.Printf("[webhook][reconciler] unknown payment, asking for redelivery key=%s subject_id=%s", key, subject)
			return out, entities.NewProviderError(entities.ErrPaymentNotFound, provider, subject, "update payment status", err)
		}
		log.Printf("[webhook][reconciler] status update failed key=%s subject_id=%s status=%s err=%v", key, subject, status, err)
		return out, entities.NewProviderError(entities.ErrStorage, provider, subject, "update payment status", err)
	}

	if status == entities.StatusCompleted && u.notifier != nil {
		if nErr := u.notifier.NotifyPaymentCompleted(ctx, subject); nErr != nil {
			u.counters.IncNotifyFailed()
			log.Printf("[webhook][reconciler] notify failed (status kept) key=%s subject_id=%s err=%v", key, subject, nErr)
		}
	}

	if err := u.ledger.MarkProcessed(ctx, key, token, u.now()); err != nil {
		// The claim expires after the lease and a redelivery is applied again.
		log.Printf("[webhook][reconciler] ledger commit failed key=%s err=%v", key, err)
	}

	out.State = WebhookApplied
	u.counters.IncWebhooksApplied()
	log.Printf("[webhook][reconciler] applied key=%s subject_id=%s status=%s", key, subject, status)
	return out, nil
}

func (u *WebhookUseCase) ignore(out WebhookOutcome, reason string) WebhookOutcome {
	out.State = WebhookIgnored
	out.Reason = reason
	u.counters.IncWebhooksIgnored()
	log.Printf("[webhook][reconciler] ignored provider=%s event_id=%s kind=%s reason=%q", out.Provider, out.EventID, out.Kind, reason)
	return out
}

func (u *WebhookUseCase) release(ctx context.Context, key entities.EventKey, token string) {
	if err := u.ledger.Release(ctx, key, token); err != nil {
		log.Printf("[webhook][reconciler] ledger release failed key=%s err=%v", key, err)
	}
}
