package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/metrics"
	"payment_gateway/internal/usecase/interfaces"
)

//go:generate mockgen -source=payment_usecase.go -destination=../adapter/http/handlers/mocks/payment_usecase_mock.go -package=mocks

// IPaymentUseCase is the payment orchestrator.
//
// CreatePayment selects the adapter registered for the request's provider, applies the
// retry policy and returns the canonical result. Error kinds coming from the adapters are
// propagated unchanged so callers can tell "misconfigured" from "upstream failed".
type IPaymentUseCase interface {
	CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error)
	GetPayment(ctx context.Context, id string) (entities.PaymentRecord, error)
}

// RetryPolicy applies to ErrProviderRequest only. The same ExternalID is sent on every
// attempt, which the providers treat as an idempotency key.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Delay returns the backoff before the given retry (attempt starts at 1).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseDelay * time.Duration(1<<(attempt-1))
	if p.MaxDelay > 0 && (d > p.MaxDelay || d <= 0) {
		return p.MaxDelay
	}
	return d
}

type PaymentUseCase struct {
	gateways map[entities.Provider]interfaces.IPaymentGateway
	repo     interfaces.IPaymentRepository
	retry    RetryPolicy
	counters *metrics.Counters

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(gateways []interfaces.IPaymentGateway, repo interfaces.IPaymentRepository, retry RetryPolicy, counters *metrics.Counters) *PaymentUseCase {
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	if counters == nil {
		counters = &metrics.Counters{}
	}
	registry := make(map[entities.Provider]interfaces.IPaymentGateway, len(gateways))
	for _, g := range gateways {
		if g == nil {
			continue
		}
		if _, dup := registry[g.Provider()]; dup {
			log.Printf("[payment][usecase] duplicate gateway registration provider=%s; keeping the last one", g.Provider())
		}
		registry[g.Provider()] = g
	}
	return &PaymentUseCase{
		gateways: registry,
		repo:     repo,
		retry:    retry,
		counters: counters,
		now:      func() time.Time { return time.Now().UTC() },
		sleep:    sleepContext,
	}
}

func (u *PaymentUseCase) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	log.Printf("[payment][usecase] create start provider=%s external_id=%s amount=%d currency=%s", req.Provider, req.ExternalID, req.AmountMinorUnits, req.Currency)

	if err := req.Validate(); err != nil {
		log.Printf("[payment][usecase] invalid request provider=%s external_id=%s err=%v", req.Provider, req.ExternalID, err)
		return entities.PaymentResult{}, entities.NewProviderError(nil, req.Provider, req.ExternalID, "create payment", err)
	}

	gateway, ok := u.gateways[req.Provider]
	if !ok {
		log.Printf("[payment][usecase] no gateway registered provider=%s external_id=%s", req.Provider, req.ExternalID)
		return entities.PaymentResult{}, entities.NewProviderError(entities.ErrUnsupportedProvider, req.Provider, req.ExternalID, "create payment", nil)
	}

	var (
		res entities.PaymentResult
		err error
	)
	for attempt := 1; ; attempt++ {
		res, err = gateway.CreatePayment(ctx, req)
		if err == nil {
			break
		}
		if !errors.Is(err, entities.ErrProviderRequest) || attempt >= u.retry.MaxAttempts {
			break
		}

		delay := u.retry.Delay(attempt)
		log.Printf("[payment][usecase] retrying provider=%s external_id=%s attempt=%d delay=%s err=%v", req.Provider, req.ExternalID, attempt+1, delay, err)
		u.counters.IncPaymentRetries()
		if sErr := u.sleep(ctx, delay); sErr != nil {
			err = fmt.Errorf("%w: %w", err, sErr)
			break
		}
	}
	if err != nil {
		u.counters.IncPaymentsFailed()
		log.Printf("[payment][usecase] create failed provider=%s external_id=%s err=%v", req.Provider, req.ExternalID, err)
		return entities.PaymentResult{}, withContext(err, req)
	}

	if res.Status == "" {
		res.Status = entities.StatusPending
	}

	// Audit entry.
	log.Printf("[payment][audit] payment created provider=%s payment_id=%s amount=%d currency=%s external_id=%s", res.Provider, res.PaymentID, res.AmountMinorUnits, res.Currency, req.ExternalID)
	u.counters.IncPaymentsCreated()

	if u.repo != nil {
		if _, pErr := u.repo.Create(ctx, entities.NewPaymentRecord(req, res, u.now())); pErr != nil {
			u.counters.IncPaymentPersistFailed()
			log.Printf("[payment][usecase] payment record persist failed provider=%s payment_id=%s err=%v", res.Provider, res.PaymentID, pErr)
		}
	}
	return res, nil
}

func (u *PaymentUseCase) GetPayment(ctx context.Context, id string) (entities.PaymentRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.PaymentRecord{}, fmt.Errorf("%w: payment id is required", entities.ErrValidation)
	}
	if u.repo == nil {
		return entities.PaymentRecord{}, errors.New("payment repository not configured")
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.PaymentRecord{}, err
	}
	if p.ID == "" {
		return entities.PaymentRecord{}, entities.ErrPaymentNotFound
	}
	return p, nil
}

// withContext makes sure the returned error names the provider and external id
// without changing its kind. Errors with no kind are upstream failures.
func withContext(err error, req entities.PaymentRequest) error {
	var pe *entities.ProviderError
	if errors.As(err, &pe) && pe.Provider != "" && pe.ExternalID != "" {
		return err
	}
	return entities.NewProviderError(entities.KindOr(err, entities.ErrProviderRequest), req.Provider, req.ExternalID, "create payment", err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
