package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"payment_gateway/internal/adapter/persistence/memory"
	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/metrics"
	"payment_gateway/internal/usecase/interfaces"
	mock_interfaces "payment_gateway/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func validRequest() entities.PaymentRequest {
	return entities.PaymentRequest{
		Provider:         entities.ProviderCardCheckout,
		ExternalID:       "ord_1",
		AmountMinorUnits: 2500,
		Currency:         entities.CurrencyBRL,
		Description:      "Order 1",
	}
}

func newGatewayMock(ctrl *gomock.Controller, p entities.Provider) *mock_interfaces.MockIPaymentGateway {
	g := mock_interfaces.NewMockIPaymentGateway(ctrl)
	g.EXPECT().Provider().Return(p).AnyTimes()
	return g
}

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func TestPaymentUseCase_CreatePayment_Validations(t *testing.T) {
	t.Run("invalid amount never reaches the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := newGatewayMock(ctrl, entities.ProviderCardCheckout)
		uc := NewPaymentUseCase([]interfaces.IPaymentGateway{gateway}, nil, RetryPolicy{}, nil)

		req := validRequest()
		req.AmountMinorUnits = 10
		_, err := uc.CreatePayment(context.Background(), req)
		if !errors.Is(err, entities.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := newGatewayMock(ctrl, entities.ProviderCardCheckout)
		uc := NewPaymentUseCase([]interfaces.IPaymentGateway{gateway}, nil, RetryPolicy{}, nil)

		req := validRequest()
		req.Provider = "cash"
		_, err := uc.CreatePayment(context.Background(), req)
		if !errors.Is(err, entities.ErrUnsupportedProvider) {
			t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
		}
	})

	t.Run("valid provider without a registered gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := newGatewayMock(ctrl, entities.ProviderCardCheckout)
		uc := NewPaymentUseCase([]interfaces.IPaymentGateway{gateway}, nil, RetryPolicy{}, nil)

		req := validRequest()
		req.Provider = entities.ProviderWalletBilling
		_, err := uc.CreatePayment(context.Background(), req)
		if !errors.Is(err, entities.ErrUnsupportedProvider) {
			t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
		}
	})
}

func TestPaymentUseCase_CreatePayment_Gateway(t *testing.T) {
	t.Run("success persists the record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := newGatewayMock(ctrl, entities.ProviderCardCheckout)
		repo := memory.NewPaymentRepository()
		counters := &metrics.Counters{}
		uc := NewPaymentUseCase([]interfaces.IPaymentGateway{gateway}, repo, RetryPolicy{}, counters)

		gateway.EXPECT().CreatePayment(gomock.Any(), validRequest()).Return(entities.PaymentResult{
			Provider:         entities.ProviderCardCheckout,
			PaymentID:        "cs_1",
			AmountMinorUnits: 2500,
			Currency:         entities.CurrencyBRL,
			RedirectURL:      "https://checkout.example/cs_1",
		}, nil)

		res, err := uc.CreatePayment(context.Background(), validRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.StatusPending {
			t.Fatalf("expected pending status, got %s", res.Status)
		}

		stored, err := repo.GetByID(context.Background(), "cs_1")
		if err != nil || stored.ExternalID != "ord_1" || stored.Status != entities.StatusPending {
			t.Fatalf("unexpected stored record %+v err=%v", stored, err)
		}
		if got := counters.Snapshot().PaymentsCreated; got != 1 {
			t.Fatalf("expected 1 created payment, got %d", got)
		}
	})

	t.Run("configuration error is not retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := newGatewayMock(ctrl, entities.ProviderPixBilling)
		uc := NewPaymentUseCase([]interfaces.IPaymentGateway{gateway}, nil, RetryPolicy{MaxAttempts: 3}, nil)
		uc.sleep = noSleep

		req := validRequest()
		req.Provider = entities.ProviderPixBilling
		gateway.EXPECT().CreatePayment(gomock.Any(), req).
			Return(entities.PaymentResult{}, entities.NewProviderError(entities.ErrProviderConfiguration, req.Provider, req.ExternalID, "create payment", nil)).
			Times(1)

		_, err := uc.CreatePayment(context.Background(), req)
		if !errors.Is(err, entities.ErrProviderConfiguration) {
			t.Fatalf("expected ErrProviderConfiguration, got %v", err)
		}
	})

	t.Run("request error is retried with the same external id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := newGatewayMock(ctrl, entities.ProviderCardCheckout)
		counters := &metrics.Counters{}
		uc := NewPaymentUseCase([]interfaces.IPaymentGateway{gateway}, nil, RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, counters)
		uc.sleep = noSleep

		upstream := entities.NewProviderError(entities.ErrProviderRequest, entities.ProviderCardCheckout, "ord_1", "create payment", errors.New("timeout"))
		gomock.InOrder(
			gateway.EXPECT().CreatePayment(gomock.Any(), validRequest()).Return(entities.PaymentResult{}, upstream),
			gateway.EXPECT().CreatePayment(gomock.Any(), validRequest()).Return(entities.PaymentResult{Provider: entities.ProviderCardCheckout, PaymentID: "cs_2", Status: entities.StatusPending}, nil),
		)

		res, err := uc.CreatePayment(context.Background(), validRequest())
		if err != nil || res.PaymentID != "cs_2" {
			t.Fatalf("expected retry success, got res=%+v err=%v", res, err)
		}
		if got := counters.Snapshot().PaymentRetries; got != 1 {
			t.Fatalf("expected 1 retry, got %d", got)
		}
	})

	t.Run("request error keeps its kind after the last attempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := newGatewayMock(ctrl, entities.ProviderCardCheckout)
		uc := NewPaymentUseCase([]interfaces.IPaymentGateway{gateway}, nil, RetryPolicy{MaxAttempts: 2}, nil)
		uc.sleep = noSleep

		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(entities.PaymentResult{}, errors.New("connection reset")).Times(2)

		_, err := uc.CreatePayment(context.Background(), validRequest())
		if !errors.Is(err, entities.ErrProviderRequest) {
			t.Fatalf("expected ErrProviderRequest, got %v", err)
		}
		var pe *entities.ProviderError
		if !errors.As(err, &pe) || pe.ExternalID != "ord_1" || pe.Provider != entities.ProviderCardCheckout {
			t.Fatalf("expected provider context on error, got %v", err)
		}
	})

	t.Run("cancelled context stops the retry loop", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := newGatewayMock(ctrl, entities.ProviderCardCheckout)
		uc := NewPaymentUseCase([]interfaces.IPaymentGateway{gateway}, nil, RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ entities.PaymentRequest) (entities.PaymentResult, error) {
			cancel()
			return entities.PaymentResult{}, entities.ErrProviderRequest
		}).Times(1)

		_, err := uc.CreatePayment(ctx, validRequest())
		if !errors.Is(err, context.Canceled) || !errors.Is(err, entities.ErrProviderRequest) {
			t.Fatalf("expected cancelled provider request, got %v", err)
		}
	})

	t.Run("persist failure does not fail the payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := newGatewayMock(ctrl, entities.ProviderCardCheckout)
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		counters := &metrics.Counters{}
		uc := NewPaymentUseCase([]interfaces.IPaymentGateway{gateway}, repo, RetryPolicy{}, counters)

		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(entities.PaymentResult{Provider: entities.ProviderCardCheckout, PaymentID: "cs_3"}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentRecord{}, entities.ErrStorage)

		if _, err := uc.CreatePayment(context.Background(), validRequest()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := counters.Snapshot().PaymentPersistFailed; got != 1 {
			t.Fatalf("expected 1 persist failure, got %d", got)
		}
	})
}

func TestPaymentUseCase_GetPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
	uc := NewPaymentUseCase(nil, repo, RetryPolicy{}, nil)

	if _, err := uc.GetPayment(context.Background(), " "); !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.PaymentRecord{}, nil)
	if _, err := uc.GetPayment(context.Background(), "missing"); !errors.Is(err, entities.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}

	repo.EXPECT().GetByID(gomock.Any(), "cs_1").Return(entities.PaymentRecord{ID: "cs_1"}, nil)
	p, err := uc.GetPayment(context.Background(), "cs_1")
	if err != nil || p.ID != "cs_1" {
		t.Fatalf("unexpected result %+v err=%v", p, err)
	}
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}
	cases := map[int]time.Duration{
		0: 100 * time.Millisecond,
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 300 * time.Millisecond,
		9: 300 * time.Millisecond,
	}
	for attempt, want := range cases {
		if got := p.Delay(attempt); got != want {
			t.Fatalf("attempt %d: expected %s got %s", attempt, want, got)
		}
	}
}
