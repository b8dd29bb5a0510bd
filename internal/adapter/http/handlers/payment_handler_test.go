package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payment_gateway/internal/adapter/http/handlers/mocks"
	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

const validPaymentBody = `{"provider":"card_checkout","external_id":"ord_1","amount":2500,"currency":"BRL","description":"Order 1"}`

func newPaymentRouter(h *PaymentHandler) *gin.Engine {
	r := gin.New()
	r.POST("/v1/payments", h.CreatePayment)
	r.GET("/v1/payments/:id", h.GetPayment)
	return r
}

func TestPaymentHandler_CreatePayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc))

		req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown provider never reaches the usecase", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc))

		body := `{"provider":"cash","external_id":"ord_1","amount":2500,"currency":"BRL","description":"Order 1"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("ambiguous amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc))

		body := `{"provider":"card_checkout","external_id":"ord_1","amount":2500,"amount_decimal":"25.00","currency":"BRL","description":"Order 1"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("provider failure maps to 502", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc))

		uc.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			Return(entities.PaymentResult{}, entities.NewProviderError(entities.ErrProviderRequest, entities.ProviderCardCheckout, "ord_1", "create payment", errors.New("timeout")))

		req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString(validPaymentBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc))

		uc.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, req entities.PaymentRequest) (entities.PaymentResult, error) {
			if req.AmountMinorUnits != 2500 || req.Currency != entities.CurrencyBRL || req.ExternalID != "ord_1" {
				t.Fatalf("unexpected request: %+v", req)
			}
			return entities.PaymentResult{
				Provider:         entities.ProviderCardCheckout,
				PaymentID:        "cs_1",
				Status:           entities.StatusPending,
				AmountMinorUnits: 2500,
				Currency:         entities.CurrencyBRL,
				RedirectURL:      "https://checkout.example/cs_1",
			}, nil
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString(validPaymentBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["payment_id"] != "cs_1" || body["redirect_url"] != "https://checkout.example/cs_1" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestPaymentHandler_GetPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc))

		uc.EXPECT().GetPayment(gomock.Any(), "cs_9").Return(entities.PaymentRecord{}, entities.ErrPaymentNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/cs_9", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc))

		now := time.Now().UTC()
		uc.EXPECT().GetPayment(gomock.Any(), "cs_1").Return(entities.PaymentRecord{
			ID:               "cs_1",
			ExternalID:       "ord_1",
			Provider:         entities.ProviderCardCheckout,
			Status:           entities.StatusCompleted,
			AmountMinorUnits: 2500,
			Currency:         entities.CurrencyBRL,
			CreatedAt:        now,
			UpdatedAt:        now,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/cs_1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "completed" || body["amount_decimal"] != "25.00" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestMapPaymentError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{entities.ErrValidation, http.StatusBadRequest},
		{entities.ErrUnsupportedProvider, http.StatusNotFound},
		{entities.ErrPaymentNotFound, http.StatusNotFound},
		{entities.NewProviderError(entities.ErrProviderConfiguration, entities.ProviderPixBilling, "ord_1", "create payment", nil), http.StatusServiceUnavailable},
		{entities.NewProviderError(entities.ErrProviderRequest, entities.ProviderPixBilling, "ord_1", "create payment", nil), http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := mapPaymentError(tc.err)
		if got.HTTPStatus != tc.code {
			t.Fatalf("for err %v expected %d got %d", tc.err, tc.code, got.HTTPStatus)
		}
	}
}

func TestMetricsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	counters := &metrics.Counters{}
	counters.IncPaymentsCreated()
	counters.IncWebhooksDuplicate()

	r := gin.New()
	r.GET("/v1/metrics", NewMetricsHandler(counters).GetMetrics)
	r.GET("/v1/ping", Ping)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var snap metrics.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.PaymentsCreated != 1 || snap.WebhooksDuplicate != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
