package payments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/config"
)

func stripeTestConfig(url string) config.StripeConfig {
	return config.StripeConfig{
		SecretKey:      "sk_test_123",
		APIURL:         url,
		Timeout:        5 * time.Second,
		CheckoutExpiry: time.Hour,
		PaymentMethods: config.CurrencyMethods{entities.CurrencyBRL: {"card", "boleto"}},
		ReturnBaseURL:  "https://shop.example",
	}
}

func cardRequest() entities.PaymentRequest {
	return entities.PaymentRequest{
		Provider:         entities.ProviderCardCheckout,
		ExternalID:       "ord_1",
		AmountMinorUnits: 2500,
		Currency:         entities.CurrencyBRL,
		Description:      "Order 1",
		Customer:         &entities.Customer{Email: "buyer@example.com"},
	}
}

func TestStripeCheckoutGateway_CreatePayment_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "ord_1" {
			t.Fatalf("expected idempotency key ord_1, got %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		want := map[string]string{
			"mode":                  "payment",
			"client_reference_id":   "ord_1",
			"metadata[external_id]": "ord_1",
			"payment_intent_data[metadata][external_id]": "ord_1",
			"line_items[0][price_data][unit_amount]":     "2500",
			"line_items[0][price_data][currency]":        "brl",
			"payment_method_types[0]":                    "card",
			"payment_method_types[1]":                    "boleto",
			"customer_email":                             "buyer@example.com",
		}
		for k, v := range want {
			if got := r.PostForm.Get(k); got != v {
				t.Fatalf("form %s: expected %q, got %q", k, v, got)
			}
		}
		if r.PostForm.Get("expires_at") == "" {
			t.Fatalf("expires_at must be set")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1","status":"open","payment_status":"unpaid","expires_at":1893456000}`))
	}))
	defer srv.Close()

	g := NewStripeCheckoutGateway(stripeTestConfig(srv.URL))
	res, err := g.CreatePayment(context.Background(), cardRequest())
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if res.Status != entities.StatusPending {
		t.Fatalf("expected pending, got %s", res.Status)
	}
	if res.PaymentID != "cs_test_1" || res.RedirectURL == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.AmountMinorUnits != 2500 || res.Currency != entities.CurrencyBRL {
		t.Fatalf("amount/currency must echo the request, got %d %s", res.AmountMinorUnits, res.Currency)
	}
	if res.ExpiresAt == nil || res.ExpiresAt.Unix() != 1893456000 {
		t.Fatalf("unexpected expiry %v", res.ExpiresAt)
	}
}

func TestStripeCheckoutGateway_CreatePayment_EscapesCancelURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		want := "https://shop.example/payment/cancel?external_id=ord_1%26coupon%3Dfree"
		if got := r.PostForm.Get("cancel_url"); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_2","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_2","status":"open"}`))
	}))
	defer srv.Close()

	req := cardRequest()
	req.ExternalID = "ord_1&coupon=free"
	if _, err := NewStripeCheckoutGateway(stripeTestConfig(srv.URL)).CreatePayment(context.Background(), req); err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
}

func TestStripeCheckoutGateway_MissingKeyIsConfigurationError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { atomic.AddInt32(&calls, 1) }))
	defer srv.Close()

	cfg := stripeTestConfig(srv.URL)
	cfg.SecretKey = ""
	_, err := NewStripeCheckoutGateway(cfg).CreatePayment(context.Background(), cardRequest())
	if !errors.Is(err, entities.ErrProviderConfiguration) {
		t.Fatalf("expected ErrProviderConfiguration, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("no request may be sent without credentials")
	}
}

func TestStripeCheckoutGateway_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "server error", status: http.StatusInternalServerError, want: entities.ErrProviderRequest},
		{name: "bad request", status: http.StatusBadRequest, want: entities.ErrProviderRequest},
		{name: "unauthorized", status: http.StatusUnauthorized, want: entities.ErrProviderConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided: sk_test_123"}}`))
			}))
			defer srv.Close()

			_, err := NewStripeCheckoutGateway(stripeTestConfig(srv.URL)).CreatePayment(context.Background(), cardRequest())
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var pe *entities.ProviderError
			if !errors.As(err, &pe) || pe.ExternalID != "ord_1" || pe.Provider != entities.ProviderCardCheckout {
				t.Fatalf("error must carry provider and external id, got %v", err)
			}
			if strings.Contains(err.Error(), "sk_test_123") {
				t.Fatalf("secret leaked into error: %v", err)
			}
		})
	}
}
