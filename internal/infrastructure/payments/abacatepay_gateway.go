package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/config"
	"payment_gateway/internal/usecase/interfaces"
)

var defaultAbacatePayMethods = []string{"PIX"}

// maxAbacateResponseBytes bounds single-object responses; the billing listing is streamed.
const maxAbacateResponseBytes = 1 << 20

type abacateCustomer struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Cellphone string `json:"cellphone,omitempty"`
	TaxID     string `json:"taxId,omitempty"`
}

type abacateProduct struct {
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      int64  `json:"price"`
}

type abacateBillingRequest struct {
	Frequency     string           `json:"frequency"`
	Methods       []string         `json:"methods"`
	Products      []abacateProduct `json:"products"`
	ReturnURL     string           `json:"returnUrl"`
	CompletionURL string           `json:"completionUrl"`
	Customer      *abacateCustomer `json:"customer,omitempty"`
}

type abacateBilling struct {
	ID       string           `json:"id"`
	URL      string           `json:"url"`
	Amount   int64            `json:"amount"`
	Status   string           `json:"status"`
	DevMode  bool             `json:"devMode"`
	Products []abacateProduct `json:"products"`
}

type abacateEnvelope[T any] struct {
	Data  T       `json:"data"`
	Error *string `json:"error"`
}

// AbacatePayGateway creates one-time PIX billings for the WalletBilling provider.
// AbacatePay has no Go SDK, so the two endpoints are called directly.
type AbacatePayGateway struct {
	http *http.Client
	cfg  config.AbacatePayConfig
	now  func() time.Time
}

var (
	_ interfaces.IPaymentGateway       = (*AbacatePayGateway)(nil)
	_ interfaces.IPaymentStatusFetcher = (*AbacatePayGateway)(nil)
)

func NewAbacatePayGateway(cfg config.AbacatePayConfig) *AbacatePayGateway {
	if cfg.APIToken == "" {
		log.Printf("[payment][abacatepay] missing ABACATEPAY_API_TOKEN; wallet_billing payments will fail")
	}
	return &AbacatePayGateway{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (g *AbacatePayGateway) Provider() entities.Provider {
	return entities.ProviderWalletBilling
}

func (g *AbacatePayGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	if g.cfg.APIToken == "" {
		return entities.PaymentResult{}, configurationError(g.Provider(), req.ExternalID, "abacatepay api token is not configured")
	}
	if req.Currency != entities.CurrencyBRL {
		return entities.PaymentResult{}, entities.NewProviderError(entities.ErrValidation, g.Provider(), req.ExternalID, "create payment",
			fmt.Errorf("abacatepay only settles BRL, got %s", req.Currency))
	}

	body := abacateBillingRequest{
		Frequency: "ONE_TIME",
		Methods:   g.cfg.Methods.For(req.Currency, defaultAbacatePayMethods),
		Products: []abacateProduct{{
			ExternalID: req.ExternalID,
			Name:       req.Description,
			Quantity:   1,
			Price:      req.AmountMinorUnits,
		}},
		ReturnURL:     g.cfg.ReturnBaseURL + "/payment/cancel?external_id=" + url.QueryEscape(req.ExternalID),
		CompletionURL: g.cfg.ReturnBaseURL + "/payment/success?external_id=" + url.QueryEscape(req.ExternalID),
	}
	if c := req.Customer; c != nil {
		body.Customer = &abacateCustomer{Name: c.Name, Email: c.Email, Cellphone: c.Phone, TaxID: c.TaxID}
	}

	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	log.Printf("[payment][abacatepay] create billing start external_id=%s amount=%d", req.ExternalID, req.AmountMinorUnits)
	var out abacateEnvelope[abacateBilling]
	raw, err := g.do(ctx, http.MethodPost, "/v1/billing/create", body, &out)
	if err != nil {
		log.Printf("[payment][abacatepay] create billing failed external_id=%s err=%s", req.ExternalID, entities.RedactSecrets(err.Error()))
		return entities.PaymentResult{}, g.classify(req.ExternalID, "create payment", err)
	}
	if out.Data.ID == "" {
		return entities.PaymentResult{}, requestError(g.Provider(), req.ExternalID, "create payment", errors.New("empty billing response"))
	}
	log.Printf("[payment][abacatepay] create billing success external_id=%s billing_id=%s dev_mode=%t", req.ExternalID, out.Data.ID, out.Data.DevMode)

	// The billing API has no expiry field; the configured window is enforced on our side.
	return entities.PaymentResult{
		Provider:         g.Provider(),
		PaymentID:        out.Data.ID,
		Status:           entities.StatusPending,
		AmountMinorUnits: req.AmountMinorUnits,
		Currency:         req.Currency,
		RedirectURL:      out.Data.URL,
		ExpiresAt:        expiryAfter(g.now(), g.cfg.BillingExpiry),
		Raw:              raw,
	}, nil
}

// FetchPaymentStatus looks the billing up in the account listing, the only read
// endpoint AbacatePay exposes.
func (g *AbacatePayGateway) FetchPaymentStatus(ctx context.Context, subjectID string) (entities.StatusSnapshot, error) {
	if g.cfg.APIToken == "" {
		return entities.StatusSnapshot{}, entities.NewProviderError(entities.ErrProviderConfiguration, g.Provider(), "", "fetch payment status", errors.New("abacatepay api token is not configured"))
	}

	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.send(ctx, http.MethodGet, "/v1/billing/list", nil)
	if err != nil {
		log.Printf("[payment][abacatepay] list billings failed billing_id=%s err=%s", subjectID, entities.RedactSecrets(err.Error()))
		return entities.StatusSnapshot{}, g.classify("", "fetch payment status", err)
	}
	defer resp.Body.Close()

	b, found, err := findBilling(resp.Body, subjectID)
	if err != nil {
		log.Printf("[payment][abacatepay] list billings failed billing_id=%s err=%s", subjectID, entities.RedactSecrets(err.Error()))
		return entities.StatusSnapshot{}, g.classify("", "fetch payment status", err)
	}
	if !found {
		return entities.StatusSnapshot{}, fmt.Errorf("%w: abacatepay billing %s", entities.ErrPaymentNotFound, subjectID)
	}
	snap := entities.StatusSnapshot{SubjectID: b.ID, ProviderStatus: b.Status}
	if len(b.Products) > 0 {
		snap.Reference = b.Products[0].ExternalID
	}
	return snap, nil
}

// findBilling streams the listing envelope and stops at the first billing with
// the given id. The listing is unpaginated and grows with the account.
func findBilling(r io.Reader, id string) (abacateBilling, bool, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return abacateBilling{}, false, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return abacateBilling{}, false, fmt.Errorf("decode abacatepay response: %w", err)
		}
		switch tok {
		case "data":
			b, found, err := scanBillings(dec, id)
			if err != nil || found {
				return b, found, err
			}
		case "error":
			var msg *string
			if err := dec.Decode(&msg); err != nil {
				return abacateBilling{}, false, fmt.Errorf("decode abacatepay response: %w", err)
			}
			if msg != nil && *msg != "" {
				return abacateBilling{}, false, &abacateHTTPError{status: http.StatusOK, msg: *msg}
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return abacateBilling{}, false, fmt.Errorf("decode abacatepay response: %w", err)
			}
		}
	}
	return abacateBilling{}, false, nil
}

func scanBillings(dec *json.Decoder, id string) (abacateBilling, bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return abacateBilling{}, false, fmt.Errorf("decode abacatepay response: %w", err)
	}
	if tok == nil {
		return abacateBilling{}, false, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return abacateBilling{}, false, fmt.Errorf("decode abacatepay response: data is not a list")
	}
	for dec.More() {
		var b abacateBilling
		if err := dec.Decode(&b); err != nil {
			return abacateBilling{}, false, fmt.Errorf("decode abacatepay response: %w", err)
		}
		if b.ID == id {
			return b, true, nil
		}
	}
	if _, err := dec.Token(); err != nil {
		return abacateBilling{}, false, fmt.Errorf("decode abacatepay response: %w", err)
	}
	return abacateBilling{}, false, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode abacatepay response: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("decode abacatepay response: expected %q", want)
	}
	return nil
}

type abacateHTTPError struct {
	status int
	msg    string
}

func (e *abacateHTTPError) Error() string {
	return fmt.Sprintf("abacatepay returned status=%d: %s", e.status, e.msg)
}

// send returns the open response of a 2xx call; any other status is read into
// an abacateHTTPError.
func (g *AbacatePayGateway) send(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var reader io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIToken)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxAbacateResponseBytes))
		return nil, &abacateHTTPError{status: resp.StatusCode, msg: string(raw)}
	}
	return resp, nil
}

func (g *AbacatePayGateway) do(ctx context.Context, method, path string, in any, out any) ([]byte, error) {
	resp, err := g.send(ctx, method, path, in)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAbacateResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxAbacateResponseBytes {
		return nil, fmt.Errorf("abacatepay response exceeds %d bytes", maxAbacateResponseBytes)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode abacatepay response: %w", err)
	}

	var env abacateEnvelope[json.RawMessage]
	if json.Unmarshal(raw, &env) == nil && env.Error != nil && *env.Error != "" {
		return nil, &abacateHTTPError{status: resp.StatusCode, msg: *env.Error}
	}
	return raw, nil
}

func (g *AbacatePayGateway) classify(externalID, op string, err error) error {
	var he *abacateHTTPError
	if errors.As(err, &he) && (he.status == http.StatusUnauthorized || he.status == http.StatusForbidden) {
		return entities.NewProviderError(entities.ErrProviderConfiguration, g.Provider(), externalID, op, errors.New(entities.RedactSecrets(he.Error())))
	}
	return requestError(g.Provider(), externalID, op, err)
}
