package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	appconfig "payment_gateway/internal/infrastructure/config"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentGetter interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// MercadoPagoGateway creates Checkout Pro preferences for the PixBilling provider and
// re-reads payment status for webhook reconciliation.
type MercadoPagoGateway struct {
	preferences preferenceCreator
	payments    paymentGetter
	cfg         appconfig.MercadoPagoConfig
	now         func() time.Time
}

var (
	_ interfaces.IPaymentGateway       = (*MercadoPagoGateway)(nil)
	_ interfaces.IPaymentStatusFetcher = (*MercadoPagoGateway)(nil)
)

func NewMercadoPagoGateway(cfg appconfig.MercadoPagoConfig) *MercadoPagoGateway {
	g := &MercadoPagoGateway{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
	if cfg.AccessToken == "" {
		log.Printf("[payment][mercadopago] missing MP_ACCESS_TOKEN; pix_billing payments will fail")
		return g
	}

	sdkCfg, err := config.New(cfg.AccessToken)
	if err != nil {
		log.Printf("[payment][mercadopago] failed creating sdk config err=%s", entities.RedactSecrets(err.Error()))
		return g
	}
	g.preferences = preference.NewClient(sdkCfg)
	g.payments = payment.NewClient(sdkCfg)
	log.Printf("[payment][mercadopago] client initialized")
	return g
}

func (g *MercadoPagoGateway) Provider() entities.Provider {
	return entities.ProviderPixBilling
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	if g.preferences == nil {
		return entities.PaymentResult{}, configurationError(g.Provider(), req.ExternalID, "mercado pago access token is not configured")
	}

	unitPrice, err := entities.FromMinorUnits(req.AmountMinorUnits, req.Currency)
	if err != nil {
		return entities.PaymentResult{}, entities.NewProviderError(entities.ErrValidation, g.Provider(), req.ExternalID, "create payment", err)
	}

	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	now := g.now()
	expiresAt := expiryAfter(now, g.cfg.PreferenceExpiry)

	log.Printf("[payment][mercadopago] create preference start external_id=%s amount=%d currency=%s", req.ExternalID, req.AmountMinorUnits, req.Currency)
	resp, err := g.preferences.Create(ctx, g.preferenceRequest(req, unitPrice.InexactFloat64(), now, *expiresAt))
	if err != nil {
		log.Printf("[payment][mercadopago] create preference failed external_id=%s err=%s", req.ExternalID, entities.RedactSecrets(err.Error()))
		return entities.PaymentResult{}, requestError(g.Provider(), req.ExternalID, "create payment", err)
	}
	if resp == nil || resp.ID == "" {
		return entities.PaymentResult{}, requestError(g.Provider(), req.ExternalID, "create payment", errors.New("empty preference response"))
	}

	raw, _ := json.Marshal(resp)
	log.Printf("[payment][mercadopago] create preference success external_id=%s preference_id=%s", req.ExternalID, resp.ID)

	return entities.PaymentResult{
		Provider:         g.Provider(),
		PaymentID:        resp.ID,
		Status:           entities.StatusPending,
		AmountMinorUnits: req.AmountMinorUnits,
		Currency:         req.Currency,
		RedirectURL:      resp.InitPoint,
		ExpiresAt:        expiresAt,
		Raw:              raw,
	}, nil
}

func (g *MercadoPagoGateway) preferenceRequest(req entities.PaymentRequest, unitPrice float64, now, expiresAt time.Time) preference.Request {
	metadata := map[string]any{"external_id": req.ExternalID}
	for k, v := range req.Metadata {
		if k != "external_id" {
			metadata[k] = v
		}
	}

	var excluded []preference.ExcludedPaymentTypeRequest
	for _, t := range g.cfg.ExcludedPaymentTypes.For(req.Currency, nil) {
		excluded = append(excluded, preference.ExcludedPaymentTypeRequest{ID: t})
	}

	pr := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         req.ExternalID,
				Title:      req.Description,
				Quantity:   1,
				UnitPrice:  unitPrice,
				CurrencyID: string(req.Currency),
			},
		},
		ExternalReference: req.ExternalID,
		Metadata:          metadata,
		BackURLs: &preference.BackURLsRequest{
			Success: g.cfg.ReturnBaseURL + "/payment/success?external_id=" + url.QueryEscape(req.ExternalID),
			Pending: g.cfg.ReturnBaseURL + "/payment/pending?external_id=" + url.QueryEscape(req.ExternalID),
			Failure: g.cfg.ReturnBaseURL + "/payment/cancel?external_id=" + url.QueryEscape(req.ExternalID),
		},
		NotificationURL:    g.cfg.NotificationURL,
		Expires:            true,
		ExpirationDateFrom: &now,
		ExpirationDateTo:   &expiresAt,
	}
	if len(excluded) > 0 {
		pr.PaymentMethods = &preference.PaymentMethodsRequest{ExcludedPaymentTypes: excluded}
	}
	if req.Customer != nil {
		pr.Payer = &preference.PayerRequest{Name: req.Customer.Name, Email: req.Customer.Email}
	}
	return pr
}

// FetchPaymentStatus reads a payment by the numeric id carried in webhook notifications.
func (g *MercadoPagoGateway) FetchPaymentStatus(ctx context.Context, subjectID string) (entities.StatusSnapshot, error) {
	if g.payments == nil {
		return entities.StatusSnapshot{}, entities.NewProviderError(entities.ErrProviderConfiguration, g.Provider(), "", "fetch payment status", errors.New("mercado pago access token is not configured"))
	}
	id, err := strconv.Atoi(strings.TrimSpace(subjectID))
	if err != nil {
		return entities.StatusSnapshot{}, fmt.Errorf("%w: mercado pago payment id %q is not numeric", entities.ErrMalformedPayload, subjectID)
	}

	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return entities.StatusSnapshot{}, fmt.Errorf("%w: mercado pago payment %d", entities.ErrPaymentNotFound, id)
		}
		log.Printf("[payment][mercadopago] get payment failed payment_id=%d err=%s", id, entities.RedactSecrets(err.Error()))
		return entities.StatusSnapshot{}, requestError(g.Provider(), "", "fetch payment status", err)
	}
	if resp == nil {
		return entities.StatusSnapshot{}, fmt.Errorf("%w: mercado pago payment %d", entities.ErrPaymentNotFound, id)
	}

	log.Printf("[payment][mercadopago] payment fetched payment_id=%d status=%s external_reference=%s", resp.ID, resp.Status, resp.ExternalReference)
	return entities.StatusSnapshot{
		SubjectID:      strconv.Itoa(resp.ID),
		Reference:      resp.ExternalReference,
		ProviderStatus: resp.Status,
	}, nil
}

// isNotFound trusts only the status code of an API response; transport errors
// carry the request URL and are never treated as a missing payment.
func isNotFound(err error) bool {
	var respErr *mperror.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
