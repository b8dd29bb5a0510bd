package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/config"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Stripe refuses Checkout Sessions that expire sooner than this.
const minCheckoutExpiry = 30 * time.Minute

var defaultStripeMethods = []string{"card"}

// StripeCheckoutGateway creates hosted Checkout Sessions for the CardCheckout provider.
type StripeCheckoutGateway struct {
	api *client.API
	cfg config.StripeConfig
	now func() time.Time
}

var _ interfaces.IPaymentGateway = (*StripeCheckoutGateway)(nil)

// NewStripeCheckoutGateway never fails; a missing key surfaces as ErrProviderConfiguration
// on the first CreatePayment.
func NewStripeCheckoutGateway(cfg config.StripeConfig) *StripeCheckoutGateway {
	g := &StripeCheckoutGateway{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
	if cfg.SecretKey == "" {
		log.Printf("[payment][stripe] missing STRIPE_PRIVATE_KEY; card_checkout payments will fail")
		return g
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}

	sc := &client.API{}
	sc.Init(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	})
	g.api = sc
	log.Printf("[payment][stripe] client initialized")
	return g
}

func (g *StripeCheckoutGateway) Provider() entities.Provider {
	return entities.ProviderCardCheckout
}

func (g *StripeCheckoutGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	if g.api == nil {
		return entities.PaymentResult{}, configurationError(g.Provider(), req.ExternalID, "stripe secret key is not configured")
	}

	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	expiry := g.cfg.CheckoutExpiry
	if expiry < minCheckoutExpiry {
		expiry = minCheckoutExpiry
	}
	expiresAt := expiryAfter(g.now(), expiry)

	params := g.sessionParams(req, *expiresAt)
	params.Context = ctx
	params.SetIdempotencyKey(req.ExternalID)

	log.Printf("[payment][stripe] create session start external_id=%s amount=%d currency=%s", req.ExternalID, req.AmountMinorUnits, req.Currency)
	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		log.Printf("[payment][stripe] create session failed external_id=%s err=%s", req.ExternalID, entities.RedactSecrets(err.Error()))
		return entities.PaymentResult{}, g.classify(req.ExternalID, err)
	}

	raw, _ := json.Marshal(s)
	if s.ExpiresAt > 0 {
		t := time.Unix(s.ExpiresAt, 0).UTC()
		expiresAt = &t
	}
	log.Printf("[payment][stripe] create session success external_id=%s session_id=%s", req.ExternalID, s.ID)

	return entities.PaymentResult{
		Provider:         g.Provider(),
		PaymentID:        s.ID,
		Status:           entities.StatusPending,
		AmountMinorUnits: req.AmountMinorUnits,
		Currency:         req.Currency,
		RedirectURL:      s.URL,
		ExpiresAt:        expiresAt,
		Raw:              raw,
	}, nil
}

func (g *StripeCheckoutGateway) sessionParams(req entities.PaymentRequest, expiresAt time.Time) *stripe.CheckoutSessionParams {
	metadata := map[string]string{"external_id": req.ExternalID}
	for k, v := range req.Metadata {
		if k != "external_id" {
			metadata[k] = v
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(string(req.Currency))),
					UnitAmount: stripe.Int64(req.AmountMinorUnits),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID:  stripe.String(req.ExternalID),
		SuccessURL:         stripe.String(g.cfg.ReturnBaseURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(g.cfg.ReturnBaseURL + "/payment/cancel?external_id=" + url.QueryEscape(req.ExternalID)),
		ExpiresAt:          stripe.Int64(expiresAt.Unix()),
		PaymentMethodTypes: stripe.StringSlice(g.cfg.PaymentMethods.For(req.Currency, defaultStripeMethods)),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Description: stripe.String(req.Description),
			Metadata:    metadata,
		},
		Metadata: metadata,
	}
	if req.Customer != nil && req.Customer.Email != "" {
		params.CustomerEmail = stripe.String(req.Customer.Email)
	}
	if req.RequireShipping {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"BR", "US", "PT", "ES", "FR", "DE"}),
		}
	}
	return params
}

// classify maps authentication failures to configuration errors; everything else is a
// request error.
func (g *StripeCheckoutGateway) classify(externalID string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && (se.HTTPStatusCode == http.StatusUnauthorized || se.HTTPStatusCode == http.StatusForbidden) {
		return entities.NewProviderError(entities.ErrProviderConfiguration, g.Provider(), externalID, "create payment", errors.New(entities.RedactSecrets(se.Msg)))
	}
	return requestError(g.Provider(), externalID, "create payment", err)
}
