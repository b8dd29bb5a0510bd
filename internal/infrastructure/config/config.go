package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
)

// Config is built once at startup and handed to every component constructor.
// No other package reads the environment.
//
// Supported env vars (local-friendly defaults):
//   - PORT (default: 8080)
//   - RETURN_BASE_URL (default: http://localhost:8080)
//   - PROVIDER_TIMEOUT (default: 15s)
//   - PAYMENT_MAX_ATTEMPTS / PAYMENT_RETRY_BASE_DELAY / PAYMENT_RETRY_MAX_DELAY
//   - PAYMENT_GATEWAY_MOCK (1/true/yes/on/mock)
//   - STRIPE_PRIVATE_KEY, STRIPE_WEBHOOK_SECRET, STRIPE_PAYMENT_METHODS, STRIPE_CHECKOUT_EXPIRY
//   - MP_ACCESS_TOKEN, MP_NOTIFICATION_URL, MP_NOTIFICATION_SECRET, MP_SENTINEL_ID,
//     MP_EXCLUDED_PAYMENT_TYPES, MP_PREFERENCE_EXPIRY
//   - ABACATEPAY_API_TOKEN, ABACATEPAY_BASE_URL, ABACATEPAY_WEBHOOK_SECRET, ABACATEPAY_METHODS,
//     ABACATEPAY_BILLING_EXPIRY
//   - STORAGE_DRIVER (dynamodb|memory), PAYMENTS_TABLE, PROCESSED_EVENTS_TABLE, WEBHOOK_CLAIM_LEASE
//   - AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, DYNAMODB_ENDPOINT
//   - EMAIL_HOST, EMAIL_PORT, EMAIL_USER, EMAIL_PASS, PAYMENT_NOTIFY_TO, EMAIL_TIMEOUT
type Config struct {
	Port          int
	ReturnBaseURL string
	MockMode      bool

	Retry RetryConfig

	Stripe      StripeConfig
	MercadoPago MercadoPagoConfig
	AbacatePay  AbacatePayConfig

	Storage StorageConfig
	Email   EmailConfig
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// CurrencyMethods maps a currency to the provider payment instruments offered for it.
type CurrencyMethods map[entities.Currency][]string

// For returns the instruments configured for c, falling back to def.
func (m CurrencyMethods) For(c entities.Currency, def []string) []string {
	if v, ok := m[c]; ok && len(v) > 0 {
		return v
	}
	return def
}

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	APIURL         string
	Timeout        time.Duration
	CheckoutExpiry time.Duration
	PaymentMethods CurrencyMethods
	ReturnBaseURL  string
}

type MercadoPagoConfig struct {
	AccessToken          string
	NotificationURL      string
	WebhookSecret        string
	SentinelID           string
	Timeout              time.Duration
	PreferenceExpiry     time.Duration
	ExcludedPaymentTypes CurrencyMethods
	ReturnBaseURL        string
}

type AbacatePayConfig struct {
	APIToken      string
	BaseURL       string
	WebhookSecret string
	Timeout       time.Duration
	BillingExpiry time.Duration
	Methods       CurrencyMethods
	ReturnBaseURL string
}

type StorageConfig struct {
	Driver               string
	PaymentsTable        string
	ProcessedEventsTable string
	ClaimLease           time.Duration

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	NotifyTo string
	Timeout  time.Duration
}

// Enabled reports whether every SMTP setting is present.
func (e EmailConfig) Enabled() bool {
	return e.Host != "" && e.Port > 0 && e.User != "" && e.Pass != ""
}

const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

// Load reads the process environment.
func Load() Config {
	return LoadFrom(os.Getenv)
}

// LoadFrom builds a Config from an arbitrary lookup, which keeps tests away from os.Setenv.
func LoadFrom(getenv func(string) string) Config {
	env := lookup(getenv)

	returnBase := strings.TrimRight(env.str("RETURN_BASE_URL", "http://localhost:8080"), "/")
	timeout := env.duration("PROVIDER_TIMEOUT", 15*time.Second)

	cfg := Config{
		Port:          env.number("PORT", 8080),
		ReturnBaseURL: returnBase,
		MockMode:      env.flag("PAYMENT_GATEWAY_MOCK") || env.flag("MERCADOPAGO_MOCK"),
		Retry: RetryConfig{
			MaxAttempts: env.number("PAYMENT_MAX_ATTEMPTS", 1),
			BaseDelay:   env.duration("PAYMENT_RETRY_BASE_DELAY", 200*time.Millisecond),
			MaxDelay:    env.duration("PAYMENT_RETRY_MAX_DELAY", 2*time.Second),
		},
		Stripe: StripeConfig{
			SecretKey:      env.str("STRIPE_PRIVATE_KEY", ""),
			WebhookSecret:  env.str("STRIPE_WEBHOOK_SECRET", ""),
			APIURL:         env.str("STRIPE_API_URL", ""),
			Timeout:        timeout,
			CheckoutExpiry: env.duration("STRIPE_CHECKOUT_EXPIRY", time.Hour),
			PaymentMethods: parseCurrencyMethods(env.str("STRIPE_PAYMENT_METHODS", "BRL=card,boleto;USD=card;EUR=card,sepa_debit")),
			ReturnBaseURL:  returnBase,
		},
		MercadoPago: MercadoPagoConfig{
			AccessToken:          env.str("MP_ACCESS_TOKEN", env.str("MERCADOPAGO_ACCESS_TOKEN", "")),
			NotificationURL:      env.str("MP_NOTIFICATION_URL", ""),
			WebhookSecret:        env.str("MP_NOTIFICATION_SECRET", ""),
			SentinelID:           env.str("MP_SENTINEL_ID", "123456"),
			Timeout:              timeout,
			PreferenceExpiry:     env.duration("MP_PREFERENCE_EXPIRY", 24*time.Hour),
			ExcludedPaymentTypes: parseCurrencyMethods(env.str("MP_EXCLUDED_PAYMENT_TYPES", "BRL=ticket;USD=ticket,bank_transfer;EUR=ticket,bank_transfer")),
			ReturnBaseURL:        returnBase,
		},
		AbacatePay: AbacatePayConfig{
			APIToken:      env.str("ABACATEPAY_API_TOKEN", ""),
			BaseURL:       strings.TrimRight(env.str("ABACATEPAY_BASE_URL", "https://api.abacatepay.com"), "/"),
			WebhookSecret: env.str("ABACATEPAY_WEBHOOK_SECRET", ""),
			Timeout:       timeout,
			BillingExpiry: env.duration("ABACATEPAY_BILLING_EXPIRY", 24*time.Hour),
			Methods:       parseCurrencyMethods(env.str("ABACATEPAY_METHODS", "BRL=PIX")),
			ReturnBaseURL: returnBase,
		},
		Storage: StorageConfig{
			Driver:               strings.ToLower(env.str("STORAGE_DRIVER", StorageDynamoDB)),
			PaymentsTable:        env.str("PAYMENTS_TABLE", "payments"),
			ProcessedEventsTable: env.str("PROCESSED_EVENTS_TABLE", "processed_events"),
			ClaimLease:           env.duration("WEBHOOK_CLAIM_LEASE", 2*time.Minute),
			AWSRegion:            env.str("AWS_REGION", "us-east-1"),
			AWSAccessKeyID:       env.str("AWS_ACCESS_KEY_ID", "local"),
			AWSSecretAccessKey:   env.str("AWS_SECRET_ACCESS_KEY", "local"),
			DynamoDBEndpoint:     env.str("DYNAMODB_ENDPOINT", ""),
		},
		Email: EmailConfig{
			Host:     env.str("EMAIL_HOST", ""),
			Port:     env.number("EMAIL_PORT", 0),
			User:     env.str("EMAIL_USER", ""),
			Pass:     env.str("EMAIL_PASS", ""),
			NotifyTo: env.str("PAYMENT_NOTIFY_TO", env.str("EMAIL_USER", "")),
			Timeout:  env.duration("EMAIL_TIMEOUT", 10*time.Second),
		},
	}

	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}
	return cfg
}

type lookup func(string) string

func (l lookup) str(key, def string) string {
	if v := strings.TrimSpace(l(key)); v != "" {
		return v
	}
	return def
}

func (l lookup) number(key string, def int) int {
	v := strings.TrimSpace(l(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid integer key=%s value=%q; using default=%d", key, v, def)
		return def
	}
	return n
}

func (l lookup) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(l(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid duration key=%s value=%q; using default=%s", key, v, def)
		return def
	}
	return d
}

func (l lookup) flag(key string) bool {
	switch strings.ToLower(strings.TrimSpace(l(key))) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

// parseCurrencyMethods reads "BRL=card,boleto;USD=card".
func parseCurrencyMethods(raw string) CurrencyMethods {
	out := CurrencyMethods{}
	for _, entry := range strings.Split(raw, ";") {
		code, list, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok {
			continue
		}
		c, err := entities.ParseCurrency(code)
		if err != nil {
			log.Printf("[config] ignoring methods for unsupported currency=%q", code)
			continue
		}
		var methods []string
		for _, m := range strings.Split(list, ",") {
			if m = strings.TrimSpace(m); m != "" {
				methods = append(methods, m)
			}
		}
		out[c] = methods
	}
	return out
}
