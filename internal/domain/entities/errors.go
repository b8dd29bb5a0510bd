package entities

import (
	"errors"
	"fmt"
	"regexp"
)

// Error kinds shared by adapters, verifiers and use cases. Callers match them with errors.Is;
// ProviderError only adds context and never changes the kind.
var (
	ErrValidation            = errors.New("validation error")
	ErrProviderConfiguration = errors.New("provider configuration error")
	ErrProviderRequest       = errors.New("provider request error")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrMalformedPayload      = errors.New("malformed webhook payload")
	ErrUnsupportedProvider   = errors.New("unsupported payment provider")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrStorage               = errors.New("storage error")
	ErrNotify                = errors.New("notification error")
)

// ProviderError carries the provider and external id of a failed operation.
type ProviderError struct {
	Kind       error
	Provider   Provider
	ExternalID string
	Op         string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Provider != "" {
		msg += " provider=" + string(e.Provider)
	}
	if e.ExternalID != "" {
		msg += " external_id=" + e.ExternalID
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	out := []error{e.Kind}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewProviderError wraps err under kind. A nil kind is taken from err when err
// already carries one of the kinds above.
func NewProviderError(kind error, provider Provider, externalID, op string, err error) *ProviderError {
	if kind == nil {
		kind = KindOf(err)
	}
	return &ProviderError{Kind: kind, Provider: provider, ExternalID: externalID, Op: op, Err: err}
}

// KindOf returns the taxonomy kind carried by err, or nil.
func KindOf(err error) error {
	for _, k := range []error{
		ErrValidation,
		ErrProviderConfiguration,
		ErrProviderRequest,
		ErrInvalidSignature,
		ErrMalformedPayload,
		ErrUnsupportedProvider,
		ErrPaymentNotFound,
		ErrStorage,
		ErrNotify,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KindOr is KindOf with a fallback for errors that carry no kind.
func KindOr(err error, def error) error {
	if k := KindOf(err); k != nil {
		return k
	}
	return def
}

var secretPattern = regexp.MustCompile(`(?i)(sk_(live|test)_[0-9a-z]+|rk_(live|test)_[0-9a-z]+|whsec_[0-9a-z]+|(APP_USR|TEST)-[0-9a-z-]{16,}|Bearer\s+[0-9a-z._-]+)`)

// RedactSecrets masks API keys and bearer tokens found in upstream error text.
func RedactSecrets(msg string) string {
	return secretPattern.ReplaceAllString(msg, "[redacted]")
}
