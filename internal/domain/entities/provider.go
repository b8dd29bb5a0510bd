package entities

import "strings"

// Provider identifies one of the compiled-in payment providers.
//
// The set is closed: adding a provider means adding an adapter, a verifier and a
// status table, so there is no runtime registration.

type Provider string

const (
	ProviderCardCheckout  Provider = "card_checkout"
	ProviderPixBilling    Provider = "pix_billing"
	ProviderWalletBilling Provider = "wallet_billing"
)

// Providers lists every supported provider in a stable order.
func Providers() []Provider {
	return []Provider{ProviderCardCheckout, ProviderPixBilling, ProviderWalletBilling}
}

func (p Provider) IsValid() bool {
	switch p {
	case ProviderCardCheckout, ProviderPixBilling, ProviderWalletBilling:
		return true
	}
	return false
}

func (p Provider) String() string {
	return string(p)
}

// ParseProvider accepts the wire value, case-insensitive.
func ParseProvider(raw string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", ErrUnsupportedProvider
	}
	return p, nil
}
