package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code from the supported set.

type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

const (
	MinAmountMinorUnits int64 = 50
	MaxAmountMinorUnits int64 = 999_999_999
)

var minorUnitExponents = map[Currency]int32{
	CurrencyBRL: 2,
	CurrencyUSD: 2,
	CurrencyEUR: 2,
}

func (c Currency) IsValid() bool {
	_, ok := minorUnitExponents[c]
	return ok
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency normalizes the code to upper case and rejects unsupported ones.
func ParseCurrency(raw string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unsupported currency %q", ErrValidation, raw)
	}
	return c, nil
}

// MinorUnitExponent returns how many decimal places the currency's minor unit has.
func MinorUnitExponent(c Currency) (int32, error) {
	exp, ok := minorUnitExponents[c]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported currency %q", ErrValidation, c)
	}
	return exp, nil
}

// ToMinorUnits converts a decimal amount into integer minor units.
//
// Values are rounded half away from zero at the currency precision, e.g. 19.905 BRL -> 1991.
func ToMinorUnits(value decimal.Decimal, c Currency) (int64, error) {
	exp, err := MinorUnitExponent(c)
	if err != nil {
		return 0, err
	}
	scaled := value.Round(exp).Shift(exp)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: amount %s does not fit %s precision", ErrValidation, value, c)
	}
	return scaled.IntPart(), nil
}

// FromMinorUnits converts integer minor units back to a decimal amount with the
// currency precision. FromMinorUnits(ToMinorUnits(x)) is lossless for any int64.
func FromMinorUnits(units int64, c Currency) (decimal.Decimal, error) {
	exp, err := MinorUnitExponent(c)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(units, -exp).Round(exp), nil
}
