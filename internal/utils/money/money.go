// Package money converts between display decimals and integer minor units (cents).
//
// Arithmetic in the ledger is done on int64 minor units only. Decimals appear at the edges:
// request parsing, responses, and exchange-rate math.
package money

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits scales a decimal amount by 100 and rounds half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits divides by 100.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// ParseMinorUnits parses a decimal string ("12.34", "12,34", "-3") into minor units.
// Empty or non-numeric input is an InvalidInput error, never a silent zero.
func ParseMinorUnits(input string) (int64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(input, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("%w: amount is empty", apperrors.ErrValidation)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", apperrors.ErrValidation, input)
	}
	return ToMinorUnits(d), nil
}

// IsKnownCurrency reports whether code is an ISO 4217 code known to go-money.
func IsKnownCurrency(code string) bool {
	return len(code) == 3 && money.GetCurrency(code) != nil
}

// Format renders minor units for display, e.g. Format(123456, "USD") == "$1,234.56".
// The ledger always stores hundredths, so the amount is rescaled to the currency's own
// ISO exponent first: Format(12345, "JPY") == "¥123". Unknown codes fall back to "<amount> <code>".
func Format(minor int64, currencyCode string) string {
	if !IsKnownCurrency(currencyCode) {
		return FromMinorUnits(minor).StringFixed(2) + " " + currencyCode
	}
	currency := money.GetCurrency(currencyCode)
	units := FromMinorUnits(minor).Shift(int32(currency.Fraction)).Round(0).IntPart()
	return money.New(units, currency.Code).Display()
}
