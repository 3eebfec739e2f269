package money

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"12.34", 1234},
		{"12.345", 1235},
		{"12.344", 1234},
		{"-12.345", -1235},
		{"0.005", 1},
		{"-0.005", -1},
		{"100", 10000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMinorUnits(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, "12.34", FromMinorUnits(1234).String())
	assert.Equal(t, "-0.05", FromMinorUnits(-5).String())
	assert.Equal(t, "0.00", FromMinorUnits(0).StringFixed(2))
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		// non-negative decimals with up to two fractional digits
		x := decimal.New(rng.Int63n(10_000_000), -int32(rng.Intn(3)))
		got := FromMinorUnits(ToMinorUnits(x))
		assert.True(t, x.Round(2).Equal(got), "round trip of %s gave %s", x, got)
	}
}

func TestParseMinorUnits(t *testing.T) {
	got, err := ParseMinorUnits(" 12,50 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1250), got)

	for _, bad := range []string{"", "   ", "abc", "1.2.3", "NaN"} {
		_, err := ParseMinorUnits(bad)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "input %q", bad)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		minor    int64
		currency string
		want     string
	}{
		{"two decimals", 123456, "USD", "$1,234.56"},
		{"zero decimals drops cents", 12345, "JPY", "¥123"},
		{"zero decimals rounds half up", 12350, "JPY", "¥124"},
		{"three decimals pads", 12345, "BHD", "123.450 .د.ب"},
		{"unknown code", 1230, "XXQ", "12.30 XXQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.minor, tt.currency))
		})
	}

	// Display amount agrees with FromMinorUnits whatever the exponent
	assert.Equal(t, "123.45", FromMinorUnits(12345).String())
	assert.True(t, IsKnownCurrency("EUR"))
	assert.False(t, IsKnownCurrency("usd1"))
}
