package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("USD"))
	assert.True(t, IsSupported("eur"))
	assert.False(t, IsSupported("XBT"))
	assert.False(t, IsSupported(""))
}

func TestDecimalPlaces(t *testing.T) {
	assert.Equal(t, int32(2), DecimalPlaces("USD"))
	assert.Equal(t, int32(0), DecimalPlaces("JPY"))
	assert.Equal(t, int32(0), DecimalPlaces("krw"))
}

func TestRound(t *testing.T) {
	v := decimal.RequireFromString("1234.567")
	assert.Equal(t, "1234.57", Round(v, "USD").String())
	assert.Equal(t, "1235", Round(v, "JPY").String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1234.57", Format(decimal.RequireFromString("1234.567"), "USD"))
	assert.Equal(t, "€50.00", Format(decimal.NewFromInt(50), "EUR"))
	assert.Equal(t, "¥1200", Format(decimal.NewFromInt(1200), "JPY"))
	assert.Equal(t, "-$12.50", Format(decimal.RequireFromString("-12.5"), "USD"))
	// Unknown codes fall back to a code prefix.
	assert.Equal(t, "XBT 3.14", Format(decimal.RequireFromString("3.14159"), "XBT"))
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "Euro", Description("eur"))
	assert.Equal(t, "", Description("XBT"))
}
