package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Supported currency codes with display metadata. The statistics engine
// treats any other non-empty code as a conversion request rather than an
// exact-match filter.
var supported = map[string]struct {
	Description string
	Symbol      string
}{
	"AUD": {"Australian Dollar", "$"},
	"BRL": {"Brazilian Real", "R$"},
	"CAD": {"Canadian Dollar", "$"},
	"CHF": {"Swiss Franc", "CHF "},
	"CNY": {"Chinese Yuan", "¥"},
	"CZK": {"Czech Republic Koruna", "Kč"},
	"DKK": {"Danish Krone", "kr"},
	"EUR": {"Euro", "€"},
	"GBP": {"British Pound Sterling", "£"},
	"HKD": {"Hong Kong Dollar", "$"},
	"HUF": {"Hungarian Forint", "Ft"},
	"ILS": {"Israeli New Sheqel", "₪"},
	"JPY": {"Japanese Yen", "¥"},
	"KRW": {"South Korean Won", "₩"},
	"MXN": {"Mexican Peso", "$"},
	"NOK": {"Norwegian Krone", "kr"},
	"NZD": {"New Zealand Dollar", "$"},
	"PLN": {"Polish Zloty", "zł"},
	"SEK": {"Swedish Krona", "kr"},
	"SGD": {"Singapore Dollar", "$"},
	"TRY": {"Turkish Lira", "₺"},
	"UAH": {"Ukrainian Hryvnia", "₴"},
	"USD": {"United States Dollar", "$"},
}

// Zero-decimal currencies per ISO 4217: no minor units (e.g. KRW, JPY)
var zeroDecimalCurrencies = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true,
	"JPY": true, "KMF": true, "KRW": true, "MGA": true,
	"PYG": true, "RWF": true, "UGX": true, "VND": true,
	"VUV": true, "XAF": true, "XOF": true, "XPF": true,
}

// IsSupported reports whether the code belongs to the supported set.
func IsSupported(c string) bool {
	_, ok := supported[strings.ToUpper(c)]
	return ok
}

// IsZeroDecimal returns true for currencies with no decimal places (KRW, JPY, etc.)
func IsZeroDecimal(c string) bool {
	return zeroDecimalCurrencies[strings.ToUpper(c)]
}

// DecimalPlaces returns the number of decimal places for the currency.
func DecimalPlaces(c string) int32 {
	if IsZeroDecimal(c) {
		return 0
	}
	return 2
}

// Round rounds amount to the appropriate precision for the currency.
func Round(amount decimal.Decimal, c string) decimal.Decimal {
	return amount.Round(DecimalPlaces(c))
}

// Format renders an amount with the currency symbol, e.g. "$1234.50".
// Unknown codes fall back to "CODE amount".
func Format(amount decimal.Decimal, c string) string {
	code := strings.ToUpper(c)
	rounded := Round(amount, code)
	meta, ok := supported[code]
	if !ok {
		return code + " " + rounded.StringFixed(DecimalPlaces(code))
	}
	if rounded.IsNegative() {
		return "-" + meta.Symbol + rounded.Neg().StringFixed(DecimalPlaces(code))
	}
	return meta.Symbol + rounded.StringFixed(DecimalPlaces(code))
}

// Description returns the display name of a supported code, or "".
func Description(c string) string {
	return supported[strings.ToUpper(c)].Description
}
