package stats

import (
	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Compare derives a percentage-change comparison between the primary period
// value and the equivalent prior period. reverse is true when a smaller
// number is the desirable direction, e.g. refund rate.
//
// A zero prior value with a non-zero current value is flagged not comparable
// rather than dividing by zero.
func Compare(total, relative decimal.Decimal, reverse bool) *entity.Comparison {
	c := &entity.Comparison{
		Value:         total,
		RelativeValue: relative,
		Comparable:    true,
	}

	if total.Equal(relative) {
		c.NoChange = true
		c.PercentageChange = "0"
		return c
	}
	if relative.IsZero() {
		c.Comparable = false
		return c
	}

	pct := total.Sub(relative).Div(relative).Mul(hundred)
	// At or beyond a full swing the fraction stops carrying information.
	if pct.Abs().GreaterThanOrEqual(hundred) {
		c.PercentageChange = pct.Truncate(0).String()
	} else {
		c.PercentageChange = pct.StringFixed(2)
	}
	c.Positive = pct.IsPositive() != reverse
	return c
}

// Markup renders a comparison as a display-ready string with a directional
// indicator, e.g. "▲ 50.00%".
func Markup(c *entity.Comparison) string {
	if c == nil {
		return ""
	}
	switch {
	case c.NoChange:
		return "0%"
	case !c.Comparable:
		return "n/a"
	case c.Value.GreaterThan(c.RelativeValue):
		return "▲ " + c.PercentageChange + "%"
	default:
		return "▼ " + c.PercentageChange + "%"
	}
}
