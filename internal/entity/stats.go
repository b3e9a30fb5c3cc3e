package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RangeName is a named reporting period resolved against "now" in the store
// timezone.
type RangeName string

const (
	RangeToday       RangeName = "today"
	RangeYesterday   RangeName = "yesterday"
	RangeThisWeek    RangeName = "this_week"
	RangeLastWeek    RangeName = "last_week"
	RangeThisMonth   RangeName = "this_month"
	RangeLastMonth   RangeName = "last_month"
	RangeThisQuarter RangeName = "this_quarter"
	RangeLastQuarter RangeName = "last_quarter"
	RangeThisYear    RangeName = "this_year"
	RangeLastYear    RangeName = "last_year"
)

// Output selects how scalar statistics are rendered.
type Output string

const (
	OutputRaw       Output = "raw"
	OutputTyped     Output = "typed"
	OutputFormatted Output = "formatted"
)

// RevenueType selects the accounting rule for earnings statistics.
const (
	RevenueGross = "gross"
	RevenueNet   = "net"
)

// QueryVars is the full set of filter/format parameters accepted by every
// statistic method. The zero value means "engine defaults"; any non-zero
// field overrides the corresponding default for one call.
type QueryVars struct {
	Start        time.Time
	End          time.Time
	Range        RangeName
	ExcludeTaxes bool
	Currency     string
	Status       []string
	Type         []string
	Function     string
	Column       string
	Output       Output
	Relative     bool
	Grouped      bool
	Country      string
	Region       string
	ProductID    int
	PriceID      int
	CustomerID   int
	Gateway      string
	DiscountCode string
	RevenueType  string
	Limit        int
}

// TimeRange is a concrete reporting window, inclusive on both bounds.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Comparison is the outcome of comparing a primary period value against the
// equivalent prior period.
type Comparison struct {
	Value            decimal.Decimal
	RelativeValue    decimal.Decimal
	Comparable       bool
	NoChange         bool
	PercentageChange string
	Positive         bool
}

// Result is a scalar statistic outcome. Formatted is set when formatted
// output was requested; Relative is set when a relative comparison was
// requested.
type Result struct {
	Value     decimal.Decimal
	Formatted string
	Relative  *Comparison
}

// ProductStatRow is one row of a grouped product statistic. PriceID is -1
// when the row is not price-tier scoped. Product is hydrated by the store
// when available.
type ProductStatRow struct {
	ProductID int             `db:"product_id"`
	PriceID   int             `db:"price_id"`
	Total     decimal.Decimal `db:"total"`
	Sales     int             `db:"sales"`
	Product   *Product        `db:"-"`
}

// CustomerStatRow is one row of a customer statistic.
type CustomerStatRow struct {
	CustomerID int             `db:"customer_id"`
	Total      decimal.Decimal `db:"total"`
	Orders     int             `db:"orders"`
	Customer   *Customer       `db:"-"`
}

// GatewayStatRow is one row of a gateway breakdown; absent gateways are
// reported with zero values rather than omitted.
type GatewayStatRow struct {
	Gateway string          `db:"gateway"`
	Total   decimal.Decimal `db:"total"`
	Count   int             `db:"cnt"`
}

// TaxLocationRow is one row of tax collected grouped by address.
type TaxLocationRow struct {
	Country string          `db:"country"`
	Region  string          `db:"region"`
	Total   decimal.Decimal `db:"total"`
}

// DiscountStatRow is one row of a discount popularity statistic.
type DiscountStatRow struct {
	Code     string          `db:"code"`
	UseCount int             `db:"use_count"`
	Savings  decimal.Decimal `db:"savings"`
}

// BusiestDay is the weekday with the most orders in the period.
type BusiestDay struct {
	Weekday string
	Count   int
}

// OverviewReport is the composed headline report served by the reports API.
type OverviewReport struct {
	Period         TimeRange
	RelativePeriod *TimeRange

	Earnings          *Result
	OrderCount        *Result
	AverageOrderValue *Result
	RefundAmount      *Result
	RefundRate        *Result
	TaxCollected      *Result
	DiscountSavings   *Result
	FileDownloads     *Result

	GatewaySales         []GatewayStatRow
	TaxByLocation        []TaxLocationRow
	MostValuableProducts []ProductStatRow
	PopularDiscounts     []DiscountStatRow
	BusiestDay           *BusiestDay
}
