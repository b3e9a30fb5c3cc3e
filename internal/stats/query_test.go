package stats

import (
	"testing"
	"time"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(opts ...Option) *Stats {
	base := []Option{WithClock(func() time.Time { return testNow })}
	return New(nil, append(base, opts...)...)
}

func TestMergeVarsOverrides(t *testing.T) {
	defaults := entity.QueryVars{
		Currency: "USD",
		Function: "SUM",
		Limit:    10,
	}
	override := &entity.QueryVars{
		Currency: "EUR",
		Gateway:  "stripe",
	}
	merged := mergeVars(defaults, override)
	assert.Equal(t, "EUR", merged.Currency)
	assert.Equal(t, "stripe", merged.Gateway)
	// Zero-value fields keep the default.
	assert.Equal(t, "SUM", merged.Function)
	assert.Equal(t, 10, merged.Limit)
}

func TestMergeVarsNilOverride(t *testing.T) {
	defaults := entity.QueryVars{Currency: "USD", Limit: 25}
	assert.Equal(t, defaults, mergeVars(defaults, nil))
}

func TestMergeVarsStatusList(t *testing.T) {
	defaults := entity.QueryVars{Status: []string{"complete"}}

	// A nil list means "not specified"; an explicit list replaces wholesale.
	merged := mergeVars(defaults, &entity.QueryVars{})
	assert.Equal(t, []string{"complete"}, merged.Status)

	merged = mergeVars(defaults, &entity.QueryVars{Status: []string{"pending", "failed"}})
	assert.Equal(t, []string{"pending", "failed"}, merged.Status)
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "", normalizeCurrency(""))
	assert.Equal(t, "EUR", normalizeCurrency("eur"))
	assert.Equal(t, "USD", normalizeCurrency("USD"))
	// Anything unsupported becomes a conversion request.
	assert.Equal(t, "convert", normalizeCurrency("XBT"))
	assert.Equal(t, "convert", normalizeCurrency("whatever"))
}

func TestNormalizeOutput(t *testing.T) {
	assert.Equal(t, entity.OutputRaw, normalizeOutput(""))
	assert.Equal(t, entity.OutputRaw, normalizeOutput("csv"))
	assert.Equal(t, entity.OutputFormatted, normalizeOutput(entity.OutputFormatted))
	assert.Equal(t, entity.OutputTyped, normalizeOutput(entity.OutputTyped))
}

func TestResolveStatuses(t *testing.T) {
	deflt := []string{"complete", "refunded"}

	// Unset falls back to the method default.
	assert.Equal(t, deflt, resolveStatuses(nil, deflt))

	// Recognized entries pass through, lowercased and trimmed.
	assert.Equal(t, []string{"pending", "failed"},
		resolveStatuses([]string{" Pending", "FAILED "}, deflt))

	// Garbage-only input falls back to the default.
	assert.Equal(t, deflt, resolveStatuses([]string{"bogus", ""}, deflt))

	// "any" disables the predicate entirely.
	assert.Nil(t, resolveStatuses([]string{"complete", "any"}, deflt))

	// Duplicates collapse.
	assert.Equal(t, []string{"complete"},
		resolveStatuses([]string{"complete", "complete"}, deflt))
}

func TestResolveTypes(t *testing.T) {
	deflt := []string{"sale"}
	assert.Equal(t, deflt, resolveTypes(nil, deflt))
	assert.Equal(t, []string{"refund"}, resolveTypes([]string{"REFUND"}, deflt))
	assert.Equal(t, deflt, resolveTypes([]string{"exchange"}, deflt))
}

func TestResolveColumn(t *testing.T) {
	b := binding{
		column:            "total",
		taxExcludedColumn: "total - tax",
		allowedColumns: map[string]string{
			"subtotal": "subtotal",
			"tax":      "tax",
		},
	}

	assert.Equal(t, "total", resolveColumn(entity.QueryVars{}, b))
	assert.Equal(t, "subtotal", resolveColumn(entity.QueryVars{Column: "Subtotal"}, b))
	// Unknown overrides are ignored, never interpolated.
	assert.Equal(t, "total", resolveColumn(entity.QueryVars{Column: "password"}, b))
	assert.Equal(t, "total - tax", resolveColumn(entity.QueryVars{ExcludeTaxes: true}, b))
	// An allowed column override wins over tax exclusion.
	assert.Equal(t, "tax", resolveColumn(entity.QueryVars{Column: "tax", ExcludeTaxes: true}, b))
}

func TestResolveNamedRange(t *testing.T) {
	s := testEngine()
	q, err := s.resolve(&entity.QueryVars{Range: entity.RangeYesterday}, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT"},
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC), q.period.Start)
	assert.Equal(t, time.Date(2024, time.March, 12, 23, 59, 59, 0, time.UTC), q.period.End)
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), q.relPeriod.Start)
}

func TestResolveExplicitBoundsWinOverRange(t *testing.T) {
	s := testEngine()
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC)

	q, err := s.resolve(&entity.QueryVars{
		Range: entity.RangeThisYear,
		Start: start,
		End:   end,
	}, binding{dateColumn: "date_created", column: "id", functions: []string{"COUNT"}})
	require.NoError(t, err)

	assert.Equal(t, start, q.period.Start)
	assert.Equal(t, end, q.period.End)
}

func TestResolveOpenEndedHasNoRelative(t *testing.T) {
	s := testEngine()
	q, err := s.resolve(&entity.QueryVars{
		Start:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Relative: true,
	}, binding{dateColumn: "date_created", column: "id", functions: []string{"COUNT"}})
	require.NoError(t, err)

	assert.False(t, q.hasRelative())
}

func TestResolveDisplayCurrency(t *testing.T) {
	s := testEngine()
	b := binding{dateColumn: "date_created", column: "total", functions: []string{"SUM"}, monetary: true}

	q, err := s.resolve(nil, b)
	require.NoError(t, err)
	assert.Equal(t, "", q.currency)
	assert.Equal(t, "USD", q.displayCurrency)

	q, err = s.resolve(&entity.QueryVars{Currency: "eur"}, b)
	require.NoError(t, err)
	assert.Equal(t, "EUR", q.currency)
	assert.Equal(t, "EUR", q.displayCurrency)

	// Conversion requests display in the store currency.
	q, err = s.resolve(&entity.QueryVars{Currency: "XBT"}, b)
	require.NoError(t, err)
	assert.Equal(t, "convert", q.currency)
	assert.Equal(t, "USD", q.displayCurrency)
}

func TestResolveGeoNormalization(t *testing.T) {
	s := testEngine()
	b := binding{dateColumn: "date_created", column: "tax", functions: []string{"SUM"}}

	q, err := s.resolve(&entity.QueryVars{Country: "united states", Region: "california"}, b)
	require.NoError(t, err)
	assert.Equal(t, "US", q.vars.Country)
	assert.Equal(t, "CA", q.vars.Region)

	q, err = s.resolve(&entity.QueryVars{Country: "atlantis", Region: "CA"}, b)
	require.NoError(t, err)
	assert.Equal(t, "", q.vars.Country)
	assert.Equal(t, "", q.vars.Region)
}

func TestConditions(t *testing.T) {
	s := testEngine()
	q, err := s.resolve(&entity.QueryVars{
		Range:      entity.RangeToday,
		Currency:   "EUR",
		Gateway:    "stripe",
		CustomerID: 7,
	}, binding{
		dateColumn: "date_created",
		column:     "total",
		functions:  []string{"SUM"},
		statuses:   []string{"complete"},
		types:      []string{"sale"},
		monetary:   true,
	})
	require.NoError(t, err)

	conds, params := q.conditions("orders")
	assert.Equal(t, []string{
		"orders.date_created >= :start",
		"orders.date_created <= :end",
		"orders.status IN (:statuses)",
		"orders.type IN (:types)",
		"orders.currency = :currency",
		"orders.gateway = :gateway",
		"orders.customer_id = :customerId",
	}, conds)
	assert.Equal(t, q.period.Start, params["start"])
	assert.Equal(t, "EUR", params["currency"])
	assert.Equal(t, 7, params["customerId"])
}

func TestRelativeParams(t *testing.T) {
	s := testEngine()
	q, err := s.resolve(&entity.QueryVars{Range: entity.RangeToday, Relative: true}, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT"},
		statuses:   []string{"complete"},
	})
	require.NoError(t, err)

	_, params := q.conditions("orders")
	rel := q.relativeParams(params)

	assert.Equal(t, q.relPeriod.Start, rel["start"])
	assert.Equal(t, q.relPeriod.End, rel["end"])
	// The original map is untouched.
	assert.Equal(t, q.period.Start, params["start"])
	assert.Equal(t, params["statuses"], rel["statuses"])
}

func TestWhereClause(t *testing.T) {
	assert.Equal(t, "", whereClause(nil))
	assert.Equal(t, " WHERE a = :a AND b = :b", whereClause([]string{"a = :a", "b = :b"}))
}
