// Package stats implements the reporting engine: parameterized SQL
// construction, aggregate resolution, relative-period comparison and the
// public statistic methods consumed by the reports API.
package stats

import (
	"context"
	"errors"
	"time"

	"github.com/ddshop/reports-manager/internal/currency"
	"github.com/ddshop/reports-manager/internal/dependency"
	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/ddshop/reports-manager/internal/store"
	"github.com/shopspring/decimal"
)

// ErrNoFunctions is returned when a statistic is configured without any
// accepted aggregate function, which is a programming error rather than a
// bad-input condition.
var ErrNoFunctions = errors.New("stats: no accepted aggregate functions configured")

// Stats is the statistics engine. Constructor defaults are merged with
// per-call overrides into an immutable per-call context, so one instance is
// safe for concurrent use.
type Stats struct {
	rep      dependency.Repository
	defaults entity.QueryVars
	loc      *time.Location
	now      func() time.Time
	limit    int
}

type Option func(*Stats)

// WithDefaults sets the baseline query variables applied to every call.
func WithDefaults(vars entity.QueryVars) Option {
	return func(s *Stats) { s.defaults = vars }
}

// WithTimezone sets the store timezone used to resolve named date ranges.
func WithTimezone(loc *time.Location) Option {
	return func(s *Stats) { s.loc = loc }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Stats) { s.now = now }
}

// WithListLimit sets the default row cap for grouped statistics.
func WithListLimit(limit int) Option {
	return func(s *Stats) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

func New(rep dependency.Repository, opts ...Option) *Stats {
	s := &Stats{
		rep:   rep,
		loc:   time.UTC,
		now:   time.Now,
		limit: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type scalarRow struct {
	Value decimal.Decimal `db:"value"`
}

// scalar runs an aggregate query expected to return exactly one row with a
// single COALESCE'd column named value.
func (s *Stats) scalar(ctx context.Context, query string, params map[string]any) (decimal.Decimal, error) {
	row, err := store.QueryNamedOne[scalarRow](ctx, s.rep.DB(), query, params)
	if err != nil {
		return decimal.Zero, err
	}
	return row.Value, nil
}

// result assembles a scalar outcome: rounding, optional formatted rendering
// and optional relative comparison.
func (s *Stats) result(q queryContext, value decimal.Decimal, relative *decimal.Decimal, reverse bool) *entity.Result {
	res := &entity.Result{Value: value}
	if q.monetary {
		res.Value = currency.Round(res.Value, q.displayCurrency)
	}
	if q.vars.Output == entity.OutputFormatted {
		if q.monetary {
			res.Formatted = currency.Format(res.Value, q.displayCurrency)
		} else {
			res.Formatted = res.Value.String()
		}
	}
	if relative != nil {
		rel := *relative
		if q.monetary {
			rel = currency.Round(rel, q.displayCurrency)
		}
		res.Relative = Compare(res.Value, rel, reverse)
	}
	return res
}
