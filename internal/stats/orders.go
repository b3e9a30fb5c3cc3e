package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/ddshop/reports-manager/internal/store"
	"github.com/shopspring/decimal"
)

// earningsBinding returns the column/status configuration for an earnings
// style statistic. Gross counts only sale rows in the revenue-bearing
// statuses; net adds refund rows, signed negative in the aggregate.
func earningsBinding(revenueType string) binding {
	if revenueType == entity.RevenueNet {
		return binding{
			dateColumn:        "date_created",
			column:            "CASE WHEN orders.type = 'refund' THEN -(total) ELSE (total) END",
			taxExcludedColumn: "CASE WHEN orders.type = 'refund' THEN -(total - tax) ELSE (total - tax) END",
			functions:         []string{"SUM", "AVG"},
			statuses:          entity.NetOrderStatuses(),
			types:             []string{"sale", "refund"},
			monetary:          true,
		}
	}
	return binding{
		dateColumn:        "date_created",
		column:            "total",
		taxExcludedColumn: "total - tax",
		allowedColumns: map[string]string{
			"total":    "total",
			"subtotal": "subtotal",
			"tax":      "tax",
			"discount": "discount",
		},
		functions: []string{"SUM", "AVG"},
		statuses:  entity.GrossOrderStatuses(),
		types:     []string{"sale"},
		monetary:  true,
	}
}

// orderScalar runs one aggregate over the orders table, plus the
// relative-period twin when requested.
func (s *Stats) orderScalar(ctx context.Context, q queryContext) (decimal.Decimal, *decimal.Decimal, error) {
	expr := aggregateExpr(q.function, q.column, q.currency)
	conds, params := q.conditions("orders")
	query := "SELECT COALESCE(" + expr + ", 0) AS value FROM orders" + whereClause(conds)

	value, err := s.scalar(ctx, query, params)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("can't run order aggregate: %w", err)
	}
	if !q.hasRelative() {
		return value, nil, nil
	}
	relative, err := s.scalar(ctx, query, q.relativeParams(params))
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("can't run relative order aggregate: %w", err)
	}
	return value, &relative, nil
}

// OrderEarnings returns revenue for the period. revenue_type selects gross
// (sales only) or net (sales minus refunds) accounting.
func (s *Stats) OrderEarnings(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, earningsBinding(resolvedRevenueType(s.defaults, vars)))
	if err != nil {
		return nil, err
	}
	value, relative, err := s.orderScalar(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, false), nil
}

func resolvedRevenueType(defaults entity.QueryVars, vars *entity.QueryVars) string {
	if vars != nil && vars.RevenueType != "" {
		return vars.RevenueType
	}
	return defaults.RevenueType
}

// OrderCount returns the number of sale orders in net revenue statuses.
func (s *Stats) OrderCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT"},
		statuses:   entity.NetOrderStatuses(),
		types:      []string{"sale"},
	})
	if err != nil {
		return nil, err
	}
	value, relative, err := s.orderScalar(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, false), nil
}

// AverageOrderValue returns the mean order total for the period.
func (s *Stats) AverageOrderValue(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn:        "date_created",
		column:            "total",
		taxExcludedColumn: "total - tax",
		functions:         []string{"AVG", "SUM"},
		statuses:          entity.GrossOrderStatuses(),
		types:             []string{"sale"},
		monetary:          true,
	})
	if err != nil {
		return nil, err
	}
	value, relative, err := s.orderScalar(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, false), nil
}

// orderItemScalar runs one aggregate over order_items joined to orders, plus
// the relative-period twin when requested. Status applies to the item row,
// date and type to the parent order.
func (s *Stats) orderItemScalar(ctx context.Context, q queryContext) (decimal.Decimal, *decimal.Decimal, error) {
	expr := aggregateExprAliased(q.function, q.column, q.currency, "o.rate")

	conds, params := s.orderItemConditions(q)
	if q.vars.CustomerID != 0 {
		conds = append(conds, "o.customer_id = :customerId")
		params["customerId"] = q.vars.CustomerID
	}

	query := "SELECT COALESCE(" + expr + ", 0) AS value" +
		" FROM order_items oi JOIN orders o ON o.id = oi.order_id" +
		whereClause(conds)

	value, err := s.scalar(ctx, query, params)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("can't run order item aggregate: %w", err)
	}
	if !q.hasRelative() {
		return value, nil, nil
	}
	relative, err := s.scalar(ctx, query, q.relativeParams(params))
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("can't run relative order item aggregate: %w", err)
	}
	return value, &relative, nil
}

// OrderItemCount returns the number of sold order items.
func (s *Stats) OrderItemCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "oi.id",
		functions:  []string{"COUNT"},
		statuses:   entity.NetOrderStatuses(),
		types:      []string{"sale"},
	})
	if err != nil {
		return nil, err
	}
	value, relative, err := s.orderItemScalar(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, false), nil
}

// OrderItemEarnings returns revenue attributed to individual order items.
func (s *Stats) OrderItemEarnings(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn:        "date_created",
		column:            "oi.total",
		taxExcludedColumn: "oi.total - oi.tax",
		functions:         []string{"SUM", "AVG"},
		statuses:          entity.GrossOrderStatuses(),
		types:             []string{"sale"},
		monetary:          true,
	})
	if err != nil {
		return nil, err
	}
	value, relative, err := s.orderItemScalar(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, false), nil
}

func refundBinding(column string, fns []string, monetary bool) binding {
	return binding{
		dateColumn: "date_created",
		column:     column,
		functions:  fns,
		statuses:   []string{string(entity.OrderStatusComplete)},
		types:      []string{"refund"},
		monetary:   monetary,
	}
}

// RefundCount returns the number of refund orders in the period.
func (s *Stats) RefundCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, refundBinding("id", []string{"COUNT"}, false))
	if err != nil {
		return nil, err
	}
	value, relative, err := s.orderScalar(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, true), nil
}

// RefundAmount returns the total amount refunded in the period, as a positive
// magnitude.
func (s *Stats) RefundAmount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, refundBinding("total", []string{"SUM", "AVG"}, true))
	if err != nil {
		return nil, err
	}
	value, relative, err := s.orderScalar(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, true), nil
}

// AverageRefundAmount returns the mean refund total for the period.
func (s *Stats) AverageRefundAmount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, refundBinding("total", []string{"AVG", "SUM"}, true))
	if err != nil {
		return nil, err
	}
	value, relative, err := s.orderScalar(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, true), nil
}

// RefundRate returns refunds as a percentage of sale orders in the period.
// Zero sales yields zero rather than an error.
func (s *Stats) RefundRate(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	refunds, err := s.resolve(vars, refundBinding("id", []string{"COUNT"}, false))
	if err != nil {
		return nil, err
	}
	sales, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT"},
		statuses:   entity.NetOrderStatuses(),
		types:      []string{"sale"},
	})
	if err != nil {
		return nil, err
	}

	rate, err := s.refundRateValue(ctx, refunds, sales, false)
	if err != nil {
		return nil, err
	}
	var relative *decimal.Decimal
	if refunds.hasRelative() {
		rel, err := s.refundRateValue(ctx, refunds, sales, true)
		if err != nil {
			return nil, err
		}
		relative = &rel
	}

	res := s.result(refunds, rate, relative, true)
	if refunds.vars.Output == entity.OutputFormatted {
		res.Formatted = rate.StringFixed(2) + "%"
	}
	return res, nil
}

func (s *Stats) refundRateValue(ctx context.Context, refunds, sales queryContext, relative bool) (decimal.Decimal, error) {
	refundConds, refundParams := refunds.conditions("orders")
	saleConds, saleParams := sales.conditions("orders")
	if relative {
		refundParams = refunds.relativeParams(refundParams)
		saleParams = sales.relativeParams(saleParams)
	}

	refundCount, err := s.scalar(ctx,
		"SELECT COALESCE(COUNT(id), 0) AS value FROM orders"+whereClause(refundConds), refundParams)
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't count refunds: %w", err)
	}
	saleCount, err := s.scalar(ctx,
		"SELECT COALESCE(COUNT(id), 0) AS value FROM orders"+whereClause(saleConds), saleParams)
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't count sales: %w", err)
	}
	if saleCount.IsZero() {
		return decimal.Zero, nil
	}
	return refundCount.Div(saleCount).Mul(hundred).Round(2), nil
}

type busiestDayRow struct {
	Weekday int `db:"weekday"`
	Count   int `db:"cnt"`
}

// BusiestDay returns the weekday with the most sale orders in the period.
func (s *Stats) BusiestDay(ctx context.Context, vars *entity.QueryVars) (*entity.BusiestDay, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT"},
		statuses:   entity.NetOrderStatuses(),
		types:      []string{"sale"},
	})
	if err != nil {
		return nil, err
	}
	conds, params := q.conditions("orders")
	query := "SELECT DAYOFWEEK(date_created) AS weekday, COUNT(id) AS cnt FROM orders" +
		whereClause(conds) +
		" GROUP BY weekday ORDER BY cnt DESC, weekday ASC LIMIT 1"

	rows, err := store.QueryListNamed[busiestDayRow](ctx, s.rep.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get busiest day: %w", err)
	}
	if len(rows) == 0 {
		return &entity.BusiestDay{}, nil
	}
	// DAYOFWEEK is 1-based starting Sunday.
	return &entity.BusiestDay{
		Weekday: time.Weekday(rows[0].Weekday - 1).String(),
		Count:   rows[0].Count,
	}, nil
}
