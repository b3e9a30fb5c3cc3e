package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/ddshop/reports-manager/internal/store"
	"github.com/shopspring/decimal"
)

// discountConditions builds the predicates for the order_adjustments/orders
// join used by every discount statistic.
func (q queryContext) discountConditions() ([]string, map[string]any) {
	conds := []string{
		"oa.object_type = 'order'",
		"oa.type = 'discount'",
	}
	params := map[string]any{}
	if !q.period.Start.IsZero() {
		conds = append(conds, "o.date_created >= :start")
		params["start"] = q.period.Start
	}
	if !q.period.End.IsZero() {
		conds = append(conds, "o.date_created <= :end")
		params["end"] = q.period.End
	}
	if len(q.statuses) > 0 {
		conds = append(conds, "o.status IN (:statuses)")
		params["statuses"] = q.statuses
	}
	if len(q.types) > 0 {
		conds = append(conds, "o.type IN (:types)")
		params["types"] = q.types
	}
	if q.currency != "" && q.currency != currencyConvert {
		conds = append(conds, "o.currency = :currency")
		params["currency"] = q.currency
	}
	if q.vars.DiscountCode != "" {
		conds = append(conds, "oa.description = :code")
		params["code"] = strings.ToUpper(q.vars.DiscountCode)
	}
	return conds, params
}

const discountJoin = " FROM order_adjustments oa JOIN orders o ON o.id = oa.object_id"

func (s *Stats) discountScalar(ctx context.Context, q queryContext, expr string) (decimal.Decimal, *decimal.Decimal, error) {
	conds, params := q.discountConditions()
	query := "SELECT COALESCE(" + expr + ", 0) AS value" + discountJoin + whereClause(conds)

	value, err := s.scalar(ctx, query, params)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("can't run discount aggregate: %w", err)
	}
	if !q.hasRelative() {
		return value, nil, nil
	}
	relative, err := s.scalar(ctx, query, q.relativeParams(params))
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("can't run relative discount aggregate: %w", err)
	}
	return value, &relative, nil
}

func discountBinding(column string, fns []string, monetary bool) binding {
	return binding{
		dateColumn: "date_created",
		column:     column,
		functions:  fns,
		statuses:   entity.GrossOrderStatuses(),
		types:      []string{"sale"},
		monetary:   monetary,
	}
}

// DiscountUsageCount returns how many orders redeemed a discount. Scoped to
// one code when discount_code is set; an unmatched code simply counts zero.
func (s *Stats) DiscountUsageCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, discountBinding("oa.id", []string{"COUNT"}, false))
	if err != nil {
		return nil, err
	}
	value, relative, err := s.discountScalar(ctx, q, aggregateExpr(q.function, q.column, q.currency))
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, false), nil
}

// DiscountSavings returns the total amount shaved off orders by discounts.
func (s *Stats) DiscountSavings(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, discountBinding("oa.total", []string{"SUM", "AVG"}, true))
	if err != nil {
		return nil, err
	}
	expr := aggregateExprAliased(q.function, q.column, q.currency, "o.rate")
	value, relative, err := s.discountScalar(ctx, q, expr)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, false), nil
}

// AverageDiscountAmount returns the mean discount applied per redemption.
func (s *Stats) AverageDiscountAmount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, discountBinding("oa.total", []string{"AVG", "SUM"}, true))
	if err != nil {
		return nil, err
	}
	expr := aggregateExprAliased(q.function, q.column, q.currency, "o.rate")
	value, relative, err := s.discountScalar(ctx, q, expr)
	if err != nil {
		return nil, err
	}
	return s.result(q, value, relative, false), nil
}

// RatioOfDiscountedOrders returns the percentage of sale orders that redeemed
// any discount.
func (s *Stats) RatioOfDiscountedOrders(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, discountBinding("oa.id", []string{"COUNT"}, false))
	if err != nil {
		return nil, err
	}

	ratio, err := s.discountedOrdersRatio(ctx, q, false)
	if err != nil {
		return nil, err
	}
	var relative *decimal.Decimal
	if q.hasRelative() {
		rel, err := s.discountedOrdersRatio(ctx, q, true)
		if err != nil {
			return nil, err
		}
		relative = &rel
	}

	res := s.result(q, ratio, relative, false)
	if q.vars.Output == entity.OutputFormatted {
		res.Formatted = ratio.StringFixed(2) + "%"
	}
	return res, nil
}

func (s *Stats) discountedOrdersRatio(ctx context.Context, q queryContext, relative bool) (decimal.Decimal, error) {
	discConds, discParams := q.discountConditions()
	orderConds, orderParams := q.conditions("orders")
	if relative {
		discParams = q.relativeParams(discParams)
		orderParams = q.relativeParams(orderParams)
	}

	discounted, err := s.scalar(ctx,
		"SELECT COALESCE(COUNT(DISTINCT oa.object_id), 0) AS value"+discountJoin+whereClause(discConds),
		discParams)
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't count discounted orders: %w", err)
	}
	total, err := s.scalar(ctx,
		"SELECT COALESCE(COUNT(id), 0) AS value FROM orders"+whereClause(orderConds),
		orderParams)
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't count orders: %w", err)
	}
	if total.IsZero() {
		return decimal.Zero, nil
	}
	return discounted.Div(total).Mul(hundred).Round(2), nil
}

// MostPopularDiscounts returns the most redeemed discount codes with their
// total savings.
func (s *Stats) MostPopularDiscounts(ctx context.Context, vars *entity.QueryVars) ([]entity.DiscountStatRow, error) {
	q, err := s.resolve(vars, discountBinding("oa.total", []string{"SUM"}, true))
	if err != nil {
		return nil, err
	}

	savings := aggregateExprAliased("SUM", "oa.total", q.currency, "o.rate")
	conds, params := q.discountConditions()
	params["limit"] = q.limit

	query := "SELECT oa.description AS code," +
		" COUNT(oa.id) AS use_count," +
		" COALESCE(" + savings + ", 0) AS savings" +
		discountJoin +
		whereClause(conds) +
		" GROUP BY oa.description ORDER BY use_count DESC LIMIT :limit"

	rows, err := store.QueryListNamed[entity.DiscountStatRow](ctx, s.rep.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get most popular discounts: %w", err)
	}
	return rows, nil
}
