package stats

import (
	"context"
	"fmt"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/ddshop/reports-manager/internal/store"
)

// TaxCollected returns the tax collected on sales in the period.
func (s *Stats) TaxCollected(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "tax",
		functions:  []string{"SUM", "AVG"},
		statuses:   entity.GrossOrderStatuses(),
		types:      []string{"sale"},
		monetary:   true,
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

// TaxCollectedByLocation returns tax collected grouped by billing address.
// Country and region filters normalize free text to canonical codes; an
// unmatched value disables the filter rather than erroring.
func (s *Stats) TaxCollectedByLocation(ctx context.Context, vars *entity.QueryVars) ([]entity.TaxLocationRow, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "o.tax",
		functions:  []string{"SUM"},
		statuses:   entity.GrossOrderStatuses(),
		types:      []string{"sale"},
		monetary:   true,
	})
	if err != nil {
		return nil, err
	}

	expr := aggregateExprAliased(q.function, q.column, q.currency, "o.rate")

	conds := []string{"o.tax > 0"}
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
	if q.vars.Country != "" {
		conds = append(conds, "oa.country = :country")
		params["country"] = q.vars.Country
	}
	if q.vars.Region != "" {
		conds = append(conds, "oa.region = :region")
		params["region"] = q.vars.Region
	}

	query := "SELECT oa.country, oa.region," +
		" COALESCE(" + expr + ", 0) AS total" +
		" FROM orders o JOIN order_addresses oa ON oa.order_id = o.id" +
		whereClause(conds) +
		" GROUP BY oa.country, oa.region ORDER BY total DESC"

	rows, err := store.QueryListNamed[entity.TaxLocationRow](ctx, s.rep.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get tax by location: %w", err)
	}
	return rows, nil
}
