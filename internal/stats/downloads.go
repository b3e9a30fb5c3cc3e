package stats

import (
	"context"
	"fmt"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/shopspring/decimal"
)

// downloadConditions builds the predicates for file_download_logs queries.
func (q queryContext) downloadConditions() ([]string, map[string]any) {
	var conds []string
	params := map[string]any{}
	if !q.period.Start.IsZero() {
		conds = append(conds, "date_created >= :start")
		params["start"] = q.period.Start
	}
	if !q.period.End.IsZero() {
		conds = append(conds, "date_created <= :end")
		params["end"] = q.period.End
	}
	if q.vars.ProductID != 0 {
		conds = append(conds, "product_id = :productId")
		params["productId"] = q.vars.ProductID
	}
	if q.vars.PriceID != 0 {
		conds = append(conds, "price_id = :priceId")
		params["priceId"] = q.vars.PriceID
	}
	if q.vars.CustomerID != 0 {
		conds = append(conds, "customer_id = :customerId")
		params["customerId"] = q.vars.CustomerID
	}
	return conds, params
}

// FileDownloadCount returns the number of fulfilled file downloads in the
// period.
func (s *Stats) FileDownloadCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT"},
	})
	if err != nil {
		return nil, err
	}

	conds, params := q.downloadConditions()
	query := "SELECT COALESCE(COUNT(id), 0) AS value FROM file_download_logs" + whereClause(conds)

	value, err := s.scalar(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("can't count file downloads: %w", err)
	}
	var relative *decimal.Decimal
	if q.hasRelative() {
		rel, err := s.scalar(ctx, query, q.relativeParams(params))
		if err != nil {
			return nil, fmt.Errorf("can't count relative file downloads: %w", err)
		}
		relative = &rel
	}
	return s.result(q, value, relative, false), nil
}

// AverageFileDownloadsPerCustomer returns downloads divided by distinct
// downloading customers. Zero customers yields zero.
func (s *Stats) AverageFileDownloadsPerCustomer(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT", "AVG"},
	})
	if err != nil {
		return nil, err
	}

	conds, params := q.downloadConditions()
	query := "SELECT COALESCE(COUNT(id) / NULLIF(COUNT(DISTINCT customer_id), 0), 0) AS value" +
		" FROM file_download_logs" + whereClause(conds)

	value, err := s.scalar(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get average downloads per customer: %w", err)
	}
	var relative *decimal.Decimal
	if q.hasRelative() {
		rel, err := s.scalar(ctx, query, q.relativeParams(params))
		if err != nil {
			return nil, fmt.Errorf("can't get relative average downloads per customer: %w", err)
		}
		relative = &rel
	}
	res := s.result(q, value.Round(2), relative, false)
	return res, nil
}
