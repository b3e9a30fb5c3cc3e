package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/ddshop/reports-manager/internal/store"
)

// MostValuableProducts returns the top products by revenue, one row per
// product/price combination when price tiers are in play. Rows are decorated
// with the product object when it can still be loaded; hydration failures
// leave the row bare rather than failing the report.
func (s *Stats) MostValuableProducts(ctx context.Context, vars *entity.QueryVars) ([]entity.ProductStatRow, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "oi.total",
		functions:  []string{"SUM"},
		statuses:   entity.GrossOrderStatuses(),
		types:      []string{"sale"},
		monetary:   true,
	})
	if err != nil {
		return nil, err
	}

	expr := aggregateExprAliased(q.function, q.column, q.currency, "o.rate")
	conds, params := s.orderItemConditions(q)
	params["limit"] = q.limit

	query := "SELECT oi.product_id AS product_id," +
		" COALESCE(oi.price_id, -1) AS price_id," +
		" COALESCE(" + expr + ", 0) AS total," +
		" COUNT(oi.id) AS sales" +
		" FROM order_items oi JOIN orders o ON o.id = oi.order_id" +
		whereClause(conds) +
		" GROUP BY oi.product_id, price_id" +
		" ORDER BY total DESC LIMIT :limit"

	rows, err := store.QueryListNamed[entity.ProductStatRow](ctx, s.rep.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get most valuable products: %w", err)
	}
	s.hydrateProducts(ctx, rows)
	return rows, nil
}

// MostDownloadedProducts returns the top products by fulfilled file
// downloads.
func (s *Stats) MostDownloadedProducts(ctx context.Context, vars *entity.QueryVars) ([]entity.ProductStatRow, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT"},
	})
	if err != nil {
		return nil, err
	}

	var conds []string
	params := map[string]any{"limit": q.limit}
	if !q.period.Start.IsZero() {
		conds = append(conds, "date_created >= :start")
		params["start"] = q.period.Start
	}
	if !q.period.End.IsZero() {
		conds = append(conds, "date_created <= :end")
		params["end"] = q.period.End
	}
	if q.vars.CustomerID != 0 {
		conds = append(conds, "customer_id = :customerId")
		params["customerId"] = q.vars.CustomerID
	}

	query := "SELECT product_id, COALESCE(price_id, -1) AS price_id," +
		" 0 AS total, COUNT(id) AS sales" +
		" FROM file_download_logs" +
		whereClause(conds) +
		" GROUP BY product_id, price_id" +
		" ORDER BY sales DESC LIMIT :limit"

	rows, err := store.QueryListNamed[entity.ProductStatRow](ctx, s.rep.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get most downloaded products: %w", err)
	}
	s.hydrateProducts(ctx, rows)
	return rows, nil
}

// ProductEarnings returns revenue attributed to one product, optionally
// scoped to a price tier.
func (s *Stats) ProductEarnings(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
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

// ProductSalesCount returns the number of units sold for one product,
// optionally scoped to a price tier.
func (s *Stats) ProductSalesCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "oi.quantity",
		allowedColumns: map[string]string{
			"quantity": "oi.quantity",
			"id":       "oi.id",
		},
		functions: []string{"SUM", "COUNT"},
		statuses:  entity.NetOrderStatuses(),
		types:     []string{"sale"},
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

// orderItemConditions builds the shared order_items/orders join predicates.
func (s *Stats) orderItemConditions(q queryContext) ([]string, map[string]any) {
	var conds []string
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
		conds = append(conds, "oi.status IN (:statuses)")
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
	if q.vars.ProductID != 0 {
		conds = append(conds, "oi.product_id = :productId")
		params["productId"] = q.vars.ProductID
	}
	if q.vars.PriceID != 0 {
		conds = append(conds, "oi.price_id = :priceId")
		params["priceId"] = q.vars.PriceID
	}
	return conds, params
}

func (s *Stats) hydrateProducts(ctx context.Context, rows []entity.ProductStatRow) {
	for i := range rows {
		full, err := s.rep.Products().GetProductByID(ctx, rows[i].ProductID)
		if err != nil {
			slog.Default().DebugContext(ctx, "can't hydrate product",
				slog.Int("productId", rows[i].ProductID),
				slog.String("err", err.Error()),
			)
			continue
		}
		rows[i].Product = &full.Product
	}
}
