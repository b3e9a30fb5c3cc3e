package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/ddshop/reports-manager/internal/store"
	"github.com/shopspring/decimal"
)

// CustomerCount returns the number of customers registered in the period.
func (s *Stats) CustomerCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT"},
	})
	if err != nil {
		return nil, err
	}

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
	query := "SELECT COALESCE(COUNT(id), 0) AS value FROM customers" + whereClause(conds)

	value, err := s.scalar(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("can't count customers: %w", err)
	}
	var relative *decimal.Decimal
	if q.hasRelative() {
		rel, err := s.scalar(ctx, query, q.relativeParams(params))
		if err != nil {
			return nil, fmt.Errorf("can't count relative customers: %w", err)
		}
		relative = &rel
	}
	return s.result(q, value, relative, false), nil
}

// MostValuableCustomers returns the top customers by period revenue, with the
// customer object attached when it can be loaded.
func (s *Stats) MostValuableCustomers(ctx context.Context, vars *entity.QueryVars) ([]entity.CustomerStatRow, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "total",
		functions:  []string{"SUM"},
		statuses:   entity.NetOrderStatuses(),
		types:      []string{"sale", "refund"},
		monetary:   true,
	})
	if err != nil {
		return nil, err
	}

	signed := "CASE WHEN orders.type = 'refund' THEN -(total) ELSE (total) END"
	expr := aggregateExpr(q.function, signed, q.currency)
	conds, params := q.conditions("orders")
	conds = append(conds, "orders.customer_id <> 0")
	params["limit"] = q.limit

	query := "SELECT customer_id," +
		" COALESCE(" + expr + ", 0) AS total," +
		" COUNT(id) AS orders" +
		" FROM orders" +
		whereClause(conds) +
		" GROUP BY customer_id ORDER BY total DESC LIMIT :limit"

	rows, err := store.QueryListNamed[entity.CustomerStatRow](ctx, s.rep.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get most valuable customers: %w", err)
	}
	for i := range rows {
		customer, err := s.rep.Customers().GetCustomerByID(ctx, rows[i].CustomerID)
		if err != nil {
			slog.Default().DebugContext(ctx, "can't hydrate customer",
				slog.Int("customerId", rows[i].CustomerID),
				slog.String("err", err.Error()),
			)
			continue
		}
		rows[i].Customer = customer
	}
	return rows, nil
}

// AverageCustomerValue returns the mean per-customer revenue within the
// period.
func (s *Stats) AverageCustomerValue(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "total",
		functions:  []string{"AVG"},
		statuses:   entity.NetOrderStatuses(),
		types:      []string{"sale", "refund"},
		monetary:   true,
	})
	if err != nil {
		return nil, err
	}

	signed := "CASE WHEN orders.type = 'refund' THEN -(total) ELSE (total) END"
	inner := aggregateExpr("SUM", signed, q.currency)
	conds, params := q.conditions("orders")
	conds = append(conds, "orders.customer_id <> 0")

	query := "SELECT COALESCE(AVG(t.total), 0) AS value FROM (" +
		"SELECT " + inner + " AS total FROM orders" +
		whereClause(conds) +
		" GROUP BY customer_id) t"

	value, err := s.scalar(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get average customer value: %w", err)
	}
	var relative *decimal.Decimal
	if q.hasRelative() {
		rel, err := s.scalar(ctx, query, q.relativeParams(params))
		if err != nil {
			return nil, fmt.Errorf("can't get relative average customer value: %w", err)
		}
		relative = &rel
	}
	return s.result(q, value, relative, false), nil
}

// CustomerLifetimeValue returns the mean lifetime purchase value across
// customers, read from the denormalized counters rather than a live join.
func (s *Stats) CustomerLifetimeValue(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "purchase_value",
		functions:  []string{"AVG", "SUM"},
		monetary:   true,
	})
	if err != nil {
		return nil, err
	}

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
	conds = append(conds, "purchase_count > 0")

	// Counters are already in store currency, so no rate division applies.
	query := "SELECT COALESCE(" + q.function + "(purchase_value), 0) AS value FROM customers" +
		whereClause(conds)

	value, err := s.scalar(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get customer lifetime value: %w", err)
	}
	var relative *decimal.Decimal
	if q.hasRelative() {
		rel, err := s.scalar(ctx, query, q.relativeParams(params))
		if err != nil {
			return nil, fmt.Errorf("can't get relative customer lifetime value: %w", err)
		}
		relative = &rel
	}
	return s.result(q, value, relative, false), nil
}
