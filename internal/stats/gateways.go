package stats

import (
	"context"
	"fmt"

	"github.com/ddshop/reports-manager/internal/cache"
	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/ddshop/reports-manager/internal/store"
	"github.com/shopspring/decimal"
)

// gatewayBreakdown runs one grouped aggregate over orders by gateway and
// zero-fills absent gateways from the known dictionary, so a gateway with no
// activity still reports a zero row.
func (s *Stats) gatewayBreakdown(ctx context.Context, q queryContext, expr string) ([]entity.GatewayStatRow, error) {
	conds, params := q.conditions("orders")
	query := "SELECT gateway," +
		" COALESCE(" + expr + ", 0) AS total," +
		" COUNT(id) AS cnt" +
		" FROM orders" +
		whereClause(conds) +
		" GROUP BY gateway"

	rows, err := store.QueryListNamed[entity.GatewayStatRow](ctx, s.rep.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get gateway breakdown: %w", err)
	}

	byGateway := make(map[string]entity.GatewayStatRow, len(rows))
	for _, r := range rows {
		byGateway[r.Gateway] = r
	}

	names := cache.GatewayNames()
	if q.vars.Gateway != "" {
		names = []string{q.vars.Gateway}
	}
	out := make([]entity.GatewayStatRow, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
		if r, ok := byGateway[name]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, entity.GatewayStatRow{Gateway: name, Total: decimal.Zero})
	}
	// Keep rows for gateways no longer in the dictionary.
	for _, r := range rows {
		if !seen[r.Gateway] {
			out = append(out, r)
		}
	}
	return out, nil
}

// GatewayEarnings returns gross revenue per payment gateway.
func (s *Stats) GatewayEarnings(ctx context.Context, vars *entity.QueryVars) ([]entity.GatewayStatRow, error) {
	q, err := s.resolve(vars, binding{
		dateColumn:        "date_created",
		column:            "total",
		taxExcludedColumn: "total - tax",
		functions:         []string{"SUM", "AVG"},
		statuses:          entity.GrossOrderStatuses(),
		types:             []string{"sale"},
		monetary:          true,
	})
	if err != nil {
		return nil, err
	}
	return s.gatewayBreakdown(ctx, q, aggregateExpr(q.function, q.column, q.currency))
}

// GatewaySales returns the order count per payment gateway.
func (s *Stats) GatewaySales(ctx context.Context, vars *entity.QueryVars) ([]entity.GatewayStatRow, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "total",
		functions:  []string{"SUM"},
		statuses:   entity.NetOrderStatuses(),
		types:      []string{"sale"},
		monetary:   true,
	})
	if err != nil {
		return nil, err
	}
	return s.gatewayBreakdown(ctx, q, aggregateExpr(q.function, q.column, q.currency))
}

// GatewayAverageValue returns the mean order total per payment gateway.
func (s *Stats) GatewayAverageValue(ctx context.Context, vars *entity.QueryVars) ([]entity.GatewayStatRow, error) {
	q, err := s.resolve(vars, binding{
		dateColumn:        "date_created",
		column:            "total",
		taxExcludedColumn: "total - tax",
		functions:         []string{"AVG"},
		statuses:          entity.GrossOrderStatuses(),
		types:             []string{"sale"},
		monetary:          true,
	})
	if err != nil {
		return nil, err
	}
	return s.gatewayBreakdown(ctx, q, aggregateExpr(q.function, q.column, q.currency))
}

// GatewayRefundAmount returns the refunded amount per payment gateway, as
// positive magnitudes.
func (s *Stats) GatewayRefundAmount(ctx context.Context, vars *entity.QueryVars) ([]entity.GatewayStatRow, error) {
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "total",
		functions:  []string{"SUM"},
		statuses:   []string{string(entity.OrderStatusComplete)},
		types:      []string{"refund"},
		monetary:   true,
	})
	if err != nil {
		return nil, err
	}
	return s.gatewayBreakdown(ctx, q, aggregateExpr(q.function, q.column, q.currency))
}
