package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/ddshop/reports-manager/internal/entity"
)

// Overview composes the headline report: scalar KPIs with relative
// comparisons plus the grouped breakdowns, all over one resolved period.
func (s *Stats) Overview(ctx context.Context, vars *entity.QueryVars) (*entity.OverviewReport, error) {
	// Resolve once so the report header shows the effective window.
	q, err := s.resolve(vars, binding{
		dateColumn: "date_created",
		column:     "id",
		functions:  []string{"COUNT"},
	})
	if err != nil {
		return nil, err
	}

	scoped := q.vars
	scoped.Relative = true
	if scoped.Range != "" {
		// Let each method re-resolve the named range so month-length
		// relative windows stay exact.
		scoped.Start, scoped.End = time.Time{}, time.Time{}
	}

	report := &entity.OverviewReport{Period: q.period}
	if !q.relPeriod.Start.IsZero() {
		rel := q.relPeriod
		report.RelativePeriod = &rel
	}

	if report.Earnings, err = s.OrderEarnings(ctx, &scoped); err != nil {
		return nil, fmt.Errorf("overview earnings: %w", err)
	}
	if report.OrderCount, err = s.OrderCount(ctx, &scoped); err != nil {
		return nil, fmt.Errorf("overview order count: %w", err)
	}
	if report.AverageOrderValue, err = s.AverageOrderValue(ctx, &scoped); err != nil {
		return nil, fmt.Errorf("overview average order value: %w", err)
	}
	if report.RefundAmount, err = s.RefundAmount(ctx, &scoped); err != nil {
		return nil, fmt.Errorf("overview refund amount: %w", err)
	}
	if report.RefundRate, err = s.RefundRate(ctx, &scoped); err != nil {
		return nil, fmt.Errorf("overview refund rate: %w", err)
	}
	if report.TaxCollected, err = s.TaxCollected(ctx, &scoped); err != nil {
		return nil, fmt.Errorf("overview tax collected: %w", err)
	}
	if report.DiscountSavings, err = s.DiscountSavings(ctx, &scoped); err != nil {
		return nil, fmt.Errorf("overview discount savings: %w", err)
	}
	if report.FileDownloads, err = s.FileDownloadCount(ctx, &scoped); err != nil {
		return nil, fmt.Errorf("overview file downloads: %w", err)
	}

	grouped := q.vars
	grouped.Relative = false
	if report.GatewaySales, err = s.GatewaySales(ctx, &grouped); err != nil {
		return nil, fmt.Errorf("overview gateway sales: %w", err)
	}
	if report.TaxByLocation, err = s.TaxCollectedByLocation(ctx, &grouped); err != nil {
		return nil, fmt.Errorf("overview tax by location: %w", err)
	}
	if report.MostValuableProducts, err = s.MostValuableProducts(ctx, &grouped); err != nil {
		return nil, fmt.Errorf("overview most valuable products: %w", err)
	}
	if report.PopularDiscounts, err = s.MostPopularDiscounts(ctx, &grouped); err != nil {
		return nil, fmt.Errorf("overview popular discounts: %w", err)
	}
	if report.BusiestDay, err = s.BusiestDay(ctx, &grouped); err != nil {
		return nil, fmt.Errorf("overview busiest day: %w", err)
	}

	return report, nil
}
