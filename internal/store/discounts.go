package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ddshop/reports-manager/internal/dependency"
	"github.com/ddshop/reports-manager/internal/entity"
)

type discountsStore struct {
	*MYSQLStore
}

// Discounts returns an object implementing Discounts interface
func (ms *MYSQLStore) Discounts() dependency.Discounts {
	return &discountsStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) AddDiscount(ctx context.Context, d *entity.DiscountInsert) (int, error) {
	if d.Code == "" {
		return 0, fmt.Errorf("discount code is empty")
	}
	if d.AmountType != entity.DiscountAmountFlat && d.AmountType != entity.DiscountAmountPercent {
		return 0, fmt.Errorf("invalid discount amount type: %s", d.AmountType)
	}
	id, err := ExecNamedLastId(ctx, ms.DB(), `
	INSERT INTO discounts
		(name, code, status, amount_type, amount, max_uses, use_count,
		min_charge_amount, once_per_customer, start_date, end_date)
	VALUES
		(:name, :code, :status, :amountType, :amount, :maxUses, 0,
		:minChargeAmount, :oncePerCustomer, :startDate, :endDate)`,
		map[string]any{
			"name":            d.Name,
			"code":            strings.ToUpper(d.Code),
			"status":          entity.DiscountStatusActive,
			"amountType":      d.AmountType,
			"amount":          d.Amount,
			"maxUses":         d.MaxUses,
			"minChargeAmount": d.MinChargeAmount,
			"oncePerCustomer": d.OncePerCustomer,
			"startDate":       d.StartDate,
			"endDate":         d.EndDate,
		})
	if err != nil {
		if ms.IsErrUniqueViolation(err) {
			return 0, fmt.Errorf("discount code already exists: %s", d.Code)
		}
		return 0, fmt.Errorf("failed to add discount: %w", err)
	}
	return id, nil
}

// GetDiscountByCode returns a discount by code. Reading a discount whose end
// date has passed transitions it to expired; the transition is best effort
// and the returned object reflects the new status either way.
func (ms *MYSQLStore) GetDiscountByCode(ctx context.Context, code string) (*entity.Discount, error) {
	d, err := QueryNamedOne[entity.Discount](ctx, ms.DB(), `
	SELECT * FROM discounts WHERE code = :code`, map[string]any{
		"code": strings.ToUpper(code),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("discount not found: %s", code)
		}
		return nil, fmt.Errorf("can't get discount by code: %w", err)
	}

	if d.Status == entity.DiscountStatusActive && d.IsExpired(ms.Now()) {
		d.Status = entity.DiscountStatusExpired
		err := ExecNamed(ctx, ms.DB(), `
		UPDATE discounts SET status = :status WHERE id = :id AND status = 'active'`,
			map[string]any{
				"status": entity.DiscountStatusExpired,
				"id":     d.ID,
			})
		if err != nil {
			slog.Default().ErrorContext(ctx, "can't expire discount on read",
				slog.String("code", d.Code),
				slog.String("err", err.Error()),
			)
		}
	}
	return &d, nil
}

// IncrementUseCount bumps the usage counter and deactivates the discount once
// the cap is reached. Zero max_uses means unlimited.
func (ms *MYSQLStore) IncrementUseCount(ctx context.Context, code string) error {
	return ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		err := ExecNamed(ctx, rep.DB(), `
		UPDATE discounts SET use_count = use_count + 1 WHERE code = :code`,
			map[string]any{"code": strings.ToUpper(code)})
		if err != nil {
			return fmt.Errorf("can't increment use count: %w", err)
		}
		err = ExecNamed(ctx, rep.DB(), `
		UPDATE discounts SET status = 'inactive'
		WHERE code = :code AND status = 'active' AND max_uses > 0 AND use_count >= max_uses`,
			map[string]any{"code": strings.ToUpper(code)})
		if err != nil {
			return fmt.Errorf("can't deactivate maxed out discount: %w", err)
		}
		return nil
	})
}

// DecrementUseCount is the refund-path counterpart of IncrementUseCount. A
// discount deactivated by the usage cap is reactivated when it drops back
// under the cap.
func (ms *MYSQLStore) DecrementUseCount(ctx context.Context, code string) error {
	return ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		err := ExecNamed(ctx, rep.DB(), `
		UPDATE discounts SET use_count = GREATEST(use_count - 1, 0) WHERE code = :code`,
			map[string]any{"code": strings.ToUpper(code)})
		if err != nil {
			return fmt.Errorf("can't decrement use count: %w", err)
		}
		err = ExecNamed(ctx, rep.DB(), `
		UPDATE discounts SET status = 'active'
		WHERE code = :code AND status = 'inactive' AND (max_uses = 0 OR use_count < max_uses)`,
			map[string]any{"code": strings.ToUpper(code)})
		if err != nil {
			return fmt.Errorf("can't reactivate discount: %w", err)
		}
		return nil
	})
}

func (ms *MYSQLStore) ArchiveDiscount(ctx context.Context, code string) error {
	err := ExecNamed(ctx, ms.DB(), `
	UPDATE discounts SET status = :status WHERE code = :code`, map[string]any{
		"status": entity.DiscountStatusArchived,
		"code":   strings.ToUpper(code),
	})
	if err != nil {
		return fmt.Errorf("can't archive discount: %w", err)
	}
	return nil
}

func (ms *MYSQLStore) ListDiscounts(ctx context.Context, limit, offset int) ([]entity.Discount, error) {
	discounts, err := QueryListNamed[entity.Discount](ctx, ms.DB(), `
	SELECT * FROM discounts
	ORDER BY id DESC
	LIMIT :limit OFFSET :offset`, map[string]any{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get discount list: %w", err)
	}
	return discounts, nil
}
