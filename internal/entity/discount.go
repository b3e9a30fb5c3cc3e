package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountStatusName is the lifecycle status of a discount code.
type DiscountStatusName string

const (
	DiscountStatusActive   DiscountStatusName = "active"
	DiscountStatusInactive DiscountStatusName = "inactive"
	DiscountStatusExpired  DiscountStatusName = "expired"
	DiscountStatusArchived DiscountStatusName = "archived"
)

// DiscountAmountType says whether Amount is a flat value or a percentage.
type DiscountAmountType string

const (
	DiscountAmountFlat    DiscountAmountType = "flat"
	DiscountAmountPercent DiscountAmountType = "percent"
)

// Discount represents the discounts table
type Discount struct {
	ID int `db:"id"`
	DiscountInsert
	Status   DiscountStatusName `db:"status"`
	UseCount int                `db:"use_count"`
}

type DiscountInsert struct {
	Name            string             `db:"name"`
	Code            string             `db:"code"`
	AmountType      DiscountAmountType `db:"amount_type"`
	Amount          decimal.Decimal    `db:"amount"`
	MaxUses         int                `db:"max_uses"`
	MinChargeAmount decimal.Decimal    `db:"min_charge_amount"`
	OncePerCustomer bool               `db:"once_per_customer"`
	StartDate       sql.NullTime       `db:"start_date"`
	EndDate         sql.NullTime       `db:"end_date"`
}

// IsExpired reports whether the eligibility window has closed.
func (d *Discount) IsExpired(now time.Time) bool {
	return d.EndDate.Valid && d.EndDate.Time.Before(now)
}

// IsMaxedOut reports whether the usage cap has been reached. Zero MaxUses
// means unlimited.
func (d *Discount) IsMaxedOut() bool {
	return d.MaxUses > 0 && d.UseCount >= d.MaxUses
}

// IsActive reports whether the discount can be applied at the given instant.
func (d *Discount) IsActive(now time.Time) bool {
	if d.Status != DiscountStatusActive {
		return false
	}
	if d.StartDate.Valid && d.StartDate.Time.After(now) {
		return false
	}
	return !d.IsExpired(now) && !d.IsMaxedOut()
}

// DiscountedAmount applies the discount to a cart subtotal.
func (d *Discount) DiscountedAmount(subtotal decimal.Decimal) decimal.Decimal {
	if d.AmountType == DiscountAmountPercent {
		return subtotal.Mul(d.Amount).Div(decimal.NewFromInt(100)).Round(2)
	}
	if d.Amount.GreaterThan(subtotal) {
		return subtotal
	}
	return d.Amount
}
