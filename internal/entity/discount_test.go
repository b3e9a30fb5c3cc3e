package entity

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var discountNow = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)

func TestDiscountIsExpired(t *testing.T) {
	d := Discount{}
	assert.False(t, d.IsExpired(discountNow))

	d.EndDate = sql.NullTime{Time: discountNow.Add(-time.Hour), Valid: true}
	assert.True(t, d.IsExpired(discountNow))

	d.EndDate = sql.NullTime{Time: discountNow.Add(time.Hour), Valid: true}
	assert.False(t, d.IsExpired(discountNow))
}

func TestDiscountIsMaxedOut(t *testing.T) {
	d := Discount{UseCount: 100}
	// Zero max means unlimited.
	assert.False(t, d.IsMaxedOut())

	d.MaxUses = 100
	assert.True(t, d.IsMaxedOut())

	d.UseCount = 99
	assert.False(t, d.IsMaxedOut())
}

func TestDiscountIsActive(t *testing.T) {
	d := Discount{Status: DiscountStatusActive}
	assert.True(t, d.IsActive(discountNow))

	d.StartDate = sql.NullTime{Time: discountNow.Add(time.Hour), Valid: true}
	assert.False(t, d.IsActive(discountNow))

	d.StartDate = sql.NullTime{}
	d.Status = DiscountStatusArchived
	assert.False(t, d.IsActive(discountNow))
}

func TestDiscountedAmount(t *testing.T) {
	subtotal := decimal.NewFromInt(200)

	flat := Discount{DiscountInsert: DiscountInsert{
		AmountType: DiscountAmountFlat,
		Amount:     decimal.NewFromInt(30),
	}}
	assert.True(t, flat.DiscountedAmount(subtotal).Equal(decimal.NewFromInt(30)))

	// A flat discount never exceeds the subtotal.
	big := Discount{DiscountInsert: DiscountInsert{
		AmountType: DiscountAmountFlat,
		Amount:     decimal.NewFromInt(500),
	}}
	assert.True(t, big.DiscountedAmount(subtotal).Equal(subtotal))

	pct := Discount{DiscountInsert: DiscountInsert{
		AmountType: DiscountAmountPercent,
		Amount:     decimal.NewFromInt(15),
	}}
	assert.True(t, pct.DiscountedAmount(subtotal).Equal(decimal.NewFromInt(30)))
}
