package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents the customers table. PurchaseCount and PurchaseValue
// are denormalized counters maintained by the attach/detach/recalculate
// routines in the store, not a live join.
type Customer struct {
	ID            int             `db:"id"`
	Email         string          `db:"email"`
	Name          string          `db:"name"`
	PurchaseCount int             `db:"purchase_count"`
	PurchaseValue decimal.Decimal `db:"purchase_value"`
	DateCreated   time.Time       `db:"date_created"`
}

// EmailAddressType distinguishes the primary address from secondaries.
type EmailAddressType string

const (
	EmailAddressPrimary   EmailAddressType = "primary"
	EmailAddressSecondary EmailAddressType = "secondary"
)

// CustomerEmailAddress represents the customer_email_addresses table.
type CustomerEmailAddress struct {
	ID         int              `db:"id"`
	CustomerID int              `db:"customer_id"`
	Email      string           `db:"email"`
	Type       EmailAddressType `db:"type"`
}
