package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusName is the custom type to enforce enum-like behavior
type OrderStatusName string

func (osn OrderStatusName) String() string {
	return string(osn)
}

const (
	OrderStatusPending           OrderStatusName = "pending"
	OrderStatusProcessing        OrderStatusName = "processing"
	OrderStatusComplete          OrderStatusName = "complete"
	OrderStatusRefunded          OrderStatusName = "refunded"
	OrderStatusPartiallyRefunded OrderStatusName = "partially_refunded"
	OrderStatusRevoked           OrderStatusName = "revoked"
	OrderStatusFailed            OrderStatusName = "failed"
	OrderStatusAbandoned         OrderStatusName = "abandoned"
)

// ValidOrderStatusNames is a set of valid order status names
var ValidOrderStatusNames = map[OrderStatusName]bool{
	OrderStatusPending:           true,
	OrderStatusProcessing:        true,
	OrderStatusComplete:          true,
	OrderStatusRefunded:          true,
	OrderStatusPartiallyRefunded: true,
	OrderStatusRevoked:           true,
	OrderStatusFailed:            true,
	OrderStatusAbandoned:         true,
}

// GrossOrderStatuses returns the status set counted toward top-line revenue
// before refunds are subtracted. Combined with type = sale only.
func GrossOrderStatuses() []string {
	return []string{
		string(OrderStatusComplete),
		string(OrderStatusRefunded),
		string(OrderStatusPartiallyRefunded),
		string(OrderStatusRevoked),
	}
}

// NetOrderStatuses returns the status set counted toward revenue after refund
// effects. Combined with type IN (sale, refund); refund rows are signed
// negative by the aggregate expression.
func NetOrderStatuses() []string {
	return []string{
		string(OrderStatusComplete),
		string(OrderStatusRefunded),
		string(OrderStatusPartiallyRefunded),
		string(OrderStatusRevoked),
	}
}

// OrderTypeName discriminates sale rows from refund rows.
type OrderTypeName string

const (
	OrderTypeSale   OrderTypeName = "sale"
	OrderTypeRefund OrderTypeName = "refund"
)

var ValidOrderTypeNames = map[OrderTypeName]bool{
	OrderTypeSale:   true,
	OrderTypeRefund: true,
}

// Order represents the orders table. Monetary columns are stored in the
// transaction currency; dividing by Rate converts back to the store currency.
type Order struct {
	ID            int             `db:"id"`
	UUID          string          `db:"uuid"`
	Status        OrderStatusName `db:"status"`
	Type          OrderTypeName   `db:"type"`
	CustomerID    int             `db:"customer_id"`
	Email         string          `db:"email"`
	Gateway       string          `db:"gateway"`
	Currency      string          `db:"currency"`
	Rate          decimal.Decimal `db:"rate"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Discount      decimal.Decimal `db:"discount"`
	Tax           decimal.Decimal `db:"tax"`
	Total         decimal.Decimal `db:"total"`
	DateCreated   time.Time       `db:"date_created"`
	DateCompleted sql.NullTime    `db:"date_completed"`
}

func (o *Order) TotalDecimal() decimal.Decimal {
	return o.Total.Round(2)
}

// OrderItem represents the order_items table. PriceID references a variable
// price tier and is null for single-price products.
type OrderItem struct {
	ID        int             `db:"id"`
	OrderID   int             `db:"order_id"`
	ProductID int             `db:"product_id"`
	PriceID   sql.NullInt32   `db:"price_id"`
	Status    OrderStatusName `db:"status"`
	Quantity  int             `db:"quantity"`
	Amount    decimal.Decimal `db:"amount"`
	Subtotal  decimal.Decimal `db:"subtotal"`
	Discount  decimal.Decimal `db:"discount"`
	Tax       decimal.Decimal `db:"tax"`
	Total     decimal.Decimal `db:"total"`
}

// AdjustmentTypeName is the type of a monetary modifier attached to an order
// or order item.
type AdjustmentTypeName string

const (
	AdjustmentTypeDiscount AdjustmentTypeName = "discount"
	AdjustmentTypeFee      AdjustmentTypeName = "fee"
	AdjustmentTypeTaxRate  AdjustmentTypeName = "tax_rate"
	AdjustmentTypeCredit   AdjustmentTypeName = "credit"
)

// ObjectTypeName says which table an adjustment hangs off.
type ObjectTypeName string

const (
	ObjectTypeOrder     ObjectTypeName = "order"
	ObjectTypeOrderItem ObjectTypeName = "order_item"
)

// OrderAdjustment represents the order_adjustments table. Discount-type rows
// carry the discount id in TypeID and the discount code in Description.
type OrderAdjustment struct {
	ID          int                `db:"id"`
	ObjectID    int                `db:"object_id"`
	ObjectType  ObjectTypeName     `db:"object_type"`
	Type        AdjustmentTypeName `db:"type"`
	TypeID      sql.NullInt32      `db:"type_id"`
	Description string             `db:"description"`
	Subtotal    decimal.Decimal    `db:"subtotal"`
	Tax         decimal.Decimal    `db:"tax"`
	Total       decimal.Decimal    `db:"total"`
}

// OrderAddress represents the order_addresses table, used by the
// tax-by-location statistics.
type OrderAddress struct {
	ID         int    `db:"id"`
	OrderID    int    `db:"order_id"`
	Country    string `db:"country"`
	Region     string `db:"region"`
	City       string `db:"city"`
	PostalCode string `db:"postal_code"`
}

// OrderNew is the full insert payload used when recording an order.
type OrderNew struct {
	Order       Order
	Items       []OrderItem
	Adjustments []OrderAdjustment
	Address     *OrderAddress
}
