package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the products table (a downloadable good). Sales and
// Earnings are denormalized counters.
type Product struct {
	ID          int             `db:"id"`
	Name        string          `db:"name"`
	Price       decimal.Decimal `db:"price"`
	Bundle      bool            `db:"bundle"`
	Sales       int             `db:"sales"`
	Earnings    decimal.Decimal `db:"earnings"`
	DateCreated time.Time       `db:"date_created"`
}

// ProductPrice represents the product_prices table: one row per variable
// price tier of a product. PriceID is the tier key referenced by order items.
type ProductPrice struct {
	ID        int             `db:"id"`
	ProductID int             `db:"product_id"`
	PriceID   int             `db:"price_id"`
	Name      string          `db:"name"`
	Amount    decimal.Decimal `db:"amount"`
}

// ProductFile represents the product_files table. ConditionPriceID restricts
// the file to buyers of a given price tier; null means any tier.
type ProductFile struct {
	ID               int           `db:"id"`
	ProductID        int           `db:"product_id"`
	Name             string        `db:"name"`
	StorageKey       string        `db:"storage_key"`
	ConditionPriceID sql.NullInt32 `db:"condition_price_id"`
}

// ProductFull is a product together with its price tiers and files.
type ProductFull struct {
	Product Product
	Prices  []ProductPrice
	Files   []ProductFile
	Bundled []int
}

// FileDownloadLog represents the file_download_logs table.
type FileDownloadLog struct {
	ID          int           `db:"id"`
	ProductID   int           `db:"product_id"`
	FileID      int           `db:"file_id"`
	OrderID     int           `db:"order_id"`
	PriceID     sql.NullInt32 `db:"price_id"`
	CustomerID  int           `db:"customer_id"`
	DateCreated time.Time     `db:"date_created"`
}

// Gateway represents the gateways table (known payment gateways). The
// gateway-breakdown statistics zero-fill absent gateways from this set.
type Gateway struct {
	ID    int    `db:"id"`
	Name  string `db:"name"`
	Label string `db:"label"`
}
