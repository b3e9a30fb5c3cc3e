package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type (
	ContextStore interface {
		Tx(ctx context.Context, fn func(ctx context.Context, store Repository) error) error
	}

	Orders interface {
		ContextStore
		// InsertOrder records an order with its items, adjustments and address.
		InsertOrder(ctx context.Context, orderNew *entity.OrderNew) (int, error)
		// GetOrderByUUID returns an order by its public identifier.
		GetOrderByUUID(ctx context.Context, orderUUID string) (*entity.Order, error)
		// GetOrderItems returns the items of an order.
		GetOrderItems(ctx context.Context, orderID int) ([]entity.OrderItem, error)
		// UpdateOrderStatus moves an order to a new status.
		UpdateOrderStatus(ctx context.Context, orderID int, status entity.OrderStatusName) error
	}

	Discounts interface {
		ContextStore
		AddDiscount(ctx context.Context, d *entity.DiscountInsert) (int, error)
		// GetDiscountByCode returns a discount, transitioning it to expired
		// when the end date has passed (best-effort side effect on read).
		GetDiscountByCode(ctx context.Context, code string) (*entity.Discount, error)
		// IncrementUseCount bumps the usage counter, transitioning the
		// discount to inactive once max uses is reached.
		IncrementUseCount(ctx context.Context, code string) error
		DecrementUseCount(ctx context.Context, code string) error
		ArchiveDiscount(ctx context.Context, code string) error
		ListDiscounts(ctx context.Context, limit, offset int) ([]entity.Discount, error)
	}

	Customers interface {
		ContextStore
		AddCustomer(ctx context.Context, email, name string) (int, error)
		GetCustomerByID(ctx context.Context, id int) (*entity.Customer, error)
		GetCustomerByEmail(ctx context.Context, email string) (*entity.Customer, error)
		// AttachOrder increments the denormalized purchase counters.
		AttachOrder(ctx context.Context, customerID int, total decimal.Decimal) error
		// DetachOrder decrements the denormalized purchase counters.
		DetachOrder(ctx context.Context, customerID int, total decimal.Decimal) error
		// RecalculateCounters rebuilds the counters from the orders table.
		RecalculateCounters(ctx context.Context, customerID int) error
		AddEmailAddress(ctx context.Context, customerID int, email string) error
	}

	Products interface {
		GetProductByID(ctx context.Context, id int) (*entity.ProductFull, error)
		ListGateways(ctx context.Context) ([]entity.Gateway, error)
	}

	Downloads interface {
		LogFileDownload(ctx context.Context, log *entity.FileDownloadLog) (int, error)
	}

	// Stats is the statistics engine surface consumed by the reports API.
	// Implementations must be safe for concurrent use: every method derives
	// an immutable per-call context from the constructor defaults plus the
	// supplied override.
	Stats interface {
		OrderEarnings(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		OrderCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		AverageOrderValue(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		OrderItemCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		OrderItemEarnings(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		RefundCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		RefundAmount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		AverageRefundAmount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		RefundRate(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		BusiestDay(ctx context.Context, vars *entity.QueryVars) (*entity.BusiestDay, error)

		MostValuableProducts(ctx context.Context, vars *entity.QueryVars) ([]entity.ProductStatRow, error)
		ProductEarnings(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		ProductSalesCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)

		CustomerCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		MostValuableCustomers(ctx context.Context, vars *entity.QueryVars) ([]entity.CustomerStatRow, error)
		AverageCustomerValue(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		CustomerLifetimeValue(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)

		DiscountUsageCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		DiscountSavings(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		AverageDiscountAmount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		RatioOfDiscountedOrders(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		MostPopularDiscounts(ctx context.Context, vars *entity.QueryVars) ([]entity.DiscountStatRow, error)

		GatewayEarnings(ctx context.Context, vars *entity.QueryVars) ([]entity.GatewayStatRow, error)
		GatewaySales(ctx context.Context, vars *entity.QueryVars) ([]entity.GatewayStatRow, error)
		GatewayAverageValue(ctx context.Context, vars *entity.QueryVars) ([]entity.GatewayStatRow, error)
		GatewayRefundAmount(ctx context.Context, vars *entity.QueryVars) ([]entity.GatewayStatRow, error)

		TaxCollected(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		TaxCollectedByLocation(ctx context.Context, vars *entity.QueryVars) ([]entity.TaxLocationRow, error)

		FileDownloadCount(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)
		MostDownloadedProducts(ctx context.Context, vars *entity.QueryVars) ([]entity.ProductStatRow, error)
		AverageFileDownloadsPerCustomer(ctx context.Context, vars *entity.QueryVars) (*entity.Result, error)

		Overview(ctx context.Context, vars *entity.QueryVars) (*entity.OverviewReport, error)
	}

	Repository interface {
		Orders() Orders
		Discounts() Discounts
		Customers() Customers
		Products() Products
		Downloads() Downloads
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		TxBegin(ctx context.Context) (Repository, error)
		TxCommit(ctx context.Context) error
		TxRollback(ctx context.Context) error
		Now() time.Time
		InTx() bool
		Close()
		IsErrUniqueViolation(err error) bool
		IsErrorRepeat(err error) bool
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
		PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
		PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}
)
