package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderColumns() []string {
	return []string{
		"id", "uuid", "status", "type", "customer_id", "email", "gateway",
		"currency", "rate", "subtotal", "discount", "tax", "total",
		"date_created", "date_completed",
	}
}

func saleOrderNew() *entity.OrderNew {
	return &entity.OrderNew{
		Order: entity.Order{
			Status:     entity.OrderStatusComplete,
			Type:       entity.OrderTypeSale,
			CustomerID: 9,
			Email:      "buyer@example.com",
			Gateway:    "stripe",
			Currency:   "USD",
			Rate:       decimal.NewFromInt(1),
			Subtotal:   decimal.NewFromInt(100),
			Tax:        decimal.NewFromInt(10),
			Total:      decimal.NewFromInt(110),
		},
		Items: []entity.OrderItem{
			{
				ProductID: 3,
				Status:    entity.OrderStatusComplete,
				Quantity:  1,
				Amount:    decimal.NewFromInt(100),
				Subtotal:  decimal.NewFromInt(100),
				Tax:       decimal.NewFromInt(10),
				Total:     decimal.NewFromInt(110),
			},
		},
	}
}

func TestInsertOrderSaleAttachesCustomer(t *testing.T) {
	ms, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// The sale bumps the customer counters inside the same transaction.
	mock.ExpectExec(regexp.QuoteMeta("purchase_count = purchase_count + 1")).
		WithArgs("110", 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := ms.InsertOrder(context.Background(), saleOrderNew())
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertOrderRefundSkipsCounters(t *testing.T) {
	ms, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	orderNew := saleOrderNew()
	orderNew.Order.Type = entity.OrderTypeRefund
	orderNew.Order.Status = entity.OrderStatusRefunded

	_, err := ms.InsertOrder(context.Background(), orderNew)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertOrderValidation(t *testing.T) {
	ms, _ := mockStore(t)

	_, err := ms.InsertOrder(context.Background(), &entity.OrderNew{})
	assert.ErrorContains(t, err, "at least one item")

	orderNew := saleOrderNew()
	orderNew.Order.Status = "shipped"
	_, err = ms.InsertOrder(context.Background(), orderNew)
	assert.ErrorContains(t, err, "invalid order status")

	orderNew = saleOrderNew()
	orderNew.Order.Type = "exchange"
	_, err = ms.InsertOrder(context.Background(), orderNew)
	assert.ErrorContains(t, err, "invalid order type")
}

func TestUpdateOrderStatusRevokeDetachesCustomer(t *testing.T) {
	ms, mock := mockStore(t)

	rows := sqlmock.NewRows(orderColumns()).
		AddRow(5, "o-5", "complete", "sale", 9, "buyer@example.com", "stripe",
			"USD", "1", "100", "0", "10", "110", time.Now(), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM orders WHERE id = ?")).
		WithArgs(5).
		WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = ? WHERE id = ?")).
		WithArgs("revoked", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE order_items SET status = ? WHERE order_id = ?")).
		WithArgs("revoked", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Revoking a counted sale rolls the customer counters back.
	mock.ExpectExec(regexp.QuoteMeta("GREATEST(purchase_count - 1, 0)")).
		WithArgs("110", 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ms.UpdateOrderStatus(context.Background(), 5, entity.OrderStatusRevoked)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusCompleteStampsDate(t *testing.T) {
	ms, mock := mockStore(t)

	rows := sqlmock.NewRows(orderColumns()).
		AddRow(5, "o-5", "pending", "sale", 9, "buyer@example.com", "stripe",
			"USD", "1", "100", "0", "10", "110", time.Now(), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM orders WHERE id = ?")).
		WithArgs(5).
		WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = ?, date_completed = ? WHERE id = ?")).
		WithArgs("complete", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE order_items SET status = ? WHERE order_id = ?")).
		WithArgs("complete", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ms.UpdateOrderStatus(context.Background(), 5, entity.OrderStatusComplete)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
