package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockStore(t *testing.T) (*MYSQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFromDB(sqlx.NewDb(db, "sqlmock")), mock
}

func discountColumns() []string {
	return []string{
		"id", "name", "code", "amount_type", "amount", "max_uses",
		"min_charge_amount", "once_per_customer", "start_date", "end_date",
		"status", "use_count",
	}
}

func TestGetDiscountByCodeExpiresOnRead(t *testing.T) {
	ms, mock := mockStore(t)

	past := time.Now().Add(-24 * time.Hour)
	rows := sqlmock.NewRows(discountColumns()).
		AddRow(1, "Spring sale", "SPRING", "percent", "10", 0, "0", false, nil, past, "active", 3)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM discounts WHERE code = ?")).
		WithArgs("SPRING").
		WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE discounts SET status = ? WHERE id = ? AND status = 'active'")).
		WithArgs(entity.DiscountStatusExpired, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Lowercase lookup is uppercased before hitting the database.
	d, err := ms.GetDiscountByCode(context.Background(), "spring")
	require.NoError(t, err)
	assert.Equal(t, entity.DiscountStatusExpired, d.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDiscountByCodeStillActive(t *testing.T) {
	ms, mock := mockStore(t)

	future := time.Now().Add(24 * time.Hour)
	rows := sqlmock.NewRows(discountColumns()).
		AddRow(1, "Spring sale", "SPRING", "percent", "10", 0, "0", false, nil, future, "active", 3)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM discounts WHERE code = ?")).
		WithArgs("SPRING").
		WillReturnRows(rows)

	d, err := ms.GetDiscountByCode(context.Background(), "SPRING")
	require.NoError(t, err)
	assert.Equal(t, entity.DiscountStatusActive, d.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDiscountByCodeNotFound(t *testing.T) {
	ms, mock := mockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM discounts WHERE code = ?")).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows(discountColumns()))

	_, err := ms.GetDiscountByCode(context.Background(), "nope")
	assert.ErrorContains(t, err, "discount not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDiscountDuplicateCode(t *testing.T) {
	ms, mock := mockStore(t)

	mock.ExpectExec("INSERT INTO discounts").
		WillReturnError(&mysql.MySQLError{Number: 1062})

	_, err := ms.AddDiscount(context.Background(), &entity.DiscountInsert{
		Code:       "SPRING",
		AmountType: entity.DiscountAmountFlat,
	})
	assert.ErrorContains(t, err, "discount code already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDiscountValidation(t *testing.T) {
	ms, _ := mockStore(t)

	_, err := ms.AddDiscount(context.Background(), &entity.DiscountInsert{AmountType: entity.DiscountAmountFlat})
	assert.ErrorContains(t, err, "code is empty")

	_, err = ms.AddDiscount(context.Background(), &entity.DiscountInsert{Code: "X", AmountType: "half-off"})
	assert.ErrorContains(t, err, "invalid discount amount type")
}
