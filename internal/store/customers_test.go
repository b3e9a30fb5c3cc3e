package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachOrderIncrementsCounters(t *testing.T) {
	ms, mock := mockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("purchase_value = purchase_value + ?")).
		WithArgs("50", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ms.AttachOrder(context.Background(), 4, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetachOrderClampsAtZero(t *testing.T) {
	ms, mock := mockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("GREATEST(purchase_value - ?, 0)")).
		WithArgs("50", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ms.DetachOrder(context.Background(), 4, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecalculateCountersNetFormula(t *testing.T) {
	ms, mock := mockStore(t)

	mock.ExpectBegin()
	// The value subquery signs refund rows negative over the net status set;
	// the count subquery sees sale rows only.
	mock.ExpectExec(regexp.QuoteMeta("SUM(CASE WHEN o.type = 'refund' THEN -(o.total) ELSE o.total END)")).
		WithArgs(
			"complete", "refunded", "partially_refunded", "revoked",
			"complete", "refunded", "partially_refunded", "revoked",
			4,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ms.RecalculateCounters(context.Background(), 4)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
