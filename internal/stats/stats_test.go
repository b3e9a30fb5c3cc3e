package stats

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ddshop/reports-manager/internal/cache"
	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/ddshop/reports-manager/internal/store"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockEngine(t *testing.T, opts ...Option) (*Stats, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	base := []Option{WithClock(func() time.Time { return testNow })}
	s := New(store.NewFromDB(sqlx.NewDb(db, "sqlmock")), append(base, opts...)...)
	return s, mock
}

func valueRows(v string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"value"}).AddRow(v)
}

func januaryWindow() *entity.QueryVars {
	return &entity.QueryVars{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC),
	}
}

func TestOrderEarningsGross(t *testing.T) {
	s, mock := mockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM((total) / rate), 0) AS value FROM orders")).
		WillReturnRows(valueRows("100"))

	res, err := s.OrderEarnings(context.Background(), januaryWindow())
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(dec("100")), res.Value.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderEarningsNet(t *testing.T) {
	s, mock := mockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("SUM((CASE WHEN orders.type = 'refund' THEN -(total) ELSE (total) END) / rate)")).
		WillReturnRows(valueRows("50"))

	vars := januaryWindow()
	vars.RevenueType = entity.RevenueNet
	res, err := s.OrderEarnings(context.Background(), vars)
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(dec("50")), res.Value.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderEarningsRelative(t *testing.T) {
	s, mock := mockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("SUM((total) / rate)")).WillReturnRows(valueRows("150"))
	mock.ExpectQuery(regexp.QuoteMeta("SUM((total) / rate)")).WillReturnRows(valueRows("100"))

	res, err := s.OrderEarnings(context.Background(), &entity.QueryVars{
		Range:    entity.RangeThisMonth,
		Relative: true,
		Output:   entity.OutputFormatted,
	})
	require.NoError(t, err)

	assert.Equal(t, "$150.00", res.Formatted)
	require.NotNil(t, res.Relative)
	assert.True(t, res.Relative.Comparable)
	assert.Equal(t, "50.00", res.Relative.PercentageChange)
	assert.True(t, res.Relative.Positive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCountEmpty(t *testing.T) {
	s, mock := mockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(COUNT(id), 0) AS value FROM orders")).
		WillReturnRows(valueRows("0"))

	res, err := s.OrderCount(context.Background(), januaryWindow())
	require.NoError(t, err)
	assert.True(t, res.Value.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcreteCurrencyDoesNotBleed(t *testing.T) {
	s, mock := mockEngine(t)

	// Pinned currency: no rate division, currency predicate present.
	mock.ExpectQuery("SUM\\(total\\).*currency = \\?").WillReturnRows(valueRows("80"))
	// A later call without currency goes back to rate conversion.
	mock.ExpectQuery(regexp.QuoteMeta("SUM((total) / rate)")).WillReturnRows(valueRows("100"))

	vars := januaryWindow()
	vars.Currency = "EUR"
	res, err := s.OrderEarnings(context.Background(), vars)
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(dec("80")))

	res, err = s.OrderEarnings(context.Background(), januaryWindow())
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(dec("100")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstructorDefaultsApplyToEveryCall(t *testing.T) {
	win := januaryWindow()
	s, mock := mockEngine(t, WithDefaults(entity.QueryVars{
		Start:    win.Start,
		End:      win.End,
		Currency: "EUR",
	}))

	// Both methods inherit the pinned currency and window from the
	// constructor; neither call leaves anything behind for the next one.
	mock.ExpectQuery("SUM\\(total\\).*currency = \\?").WillReturnRows(valueRows("80"))
	mock.ExpectQuery("COUNT\\(id\\).*currency = \\?").WillReturnRows(valueRows("5"))

	res, err := s.OrderEarnings(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(dec("80")))

	res, err = s.OrderCount(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(dec("5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountUsageCount(t *testing.T) {
	s, mock := mockEngine(t)

	mock.ExpectQuery("COUNT\\(oa\\.id\\).*oa\\.description = \\?").
		WillReturnRows(valueRows("3"))

	vars := januaryWindow()
	vars.DiscountCode = "save10"
	res, err := s.DiscountUsageCount(context.Background(), vars)
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(dec("3")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountUsageCountUnmatchedCode(t *testing.T) {
	s, mock := mockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(oa.id)")).WillReturnRows(valueRows("0"))

	vars := januaryWindow()
	vars.DiscountCode = "NOSUCHCODE"
	res, err := s.DiscountUsageCount(context.Background(), vars)
	require.NoError(t, err)
	assert.True(t, res.Value.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRate(t *testing.T) {
	s, mock := mockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(id)")).WillReturnRows(valueRows("5"))
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(id)")).WillReturnRows(valueRows("50"))

	vars := januaryWindow()
	vars.Output = entity.OutputFormatted
	res, err := s.RefundRate(context.Background(), vars)
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(dec("10")))
	assert.Equal(t, "10.00%", res.Formatted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRateZeroSales(t *testing.T) {
	s, mock := mockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(id)")).WillReturnRows(valueRows("0"))
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(id)")).WillReturnRows(valueRows("0"))

	res, err := s.RefundRate(context.Background(), januaryWindow())
	require.NoError(t, err)
	assert.True(t, res.Value.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatewaySalesZeroFill(t *testing.T) {
	require.NoError(t, cache.InitConsts("USD", []entity.Gateway{
		{ID: 1, Name: "stripe", Label: "Stripe"},
		{ID: 2, Name: "paypal", Label: "PayPal"},
		{ID: 3, Name: "manual", Label: "Manual"},
	}))

	s, mock := mockEngine(t)

	rows := sqlmock.NewRows([]string{"gateway", "total", "cnt"}).
		AddRow("stripe", "300", 4)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY gateway")).WillReturnRows(rows)

	out, err := s.GatewaySales(context.Background(), januaryWindow())
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "stripe", out[0].Gateway)
	assert.True(t, out[0].Total.Equal(dec("300")))
	assert.Equal(t, 4, out[0].Count)

	assert.Equal(t, "paypal", out[1].Gateway)
	assert.True(t, out[1].Total.IsZero())
	assert.Equal(t, "manual", out[2].Gateway)
	assert.True(t, out[2].Total.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusiestDay(t *testing.T) {
	s, mock := mockEngine(t)

	rows := sqlmock.NewRows([]string{"weekday", "cnt"}).AddRow(3, 12)
	mock.ExpectQuery(regexp.QuoteMeta("DAYOFWEEK(date_created)")).WillReturnRows(rows)

	day, err := s.BusiestDay(context.Background(), januaryWindow())
	require.NoError(t, err)
	// DAYOFWEEK 3 is Tuesday.
	assert.Equal(t, "Tuesday", day.Weekday)
	assert.Equal(t, 12, day.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusiestDayEmpty(t *testing.T) {
	s, mock := mockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("DAYOFWEEK(date_created)")).
		WillReturnRows(sqlmock.NewRows([]string{"weekday", "cnt"}))

	day, err := s.BusiestDay(context.Background(), januaryWindow())
	require.NoError(t, err)
	assert.Empty(t, day.Weekday)
	assert.Zero(t, day.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
