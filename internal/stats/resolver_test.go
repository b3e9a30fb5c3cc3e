package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFunction(t *testing.T) {
	accepted := []string{"SUM", "AVG"}

	fn, err := resolveFunction("avg", "", accepted)
	require.NoError(t, err)
	assert.Equal(t, "AVG", fn)

	// Engine default applies when there is no explicit override.
	fn, err = resolveFunction("", "AVG", accepted)
	require.NoError(t, err)
	assert.Equal(t, "AVG", fn)

	// Unrecognized requests fall back to the first accepted function.
	fn, err = resolveFunction("MEDIAN", "", accepted)
	require.NoError(t, err)
	assert.Equal(t, "SUM", fn)

	fn, err = resolveFunction("", "", accepted)
	require.NoError(t, err)
	assert.Equal(t, "SUM", fn)

	// Explicit wins over the default.
	fn, err = resolveFunction(" sum ", "AVG", accepted)
	require.NoError(t, err)
	assert.Equal(t, "SUM", fn)
}

func TestResolveFunctionEmptyAccepted(t *testing.T) {
	_, err := resolveFunction("SUM", "", nil)
	assert.ErrorIs(t, err, ErrNoFunctions)
}

func TestMonetaryColumn(t *testing.T) {
	assert.True(t, monetaryColumn("total"))
	assert.True(t, monetaryColumn("total - tax"))
	assert.True(t, monetaryColumn("oi.amount"))
	assert.True(t, monetaryColumn("CASE WHEN orders.type = 'refund' THEN -(total) ELSE (total) END"))
	assert.False(t, monetaryColumn("id"))
	assert.False(t, monetaryColumn("oi.quantity"))
}

func TestAggregateExpr(t *testing.T) {
	// Mixed-currency sums divide by the stored rate.
	assert.Equal(t, "SUM((total) / rate)", aggregateExpr("SUM", "total", ""))
	assert.Equal(t, "AVG((total - tax) / rate)", aggregateExpr("AVG", "total - tax", "convert"))

	// A concrete currency pins the rows; no division.
	assert.Equal(t, "SUM(total)", aggregateExpr("SUM", "total", "EUR"))

	// Counting is never converted.
	assert.Equal(t, "COUNT(id)", aggregateExpr("COUNT", "id", ""))

	// Non-monetary columns are left alone.
	assert.Equal(t, "SUM(quantity)", aggregateExpr("SUM", "quantity", ""))
}

func TestAggregateExprAliased(t *testing.T) {
	assert.Equal(t, "SUM((oi.total) / o.rate)", aggregateExprAliased("SUM", "oi.total", "", "o.rate"))
	assert.Equal(t, "SUM(oi.total)", aggregateExprAliased("SUM", "oi.total", "USD", "o.rate"))
	assert.Equal(t, "COUNT(oi.id)", aggregateExprAliased("COUNT", "oi.id", "", "o.rate"))
}
