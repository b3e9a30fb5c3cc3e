package stats

import (
	"fmt"
	"strings"
)

// resolveFunction picks the aggregate: explicit override first, then the
// engine default, then the method's first accepted function. Unrecognized
// requests fall back silently; an empty accepted list is a configuration
// error.
func resolveFunction(explicit, deflt string, accepted []string) (string, error) {
	if len(accepted) == 0 {
		return "", ErrNoFunctions
	}
	for _, candidate := range []string{explicit, deflt} {
		if candidate == "" {
			continue
		}
		candidate = strings.ToUpper(strings.TrimSpace(candidate))
		for _, fn := range accepted {
			if candidate == fn {
				return fn, nil
			}
		}
	}
	return accepted[0], nil
}

// monetaryColumn reports whether the expression touches a money column that
// is stored in transaction currency.
func monetaryColumn(column string) bool {
	return strings.Contains(column, "total") || strings.Contains(column, "tax") ||
		strings.Contains(column, "amount") || strings.Contains(column, "discount")
}

// aggregateExpr builds the aggregate SQL expression. When summing or
// averaging money across currencies (currency disabled or the convert
// sentinel) the column is divided by the per-row exchange rate so mixed rows
// are comparable in store-default terms. A concrete currency code pins the
// rows instead, so no division is applied.
func aggregateExpr(fn, column, curr string) string {
	if (fn == "SUM" || fn == "AVG") &&
		(curr == "" || curr == currencyConvert) &&
		monetaryColumn(column) {
		return fmt.Sprintf("%s((%s) / rate)", fn, column)
	}
	return fmt.Sprintf("%s(%s)", fn, column)
}

// aggregateExprAliased is aggregateExpr with an explicit rate qualifier, for
// queries joining the orders table under an alias.
func aggregateExprAliased(fn, column, curr, rateExpr string) string {
	if (fn == "SUM" || fn == "AVG") &&
		(curr == "" || curr == currencyConvert) &&
		monetaryColumn(column) {
		return fmt.Sprintf("%s((%s) / %s)", fn, column, rateExpr)
	}
	return fmt.Sprintf("%s(%s)", fn, column)
}
