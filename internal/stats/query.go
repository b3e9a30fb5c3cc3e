package stats

import (
	"strings"

	"github.com/ddshop/reports-manager/internal/cache"
	"github.com/ddshop/reports-manager/internal/currency"
	"github.com/ddshop/reports-manager/internal/entity"
)

// currencyConvert is the sentinel meaning "divide monetary columns by the
// stored per-order exchange rate instead of filtering to one currency".
const currencyConvert = "convert"

// statusAny disables the status predicate entirely.
const statusAny = "any"

// binding is the per-method table/column configuration. Everything here comes
// from a fixed internal vocabulary and is the only text ever interpolated into
// SQL; all caller values travel as named parameters.
type binding struct {
	dateColumn string
	column     string
	// taxExcludedColumn replaces column when exclude_taxes is requested.
	taxExcludedColumn string
	// allowedColumns maps caller column overrides to vetted SQL expressions.
	allowedColumns map[string]string
	functions      []string
	statuses       []string
	types          []string
	monetary       bool
}

// queryContext is the immutable per-call parameter set produced by resolve.
// Methods read from it and never write, so concurrent calls on one Stats
// instance cannot observe each other.
type queryContext struct {
	vars      entity.QueryVars
	period    entity.TimeRange
	relPeriod entity.TimeRange

	dateColumn      string
	column          string
	function        string
	statuses        []string
	types           []string
	currency        string
	displayCurrency string
	monetary        bool
	limit           int
}

// resolve merges constructor defaults with per-call overrides and the method
// binding into one consistent parameter set.
func (s *Stats) resolve(vars *entity.QueryVars, b binding) (queryContext, error) {
	merged := mergeVars(s.defaults, vars)

	q := queryContext{
		vars:       merged,
		dateColumn: b.dateColumn,
		monetary:   b.monetary,
		limit:      s.limit,
	}
	if merged.Limit > 0 {
		q.limit = merged.Limit
	}

	q.period, q.relPeriod = s.resolvePeriod(merged)
	q.vars.Start, q.vars.End = q.period.Start, q.period.End

	q.currency = normalizeCurrency(merged.Currency)
	q.displayCurrency = cache.GetBaseCurrency()
	if q.currency != "" && q.currency != currencyConvert {
		q.displayCurrency = q.currency
	}

	q.vars.Country = entity.NormalizeCountry(merged.Country)
	q.vars.Region = entity.NormalizeRegion(q.vars.Country, merged.Region)
	q.vars.Output = normalizeOutput(merged.Output)

	q.statuses = resolveStatuses(merged.Status, b.statuses)
	q.types = resolveTypes(merged.Type, b.types)

	fn, err := resolveFunction(merged.Function, s.defaults.Function, b.functions)
	if err != nil {
		return queryContext{}, err
	}
	q.function = fn

	q.column = resolveColumn(merged, b)
	return q, nil
}

func mergeVars(defaults entity.QueryVars, override *entity.QueryVars) entity.QueryVars {
	merged := defaults
	if override == nil {
		return merged
	}
	o := *override
	if !o.Start.IsZero() {
		merged.Start = o.Start
	}
	if !o.End.IsZero() {
		merged.End = o.End
	}
	if o.Range != "" {
		merged.Range = o.Range
	}
	if o.ExcludeTaxes {
		merged.ExcludeTaxes = true
	}
	if o.Currency != "" {
		merged.Currency = o.Currency
	}
	if o.Status != nil {
		merged.Status = o.Status
	}
	if o.Type != nil {
		merged.Type = o.Type
	}
	if o.Function != "" {
		merged.Function = o.Function
	}
	if o.Column != "" {
		merged.Column = o.Column
	}
	if o.Output != "" {
		merged.Output = o.Output
	}
	if o.Relative {
		merged.Relative = true
	}
	if o.Grouped {
		merged.Grouped = true
	}
	if o.Country != "" {
		merged.Country = o.Country
	}
	if o.Region != "" {
		merged.Region = o.Region
	}
	if o.ProductID != 0 {
		merged.ProductID = o.ProductID
	}
	if o.PriceID != 0 {
		merged.PriceID = o.PriceID
	}
	if o.CustomerID != 0 {
		merged.CustomerID = o.CustomerID
	}
	if o.Gateway != "" {
		merged.Gateway = o.Gateway
	}
	if o.DiscountCode != "" {
		merged.DiscountCode = o.DiscountCode
	}
	if o.RevenueType != "" {
		merged.RevenueType = o.RevenueType
	}
	if o.Limit != 0 {
		merged.Limit = o.Limit
	}
	return merged
}

// resolvePeriod turns a named range or explicit bounds into the primary and
// relative windows. Explicit start/end win over the named range.
func (s *Stats) resolvePeriod(vars entity.QueryVars) (entity.TimeRange, entity.TimeRange) {
	if vars.Start.IsZero() && vars.End.IsZero() && vars.Range != "" {
		if period, relative, ok := resolveRange(vars.Range, s.now(), s.loc); ok {
			return period, relative
		}
	}
	period := entity.TimeRange{Start: vars.Start, End: vars.End}
	if period.Start.IsZero() || period.End.IsZero() {
		// Open-ended windows have no equivalent prior period.
		return period, entity.TimeRange{}
	}
	return period, relativeWindow(period)
}

func normalizeCurrency(c string) string {
	if c == "" {
		return ""
	}
	upper := strings.ToUpper(c)
	if currency.IsSupported(upper) {
		return upper
	}
	return currencyConvert
}

func normalizeOutput(o entity.Output) entity.Output {
	switch o {
	case entity.OutputRaw, entity.OutputTyped, entity.OutputFormatted:
		return o
	default:
		return entity.OutputRaw
	}
}

// resolveStatuses sanitizes the caller's status list against the recognized
// set, falling back to the method default. "any" disables the predicate.
func resolveStatuses(requested, deflt []string) []string {
	if requested == nil {
		return dedupe(deflt)
	}
	out := make([]string, 0, len(requested))
	for _, st := range requested {
		st = strings.ToLower(strings.TrimSpace(st))
		if st == statusAny {
			return nil
		}
		if entity.ValidOrderStatusNames[entity.OrderStatusName(st)] {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return dedupe(deflt)
	}
	return dedupe(out)
}

func resolveTypes(requested, deflt []string) []string {
	if requested == nil {
		return dedupe(deflt)
	}
	out := make([]string, 0, len(requested))
	for _, t := range requested {
		t = strings.ToLower(strings.TrimSpace(t))
		if entity.ValidOrderTypeNames[entity.OrderTypeName(t)] {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return dedupe(deflt)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func resolveColumn(vars entity.QueryVars, b binding) string {
	if vars.Column != "" && b.allowedColumns != nil {
		if expr, ok := b.allowedColumns[strings.ToLower(vars.Column)]; ok {
			return expr
		}
	}
	if vars.ExcludeTaxes && b.taxExcludedColumn != "" {
		return b.taxExcludedColumn
	}
	return b.column
}

// conditions builds the WHERE fragments shared by every statistic against an
// orders-like table. alias is the fixed table alias from the binding
// vocabulary; all values are named parameters.
func (q queryContext) conditions(alias string) ([]string, map[string]any) {
	var conds []string
	params := map[string]any{}

	if !q.period.Start.IsZero() {
		conds = append(conds, alias+"."+q.dateColumn+" >= :start")
		params["start"] = q.period.Start
	}
	if !q.period.End.IsZero() {
		conds = append(conds, alias+"."+q.dateColumn+" <= :end")
		params["end"] = q.period.End
	}
	if len(q.statuses) > 0 {
		conds = append(conds, alias+".status IN (:statuses)")
		params["statuses"] = q.statuses
	}
	if len(q.types) > 0 {
		conds = append(conds, alias+".type IN (:types)")
		params["types"] = q.types
	}
	if q.currency != "" && q.currency != currencyConvert {
		conds = append(conds, alias+".currency = :currency")
		params["currency"] = q.currency
	}
	if q.vars.Gateway != "" {
		conds = append(conds, alias+".gateway = :gateway")
		params["gateway"] = q.vars.Gateway
	}
	if q.vars.CustomerID != 0 {
		conds = append(conds, alias+".customer_id = :customerId")
		params["customerId"] = q.vars.CustomerID
	}

	return conds, params
}

// relativeParams rebinds the date parameters to the relative window, leaving
// every other predicate identical.
func (q queryContext) relativeParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	out["start"] = q.relPeriod.Start
	out["end"] = q.relPeriod.End
	return out
}

func (q queryContext) hasRelative() bool {
	return q.vars.Relative && !q.relPeriod.Start.IsZero()
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
