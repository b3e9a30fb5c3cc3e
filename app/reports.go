package app

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/go-chi/render"
)

// parseQueryVars maps URL query parameters onto the statistics query
// variables. Unknown values degrade to engine defaults rather than erroring,
// matching the engine's own normalization rules.
func parseQueryVars(r *http.Request) *entity.QueryVars {
	q := r.URL.Query()
	vars := &entity.QueryVars{}

	if v := q.Get("start"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			vars.Start = t
		}
	}
	if v := q.Get("end"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			vars.End = t
		}
	}
	vars.Range = entity.RangeName(q.Get("range"))
	vars.ExcludeTaxes = q.Get("exclude_taxes") == "true"
	vars.Currency = q.Get("currency")
	if v := q.Get("status"); v != "" {
		vars.Status = strings.Split(v, ",")
	}
	if v := q.Get("type"); v != "" {
		vars.Type = strings.Split(v, ",")
	}
	vars.Function = q.Get("function")
	vars.Column = q.Get("column")
	vars.Output = entity.Output(q.Get("output"))
	vars.Relative = q.Get("relative") == "true"
	vars.Grouped = q.Get("grouped") == "true"
	vars.Country = q.Get("country")
	vars.Region = q.Get("region")
	vars.ProductID, _ = strconv.Atoi(q.Get("product_id"))
	vars.PriceID, _ = strconv.Atoi(q.Get("price_id"))
	vars.CustomerID, _ = strconv.Atoi(q.Get("customer_id"))
	vars.Gateway = q.Get("gateway")
	vars.DiscountCode = q.Get("discount_code")
	vars.RevenueType = q.Get("revenue_type")
	vars.Limit, _ = strconv.Atoi(q.Get("limit"))

	return vars
}

type statResponse struct {
	Value     string            `json:"value"`
	Formatted string            `json:"formatted,omitempty"`
	Relative  *relativeResponse `json:"relative,omitempty"`
}

type relativeResponse struct {
	Value            string `json:"value"`
	Comparable       bool   `json:"comparable"`
	NoChange         bool   `json:"noChange"`
	PercentageChange string `json:"percentageChange,omitempty"`
	Positive         bool   `json:"positive"`
	Markup           string `json:"markup"`
}

func toStatResponse(res *entity.Result) *statResponse {
	out := &statResponse{
		Value:     res.Value.String(),
		Formatted: res.Formatted,
	}
	if res.Relative != nil {
		out.Relative = &relativeResponse{
			Value:            res.Relative.RelativeValue.String(),
			Comparable:       res.Relative.Comparable,
			NoChange:         res.Relative.NoChange,
			PercentageChange: res.Relative.PercentageChange,
			Positive:         res.Relative.Positive,
		}
	}
	return out
}

// statHandler adapts a scalar statistic method into an HTTP handler.
func (s *Server) statHandler(fn func(context.Context, *entity.QueryVars) (*entity.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r.Context(), parseQueryVars(r))
		if err != nil {
			_ = render.Render(w, r, ErrInternalServerError(err))
			return
		}
		render.JSON(w, r, toStatResponse(res))
	}
}

func (s *Server) getOverview(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Overview(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, report)
}

func (s *Server) getBusiestDay(w http.ResponseWriter, r *http.Request) {
	day, err := s.stats.BusiestDay(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, day)
}

func (s *Server) getMostValuableProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.MostValuableProducts(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, rows)
}

func (s *Server) getMostDownloadedProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.MostDownloadedProducts(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, rows)
}

func (s *Server) getMostValuableCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.MostValuableCustomers(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, rows)
}

func (s *Server) getMostPopularDiscounts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.MostPopularDiscounts(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, rows)
}

func (s *Server) getGatewayEarnings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.GatewayEarnings(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, rows)
}

func (s *Server) getGatewaySales(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.GatewaySales(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, rows)
}

func (s *Server) getGatewayAverageValue(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.GatewayAverageValue(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, rows)
}

func (s *Server) getGatewayRefunds(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.GatewayRefundAmount(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, rows)
}

func (s *Server) getTaxByLocation(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.TaxCollectedByLocation(r.Context(), parseQueryVars(r))
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, rows)
}
