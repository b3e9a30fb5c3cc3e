package app

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"
)

type DiscountRequest struct {
	Name            string `json:"name" valid:"-"`
	Code            string `json:"code" valid:"required,alphanum"`
	AmountType      string `json:"amountType" valid:"in(flat|percent),optional"`
	Amount          string `json:"amount" valid:"required,float"`
	MaxUses         int    `json:"maxUses,omitempty" valid:"-"`
	MinChargeAmount string `json:"minChargeAmount,omitempty" valid:"float,optional"`
	OncePerCustomer bool   `json:"oncePerCustomer,omitempty" valid:"-"`
	StartDate       string `json:"startDate,omitempty" valid:"rfc3339,optional"`
	EndDate         string `json:"endDate,omitempty" valid:"rfc3339,optional"`
}

func (dr *DiscountRequest) Bind(r *http.Request) error {
	if _, err := govalidator.ValidateStruct(dr); err != nil {
		return err
	}
	return nil
}

func (dr *DiscountRequest) toInsert() (*entity.DiscountInsert, error) {
	amount, err := decimal.NewFromString(dr.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	ins := &entity.DiscountInsert{
		Name:            dr.Name,
		Code:            dr.Code,
		AmountType:      entity.DiscountAmountType(dr.AmountType),
		Amount:          amount,
		MaxUses:         dr.MaxUses,
		OncePerCustomer: dr.OncePerCustomer,
	}
	if ins.AmountType == "" {
		ins.AmountType = entity.DiscountAmountFlat
	}
	if dr.MinChargeAmount != "" {
		min, err := decimal.NewFromString(dr.MinChargeAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid min charge amount: %w", err)
		}
		ins.MinChargeAmount = min
	}
	if dr.StartDate != "" {
		t, err := time.Parse(time.RFC3339, dr.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		ins.StartDate = sql.NullTime{Time: t, Valid: true}
	}
	if dr.EndDate != "" {
		t, err := time.Parse(time.RFC3339, dr.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		ins.EndDate = sql.NullTime{Time: t, Valid: true}
	}
	return ins, nil
}

func (s *Server) addDiscount(w http.ResponseWriter, r *http.Request) {
	dr := &DiscountRequest{}
	if err := render.Bind(r, dr); err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	ins, err := dr.toInsert()
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	id, err := s.db.Discounts().AddDiscount(r.Context(), ins)
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]int{"id": id})
}

func (s *Server) getDiscount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	d, err := s.db.Discounts().GetDiscountByCode(r.Context(), code)
	if err != nil {
		_ = render.Render(w, r, ErrNotFound)
		return
	}
	render.JSON(w, r, d)
}

func (s *Server) useDiscount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := s.db.Discounts().IncrementUseCount(r.Context(), code); err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.NoContent(w, r)
}

func (s *Server) releaseDiscount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := s.db.Discounts().DecrementUseCount(r.Context(), code); err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.NoContent(w, r)
}

func (s *Server) archiveDiscount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := s.db.Discounts().ArchiveDiscount(r.Context(), code); err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.NoContent(w, r)
}

func (s *Server) listDiscounts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	discounts, err := s.db.Discounts().ListDiscounts(r.Context(), limit, offset)
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.JSON(w, r, discounts)
}
