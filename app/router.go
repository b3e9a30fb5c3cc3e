package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
)

// Router builds the API surface. Reporting and discount administration sit
// behind JWT auth; health and token issuing are public.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post("/api/auth", s.auth)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.jwtAuth))
		r.Use(s.Authenticator)

		r.Route("/api/reports", func(r chi.Router) {
			r.Use(s.limiter.Middleware)

			r.Get("/overview", s.getOverview)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/earnings", s.statHandler(s.stats.OrderEarnings))
				r.Get("/count", s.statHandler(s.stats.OrderCount))
				r.Get("/average", s.statHandler(s.stats.AverageOrderValue))
				r.Get("/item-count", s.statHandler(s.stats.OrderItemCount))
				r.Get("/item-earnings", s.statHandler(s.stats.OrderItemEarnings))
				r.Get("/busiest-day", s.getBusiestDay)
			})

			r.Route("/refunds", func(r chi.Router) {
				r.Get("/count", s.statHandler(s.stats.RefundCount))
				r.Get("/amount", s.statHandler(s.stats.RefundAmount))
				r.Get("/average", s.statHandler(s.stats.AverageRefundAmount))
				r.Get("/rate", s.statHandler(s.stats.RefundRate))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/most-valuable", s.getMostValuableProducts)
				r.Get("/earnings", s.statHandler(s.stats.ProductEarnings))
				r.Get("/sales", s.statHandler(s.stats.ProductSalesCount))
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/count", s.statHandler(s.stats.CustomerCount))
				r.Get("/most-valuable", s.getMostValuableCustomers)
				r.Get("/average-value", s.statHandler(s.stats.AverageCustomerValue))
				r.Get("/lifetime-value", s.statHandler(s.stats.CustomerLifetimeValue))
			})

			r.Route("/discounts", func(r chi.Router) {
				r.Get("/usage", s.statHandler(s.stats.DiscountUsageCount))
				r.Get("/savings", s.statHandler(s.stats.DiscountSavings))
				r.Get("/average", s.statHandler(s.stats.AverageDiscountAmount))
				r.Get("/ratio", s.statHandler(s.stats.RatioOfDiscountedOrders))
				r.Get("/popular", s.getMostPopularDiscounts)
			})

			r.Route("/gateways", func(r chi.Router) {
				r.Get("/earnings", s.getGatewayEarnings)
				r.Get("/sales", s.getGatewaySales)
				r.Get("/average", s.getGatewayAverageValue)
				r.Get("/refunds", s.getGatewayRefunds)
			})

			r.Route("/taxes", func(r chi.Router) {
				r.Get("/collected", s.statHandler(s.stats.TaxCollected))
				r.Get("/by-location", s.getTaxByLocation)
			})

			r.Route("/downloads", func(r chi.Router) {
				r.Get("/count", s.statHandler(s.stats.FileDownloadCount))
				r.Get("/most-downloaded", s.getMostDownloadedProducts)
				r.Get("/average-per-customer", s.statHandler(s.stats.AverageFileDownloadsPerCustomer))
			})
		})

		r.Route("/api/discounts", func(r chi.Router) {
			r.Get("/", s.listDiscounts)
			r.Post("/", s.addDiscount)
			r.Get("/{code}", s.getDiscount)
			r.Post("/{code}/use", s.useDiscount)
			r.Post("/{code}/release", s.releaseDiscount)
			r.Delete("/{code}", s.archiveDiscount)
		})

		r.Post("/api/downloads/log", s.logFileDownload)
	})

	return r
}
