package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"vitashop/internal/commons"
	"vitashop/internal/middleware"
	"vitashop/internal/order"
	"vitashop/internal/product"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

func NewRouter(products *product.Module, orders *order.Module, auth *middleware.Authenticator, db Pinger, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", healthHandler(db, logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.Orders.Create)
			r.Get("/", orders.Orders.List)
			r.Get("/{orderId}", orders.Orders.Get)
			r.Patch("/{orderId}", orders.Orders.Update)
			r.Delete("/{orderId}", orders.Orders.Delete)
			r.Post("/{orderId}/cancel", orders.Orders.Cancel)
			r.Post("/{orderId}/payment", orders.Orders.ProcessPayment)
		})

		r.Post("/cart/validate", orders.Cart.Validate)

		r.Get("/payments/{transactionId}", orders.Payments.GetStatus)
		r.Post("/payments/{transactionId}/capture", orders.Payments.Capture)
		r.Post("/payments/{transactionId}/refund", orders.Payments.Refund)

		r.Post("/recipients", orders.Payments.CreateRecipient)
		r.Get("/recipients", orders.Payments.ListRecipients)
		r.Get("/recipients/{recipientId}", orders.Payments.GetRecipient)

		r.Post("/products/search", products.Controller.Search)
		r.Patch("/products/{productId}/stock", products.Controller.UpdateStock)
	})

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func healthHandler(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			commons.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unreachable"}, logger)
			return
		}
		commons.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "up"}, logger)
	}
}
