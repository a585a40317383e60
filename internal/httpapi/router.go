package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the REST surface. Auth issuance lives upstream; here only
// the presence of a trusted identity is checked.
func NewRouter(cart *CartHandler, payment *PaymentHandler, order *OrderHandler, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(IdentityMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/add-to-cart", cart.AddToCart)
		r.Get("/get-cart", cart.GetCart)
		r.Delete("/remove-from-cart/{productId}", cart.RemoveFromCart)
		r.Delete("/clear-cart", cart.ClearCart)
		r.Put("/update-cart-item-qty", cart.UpdateCartItemQty)
	})

	r.Route("/payment", func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/get-token", payment.GetToken)
		r.Post("/process-payment", payment.ProcessPayment)
	})

	r.Route("/order", func(r chi.Router) {
		r.With(RequireUser).Get("/user-orders", order.UserOrders)
		r.With(RequireAdmin).Get("/all-orders", order.AllOrders)
		r.With(RequireAdmin).Put("/update-order-status/{orderId}", order.UpdateOrderStatus)
	})

	return r
}
