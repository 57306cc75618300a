package router

import (
	"net/http"

	"camelia/internal/handler"
	"camelia/internal/middleware"
	"camelia/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product  *handler.ProductHandler
	Session  *handler.SessionHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
}

// New creates a new HTTP router with all routes and middleware configured. The
// prometheus endpoint is mounted at metricsPath unless it is empty.
func New(h Handlers, sessions *session.Manager, metricsPath string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> Metrics -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS)

	// Health check endpoint (no session required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if metricsPath != "" {
		r.Handle(metricsPath, promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Product.List)
		r.Get("/products/{id}", h.Product.GetByID)
		r.Get("/checkout/options", h.Checkout.Options)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions, logger))

			r.Post("/session", h.Session.SignIn)
			r.Delete("/session", h.Session.SignOut)

			r.Get("/cart", h.Cart.Get)
			r.Delete("/cart", h.Cart.Clear)
			r.Post("/cart/items", h.Cart.AddItem)
			r.Post("/cart/buy-now", h.Cart.BuyNow)
			r.Patch("/cart/items/{index}", h.Cart.UpdateItem)
			r.Delete("/cart/items/{index}", h.Cart.RemoveItem)

			r.Post("/checkout/summary", h.Checkout.Summary)
			r.Post("/checkout", h.Checkout.Finalize)

			r.Get("/orders", h.Order.List)
			r.Get("/receipt", h.Order.Receipt)
		})
	})

	return r
}
