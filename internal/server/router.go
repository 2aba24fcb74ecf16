package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/doshakada/ordering-api/internal/auth"
	"github.com/doshakada/ordering-api/internal/config"
	"github.com/doshakada/ordering-api/internal/handlers"
	"github.com/doshakada/ordering-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the pieces the router wires into routes
type Deps struct {
	Config   *config.Config
	Log      *slog.Logger
	Health   *handlers.HealthHandler
	Menu     *handlers.MenuHandler
	Orders   *handlers.OrderHandler
	Admin    *handlers.AdminHandler
	Sessions *auth.Sessions
	// OrderFeed serves the kitchen websocket
	OrderFeed http.Handler
}

// NewRouter builds the HTTP routes
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(d.Log))
	r.Use(chimiddleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Session tokens are only honoured when password login is configured
	var verifier middleware.TokenVerifier
	if d.Sessions != nil && d.Sessions.Enabled() {
		verifier = d.Sessions
	}
	adminAuth := middleware.AdminAuth(d.Config.Auth, verifier)

	// Long-lived websocket; kept out of the request timeout
	r.With(adminAuth).Get("/api/admin/orders/ws", d.OrderFeed.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		// Register health check endpoint
		r.Get("/health", d.Health.ServeHTTP)

		r.Route("/api", func(r chi.Router) {
			// Customer endpoints
			r.Get("/menu", d.Menu.ListMenu)
			r.Get("/menu/grouped", d.Menu.GroupedMenu)
			r.Post("/orders", d.Orders.CreateOrder)
			r.Get("/orders/{orderId}", d.Orders.GetOrder)

			r.Post("/admin/session", d.Admin.Login)

			// Kitchen display endpoints
			r.Group(func(r chi.Router) {
				r.Use(adminAuth)
				r.Get("/orders", d.Orders.ListOrders)
				r.Patch("/orders/{orderId}", d.Orders.UpdateOrder)
				r.Get("/admin/orders/export", d.Admin.ExportOrders)
			})
		})
	})

	return r
}
