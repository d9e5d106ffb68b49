package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VedantYeola/Wear-Story/pkg/health"
	"github.com/VedantYeola/Wear-Story/pkg/middleware"
)

// RouterConfig holds the router's tunables.
type RouterConfig struct {
	CORS           middleware.CORSConfig
	PprofCIDRs     []string
	RequestTimeout time.Duration
	// AssistantRate limits stylist messages per session.
	AssistantRate middleware.RateLimitConfig
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svcs Services,
	hub *CatalogHub,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Tracing)
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Actor)
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	if hub != nil {
		r.Get("/ws/catalog", hub.ServeWS)
	}

	catalogHandler := NewCatalogHandler(svcs.Catalog, svcs.Stylist)
	cartHandler := NewCartHandler(svcs.Cart)
	wishlistHandler := NewWishlistHandler(svcs.Wishlist)
	checkoutHandler := NewCheckoutHandler(svcs.Checkout)
	assistantHandler := NewAssistantHandler(svcs.Stylist)
	sessionHandler := NewSessionHandler(svcs.Sessions)
	adminHandler := NewAdminHandler(svcs.Admin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(cfg.RequestTimeout))
		r.Use(middleware.CacheControl("no-store"))
		r.Use(ContentTypeJSON)

		// Catalog reads work without a session.
		r.Group(func(r chi.Router) {
			r.Use(OptionalSession)

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{id}", catalogHandler.GetProduct)
			r.Get("/products/{id}/styling", catalogHandler.GetStyling)
			r.Get("/categories", catalogHandler.ListCategories)
			r.Get("/categories/match", catalogHandler.MatchCategory)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireSession)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Patch("/", cartHandler.SetOpen)
				r.Post("/items", cartHandler.AddItem)
				r.Patch("/items/{id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{id}", cartHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.GetWishlist)
				r.Post("/toggle", wishlistHandler.Toggle)
				r.Get("/items/{id}", wishlistHandler.Contains)
				r.Delete("/items/{id}", wishlistHandler.Remove)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkoutHandler.Get)
				r.Post("/", checkoutHandler.Start)
				r.Post("/submit", checkoutHandler.Submit)
				r.Delete("/", checkoutHandler.Close)
			})

			r.Get("/assistant/messages", assistantHandler.Messages)
			r.With(middleware.RateLimit(cfg.AssistantRate, sessionOrIP, logger)).
				Post("/assistant/messages", assistantHandler.Send)

			r.Delete("/session", sessionHandler.End)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminGate(svcs.Admin))

			r.Get("/items", adminHandler.ListItems)
			r.Post("/items", adminHandler.CreateItem)
			r.Put("/items/{id}", adminHandler.UpdateItem)
			r.Delete("/items/{id}", adminHandler.DeleteItem)
			r.Get("/activity", adminHandler.Activity)
		})
	})

	return r
}
