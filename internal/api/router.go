package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/storelink/woosync/internal/api/handlers"
	"github.com/storelink/woosync/internal/api/middleware"
	"github.com/storelink/woosync/internal/security"
	"github.com/storelink/woosync/pkg/interfaces"
)

// SetupRouter wires middleware, handlers and routes.
func SetupRouter(
	authService handlers.AuthServiceInterface,
	productService handlers.ProductServiceInterface,
	webhookService handlers.WebhookServiceInterface,
	tokens *security.TokenManager,
	logger interfaces.LoggerPort,
	corsAllowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsAllowedOrigins))
	r.Use(middleware.Metrics)

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	webhookHandler := handlers.NewWebhookHandler(webhookService, logger)
	r.Post("/webhook", webhookHandler.HandleProduct)

	r.Route("/api/v1", func(r chi.Router) {
		authHandler := handlers.NewAuthHandler(authService, logger)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
		})

		productHandler := handlers.NewProductHandler(productService, logger)
		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.JWTAuth(tokens, logger))

			r.Get("/", productHandler.GetProducts)
			r.Get("/synced", productHandler.AreProductsSynced)
			r.Get("/stored", productHandler.ListStoredProducts)
			r.Post("/sync", productHandler.SyncProducts)
		})
	})

	return r
}
