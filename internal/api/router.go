package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/register", apiHandler.RegisterHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/makes", apiHandler.CatalogMakesHandler)
			r.Get("/models", apiHandler.CatalogModelsHandler)
			r.Get("/parts", apiHandler.CatalogPartsHandler)
			r.Get("/states", apiHandler.CatalogStatesHandler)
			r.Get("/years", apiHandler.CatalogYearsHandler)
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			r.Post("/logout", apiHandler.LogoutHandler)
			r.Get("/me", apiHandler.MeHandler)

			r.Post("/search", apiHandler.SearchHandler)
			r.Get("/history", apiHandler.HistoryHandler)
			r.Get("/dashboard/stats", apiHandler.DashboardStatsHandler)

			r.Get("/subscription", apiHandler.SubscriptionHandler)
			r.Post("/subscription/upgrade", apiHandler.UpgradeHandler)

			// Supplier catalog routes
			r.Post("/products", apiHandler.CreateProductHandler)
			r.Get("/products", apiHandler.ListProductsHandler)
			r.Post("/products/import", apiHandler.ImportProductsHandler)
		})
	})

	return r
}
