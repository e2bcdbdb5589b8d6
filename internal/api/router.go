/**
 * @description
 * This file sets up the HTTP router for the labstock backend using the
 * go-chi/chi router. It defines the API routes, applies middleware for
 * logging, CORS, metrics and authentication, and maps the routes to their
 * handler functions.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new Chi router and registers the labstock routes.
func NewRouter(h *Handler, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Labstock backend is healthy"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public authentication endpoints
		r.Post("/authentication/sign-up", h.handleSignUp)
		r.Post("/authentication/sign-in", h.handleSignIn)

		// Protected resource collections
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtSecret))

			r.Get("/users", h.handleListUsers)
			r.Get("/users/{id}", h.handleGetUser)
			r.Put("/users/{id}", h.handleUpdateUser)

			r.Get("/laboratories", h.handleListLaboratories)
			r.Get("/laboratories/{id}", h.handleGetLaboratory)
			r.Post("/laboratories", h.handleCreateLaboratory)
			r.Put("/laboratories/{id}", h.handleUpdateLaboratory)
			r.Delete("/laboratories/{id}", h.handleDeleteLaboratory)

			r.Get("/labResponsibles", h.handleListLabResponsibles)
			r.Get("/labResponsibles/{id}", h.handleGetLabResponsible)
			r.Post("/labResponsibles", h.handleCreateLabResponsible)
			r.Put("/labResponsibles/{id}", h.handleUpdateLabResponsible)
			r.Delete("/labResponsibles/{id}", h.handleDeleteLabResponsible)

			r.Get("/inventory", h.handleListInventory)
			r.Get("/inventory/{id}", h.handleGetInventoryItem)
			r.Post("/inventory", h.handleCreateInventoryItem)
			r.Put("/inventory/{id}", h.handleUpdateInventoryItem)
			r.Delete("/inventory/{id}", h.handleDeleteInventoryItem)

			// History is append-only: no update or delete routes.
			r.Get("/history", h.handleListHistory)
			r.Post("/history", h.handleCreateHistoryEntry)

			r.Get("/subscriptions", h.handleListSubscriptions)
			r.Get("/subscriptions/{id}", h.handleGetSubscription)
			r.Post("/subscriptions", h.handleUpsertSubscription)
			r.Put("/subscriptions/{id}", h.handleUpsertSubscription)
			r.Delete("/subscriptions/{id}", h.handleDeleteSubscription)

			// Plans are read-only reference data.
			r.Get("/plans", h.handleListPlans)
			r.Get("/plans/{id}", h.handleGetPlan)
		})
	})

	return r
}
