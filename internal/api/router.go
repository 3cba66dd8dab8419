/**
 * @description
 * This file sets up the HTTP router for the payee-service using the `chi`
 * routing library. It defines all the API routes and applies necessary middleware.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: The routing library.
 * - The service's internal packages for handlers and middleware.
 */
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vubank/payee-service/internal/app"
	"github.com/vubank/payee-service/internal/config"
	"github.com/vubank/payee-service/pkg/middleware"
)

const payeeRateLimitPerMinute = 120

// NewRouter creates and configures a new HTTP router.
func NewRouter(cfg *config.Config, service *app.PayeeService, db *pgxpool.Pool) http.Handler {
	r := chi.NewRouter()

	// Health check endpoint with a database ping, used by container probes.
	r.Get("/health", healthHandler(db))

	payeeHandler := NewPayeeHandler(service)

	// Group routes that require authentication
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		r.Use(middleware.RateLimitMiddleware(payeeRateLimitPerMinute))

		r.Route("/payees", func(r chi.Router) {
			r.Get("/", payeeHandler.GetPayees)
			r.Post("/", payeeHandler.AddPayee)
			r.Post("/exists", payeeHandler.CheckPayeeExists)
			r.Get("/{id}", payeeHandler.GetPayee)
			r.Delete("/{id}", payeeHandler.DeletePayee)
		})
	})

	return r
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		state := "healthy"

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				state = "unhealthy"
			}
		}

		writeJSON(w, status, map[string]interface{}{
			"status":    state,
			"service":   "payee-service",
			"timestamp": time.Now().UTC(),
		})
	}
}
