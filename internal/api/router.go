package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foundline/foundline-core/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Kiosk surface: any registered identity may file and browse
		// reports without logging in. Admission is checked per request
		// against the registration key in the body.
		r.Post("/reports", s.handleSubmitReport)
		r.Get("/reports/found", s.handleListFound)
		r.Get("/reports/lost", s.handleListLost)
		r.Get("/categories", s.handleListCategories)

		// Auth endpoints (no auth required)
		r.Post("/auth/admin/login", s.handleAdminLogin)
		r.Post("/auth/operator/login", s.handleOperatorLogin)

		// Session-bound endpoints shared by both roles
		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)
			r.Post("/auth/logout", s.handleLogout)
		})

		// Administrator routes
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(auth.RoleAdministrator))

			r.Post("/auth/ws-ticket", s.handleWSTicket)
			r.Get("/admin/dashboard", s.handleDashboard)
			r.Route("/admin/identities", func(r chi.Router) {
				r.Get("/", s.handleListIdentities)
				r.Post("/", s.handleRegisterIdentity)
			})
			r.Delete("/admin/reports/{id}", s.handleDeleteReport)
		})

		// Operator routes
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(auth.RoleOperator))

			r.Post("/operator/signal", s.handleManualSignal)
		})

		// WebSocket (auth via ticket, validated in handler)
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status, including database liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			dbStatus = "unavailable"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"database": dbStatus,
	})
}
