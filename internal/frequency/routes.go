// internal/frequency/routes.go

package frequency

import (
	"github.com/go-chi/chi/v5"

	"github.com/tandemlabs/tandem-backend/internal/auth"
)

// RegisterRoutes registers all frequency routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/api/v1/frequency/check", handler.CheckPrompt)
		r.Post("/api/v1/frequency/prompts", handler.RecordPromptSent)
		r.Post("/api/v1/frequency/events", handler.RecordEvent)

		r.Get("/api/v1/frequency/profile", handler.GetProfile)
		r.Post("/api/v1/frequency/profile", handler.CreateProfile)
		r.Get("/api/v1/frequency/graduation", handler.GetGraduationProgress)

		r.Get("/api/v1/frequency/quiet-mode", handler.GetQuietMode)
		r.Put("/api/v1/frequency/quiet-mode", handler.SetQuietMode)
	})
}
