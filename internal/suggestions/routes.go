package suggestions

import (
	"github.com/gorilla/mux"

	"github.com/tandemlabs/tandem-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/suggestions").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/{category}/generate", handler.GenerateSuggestions).Methods("POST")
	api.HandleFunc("/{category}", handler.GetSuggestions).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}", handler.UpdateSuggestion).Methods("PATCH")
}
