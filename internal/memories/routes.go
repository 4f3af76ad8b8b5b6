package memories

import (
	"github.com/gorilla/mux"
	"github.com/tandemlabs/tandem-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/memories").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.CreateMemory).Methods("POST")
	api.HandleFunc("", handler.ListMemories).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}", handler.GetMemory).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}", handler.UpdateMemory).Methods("PATCH")
	api.HandleFunc("/{id:[0-9]+}", handler.DeleteMemory).Methods("DELETE")
}
