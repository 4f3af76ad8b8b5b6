package helpinghand

import (
	"github.com/gorilla/mux"
	"github.com/tandemlabs/tandem-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/helping-hand").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Categories and weekly tasks
	api.HandleFunc("/categories", handler.GetCategories).Methods("GET")
	api.HandleFunc("/suggestions", handler.GetWeekSuggestions).Methods("GET")
	api.HandleFunc("/suggestions/{id:[0-9]+}/complete", handler.CompleteSuggestion).Methods("PUT")

	// Reminders
	api.HandleFunc("/reminders", handler.CreateReminder).Methods("POST")
	api.HandleFunc("/reminders", handler.ListReminders).Methods("GET")
	api.HandleFunc("/reminders/{id:[0-9]+}", handler.DeleteReminder).Methods("DELETE")

	// Partner hints and guesses
	api.HandleFunc("/hints", handler.GetPartnerHints).Methods("GET")
	api.HandleFunc("/hints", handler.CreateHint).Methods("POST")
	api.HandleFunc("/hints/{id:[0-9]+}", handler.DismissHint).Methods("DELETE")
	api.HandleFunc("/guesses", handler.GetPartnerGuesses).Methods("GET")

	// Weekly status
	api.HandleFunc("/status", handler.GetWeekStatus).Methods("GET")
}
