package notifications

import (
	"github.com/gorilla/mux"
	"github.com/tandemlabs/tandem-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// Protected routes
	api := router.PathPrefix("/api/v1/notifications").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Live feed
	api.HandleFunc("/feed", handler.ServeFeed).Methods("GET")

	// User notifications
	api.HandleFunc("", handler.GetNotifications).Methods("GET")
	api.HandleFunc("/read-all", handler.MarkAllAsRead).Methods("PUT")
	api.HandleFunc("/{id:[0-9]+}", handler.GetNotification).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}/read", handler.MarkAsRead).Methods("PUT")
	api.HandleFunc("/{id:[0-9]+}", handler.DeleteNotification).Methods("DELETE")

	// Push tokens
	api.HandleFunc("/push-token", handler.RegisterPushToken).Methods("POST")
	api.HandleFunc("/push-token", handler.UnregisterPushToken).Methods("DELETE")

	// Preferences
	api.HandleFunc("/preferences", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences", handler.UpdatePreferences).Methods("PUT")

	// Adaptive send and deferral control
	api.HandleFunc("/send", handler.SendAdaptive).Methods("POST")
	api.HandleFunc("/scheduled/{id:[0-9]+}/cancel", handler.CancelScheduledNotification).Methods("PUT")

	// Test notification
	api.HandleFunc("/test", handler.TestPushNotification).Methods("POST")
}
