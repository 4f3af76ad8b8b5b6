package notifications

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/tandemlabs/tandem-backend/internal/common/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are handled at the gateway
		return true
	},
}

type Handler struct {
	service Service
	hub     *Hub
}

func NewHandler(service Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// GetNotifications retrieves notifications for the authenticated user
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	if limit == 0 {
		limit = 20
	}

	response, err := h.service.GetNotifications(r.Context(), userID, limit, offset, unreadOnly)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get notifications")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetNotification retrieves a specific notification
func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	notificationID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	notification, err := h.service.GetNotification(r.Context(), notificationID, userID)
	if err != nil {
		if err == ErrNotificationNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
		} else if err == ErrUnauthorized {
			utils.RespondWithError(w, http.StatusForbidden, "Unauthorized")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get notification")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, notification)
}

// MarkAsRead marks a notification as read
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	notificationID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.service.MarkAsRead(r.Context(), notificationID, userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark as read")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Notification marked as read",
	})
}

// MarkAllAsRead marks all notifications as read for the user
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	if err := h.service.MarkAllAsRead(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark all as read")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "All notifications marked as read",
	})
}

// DeleteNotification deletes a notification
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	notificationID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.service.DeleteNotification(r.Context(), notificationID, userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Notification deleted successfully",
	})
}

// RegisterPushToken registers a device push token
func (h *Handler) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req RegisterPushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.RegisterPushToken(r.Context(), userID, &req); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register push token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Push token registered successfully",
	})
}

// UnregisterPushToken unregisters a device push token
func (h *Handler) UnregisterPushToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Token is required")
		return
	}

	if err := h.service.UnregisterPushToken(r.Context(), token); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unregister push token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Push token unregistered successfully",
	})
}

// GetPreferences retrieves notification preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	preferences, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, preferences)
}

// UpdatePreferences updates notification preferences
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.service.UpdatePreferences(r.Context(), userID, &req); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Preferences updated successfully",
	})
}

// SendAdaptive runs the adaptive timing pipeline for a notification. Used by
// internal jobs and the coaching engine; exposed over HTTP for tooling.
func (h *Handler) SendAdaptive(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	decision, _, err := h.service.SendAdaptive(r.Context(), &req)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send notification")
		return
	}

	utils.RespondWithJSON(w, http.StatusAccepted, decision)
}

// CancelScheduledNotification cancels a pending deferred notification
func (h *Handler) CancelScheduledNotification(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	scheduledID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid scheduled notification ID")
		return
	}

	if err := h.service.CancelScheduledNotification(r.Context(), scheduledID, userID); err != nil {
		if err == ErrNotificationNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Scheduled notification not found")
		} else if err == ErrUnauthorized {
			utils.RespondWithError(w, http.StatusForbidden, "Unauthorized")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to cancel scheduled notification")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Scheduled notification cancelled",
	})
}

// TestPushNotification sends a test push notification
func (h *Handler) TestPushNotification(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	req := &SendRequest{
		UserID:   userID,
		Type:     TypeCheckIn,
		Title:    "Test Push Notification 🔔",
		Message:  "This is a test notification to verify your push settings are working correctly.",
		Channels: []DeliveryChannel{ChannelPush},
	}

	notification, err := h.service.Deliver(r.Context(), req)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send test notification")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Test notification sent",
		"notification": notification,
	})
}

// ServeFeed upgrades the connection to the live notification feed
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade notification feed connection: %v", err)
		return
	}

	client := NewClient(h.hub, conn, userID, h.service)
	client.Start()
}
