// internal/frequency/handlers.go

package frequency

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tandemlabs/tandem-backend/internal/common/utils"
)

// Handler handles frequency-related HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new frequency handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CheckPrompt evaluates the suppression gate for one prompt type.
func (h *Handler) CheckPrompt(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)

	promptType := PromptType(r.URL.Query().Get("type"))
	if promptType == "" {
		promptType = PromptCheckIn
	}

	decision, err := h.service.ShouldSendCheckin(r.Context(), userID, promptType)
	if err != nil {
		utils.ErrorResponse(w, "Failed to evaluate prompt gate", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, decision, http.StatusOK)
}

// RecordPromptSent records that a prompt actually went out.
func (h *Handler) RecordPromptSent(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)

	var req struct {
		PromptType PromptType `json:"prompt_type" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.RecordPromptSent(r.Context(), userID, req.PromptType); err != nil {
		utils.ErrorResponse(w, "Failed to record prompt", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]bool{"recorded": true}, http.StatusOK)
}

// RecordEvent appends an engagement event.
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)

	var req struct {
		EventType string          `json:"event_type" validate:"required"`
		Context   json.RawMessage `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.RecordEvent(r.Context(), userID, req.EventType, req.Context); err != nil {
		utils.ErrorResponse(w, "Failed to record event", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]bool{"recorded": true}, http.StatusCreated)
}

// GetProfile returns the partner engagement profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

// CreateProfile creates the partner engagement profile at onboarding.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)

	var profile PartnerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	profile.UserID = userID

	if err := h.service.CreateProfile(r.Context(), &profile); err != nil {
		utils.ErrorResponse(w, "Failed to create profile", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusCreated)
}

// GetGraduationProgress returns the read-only graduation report.
func (h *Handler) GetGraduationProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)

	progress, err := h.service.GetGraduationProgress(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to get graduation progress", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, progress, http.StatusOK)
}

// GetQuietMode returns the current quiet mode setting.
func (h *Handler) GetQuietMode(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)

	qm, err := h.service.GetQuietMode(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to get quiet mode", http.StatusInternalServerError)
		return
	}
	if qm == nil {
		qm = &QuietMode{UserID: userID, Active: false}
	}

	utils.SuccessResponse(w, qm, http.StatusOK)
}

// SetQuietMode toggles quiet mode.
func (h *Handler) SetQuietMode(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)

	var req struct {
		Active                 bool       `json:"active"`
		Reason                 string     `json:"reason" validate:"max=500"`
		AllowEmergencyMessages bool       `json:"allow_emergency_messages"`
		EndsAt                 *time.Time `json:"ends_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	qm, err := h.service.SetQuietMode(r.Context(), userID, req.Active, req.Reason, req.AllowEmergencyMessages, req.EndsAt)
	if err != nil {
		utils.ErrorResponse(w, "Failed to set quiet mode", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, qm, http.StatusOK)
}
