package helpinghand

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/tandemlabs/tandem-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetCategories returns categories with per-user suggestion counts
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	counts, err := h.service.GetCategories(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get categories")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, counts)
}

// GetWeekSuggestions returns this week's helping hand tasks
func (h *Handler) GetWeekSuggestions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	tasks, err := h.service.GetWeekSuggestions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get suggestions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, tasks)
}

// CompleteSuggestion marks a task done and returns the refreshed week status
func (h *Handler) CompleteSuggestion(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	suggestionID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid suggestion ID")
		return
	}

	status, err := h.service.CompleteSuggestion(r.Context(), suggestionID, userID)
	if err != nil {
		if err == ErrSuggestionNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Suggestion not found")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to complete suggestion")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}

// CreateReminder creates a task reminder
func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	reminder, err := h.service.CreateReminder(r.Context(), userID, &req)
	if err != nil {
		if err == ErrInvalidFrequency {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid reminder frequency")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create reminder")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, reminder)
}

// ListReminders returns the user's active reminders
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	reminders, err := h.service.ListReminders(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list reminders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, reminders)
}

// DeleteReminder deactivates a reminder
func (h *Handler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	reminderID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid reminder ID")
		return
	}

	if err := h.service.DeleteReminder(r.Context(), reminderID, userID); err != nil {
		if err == ErrReminderNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Reminder not found")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete reminder")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Reminder deleted successfully",
	})
}

// GetPartnerHints returns active hints the partner left for the user
func (h *Handler) GetPartnerHints(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	hints, err := h.service.GetPartnerHints(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get hints")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, hints)
}

// CreateHint drops a hint for the partner
func (h *Handler) CreateHint(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req CreateHintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	hint, err := h.service.CreateHint(r.Context(), userID, req.PartnerID, &req)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create hint")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, hint)
}

// DismissHint deactivates a hint the user has acted on
func (h *Handler) DismissHint(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	hintID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid hint ID")
		return
	}

	if err := h.service.DismissHint(r.Context(), hintID, userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to dismiss hint")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Hint dismissed",
	})
}

// GetPartnerGuesses returns the partner's quiz guesses about the user
func (h *Handler) GetPartnerGuesses(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	guesses, err := h.service.GetPartnerGuesses(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get partner guesses")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, guesses)
}

// GetWeekStatus returns the week-scoped progress row
func (h *Handler) GetWeekStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	status, err := h.service.GetWeekStatus(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get week status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}
