package suggestions

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

func (h *Handler) GenerateSuggestions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	category := mux.Vars(r)["category"]

	result, err := h.service.GenerateWeekly(r.Context(), userID, category)
	if err != nil {
		if err == ErrUnknownCategory {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate suggestions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	category := mux.Vars(r)["category"]

	result, err := h.service.GetWeekSuggestions(r.Context(), userID, category)
	if err != nil {
		if err == ErrUnknownCategory {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get suggestions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) UpdateSuggestion(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	suggestionID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid suggestion ID")
		return
	}

	var req UpdateSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	suggestion, err := h.service.UpdateSuggestion(r.Context(), suggestionID, userID, &req)
	if err != nil {
		if err == ErrSuggestionNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update suggestion")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, suggestion)
}
