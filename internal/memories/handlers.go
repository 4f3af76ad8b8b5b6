package memories

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/tandemlabs/tandem-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateMemory creates a scrapbook entry from a multipart form: text fields
// plus an optional "photo" part.
func (h *Handler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	if err := r.ParseMultipartForm(maxPhotoBytes + 1<<20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	memoryDate, err := time.Parse("2006-01-02", r.FormValue("memory_date"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "memory_date must be YYYY-MM-DD")
		return
	}

	req := &CreateMemoryRequest{
		Title:      r.FormValue("title"),
		Note:       r.FormValue("note"),
		MemoryDate: memoryDate,
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	photo, photoHeader, err := r.FormFile("photo")
	if err != nil && err != http.ErrMissingFile {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid photo")
		return
	}
	if photo != nil {
		defer photo.Close()
	}

	memory, err := h.service.CreateMemory(r.Context(), userID, req, photo, photoHeader)
	if err != nil {
		if err == ErrUnsupportedPhotoType {
			utils.RespondWithError(w, http.StatusBadRequest, "Unsupported photo type")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create memory")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, memory)
}

// ListMemories returns the user's scrapbook, newest moment first
func (h *Handler) ListMemories(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	favoritesOnly := r.URL.Query().Get("favorites") == "true"

	response, err := h.service.ListMemories(r.Context(), userID, limit, offset, favoritesOnly)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list memories")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetMemory returns one scrapbook entry
func (h *Handler) GetMemory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	memoryID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid memory ID")
		return
	}

	memory, err := h.service.GetMemory(r.Context(), memoryID, userID)
	if err != nil {
		h.respondMemoryError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, memory)
}

// UpdateMemory applies a partial update
func (h *Handler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	memoryID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid memory ID")
		return
	}

	var req UpdateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	memory, err := h.service.UpdateMemory(r.Context(), memoryID, userID, &req)
	if err != nil {
		h.respondMemoryError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, memory)
}

// DeleteMemory removes a scrapbook entry and its photo
func (h *Handler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	vars := mux.Vars(r)

	memoryID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid memory ID")
		return
	}

	if err := h.service.DeleteMemory(r.Context(), memoryID, userID); err != nil {
		h.respondMemoryError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Memory deleted successfully",
	})
}

func (h *Handler) respondMemoryError(w http.ResponseWriter, err error) {
	switch err {
	case ErrMemoryNotFound:
		utils.RespondWithError(w, http.StatusNotFound, "Memory not found")
	case ErrUnauthorized:
		utils.RespondWithError(w, http.StatusForbidden, "Unauthorized")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Memory operation failed")
	}
}
