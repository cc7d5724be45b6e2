package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"lovenest-backend/internal/middleware"
	"lovenest-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// JournalHandler handles journal HTTP requests.
type JournalHandler struct {
	journalService *services.JournalService
}

// NewJournalHandler creates a new journal handler.
func NewJournalHandler(journalService *services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// AddEntryRequest represents the request body for adding a journal entry.
type AddEntryRequest struct {
	Title   string     `json:"title"`
	Excerpt string     `json:"excerpt"`
	Date    *time.Time `json:"date"`
}

// AddEntry handles POST /api/v1/journal.
func (h *JournalHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		respondError(w, "title is required", http.StatusBadRequest)
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	entry, err := h.journalService.AddEntry(ctx, userID, req.Title, req.Excerpt, date)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to add journal entry")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// ListEntries handles GET /api/v1/journal.
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	entries, err := h.journalService.ListEntries(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
