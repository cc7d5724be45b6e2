package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"lovenest-backend/internal/middleware"
	"lovenest-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ReminderHandler handles reminder HTTP requests.
type ReminderHandler struct {
	reminderService *services.ReminderService
}

// NewReminderHandler creates a new reminder handler.
func NewReminderHandler(reminderService *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// AddReminderRequest represents the request body for adding a reminder.
type AddReminderRequest struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// AddReminder handles POST /api/v1/reminders.
func (h *ReminderHandler) AddReminder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req AddReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Date.IsZero() {
		respondError(w, "title and date are required", http.StatusBadRequest)
		return
	}

	reminder, err := h.reminderService.AddReminder(ctx, userID, req.Title, req.Date)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to add reminder")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusCreated, reminder)
}

// ListReminders handles GET /api/v1/reminders.
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	reminders, err := h.reminderService.ListReminders(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, reminders)
}

// DeleteReminder handles DELETE /api/v1/reminders/{reminder_id}.
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	reminderID := chi.URLParam(r, "reminder_id")

	if err := h.reminderService.DeleteReminder(ctx, userID, reminderID); err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
