package handlers

import (
	"net/http"

	"lovenest-backend/internal/middleware"
	"lovenest-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// NotificationHandler handles notification HTTP requests.
type NotificationHandler struct {
	pairingService *services.PairingService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(pairingService *services.PairingService) *NotificationHandler {
	return &NotificationHandler{pairingService: pairingService}
}

// ListNotifications handles GET /api/v1/notifications.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	notifications, err := h.pairingService.ListNotifications(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list notifications")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

// MarkRead handles POST /api/v1/notifications/{notification_id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	notificationID := chi.URLParam(r, "notification_id")

	if err := h.pairingService.MarkRead(ctx, userID, notificationID); err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
