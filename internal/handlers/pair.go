package handlers

import (
	"encoding/json"
	"net/http"

	"lovenest-backend/internal/middleware"
	"lovenest-backend/internal/models"
	"lovenest-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PairHandler handles partner-linking HTTP requests.
type PairHandler struct {
	pairingService *services.PairingService
	wsHub          *services.WSHub
}

// NewPairHandler creates a new pair handler.
func NewPairHandler(pairingService *services.PairingService, wsHub *services.WSHub) *PairHandler {
	return &PairHandler{
		pairingService: pairingService,
		wsHub:          wsHub,
	}
}

// CreateLinkRequestRequest represents the request body for creating a
// link request.
type CreateLinkRequestRequest struct {
	PartnerEmail string `json:"partner_email"`
}

// CreateLinkRequest handles POST /api/v1/link-requests.
func (h *PairHandler) CreateLinkRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateLinkRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PartnerEmail == "" {
		respondError(w, "partner_email is required", http.StatusBadRequest)
		return
	}

	linkRequest, notification, err := h.pairingService.CreateRequest(ctx, userID, req.PartnerEmail)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("partner_email", req.PartnerEmail).
			Msg("Failed to create link request")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("link_request_id", linkRequest.ID).
		Str("to_user_id", linkRequest.ToUserID).
		Msg("Link request created")

	// Push the notification to the recipient if they are connected. The
	// record is already durable, so failures here stay best-effort.
	h.wsHub.NotifyNotification(notification)

	respondJSON(w, http.StatusCreated, linkRequest)
}

// RespondLinkRequestRequest represents the request body for responding
// to a link request.
type RespondLinkRequestRequest struct {
	NotificationID string `json:"notification_id"`
	Response       string `json:"response"`
}

// RespondLinkRequest handles POST /api/v1/link-requests/{request_id}/respond.
func (h *PairHandler) RespondLinkRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "request_id")

	var req RespondLinkRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.NotificationID == "" {
		respondError(w, "notification_id is required", http.StatusBadRequest)
		return
	}

	decision := models.LinkRequestStatus(req.Response)
	accepted, err := h.pairingService.Respond(ctx, userID, requestID, req.NotificationID, decision)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("link_request_id", requestID).
			Msg("Failed to respond to link request")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("link_request_id", requestID).
		Str("decision", req.Response).
		Msg("Link request responded")

	if accepted != nil {
		h.wsHub.NotifyNotification(accepted)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unlink handles DELETE /api/v1/partner.
func (h *PairHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	partnerID, err := h.pairingService.Unlink(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to unlink partner")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().Str("user_id", userID).Str("partner_id", partnerID).Msg("Partner unlinked")

	h.wsHub.NotifyUnlinked(userID)
	h.wsHub.NotifyUnlinked(partnerID)

	w.WriteHeader(http.StatusNoContent)
}
