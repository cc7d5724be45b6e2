package handlers

import (
	"encoding/json"
	"net/http"

	"lovenest-backend/internal/middleware"
	"lovenest-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ChatHandler handles chat HTTP requests. The channel is always the one
// shared with the authenticated user's partner.
type ChatHandler struct {
	channelService *services.ChannelService
	userService    *services.UserService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(channelService *services.ChannelService, userService *services.UserService) *ChatHandler {
	return &ChatHandler{
		channelService: channelService,
		userService:    userService,
	}
}

func (h *ChatHandler) partnerChannel(r *http.Request) (string, error) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.PartnerID == nil {
		return "", services.ErrNotLinked
	}
	return h.channelService.GetOrCreateChannel(ctx, userID, *profile.PartnerID)
}

// GetChannel handles GET /api/v1/chat/channel.
func (h *ChatHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	channelID, err := h.partnerChannel(r)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"channel_id": channelID})
}

// PostMessageRequest represents the request body for posting a message.
type PostMessageRequest struct {
	Text string `json:"text"`
}

// PostMessage handles POST /api/v1/chat/messages.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		respondError(w, "text is required", http.StatusBadRequest)
		return
	}

	channelID, err := h.partnerChannel(r)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	msg, err := h.channelService.PostMessage(ctx, channelID, userID, req.Text)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("channel_id", channelID).Msg("Failed to post message")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// ListMessages handles GET /api/v1/chat/messages.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	channelID, err := h.partnerChannel(r)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	messages, err := h.channelService.ListMessages(r.Context(), channelID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, messages)
}
