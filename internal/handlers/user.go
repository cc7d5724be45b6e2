package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"lovenest-backend/internal/middleware"
	"lovenest-backend/internal/models"
	"lovenest-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles profile-related HTTP requests.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
}

// CreateUserResponse carries the created profile and its token.
type CreateUserResponse struct {
	Profile *models.UserProfile `json:"profile"`
	Token   string              `json:"token"`
}

// CreateUser handles POST /api/v1/users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		respondError(w, "email is required", http.StatusBadRequest)
		return
	}

	profile, token, err := h.userService.CreateUser(ctx, req.Name, req.Email, req.PhotoURL)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		respondError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", profile.ID).Str("email", profile.Email).Msg("User created")
	respondJSON(w, http.StatusOK, CreateUserResponse{Profile: profile, Token: token})
}

// GetMe handles GET /api/v1/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateMeRequest represents a partial profile update.
type UpdateMeRequest struct {
	Name        string     `json:"name"`
	PhotoURL    string     `json:"photo_url"`
	Anniversary *time.Time `json:"anniversary"`
}

// UpdateMe handles PATCH /api/v1/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile := &models.UserProfile{
		ID:          userID,
		Name:        req.Name,
		PhotoURL:    req.PhotoURL,
		Anniversary: req.Anniversary,
	}
	if err := h.userService.UpdateProfile(ctx, profile); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	updated, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// GetPartner handles GET /api/v1/partner.
func (h *UserHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	partner, err := h.userService.GetPartnerProfile(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, partner)
}

// DashboardResponse summarizes the relationship dates.
type DashboardResponse struct {
	DaysTogether      *int       `json:"days_together,omitempty"`
	NextAnniversary   *time.Time `json:"next_anniversary,omitempty"`
	DaysToAnniversary *int       `json:"days_to_anniversary,omitempty"`
	HasPartner        bool       `json:"has_partner"`
}

// Dashboard handles GET /api/v1/dashboard.
func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	resp := DashboardResponse{HasPartner: profile.PartnerID != nil}
	if profile.Anniversary != nil {
		now := time.Now()
		days := services.DaysTogether(*profile.Anniversary, now)
		next, until := services.NextAnniversary(*profile.Anniversary, now)
		resp.DaysTogether = &days
		resp.NextAnniversary = &next
		resp.DaysToAnniversary = &until
	}
	respondJSON(w, http.StatusOK, resp)
}
