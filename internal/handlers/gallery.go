package handlers

import (
	"encoding/json"
	"net/http"

	"lovenest-backend/internal/middleware"
	"lovenest-backend/internal/models"
	"lovenest-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// GalleryHandler handles gallery HTTP requests.
type GalleryHandler struct {
	galleryService *services.GalleryService
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(galleryService *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

// AddPhotoRequest represents the request body for adding a photo.
type AddPhotoRequest struct {
	Src     string `json:"src"`
	Caption string `json:"caption"`
	Hint    string `json:"hint"`
}

// AddPhoto handles POST /api/v1/photos.
func (h *GalleryHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req AddPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Src == "" {
		respondError(w, "src is required", http.StatusBadRequest)
		return
	}

	photo, err := h.galleryService.AddPhoto(ctx, &models.Photo{
		UserID:  userID,
		Src:     req.Src,
		Caption: req.Caption,
		Hint:    req.Hint,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to add photo")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusCreated, photo)
}

// ListPhotos handles GET /api/v1/photos.
func (h *GalleryHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	photos, err := h.galleryService.ListPhotos(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, photos)
}

// UploadPhoto handles POST /api/v1/photos/upload.
func (h *GalleryHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Filename == "" {
		respondError(w, "filename is required", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	response, err := h.galleryService.PresignUpload(ctx, userID, req.Filename, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("filename", req.Filename).
			Msg("Failed to generate pre-signed URL")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, response)
}
