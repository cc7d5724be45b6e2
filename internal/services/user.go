package services

import (
	"context"
	"fmt"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const jwtExpDays = 365

// UserService handles profile access and the token identity the other
// handlers rely on. Identity is always passed explicitly into service
// calls; there is no ambient session state.
type UserService struct {
	store     store.Store
	jwtSecret string
}

// NewUserService creates a new user service.
func NewUserService(st store.Store, jwtSecret string) *UserService {
	return &UserService{store: st, jwtSecret: jwtSecret}
}

// CreateUser registers a profile and returns it with a signed token.
func (s *UserService) CreateUser(ctx context.Context, name, email, photoURL string) (*models.UserProfile, string, error) {
	profile := &models.UserProfile{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		PhotoURL:  photoURL,
		CreatedAt: time.Now(),
	}
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, "", fmt.Errorf("failed to create profile: %w", err)
	}

	token, err := s.GenerateJWT(profile.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return profile, token, nil
}

// GenerateJWT generates a JWT token for a user.
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID.
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}
	return userID, nil
}

// GetProfile retrieves a profile by id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.store.GetProfile(ctx, userID)
}

// GetPartnerProfile returns the linked partner's profile, or ErrNotLinked.
func (s *UserService) GetPartnerProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.PartnerID == nil {
		return nil, ErrNotLinked
	}
	return s.store.GetProfile(ctx, *profile.PartnerID)
}

// UpdateProfile merges the given fields into the stored profile. The
// partner reference is owned by the pairing flow and cannot be changed
// here.
func (s *UserService) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	profile.PartnerID = nil
	return s.store.UpsertProfile(ctx, profile)
}

// UpdateLastSeen stamps the user's last_seen time.
func (s *UserService) UpdateLastSeen(ctx context.Context, userID string) error {
	return s.store.UpdateLastSeen(ctx, userID, time.Now())
}
