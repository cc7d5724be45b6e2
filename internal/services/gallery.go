package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLTTL = 5 * time.Minute

// GalleryService handles the shared photo gallery. Image bytes never
// pass through the backend: clients upload straight to object storage
// via a pre-signed URL and the service stores metadata only.
type GalleryService struct {
	store    store.Store
	s3Client *s3.Client
	s3Bucket string
	s3Region string
}

// NewGalleryService creates a new gallery service. Endpoint overrides
// the S3 endpoint for S3-compatible providers.
func NewGalleryService(
	st store.Store,
	awsRegion, s3Bucket, accessKey, secretKey, endpoint string,
) (*GalleryService, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(awsRegion),
	}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &GalleryService{
		store:    st,
		s3Client: s3Client,
		s3Bucket: s3Bucket,
		s3Region: awsRegion,
	}, nil
}

// UploadRequest represents a request for a pre-signed upload URL.
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// UploadResponse carries the pre-signed URL and the public src the
// photo will be reachable at once uploaded.
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	Src       string `json:"src"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignUpload mints a pre-signed PUT URL for a new gallery image.
func (s *GalleryService) PresignUpload(ctx context.Context, userID, filename, contentType string) (*UploadResponse, error) {
	key := fmt.Sprintf("%s/%s%s", userID, uuid.New().String(), path.Ext(filename))

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLTTL
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	src := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Bucket, s.s3Region, key)
	return &UploadResponse{
		UploadURL: request.URL,
		Src:       src,
		ExpiresIn: int(uploadURLTTL.Seconds()),
	}, nil
}

// AddPhoto stores gallery photo metadata.
func (s *GalleryService) AddPhoto(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	profile, err := s.store.GetProfile(ctx, photo.UserID)
	if err != nil {
		return nil, err
	}
	photo.ID = uuid.New().String()
	photo.PartnerID = profile.PartnerID
	photo.CreatedAt = time.Now()
	if err := s.store.InsertPhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// ListPhotos returns the user's and their partner's photos, newest first.
func (s *GalleryService) ListPhotos(ctx context.Context, userID string) ([]models.Photo, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	userIDs := []string{userID}
	if profile.PartnerID != nil {
		userIDs = append(userIDs, *profile.PartnerID)
	}
	return s.store.ListPhotos(ctx, userIDs)
}
