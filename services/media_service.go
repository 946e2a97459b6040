package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/fitplan/fitplan_backend/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrStorageUnavailable = errors.New("media storage is not configured")
	ErrInvalidUpload      = errors.New("invalid upload")
)

type mediaStore interface {
	CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error)
	GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error)
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type MediaService struct {
	repo    mediaStore
	storage storage.Storage
}

func NewMediaService(repo mediaStore, blobs storage.Storage) *MediaService {
	return &MediaService{repo: repo, storage: blobs}
}

// CreateMedia stores the upload's bytes and records its metadata under the
// uploader's email.
func (s *MediaService) CreateMedia(ctx context.Context, upload Upload, userEmail string) (*models.Media, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	filename := strings.TrimSpace(upload.Filename)
	if filename == "" || upload.Content == nil {
		return nil, ErrInvalidUpload
	}

	storageID, err := s.storage.Save(ctx, filename, upload.ContentType, upload.Content)
	if err != nil {
		logger.Log.Error("media upload failed", zap.String("filename", filename), zap.String("email", userEmail), zap.Error(err))
		return nil, err
	}

	return s.repo.CreateMedia(ctx, &models.Media{
		StorageID:   storageID,
		Filename:    filename,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		UserEmail:   userEmail,
	})
}

// GetMedia returns the media and its bytes if it was uploaded by userEmail.
func (s *MediaService) GetMedia(ctx context.Context, id uuid.UUID, userEmail string) (*models.Media, io.ReadCloser, error) {
	media, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if media.UserEmail != userEmail {
		logger.Log.Warn("media access denied", zap.String("media_id", id.String()), zap.String("email", userEmail))
		return nil, nil, fmt.Errorf("media %s: %w", id, errs.ErrPermissionDenied)
	}
	return s.open(ctx, media)
}

// GetGymMedia serves gym pictures, which are public.
func (s *MediaService) GetGymMedia(ctx context.Context, id uuid.UUID) (*models.Media, io.ReadCloser, error) {
	media, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, media)
}

// GetMediaInfo returns metadata only, with the same ownership rule as GetMedia.
func (s *MediaService) GetMediaInfo(ctx context.Context, id uuid.UUID, userEmail string) (*models.Media, error) {
	media, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	if media.UserEmail != userEmail {
		return nil, fmt.Errorf("media %s: %w", id, errs.ErrPermissionDenied)
	}
	return media, nil
}

func (s *MediaService) open(ctx context.Context, media *models.Media) (*models.Media, io.ReadCloser, error) {
	if s.storage == nil {
		return nil, nil, ErrStorageUnavailable
	}
	body, err := s.storage.Open(ctx, media.StorageID)
	if err != nil {
		logger.Log.Error("media download failed", zap.String("media_id", media.ID.String()), zap.Error(err))
		return nil, nil, err
	}
	return media, body, nil
}
