package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	uploadTimeout         = 30 * time.Second
	downloadHeaderTimeout = 30 * time.Second
)

// CloudinaryStorage uploads blobs to Cloudinary. The storage id is the
// asset's secure delivery URL.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
	client *http.Client
}

func NewCloudinaryStorage(cloudinaryURL, folder string) (*CloudinaryStorage, error) {
	if cloudinaryURL == "" {
		return nil, errors.New("cloudinary url is not configured")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStorage{
		cld:    cld,
		folder: folder,
		client: newDownloadClient(downloadHeaderTimeout),
	}, nil
}

// newDownloadClient bounds the wait for response headers only; reading a
// large body is limited by the caller's context.
func newDownloadClient(headerTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = headerTimeout
	return &http.Client{Transport: transport}
}

func (s *CloudinaryStorage) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     uuid.NewString(),
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", name, result.Error.Message)
	}

	logger.Log.Info("media uploaded",
		zap.String("filename", name),
		zap.String("content_type", contentType),
		zap.String("public_id", result.PublicID))
	return result.SecureURL, nil
}

func (s *CloudinaryStorage) Open(ctx context.Context, storageID string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, storageID, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download media: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
