package service

import (
	"context"
	"errors"
	"strings"

	"github.com/donde/storefront-backend/internal/storage"
	"github.com/donde/storefront-backend/pkg/logger"
)

var (
	ErrInvalidFileType     = errors.New("file type not allowed")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrInvalidUploadFolder = errors.New("invalid upload folder")
	ErrFilenameRequired    = errors.New("filename is required")
	ErrUploadNotConfigured = errors.New("file uploads are not configured")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg":               true,
	"image/png":                true,
	"image/gif":                true,
	"image/webp":               true,
	"image/svg+xml":            true,
	"image/x-icon":             true,
	"image/vnd.microsoft.icon": true,
}

var uploadFolders = map[string]bool{
	"logo":     true,
	"favicon":  true,
	"banner":   true,
	"products": true,
}

type UploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required"`
	Folder      string `json:"folder"`
}

type UploadService interface {
	PresignUpload(ctx context.Context, req UploadRequest) (*storage.PresignedUpload, error)
}

type uploadService struct {
	presigner   storage.Presigner
	maxFileSize int64
}

// NewUploadService returns a service that rejects every request when
// presigner is nil.
func NewUploadService(presigner storage.Presigner, maxFileSize int64) UploadService {
	return &uploadService{
		presigner:   presigner,
		maxFileSize: maxFileSize,
	}
}

func (s *uploadService) PresignUpload(ctx context.Context, req UploadRequest) (*storage.PresignedUpload, error) {
	if s.presigner == nil {
		return nil, ErrUploadNotConfigured
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		return nil, ErrFilenameRequired
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if !allowedImageTypes[contentType] {
		return nil, ErrInvalidFileType
	}
	if req.FileSize <= 0 || req.FileSize > s.maxFileSize {
		return nil, ErrFileTooLarge
	}

	folder := req.Folder
	if folder == "" {
		folder = "products"
	}
	if !uploadFolders[folder] {
		return nil, ErrInvalidUploadFolder
	}

	upload, err := s.presigner.PresignUpload(ctx, folder, filename, contentType, req.FileSize)
	if err != nil {
		logger.Error("Failed to presign upload", err, logger.Fields{
			"folder":       folder,
			"content_type": contentType,
		})
		return nil, err
	}

	logger.Info("Upload URL issued", logger.Fields{
		"key":  upload.Key,
		"size": req.FileSize,
	})
	return upload, nil
}
