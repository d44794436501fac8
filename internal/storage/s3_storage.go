package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/donde/storefront-backend/config"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// PresignedUpload tells the client where to PUT a file and where it will live.
type PresignedUpload struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Presigner issues direct-to-bucket upload URLs.
type Presigner interface {
	PresignUpload(ctx context.Context, folder, filename, contentType string, size int64) (*PresignedUpload, error)
}

type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	baseURL string
}

// NewS3Storage uses static credentials when both keys are set and the
// default AWS credential chain otherwise.
func NewS3Storage(ctx context.Context, cfg *config.S3Config) (*S3Storage, error) {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// PresignUpload signs a PUT for folder/<uuid><ext> with the declared type and size.
func (s *S3Storage) PresignUpload(ctx context.Context, folder, filename, contentType string, size int64) (*PresignedUpload, error) {
	key := ObjectKey(folder, filename)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry).UTC(),
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}

// ObjectKey builds a collision-free key that keeps the file extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), ext)
}
