package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/halvard/cms/internal/config"
	"github.com/halvard/cms/internal/platform"
)

// MediaStore hands out presigned URLs for CMS media objects. Clients upload
// and download directly against the S3 endpoint; the API never proxies the
// object bytes.
type MediaStore struct {
	logger     zerolog.Logger
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	presignTTL time.Duration
}

// NewMediaStore creates a MediaStore from the S3 section of the config.
func NewMediaStore(cfg *config.Config, logger zerolog.Logger) (*MediaStore, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket not configured")
	}

	opts := s3.Options{
		Region:      cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}
	client := s3.New(opts)

	return &MediaStore{
		logger:     logger.With().Str("component", "media-store").Logger(),
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.S3Bucket,
		presignTTL: cfg.S3PresignTTL,
	}, nil
}

// Upload describes a presigned upload slot for one object.
type Upload struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PresignUpload returns a presigned PUT URL for a new media object. The key
// is generated server side so clients cannot collide with or overwrite each
// other's objects.
func (s *MediaStore) PresignUpload(ctx context.Context, filename, contentType string) (*Upload, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return nil, fmt.Errorf("invalid filename %q", filename)
	}
	key := fmt.Sprintf("media/%s/%s", platform.NewID(), name)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return nil, fmt.Errorf("presign upload for %s: %w", key, err)
	}

	s.logger.Info().Str("key", key).Msg("presigned media upload")
	return &Upload{
		Key:       key,
		URL:       req.URL,
		ExpiresAt: time.Now().UTC().Add(s.presignTTL),
	}, nil
}

// PresignDownload returns a presigned GET URL for an existing media object.
func (s *MediaStore) PresignDownload(ctx context.Context, key string) (*Upload, error) {
	if key == "" || strings.Contains(key, "..") {
		return nil, fmt.Errorf("invalid object key %q", key)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return nil, fmt.Errorf("presign download for %s: %w", key, err)
	}

	return &Upload{
		Key:       key,
		URL:       req.URL,
		ExpiresAt: time.Now().UTC().Add(s.presignTTL),
	}, nil
}

// Delete removes a media object.
func (s *MediaStore) Delete(ctx context.Context, key string) error {
	if key == "" || strings.Contains(key, "..") {
		return fmt.Errorf("invalid object key %q", key)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	s.logger.Info().Str("key", key).Msg("deleted media object")
	return nil
}

// sanitizeFilename strips any path components and rejects names that would
// not form a usable object key.
func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}
