// internal/common/storage/s3.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"mavuno-backend/internal/common/config"
)

// Uploader writes binary blobs to the object storage bucket and returns a
// publicly resolvable URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type S3Uploader struct {
	client *s3.Client
	cfg    config.StorageConfig
}

func NewS3Uploader(ctx context.Context, cfg config.StorageConfig) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		cfg:    cfg,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	fullKey := u.cfg.Prefix + "/" + key

	cacheControl := "max-age=3600"
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       &u.cfg.Bucket,
		Key:          &fullKey,
		Body:         bytes.NewReader(data),
		ContentType:  &contentType,
		CacheControl: &cacheControl,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return u.cfg.PublicURL(fullKey), nil
}

// ImageKey builds the object key for an uploaded quality-check image:
// <millis>_<userID>_quality_check.jpg.
func ImageKey(userID string, now time.Time) string {
	return fmt.Sprintf("%d_%s_quality_check.jpg", now.UnixMilli(), userID)
}

// ListingKey builds the object key for a marketplace listing image.
func ListingKey(userID string, now time.Time) string {
	return fmt.Sprintf("%d_%s_listing.jpg", now.UnixMilli(), userID)
}
