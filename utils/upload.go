package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Uploader stores assets in S3 and degrades to inline data URLs when the
// blob store is unavailable or not configured, so the admin UI keeps
// working at the cost of bloating documents with inline binary data.
type Uploader struct {
	client *s3.Client
	bucket string
	region string
	log    *zap.Logger
}

// NewUploader builds the S3 client. An empty bucket, or a failed SDK
// config load, leaves the client nil and every upload on the fallback tier.
func NewUploader(ctx context.Context, region, bucket string, log *zap.Logger) *Uploader {
	u := &Uploader{bucket: bucket, region: region, log: log}

	if bucket == "" {
		log.Warn("no upload bucket configured, uploads will fall back to data URLs")
		return u
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Warn("failed to load AWS config, uploads will fall back to data URLs", zap.Error(err))
		return u
	}

	u.client = s3.NewFromConfig(cfg)
	return u
}

// Upload stores the file under a collision-resistant key and returns a
// retrievable URL. Storage failures are not surfaced; the data-URL
// fallback always succeeds. Orphaned uploads are never cleaned up.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if u.client != nil {
		key := fmt.Sprintf("uploads/%d_%s", time.Now().UnixMilli(), SanitizeFilename(filename))
		_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		if err == nil {
			u.log.Info("upload stored in S3", zap.String("key", key))
			return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
		}
		u.log.Warn("S3 upload failed, falling back to data URL", zap.Error(err))
	}

	u.log.Info("upload served as data URL", zap.Int("bytes", len(data)))
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

// SanitizeFilename replaces anything outside [a-zA-Z0-9._-] with an
// underscore. An empty name becomes "upload".
func SanitizeFilename(name string) string {
	if name == "" {
		name = "upload"
	}
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}
