package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// R2Options configures an S3-compatible bucket. Endpoint overrides the
// Cloudflare R2 endpoint derived from AccountID.
type R2Options struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	PublicURL       string
	Endpoint        string
	UploadTimeout   time.Duration
}

// Configured reports whether enough settings are present to talk to a bucket.
func (o R2Options) Configured() bool {
	return o.BucketName != "" && o.AccessKeyID != "" && (o.AccountID != "" || o.Endpoint != "")
}

type R2Storage struct {
	client        *s3.Client
	bucketName    string
	publicURL     string
	uploadTimeout time.Duration
}

func NewR2Storage(ctx context.Context, opts R2Options) (*R2Storage, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", opts.AccountID)
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.AccessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	timeout := opts.UploadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &R2Storage{
		client:        client,
		bucketName:    opts.BucketName,
		publicURL:     strings.TrimSuffix(opts.PublicURL, "/"),
		uploadTimeout: timeout,
	}, nil
}

// UploadImage stores a processed product image under products/ and returns
// its public URL.
func (s *R2Storage) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := ".bin"
	switch contentType {
	case "image/webp":
		ext = ".webp"
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	}
	key := fmt.Sprintf("products/%s%s", uuid.NewString(), ext)

	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	_, err := s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to bucket: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}

// DeleteImage removes an object previously returned by UploadImage. URLs
// outside the bucket's public URL are refused.
func (s *R2Storage) DeleteImage(ctx context.Context, fileURL string) error {
	if s.publicURL == "" || !strings.HasPrefix(fileURL, s.publicURL+"/") {
		return fmt.Errorf("invalid file URL: domain mismatch")
	}
	key := strings.TrimPrefix(fileURL, s.publicURL+"/")
	if key == "" {
		return fmt.Errorf("invalid file key derived from URL")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from bucket: %w", err)
	}
	return nil
}
