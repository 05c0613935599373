// Package snapshot archives rendered try-on images to object storage.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"github.com/kozaktomas/looksmaxxer/internal/config"
)

// ErrNoBucket is returned by NewS3Archive when no bucket is configured.
var ErrNoBucket = errors.New("s3 bucket not configured")

// Archive stores a rendered image and returns a URL it can be fetched from.
type Archive interface {
	Enabled() bool
	Store(ctx context.Context, sessionID string, jpeg []byte) (string, error)
}

// NopArchive discards snapshots.
type NopArchive struct{}

func (NopArchive) Enabled() bool { return false }

func (NopArchive) Store(context.Context, string, []byte) (string, error) { return "", nil }

// S3Archive uploads snapshots to an S3 bucket and hands out presigned links.
type S3Archive struct {
	client     *s3.S3
	uploader   *s3manager.Uploader
	bucket     string
	presignTTL time.Duration
}

// NewS3Archive creates an archive from config. A custom endpoint switches to
// path-style addressing so MinIO works.
func NewS3Archive(cfg *config.S3Config) (*S3Archive, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Archive{
		client:     s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		bucket:     cfg.Bucket,
		presignTTL: ttl,
	}, nil
}

func (a *S3Archive) Enabled() bool { return true }

// Store uploads the JPEG and returns a presigned GET URL.
func (a *S3Archive) Store(ctx context.Context, sessionID string, jpeg []byte) (string, error) {
	key := Key(sessionID, uuid.NewString())

	_, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(jpeg),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	return a.Presign(key)
}

// Presign returns a time-limited GET URL for key.
func (a *S3Archive) Presign(key string) (string, error) {
	req, _ := a.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(a.presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign snapshot: %w", err)
	}
	return url, nil
}

// Key builds the object key for a snapshot.
func Key(sessionID, id string) string {
	if sessionID == "" {
		sessionID = "anonymous"
	}
	return fmt.Sprintf("snapshots/%s/%s.jpg", sessionID, id)
}

// New returns an S3 archive when a bucket is configured, NopArchive otherwise.
func New(cfg *config.S3Config) (Archive, error) {
	if cfg == nil || cfg.Bucket == "" {
		return NopArchive{}, nil
	}
	return NewS3Archive(cfg)
}
