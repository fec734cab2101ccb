// Package storage wraps the S3-compatible backing store: presigned PUT
// URLs for direct uploads, existence probes for confirmation, and object
// deletion for the cascade delete.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/resonance-app/resonance/internal/common"
	sc "github.com/resonance-app/resonance/internal/server/config"
)

// ObjectStore is the subset of object-storage operations the services need.
type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string) (url string, expiresIn time.Duration, err error)
	Head(ctx context.Context, key string) error
	Delete(ctx context.Context, key string) error
	RemoteURL(key string) string
}

// Seams for tests, following the same pattern as the rest of the AWS wiring.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	headObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in)
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3Store implements ObjectStore against an S3-compatible endpoint (MinIO in
// development).
type S3Store struct {
	bucket     string
	presignTTL time.Duration
	client     *s3.Client
	presign    *s3.PresignClient
}

func NewS3Store(ctx context.Context, cfg *sc.Config) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		bucket:     cfg.S3Bucket,
		presignTTL: cfg.PresignTTL,
		client:     client,
		presign:    newS3PresignClient(client),
	}, nil
}

func (s *S3Store) PresignPut(ctx context.Context, key, contentType string) (string, time.Duration, error) {
	req, err := presignPutObject(s.presign, ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", 0, fmt.Errorf("%w: presign put: %v", common.ErrStorageFailure, err)
	}
	return req.URL, s.presignTTL, nil
}

// Head probes the store for the object. ErrNotFound means the object has not
// arrived; the caller treats that as an unconfirmed upload, not an I/O error.
func (s *S3Store) Head(ctx context.Context, key string) error {
	if _, err := headObject(s.client, ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}); err != nil {
		return common.ErrNotFound
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	if _, err := deleteObject(s.client, ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}); err != nil {
		return fmt.Errorf("%w: delete object: %v", common.ErrStorageFailure, err)
	}
	return nil
}

// RemoteURL renders the canonical s3:// location recorded on confirmed
// artifacts.
func (s *S3Store) RemoteURL(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}
