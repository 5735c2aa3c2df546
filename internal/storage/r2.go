package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/inquizitor/inquizitor-backend/internal/config"
)

// R2Storage stores objects in a Cloudflare R2 bucket through the
// S3-compatible API.
type R2Storage struct {
	client *s3.Client
	bucket string
	prefix string
	log    zerolog.Logger
}

// NewR2Storage configures an R2-backed FileStorage. The endpoint is
// derived from the account ID; it must not contain the bucket path.
func NewR2Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*R2Storage, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" {
		return nil, fmt.Errorf("R2 credentials are not fully configured")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load R2 config: %w", err)
	}

	log.Info().Str("bucket", cfg.R2Bucket).Msg("R2 storage initialized")

	return &R2Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.R2Bucket,
		prefix: cfg.R2BasePrefix,
		log:    log.With().Str("component", "r2_storage").Logger(),
	}, nil
}

// Save uploads data under a freshly derived key and returns the key.
func (r *R2Storage) Save(ctx context.Context, filename string, data []byte) (string, error) {
	key := objectKey(r.prefix, filename)

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentTypeFor(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("upload to R2 (key %s): %w", key, err)
	}

	r.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Object uploaded")
	return key, nil
}

// Load downloads the object stored under key.
func (r *R2Storage) Load(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download from R2 (key %s): %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read R2 object body: %w", err)
	}
	return data, nil
}

// Delete removes the object. A missing key is treated as success.
func (r *R2Storage) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete from R2 (key %s): %w", key, err)
	}
	return nil
}
