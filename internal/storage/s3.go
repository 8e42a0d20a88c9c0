package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/mynah-ai/mynah/internal/util"
	"github.com/mynah-ai/mynah/pkg/logger"
)

// NewS3Client builds the source archive client from AWS_* environment
// variables. Archiving is best effort; a nil client disables it.
func NewS3Client(ctx context.Context) *s3.Client {
	region := util.GetEnv("AWS_REGION")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		logger.Warn("[Storage] Failed to configure S3 client", "error", err)
		return nil
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

// ArchiveSource stores one raw ingested source under an ingest/ key and
// returns the key. The source name contributes only its file extension.
func ArchiveSource(ctx context.Context, client *s3.Client, name string, data []byte) (string, error) {
	if client == nil {
		return "", fmt.Errorf("no S3 client configured")
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate archive key: %w", err)
	}

	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".txt"
	}
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	key := fmt.Sprintf("ingest/%s%s", id, ext)
	bucket := util.GetEnv("AWS_BUCKET")
	if _, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	}); err != nil {
		return "", fmt.Errorf("failed to archive source: %w", err)
	}

	return key, nil
}
