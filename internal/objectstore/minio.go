// Package objectstore optionally mirrors produced artifacts (audio files,
// reports) into a MinIO bucket so evaluation results can be shared between
// machines. The pipeline never reads artifacts back from the bucket.
package objectstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Config holds the MinIO connection settings. An empty endpoint disables
// uploads entirely.
type Config struct {
	Endpoint  string `yaml:"endpoint" env:"VOICEVAL_MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"VOICEVAL_MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"VOICEVAL_MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"VOICEVAL_MINIO_BUCKET"`
	UseSSL    bool   `yaml:"use_ssl" env:"VOICEVAL_MINIO_USE_SSL"`
}

// Enabled reports whether uploads are configured.
func (c Config) Enabled() bool { return c.Endpoint != "" }

// Client uploads artifacts into a single bucket, one prefix per run.
type Client struct {
	mc     *minio.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// New connects to MinIO and ensures the bucket exists.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("object store requires endpoint, access_key, secret_key and bucket")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store client: %w", err)
	}

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Client{
		mc:     mc,
		bucket: cfg.Bucket,
		prefix: uuid.NewString(),
		logger: logger.With(zap.String("component", "object_store")),
	}, nil
}

// UploadFile stores a local artifact under the run prefix and returns the
// object key.
func (c *Client) UploadFile(ctx context.Context, localPath string) (string, error) {
	key := c.prefix + "/" + filepath.Base(localPath)
	info, err := c.mc.FPutObject(ctx, c.bucket, key, localPath, minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", localPath, err)
	}
	c.logger.Debug("artifact uploaded",
		zap.String("key", key),
		zap.Int64("size", info.Size))
	return key, nil
}
