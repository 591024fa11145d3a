package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// s3Client keeps workbooks as objects in a single bucket. Storage paths
// map to object names with the leading slash stripped.
type s3Client struct {
	mc     *minio.Client
	bucket string
}

func newS3Client(cfg Config) (*s3Client, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.S3Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	timeout := timeoutOrDefault(cfg.TimeoutSeconds)

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &s3Client{mc: mc, bucket: cfg.Bucket}, nil
}

func (c *s3Client) Download(ctx context.Context, path string) ([]byte, error) {
	obj, err := c.mc.GetObject(ctx, c.bucket, objectName(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("s3 download %q: %w", path, err)
	}
	defer obj.Close()

	// GetObject is lazy; errors surface on the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("s3 download %q: %w", path, err)
	}
	return data, nil
}

func (c *s3Client) Upload(ctx context.Context, path string, data []byte) error {
	_, err := c.mc.PutObject(ctx, c.bucket, objectName(path),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentTypeXLSX})
	if err != nil {
		return fmt.Errorf("s3 upload %q: %w", path, err)
	}
	return nil
}

func (c *s3Client) Ping(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("s3 ping: %w", err)
	}
	if !exists {
		return fmt.Errorf("s3 ping: bucket %q does not exist", c.bucket)
	}
	return nil
}

func objectName(path string) string {
	return strings.TrimPrefix(path, "/")
}
