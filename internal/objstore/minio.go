// Package objstore fetches uploaded source documents from the object store.
// Uploads themselves are handled by an external service; jobs only carry an
// object key.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Downloader retrieves the raw bytes of a stored document.
type Downloader interface {
	Get(ctx context.Context, objectKey string) ([]byte, error)
}

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	accessKey       string
	secretAccessKey string
	useSSL          bool
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		useSSL: false,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

type minioDownloader struct {
	cfg    *minioConfig
	client *minio.Client
}

var _ Downloader = (*minioDownloader)(nil)

func NewMinioDownloader(opts ...MinioOpts) (*minioDownloader, error) {
	cfg := newConfig(opts...)

	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &minioDownloader{cfg: cfg, client: minioClient}, nil
}

func (s *minioDownloader) Get(ctx context.Context, objectKey string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.cfg.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()

	objInfo, err := object.Stat()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, object)
	if err != nil {
		return nil, err
	}

	if n != objInfo.Size {
		return nil, fmt.Errorf("failed to download the entire document. expected bytes %d received %d", objInfo.Size, n)
	}

	return buf.Bytes(), nil
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretAccessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretAccessKey
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}
