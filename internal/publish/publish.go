// Package publish uploads generated files to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spiffcs/statcard/internal/log"
)

// Settings configures the storage endpoint.
type Settings struct {
	Endpoint  string
	Bucket    string
	Region    string
	Prefix    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Validate reports missing connection settings.
func (s Settings) Validate() error {
	var missing []string
	if s.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if s.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if s.AccessKey == "" || s.SecretKey == "" {
		missing = append(missing, "credentials")
	}
	if len(missing) > 0 {
		return fmt.Errorf("publish settings incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// ObjectStore is the subset of *minio.Client used for publishing.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// File is a generated artifact to upload.
type File struct {
	// Name is the key relative to the configured prefix.
	Name    string
	Content []byte
}

// Publisher uploads files into a single bucket.
type Publisher struct {
	store    ObjectStore
	settings Settings
}

// New connects to the endpoint described by s.
func New(s Settings) (*Publisher, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(s.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure: s.UseSSL,
		Region: s.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3-compatible client: %w", err)
	}
	return NewWithStore(client, s), nil
}

// NewWithStore creates a Publisher over an existing store.
func NewWithStore(store ObjectStore, s Settings) *Publisher {
	return &Publisher{store: store, settings: s}
}

// Key returns the object key for a file name.
func (p *Publisher) Key(name string) string {
	name = filepath.ToSlash(name)
	if p.settings.Prefix == "" {
		return strings.TrimPrefix(path.Clean(name), "/")
	}
	return path.Join(p.settings.Prefix, name)
}

// Publish creates the bucket if needed and uploads every file. It returns
// the keys written, stopping at the first failure.
func (p *Publisher) Publish(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, errors.New("nothing to publish")
	}

	bucket := p.settings.Bucket
	exists, err := p.store.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("creating bucket", "bucket", bucket)
		if err := p.store.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: p.settings.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		key := p.Key(f.Name)
		_, err := p.store.PutObject(ctx, bucket, key, bytes.NewReader(f.Content), int64(len(f.Content)), minio.PutObjectOptions{
			ContentType:  ContentType(f.Name),
			CacheControl: "no-cache",
		})
		if err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", key, err)
		}
		log.Debug("uploaded object", "bucket", bucket, "key", key, "bytes", len(f.Content))
		keys = append(keys, key)
	}
	return keys, nil
}

var contentTypes = map[string]string{
	".svg":  "image/svg+xml",
	".html": "text/html; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
}

// ContentType picks the MIME type for a generated file.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
