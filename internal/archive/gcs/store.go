// Package gcs provides an archive store backed by Google Cloud Storage.
package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/harborlight/ipsearch/internal/archive"
	"github.com/harborlight/ipsearch/internal/hash/sha256"
)

// Config captures the parameters required to connect to GCS.
type Config struct {
	Bucket string `mapstructure:"bucket"`
}

// Store writes payloads to a configured GCS bucket.
type Store struct {
	client *storage.Client
	bucket string
}

// New creates a GCS-backed store.
func New(client *storage.Client, cfg Config) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads the payload to the configured bucket and returns a gs:// link.
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (archive.Entry, error) {
	if strings.TrimSpace(key) == "" {
		return archive.Entry{}, fmt.Errorf("key is required")
	}

	writer := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		if closeErr := writer.Close(); closeErr != nil {
			return archive.Entry{}, fmt.Errorf("copy object: %w (close writer: %v)", err, closeErr)
		}
		return archive.Entry{}, fmt.Errorf("copy object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return archive.Entry{}, fmt.Errorf("close writer: %w", err)
	}

	return archive.Entry{
		Link:        fmt.Sprintf("gs://%s/%s", s.bucket, key),
		Hash:        sha256.Fingerprint(data),
		ContentType: contentType,
		Bytes:       len(data),
	}, nil
}

// Close releases the storage client.
func (s *Store) Close() error {
	return s.client.Close()
}
