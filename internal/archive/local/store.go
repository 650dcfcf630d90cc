// Package local implements a local filesystem archive store.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborlight/ipsearch/internal/archive"
	"github.com/harborlight/ipsearch/internal/hash/sha256"
)

// Config captures the parameters for the local filesystem store.
type Config struct {
	// BaseDir is the root directory where payloads will be stored.
	BaseDir string `mapstructure:"base_dir"`
}

// Store writes payloads to the local filesystem.
type Store struct {
	baseDir string
}

// New creates a local filesystem-backed store. The base directory is created
// if missing and probed for writability so misconfiguration fails at startup.
func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	info, err := os.Stat(cfg.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
				return nil, fmt.Errorf("create base directory: %w", mkErr)
			}
		} else {
			return nil, fmt.Errorf("stat base directory: %w", err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("base directory path is not a directory")
	}

	testFile := filepath.Join(cfg.BaseDir, ".writable_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("base directory is not writable: %w", err)
	}
	if err := os.Remove(testFile); err != nil {
		return nil, fmt.Errorf("clean up probe file: %w", err)
	}

	return &Store{baseDir: cfg.BaseDir}, nil
}

// Put writes the payload to a file under the base directory and returns a
// file:// link.
func (s *Store) Put(_ context.Context, key, contentType string, data []byte) (archive.Entry, error) {
	if strings.TrimSpace(key) == "" {
		return archive.Entry{}, fmt.Errorf("key is required")
	}

	fullPath := filepath.Join(s.baseDir, key)

	// Reject keys that escape the base directory.
	cleanBase := filepath.Clean(s.baseDir)
	cleanFull := filepath.Clean(fullPath)
	if !strings.HasPrefix(cleanFull, cleanBase+string(filepath.Separator)) {
		return archive.Entry{}, fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return archive.Entry{}, fmt.Errorf("create parent directories: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return archive.Entry{}, fmt.Errorf("write payload: %w", err)
	}

	return archive.Entry{
		Link:        fmt.Sprintf("file://%s", fullPath),
		Hash:        sha256.Fingerprint(data),
		ContentType: contentType,
		Bytes:       len(data),
	}, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
