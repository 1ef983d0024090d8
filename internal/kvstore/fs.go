package kvstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// FSStore keeps one file per key under a base directory.
type FSStore struct {
	basePath string
}

// NewFSStore constructs a store rooted at basePath, creating it when missing.
func NewFSStore(basePath string) (*FSStore, error) {
	if basePath == "" {
		return nil, errors.New("kvstore: fs base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{basePath: basePath}, nil
}

// BasePath exposes the store root path.
func (s *FSStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

func (s *FSStore) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("kvstore: key required")
	}
	return filepath.Join(s.basePath, url.PathEscape(key)+".json"), nil
}

func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Set writes through a temp file and rename so readers never see a partial value.
func (s *FSStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.path(key)
	if err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, value) {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("kvstore: commit %s: %w", key, err)
	}
	return nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FSStore) Close() error { return nil }
