package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
)

// BlobStore keeps uploaded files such as avatars.
type BlobStore interface {
	// Upload stores r under key and returns a URL clients can fetch it from.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// GCSBlobStore writes to a Cloud Storage bucket, normally the Firebase one.
type GCSBlobStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCSBlobStore(bucket *storage.BucketHandle, bucketName string) *GCSBlobStore {
	return &GCSBlobStore{bucket: bucket, bucketName: bucketName}
}

func (s *GCSBlobStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, key), nil
}

func (s *GCSBlobStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// LocalBlobStore writes files below a directory that the server exposes
// under BaseURL.
type LocalBlobStore struct {
	Dir     string
	BaseURL string
}

func (s *LocalBlobStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + key, nil
}

func (s *LocalBlobStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *LocalBlobStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.Dir, clean), nil
}
