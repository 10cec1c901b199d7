package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps attachment objects on the local filesystem under a root
// directory and serves them through the API's /files route.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates a LocalStore rooted at dir. Objects get public URLs of
// the form <baseURL>/files/<path>.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStore{
		root:    dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Root returns the storage root directory, for mounting as a static route.
func (s *LocalStore) Root() string {
	return s.root
}

// objectPath resolves a storage key to an absolute path. The key is rooted
// before cleaning, so ".." segments cannot climb out of the storage root.
func (s *LocalStore) objectPath(path string) (string, error) {
	cleaned := filepath.Clean("/" + path)
	full := filepath.Join(s.root, cleaned)
	root := filepath.Clean(s.root)
	if full != root && !strings.HasPrefix(full, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return full, nil
}

// Upload writes an object under path, creating parent directories as needed.
func (s *LocalStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	full, err := s.objectPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// PublicURL returns the URL the object is served from.
func (s *LocalStore) PublicURL(path string) string {
	return s.baseURL + "/files/" + path
}

// ListPrefix returns the storage keys of all objects under prefix.
func (s *LocalStore) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	dir, err := s.objectPath(prefix)
	if err != nil {
		return nil, err
	}

	var keys []string
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, p)
		if relErr != nil {
			return relErr
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
	}
	return keys, nil
}

// Remove deletes the given objects. Missing objects are ignored.
func (s *LocalStore) Remove(ctx context.Context, paths []string) error {
	for _, p := range paths {
		full, err := s.objectPath(p)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove object %s: %w", p, err)
		}
	}
	return nil
}
