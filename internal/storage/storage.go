// Package storage abstracts the attachment object store behind the handful of
// operations the dashboard needs: upload, public URL, list-by-prefix, remove.
package storage

import "context"

// ObjectStore is the attachment storage provider.
type ObjectStore interface {
	// Upload writes an object under path and returns nothing; the path is the
	// full storage key including any task prefix.
	Upload(ctx context.Context, path string, data []byte, contentType string) error

	// PublicURL returns a URL from which the object can be fetched.
	PublicURL(path string) string

	// ListPrefix returns the storage keys of all objects under prefix.
	ListPrefix(ctx context.Context, prefix string) ([]string, error)

	// Remove deletes the given objects. Missing objects are not an error.
	Remove(ctx context.Context, paths []string) error
}
