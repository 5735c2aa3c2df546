package storage

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStorage abstracts the object store behind upload/download/delete.
// Keys are opaque relative paths chosen by the storage implementation.
type FileStorage interface {
	// Save stores data and returns the object key.
	Save(ctx context.Context, filename string, data []byte) (string, error)
	// Load returns the content stored under key.
	Load(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// objectKey derives a collision-free key under prefix. The original
// filename survives only as an extension hint.
func objectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext
	if prefix == "" {
		return name
	}
	return fmt.Sprintf("%s/%s", strings.Trim(prefix, "/"), name)
}

// ContentTypeFor returns the MIME type for a filename, defaulting to
// application/octet-stream.
func ContentTypeFor(filename string) string {
	ct := mime.TypeByExtension(filepath.Ext(filename))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
