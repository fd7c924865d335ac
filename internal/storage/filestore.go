// Package storage owns durable storage of uploaded PDF files. Documents
// reference files by a stable "/uploads/..." path; the backing object
// store is hidden behind FileStore so services and tests never touch
// MinIO directly.
package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
)

// PathPrefix is the public path prefix under which stored files are
// referenced and served.
const PathPrefix = "/uploads/"

// FileStore is the durable store for uploaded files.
type FileStore interface {
	// Save stores the content and returns the public path reference.
	Save(ctx context.Context, name, contentType string, content []byte) (string, error)
	// Open streams a stored file back by its public path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Remove deletes a stored file by its public path. Removing a
	// missing file is not an error.
	Remove(ctx context.Context, path string) error
	// RemoveAll wipes every stored file. Used by the account-wipe flow.
	RemoveAll(ctx context.Context) error
}

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether content starts with the PDF magic bytes. The
// client-sent content type is not trusted.
func IsPDF(content []byte) bool {
	return len(content) >= len(pdfMagic) && bytes.Equal(content[:len(pdfMagic)], pdfMagic)
}

// ObjectName maps a public "/uploads/..." path to the object key inside
// the store, rejecting anything outside the prefix or containing a
// traversal segment.
func ObjectName(path string) (string, bool) {
	if !strings.HasPrefix(path, PathPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(path, PathPrefix)
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return "", false
	}
	return name, true
}
