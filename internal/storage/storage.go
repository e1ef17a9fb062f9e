// Package storage persists the PDF documents attached to client records.
// A document is addressed by the owning client's id and stored as "{id}.pdf".
package storage

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gazer/client-registry/internal/constants"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore is implemented by the local filesystem and S3 backends.
type DocumentStore interface {
	// Put writes the document for id, replacing any existing one.
	Put(ctx context.Context, id uint64, r io.Reader) error

	// Open returns the document content and its size in bytes.
	// The caller must close the reader. Missing documents yield ErrDocumentNotFound.
	Open(ctx context.Context, id uint64) (io.ReadCloser, int64, error)

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id uint64) error

	// Exists reports whether a document is stored for id.
	Exists(ctx context.Context, id uint64) (bool, error)
}

// Name returns the file name of the document for a client id.
func Name(id uint64) string {
	return strconv.FormatUint(id, 10) + constants.DocumentExtension
}
