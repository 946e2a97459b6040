// Package storage keeps uploaded media bytes outside the database.
package storage

import (
	"context"
	"io"
)

// Storage saves blobs and hands back an opaque id to read them again.
type Storage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, storageID string) (io.ReadCloser, error)
}
