package storage

import (
	"context"
	"io"
	"time"
)

type FileStorage interface {
	// Upload stores a file and returns its storage path
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download opens a stored file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file, succeeding when it is already gone
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)

	// Prune deletes files under dir last modified before cutoff and returns how many were removed
	Prune(ctx context.Context, dir string, cutoff time.Time) (int, error)
}
