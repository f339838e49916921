package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry is how long an exercise media link stays valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage serves exercise demonstration media (images, clips) kept in
// object storage. Exercises reference their media by object key; clients
// get short-lived links and fetch the bytes straight from the bucket.
type FileStorage interface {
	// GeneratePresignedDownloadURL returns a time-limited GET link for the
	// media object stored under objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}
