// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/rlstats/frameseries/internal/session"
)

// Backend is the interface all storage implementations must satisfy.
// A backend receives the finished series of a session exactly once.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	Save(ctx context.Context, res *session.Result) error
}

// Exporter is an optional interface for storage backends that produce a
// file per session.
type Exporter interface {
	ExportedFilePath() string
}
