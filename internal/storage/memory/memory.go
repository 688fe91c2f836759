// internal/storage/memory/memory.go
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/rlstats/frameseries/internal/config"
	"github.com/rlstats/frameseries/internal/session"
)

// Backend keeps the last saved session in memory and exports it to JSON
// when an output directory is configured.
type Backend struct {
	cfg config.MemoryConfig

	last           *session.Result
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Save keeps res and writes the JSON export.
func (b *Backend) Save(ctx context.Context, res *session.Result) error {
	if res == nil {
		return errors.New("nil session result")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = res
	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON()
}

// Last returns the most recently saved session result.
func (b *Backend) Last() (*session.Result, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last, b.last != nil
}

// ExportedFilePath returns the path of the last export, or "" if nothing
// was written.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
