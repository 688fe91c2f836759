// Package gormstorage implements storage.Backend on top of GORM. The SQLite
// and Postgres backends embed it and only differ in how the DB is opened.
package gormstorage

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rlstats/frameseries/internal/series"
	"github.com/rlstats/frameseries/internal/session"
	"github.com/rlstats/frameseries/pkg/core"

	"gorm.io/gorm"
)

const defaultBatchSize = 2000

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB        *gorm.DB
	Logger    *slog.Logger
	BatchSize int
}

// Backend writes sessions and their samples with batched inserts.
type Backend struct {
	deps Dependencies
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.BatchSize <= 0 {
		deps.BatchSize = defaultBatchSize
	}
	return &Backend{deps: deps}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init runs schema migration.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm backend has no database")
	}
	b.deps.Logger.Info("Migrating schema", "dialect", b.deps.DB.Dialector.Name())
	if err := b.deps.DB.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying sql.DB.
func (b *Backend) Close() error {
	if b.deps.DB == nil {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// Save writes the session row and every sample in one transaction.
func (b *Backend) Save(ctx context.Context, res *session.Result) error {
	if res == nil {
		return errors.New("nil session result")
	}

	rec, err := SessionToRecord(res)
	if err != nil {
		return err
	}
	rows := res.Series.Rows()
	samples := make([]MechanicSample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, RowToSample(rec.ID, r))
	}

	start := time.Now()
	err = b.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		if len(samples) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(samples, b.deps.BatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert samples: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.deps.Logger.Info("Session saved",
		"session", rec.ID,
		"samples", len(samples),
		"duration", time.Since(start),
	)
	return nil
}

// Rows reads back every sample stored for a session, ordered the same way
// series.Collection.Rows orders them. Ordering happens here rather than in
// SQL since text collation differs between databases.
func (b *Backend) Rows(ctx context.Context, sessionID string) ([]series.Row, error) {
	var samples []MechanicSample
	err := b.deps.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&samples).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	slices.SortFunc(samples, compareSamples)

	rows := make([]series.Row, 0, len(samples))
	for _, s := range samples {
		r, err := SampleToRow(s)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// compareSamples orders by mechanic report order, then by the byte order of
// the player string, then by frame.
func compareSamples(a, b MechanicSample) int {
	return cmp.Or(
		cmp.Compare(mechanicRank(a.Mechanic), mechanicRank(b.Mechanic)),
		strings.Compare(a.Mechanic, b.Mechanic),
		strings.Compare(a.Player, b.Player),
		cmp.Compare(a.Frame, b.Frame),
	)
}

func mechanicRank(m string) int {
	return slices.Index(core.Mechanics, core.Mechanic(m))
}
