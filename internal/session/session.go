package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rlstats/frameseries/internal/cache"
	"github.com/rlstats/frameseries/internal/dispatcher"
	"github.com/rlstats/frameseries/internal/mechanics"
	"github.com/rlstats/frameseries/internal/series"
	"github.com/rlstats/frameseries/pkg/core"
)

// Meta describes one aggregation pass.
type Meta struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"startTime"`
	FrameCount int       `json:"frameCount"`
}

// Result is what a finished session hands to storage.
type Result struct {
	Meta       Meta
	FrameTimes []float32
	Series     *series.Collection
}

// Options configures a new Session.
type Options struct {
	Name       string
	FrameCount int
	Logger     *slog.Logger
	// LogUpdates adds per update debug logging to every handler.
	LogUpdates bool
}

// Session owns everything shared by the mechanic handlers of one replay:
// the identity cache they read and the series collection they write.
// It is driven from a single goroutine.
type Session struct {
	meta       Meta
	logger     *slog.Logger
	identities *cache.Identities
	series     *series.Collection
	dispatcher *dispatcher.Dispatcher
	frameTimes []float32
	frames     cache.SafeCounter
}

// New creates a Session with a handler registered for every mechanic.
func New(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		meta: Meta{
			ID:         uuid.New(),
			Name:       opts.Name,
			StartTime:  time.Now().UTC(),
			FrameCount: opts.FrameCount,
		},
		logger:     logger,
		identities: cache.NewIdentities(),
		series:     series.NewCollection(),
	}

	d, err := dispatcher.New(logger)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}
	var regOpts []dispatcher.Option
	if opts.LogUpdates {
		regOpts = append(regOpts, dispatcher.Logged())
	}
	for _, h := range mechanics.All(s.identities, s.series, opts.FrameCount) {
		d.Register(h, regOpts...)
	}
	s.dispatcher = d

	return s, nil
}

// Meta returns the session metadata.
func (s *Session) Meta() Meta {
	return s.meta
}

// Identities returns the identity cache the handlers resolve players with.
func (s *Session) Identities() *cache.Identities {
	return s.identities
}

// Series returns the series collection the handlers write to.
func (s *Session) Series() *series.Collection {
	return s.series
}

// FramesProcessed returns how many frames went through ProcessFrame.
func (s *Session) FramesProcessed() int {
	return s.frames.Value()
}

// ProcessFrame applies the frame's identity changes and then hands every
// actor update to the handlers of its class, in order. An error means the
// identity cache is inconsistent and the session's output is unusable.
func (s *Session) ProcessFrame(f core.Frame) error {
	if !f.Links.Empty() {
		s.identities.Apply(f.Links)
	}
	s.recordTime(f.Index, f.Time)

	for _, u := range f.Updates {
		if err := s.dispatcher.Dispatch(u, f.Index, f.Time, f.Delta); err != nil {
			return err
		}
	}
	s.frames.Inc()
	return nil
}

func (s *Session) recordTime(frame int, t float32) {
	if frame < 0 {
		return
	}
	for len(s.frameTimes) <= frame {
		s.frameTimes = append(s.frameTimes, 0)
	}
	s.frameTimes[frame] = t
}

// Run processes frames in order, checking ctx between frames.
func (s *Session) Run(ctx context.Context, frames []core.Frame) error {
	start := time.Now()
	s.logger.Info("Processing replay", "session", s.meta.ID, "name", s.meta.Name, "frames", len(frames))

	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.ProcessFrame(f); err != nil {
			s.logger.Error("Aggregation aborted", "session", s.meta.ID, "frame", f.Index, "error", err)
			return err
		}
	}

	s.logger.Info("Replay processed",
		"session", s.meta.ID,
		"duration", time.Since(start),
		"dodgePlayers", s.series.Dodge.Len(),
		"doubleJumpPlayers", s.series.DoubleJump.Len(),
		"flipCarPlayers", s.series.FlipCar.Len(),
		"jumpPlayers", s.series.Jump.Len(),
	)
	return nil
}

// Result hands off the collected series. The session must not process
// further frames afterwards.
func (s *Session) Result() *Result {
	return &Result{
		Meta:       s.meta,
		FrameTimes: s.frameTimes,
		Series:     s.series,
	}
}
