package dispatcher

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rlstats/frameseries/internal/mechanics"
	"github.com/rlstats/frameseries/pkg/core"
)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

type route struct {
	handlers []mechanics.ActorHandler
	attrs    metric.MeasurementOption
}

// Dispatcher routes actor updates to the handlers registered for the
// actor's object class. Handlers run synchronously in registration order.
type Dispatcher struct {
	routes map[string]*route
	logger Logger

	// OTEL metrics
	processed metric.Int64Counter
	ignored   metric.Int64Counter
	failed    metric.Int64Counter
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		routes: make(map[string]*route),
		logger: logger,
	}

	m := meter()

	var err error

	d.processed, err = m.Int64Counter(
		"dispatcher.updates.processed",
		metric.WithDescription("Actor updates passed to a handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.ignored, err = m.Int64Counter(
		"dispatcher.updates.ignored",
		metric.WithDescription("Actor updates with no registered handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ignored counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"dispatcher.updates.failed",
		metric.WithDescription("Actor updates a handler rejected"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	return d, nil
}

// Register adds h for updates of h.Object() with optional configuration.
func (d *Dispatcher) Register(h mechanics.ActorHandler, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logged {
		h = &loggedHandler{ActorHandler: h, logger: d.logger}
	}

	r, ok := d.routes[h.Object()]
	if !ok {
		r = &route{attrs: metric.WithAttributes(attribute.String("object", h.Object()))}
		d.routes[h.Object()] = r
	}
	r.handlers = append(r.handlers, h)
}

// Dispatch passes u to every handler registered for its object class and
// stops at the first error. Updates of unregistered classes are ignored.
func (d *Dispatcher) Dispatch(u core.ActorUpdate, frame int, time, delta float32) error {
	ctx := context.Background()

	r, ok := d.routes[u.Object]
	if !ok {
		d.ignored.Add(ctx, 1)
		return nil
	}

	for _, h := range r.handlers {
		if err := h.Update(u, frame, time, delta); err != nil {
			d.failed.Add(ctx, 1, r.attrs)
			return fmt.Errorf("frame %d, actor %d: %w", frame, u.Actor, err)
		}
		d.processed.Add(ctx, 1, r.attrs)
	}
	return nil
}

// HasHandler returns true if a handler is registered for the object class.
func (d *Dispatcher) HasHandler(object string) bool {
	_, ok := d.routes[object]
	return ok
}

type loggedHandler struct {
	mechanics.ActorHandler
	logger Logger
}

func (h *loggedHandler) Update(u core.ActorUpdate, frame int, t, delta float32) error {
	start := time.Now()
	h.logger.Debug("handling update", "mechanic", h.Mechanic(), "frame", frame, "actor", u.Actor)

	err := h.ActorHandler.Update(u, frame, t, delta)

	if err != nil {
		h.logger.Error("update failed", "mechanic", h.Mechanic(), "frame", frame, "duration", time.Since(start), "error", err)
	} else {
		h.logger.Debug("update complete", "mechanic", h.Mechanic(), "frame", frame, "duration", time.Since(start))
	}

	return err
}
