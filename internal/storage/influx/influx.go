// Package influx implements the storage.Backend interface on InfluxDB 2.
// Every sample becomes one point in the measurement named after its mechanic.
package influx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/rlstats/frameseries/internal/config"
	"github.com/rlstats/frameseries/internal/series"
	"github.com/rlstats/frameseries/internal/session"
)

const batchSize = 2500

// Backend writes samples with the blocking write API.
type Backend struct {
	cfg    config.InfluxConfig
	log    *slog.Logger
	client influxdb2.Client
	writer influxdb2_api.WriteAPIBlocking
}

// New creates an InfluxDB backend. No connection is made until Init.
func New(cfg config.InfluxConfig, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{cfg: cfg, log: log}
}

// Init creates the client and checks the server is reachable.
func (b *Backend) Init() error {
	if b.cfg.URL == "" {
		return errors.New("influx url not set")
	}
	b.client = influxdb2.NewClientWithOptions(b.cfg.URL, b.cfg.Token,
		influxdb2.DefaultOptions().SetBatchSize(batchSize),
	)

	running, err := b.client.Ping(context.Background())
	if err != nil || !running {
		b.client.Close()
		b.client = nil
		return fmt.Errorf("influxdb not reachable at %s: %v", b.cfg.URL, err)
	}

	b.writer = b.client.WriteAPIBlocking(b.cfg.Org, b.cfg.Bucket)
	b.log.Info("InfluxDB client initialized", "url", b.cfg.URL, "org", b.cfg.Org, "bucket", b.cfg.Bucket)
	return nil
}

// Close closes the client.
func (b *Backend) Close() error {
	if b.client != nil {
		b.client.Close()
	}
	return nil
}

// Save writes every sample of res in batches.
func (b *Backend) Save(ctx context.Context, res *session.Result) error {
	if res == nil {
		return errors.New("nil session result")
	}
	if b.writer == nil {
		return errors.New("influx backend not initialized")
	}

	rows := res.Series.Rows()
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		points := make([]*influxdb2_write.Point, 0, end-start)
		for _, r := range rows[start:end] {
			points = append(points, RowToPoint(res, r))
		}
		if err := b.writer.WritePoint(ctx, points...); err != nil {
			return fmt.Errorf("error writing to InfluxDB: %w", err)
		}
	}

	b.log.Info("Session written to InfluxDB", "session", res.Meta.ID, "points", len(rows))
	return nil
}

// RowToPoint converts one sample to a point. The timestamp is the session
// start plus the frame's replay time.
func RowToPoint(res *session.Result, r series.Row) *influxdb2_write.Point {
	fields := map[string]interface{}{
		"frame": r.Frame,
	}
	if v, ok := r.Sample.Active.Get(); ok {
		fields["active"] = v
	}
	if v, ok := r.Sample.TorqueX.Get(); ok {
		fields["torqueX"] = v
	}
	if v, ok := r.Sample.TorqueY.Get(); ok {
		fields["torqueY"] = v
	}
	if v, ok := r.Sample.TorqueZ.Get(); ok {
		fields["torqueZ"] = v
	}

	return influxdb2.NewPoint(
		string(r.Mechanic),
		map[string]string{
			"player":  r.Player.String(),
			"session": res.Meta.ID.String(),
		},
		fields,
		frameTime(res, r.Frame),
	)
}

func frameTime(res *session.Result, frame int) time.Time {
	if frame < 0 || frame >= len(res.FrameTimes) {
		return res.Meta.StartTime
	}
	offset := time.Duration(float64(res.FrameTimes[frame]) * float64(time.Second))
	return res.Meta.StartTime.Add(offset)
}
