package gormstorage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rlstats/frameseries/internal/series"
	"github.com/rlstats/frameseries/internal/session"
	"github.com/rlstats/frameseries/pkg/core"
	"gorm.io/datatypes"
)

// SessionToRecord converts session metadata to its table row.
func SessionToRecord(res *session.Result) (Session, error) {
	times, err := json.Marshal(res.FrameTimes)
	if err != nil {
		return Session{}, fmt.Errorf("failed to encode frame times: %w", err)
	}
	return Session{
		ID:         res.Meta.ID.String(),
		Name:       res.Meta.Name,
		StartTime:  res.Meta.StartTime,
		FrameCount: res.Meta.FrameCount,
		FrameTimes: datatypes.JSON(times),
	}, nil
}

// RowToSample converts one flattened series row to its table row.
func RowToSample(sessionID string, r series.Row) MechanicSample {
	return MechanicSample{
		SessionID: sessionID,
		Mechanic:  string(r.Mechanic),
		Player:    r.Player.String(),
		Frame:     r.Frame,
		Active:    nullBool(r.Sample.Active),
		TorqueX:   nullFloat(r.Sample.TorqueX),
		TorqueY:   nullFloat(r.Sample.TorqueY),
		TorqueZ:   nullFloat(r.Sample.TorqueZ),
	}
}

// SampleToRow is the inverse of RowToSample.
func SampleToRow(s MechanicSample) (series.Row, error) {
	player, err := core.ParsePlayerID(s.Player)
	if err != nil {
		return series.Row{}, err
	}
	return series.Row{
		Mechanic: core.Mechanic(s.Mechanic),
		Player:   player,
		Frame:    s.Frame,
		Sample: core.Sample{
			Active:  optBool(s.Active),
			TorqueX: optFloat(s.TorqueX),
			TorqueY: optFloat(s.TorqueY),
			TorqueZ: optFloat(s.TorqueZ),
		},
	}, nil
}

func nullBool(o core.Opt[bool]) sql.NullBool {
	return sql.NullBool{Bool: o.Value, Valid: o.Valid}
}

func nullFloat(o core.Opt[float32]) sql.NullFloat64 {
	return sql.NullFloat64{Float64: float64(o.Value), Valid: o.Valid}
}

func optBool(n sql.NullBool) core.Opt[bool] {
	if !n.Valid {
		return core.None[bool]()
	}
	return core.Some(n.Bool)
}

func optFloat(n sql.NullFloat64) core.Opt[float32] {
	if !n.Valid {
		return core.None[float32]()
	}
	return core.Some(float32(n.Float64))
}
