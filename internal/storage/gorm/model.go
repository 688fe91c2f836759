package gormstorage

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// Models lists every table AutoMigrate creates.
var Models = []interface{}{
	&Session{},
	&MechanicSample{},
}

// Session is one processed replay.
type Session struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	Name       string         `json:"name" gorm:"size:255"`
	StartTime  time.Time      `json:"startTime" gorm:"index:idx_session_start_time"`
	FrameCount int            `json:"frameCount"`
	FrameTimes datatypes.JSON `json:"frameTimes"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (*Session) TableName() string {
	return "sessions"
}

// MechanicSample is one snapshot of one mechanic for one player at one frame.
// Absent values are stored as NULL.
type MechanicSample struct {
	ID        uint            `json:"id" gorm:"primarykey;autoIncrement"`
	SessionID string          `json:"sessionId" gorm:"size:36;index:idx_sample_session_mechanic_player,priority:1"`
	Session   Session         `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:SessionID"`
	Mechanic  string          `json:"mechanic" gorm:"size:32;index:idx_sample_session_mechanic_player,priority:2"`
	Player    string          `json:"player" gorm:"size:127;index:idx_sample_session_mechanic_player,priority:3"`
	Frame     int             `json:"frame"`
	Active    sql.NullBool    `json:"active"`
	TorqueX   sql.NullFloat64 `json:"torqueX"`
	TorqueY   sql.NullFloat64 `json:"torqueY"`
	TorqueZ   sql.NullFloat64 `json:"torqueZ"`
}

func (*MechanicSample) TableName() string {
	return "mechanic_samples"
}
