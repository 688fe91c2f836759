package parser

import (
	"compress/gzip"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlstats/frameseries/pkg/core"
)

const sampleStream = `{
	"name": "kickoff",
	"frameCount": 5,
	"frames": [
		{
			"time": 0.5, "delta": 0.033,
			"links": {"players": {"5": "steam:765"}, "cars": {"20": 5}},
			"updates": [
				{"actor": 50, "object": "TAGame.CarComponent_Dodge_TA", "attributes": {
					"TAGame.CarComponent_TA:Vehicle": {"activeActor": {"active": true, "actor": 20}},
					"TAGame.CarComponent_TA:ReplicatedActive": {"byte": 3},
					"TAGame.CarComponent_Dodge_TA:DodgeTorque": {"location": {"x": 1.5, "y": -2, "z": 0}}
				}}
			]
		},
		{
			"time": 0.533, "delta": 0.033,
			"links": {"unlinkCars": [20]},
			"updates": [
				{"actor": 51, "object": "TAGame.Ball_TA", "attributes": {
					"Engine.Actor:bHidden": {"boolean": false},
					"TAGame.Ball_TA:HitTeamNum": {"int": 1},
					"TAGame.Ball_TA:Speed": {"float": 12.5},
					"Engine.Actor:Name": {"string": "ball"},
					"TAGame.Ball_TA:Unknown": {"rigidBody": {}}
				}}
			]
		}
	]
}`

func newTestParser() *Parser {
	return NewParser(slog.Default())
}

func TestNewParser(t *testing.T) {
	p := newTestParser()
	require.NotNil(t, p)
}

func TestParse_Stream(t *testing.T) {
	s, err := newTestParser().Parse(strings.NewReader(sampleStream))
	require.NoError(t, err)

	assert.Equal(t, "kickoff", s.Name)
	assert.Equal(t, 5, s.FrameCount)
	require.Len(t, s.Frames, 2)

	f0 := s.Frames[0]
	assert.Equal(t, 0, f0.Index)
	assert.Equal(t, float32(0.5), f0.Time)
	assert.Equal(t, float32(0.033), f0.Delta)
	assert.Equal(t, map[core.ActorID]core.PlayerID{5: {Platform: "steam", ID: "765"}}, f0.Links.Players)
	assert.Equal(t, map[core.ActorID]core.ActorID{20: 5}, f0.Links.Cars)

	require.Len(t, f0.Updates, 1)
	u := f0.Updates[0]
	assert.Equal(t, core.ActorID(50), u.Actor)
	assert.Equal(t, core.ObjectDodge, u.Object)
	assert.Equal(t, core.ActiveActor{Active: true, Actor: 20}, u.Attributes[core.AttrVehicle])
	assert.Equal(t, core.Byte(3), u.Attributes[core.AttrReplicatedActive])
	assert.Equal(t, core.Location{X: 1.5, Y: -2, Z: 0}, u.Attributes[core.AttrDodgeTorque])

	f1 := s.Frames[1]
	assert.Equal(t, 1, f1.Index)
	assert.Equal(t, []core.ActorID{20}, f1.Links.UnlinkCars)
	attrs := f1.Updates[0].Attributes
	assert.Equal(t, core.Boolean(false), attrs["Engine.Actor:bHidden"])
	assert.Equal(t, core.Int(1), attrs["TAGame.Ball_TA:HitTeamNum"])
	assert.Equal(t, core.Float(12.5), attrs["TAGame.Ball_TA:Speed"])
	assert.Equal(t, core.String("ball"), attrs["Engine.Actor:Name"])
	assert.NotContains(t, attrs, "TAGame.Ball_TA:Unknown")
}

func TestParse_FrameCountIsFramesPresent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"missing", `{"frames": [{}, {}, {}]}`, 3},
		{"smaller", `{"frameCount": 1, "frames": [{}, {}]}`, 2},
		{"huge", `{"frameCount": 1000000000000000, "frames": [{"time": 0}]}`, 1},
		{"negative", `{"frameCount": -5, "frames": [{}]}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newTestParser().Parse(strings.NewReader(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.FrameCount)
			assert.Len(t, s.Frames, tt.want)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"not json", `frames`, "error decoding frame stream"},
		{"bad player id", `{"frames": [{"links": {"players": {"5": "nocolon"}}}]}`, "invalid player id"},
		{"two tags", `{"frames": [{"updates": [{"actor": 1, "attributes": {"a": {"byte": 1, "int": 1}}}]}]}`, "more than one value tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser().Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseFile_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.json.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleStream))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	s, err := newTestParser().ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, s.Frames, 2)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := newTestParser().ParseFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening frame stream")
}
