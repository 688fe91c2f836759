// internal/storage/memory/memory_test.go
package memory

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlstats/frameseries/internal/config"
	"github.com/rlstats/frameseries/internal/session"
	"github.com/rlstats/frameseries/internal/storage"
	"github.com/rlstats/frameseries/pkg/core"
)

// Verify Backend implements storage.Backend interface
var _ storage.Backend = (*Backend)(nil)

// Verify Backend implements storage.Exporter interface
var _ storage.Exporter = (*Backend)(nil)

var player = core.PlayerID{Platform: "steam", ID: "765"}

func newResult(t *testing.T) *session.Result {
	t.Helper()
	s, err := session.New(session.Options{Name: "Test Replay: 1", FrameCount: 3})
	require.NoError(t, err)

	vehicle := core.ActiveActor{Active: true, Actor: 20}
	frames := []core.Frame{
		{
			Index: 0, Time: 0,
			Links: core.Links{
				Players: map[core.ActorID]core.PlayerID{5: player},
				Cars:    map[core.ActorID]core.ActorID{20: 5},
			},
			Updates: []core.ActorUpdate{{Actor: 60, Object: core.ObjectJump, Attributes: core.Attributes{
				core.AttrVehicle:          vehicle,
				core.AttrReplicatedActive: core.Byte(1),
			}}},
		},
		{
			Index: 2, Time: 0.066,
			Updates: []core.ActorUpdate{{Actor: 61, Object: core.ObjectDodge, Attributes: core.Attributes{
				core.AttrVehicle:          vehicle,
				core.AttrReplicatedActive: core.Byte(2),
				core.AttrDodgeTorque:      core.Location{X: 0, Y: 0, Z: 1},
			}}},
		},
	}
	require.NoError(t, s.Run(context.Background(), frames))
	return s.Result()
}

func TestNew(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: "/tmp/test", CompressOutput: true})

	require.NotNil(t, b)
	assert.Equal(t, "/tmp/test", b.cfg.OutputDir)
	assert.True(t, b.cfg.CompressOutput)
}

func TestInitAndClose(t *testing.T) {
	b := New(config.MemoryConfig{})

	assert.NoError(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestSave_KeepsResultWithoutOutputDir(t *testing.T) {
	b := New(config.MemoryConfig{})
	res := newResult(t)

	require.NoError(t, b.Save(context.Background(), res))

	got, ok := b.Last()
	require.True(t, ok)
	assert.Same(t, res, got)
	assert.Empty(t, b.ExportedFilePath())
}

func TestSave_NilResult(t *testing.T) {
	b := New(config.MemoryConfig{})
	assert.Error(t, b.Save(context.Background(), nil))
}

func TestSave_ExportsJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir})

	require.NoError(t, b.Save(context.Background(), newResult(t)))

	path := b.ExportedFilePath()
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "Test_Replay__1_"))
	assert.True(t, strings.HasSuffix(path, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Export
	require.NoError(t, json.Unmarshal(data, &got))
	assertExport(t, got)
	assert.Contains(t, string(data), `"steam:765":{"0":{"active":true}}`)
}

func TestSave_ExportsGzipJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})

	require.NoError(t, b.Save(context.Background(), newResult(t)))

	path := b.ExportedFilePath()
	require.True(t, strings.HasSuffix(path, ".json.gz"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var got Export
	require.NoError(t, json.NewDecoder(gz).Decode(&got))
	assertExport(t, got)
}

func TestSave_ExportStaysInOutputDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")
	b := New(config.MemoryConfig{OutputDir: dir})

	res := newResult(t)
	res.Meta.Name = "../../escaped"
	require.NoError(t, b.Save(context.Background(), res))

	path := b.ExportedFilePath()
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "escaped_"))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Name())
}

func TestFileName(t *testing.T) {
	meta := session.Meta{ID: uuid.MustParse("6f1c2a4e-0000-4000-8000-000000000001")}
	id := meta.ID.String()

	tests := []struct {
		name string
		want string
	}{
		{"Test Replay: 1", "Test_Replay__1"},
		{"../../escaped", "escaped"},
		{`..\..\escaped`, "escaped"},
		{"/etc/passwd", "passwd"},
		{"a/../..", id},
		{"..", id},
		{".", id},
		{"/", id},
		{"", id},
		{"..hidden", "_hidden"},
		{" : ", id},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta.Name = tt.name
			got := fileName(meta)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, filepath.Base(got))
		})
	}
}

func assertExport(t *testing.T, got Export) {
	t.Helper()

	assert.Equal(t, "Test Replay: 1", got.Session.Name)
	assert.Equal(t, 3, got.Session.FrameCount)
	assert.Equal(t, []float32{0, 0, 0.066}, got.FrameTimes)

	require.Contains(t, got.Jump, player)
	assert.Equal(t, map[int]core.Jump{0: {Active: core.Some(true)}}, got.Jump[player])

	require.Contains(t, got.Dodge, player)
	assert.Equal(t, map[int]core.Dodge{2: {
		Active:  core.Some(false),
		TorqueX: core.Some[float32](0),
		TorqueY: core.Some[float32](0),
		TorqueZ: core.Some[float32](1),
	}}, got.Dodge[player])

	assert.Empty(t, got.DoubleJump)
	assert.Empty(t, got.FlipCar)
}
