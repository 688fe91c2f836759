package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rlstats/frameseries/pkg/core"
)

func TestActiveFlag_Parity(t *testing.T) {
	tests := []struct {
		name string
		b    core.Byte
		want bool
	}{
		{"zero", 0, false},
		{"one", 1, true},
		{"three", 3, true},
		{"four", 4, false},
		{"max", 255, true},
		{"254", 254, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveFlag(core.Attributes{core.AttrReplicatedActive: tt.b})
			assert.Equal(t, core.Some(tt.want), got)
		})
	}
}

func TestActiveFlag_AllBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		got := ActiveFlag(core.Attributes{core.AttrReplicatedActive: core.Byte(b)})
		assert.True(t, got.Valid)
		assert.Equal(t, b%2 == 1, got.Value, "byte %d", b)
	}
}

func TestActiveFlag_AbsentOrMistagged(t *testing.T) {
	tests := []struct {
		name  string
		attrs core.Attributes
	}{
		{"nil attributes", nil},
		{"missing", core.Attributes{"Engine.Actor:bHidden": core.Boolean(true)}},
		{"boolean tag", core.Attributes{core.AttrReplicatedActive: core.Boolean(true)}},
		{"int tag", core.Attributes{core.AttrReplicatedActive: core.Int(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, ActiveFlag(tt.attrs).Valid)
		})
	}
}

func TestTorque_Present(t *testing.T) {
	attrs := core.Attributes{
		core.AttrDodgeTorque: core.Location{X: 1.5, Y: -2.0, Z: 0.0},
	}

	x, y, z := Torque(attrs)
	assert.Equal(t, core.Some[float32](1.5), x)
	assert.Equal(t, core.Some[float32](-2.0), y)
	assert.Equal(t, core.Some[float32](0.0), z)
}

func TestTorque_Mistagged(t *testing.T) {
	attrs := core.Attributes{core.AttrDodgeTorque: core.Float(1.5)}

	x, y, z := Torque(attrs)
	assert.False(t, x.Valid)
	assert.False(t, y.Valid)
	assert.False(t, z.Valid)
}

func TestDodge_TorqueAbsentKeepsFlag(t *testing.T) {
	got := Dodge(core.Attributes{core.AttrReplicatedActive: core.Byte(3)})

	assert.Equal(t, core.Dodge{Active: core.Some(true)}, got)
}

func TestDodge_Empty(t *testing.T) {
	assert.Equal(t, core.Dodge{}, Dodge(core.Attributes{}))
}

func TestDoubleJump_ReadsDodgeTorque(t *testing.T) {
	attrs := core.Attributes{
		core.AttrReplicatedActive: core.Byte(2),
		core.AttrDodgeTorque:      core.Location{X: 0, Y: 0, Z: 1},
	}

	want := core.DoubleJump{
		Active:  core.Some(false),
		TorqueX: core.Some[float32](0),
		TorqueY: core.Some[float32](0),
		TorqueZ: core.Some[float32](1),
	}
	assert.Equal(t, want, DoubleJump(attrs))
}

func TestFlipCarAndJump_IgnoreTorque(t *testing.T) {
	attrs := core.Attributes{
		core.AttrReplicatedActive: core.Byte(5),
		core.AttrDodgeTorque:      core.Location{X: 1, Y: 1, Z: 1},
	}

	assert.Equal(t, core.FlipCar{Active: core.Some(true)}, FlipCar(attrs))
	assert.Equal(t, core.Jump{Active: core.Some(true)}, Jump(attrs))
}

func TestVehicle(t *testing.T) {
	id, ok := Vehicle(core.Attributes{core.AttrVehicle: core.ActiveActor{Active: true, Actor: 12}})
	assert.True(t, ok)
	assert.Equal(t, core.ActorID(12), id)

	_, ok = Vehicle(core.Attributes{core.AttrVehicle: core.Int(12)})
	assert.False(t, ok)

	_, ok = Vehicle(core.Attributes{})
	assert.False(t, ok)
}
