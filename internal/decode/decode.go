// Package decode turns the loosely typed attributes of a car component actor
// into mechanic snapshots. Every function here is pure and total: a missing or
// mistagged attribute yields an absent field, never an error.
package decode

import "github.com/rlstats/frameseries/pkg/core"

// Vehicle returns the car actor a component is attached to.
func Vehicle(attrs core.Attributes) (core.ActorID, bool) {
	if ref, ok := attrs[core.AttrVehicle].(core.ActiveActor); ok {
		return ref.Actor, true
	}
	return 0, false
}

// ActiveFlag reads the replicated active counter. Each activation bumps the
// counter upstream, so the component is active while the counter is odd.
func ActiveFlag(attrs core.Attributes) core.Opt[bool] {
	if b, ok := attrs[core.AttrReplicatedActive].(core.Byte); ok {
		return core.Some(b&1 != 0)
	}
	return core.None[bool]()
}

// Torque reads the dodge torque vector component wise.
func Torque(attrs core.Attributes) (x, y, z core.Opt[float32]) {
	if v, ok := attrs[core.AttrDodgeTorque].(core.Location); ok {
		return core.Some(v.X), core.Some(v.Y), core.Some(v.Z)
	}
	return
}

func Dodge(attrs core.Attributes) core.Dodge {
	x, y, z := Torque(attrs)
	return core.Dodge{
		Active:  ActiveFlag(attrs),
		TorqueX: x,
		TorqueY: y,
		TorqueZ: z,
	}
}

// DoubleJump reads the same torque attribute as Dodge.
func DoubleJump(attrs core.Attributes) core.DoubleJump {
	x, y, z := Torque(attrs)
	return core.DoubleJump{
		Active:  ActiveFlag(attrs),
		TorqueX: x,
		TorqueY: y,
		TorqueZ: z,
	}
}

func FlipCar(attrs core.Attributes) core.FlipCar {
	return core.FlipCar{Active: ActiveFlag(attrs)}
}

func Jump(attrs core.Attributes) core.Jump {
	return core.Jump{Active: ActiveFlag(attrs)}
}
