// pkg/core/mechanics.go
package core

// Mechanic names a tracked gameplay mechanic.
type Mechanic string

const (
	MechanicDodge      Mechanic = "dodge"
	MechanicDoubleJump Mechanic = "double_jump"
	MechanicFlipCar    Mechanic = "flip_car"
	MechanicJump       Mechanic = "jump"
)

// Mechanics lists every tracked mechanic in report order.
var Mechanics = []Mechanic{MechanicDodge, MechanicDoubleJump, MechanicFlipCar, MechanicJump}

// Dodge is the dodge component state of one player in one frame.
type Dodge struct {
	Active  Opt[bool]    `json:"active"`
	TorqueX Opt[float32] `json:"torqueX"`
	TorqueY Opt[float32] `json:"torqueY"`
	TorqueZ Opt[float32] `json:"torqueZ"`
}

// DoubleJump is the double jump component state of one player in one frame.
type DoubleJump struct {
	Active  Opt[bool]    `json:"active"`
	TorqueX Opt[float32] `json:"torqueX"`
	TorqueY Opt[float32] `json:"torqueY"`
	TorqueZ Opt[float32] `json:"torqueZ"`
}

// FlipCar is the flip car component state of one player in one frame.
type FlipCar struct {
	Active Opt[bool] `json:"active"`
}

// Jump is the jump component state of one player in one frame.
type Jump struct {
	Active Opt[bool] `json:"active"`
}

// Sample is the mechanic independent view of a snapshot, used by storage
// backends that write every mechanic into one table or measurement.
type Sample struct {
	Active  Opt[bool]
	TorqueX Opt[float32]
	TorqueY Opt[float32]
	TorqueZ Opt[float32]
}

func (d Dodge) Sample() Sample {
	return Sample{Active: d.Active, TorqueX: d.TorqueX, TorqueY: d.TorqueY, TorqueZ: d.TorqueZ}
}

func (d DoubleJump) Sample() Sample {
	return Sample{Active: d.Active, TorqueX: d.TorqueX, TorqueY: d.TorqueY, TorqueZ: d.TorqueZ}
}

func (f FlipCar) Sample() Sample { return Sample{Active: f.Active} }

func (j Jump) Sample() Sample { return Sample{Active: j.Active} }
