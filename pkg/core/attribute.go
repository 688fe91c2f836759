// pkg/core/attribute.go
package core

// Attribute names read by the mechanic handlers. These strings come from the
// replay's class net cache and must match byte for byte.
const (
	AttrVehicle          = "TAGame.CarComponent_TA:Vehicle"
	AttrReplicatedActive = "TAGame.CarComponent_TA:ReplicatedActive"

	// DoubleJump components replicate their torque under the dodge name too.
	AttrDodgeTorque = "TAGame.CarComponent_Dodge_TA:DodgeTorque"
)

// Attribute is a tagged attribute value as produced by the replay decoder.
// Only the variants declared in this package implement it.
type Attribute interface {
	attribute()
}

// Vector3 is a three component float vector.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Byte is a single unsigned byte value.
type Byte uint8

// Location is a vector valued attribute (positions, torques).
type Location Vector3

// ActiveActor references another actor. Active is false when the reference
// has been cleared upstream.
type ActiveActor struct {
	Active bool    `json:"active"`
	Actor  ActorID `json:"actor"`
}

// Boolean is a boolean attribute.
type Boolean bool

// Int is a signed integer attribute.
type Int int32

// Float is a float attribute.
type Float float32

// String is a string attribute.
type String string

func (Byte) attribute()        {}
func (Location) attribute()    {}
func (ActiveActor) attribute() {}
func (Boolean) attribute()     {}
func (Int) attribute()         {}
func (Float) attribute()       {}
func (String) attribute()      {}

// Attributes maps attribute names to their current values on an actor.
type Attributes map[string]Attribute
