// pkg/core/actor.go
package core

// ActorID is the transient id the replay assigns to a spawned actor.
// Ids are recycled once an actor is destroyed.
type ActorID int32

// Actor object classes of the car components tracked here.
const (
	ObjectDodge      = "TAGame.CarComponent_Dodge_TA"
	ObjectDoubleJump = "TAGame.CarComponent_DoubleJump_TA"
	ObjectFlipCar    = "TAGame.CarComponent_FlipCar_TA"
	ObjectJump       = "TAGame.CarComponent_Jump_TA"
)

// ActorUpdate is the known attribute state of one actor in one frame.
// Handlers must not retain it past the call it was passed to.
type ActorUpdate struct {
	Actor      ActorID
	Object     string
	Attributes Attributes
}

// Links carries the identity changes that happened in a frame.
type Links struct {
	Players    map[ActorID]PlayerID
	Cars       map[ActorID]ActorID // car actor -> player actor
	UnlinkCars []ActorID
}

// Empty reports whether the frame changed no identities.
func (l Links) Empty() bool {
	return len(l.Players) == 0 && len(l.Cars) == 0 && len(l.UnlinkCars) == 0
}

// Frame is one decoded replay frame.
type Frame struct {
	Index   int
	Time    float32
	Delta   float32
	Links   Links
	Updates []ActorUpdate
}
