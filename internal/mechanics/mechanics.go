// Package mechanics turns car component actor updates into per-player
// mechanic time series.
//
// Every tracked mechanic follows the same steps: find the car the component
// is attached to, resolve the car to a stable player id, decode the
// component's attributes and store the snapshot under the current frame.
// Handler implements those steps once; the constructors bind it to a
// mechanic's store and decoder.
package mechanics

import (
	"errors"
	"fmt"

	"github.com/rlstats/frameseries/internal/cache"
	"github.com/rlstats/frameseries/internal/decode"
	"github.com/rlstats/frameseries/internal/series"
	"github.com/rlstats/frameseries/pkg/core"
)

// ErrUnknownPlayer is returned when a car is linked to a player actor that
// has no stable id. The identity cache is inconsistent at that point and
// the aggregation pass must not continue.
var ErrUnknownPlayer = errors.New("player actor has no stable id")

// ActorHandler consumes the updates of one actor class.
type ActorHandler interface {
	Mechanic() core.Mechanic
	Object() string
	Update(u core.ActorUpdate, frame int, time, delta float32) error
}

// Spec describes what a Handler reads.
type Spec struct {
	Mechanic core.Mechanic
	// Object is the actor class whose updates carry this mechanic.
	Object string
	// VehicleAttr names the attribute referencing the car actor.
	VehicleAttr string
}

// Handler records one mechanic for every player in a session.
type Handler[T any] struct {
	spec       Spec
	identities cache.Resolver
	store      *series.Store[T]
	decode     func(core.Attributes) T
	frameCount int
}

// New returns a Handler writing into store. frameCount is the number of
// frames in the replay and only sizes new player series.
func New[T any](spec Spec, identities cache.Resolver, store *series.Store[T], decode func(core.Attributes) T, frameCount int) *Handler[T] {
	return &Handler[T]{
		spec:       spec,
		identities: identities,
		store:      store,
		decode:     decode,
		frameCount: frameCount,
	}
}

func (h *Handler[T]) Mechanic() core.Mechanic { return h.spec.Mechanic }

func (h *Handler[T]) Object() string { return h.spec.Object }

// Update records the snapshot carried by u at frame. Updates of components
// with no vehicle, or whose vehicle is not driven by a known player, are
// ignored. time and delta are unused.
func (h *Handler[T]) Update(u core.ActorUpdate, frame int, time, delta float32) error {
	ref, ok := u.Attributes[h.spec.VehicleAttr].(core.ActiveActor)
	if !ok {
		return nil
	}
	playerActor, ok := h.identities.PlayerForCar(ref.Actor)
	if !ok {
		return nil
	}
	player, ok := h.identities.StableID(playerActor)
	if !ok {
		return fmt.Errorf("%s: car %d, player actor %d: %w", h.spec.Mechanic, ref.Actor, playerActor, ErrUnknownPlayer)
	}

	h.store.Insert(player, frame, h.decode(u.Attributes), h.frameCount-frame)
	return nil
}

func NewDodge(identities cache.Resolver, store *series.Store[core.Dodge], frameCount int) *Handler[core.Dodge] {
	return New(Spec{
		Mechanic:    core.MechanicDodge,
		Object:      core.ObjectDodge,
		VehicleAttr: core.AttrVehicle,
	}, identities, store, decode.Dodge, frameCount)
}

func NewDoubleJump(identities cache.Resolver, store *series.Store[core.DoubleJump], frameCount int) *Handler[core.DoubleJump] {
	return New(Spec{
		Mechanic:    core.MechanicDoubleJump,
		Object:      core.ObjectDoubleJump,
		VehicleAttr: core.AttrVehicle,
	}, identities, store, decode.DoubleJump, frameCount)
}

func NewFlipCar(identities cache.Resolver, store *series.Store[core.FlipCar], frameCount int) *Handler[core.FlipCar] {
	return New(Spec{
		Mechanic:    core.MechanicFlipCar,
		Object:      core.ObjectFlipCar,
		VehicleAttr: core.AttrVehicle,
	}, identities, store, decode.FlipCar, frameCount)
}

func NewJump(identities cache.Resolver, store *series.Store[core.Jump], frameCount int) *Handler[core.Jump] {
	return New(Spec{
		Mechanic:    core.MechanicJump,
		Object:      core.ObjectJump,
		VehicleAttr: core.AttrVehicle,
	}, identities, store, decode.Jump, frameCount)
}

// All returns a handler for every tracked mechanic, each bound to its store
// in c.
func All(identities cache.Resolver, c *series.Collection, frameCount int) []ActorHandler {
	return []ActorHandler{
		NewDodge(identities, c.Dodge, frameCount),
		NewDoubleJump(identities, c.DoubleJump, frameCount),
		NewFlipCar(identities, c.FlipCar, frameCount),
		NewJump(identities, c.Jump, frameCount),
	}
}
