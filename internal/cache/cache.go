package cache

import (
	"sync"

	"github.com/rlstats/frameseries/pkg/core"
)

// Resolver is the read side of Identities used by the mechanic handlers.
type Resolver interface {
	PlayerForCar(car core.ActorID) (core.ActorID, bool)
	StableID(playerActor core.ActorID) (core.PlayerID, bool)
}

// Identities caches which player actor drives each car actor and which stable
// player id each player actor belongs to. Lookups happen for every car
// component update, so both are plain maps behind one mutex.
type Identities struct {
	m       sync.Mutex
	Cars    map[core.ActorID]core.ActorID
	Players map[core.ActorID]core.PlayerID
}

func NewIdentities() *Identities {
	return &Identities{
		Cars:    make(map[core.ActorID]core.ActorID),
		Players: make(map[core.ActorID]core.PlayerID),
	}
}

// LinkCar records that playerActor now drives car. A car has at most one
// driver, so any previous link is replaced.
func (c *Identities) LinkCar(car, playerActor core.ActorID) {
	c.m.Lock()
	defer c.m.Unlock()
	c.linkCar(car, playerActor)
}

// UnlinkCar forgets the driver of car, typically once the car is destroyed.
func (c *Identities) UnlinkCar(car core.ActorID) {
	c.m.Lock()
	defer c.m.Unlock()
	c.unlinkCar(car)
}

func (c *Identities) SetPlayer(playerActor core.ActorID, id core.PlayerID) {
	c.m.Lock()
	defer c.m.Unlock()
	c.setPlayer(playerActor, id)
}

func (c *Identities) linkCar(car, playerActor core.ActorID) {
	c.Cars[car] = playerActor
}

func (c *Identities) unlinkCar(car core.ActorID) {
	delete(c.Cars, car)
}

func (c *Identities) setPlayer(playerActor core.ActorID, id core.PlayerID) {
	c.Players[playerActor] = id
}

func (c *Identities) PlayerForCar(car core.ActorID) (core.ActorID, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	p, ok := c.Cars[car]
	return p, ok
}

func (c *Identities) StableID(playerActor core.ActorID) (core.PlayerID, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	id, ok := c.Players[playerActor]
	return id, ok
}

// Apply folds one frame's identity changes into the cache. Players are set
// before cars are linked so a car never points at an unknown player actor,
// and unlinks run before links so a car id reused in the same frame ends up
// linked.
func (c *Identities) Apply(l core.Links) {
	c.m.Lock()
	defer c.m.Unlock()
	for actor, id := range l.Players {
		c.setPlayer(actor, id)
	}
	for _, car := range l.UnlinkCars {
		c.unlinkCar(car)
	}
	for car, player := range l.Cars {
		c.linkCar(car, player)
	}
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
