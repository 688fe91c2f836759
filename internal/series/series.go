// Package series stores sparse per-player, per-frame mechanic snapshots.
package series

import (
	"maps"
	"slices"
	"strings"

	"github.com/rlstats/frameseries/pkg/core"
)

// maxCapHint bounds the initial size of a new series. Larger series grow
// on demand.
const maxCapHint = 4096

// Store holds one mechanic's snapshots keyed by player and frame index.
// It is not safe for concurrent use; each store has a single writer.
type Store[T any] struct {
	players map[core.PlayerID]map[int]T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{players: make(map[core.PlayerID]map[int]T)}
}

// Insert writes rec at frame in the series of player, creating the series on
// the player's first sample. capHint sizes a new series, up to maxCapHint,
// and has no effect on an existing one. A second write to the same frame replaces the first.
func (s *Store[T]) Insert(player core.PlayerID, frame int, rec T, capHint int) {
	frames, ok := s.players[player]
	if !ok {
		frames = make(map[int]T, min(max(capHint, 1), maxCapHint))
		s.players[player] = frames
	}
	frames[frame] = rec
}

// Get returns the snapshot of player at frame.
func (s *Store[T]) Get(player core.PlayerID, frame int) (T, bool) {
	rec, ok := s.players[player][frame]
	return rec, ok
}

// Series returns a copy of the series of player, or nil if there is none.
func (s *Store[T]) Series(player core.PlayerID) map[int]T {
	frames, ok := s.players[player]
	if !ok {
		return nil
	}
	return maps.Clone(frames)
}

// Frames returns the frame indices recorded for player in ascending order.
func (s *Store[T]) Frames(player core.PlayerID) []int {
	return slices.Sorted(maps.Keys(s.players[player]))
}

// Players returns every player with a series, ordered by their string form.
func (s *Store[T]) Players() []core.PlayerID {
	return slices.SortedFunc(maps.Keys(s.players), func(a, b core.PlayerID) int {
		return strings.Compare(a.String(), b.String())
	})
}

// Len returns the number of players with a series.
func (s *Store[T]) Len() int {
	return len(s.players)
}

// Collection groups the store of every tracked mechanic for one session.
type Collection struct {
	Dodge      *Store[core.Dodge]
	DoubleJump *Store[core.DoubleJump]
	FlipCar    *Store[core.FlipCar]
	Jump       *Store[core.Jump]
}

func NewCollection() *Collection {
	return &Collection{
		Dodge:      NewStore[core.Dodge](),
		DoubleJump: NewStore[core.DoubleJump](),
		FlipCar:    NewStore[core.FlipCar](),
		Jump:       NewStore[core.Jump](),
	}
}

// Row is one snapshot flattened to its mechanic independent form.
type Row struct {
	Mechanic core.Mechanic
	Player   core.PlayerID
	Frame    int
	Sample   core.Sample
}

// Rows flattens every store into rows ordered by mechanic, player and frame.
// Storage backends that write a single table consume this.
func (c *Collection) Rows() []Row {
	var rows []Row
	rows = appendRows(rows, core.MechanicDodge, c.Dodge, core.Dodge.Sample)
	rows = appendRows(rows, core.MechanicDoubleJump, c.DoubleJump, core.DoubleJump.Sample)
	rows = appendRows(rows, core.MechanicFlipCar, c.FlipCar, core.FlipCar.Sample)
	rows = appendRows(rows, core.MechanicJump, c.Jump, core.Jump.Sample)
	return rows
}

func appendRows[T any](rows []Row, m core.Mechanic, s *Store[T], sample func(T) core.Sample) []Row {
	for _, p := range s.Players() {
		frames := s.players[p]
		for _, f := range s.Frames(p) {
			rows = append(rows, Row{Mechanic: m, Player: p, Frame: f, Sample: sample(frames[f])})
		}
	}
	return rows
}
