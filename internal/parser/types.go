package parser

import (
	"errors"

	"github.com/rlstats/frameseries/pkg/core"
)

// JSON shapes of the replay decoder's frame stream.

type streamJSON struct {
	Name       string      `json:"name"`
	FrameCount int         `json:"frameCount"`
	Frames     []frameJSON `json:"frames"`
}

type frameJSON struct {
	Time    float32      `json:"time"`
	Delta   float32      `json:"delta"`
	Links   linksJSON    `json:"links"`
	Updates []updateJSON `json:"updates"`
}

type linksJSON struct {
	Players    map[core.ActorID]string       `json:"players"`
	Cars       map[core.ActorID]core.ActorID `json:"cars"`
	UnlinkCars []core.ActorID                `json:"unlinkCars"`
}

type updateJSON struct {
	Actor      core.ActorID             `json:"actor"`
	Object     string                   `json:"object"`
	Attributes map[string]attributeJSON `json:"attributes"`
}

// attributeJSON is a tagged value; exactly one field is set.
type attributeJSON struct {
	Byte        *uint8            `json:"byte"`
	Location    *core.Vector3     `json:"location"`
	ActiveActor *core.ActiveActor `json:"activeActor"`
	Boolean     *bool             `json:"boolean"`
	Int         *int32            `json:"int"`
	Float       *float32          `json:"float"`
	String      *string           `json:"string"`
}

var errMultipleTags = errors.New("more than one value tag")

// attribute returns the tagged value, or nil when no known tag is set.
func (a attributeJSON) attribute() (core.Attribute, error) {
	var (
		out core.Attribute
		n   int
	)
	if a.Byte != nil {
		out, n = core.Byte(*a.Byte), n+1
	}
	if a.Location != nil {
		out, n = core.Location(*a.Location), n+1
	}
	if a.ActiveActor != nil {
		out, n = *a.ActiveActor, n+1
	}
	if a.Boolean != nil {
		out, n = core.Boolean(*a.Boolean), n+1
	}
	if a.Int != nil {
		out, n = core.Int(*a.Int), n+1
	}
	if a.Float != nil {
		out, n = core.Float(*a.Float), n+1
	}
	if a.String != nil {
		out, n = core.String(*a.String), n+1
	}
	if n > 1 {
		return nil, errMultipleTags
	}
	return out, nil
}
