// pkg/core/player.go
package core

import (
	"fmt"
	"strings"
)

// PlayerID is the platform qualified id of a player. It stays the same for
// the whole replay no matter how often the player's actors respawn.
type PlayerID struct {
	Platform string
	ID       string
}

func (p PlayerID) String() string {
	return p.Platform + ":" + p.ID
}

// ParsePlayerID parses the "platform:id" form produced by String.
func ParsePlayerID(s string) (PlayerID, error) {
	platform, id, ok := strings.Cut(s, ":")
	if !ok || platform == "" || id == "" {
		return PlayerID{}, fmt.Errorf("invalid player id %q: want platform:id", s)
	}
	return PlayerID{Platform: platform, ID: id}, nil
}

// MarshalText implements encoding.TextMarshaler so PlayerID can key JSON maps.
func (p PlayerID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PlayerID) UnmarshalText(b []byte) error {
	parsed, err := ParsePlayerID(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
