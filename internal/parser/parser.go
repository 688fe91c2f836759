package parser

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rlstats/frameseries/pkg/core"
)

// Stream is a decoded replay: its frames in order plus the frame count the
// handlers size their series with. FrameCount is always len(Frames).
type Stream struct {
	Name       string
	FrameCount int
	Frames     []core.Frame
}

// Parser converts the replay decoder's JSON frame stream into core types.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseFile reads a frame stream from path. Files ending in .gz are
// decompressed.
func (p *Parser) ParseFile(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening frame stream: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip frame stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return p.Parse(r)
}

// Parse reads a frame stream document from r. Frame indices are assigned
// from each frame's position in the document.
func (p *Parser) Parse(r io.Reader) (*Stream, error) {
	var doc streamJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding frame stream: %w", err)
	}

	// Frames are indexed by position, so the document's own count can only
	// be a hint; the frames actually present bound it.
	s := &Stream{
		Name:       doc.Name,
		FrameCount: len(doc.Frames),
		Frames:     make([]core.Frame, 0, len(doc.Frames)),
	}
	if doc.FrameCount != len(doc.Frames) {
		p.logger.Debug("Declared frame count differs from frames present", "declared", doc.FrameCount, "frames", len(doc.Frames))
	}

	for i, fj := range doc.Frames {
		f, err := p.parseFrame(i, fj)
		if err != nil {
			return nil, err
		}
		s.Frames = append(s.Frames, f)
	}

	p.logger.Debug("Parsed frame stream", "name", s.Name, "frames", len(s.Frames), "frameCount", s.FrameCount)
	return s, nil
}

func (p *Parser) parseFrame(index int, fj frameJSON) (core.Frame, error) {
	f := core.Frame{
		Index:   index,
		Time:    fj.Time,
		Delta:   fj.Delta,
		Updates: make([]core.ActorUpdate, 0, len(fj.Updates)),
	}

	links, err := parseLinks(fj.Links)
	if err != nil {
		return f, fmt.Errorf("frame %d: %w", index, err)
	}
	f.Links = links

	for _, uj := range fj.Updates {
		u := core.ActorUpdate{
			Actor:      uj.Actor,
			Object:     uj.Object,
			Attributes: make(core.Attributes, len(uj.Attributes)),
		}
		for name, aj := range uj.Attributes {
			attr, err := aj.attribute()
			if err != nil {
				return f, fmt.Errorf("frame %d, actor %d, attribute %q: %w", index, uj.Actor, name, err)
			}
			if attr == nil {
				p.logger.Debug("Skipping attribute with unknown tag", "frame", index, "actor", uj.Actor, "attribute", name)
				continue
			}
			u.Attributes[name] = attr
		}
		f.Updates = append(f.Updates, u)
	}

	return f, nil
}

func parseLinks(lj linksJSON) (core.Links, error) {
	var l core.Links

	if len(lj.Players) > 0 {
		l.Players = make(map[core.ActorID]core.PlayerID, len(lj.Players))
		for actor, raw := range lj.Players {
			id, err := core.ParsePlayerID(raw)
			if err != nil {
				return l, fmt.Errorf("player actor %d: %w", actor, err)
			}
			l.Players[actor] = id
		}
	}
	if len(lj.Cars) > 0 {
		l.Cars = lj.Cars
	}
	l.UnlinkCars = lj.UnlinkCars

	return l, nil
}
