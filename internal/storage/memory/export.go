// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rlstats/frameseries/internal/series"
	"github.com/rlstats/frameseries/internal/session"
	"github.com/rlstats/frameseries/pkg/core"
)

// Export is the root JSON structure. Series are keyed by "platform:id" and
// then by frame index.
type Export struct {
	Session    session.Meta                              `json:"session"`
	FrameTimes []float32                                 `json:"frameTimes"`
	Dodge      map[core.PlayerID]map[int]core.Dodge      `json:"dodge"`
	DoubleJump map[core.PlayerID]map[int]core.DoubleJump `json:"doubleJump"`
	FlipCar    map[core.PlayerID]map[int]core.FlipCar    `json:"flipCar"`
	Jump       map[core.PlayerID]map[int]core.Jump       `json:"jump"`
}

// BuildExport converts a session result into its JSON form.
func BuildExport(res *session.Result) Export {
	return Export{
		Session:    res.Meta,
		FrameTimes: res.FrameTimes,
		Dodge:      exportStore(res.Series.Dodge),
		DoubleJump: exportStore(res.Series.DoubleJump),
		FlipCar:    exportStore(res.Series.FlipCar),
		Jump:       exportStore(res.Series.Jump),
	}
}

func exportStore[T any](s *series.Store[T]) map[core.PlayerID]map[int]T {
	out := make(map[core.PlayerID]map[int]T, s.Len())
	for _, p := range s.Players() {
		out[p] = s.Series(p)
	}
	return out
}

// exportJSON writes the last session to a (optionally gzipped) JSON file
func (b *Backend) exportJSON() error {
	export := BuildExport(b.last)

	name := fileName(b.last.Meta)
	timestamp := b.last.Meta.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", name, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

var fileNameReplacer = strings.NewReplacer(" ", "_", ":", "_", "..", "_")

// fileName derives a file name from the session name that stays inside the
// output directory, falling back to the session ID.
func fileName(meta session.Meta) string {
	name := filepath.Base(strings.ReplaceAll(meta.Name, `\`, "/"))
	switch name {
	case ".", "..", "/":
		name = ""
	}
	name = fileNameReplacer.Replace(name)
	if strings.Trim(name, "_") == "" {
		return meta.ID.String()
	}
	return name
}

func writeJSON(path string, data Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(data)
}

func writeGzipJSON(path string, data Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}
