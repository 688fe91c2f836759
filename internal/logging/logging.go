package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OpenLogFile creates dir if needed and opens <dir>/<app>.<start>.log for
// appending. The start time keeps one file per run.
func OpenLogFile(dir, app string, start time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("%s.%s.log", app, start.Format("20060102_150405")))
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
