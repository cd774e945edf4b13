// Package debuglog appends timestamped JSON lines to a debug file.
package debuglog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DefaultPath is where analyze sessions write their debug trail.
const DefaultPath = "/tmp/seaudit_debug.log"

type record struct {
	Timestamp string         `json:"timestamp"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Logger appends debug entries to a file. A nil Logger discards
// everything, so callers never need to guard their log sites.
type Logger struct {
	path string
}

// New creates a logger writing to path.
func New(path string) *Logger {
	return &Logger{path: path}
}

// Log appends one entry with optional detail data. Write failures are
// reported to stderr and otherwise ignored; debug logging must never
// interfere with a capture.
func (l *Logger) Log(message string, data map[string]any) {
	if l == nil {
		return
	}

	entry := record{
		Timestamp: time.Now().Format("2006-01-02 15:04:05.000"),
		Message:   message,
		Data:      data,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode debug entry: %v\n", err)
		return
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write debug log: %v\n", err)
		return
	}
	defer f.Close()

	f.Write(append(line, '\n'))
}

// Clear truncates the log file.
func (l *Logger) Clear() {
	if l == nil {
		return
	}
	os.Truncate(l.path, 0)
}

// Summary returns the log path and how many entries it holds.
func (l *Logger) Summary() (string, int) {
	if l == nil {
		return "", 0
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return l.path, 0
	}

	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	return l.path, count
}
