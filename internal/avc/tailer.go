package avc

import (
	"bytes"
	"io"
	"os"
)

// DefaultAuditLog is the audit daemon's log location.
const DefaultAuditLog = "/var/log/audit/audit.log"

// Tailer incrementally reads AVC records from an audit log file. Each
// Poll picks up where the previous one left off; a shrunken file
// (rotation or truncation) resets to the beginning. The file is only
// ever opened for reading.
type Tailer struct {
	path   string
	offset int64
}

// NewTailer creates a tailer for the given audit log path.
func NewTailer(path string) *Tailer {
	return &Tailer{path: path}
}

// SkipToEnd moves the tail position to the current end of the file, so
// that only records written afterwards are reported.
func (t *Tailer) SkipToEnd() error {
	info, err := os.Stat(t.path)
	if err != nil {
		return err
	}
	t.offset = info.Size()
	return nil
}

// Poll returns the AVC records appended since the last call. A missing
// file yields no records and no error; the audit daemon may not have
// started yet.
func (t *Tailer) Poll() ([]Record, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < t.offset {
		t.offset = 0
	}

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	// Only complete lines are consumed; a partially written record
	// stays for the next poll.
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return nil, nil
	}
	t.offset += int64(end + 1)

	return ParseAll(bytes.NewReader(data[:end+1]))
}
