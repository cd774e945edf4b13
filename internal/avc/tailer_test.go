package avc

import (
	"os"
	"path/filepath"
	"testing"
)

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestTailerPollIncremental(t *testing.T) {
	log := filepath.Join(t.TempDir(), "audit.log")
	appendLine(t, log, deniedLine)

	tailer := NewTailer(log)

	records, err := tailer.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(records) != 1 || records[0].Decision != Denied {
		t.Fatalf("first poll: %+v", records)
	}

	// Nothing new.
	records, err = tailer.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("second poll returned %d records", len(records))
	}

	appendLine(t, log, grantedLine)
	records, err = tailer.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(records) != 1 || records[0].Decision != Granted {
		t.Fatalf("third poll: %+v", records)
	}
}

func TestTailerSkipToEnd(t *testing.T) {
	log := filepath.Join(t.TempDir(), "audit.log")
	appendLine(t, log, deniedLine)

	tailer := NewTailer(log)
	if err := tailer.SkipToEnd(); err != nil {
		t.Fatalf("skip: %v", err)
	}

	records, err := tailer.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records before new writes, got %d", len(records))
	}

	appendLine(t, log, grantedLine)
	records, err = tailer.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 new record, got %d", len(records))
	}
}

func TestTailerResetsOnTruncation(t *testing.T) {
	log := filepath.Join(t.TempDir(), "audit.log")
	appendLine(t, log, deniedLine)
	appendLine(t, log, grantedLine)

	tailer := NewTailer(log)
	if _, err := tailer.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}

	// Rotation: shorter file replaces the old one.
	if err := os.WriteFile(log, nil, 0644); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	appendLine(t, log, deniedLine)

	records, err := tailer.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after rotation, got %d", len(records))
	}
}

func TestTailerMissingFile(t *testing.T) {
	tailer := NewTailer(filepath.Join(t.TempDir(), "missing.log"))
	records, err := tailer.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if records != nil {
		t.Fatalf("expected no records, got %v", records)
	}
}
