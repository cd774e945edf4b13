// Package session handles the audit session database lifecycle:
// locking, temp-file creation, atomic publish, and retention.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/db"

	_ "modernc.org/sqlite"
)

const (
	filePrefix = "seaudit-"
	fileSuffix = ".db"
	latestName = "latest.db"
	lockName   = ".seaudit.lock"
)

// Manager owns a session output directory.
type Manager struct {
	outputDir string
	retention int
	lockFile  *os.File
	tempPath  string
}

// NewManager creates a manager for outputDir, retaining the newest
// retention session databases (0 = unlimited).
func NewManager(outputDir string, retention int) *Manager {
	return &Manager{
		outputDir: outputDir,
		retention: retention,
	}
}

// Begin creates a locked temporary session database with schema and
// write pragmas applied. The caller finishes with Commit or Abort.
func (m *Manager) Begin() (*sql.DB, error) {
	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := m.acquireLock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	m.tempPath = filepath.Join(m.outputDir, fmt.Sprintf(".seaudit-temp-%d.db", time.Now().UnixNano()))
	database, err := sql.Open("sqlite", m.tempPath)
	if err != nil {
		m.cleanupTemp()
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	if err := db.InitSchema(database); err != nil {
		database.Close()
		m.cleanupTemp()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := db.ApplyWritePragmas(database); err != nil {
		database.Close()
		m.cleanupTemp()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return database, nil
}

// Commit finalizes and publishes the session database, returning its
// final path.
func (m *Manager) Commit(database *sql.DB) (string, error) {
	defer m.releaseLock()

	if err := db.Finalize(database); err != nil {
		database.Close()
		m.cleanupTempFile()
		return "", fmt.Errorf("failed to finalize database: %w", err)
	}
	database.Close()

	finalName := fmt.Sprintf("%s%s%s", filePrefix, time.Now().Format("20060102-150405"), fileSuffix)
	finalPath := filepath.Join(m.outputDir, finalName)

	if err := os.Rename(m.tempPath, finalPath); err != nil {
		m.cleanupTempFile()
		return "", fmt.Errorf("failed to rename database: %w", err)
	}
	m.tempPath = ""

	// Update latest.db symlink atomically via temp symlink + rename.
	latestPath := filepath.Join(m.outputDir, latestName)
	tempLink := filepath.Join(m.outputDir, "."+latestName+".tmp")
	os.Remove(tempLink)
	if err := os.Symlink(finalName, tempLink); err == nil {
		if err := os.Rename(tempLink, latestPath); err != nil {
			os.Remove(tempLink)
			fmt.Fprintf(os.Stderr, "warning: failed to update %s symlink: %v\n", latestName, err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "warning: failed to create %s symlink: %v\n", latestName, err)
	}

	if err := m.pruneOldSessions(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to prune old sessions: %v\n", err)
	}

	return finalPath, nil
}

// Abort discards the temporary session database.
func (m *Manager) Abort(database *sql.DB) {
	if database != nil {
		database.Close()
	}
	m.cleanupTemp()
}

func (m *Manager) cleanupTemp() {
	m.cleanupTempFile()
	m.releaseLock()
}

func (m *Manager) cleanupTempFile() {
	if m.tempPath != "" {
		os.Remove(m.tempPath)
		m.tempPath = ""
	}
}

func (m *Manager) acquireLock() error {
	lockPath := filepath.Join(m.outputDir, lockName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return fmt.Errorf("another capture is in progress")
	}

	m.lockFile = f
	return nil
}

func (m *Manager) releaseLock() {
	if m.lockFile != nil {
		syscall.Flock(int(m.lockFile.Fd()), syscall.LOCK_UN)
		m.lockFile.Close()
		m.lockFile = nil
	}
}

func (m *Manager) pruneOldSessions() error {
	if m.retention <= 0 {
		return nil
	}

	sessions, err := m.sessionNames()
	if err != nil {
		return err
	}

	for len(sessions) > m.retention {
		oldPath := filepath.Join(m.outputDir, sessions[0])
		if err := os.Remove(oldPath); err != nil {
			return fmt.Errorf("failed to remove %s: %w", sessions[0], err)
		}
		sessions = sessions[1:]
	}

	return nil
}

func (m *Manager) sessionNames() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, err
	}

	var sessions []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileSuffix) {
			sessions = append(sessions, e.Name())
		}
	}

	// Names embed the timestamp, so lexical order is chronological.
	sort.Strings(sessions)
	return sessions, nil
}

// Latest returns the path of the most recent session database.
func (m *Manager) Latest() (string, error) {
	latestPath := filepath.Join(m.outputDir, latestName)
	resolved, err := filepath.EvalSymlinks(latestPath)
	if err != nil {
		return "", fmt.Errorf("no session found: %w", err)
	}
	return resolved, nil
}

// List returns all session databases sorted by date.
func (m *Manager) List() ([]string, error) {
	names, err := m.sessionNames()
	if err != nil {
		return nil, err
	}

	sessions := make([]string, 0, len(names))
	for _, name := range names {
		sessions = append(sessions, filepath.Join(m.outputDir, name))
	}
	return sessions, nil
}
