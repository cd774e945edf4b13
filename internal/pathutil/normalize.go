package pathutil

import (
	"fmt"
	"path/filepath"
)

// Normalize returns a canonical filesystem path string.
// It removes trailing slashes, collapses "." and "..", and
// preserves relative paths when provided.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

// JoinBounded joins dir and name and fails if the result would exceed
// maxLen bytes. Probe paths are built against a fixed bound rather than
// growing without limit.
func JoinBounded(dir, name string, maxLen int) (string, error) {
	joined := filepath.Join(dir, name)
	if len(joined) > maxLen {
		return "", fmt.Errorf("path %q exceeds %d byte limit", joined, maxLen)
	}
	return joined, nil
}
