// Package workspace provides the file-system primitives behind the agent's
// tools: reading, writing with limits, binary detection, snippet editing
// and directory scanning. Nothing else in the program touches the disk.
//
// Information Hiding:
// - File I/O details hidden behind Store
// - Path validation delegated to pathguard
// - Size limits and binary heuristics internalized
package workspace

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"quill/pathguard"
)

const (
	// MaxFileBytes caps content accepted by Write and files pulled in by
	// ScanDir.
	MaxFileBytes = 5_000_000

	binaryPeekBytes = 1024
)

// Notifier receives user-visible notices about completed file operations.
// The store never prints; the caller decides how notices are rendered.
type Notifier func(format string, args ...any)

// Store is the file-system access point for tools and the context loader.
type Store struct {
	notify Notifier
}

// NewStore creates a store with no notifier attached.
func NewStore() *Store {
	return &Store{}
}

// WithNotifier sets the notifier for success notices.
func (s *Store) WithNotifier(n Notifier) *Store {
	s.notify = n
	return s
}

func (s *Store) notifyf(format string, args ...any) {
	if s.notify != nil {
		s.notify(format, args...)
	}
}

// Read returns the text content of the file at path. There is no size
// limit on reads.
func (s *Store) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// Write creates or overwrites the file at path, creating parent
// directories as needed. The path is validated before anything is
// touched; content above MaxFileBytes is rejected with *TooLargeError.
func (s *Store) Write(path, content string) error {
	if _, err := pathguard.Normalize(path); err != nil {
		return err
	}
	if len(content) > MaxFileBytes {
		return &TooLargeError{Path: path, Size: len(content), Limit: MaxFileBytes}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	s.notifyf("file created: %s", path)
	return nil
}

// IsBinary reports whether the file at path looks binary. It peeks at the
// first kilobyte and treats a NUL byte as binary; a file that cannot be
// read is also treated as binary, failing safe.
func (s *Store) IsBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, binaryPeekBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}
