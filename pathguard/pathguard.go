// Package pathguard validates and canonicalizes file-system paths before
// any tool is allowed to touch them.
//
// Information Hiding:
// - Canonicalization rules hidden behind Normalize
// - Callers never see partially-resolved paths
package pathguard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned when a path escapes the allowed form:
// a parent-directory segment survives resolution, or the raw input
// references a home directory.
var ErrInvalidPath = errors.New("invalid path")

// Normalize returns the canonical absolute form of path.
//
// It fails with ErrInvalidPath when any raw segment is a home-directory
// shorthand (starts with '~') or when the resolved path still carries a
// parent-directory segment. Existence is not checked; that is the
// caller's concern.
func Normalize(path string) (string, error) {
	for _, seg := range segments(path) {
		if strings.HasPrefix(seg, "~") {
			return "", fmt.Errorf("%w: %q: home directory references not allowed", ErrInvalidPath, path)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidPath, path, err)
	}

	for _, seg := range segments(abs) {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q contains parent directory references", ErrInvalidPath, path)
		}
	}

	return abs, nil
}

func segments(path string) []string {
	return strings.Split(filepath.ToSlash(path), "/")
}
