package workspace

import (
	"errors"
	"fmt"
)

// ErrSnippetNotFound is returned by ApplyEdit when the original snippet
// does not occur in the file.
var ErrSnippetNotFound = errors.New("original snippet not found")

// AmbiguousEditError is returned by ApplyEdit when the original snippet
// occurs more than once. No occurrence is modified; the caller must
// disambiguate. Snippet and Content are carried so the failure can be
// shown next to the file's actual text.
type AmbiguousEditError struct {
	Path        string
	Occurrences int
	Snippet     string
	Content     string
}

func (e *AmbiguousEditError) Error() string {
	return fmt.Sprintf("ambiguous edit: %d matches in %s", e.Occurrences, e.Path)
}

// TooLargeError is returned by Write when content exceeds the file size
// limit.
type TooLargeError struct {
	Path  string
	Size  int
	Limit int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("content for %s is %d bytes (limit %d)", e.Path, e.Size, e.Limit)
}
