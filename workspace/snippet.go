package workspace

import (
	"fmt"
	"strings"
)

// ApplyEdit replaces exactly one literal occurrence of originalSnippet in
// the file at path with newSnippet.
//
// Matching is never fuzzy: the model supplies snippets verbatim from
// prior reads, so zero occurrences means the snippet is stale
// (ErrSnippetNotFound) and more than one means the edit site is
// ambiguous (*AmbiguousEditError). In both cases the file is left
// untouched.
func (s *Store) ApplyEdit(path, originalSnippet, newSnippet string) error {
	content, err := s.Read(path)
	if err != nil {
		return err
	}

	occurrences := strings.Count(content, originalSnippet)
	switch {
	case occurrences == 0:
		return fmt.Errorf("%w in %s", ErrSnippetNotFound, path)
	case occurrences > 1:
		return &AmbiguousEditError{
			Path:        path,
			Occurrences: occurrences,
			Snippet:     originalSnippet,
			Content:     content,
		}
	}

	updated := strings.Replace(content, originalSnippet, newSnippet, 1)
	if err := s.Write(path, updated); err != nil {
		return err
	}

	s.notifyf("edit applied: %s", path)
	return nil
}
