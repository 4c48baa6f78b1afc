package conversation

import (
	"fmt"
	"os"

	"quill/pathguard"
	"quill/workspace"
)

// Loader injects file contents into the conversation as system messages
// so the model always edits text it has actually seen.
type Loader struct {
	log   *Log
	store *workspace.Store
}

// NewLoader creates a loader bound to a log and a store.
func NewLoader(log *Log, store *workspace.Store) *Loader {
	return &Loader{log: log, store: store}
}

// fileMarker is the prefix identifying an injected file-content message.
// EnsureLoaded deduplicates on it, so the exact wording is load-bearing.
func fileMarker(path string) string {
	return fmt.Sprintf("Content of file '%s'", path)
}

// FileContext renders a file's content the way tools and the loader
// present it to the model.
func FileContext(path, content string) string {
	return fmt.Sprintf("%s:\n\n%s", fileMarker(path), content)
}

// EnsureLoaded guarantees the file at path is present in conversation
// context, appending its content as a system message unless an earlier
// message already carries its marker. Returns false if the file cannot
// be normalized or read.
func (ld *Loader) EnsureLoaded(path string) bool {
	normalized, err := pathguard.Normalize(path)
	if err != nil {
		return false
	}
	content, err := ld.store.Read(normalized)
	if err != nil {
		return false
	}

	if !ld.log.ContainsMarker(fileMarker(normalized)) {
		ld.log.AppendSystem(FileContext(normalized, content))
	}
	return true
}

// AddSummary reports what AddPath loaded and what it passed over.
type AddSummary struct {
	Added   []string
	Skipped []string
}

// AddPath loads a single file, or recursively a directory, into
// conversation context. Directory scans skip hidden entries, denylisted
// names and extensions, oversized and binary files; per-file problems
// land in the summary rather than aborting the scan.
func (ld *Loader) AddPath(path string) (AddSummary, error) {
	normalized, err := pathguard.Normalize(path)
	if err != nil {
		return AddSummary{}, err
	}

	info, err := os.Stat(normalized)
	if err != nil {
		return AddSummary{}, fmt.Errorf("stat %s: %w", normalized, err)
	}

	if !info.IsDir() {
		content, err := ld.store.Read(normalized)
		if err != nil {
			return AddSummary{}, err
		}
		ld.log.AppendSystem(FileContext(normalized, content))
		return AddSummary{Added: []string{normalized}}, nil
	}

	report, err := ld.store.ScanDir(normalized)
	if err != nil {
		return AddSummary{Skipped: report.Skipped}, err
	}

	summary := AddSummary{Skipped: report.Skipped}
	for _, file := range report.Loaded {
		content, err := ld.store.Read(file)
		if err != nil {
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("%s (%v)", file, err))
			continue
		}
		if !ld.log.ContainsMarker(fileMarker(file)) {
			ld.log.AppendSystem(FileContext(file, content))
		}
		summary.Added = append(summary.Added, file)
	}
	return summary, nil
}
