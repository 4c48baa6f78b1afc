package workspace

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"quill/pathguard"
)

// maxScanFiles caps how many files a single directory scan will accept.
const maxScanFiles = 1000

// Directory and file names that a scan never descends into or loads.
// Covers VCS metadata, dependency trees, build outputs and local env files.
var excludedNames = map[string]struct{}{
	".DS_Store": {}, "Thumbs.db": {}, ".gitignore": {}, ".python-version": {},
	"uv.lock": {}, ".uv": {}, "uvenv": {}, ".uvenv": {}, ".venv": {}, "venv": {},
	"__pycache__": {}, ".pytest_cache": {}, ".coverage": {}, ".mypy_cache": {},
	"node_modules": {}, "package-lock.json": {}, "yarn.lock": {}, "pnpm-lock.yaml": {},
	".next": {}, ".nuxt": {}, "dist": {}, "build": {}, ".cache": {}, ".parcel-cache": {},
	".turbo": {}, ".vercel": {}, ".output": {}, ".contentlayer": {},
	"out": {}, "coverage": {}, ".nyc_output": {}, "storybook-static": {},
	".env": {}, ".env.local": {}, ".env.development": {}, ".env.production": {},
	".git": {}, ".svn": {}, ".hg": {}, "CVS": {},
}

// Extensions of binary, media and generated files a scan skips outright.
var excludedExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".ico": {}, ".svg": {},
	".webp": {}, ".avif": {},
	".mp4": {}, ".webm": {}, ".mov": {}, ".mp3": {}, ".wav": {}, ".ogg": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".7z": {}, ".rar": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".bin": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".pyc": {}, ".pyo": {}, ".pyd": {}, ".egg": {}, ".whl": {},
	".db": {}, ".sqlite": {}, ".sqlite3": {}, ".log": {},
	".map": {}, ".min.js": {}, ".min.css": {}, ".bundle.js": {}, ".bundle.css": {},
	".tmp": {}, ".temp": {},
	".ttf": {}, ".otf": {}, ".woff": {}, ".woff2": {}, ".eot": {},
}

// ScanReport lists what a directory scan accepted and what it passed over.
type ScanReport struct {
	Loaded  []string // normalized paths that passed every filter
	Skipped []string // paths skipped, some annotated with the reason
}

// ScanDir walks root and returns the text files worth loading into
// conversation context. Hidden entries, denylisted directory names,
// denylisted extensions, oversized files and binary files are skipped
// and reported, never fatal. The scan stops accepting files once
// maxScanFiles have been collected.
func (s *Store) ScanDir(root string) (ScanReport, error) {
	var report ScanReport

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			report.Skipped = append(report.Skipped, path)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if _, excluded := excludedNames[name]; excluded {
				return fs.SkipDir
			}
			return nil
		}

		if len(report.Loaded) >= maxScanFiles {
			return fs.SkipAll
		}

		if strings.HasPrefix(name, ".") {
			report.Skipped = append(report.Skipped, path)
			return nil
		}
		if _, excluded := excludedNames[name]; excluded {
			report.Skipped = append(report.Skipped, path)
			return nil
		}
		if _, excluded := excludedExtensions[strings.ToLower(filepath.Ext(name))]; excluded {
			report.Skipped = append(report.Skipped, path)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			report.Skipped = append(report.Skipped, path)
			return nil
		}
		if info.Size() > MaxFileBytes {
			report.Skipped = append(report.Skipped, fmt.Sprintf("%s (exceeds size limit)", path))
			return nil
		}
		if s.IsBinary(path) {
			report.Skipped = append(report.Skipped, path)
			return nil
		}

		normalized, err := pathguard.Normalize(path)
		if err != nil {
			report.Skipped = append(report.Skipped, path)
			return nil
		}

		report.Loaded = append(report.Loaded, normalized)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("scan %s: %w", root, err)
	}

	return report, nil
}
