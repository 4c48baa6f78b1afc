// Filesystem tools: the file operations exposed to the model.
//
// Result strings are part of the model-facing contract; the model keys
// its next step off phrases like "Successfully created file".

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quill/conversation"
	"quill/pathguard"
	"quill/workspace"
)

const fileSeparator = "==================================================" // 50 chars

// ReadFileTool returns one file's content.
type ReadFileTool struct {
	store *workspace.Store
}

// NewReadFileTool creates a read_file tool backed by store.
func NewReadFileTool(store *workspace.Store) *ReadFileTool {
	return &ReadFileTool{store: store}
}

// Metadata returns the tool metadata.
func (t *ReadFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "read_file",
		Description: "Read the content of a single file from the filesystem",
		Parameters: schema(map[string]any{
			"file_path": property("string", "The path to the file to read"),
		}, "file_path"),
	}
}

// Execute reads the file and returns its content framed the same way the
// conversation loader frames injected files.
func (t *ReadFileTool) Execute(_ context.Context, args json.RawMessage) ToolResult {
	var params struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return FailureResultf("invalid arguments for read_file: %v", err)
	}

	path, err := pathguard.Normalize(params.FilePath)
	if err != nil {
		return FailureResult(err)
	}
	content, err := t.store.Read(path)
	if err != nil {
		return FailureResult(err)
	}
	return SuccessResult(conversation.FileContext(path, content))
}

// ReadMultipleFilesTool returns the contents of several files at once.
type ReadMultipleFilesTool struct {
	store *workspace.Store
}

// NewReadMultipleFilesTool creates a read_multiple_files tool backed by store.
func NewReadMultipleFilesTool(store *workspace.Store) *ReadMultipleFilesTool {
	return &ReadMultipleFilesTool{store: store}
}

// Metadata returns the tool metadata.
func (t *ReadMultipleFilesTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "read_multiple_files",
		Description: "Read the content of multiple files from the filesystem",
		Parameters: schema(map[string]any{
			"file_paths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Array of file paths to read",
			},
		}, "file_paths"),
	}
}

// Execute reads every requested file. A file that cannot be read
// contributes an error line to the combined output instead of failing
// the whole call.
func (t *ReadMultipleFilesTool) Execute(_ context.Context, args json.RawMessage) ToolResult {
	var params struct {
		FilePaths []string `json:"file_paths"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return FailureResultf("invalid arguments for read_multiple_files: %v", err)
	}

	sections := make([]string, 0, len(params.FilePaths))
	for _, raw := range params.FilePaths {
		path, err := pathguard.Normalize(raw)
		if err != nil {
			sections = append(sections, fmt.Sprintf("Error reading '%s': %v", raw, err))
			continue
		}
		content, err := t.store.Read(path)
		if err != nil {
			sections = append(sections, fmt.Sprintf("Error reading '%s': %v", path, err))
			continue
		}
		sections = append(sections, conversation.FileContext(path, content))
	}
	return SuccessResult(strings.Join(sections, "\n\n"+fileSeparator+"\n\n"))
}

// CreateFileTool creates or overwrites one file.
type CreateFileTool struct {
	store *workspace.Store
}

// NewCreateFileTool creates a create_file tool backed by store.
func NewCreateFileTool(store *workspace.Store) *CreateFileTool {
	return &CreateFileTool{store: store}
}

// Metadata returns the tool metadata.
func (t *CreateFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "create_file",
		Description: "Create a new file or overwrite an existing file with the provided content",
		Parameters: schema(map[string]any{
			"file_path": property("string", "The path for the file to create or overwrite"),
			"content":   property("string", "The content to write to the file"),
		}, "file_path", "content"),
	}
}

// Execute writes the file, creating parent directories as needed.
func (t *CreateFileTool) Execute(_ context.Context, args json.RawMessage) ToolResult {
	var params struct {
		FilePath string `json:"file_path"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return FailureResultf("invalid arguments for create_file: %v", err)
	}

	if err := t.store.Write(params.FilePath, params.Content); err != nil {
		return FailureResult(err)
	}
	return SuccessResult(fmt.Sprintf("Successfully created file '%s'", params.FilePath))
}

// CreateMultipleFilesTool creates a batch of files in order.
type CreateMultipleFilesTool struct {
	store *workspace.Store
}

// NewCreateMultipleFilesTool creates a create_multiple_files tool backed by store.
func NewCreateMultipleFilesTool(store *workspace.Store) *CreateMultipleFilesTool {
	return &CreateMultipleFilesTool{store: store}
}

// Metadata returns the tool metadata.
func (t *CreateMultipleFilesTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "create_multiple_files",
		Description: "Create multiple files in a single operation",
		Parameters: schema(map[string]any{
			"files": map[string]any{
				"type": "array",
				"items": schema(map[string]any{
					"path":    property("string", "The path for the file"),
					"content": property("string", "The content of the file"),
				}, "path", "content"),
				"description": "Array of files to create, each with a path and content",
			},
		}, "files"),
	}
}

// Execute writes the files in order and stops at the first failure.
// Files written before the failure stay on disk; the error names the
// file that failed and how many were written.
func (t *CreateMultipleFilesTool) Execute(_ context.Context, args json.RawMessage) ToolResult {
	var params struct {
		Files []struct {
			Path    string `json:"path"`
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return FailureResultf("invalid arguments for create_multiple_files: %v", err)
	}

	created := 0
	for _, f := range params.Files {
		if err := t.store.Write(f.Path, f.Content); err != nil {
			return FailureResultf("created %d of %d files, then failed on '%s': %v",
				created, len(params.Files), f.Path, err)
		}
		created++
	}
	return SuccessResult(fmt.Sprintf("Successfully created %d files", created))
}

// EditFileTool replaces one snippet occurrence in an existing file.
type EditFileTool struct {
	store  *workspace.Store
	loader *conversation.Loader
}

// NewEditFileTool creates an edit_file tool backed by store. The loader
// pulls the target file into conversation context before the edit so the
// model's next look at the file matches what is on disk.
func NewEditFileTool(store *workspace.Store, loader *conversation.Loader) *EditFileTool {
	return &EditFileTool{store: store, loader: loader}
}

// Metadata returns the tool metadata.
func (t *EditFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "edit_file",
		Description: "Edit an existing file by replacing an exact snippet with new content. The snippet must appear exactly once in the file.",
		Parameters: schema(map[string]any{
			"file_path":        property("string", "The path to the file to edit"),
			"original_snippet": property("string", "The exact text to find in the file (must occur exactly once)"),
			"new_snippet":      property("string", "The text to replace it with"),
		}, "file_path", "original_snippet", "new_snippet"),
	}
}

// Execute applies the snippet replacement. Missing and ambiguous
// snippets come back as descriptive failures the model can act on.
func (t *EditFileTool) Execute(_ context.Context, args json.RawMessage) ToolResult {
	var params struct {
		FilePath        string `json:"file_path"`
		OriginalSnippet string `json:"original_snippet"`
		NewSnippet      string `json:"new_snippet"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return FailureResultf("invalid arguments for edit_file: %v", err)
	}

	t.loader.EnsureLoaded(params.FilePath)

	err := t.store.ApplyEdit(params.FilePath, params.OriginalSnippet, params.NewSnippet)
	if err != nil {
		var ambiguous *workspace.AmbiguousEditError
		switch {
		case errors.Is(err, workspace.ErrSnippetNotFound):
			return FailureResultf("original snippet not found in '%s'", params.FilePath)
		case errors.As(err, &ambiguous):
			return FailureResultf("snippet appears %d times in '%s'; provide more context to make it unique",
				ambiguous.Occurrences, params.FilePath)
		default:
			return FailureResult(err)
		}
	}
	return SuccessResult(fmt.Sprintf("Successfully edited file '%s'", params.FilePath))
}

// NewFileRegistry builds a registry with the full filesystem tool set.
func NewFileRegistry(store *workspace.Store, loader *conversation.Loader) (*Registry, error) {
	registry := NewRegistry()
	all := []Tool{
		NewReadFileTool(store),
		NewReadMultipleFilesTool(store),
		NewCreateFileTool(store),
		NewCreateMultipleFilesTool(store),
		NewEditFileTool(store, loader),
	}
	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
