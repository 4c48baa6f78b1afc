// Tool registration and dispatch.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Dispatch error conversion hidden from the turn driver

package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"quill/llm"
)

// Registry manages the catalog of callable tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a new tool to the registry.
// Returns error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Metadata().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the tool declarations to attach to a model request,
// in registration order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		meta := r.tools[name].Metadata()
		defs = append(defs, llm.ToolDefinition{
			Name:        meta.Name,
			Description: meta.Description,
			Parameters:  meta.Parameters,
		})
	}
	return defs
}

// Dispatch executes one model-requested call and returns the result text.
// It never fails past this boundary: unknown tools, malformed arguments
// and operation failures all come back as descriptive result text, so
// the caller can always append the tool response the protocol requires.
func (r *Registry) Dispatch(ctx context.Context, call llm.ToolCall) string {
	tool, exists := r.Get(call.Name)
	if !exists {
		return fmt.Sprintf("Unknown function: %s", call.Name)
	}

	result := tool.Execute(ctx, call.Arguments)
	if result.Error != nil {
		return fmt.Sprintf("Error executing %s: %v", call.Name, result.Error)
	}
	return result.Output
}
