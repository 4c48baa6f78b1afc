// Package llm provides shared data models for LLM providers.
package llm

import "encoding/json"

// Message roles understood by the chat protocol.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage represents a chat message with role and content.
//
// An assistant message that requests tools carries ToolCalls and an empty
// Content; the wire protocol rejects assistant turns mixing both. A tool
// message answers exactly one ToolCall via ToolCallID.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall represents a completed tool call requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition defines a tool that the LLM can call.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// StreamEvent is one increment of a streamed model turn. At most one of
// the fields is set per event.
type StreamEvent struct {
	Reasoning string         // model reasoning text, display-only
	Content   string         // answer text
	ToolCall  *ToolCallDelta // fragment of a tool call
}

// ToolCallDelta is a fragment of an in-progress tool call. Name and
// Arguments are partial strings that the consumer must concatenate per
// Index; a single JSON token may arrive split across several deltas, and
// the first delta for an index need not carry the name.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// SystemMessage creates a system message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// ToolMessage creates a tool-result message answering callID.
func ToolMessage(callID, content string) ChatMessage {
	return ChatMessage{Role: RoleTool, ToolCallID: callID, Content: content}
}
