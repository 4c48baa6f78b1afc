// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Mapping of provider stream events onto StreamEvent

package llm

import (
	"context"
)

// Provider defines the abstract interface for streamed model turns.
// Implementations hide provider-specific details while exposing a
// consistent incremental event stream.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// StreamTurn opens one streamed chat completion over messages with
	// the given tool definitions attached, and sends each increment on
	// events in arrival order. The provider never closes events; the
	// caller owns the channel. Returns when the stream is drained or on
	// the first transport error.
	StreamTurn(ctx context.Context, messages []ChatMessage, tools []ToolDefinition, events chan<- StreamEvent) error
}
