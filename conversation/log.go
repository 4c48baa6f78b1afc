// Package conversation owns the in-memory message log for one session.
//
// Information Hiding:
// - Message slice never escapes; Snapshot returns a copy
// - Trim policy and pairing repair internalized
// - File-context markers hidden behind the Loader
package conversation

import (
	"strings"

	"quill/llm"
)

const (
	// trimThreshold is the total message count below which Trim is a no-op.
	trimThreshold = 20
	// keepRecent is how many non-system messages survive a trim.
	keepRecent = 15
)

// Log is the ordered conversation message log. The first message is the
// session system prompt and is never removed. A Log is confined to one
// turn driver at a time; it is not safe for concurrent use.
type Log struct {
	messages []llm.ChatMessage
}

// New creates a log seeded with the session system prompt.
func New(systemPrompt string) *Log {
	return &Log{
		messages: []llm.ChatMessage{llm.SystemMessage(systemPrompt)},
	}
}

// Append adds a message to the log.
func (l *Log) Append(msg llm.ChatMessage) {
	l.messages = append(l.messages, msg)
}

// AppendUser adds a user message.
func (l *Log) AppendUser(text string) {
	l.Append(llm.UserMessage(text))
}

// AppendSystem adds a system message (used for injected file context).
func (l *Log) AppendSystem(text string) {
	l.Append(llm.SystemMessage(text))
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return len(l.messages)
}

// Reset drops everything but the session system prompt.
func (l *Log) Reset() {
	l.messages = l.messages[:1]
}

// Snapshot returns a copy of the message sequence for a model request.
func (l *Log) Snapshot() []llm.ChatMessage {
	out := make([]llm.ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// ContainsMarker reports whether any message content contains marker.
func (l *Log) ContainsMarker(marker string) bool {
	for _, msg := range l.messages {
		if strings.Contains(msg.Content, marker) {
			return true
		}
	}
	return false
}

// Trim bounds the log's growth. Below trimThreshold total messages it
// does nothing. Otherwise it retains every system message in order
// followed by the keepRecent most recent non-system messages, then drops
// any leading tool messages whose pairing assistant fell outside the
// retained tail, so no tool response is left without the assistant
// tool-call it answers.
func (l *Log) Trim() {
	if len(l.messages) <= trimThreshold {
		return
	}

	var system, rest []llm.ChatMessage
	for _, msg := range l.messages {
		if msg.Role == llm.RoleSystem {
			system = append(system, msg)
		} else {
			rest = append(rest, msg)
		}
	}

	if len(rest) > keepRecent {
		rest = rest[len(rest)-keepRecent:]
	}
	for len(rest) > 0 && rest[0].Role == llm.RoleTool {
		rest = rest[1:]
	}

	trimmed := make([]llm.ChatMessage, 0, len(system)+len(rest))
	trimmed = append(trimmed, system...)
	trimmed = append(trimmed, rest...)
	l.messages = trimmed
}
