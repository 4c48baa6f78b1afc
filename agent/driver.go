// Package agent drives one streamed model turn to completion: stream,
// assemble tool calls, dispatch, stream the follow-up.
//
// Information Hiding:
// - Tool-call reassembly hidden in the accumulator
// - Stream plumbing (channel, goroutine, error path) hidden in stream()
// - Display concerns pushed behind the Sink interface
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quill/conversation"
	"quill/llm"
	"quill/tools"
)

// TurnError reports a failed model call. The conversation log keeps the
// user message that started the turn, so a retry carries full history.
type TurnError struct {
	Provider string
	Err      error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("model turn failed (%s): %v", e.Provider, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// Sink receives display output as a turn progresses. Reasoning text goes
// only here; it is never stored in the conversation.
type Sink interface {
	Reasoning(text string)
	Content(text string)
	ToolDispatch(name string)
	Status(text string)
}

// NopSink discards all display output.
type NopSink struct{}

func (NopSink) Reasoning(string)    {}
func (NopSink) Content(string)      {}
func (NopSink) ToolDispatch(string) {}
func (NopSink) Status(string)       {}

// Driver runs model turns against one provider, one log and one tool
// registry. One turn at a time; the driver owns the log for the
// duration of RunTurn.
type Driver struct {
	log      *conversation.Log
	provider llm.Provider
	registry *tools.Registry
	sink     Sink
	now      func() time.Time
}

// NewDriver creates a turn driver. A nil sink discards display output.
func NewDriver(log *conversation.Log, provider llm.Provider, registry *tools.Registry, sink Sink) *Driver {
	if sink == nil {
		sink = NopSink{}
	}
	return &Driver{
		log:      log,
		provider: provider,
		registry: registry,
		sink:     sink,
		now:      time.Now,
	}
}

// turnOutcome is what one streamed model request produced.
type turnOutcome struct {
	content string
	calls   accumulator
}

// stream runs one streamed request over the current log snapshot,
// forwarding display output to the sink and collecting answer text and
// tool-call fragments.
func (d *Driver) stream(ctx context.Context) (turnOutcome, error) {
	events := make(chan llm.StreamEvent)
	errCh := make(chan error, 1)

	go func() {
		defer close(events)
		errCh <- d.provider.StreamTurn(ctx, d.log.Snapshot(), d.registry.Definitions(), events)
	}()

	var outcome turnOutcome
	var content strings.Builder
	for ev := range events {
		switch {
		case ev.Reasoning != "":
			d.sink.Reasoning(ev.Reasoning)
		case ev.Content != "":
			content.WriteString(ev.Content)
			d.sink.Content(ev.Content)
		case ev.ToolCall != nil:
			outcome.calls.add(*ev.ToolCall)
		}
	}
	if err := <-errCh; err != nil {
		return turnOutcome{}, err
	}
	outcome.content = content.String()
	return outcome, nil
}

// RunTurn processes one user input to completion: appends it, streams
// the model's answer, dispatches any requested tool calls in emission
// order, then streams the follow-up answer. A first-stream failure
// aborts the turn with *TurnError and leaves the log exactly as it was
// after the user append.
func (d *Driver) RunTurn(ctx context.Context, userText string) error {
	d.log.AppendUser(userText)
	d.log.Trim()

	first, err := d.stream(ctx)
	if err != nil {
		return &TurnError{Provider: d.provider.Name(), Err: err}
	}

	if first.calls.empty() {
		d.log.Append(llm.AssistantMessage(first.content))
		return nil
	}

	// The assistant message that carries tool calls carries no text.
	calls := first.calls.finalize(d.now())
	d.log.Append(llm.ChatMessage{
		Role:      llm.RoleAssistant,
		ToolCalls: calls,
	})

	// Strictly sequential, in emission order: later calls may depend on
	// files earlier calls wrote. Every call gets a tool response, even
	// when dispatch reports a failure.
	for _, call := range calls {
		d.sink.ToolDispatch(call.Name)
		result := d.registry.Dispatch(ctx, call)
		d.log.Append(llm.ToolMessage(call.ID, result))
	}

	d.sink.Status("processing tool results")
	second, err := d.stream(ctx)
	if err != nil {
		return &TurnError{Provider: d.provider.Name(), Err: err}
	}

	// The follow-up turn only drains text. Tool calls requested here are
	// not dispatched again in the same user turn.
	d.log.Append(llm.AssistantMessage(second.content))
	return nil
}
