package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/conversation"
	"quill/llm"
	"quill/tools"
	"quill/workspace"
)

// scriptedProvider replays a fixed sequence of streamed turns.
type scriptedProvider struct {
	turns [][]llm.StreamEvent
	errs  []error
	call  int
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "test-model" }

func (p *scriptedProvider) StreamTurn(ctx context.Context, messages []llm.ChatMessage, defs []llm.ToolDefinition, events chan<- llm.StreamEvent) error {
	i := p.call
	p.call++
	if i >= len(p.turns) {
		return fmt.Errorf("unexpected call %d", i)
	}
	for _, ev := range p.turns[i] {
		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.errs[i]
}

// recordingSink captures display output for assertions.
type recordingSink struct {
	reasoning strings.Builder
	content   strings.Builder
	dispatch  []string
}

func (s *recordingSink) Reasoning(text string)    { s.reasoning.WriteString(text) }
func (s *recordingSink) Content(text string)      { s.content.WriteString(text) }
func (s *recordingSink) ToolDispatch(name string) { s.dispatch = append(s.dispatch, name) }
func (s *recordingSink) Status(string)            {}

func newDriverFixture(t *testing.T, provider llm.Provider, sink Sink) (*Driver, *conversation.Log, string) {
	t.Helper()
	store := workspace.NewStore()
	log := conversation.New("system prompt")
	loader := conversation.NewLoader(log, store)
	registry, err := tools.NewFileRegistry(store, loader)
	if err != nil {
		t.Fatal(err)
	}
	return NewDriver(log, provider, registry, sink), log, t.TempDir()
}

func toolCallEvents(index int, id, name, args string) []llm.StreamEvent {
	// Fragments split mid-token, the way real streams arrive.
	half := len(args) / 2
	return []llm.StreamEvent{
		{ToolCall: &llm.ToolCallDelta{Index: index, ID: id, Name: name[:len(name)/2]}},
		{ToolCall: &llm.ToolCallDelta{Index: index, Name: name[len(name)/2:]}},
		{ToolCall: &llm.ToolCallDelta{Index: index, Arguments: args[:half]}},
		{ToolCall: &llm.ToolCallDelta{Index: index, Arguments: args[half:]}},
	}
}

func TestRunTurnPlainAnswer(t *testing.T) {
	provider := &scriptedProvider{
		turns: [][]llm.StreamEvent{
			{{Content: "Hello"}, {Content: " there"}},
		},
		errs: []error{nil},
	}
	sink := &recordingSink{}
	driver, log, _ := newDriverFixture(t, provider, sink)

	if err := driver.RunTurn(context.Background(), "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := log.Snapshot()
	if len(msgs) != 3 {
		t.Fatalf("expected system+user+assistant, got %d messages", len(msgs))
	}
	if msgs[2].Role != llm.RoleAssistant || msgs[2].Content != "Hello there" {
		t.Errorf("unexpected assistant message: %+v", msgs[2])
	}
	if sink.content.String() != "Hello there" {
		t.Errorf("content not streamed to sink: %q", sink.content.String())
	}
}

func TestRunTurnCreateFileScenario(t *testing.T) {
	sink := &recordingSink{}
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	args := fmt.Sprintf(`{"file_path": %q, "content": "Hi"}`, path)

	provider := &scriptedProvider{
		turns: [][]llm.StreamEvent{
			toolCallEvents(0, "call_abc", "create_file", args),
			{{Content: "Created hello.txt for you."}},
		},
		errs: []error{nil, nil},
	}
	driver, log, _ := newDriverFixture(t, provider, sink)

	if err := driver.RunTurn(context.Background(), "create a file hello.txt with content Hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if string(data) != "Hi" {
		t.Errorf("file content %q, want %q", data, "Hi")
	}

	msgs := log.Snapshot()
	// system, user, assistant(tool call), tool result, closing assistant
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(msgs))
	}
	assistant := msgs[2]
	if assistant.Content != "" {
		t.Errorf("tool-calling assistant message must carry no text, got %q", assistant.Content)
	}
	if len(assistant.ToolCalls) != 1 || assistant.ToolCalls[0].ID != "call_abc" {
		t.Fatalf("unexpected tool calls: %+v", assistant.ToolCalls)
	}
	toolMsg := msgs[3]
	if toolMsg.Role != llm.RoleTool || toolMsg.ToolCallID != "call_abc" {
		t.Errorf("tool response not paired: %+v", toolMsg)
	}
	if !strings.Contains(toolMsg.Content, "Successfully created file") {
		t.Errorf("unexpected tool result: %q", toolMsg.Content)
	}
	if msgs[4].Content != "Created hello.txt for you." {
		t.Errorf("unexpected closing message: %+v", msgs[4])
	}
	if len(sink.dispatch) != 1 || sink.dispatch[0] != "create_file" {
		t.Errorf("dispatch not reported to sink: %v", sink.dispatch)
	}
}

func TestRunTurnEditScenarioAutoLoads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("x = 1\nprint(x)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	args := fmt.Sprintf(`{"file_path": %q, "original_snippet": "x = 1", "new_snippet": "y = 1"}`, path)

	provider := &scriptedProvider{
		turns: [][]llm.StreamEvent{
			toolCallEvents(0, "call_edit", "edit_file", args),
			{{Content: "Renamed."}},
		},
		errs: []error{nil, nil},
	}
	driver, log, _ := newDriverFixture(t, provider, &recordingSink{})

	if err := driver.RunTurn(context.Background(), "rename variable x to y in app.py"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "y = 1\nprint(x)\n" {
		t.Errorf("unexpected file content: %q", data)
	}
	if !log.ContainsMarker("Content of file '" + path + "'") {
		t.Error("edit should have auto-loaded the file into context")
	}
}

func TestRunTurnEditAmbiguityReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	original := "x = 1\nx = 1\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}
	args := fmt.Sprintf(`{"file_path": %q, "original_snippet": "x = 1", "new_snippet": "y = 1"}`, path)

	provider := &scriptedProvider{
		turns: [][]llm.StreamEvent{
			toolCallEvents(0, "call_edit", "edit_file", args),
			{{Content: "That snippet is ambiguous."}},
		},
		errs: []error{nil, nil},
	}
	driver, log, _ := newDriverFixture(t, provider, &recordingSink{})

	if err := driver.RunTurn(context.Background(), "rename x"); err != nil {
		t.Fatalf("the turn itself must not fail: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Errorf("ambiguous edit changed the file: %q", data)
	}
	var toolMsg llm.ChatMessage
	for _, msg := range log.Snapshot() {
		if msg.Role == llm.RoleTool {
			toolMsg = msg
		}
	}
	if !strings.Contains(toolMsg.Content, "appears 2 times") {
		t.Errorf("ambiguity not reported in tool result: %q", toolMsg.Content)
	}
}

func TestRunTurnSequentialDispatchOrder(t *testing.T) {
	sink := &recordingSink{}
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.txt")
	createArgs := fmt.Sprintf(`{"file_path": %q, "content": "v1"}`, path)
	editArgs := fmt.Sprintf(`{"file_path": %q, "original_snippet": "v1", "new_snippet": "v2"}`, path)

	first := append(
		toolCallEvents(0, "call_1", "create_file", createArgs),
		toolCallEvents(1, "call_2", "edit_file", editArgs)...)
	provider := &scriptedProvider{
		turns: [][]llm.StreamEvent{first, {{Content: "Done."}}},
		errs:  []error{nil, nil},
	}
	driver, _, _ := newDriverFixture(t, provider, sink)

	if err := driver.RunTurn(context.Background(), "create then edit"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The edit only succeeds if the create ran first.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v2" {
		t.Errorf("expected chained result v2, got %q", data)
	}
	if len(sink.dispatch) != 2 || sink.dispatch[0] != "create_file" || sink.dispatch[1] != "edit_file" {
		t.Errorf("dispatch order wrong: %v", sink.dispatch)
	}
}

func TestRunTurnFirstStreamFailureLeavesLogIntact(t *testing.T) {
	streamErr := errors.New("connection reset")
	provider := &scriptedProvider{
		turns: [][]llm.StreamEvent{{{Content: "partial"}}},
		errs:  []error{streamErr},
	}
	driver, log, _ := newDriverFixture(t, provider, &recordingSink{})

	err := driver.RunTurn(context.Background(), "hello?")
	var turnErr *TurnError
	if !errors.As(err, &turnErr) {
		t.Fatalf("expected *TurnError, got %v", err)
	}
	if !errors.Is(err, streamErr) {
		t.Errorf("TurnError should wrap the stream error")
	}

	msgs := log.Snapshot()
	if len(msgs) != 2 {
		t.Fatalf("expected system+user only, got %d messages", len(msgs))
	}
	if msgs[1].Role != llm.RoleUser || msgs[1].Content != "hello?" {
		t.Errorf("user message must survive the failed turn: %+v", msgs[1])
	}
}

func TestRunTurnReasoningDisplayedNotStored(t *testing.T) {
	sink := &recordingSink{}
	provider := &scriptedProvider{
		turns: [][]llm.StreamEvent{
			{{Reasoning: "thinking about it"}, {Content: "Answer."}},
		},
		errs: []error{nil},
	}
	driver, log, _ := newDriverFixture(t, provider, sink)

	if err := driver.RunTurn(context.Background(), "question"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sink.reasoning.String() != "thinking about it" {
		t.Errorf("reasoning not surfaced: %q", sink.reasoning.String())
	}
	for _, msg := range log.Snapshot() {
		if strings.Contains(msg.Content, "thinking about it") {
			t.Error("reasoning text leaked into the conversation log")
		}
	}
}

func TestRunTurnUnknownToolStillAnswered(t *testing.T) {
	provider := &scriptedProvider{
		turns: [][]llm.StreamEvent{
			{{ToolCall: &llm.ToolCallDelta{Index: 0, ID: "call_x", Name: "launch_rocket", Arguments: "{}"}}},
			{{Content: "Sorry, no such tool."}},
		},
		errs: []error{nil, nil},
	}
	driver, log, _ := newDriverFixture(t, provider, &recordingSink{})

	if err := driver.RunTurn(context.Background(), "do something odd"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var toolMsg llm.ChatMessage
	for _, msg := range log.Snapshot() {
		if msg.Role == llm.RoleTool {
			toolMsg = msg
		}
	}
	if toolMsg.ToolCallID != "call_x" {
		t.Fatalf("missing tool response for unknown tool: %+v", toolMsg)
	}
	if toolMsg.Content != "Unknown function: launch_rocket" {
		t.Errorf("unexpected result: %q", toolMsg.Content)
	}
}
