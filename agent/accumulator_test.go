package agent

import (
	"testing"
	"time"

	"quill/llm"
)

func TestAccumulatorFragmentedCall(t *testing.T) {
	var acc accumulator
	acc.add(llm.ToolCallDelta{Index: 0, ID: "call_abc", Name: "create_"})
	acc.add(llm.ToolCallDelta{Index: 0, Name: "file"})
	acc.add(llm.ToolCallDelta{Index: 0, Arguments: `{"file_pa`})
	acc.add(llm.ToolCallDelta{Index: 0, Arguments: `th":"a.txt"}`})

	calls := acc.finalize(time.Now())
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].ID != "call_abc" {
		t.Errorf("expected stream-provided id, got %q", calls[0].ID)
	}
	if calls[0].Name != "create_file" {
		t.Errorf("expected reassembled name, got %q", calls[0].Name)
	}
	if string(calls[0].Arguments) != `{"file_path":"a.txt"}` {
		t.Errorf("expected reassembled arguments, got %q", calls[0].Arguments)
	}
}

func TestAccumulatorSparseIndices(t *testing.T) {
	var acc accumulator
	acc.add(llm.ToolCallDelta{Index: 2, Name: "edit_file", Arguments: `{}`})
	acc.add(llm.ToolCallDelta{Index: 0, Name: "read_file", Arguments: `{}`})

	calls := acc.finalize(time.Now())
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	// Slot order, not arrival order.
	if calls[0].Name != "read_file" || calls[1].Name != "edit_file" {
		t.Errorf("unexpected order: %q, %q", calls[0].Name, calls[1].Name)
	}
}

func TestAccumulatorSynthesizesMissingID(t *testing.T) {
	var acc accumulator
	acc.add(llm.ToolCallDelta{Index: 1, Name: "read_file"})

	now := time.UnixMilli(1700000000000)
	calls := acc.finalize(now)
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].ID != "call_1_1700000000000" {
		t.Errorf("unexpected synthesized id: %q", calls[0].ID)
	}
	if string(calls[0].Arguments) != "{}" {
		t.Errorf("empty arguments should default to an empty object, got %q", calls[0].Arguments)
	}
}

func TestAccumulatorDropsUnnamedSlots(t *testing.T) {
	var acc accumulator
	acc.add(llm.ToolCallDelta{Index: 0, Arguments: `{"orphan": true}`})
	acc.add(llm.ToolCallDelta{Index: 1, Name: "read_file"})

	calls := acc.finalize(time.Now())
	if len(calls) != 1 || calls[0].Name != "read_file" {
		t.Errorf("expected only the named call, got %v", calls)
	}
}

func TestAccumulatorEmpty(t *testing.T) {
	var acc accumulator
	if !acc.empty() {
		t.Error("fresh accumulator should be empty")
	}
	acc.add(llm.ToolCallDelta{Index: 0, Arguments: "{"})
	if !acc.empty() {
		t.Error("argument-only fragments do not make a completed call")
	}
	acc.add(llm.ToolCallDelta{Index: 0, Name: "read_file"})
	if acc.empty() {
		t.Error("named slot should count as non-empty")
	}
}
