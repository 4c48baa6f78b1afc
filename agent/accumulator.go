package agent

import (
	"fmt"
	"time"

	"quill/llm"
)

// partialCall is one in-flight tool call being reassembled from stream
// fragments. Name and args are append-only: a single logical token may
// arrive split across events, so nothing is parsed until finalize.
type partialCall struct {
	id   string
	name string
	args string
}

// accumulator reassembles tool calls from index-keyed stream deltas.
// Indices may arrive sparsely and out of order; the slice grows to fit
// the highest index seen without losing earlier slots.
type accumulator struct {
	slots []partialCall
}

// add merges one delta into its slot.
func (a *accumulator) add(delta llm.ToolCallDelta) {
	if delta.Index < 0 {
		return
	}
	for len(a.slots) <= delta.Index {
		a.slots = append(a.slots, partialCall{})
	}
	slot := &a.slots[delta.Index]
	if delta.ID != "" {
		slot.id = delta.ID
	}
	slot.name += delta.Name
	slot.args += delta.Arguments
}

// empty reports whether no fragments were seen.
func (a *accumulator) empty() bool {
	for _, slot := range a.slots {
		if slot.name != "" {
			return false
		}
	}
	return true
}

// finalize turns the accumulated fragments into completed tool calls,
// in slot order. Slots that never received a function name are dropped;
// calls the stream gave no id are assigned a synthesized one so every
// tool response can still reference its call.
func (a *accumulator) finalize(now time.Time) []llm.ToolCall {
	calls := make([]llm.ToolCall, 0, len(a.slots))
	for i, slot := range a.slots {
		if slot.name == "" {
			continue
		}
		id := slot.id
		if id == "" {
			id = fmt.Sprintf("call_%d_%d", i, now.UnixMilli())
		}
		args := slot.args
		if args == "" {
			args = "{}"
		}
		calls = append(calls, llm.ToolCall{
			ID:        id,
			Name:      slot.name,
			Arguments: []byte(args),
		})
	}
	return calls
}
