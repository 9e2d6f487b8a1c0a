package gridedit

import (
	"context"
	"fmt"
	"sync"
)

// DefaultMaxHistory is the number of commands History keeps by default.
const DefaultMaxHistory = 100

// History is a bounded, linear undo/redo stack. While a command's action is
// running, Execute, Undo and Redo calls are rejected.
type History struct {
	mu      sync.Mutex
	entries []Command
	cursor  int // index of the last applied command, -1 if none
	max     int
	busy    bool
	log     Logger
}

// NewHistory creates an empty History keeping at most max commands
// (DefaultMaxHistory if max <= 0).
func NewHistory(max int, log Logger) *History {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &History{cursor: -1, max: max, log: orNop(log)}
}

// begin marks the history busy. It returns false if an action is in flight.
func (h *History) begin() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.busy {
		return false
	}
	h.busy = true
	return true
}

func (h *History) end() {
	h.mu.Lock()
	h.busy = false
	h.mu.Unlock()
}

// Execute runs cmd's forward action and commits it, merging it into the
// command at the cursor when possible. It returns false without running cmd
// if another action is in flight, and false with the error if cmd fails.
func (h *History) Execute(ctx context.Context, cmd Command) (bool, error) {
	if !h.begin() {
		h.log.Debug("history busy, execute rejected", "command", cmd.Description())
		return false, nil
	}
	defer h.end()

	if err := cmd.Forward(ctx); err != nil {
		return false, fmt.Errorf("execute %q: %w", cmd.Description(), err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor >= 0 && h.cursor == len(h.entries)-1 {
		if merged, ok := TryMerge(h.entries[h.cursor], cmd); ok {
			h.entries[h.cursor] = merged
			h.log.Debug("merged history entry", "command", merged.Description())
			return true, nil
		}
	}

	h.entries = append(h.entries[:h.cursor+1], cmd)
	h.cursor++
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = append([]Command(nil), h.entries[over:]...)
		h.cursor -= over
		h.log.Debug("evicted history entries", "count", over)
	}
	return true, nil
}

// Undo reverts the command at the cursor. It returns false if there is
// nothing to undo, another action is in flight, or the inverse fails.
func (h *History) Undo(ctx context.Context) (bool, error) {
	if !h.begin() {
		return false, nil
	}
	defer h.end()

	h.mu.Lock()
	if h.cursor < 0 {
		h.mu.Unlock()
		return false, nil
	}
	cmd := h.entries[h.cursor]
	h.mu.Unlock()

	if err := cmd.Inverse(ctx); err != nil {
		return false, fmt.Errorf("undo %q: %w", cmd.Description(), err)
	}

	h.mu.Lock()
	h.cursor--
	h.mu.Unlock()
	return true, nil
}

// Redo re-applies the command after the cursor.
func (h *History) Redo(ctx context.Context) (bool, error) {
	if !h.begin() {
		return false, nil
	}
	defer h.end()

	h.mu.Lock()
	if h.cursor >= len(h.entries)-1 {
		h.mu.Unlock()
		return false, nil
	}
	cmd := h.entries[h.cursor+1]
	h.mu.Unlock()

	if err := cmd.Forward(ctx); err != nil {
		return false, fmt.Errorf("redo %q: %w", cmd.Description(), err)
	}

	h.mu.Lock()
	h.cursor++
	h.mu.Unlock()
	return true, nil
}

// CanUndo reports whether there is a command to undo.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor >= 0
}

// CanRedo reports whether there is an undone command to redo.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.entries)-1
}

// UndoDescription returns the description of the command Undo would revert.
func (h *History) UndoDescription() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor < 0 {
		return ""
	}
	return h.entries[h.cursor].Description()
}

// RedoDescription returns the description of the command Redo would apply.
func (h *History) RedoDescription() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor >= len(h.entries)-1 {
		return ""
	}
	return h.entries[h.cursor+1].Description()
}

// Len returns the number of commands kept.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear drops all commands.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	h.cursor = -1
}
