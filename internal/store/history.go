package store

import (
	"sync"

	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

// History is the undo/redo log: two stacks of AppState snapshots. The live
// state is never a member of either stack; only pre-mutation copies are.
// Every user-initiated mutating action records the state as it existed
// immediately before the action, so one undo always lands exactly there.
type History struct {
	mu     sync.Mutex
	past   []schema.AppState
	future []schema.AppState
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Record pushes a pre-mutation snapshot onto the past stack and clears the
// future stack: a new action invalidates any redo branch.
func (h *History) Record(state schema.AppState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.past = append(h.past, state.Clone())
	h.future = nil
}

// Undo pops the most recent past snapshot and returns it, pushing the
// given live state onto the future stack. Reports false (and changes
// nothing) when there is nothing to undo.
func (h *History) Undo(live schema.AppState) (schema.AppState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.past) == 0 {
		return schema.AppState{}, false
	}
	top := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, live.Clone())
	return top, true
}

// Redo is the symmetric operation using the future stack.
func (h *History) Redo(live schema.AppState) (schema.AppState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.future) == 0 {
		return schema.AppState{}, false
	}
	top := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, live.Clone())
	return top, true
}

// CanUndo reports whether the past stack is non-empty.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past) > 0
}

// CanRedo reports whether the future stack is non-empty.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.future) > 0
}
