package tondo

import "image"

// MaxHistoryDepth bounds the number of undo snapshots kept in memory.
const MaxHistoryDepth = 20

// History is the bounded undo stack. Every entry is a full copy of the
// canvas buffer taken at stroke start; pushing past the bound evicts the
// oldest entry.
type History struct {
	snapshots []*image.NRGBA
	limit     int
}

// NewHistory creates an undo stack bounded to MaxHistoryDepth entries.
func NewHistory() *History {
	return &History{limit: MaxHistoryDepth}
}

// Push stores a snapshot, evicting the oldest one when the bound is reached.
// The snapshot is retained as is, the caller must pass an owned copy.
func (h *History) Push(snapshot *image.NRGBA) {
	if len(h.snapshots) >= h.limit {
		h.snapshots = h.snapshots[1:]
	}
	h.snapshots = append(h.snapshots, snapshot)
}

// Pop removes and returns the most recent snapshot,
// or nil when the stack is empty.
func (h *History) Pop() *image.NRGBA {
	if len(h.snapshots) == 0 {
		return nil
	}
	last := h.snapshots[len(h.snapshots)-1]
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	return last
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.snapshots)
}

// Clear empties the stack.
func (h *History) Clear() {
	h.snapshots = nil
}
