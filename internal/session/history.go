package session

// maxHistory bounds the jump history; the oldest entries are dropped.
const maxHistory = 100

// history records cursor positions left by jumps so they can be revisited,
// the way an editor keeps undo and redo stacks.
type history struct {
	back    []int
	forward []int
}

// record pushes the position being jumped away from and clears the forward
// stack.
func (h *history) record(from int) {
	h.back = append(h.back, from)
	if len(h.back) > maxHistory {
		h.back = h.back[len(h.back)-maxHistory:]
	}
	h.forward = h.forward[:0]
}

// undo pops the last recorded position, remembering current for redo.
func (h *history) undo(current int) (int, bool) {
	if len(h.back) == 0 {
		return 0, false
	}
	last := len(h.back) - 1
	to := h.back[last]
	h.back = h.back[:last]
	h.forward = append(h.forward, current)
	return to, true
}

func (h *history) redo(current int) (int, bool) {
	if len(h.forward) == 0 {
		return 0, false
	}
	last := len(h.forward) - 1
	to := h.forward[last]
	h.forward = h.forward[:last]
	h.back = append(h.back, current)
	return to, true
}

func (h *history) reset() {
	h.back = h.back[:0]
	h.forward = h.forward[:0]
}

func (h *history) canUndo() bool { return len(h.back) > 0 }
func (h *history) canRedo() bool { return len(h.forward) > 0 }
