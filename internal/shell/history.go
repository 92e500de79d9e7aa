package shell

import "slices"

// CommandHistory is a bounded list of entered lines with a browsing cursor.
// The cursor ranges over [0, Len()]; Len() stands for the fresh line being
// typed.
type CommandHistory struct {
	entries []string
	cursor  int
	limit   int
}

// NewCommandHistory creates a history that keeps at most limit lines.
func NewCommandHistory(limit int) *CommandHistory {
	return &CommandHistory{
		entries: make([]string, 0, limit),
		limit:   limit,
	}
}

func (h *CommandHistory) Len() int {
	return len(h.entries)
}

// Add records line and moves the cursor back to the fresh line. Blank lines
// and repeats of the newest entry are not recorded.
func (h *CommandHistory) Add(line string) {
	if line != "" && (len(h.entries) == 0 || h.entries[len(h.entries)-1] != line) {
		if h.limit > 0 && len(h.entries) == h.limit {
			h.entries = slices.Delete(h.entries, 0, 1)
		}
		h.entries = append(h.entries, line)
	}
	h.ResetPosition()
}

// Previous steps towards older entries. It reports false at the oldest one.
func (h *CommandHistory) Previous() (string, bool) {
	return h.step(-1)
}

// Next steps towards newer entries. Stepping past the newest returns to the
// fresh line and reports false.
func (h *CommandHistory) Next() (string, bool) {
	return h.step(1)
}

func (h *CommandHistory) step(delta int) (string, bool) {
	next := h.cursor + delta
	switch {
	case next < 0:
		return "", false
	case next >= len(h.entries):
		h.cursor = len(h.entries)
		return "", false
	}
	h.cursor = next
	return h.entries[next], true
}

// ResetPosition moves the cursor to the fresh line.
func (h *CommandHistory) ResetPosition() {
	h.cursor = len(h.entries)
}
