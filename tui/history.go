// Package tui provides a Bubble Tea terminal UI for the logic explorer.
package tui

// History keeps the most recent commands in a fixed-size ring and walks it
// with a cursor for up/down recall.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	size   int
	cursor int // -1 when not navigating, else 0..size-1 from the oldest
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{ring: make([]string, max), cursor: -1}
}

func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push records a command. Repeating the newest command is a no-op; a full
// ring drops its oldest entry.
func (h *History) Push(cmd string) {
	if h.size > 0 && h.at(h.size-1) == cmd {
		return
	}
	if h.size < len(h.ring) {
		h.ring[(h.start+h.size)%len(h.ring)] = cmd
		h.size++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Prev steps to the next older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.size - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next steps to the next newer command. Stepping past the newest returns
// false and leaves navigation.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.size {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor leaves navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}

// Entries returns the commands from oldest to newest.
func (h *History) Entries() []string {
	out := make([]string, h.size)
	for i := range out {
		out[i] = h.at(i)
	}
	return out
}
