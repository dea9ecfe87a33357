// Package tui hosts the engine in a Bubble Tea terminal UI, locally or over
// SSH.
package tui

// History is a bounded log of recent game messages, newest last.
type History struct {
	entries []string
	max     int
}

// NewHistory creates a history buffer with the given maximum size.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
	}
}

// Push adds a message. Consecutive duplicates are skipped.
func (h *History) Push(msg string) {
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == msg {
		return
	}
	h.entries = append(h.entries, msg)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Last returns the newest message.
// Returns ("", false) if history is empty.
func (h *History) Last() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

// Recent returns up to n of the newest messages, oldest first.
func (h *History) Recent(n int) []string {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	return append([]string(nil), h.entries[len(h.entries)-n:]...)
}

// Len is the number of stored messages.
func (h *History) Len() int { return len(h.entries) }
