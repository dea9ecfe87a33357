package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// seedDigits is how much of the hex seed the status bar shows.
const seedDigits = 8

// renderStatusBar produces a full-width inverted status line showing the
// current segment, position, mode, inventory and step count, with the newest
// message in between when it fits.
func (m Model) renderStatusBar() string {
	e := m.engine

	var left string
	if w := e.World(); w != nil {
		left = fmt.Sprintf(" Segment %d (%d,%d) | %s | Inv: %d",
			w.SegmentID, w.Player.XY.X, w.Player.XY.Y, e.Mode, len(w.Player.Inventory))
	} else {
		left = " No world"
	}

	seed := e.Seed().String()
	if len(seed) > seedDigits {
		seed = seed[:seedDigits]
	}
	right := fmt.Sprintf("Steps: %d | Seed: %s ", e.StepCount, seed)

	style := styleStatusBar
	if e.Won {
		style = styleVictory
	}

	if msg, ok := m.history.Last(); ok {
		candidate := left + " | " + msg
		if lipgloss.Width(candidate)+lipgloss.Width(right)+2 < m.width {
			left = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return style.Width(m.width).Render(bar)
}
