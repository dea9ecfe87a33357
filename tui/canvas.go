package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one terminal character: a rune over a background colour. Colours
// are 0xAARRGGBB; a zero colour leaves the terminal default.
type Cell struct {
	Rune rune
	FG   uint32
	BG   uint32
}

var blank = Cell{Rune: ' '}

// Canvas is a fixed-size grid of cells the painter fills and View prints.
type Canvas struct {
	cols, rows int
	cells      []Cell
}

// NewCanvas returns a blank cols x rows canvas.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
	c.Clear()
	return c
}

// Cols is the canvas width in cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows is the canvas height in cells.
func (c *Canvas) Rows() int { return c.rows }

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = blank
	}
}

// Set replaces the cell at (x, y). Out-of-bounds writes are dropped.
func (c *Canvas) Set(x, y int, cell Cell) {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return
	}
	c.cells[y*c.cols+x] = cell
}

// Get returns the cell at (x, y), or a blank cell out of bounds.
func (c *Canvas) Get(x, y int) Cell {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return blank
	}
	return c.cells[y*c.cols+x]
}

// Row returns the runes of row y.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.rows {
		return ""
	}
	var sb strings.Builder
	for _, cell := range c.cells[y*c.cols : (y+1)*c.cols] {
		sb.WriteRune(cell.Rune)
	}
	return sb.String()
}

// Render prints the top-left width x height window of the canvas. Runs of
// cells sharing colours are styled together to keep escape codes down.
func (c *Canvas) Render(width, height int) string {
	width, height = min(width, c.cols), min(height, c.rows)

	var sb strings.Builder
	sb.Grow(width*height*2 + height)
	for y := range height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < width {
			start := c.Get(x, y)
			var run strings.Builder
			for x < width {
				cell := c.Get(x, y)
				if cell.FG != start.FG || cell.BG != start.BG {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(cellStyle(start.FG, start.BG).Render(run.String()))
		}
	}
	return sb.String()
}

// cellStyle is the lipgloss style for a foreground/background pair.
func cellStyle(fg, bg uint32) lipgloss.Style {
	s := lipgloss.NewStyle()
	if fg != 0 {
		s = s.Foreground(hexColour(fg))
	}
	if bg != 0 {
		s = s.Background(hexColour(bg))
	}
	return s
}

func hexColour(argb uint32) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%06X", argb&0xFFFFFF))
}
