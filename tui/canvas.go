// Package tui draws the simulation on a character grid and maps keys to
// game actions.
package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Canvas is the part of tcell.Screen the renderer needs.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

type cell struct {
	r     rune
	style tcell.Style
}

// Buffer is an in-memory Canvas.
type Buffer struct {
	width, height int
	cells         []cell
}

func NewBuffer(width, height int) *Buffer {
	b := &Buffer{width: width, height: height, cells: make([]cell, width*height)}
	b.Clear()
	return b
}

func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = cell{r: ' ', style: tcell.StyleDefault}
	}
}

func (b *Buffer) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = cell{r: primary, style: style}
}

func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Get returns the rune and style at (x, y).
func (b *Buffer) Get(x, y int) (rune, tcell.Style) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, tcell.StyleDefault
	}
	c := b.cells[y*b.width+x]
	return c.r, c.style
}

// Row returns line y with trailing spaces trimmed.
func (b *Buffer) Row(y int) string {
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		r, _ := b.Get(x, y)
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func drawText(c Canvas, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		c.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
