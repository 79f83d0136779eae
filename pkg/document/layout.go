package document

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Rect is an on-screen box in pixels
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the lower edge of the box
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns the right edge of the box
func (r Rect) Right() float64 { return r.Left + r.Width }

// Layout maps a caret position to screen geometry.
// blocks holds the plain text of every block; offset is a character offset in blocks[block].
type Layout interface {
	Rect(blocks []string, block, offset int) (Rect, error)
}

// GridLayout lays text out on a fixed character grid, the way a monospace
// textarea of the client renders it. Wide (CJK) characters take two cells.
type GridLayout struct {
	Top        float64
	Left       float64
	CharWidth  float64
	LineHeight float64
	Columns    int // 0 disables wrapping
}

// Rect returns the caret box at offset in block
func (g GridLayout) Rect(blocks []string, block, offset int) (Rect, error) {
	if block < 0 || block >= len(blocks) {
		return Rect{}, fmt.Errorf("%w: block %d", ErrInvalidPath, block)
	}

	line := 0
	for i := 0; i < block; i++ {
		l, _ := g.locate(blocks[i], -1)
		line += l + 1
	}

	runes := []rune(blocks[block])
	if offset < 0 || offset > len(runes) {
		return Rect{}, fmt.Errorf("%w: offset %d in block %d", ErrInvalidPoint, offset, block)
	}
	l, col := g.locate(blocks[block], offset)

	return Rect{
		Top:    g.Top + float64(line+l)*g.LineHeight,
		Left:   g.Left + float64(col)*g.CharWidth,
		Width:  1,
		Height: g.LineHeight,
	}, nil
}

// locate returns the wrapped line and cell column reached after offset characters
// of text. offset < 0 walks the whole text.
func (g GridLayout) locate(text string, offset int) (line, col int) {
	for i, r := range []rune(text) {
		if offset >= 0 && i >= offset {
			break
		}
		w := runewidth.RuneWidth(r)
		if g.Columns > 0 && col+w > g.Columns {
			line++
			col = 0
		}
		col += w
	}
	return line, col
}
