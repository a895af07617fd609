// Package render rasterizes the scene graph into a pixel frame and encodes
// frames for the terminal.
//
// A terminal cell holds two vertically stacked pixels drawn with the upper
// half block: the foreground is the top pixel and the background the bottom
// one. A frame of W × H pixels therefore fills W columns and H/2 rows.
package render

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Label is text drawn over the frame at a cell position.
type Label struct {
	Col, Row int
	Text     string
	Color    colorful.Color
}

// Frame is a rendered image plus its text overlays.
type Frame struct {
	W, H   int // pixels
	Pix    []colorful.Color
	Labels []Label
}

// NewFrame allocates a w × h pixel frame. h is rounded up to an even number
// so every cell has two pixels.
func NewFrame(w, h int) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if h%2 == 1 {
		h++
	}
	return &Frame{W: w, H: h, Pix: make([]colorful.Color, w*h)}
}

// FrameForCells allocates a frame covering cols × rows terminal cells.
func FrameForCells(cols, rows int) *Frame {
	return NewFrame(cols, rows*2)
}

// Cols returns the frame width in cells.
func (f *Frame) Cols() int { return f.W }

// Rows returns the frame height in cells.
func (f *Frame) Rows() int { return f.H / 2 }

// At returns the pixel at x, y, or black outside the frame.
func (f *Frame) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return colorful.Color{}
	}
	return f.Pix[y*f.W+x]
}

// Set writes the pixel at x, y. Writes outside the frame are ignored.
func (f *Frame) Set(x, y int, c colorful.Color) {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return
	}
	f.Pix[y*f.W+x] = c
}

// Clear fills the frame with c and drops all labels.
func (f *Frame) Clear(c colorful.Color) {
	for i := range f.Pix {
		f.Pix[i] = c
	}
	f.Labels = f.Labels[:0]
}

// AddLabel places text at a cell, shifting it left if it would run off the
// right edge.
func (f *Frame) AddLabel(col, row int, text string, c colorful.Color) {
	if row < 0 || row >= f.Rows() || text == "" {
		return
	}
	n := len([]rune(text))
	if col+n > f.W {
		col = f.W - n
	}
	if col < 0 {
		col = 0
	}
	f.Labels = append(f.Labels, Label{Col: col, Row: row, Text: text, Color: c})
}
