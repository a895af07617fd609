package render

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

const halfBlock = '▀'

// glyphRamp orders characters from dark to bright for colourless output.
const glyphRamp = " .:-=+*#%@"

var labelBackground = colorful.Color{}

type labelCell struct {
	r     rune
	color colorful.Color
}

func (f *Frame) labelCells() map[[2]int]labelCell {
	if len(f.Labels) == 0 {
		return nil
	}
	cells := make(map[[2]int]labelCell)
	for _, l := range f.Labels {
		col := l.Col
		for _, r := range l.Text {
			if col >= 0 && col < f.W {
				cells[[2]int{col, l.Row}] = labelCell{r: r, color: l.Color}
			}
			col++
		}
	}
	return cells
}

func hex(c colorful.Color) string {
	return c.Clamped().Hex()
}

// Encode renders the frame for a terminal with colour profile p. Each row
// ends with a reset. The Ascii profile falls back to Plain.
func (f *Frame) Encode(p termenv.Profile) string {
	if p == termenv.Ascii {
		return f.Plain()
	}
	labels := f.labelCells()

	var b strings.Builder
	b.Grow(f.W * f.Rows() * 24)
	for row := 0; row < f.Rows(); row++ {
		prev := ""
		for col := 0; col < f.W; col++ {
			var fg, bg colorful.Color
			glyph := halfBlock
			if lc, ok := labels[[2]int{col, row}]; ok {
				fg, bg, glyph = lc.color, labelBackground, lc.r
			} else {
				fg, bg = f.At(col, 2*row), f.At(col, 2*row+1)
			}

			seq := p.Color(hex(fg)).Sequence(false) + ";" + p.Color(hex(bg)).Sequence(true)
			if seq != prev {
				b.WriteString(termenv.CSI + seq + "m")
				prev = seq
			}
			b.WriteRune(glyph)
		}
		b.WriteString(termenv.CSI + termenv.ResetSeq + "m")
		if row < f.Rows()-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Plain renders the frame as uncoloured text using a brightness ramp.
func (f *Frame) Plain() string {
	labels := f.labelCells()
	ramp := []rune(glyphRamp)

	var b strings.Builder
	b.Grow((f.W + 1) * f.Rows())
	for row := 0; row < f.Rows(); row++ {
		for col := 0; col < f.W; col++ {
			if lc, ok := labels[[2]int{col, row}]; ok {
				b.WriteRune(lc.r)
				continue
			}
			l := (luminance(f.At(col, 2*row)) + luminance(f.At(col, 2*row+1))) / 2
			i := int(l * float64(len(ramp)))
			if i >= len(ramp) {
				i = len(ramp) - 1
			}
			if i < 0 {
				i = 0
			}
			b.WriteRune(ramp[i])
		}
		if row < f.Rows()-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func luminance(c colorful.Color) float64 {
	c = c.Clamped()
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}
