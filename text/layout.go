// Package text renders scrolling ticker text from a byte stream into a pixel.Image.
//
// The stream holds printable character codes mixed with inline control codes:
//
//	0         end of text
//	1..7      select font n of the font table (codes beyond the table are ignored)
//	16        toggle inverted rendering
//	17..31    select color (code & 0x0f)
//
// Rendering starts at an arbitrary text column, so a ticker can scroll by advancing
// the column on every frame without rendering the glyphs that already passed.
package text

import (
	"github.com/BeatGlow/dotmatrix/font"
	"github.com/BeatGlow/dotmatrix/memory"
	"github.com/BeatGlow/dotmatrix/pixel"
)

// Control codes.
const (
	End         = 0x00
	Invert      = 0x10
	ColorSelect = 0x10 // ColorSelect | color
	Printable   = 0x20 // first printable character code
)

// DefaultColor is the text color at the start of every Render.
const DefaultColor = pixel.Orange

// Font returns the control code selecting font n (1-based). n is clamped to
// 1..font.MaxFonts, so the result is never End or another control code.
func Font(n int) byte {
	switch {
	case n < 1:
		n = 1
	case n > font.MaxFonts:
		n = font.MaxFonts
	}
	return byte(n)
}

// Color returns the control code selecting color c. Black shares its code with Invert
// and can not be selected.
func Color(c pixel.Color) byte {
	return ColorSelect | byte(c&0x0f)
}

// Layout renders text.
type Layout struct {
	// Fonts are selected by control codes 1..len(Fonts), rendering starts with font 1.
	Fonts font.Table

	// Color is the initial text color.
	Color pixel.Color
}

// New returns a layout with the default text color. An empty font table is replaced by
// font.DefaultTable.
func New(fonts font.Table) *Layout {
	if len(fonts) == 0 {
		fonts = font.DefaultTable
	}
	return &Layout{
		Fonts: fonts,
		Color: DefaultColor,
	}
}

type state uint8

const (
	fetch state = iota
	skip
	emit
	end
)

// cursor is the render state of a single Render call.
type cursor struct {
	src    memory.Reader
	addr   int
	fonts  font.Table
	font   *font.Font
	color  pixel.Color
	invert bool
	glyph  []byte // remaining columns of the current glyph
}

func (l *Layout) begin(src memory.Reader, addr int) *cursor {
	if src == nil {
		src = memory.None
	}
	fonts := l.Fonts
	if len(fonts) == 0 {
		fonts = font.DefaultTable
	}
	first, _ := fonts.Font(1)
	if first == nil {
		first = font.Default
	}
	return &cursor{
		src:   src,
		addr:  addr,
		fonts: fonts,
		font:  first,
		color: l.Color,
	}
}

func (c *cursor) next() byte {
	b := c.src.Byte(c.addr)
	c.addr++
	return b
}

func (c *cursor) control(code byte) {
	switch {
	case int(code) <= len(c.fonts):
		if f, ok := c.fonts.Font(int(code)); ok && f != nil {
			c.font = f
		}
	case code == Invert:
		c.invert = !c.invert
	case code > Invert:
		c.color = pixel.Color(code & 0x0f)
	}
}

// Render writes the text read from src at addr into dst with the top of the glyphs at
// row y, starting at screen column x. The first column rendered is text column column,
// at most width columns are rendered and rendering stops at the right edge of dst.
//
// Render returns true if the end of the text was reached.
func (l *Layout) Render(dst *pixel.Image, x, y int, mode pixel.Mode, src memory.Reader, addr, column, width int) bool {
	c := l.begin(src, addr)

	stop := dst.Bounds().Max.X
	if width < stop-x {
		stop = x + width
	}

	var (
		sc = x // screen column
		tc int // text column
		st = fetch
	)
	for {
		switch st {
		case fetch:
			if sc >= stop {
				return false
			}
			code := c.next()
			switch {
			case code == End:
				st = end
			case code < Printable:
				c.control(code)
			default:
				if g, ok := c.font.Lookup(code); ok && g.Width() > 0 {
					c.glyph = g.Columns
					st = skip
				}
			}

		case skip:
			switch {
			case tc >= column:
				st = emit
			case column >= tc+len(c.glyph):
				tc += len(c.glyph)
				c.glyph = nil
				st = fetch
			default:
				tc++
				c.glyph = c.glyph[1:]
			}

		case emit:
			if sc >= stop {
				return false
			}
			pattern := c.glyph[0]
			if c.invert {
				pattern = ^pattern
			}
			dst.SetColumn(sc, y, pixel.Encode(pattern, c.color), mode)
			sc++
			if c.glyph = c.glyph[1:]; len(c.glyph) == 0 {
				st = fetch
			}

		case end:
			return true
		}
	}
}

// Width returns the number of columns of the text read from src at addr, up to the
// end code or maxWidth columns, whichever comes first.
func (l *Layout) Width(src memory.Reader, addr, maxWidth int) int {
	c := l.begin(src, addr)
	var w int
	for w < maxWidth {
		code := c.next()
		switch {
		case code == End:
			return w
		case code < Printable:
			c.control(code)
		default:
			if g, ok := c.font.Lookup(code); ok {
				w += g.Width()
			}
		}
	}
	return maxWidth
}
