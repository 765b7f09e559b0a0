package dotmatrix

import (
	"github.com/BeatGlow/dotmatrix/memory"
	"github.com/BeatGlow/dotmatrix/pixel"
)

// Scroller moves ticker text from right to left through a row of the display. Every
// Step draws a frame on the hidden screen and swaps it in, so with Config.HiddenScreen
// the refresh engine never shows a partially drawn frame.
type Scroller struct {
	d     *Display
	y     int
	src   memory.Reader
	addr  int
	width int
	pos   int
}

// NewScroller returns a scroller for the text read from memory at addr, drawn with its
// top row at y.
func (d *Display) NewScroller(y int, addr int, kind memory.Kind) *Scroller {
	src := d.Memory(kind)
	return &Scroller{
		d:     d,
		y:     y,
		src:   src,
		addr:  addr,
		width: d.layout.Width(src, addr, 1<<16),
	}
}

// NewStringScroller is like NewScroller, with the text read from s.
func (d *Display) NewStringScroller(y int, s string) *Scroller {
	src := memory.Bytes(s)
	return &Scroller{
		d:     d,
		y:     y,
		src:   src,
		width: d.layout.Width(src, 0, 1<<16),
	}
}

// Len is the number of steps of a full pass: the text enters at the right edge and
// leaves at the left edge.
func (s *Scroller) Len() int {
	return s.d.width + s.width
}

// Step draws the next frame. It returns true when a full pass completed and the text
// starts over. The working screen selection is left as it was.
func (s *Scroller) Step() bool {
	d := s.d
	working := d.working
	defer d.SelectScreen(working)
	d.SelectScreen(Hidden)
	d.Clear()

	x, column := d.width-s.pos, 0
	if x < 0 {
		x, column = 0, -x
	}
	if n := d.width - x; n > 0 {
		d.layout.Render(d.Working(), x, s.y, pixel.Opaque, s.src, s.addr, column, n)
	}
	d.SwapScreens()

	s.pos++
	if s.pos > s.Len() {
		s.pos = 0
		return true
	}
	return false
}
