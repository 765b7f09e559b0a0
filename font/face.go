package font

import (
	"fmt"
	"image"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Rows is the glyph height in pixels.
const Rows = 8

// threshold is the minimum mask alpha of a lit pixel.
const threshold = 0x8000

// FromFace rasterizes the runes first..last of face into a Font. The baseline is the
// pixel row the face's baseline is placed on; anything outside of the 8 glyph rows is
// clipped. Runes the face does not provide become Undefined glyphs.
func FromFace(name string, face font.Face, first, last rune, baseline int) (*Font, error) {
	if first < 0 || last > 0xff || last < first {
		return nil, fmt.Errorf("font: invalid rune range %#02x..%#02x", first, last)
	}

	f := &Font{
		Name:   name,
		Base:   byte(first),
		Glyphs: make([]Glyph, 0, last-first+1),
	}
	for r := first; r <= last; r++ {
		f.Glyphs = append(f.Glyphs, rasterize(face, r, baseline))
	}
	return f, nil
}

func rasterize(face font.Face, r rune, baseline int) Glyph {
	dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, baseline), r)
	if !ok {
		return Undefined
	}

	width := advance.Ceil()
	if width < dr.Max.X {
		width = dr.Max.X
	}
	if width < 1 {
		return Undefined
	}

	cols := make([]byte, width)
	for x := range cols {
		for y := 0; y < Rows; y++ {
			p := image.Pt(x, y)
			if mask == nil || !p.In(dr) {
				continue
			}
			if _, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA(); a >= threshold {
				cols[x] |= 1 << uint(y)
			}
		}
	}
	return Glyph{Columns: cols}
}

// TrueTypeOptions configure LoadTrueType.
type TrueTypeOptions struct {
	// Size in points at 72 DPI, which equals pixels (default: 8).
	Size float64

	// First and Last rune to convert (default: 32..126).
	First, Last rune

	// Baseline row; zero uses the ascent of the face clamped to the glyph height.
	Baseline int
}

// LoadTrueType parses a TrueType font and rasterizes it to a Font.
func LoadTrueType(name string, ttf []byte, opts *TrueTypeOptions) (*Font, error) {
	var o TrueTypeOptions
	if opts != nil {
		o = *opts
	}
	if o.Size == 0 {
		o.Size = Rows
	}
	if o.First == 0 && o.Last == 0 {
		o.First, o.Last = 0x20, 0x7e
	}

	tt, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("font: parse %s: %w", name, err)
	}

	face := truetype.NewFace(tt, &truetype.Options{
		Size:    o.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	if o.Baseline == 0 {
		o.Baseline = face.Metrics().Ascent.Round()
		if o.Baseline > Rows-1 {
			o.Baseline = Rows - 1
		}
	}
	return FromFace(name, face, o.First, o.Last, o.Baseline)
}
