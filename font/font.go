// Package font provides bitmap fonts for the text layout engine.
//
// A glyph is a sequence of pixel columns, one byte per column with bit k being row k
// (the least significant bit is the top row), suitable for pixel.Encode.
package font

import (
	"errors"
	"fmt"
)

// MaxFonts is the maximum number of fonts in a Table. Text control codes 1..MaxFonts
// select a font.
const MaxFonts = 7

// Errors
var (
	ErrEmptyTable   = errors.New("font: empty font table")
	ErrTooManyFonts = fmt.Errorf("font: more than %d fonts", MaxFonts)
)

// Undefined is the glyph used for characters without pixel data.
var Undefined = Glyph{Columns: []byte{0x00}}

// Glyph is a character bitmap.
type Glyph struct {
	Columns []byte
}

// Width in pixel columns.
func (g Glyph) Width() int {
	return len(g.Columns)
}

// Font is an ordered list of glyphs, starting at character code Base.
type Font struct {
	Name   string
	Base   byte
	Glyphs []Glyph
}

// NewFont parses glyph descriptors. Each descriptor holds the glyph width followed by
// one byte per column; a nil descriptor is an undefined character. Columns missing
// from a truncated descriptor are blank.
func NewFont(name string, base byte, descriptors ...[]byte) *Font {
	f := &Font{
		Name:   name,
		Base:   base,
		Glyphs: make([]Glyph, len(descriptors)),
	}
	for i, d := range descriptors {
		if len(d) == 0 {
			f.Glyphs[i] = Undefined
			continue
		}
		cols := make([]byte, int(d[0]))
		copy(cols, d[1:])
		f.Glyphs[i] = Glyph{Columns: cols}
	}
	return f
}

// Len is the number of glyphs, including undefined ones.
func (f *Font) Len() int {
	return len(f.Glyphs)
}

// Lookup the glyph for a character code.
func (f *Font) Lookup(code byte) (Glyph, bool) {
	if code < f.Base {
		return Glyph{}, false
	}
	i := int(code - f.Base)
	if i >= len(f.Glyphs) {
		return Glyph{}, false
	}
	return f.Glyphs[i], true
}

func (f *Font) String() string {
	if f.Name != "" {
		return fmt.Sprintf("%s (%d glyphs from %#02x)", f.Name, len(f.Glyphs), f.Base)
	}
	return fmt.Sprintf("font (%d glyphs from %#02x)", len(f.Glyphs), f.Base)
}

// Table is an ordered list of fonts, referenced by 1-based index in text.
type Table []*Font

// Validate checks the table size.
func (t Table) Validate() error {
	switch {
	case len(t) == 0:
		return ErrEmptyTable
	case len(t) > MaxFonts:
		return ErrTooManyFonts
	}
	for i, f := range t {
		if f == nil {
			return fmt.Errorf("font: font %d is nil", i+1)
		}
	}
	return nil
}

// Font by 1-based index.
func (t Table) Font(n int) (*Font, bool) {
	if n < 1 || n > len(t) {
		return nil, false
	}
	return t[n-1], true
}
