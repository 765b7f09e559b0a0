package font

import (
	"errors"
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
)

func TestNewFont(t *testing.T) {
	f := NewFont("test", 'a',
		[]byte{2, 0x7f, 0x41},
		nil,
		[]byte{3, 0x01},
	)
	if v := f.Len(); v != 3 {
		t.Fatalf("expected 3 glyphs, got %d", v)
	}

	tests := []struct {
		code  byte
		width int
		ok    bool
	}{
		{'a', 2, true},
		{'b', 1, true},
		{'c', 3, true},
		{'d', 0, false},
		{'`', 0, false},
	}
	for _, test := range tests {
		g, ok := f.Lookup(test.code)
		if ok != test.ok {
			t.Errorf("Lookup(%q): expected ok=%t, got %t", test.code, test.ok, ok)
		}
		if v := g.Width(); v != test.width {
			t.Errorf("Lookup(%q): expected width %d, got %d", test.code, test.width, v)
		}
	}

	if g, _ := f.Lookup('c'); g.Columns[1] != 0 || g.Columns[2] != 0 {
		t.Errorf("expected truncated descriptor to be padded with blank columns, got %v", g.Columns)
	}
}

func TestTable(t *testing.T) {
	if err := (Table{}).Validate(); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("expected ErrEmptyTable, got %v", err)
	}
	full := make(Table, MaxFonts+1)
	for i := range full {
		full[i] = Default
	}
	if err := full.Validate(); !errors.Is(err, ErrTooManyFonts) {
		t.Errorf("expected ErrTooManyFonts, got %v", err)
	}
	if err := (Table{Default, nil}).Validate(); err == nil {
		t.Error("expected error for nil font")
	}
	if err := full[:MaxFonts].Validate(); err != nil {
		t.Errorf("expected %d fonts to be valid, got %v", MaxFonts, err)
	}

	if _, ok := DefaultTable.Font(0); ok {
		t.Error("expected font 0 to be undefined")
	}
	if f, ok := DefaultTable.Font(1); !ok || f != Default {
		t.Error("expected font 1 to be the default font")
	}
	if _, ok := DefaultTable.Font(2); ok {
		t.Error("expected font 2 to be undefined")
	}
}

func TestDefault(t *testing.T) {
	if v := Default.Len(); v != 95 {
		t.Fatalf("expected 95 glyphs, got %d", v)
	}
	if Default.Base != ' ' {
		t.Fatalf("expected base ' ', got %q", Default.Base)
	}

	space, _ := Default.Lookup(' ')
	if v := space.Width(); v != spaceWidth {
		t.Errorf("expected space width %d, got %d", spaceWidth, v)
	}

	for code := byte('!'); code <= '~'; code++ {
		g, ok := Default.Lookup(code)
		if !ok {
			t.Fatalf("%q: missing glyph", code)
		}
		if g.Width() < 2 || g.Width() > 6 {
			t.Errorf("%q: unexpected width %d", code, g.Width())
		}
		if g.Columns[0] == 0 {
			t.Errorf("%q: expected leading blank column to be trimmed", code)
		}
		if g.Columns[g.Width()-1] != 0 {
			t.Errorf("%q: expected trailing letter spacing", code)
		}
		for _, col := range g.Columns {
			if col&0x80 != 0 {
				t.Errorf("%q: expected bottom row to be blank", code)
			}
		}
	}

	if g, _ := Default.Lookup('I'); g.Width() != 4 {
		t.Errorf("expected 'I' to be 3 columns plus spacing, got %d", g.Width())
	}
}

func TestFromFace(t *testing.T) {
	f, err := FromFace("7x13", basicfont.Face7x13, 'A', 'Z', 9)
	if err != nil {
		t.Fatal(err)
	}
	if f.Base != 'A' || f.Len() != 26 {
		t.Fatalf("expected 26 glyphs from 'A', got %d from %q", f.Len(), f.Base)
	}
	for _, g := range f.Glyphs {
		if g.Width() != basicfont.Face7x13.Advance {
			t.Errorf("expected width %d, got %d", basicfont.Face7x13.Advance, g.Width())
		}
	}

	g, _ := f.Lookup('I')
	var lit int
	for _, col := range g.Columns {
		for ; col != 0; col &= col - 1 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("expected 'I' to have lit pixels")
	}

	if _, err = FromFace("bad", basicfont.Face7x13, 'Z', 'A', 0); err == nil {
		t.Error("expected error for reversed range")
	}
	if _, err = FromFace("bad", basicfont.Face7x13, 0x20, 0x1000, 0); err == nil {
		t.Error("expected error for range beyond byte codes")
	}
}

func TestLoadTrueType(t *testing.T) {
	f, err := LoadTrueType("gomono", gomono.TTF, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Base != 0x20 || f.Len() != 95 {
		t.Fatalf("expected 95 glyphs from 0x20, got %d from %#02x", f.Len(), f.Base)
	}

	g, ok := f.Lookup('H')
	if !ok || g.Width() == 0 {
		t.Fatal("expected glyph for 'H'")
	}
	var lit bool
	for _, col := range g.Columns {
		lit = lit || col != 0
	}
	if !lit {
		t.Error("expected 'H' to have lit pixels")
	}

	if _, err = LoadTrueType("garbage", []byte("not a font"), nil); err == nil {
		t.Error("expected parse error")
	}
}
