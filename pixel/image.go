package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

// Mode is the blend mode used when writing a Column into an Image.
type Mode uint8

// Supported blend modes.
const (
	Opaque      Mode = iota // Black pixels are opaque
	Transparent             // Black pixels are transparent
	XOR                     // XOR pixels with background
)

func (m Mode) String() string {
	switch m {
	case Opaque:
		return "opaque"
	case Transparent:
		return "transparent"
	case XOR:
		return "xor"
	default:
		return "unknown"
	}
}

// Image is a bi-color screen composed of Columns.
//
// Columns are stored block row by block row: the column at (x, y) has index
// x + (y/8)*width. The origin is the upper left corner.
type Image struct {
	// Pix are the pixel columns.
	Pix []Column

	// Rect is the image bounding box, Rect.Min is always the origin.
	Rect image.Rectangle
}

// NewImage returns an image with its own storage.
func NewImage(w, h int) *Image {
	return ImageOf(make([]Column, w*bandsOf(h)), w, h)
}

// ImageOf returns an image backed by pix. The height is rounded up to whole columns and
// pix must hold at least w*ceil(h/8) columns.
func ImageOf(pix []Column, w, h int) *Image {
	h = bandsOf(h) * RowsPerColumn
	return &Image{
		Pix:  pix[:w*h/RowsPerColumn],
		Rect: image.Rect(0, 0, w, h),
	}
}

func bandsOf(h int) int {
	return (h + RowsPerColumn - 1) / RowsPerColumn
}

func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Image) ColorModel() color.Model {
	return Model
}

func (p *Image) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.Rect.Max.X && y < p.Rect.Max.Y
}

// Pixel returns the color at (x, y), or OutOfRange.
func (p *Image) Pixel(x, y int) Color {
	if !p.in(x, y) {
		return OutOfRange
	}
	return p.Pix[x+(y/RowsPerColumn)*p.Rect.Max.X].Color(y % RowsPerColumn)
}

func (p *Image) At(x, y int) color.Color {
	if !p.in(x, y) {
		return color.Transparent
	}
	return p.Pixel(x, y)
}

// SetPixel sets the color at (x, y). Coordinates outside of the image and colors that
// are not Valid, such as OutOfRange, are ignored.
func (p *Image) SetPixel(x, y int, c Color) {
	if !p.in(x, y) || !c.Valid() {
		return
	}
	var (
		green = greenMask[y%RowsPerColumn]
		red   = green << 1
		col   = &p.Pix[x+(y/RowsPerColumn)*p.Rect.Max.X]
	)

	pix := col.MSB &^ (red | green)
	if c&GreenMSB != 0 {
		pix |= green
	}
	if c&RedMSB != 0 {
		pix |= red
	}
	col.MSB = pix

	pix = col.LSB &^ (red | green)
	if c&GreenLSB != 0 {
		pix |= green
	}
	if c&RedLSB != 0 {
		pix |= red
	}
	col.LSB = pix
}

func (p *Image) Set(x, y int, c color.Color) {
	p.SetPixel(x, y, model(c).(Color))
}

// SetColumn writes 8 vertically stacked pixels with their top pixel at (x, y).
//
// The column does not need to be aligned to a block row, in which case it is split
// over two block rows. Pixels below the last block row are dropped.
func (p *Image) SetColumn(x, y int, c Column, mode Mode) {
	if !p.in(x, y) {
		return
	}

	var (
		w     = p.Rect.Max.X
		index = x + (y/RowsPerColumn)*w
		shift = 2 * uint(y%RowsPerColumn)
		mask  = uint32(0xffff)
	)
	if mode == Transparent {
		mask = uint32(c.mask())
	}

	// Shifted planes span two columns: the low half belongs to this block row, the
	// high half to the next.
	mask = ^(mask << shift)
	lsb := uint32(c.LSB) << shift
	msb := uint32(c.MSB) << shift

	p.Pix[index].compose(uint16(lsb), uint16(msb), uint16(mask), mode)
	if shift == 0 {
		return
	}
	if index += w; index >= len(p.Pix) {
		return
	}
	p.Pix[index].compose(uint16(lsb>>16), uint16(msb>>16), uint16(mask>>16), mode)
}

// compose merges the planes into c; keep holds the bits that are not overwritten.
func (c *Column) compose(lsb, msb, keep uint16, mode Mode) {
	if mode == XOR {
		c.LSB ^= lsb
		c.MSB ^= msb
		return
	}
	c.LSB = c.LSB&keep | lsb
	c.MSB = c.MSB&keep | msb
}

// Clear sets all pixels to black.
func (p *Image) Clear() {
	for i := range p.Pix {
		p.Pix[i] = Column{}
	}
}

// Fill sets all pixels to a single color.
func (p *Image) Fill(c color.Color) {
	v := model(c).(Color)
	if !v.Valid() {
		return
	}
	col := Encode(0xff, v)
	for i := range p.Pix {
		p.Pix[i] = col
	}
}

// Interface checks.
var _ draw.Image = (*Image)(nil)
