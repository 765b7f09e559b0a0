package pixel

// RowsPerColumn is the number of pixels in a Column.
const RowsPerColumn = 8

// Column is a vertical strip of 8 bi-color pixels stored as two bit-planes.
//
// The bits of each plane are assigned to the LEDs as follows:
//
//	bit 15 = bottom pixel red LED
//	bit 14 = bottom pixel green LED
//	...
//	bit 1 = top pixel red LED
//	bit 0 = top pixel green LED
//
// A LED lit in both planes shows at 100%, in the MSB plane only at 50% and in the LSB
// plane only at 25%.
type Column struct {
	LSB uint16
	MSB uint16
}

// greenMask holds the green LED bit of each row; the red LED is the next higher bit.
var greenMask = [RowsPerColumn]uint16{
	0x0001, 0x0004, 0x0010, 0x0040, 0x0100, 0x0400, 0x1000, 0x4000,
}

// Encode transforms the 8 pixels in pattern to a Column with the given color. Bit k of
// pattern is row k, the least significant bit is the top pixel.
func Encode(pattern byte, c Color) Column {
	green := spread(pattern)
	red := green << 1

	var col Column
	if c&GreenMSB != 0 {
		col.MSB |= green
	}
	if c&RedMSB != 0 {
		col.MSB |= red
	}
	if c&GreenLSB != 0 {
		col.LSB |= green
	}
	if c&RedLSB != 0 {
		col.LSB |= red
	}
	return col
}

// spread inserts a zero bit above every bit of v, e.g. 11011111 -> 0101000101010101.
func spread(v byte) uint16 {
	x := uint16(v)
	x = (x | x<<4) & 0x0f0f
	x = (x | x<<2) & 0x3333
	x = (x | x<<1) & 0x5555
	return x
}

// Color returns the color of the pixel in the given row, or OutOfRange.
func (c Column) Color(row int) Color {
	if row < 0 || row >= RowsPerColumn {
		return OutOfRange
	}
	var (
		green = greenMask[row]
		red   = green << 1
		v     Color
	)
	if c.MSB&red != 0 {
		v |= RedMSB
	}
	if c.MSB&green != 0 {
		v |= GreenMSB
	}
	if c.LSB&red != 0 {
		v |= RedLSB
	}
	if c.LSB&green != 0 {
		v |= GreenLSB
	}
	return v
}

// IsBlack reports if no LED in the column is lit.
func (c Column) IsBlack() bool {
	return c.LSB|c.MSB == 0
}

// mask returns both LED bits of every row that has at least one bit set in either plane.
func (c Column) mask() uint16 {
	m := c.LSB | c.MSB
	m = (m | m>>1) & 0x5555 // one bit per row, on the green position
	m |= m << 1             // green onto red
	return m
}
