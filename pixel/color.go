package pixel

import (
	"fmt"
	"image/color"
)

// Color is a 4-bit bi-color value. Each LED has four intensity levels (0 = 0%, 1 = 25%,
// 2 = 50%, 3 = 100%) stored in two bits:
//
//	bit 3 = red LED, most significant intensity bit
//	bit 2 = red LED, least significant intensity bit
//	bit 1 = green LED, most significant intensity bit
//	bit 0 = green LED, least significant intensity bit
type Color uint8

// Color bits.
const (
	GreenLSB Color = 1 << iota
	GreenMSB
	RedLSB
	RedMSB
)

// Named colors.
const (
	Black        Color = 0b0000
	DarkGreen    Color = 0b0001
	MediumGreen  Color = 0b0010
	Green        Color = 0b0011
	DarkRed      Color = 0b0100
	DarkOrange   Color = 0b0101
	Yellow       Color = 0b0111
	MediumRed    Color = 0b1000
	MediumOrange Color = 0b1010
	LightOrange  Color = 0b1011
	Red          Color = 0b1100
	LightRed     Color = 0b1101
	RedOrange    Color = 0b1110
	Orange       Color = 0b1111
)

// OutOfRange is returned by pixel lookups outside of the addressable grid. It can not be
// confused with any valid Color.
const OutOfRange Color = 0xff

// MaxLevel is the maximum intensity level of a single LED.
const MaxLevel = 3

// Model converts arbitrary colors to the nearest bi-color Color.
var Model color.Model = color.ModelFunc(model)

// levels maps an intensity level to its time-averaged 16-bit brightness.
var levels = [4]uint32{0x0000, 0x4000, 0x8000, 0xffff}

// RGB returns the color with the given red and green intensity levels (0..3). Levels are
// clamped to the valid range.
func RGB(red, green int) Color {
	return Color(clampLevel(red)<<2 | clampLevel(green))
}

func clampLevel(level int) int {
	switch {
	case level < 0:
		return 0
	case level > MaxLevel:
		return MaxLevel
	default:
		return level
	}
}

// Red intensity level (0..3).
func (c Color) Red() int {
	return int(c>>2) & MaxLevel
}

// Green intensity level (0..3).
func (c Color) Green() int {
	return int(c) & MaxLevel
}

// Valid reports if c is one of the 16 encodable colors.
func (c Color) Valid() bool {
	return c <= 0x0f
}

func (c Color) RGBA() (r, g, b, a uint32) {
	if !c.Valid() {
		return 0, 0, 0, 0
	}
	return levels[c.Red()], levels[c.Green()], 0, 0xffff
}

func (c Color) String() string {
	if !c.Valid() {
		return "out of range"
	}
	return fmt.Sprintf("R%dG%d", c.Red(), c.Green())
}

func model(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, _, a := c.RGBA()
	if a == 0 {
		return Black
	}
	return RGB(quantize(r), quantize(g))
}

// quantize picks the nearest intensity level for a 16-bit channel value.
func quantize(v uint32) int {
	switch {
	case v < 0x2000:
		return 0
	case v < 0x6000:
		return 1
	case v < 0xc000:
		return 2
	default:
		return 3
	}
}
