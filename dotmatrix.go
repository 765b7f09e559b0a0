// Package dotmatrix drives tileable bi-color PixBlock LED dot-matrix panels.
//
// A panel is a chain of 8x8 blocks of red/green LEDs sharing three digital lines (data,
// clock and latch). The refresh engine multiplexes one column per block at a time and
// synthesizes four brightness levels per LED from the two bit-planes of a pixel.Column
// by dithering over four scan cycles.
package dotmatrix

import (
	"errors"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/dotmatrix/font"
	"github.com/BeatGlow/dotmatrix/memory"
	"github.com/BeatGlow/dotmatrix/pixel"
)

var debug bool

func init() {
	debug = os.Getenv("DOTMATRIX_DEBUG") != ""
}

// Errors
var (
	ErrDataPin  = errors.New("dotmatrix: data GPIO pin is invalid")
	ErrClockPin = errors.New("dotmatrix: clock GPIO pin is invalid")
	ErrLatchPin = errors.New("dotmatrix: latch GPIO pin is invalid")
	ErrBlocks   = errors.New("dotmatrix: invalid block arrangement")
	ErrClosed   = errors.New("dotmatrix: display is closed")
)

// Block geometry.
const (
	RowsPerBlock    = pixel.RowsPerColumn
	ColumnsPerBlock = 8
)

// Screen identifies one of the two screen buffers.
type Screen uint8

// Screens.
const (
	Visible Screen = iota // Screen shown by the refresh engine
	Hidden                // Off-screen buffer
)

func (s Screen) String() string {
	switch s {
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// DefaultRAMSize is the size of the RAM arena allocated if Config.RAM is not set.
const DefaultRAMSize = 1024

// Config is the display configuration. Zero values are replaced by the values of
// DefaultConfig. The configuration can not be changed after New.
type Config struct {
	// BlocksX is the number of blocks in horizontal direction.
	BlocksX int

	// BlocksY is the number of blocks in vertical direction.
	BlocksY int

	// HiddenScreen allocates a second screen buffer for flicker free updates. Without
	// it, the visible and hidden screens are the same buffer.
	HiddenScreen bool

	// LSBFirst shifts out LED bits with the least significant bit first.
	LSBFirst bool

	// ReverseColumns scans the columns of each block from right to left.
	ReverseColumns bool

	// Data pin.
	Data gpio.PinOut

	// Clock pin.
	Clock gpio.PinOut

	// Latch pin.
	Latch gpio.PinOut

	// LatchPulse is the width of the latch pulse.
	LatchPulse time.Duration

	// RefreshRate is the column tick rate used by Run. A full frame takes 8 ticks and
	// full brightness resolution takes 32 ticks.
	RefreshRate physic.Frequency

	// Fonts selectable from text, the first font is the default font.
	Fonts font.Table

	// RAM is the source for memory.RAM reads (default: a new memory.Arena of DefaultRAMSize).
	RAM memory.Reader

	// Flash is the source for memory.Flash reads (default: the built-in ProgramMemory).
	Flash memory.Reader

	// EEPROM is the source for memory.EEPROM reads (default: none, reads as zero).
	EEPROM memory.Reader
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	BlocksX:     2,
	BlocksY:     1,
	LatchPulse:  time.Microsecond,
	RefreshRate: 2500 * physic.Hertz,
}

func (config *Config) withDefaults() Config {
	c := DefaultConfig
	if config == nil {
		return c
	}
	d := *config
	if d.BlocksX == 0 {
		d.BlocksX = c.BlocksX
	}
	if d.BlocksY == 0 {
		d.BlocksY = c.BlocksY
	}
	if d.LatchPulse == 0 {
		d.LatchPulse = c.LatchPulse
	}
	if d.RefreshRate == 0 {
		d.RefreshRate = c.RefreshRate
	}
	return d
}

func validPin(pin gpio.PinOut) bool {
	return pin != nil && pin != gpio.INVALID
}

func (config *Config) validate() error {
	switch {
	case config.BlocksX < 1 || config.BlocksY < 1:
		return ErrBlocks
	case !validPin(config.Data):
		return ErrDataPin
	case !validPin(config.Clock):
		return ErrClockPin
	case !validPin(config.Latch):
		return ErrLatchPin
	case config.RefreshRate <= 0 || config.RefreshRate.Period() <= 0:
		return errors.New("dotmatrix: invalid refresh rate")
	}
	if len(config.Fonts) > 0 {
		return config.Fonts.Validate()
	}
	return nil
}
