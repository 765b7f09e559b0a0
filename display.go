package dotmatrix

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/dotmatrix/memory"
	"github.com/BeatGlow/dotmatrix/pixel"
	"github.com/BeatGlow/dotmatrix/text"
)

// Display is a PixBlock dot-matrix display.
//
// Drawing methods target the working screen and must be called from a single goroutine.
// The refresh engine (Tick or Run) reads the visible screen concurrently without
// locking, so a frame may show a partially updated screen for one refresh interval.
// Use a hidden screen and SwapScreens for tear free updates.
type Display struct {
	config Config
	width  int
	height int
	total  int // number of pixel columns
	blocks int

	// storage holds both screens in a single allocation.
	storage []pixel.Column
	screens [2]*pixel.Image
	visible atomic.Pointer[pixel.Image]
	hidden  *pixel.Image
	working Screen
	offset  atomic.Uint32

	layout *text.Layout
	bank   memory.Bank

	// Refresh state, owned by Tick.
	mu      sync.Mutex
	scan    uint8
	phase   uint8
	columns [ColumnsPerBlock]int
	bits    [16]uint16
	ticks   atomic.Uint64
	closed  atomic.Bool
}

// New initializes a display. All pins are driven low and both screens are cleared.
func New(config *Config) (*Display, error) {
	c := config.withDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}

	d := &Display{
		config:  c,
		width:   c.BlocksX * ColumnsPerBlock,
		height:  c.BlocksY * RowsPerBlock,
		blocks:  c.BlocksX * c.BlocksY,
		layout:  text.New(c.Fonts),
		phase:   pixel.MaxLevel,
		columns: scanOrder(c.ReverseColumns),
		bits:    shiftOrder(c.LSBFirst),
	}
	d.total = d.blocks * ColumnsPerBlock

	screens := 1
	if c.HiddenScreen {
		screens = 2
	}
	d.storage = make([]pixel.Column, screens*d.total)
	d.screens[Visible] = pixel.ImageOf(d.storage[:d.total], d.width, d.height)
	d.screens[Hidden] = d.screens[Visible]
	if c.HiddenScreen {
		d.screens[Hidden] = pixel.ImageOf(d.storage[d.total:], d.width, d.height)
	}
	d.visible.Store(d.screens[Visible])
	d.hidden = d.screens[Hidden]

	if c.RAM == nil {
		c.RAM = memory.NewArena(DefaultRAMSize)
		d.config.RAM = c.RAM
	}
	if c.Flash == nil {
		c.Flash = ProgramMemory
		d.config.Flash = c.Flash
	}
	d.bank[memory.RAM] = c.RAM
	d.bank[memory.Flash] = c.Flash
	d.bank[memory.EEPROM] = c.EEPROM

	for _, pin := range []gpio.PinOut{c.Data, c.Clock, c.Latch} {
		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("dotmatrix: error initializing pin %s: %w", pin, err)
		}
	}

	if debug {
		log.Printf("dotmatrix: %dx%d blocks (%dx%d pixels), hidden screen: %t", c.BlocksX, c.BlocksY, d.width, d.height, c.HiddenScreen)
	}
	return d, nil
}

func (d *Display) String() string {
	return fmt.Sprintf("PixBlock %dx%d (data %s, clock %s, latch %s)", d.config.BlocksX, d.config.BlocksY,
		d.config.Data, d.config.Clock, d.config.Latch)
}

// Close blanks the panel and stops the refresh engine.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Swap(true) {
		return nil
	}
	for i := 0; i < d.blocks; i++ {
		if err := d.shiftOut(0); err != nil {
			return fmt.Errorf("dotmatrix: error blanking panel: %w", err)
		}
	}
	if err := d.latch(); err != nil {
		return fmt.Errorf("dotmatrix: error blanking panel: %w", err)
	}
	return d.config.Clock.Out(gpio.Low)
}

// Config returns the effective configuration.
func (d *Display) Config() Config {
	return d.config
}

// Bounds is the display bounding box (dimensions).
func (d *Display) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// ColorModel used by the display.
func (d *Display) ColorModel() color.Model {
	return pixel.Model
}

// At returns the color of the pixel at (x, y) of the working screen.
func (d *Display) At(x, y int) color.Color {
	return d.Working().At(x, y)
}

// Set the pixel color at (x, y) of the working screen.
func (d *Display) Set(x, y int, c color.Color) {
	d.Working().Set(x, y, c)
}

// Clear the working screen.
func (d *Display) Clear() {
	d.Working().Clear()
}

// SelectScreen selects the working screen for subsequent drawing. Unknown screens are
// ignored.
func (d *Display) SelectScreen(s Screen) {
	switch s {
	case Visible, Hidden:
		d.working = s
	}
}

// WorkingScreen returns the screen selected for drawing.
func (d *Display) WorkingScreen() Screen {
	return d.working
}

// SwapScreens exchanges the visible and hidden screen. The working screen keeps its
// role: if you were drawing on the hidden screen, you still are.
func (d *Display) SwapScreens() {
	visible := d.visible.Load()
	d.visible.Store(d.hidden)
	d.hidden = visible
}

// View returns the image of a screen, or nil for an unknown screen.
func (d *Display) View(s Screen) *pixel.Image {
	switch s {
	case Visible:
		return d.visible.Load()
	case Hidden:
		return d.hidden
	default:
		return nil
	}
}

// Working returns the image of the working screen.
func (d *Display) Working() *pixel.Image {
	return d.View(d.working)
}

// SetOffset sets the scroll offset, which is the column of the screen shown in the
// leftmost column of the panel. Values outside of 0..width*height/8-1 are ignored.
func (d *Display) SetOffset(column int) {
	if column < 0 || column >= d.total {
		return
	}
	d.offset.Store(uint32(column))
}

// Offset returns the scroll offset.
func (d *Display) Offset() int {
	return int(d.offset.Load())
}

// Encode returns a pixel column showing pattern in color c, bit 0 is the top row.
func (d *Display) Encode(pattern byte, c pixel.Color) pixel.Column {
	return pixel.Encode(pattern, c)
}

// SetColumn writes 8 vertically stacked pixels with their top pixel at (x, y).
func (d *Display) SetColumn(x, y int, c pixel.Column, mode pixel.Mode) {
	d.Working().SetColumn(x, y, c, mode)
}

// SetPixel sets the color of a pixel in the working screen.
func (d *Display) SetPixel(x, y int, c pixel.Color) {
	d.Working().SetPixel(x, y, c)
}

// Pixel returns the color of a pixel in the visible or hidden screen. It returns
// pixel.OutOfRange if the coordinates are outside of the screen or s is unknown.
func (d *Display) Pixel(x, y int, s Screen) pixel.Color {
	v := d.View(s)
	if v == nil {
		return pixel.OutOfRange
	}
	return v.Pixel(x, y)
}

// Memory returns the reader for a memory kind. Unknown kinds read as zero.
func (d *Display) Memory(kind memory.Kind) memory.Reader {
	return d.bank.Reader(kind)
}

// RAM returns the RAM arena, or nil if Config.RAM is not a *memory.Arena.
func (d *Display) RAM() *memory.Arena {
	ram, _ := d.bank[memory.RAM].(*memory.Arena)
	return ram
}

// DisplayText renders ticker text read from memory at addr into the working screen.
// Rendering starts at text column column and stops after width columns or at the right
// edge of the screen. It returns true if the end of the text was reached.
//
// See package text for the control codes.
func (d *Display) DisplayText(x, y int, mode pixel.Mode, addr int, kind memory.Kind, column, width int) bool {
	return d.layout.Render(d.Working(), x, y, mode, d.Memory(kind), addr, column, width)
}

// DisplayString is like DisplayText, with the text read from s.
func (d *Display) DisplayString(x, y int, mode pixel.Mode, s string, column, width int) bool {
	return d.layout.Render(d.Working(), x, y, mode, memory.Bytes(s), 0, column, width)
}

// TextWidth returns the rendered width in columns of the text read from memory at addr.
func (d *Display) TextWidth(addr int, kind memory.Kind) int {
	return d.layout.Width(d.Memory(kind), addr, 1<<16)
}

// DisplayGraphics copies n pixel columns read from memory at addr into the working
// screen. Each column is stored as two little endian 16-bit words, LSB plane first.
func (d *Display) DisplayGraphics(x, y int, mode pixel.Mode, addr int, kind memory.Kind, n int) {
	displayGraphics(d.Working(), x, y, mode, d.Memory(kind), addr, n)
}

func displayGraphics(dst *pixel.Image, x, y int, mode pixel.Mode, src memory.Reader, addr, n int) {
	for i := 0; i < n; i++ {
		dst.SetColumn(x+i, y, pixel.Column{
			LSB: src.Word(addr),
			MSB: src.Word(addr + 2),
		}, mode)
		addr += 4
	}
}

// DisplayLogo draws the built-in logo into the working screen.
func (d *Display) DisplayLogo() {
	var (
		dst   = d.Working()
		x     = RainbowColumns + 2
		width = d.layout.Width(ProgramMemory, LogoAddr, d.total)
	)
	displayGraphics(dst, 0, 0, pixel.Opaque, ProgramMemory, RainbowAddr, RainbowColumns)

	// The logo text continues on the next block row if it does not fit.
	var column int
	for y := 1; y < d.height; y += RowsPerBlock {
		if n := d.width - x; n > 0 {
			if d.layout.Render(dst, x, y, pixel.Opaque, ProgramMemory, LogoAddr, column, n) {
				break
			}
			column += n
		}
		x = 0
	}

	if d.config.BlocksY == 1 && RainbowColumns+2+width+RainbowColumns <= d.width {
		displayGraphics(dst, d.width-RainbowColumns, 0, pixel.Opaque, ProgramMemory, RainbowAddr, RainbowColumns)
	}
}
