// Package panel emulates a chain of PixBlock LED blocks.
//
// The panel exposes data, clock and latch pins implementing gpio.PinOut. Each rising
// clock edge shifts the data bit into the chain of 16-bit block registers, each rising
// latch edge commits the registers to the current column of every block. A latch while
// the clock is low resets the column counter to 0.
//
// The panel integrates the time every LED is lit, so the brightness levels produced by
// the dithering refresh engine can be read back.
package panel

import (
	"fmt"
	"image"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/dotmatrix/pixel"
)

// Columns is the number of columns per block.
const Columns = 8

// Config is the panel configuration.
type Config struct {
	// BlocksX is the number of blocks in horizontal direction.
	BlocksX int

	// BlocksY is the number of blocks in vertical direction.
	BlocksY int

	// LSBFirst expects LED bits with the least significant bit first.
	LSBFirst bool

	// ReverseColumns mirrors the columns of each block.
	ReverseColumns bool
}

// Panel is an emulated chain of blocks.
type Panel struct {
	mu     sync.Mutex
	config Config
	blocks int
	data   *Pin
	clock  *Pin
	latch  *Pin

	shift   []uint16          // shift registers, index 0 is the block nearest to the input
	column  int               // column counter
	latched [][Columns]uint16 // last committed word per block and column
	lit     [][Columns][16]uint64
	latches [Columns]uint64
	trace   []Latch
	tracing bool
}

// Latch is a single latch event.
type Latch struct {
	// Column is the column of every block that was updated.
	Column int

	// Words holds the committed word of every block.
	Words []uint16
}

// New returns an emulated panel with all pins low.
func New(config Config) *Panel {
	if config.BlocksX < 1 {
		config.BlocksX = 1
	}
	if config.BlocksY < 1 {
		config.BlocksY = 1
	}
	blocks := config.BlocksX * config.BlocksY
	p := &Panel{
		config:  config,
		blocks:  blocks,
		shift:   make([]uint16, blocks),
		latched: make([][Columns]uint16, blocks),
		lit:     make([][Columns][16]uint64, blocks),
	}
	p.data = &Pin{panel: p, name: "DATA", number: 0}
	p.clock = &Pin{panel: p, name: "CLK", number: 1}
	p.latch = &Pin{panel: p, name: "LATCH", number: 2}
	return p
}

func (p *Panel) String() string {
	return fmt.Sprintf("emulated PixBlock panel %dx%d", p.config.BlocksX, p.config.BlocksY)
}

// Data pin.
func (p *Panel) Data() *Pin { return p.data }

// Clock pin.
func (p *Panel) Clock() *Pin { return p.clock }

// Latch pin.
func (p *Panel) Latch() *Pin { return p.latch }

// Bounds of the panel in pixels.
func (p *Panel) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.config.BlocksX*Columns, p.config.BlocksY*pixel.RowsPerColumn)
}

// Trace starts recording latch events, discarding earlier ones.
func (p *Panel) Trace() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trace = p.trace[:0]
	p.tracing = true
}

// Latches returns the latch events recorded since Trace.
func (p *Panel) Latches() []Latch {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Latch(nil), p.trace...)
}

// Reset clears the accumulated LED on-times and latch events.
func (p *Panel) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.lit {
		p.lit[i] = [Columns][16]uint64{}
	}
	p.latches = [Columns]uint64{}
	p.trace = p.trace[:0]
}

// Latched returns the word last committed to a physical column of a block.
func (p *Panel) Latched(block, column int) uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latched[block][column]
}

// physical maps the column counter to the physical column.
func (p *Panel) physical(column int) int {
	if p.config.ReverseColumns {
		return Columns - 1 - column
	}
	return column
}

func (p *Panel) edge(pin *Pin, level gpio.Level) {
	rising := level && !pin.level
	pin.level = level
	if !rising {
		return
	}
	switch pin {
	case p.clock:
		p.shiftIn(p.data.level)
	case p.latch:
		p.commit()
	}
}

func (p *Panel) shiftIn(bit gpio.Level) {
	var carry uint16
	if bit {
		carry = 1
	}
	for i := range p.shift {
		if p.config.LSBFirst {
			out := p.shift[i] & 1
			p.shift[i] = p.shift[i]>>1 | carry<<15
			carry = out
		} else {
			out := p.shift[i] >> 15
			p.shift[i] = p.shift[i]<<1 | carry
			carry = out
		}
	}
}

func (p *Panel) commit() {
	if p.clock.level == gpio.Low {
		p.column = 0
	} else {
		p.column = (p.column + 1) % Columns
	}
	col := p.physical(p.column)

	p.latches[col]++
	for b, word := range p.shift {
		p.latched[b][col] = word
		for bit := 0; bit < 16; bit++ {
			if word&(1<<uint(bit)) != 0 {
				p.lit[b][col][bit]++
			}
		}
	}
	if p.tracing {
		p.trace = append(p.trace, Latch{
			Column: col,
			Words:  append([]uint16(nil), p.shift...),
		})
	}
}

// Level returns the time-averaged intensity level (0..3) of an LED. Bit 2k is the green
// LED of row k, bit 2k+1 the red LED.
func (p *Panel) Level(x, y, bit int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	block, col, ok := p.locate(x, y)
	if !ok {
		return 0
	}
	return level(p.lit[block][col][bit], p.latches[col])
}

func (p *Panel) locate(x, y int) (block, column int, ok bool) {
	if !image.Pt(x, y).In(p.Bounds()) {
		return 0, 0, false
	}
	block = x/Columns + (y/pixel.RowsPerColumn)*p.config.BlocksX
	return block, x % Columns, true
}

// level quantizes an on-time ratio to the nearest of 0%, 25%, 50% and 100%.
func level(lit, total uint64) int {
	if total == 0 {
		return 0
	}
	switch f := float64(lit) / float64(total); {
	case f < 0.125:
		return 0
	case f < 0.375:
		return 1
	case f < 0.75:
		return 2
	default:
		return 3
	}
}

// Snapshot returns the time-averaged colors of all LEDs.
func (p *Panel) Snapshot() *pixel.Image {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := p.Bounds()
	img := pixel.NewImage(r.Dx(), r.Dy())
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			block, col, _ := p.locate(x, y)
			var (
				row   = y % pixel.RowsPerColumn
				lit   = &p.lit[block][col]
				green = level(lit[2*row], p.latches[col])
				red   = level(lit[2*row+1], p.latches[col])
			)
			img.SetPixel(x, y, pixel.RGB(red, green))
		}
	}
	return img
}

// Pin is an emulated panel input.
type Pin struct {
	panel  *Panel
	name   string
	number int
	level  gpio.Level
	err    error
}

func (pin *Pin) String() string {
	return pin.name
}

// Halt implements conn.Resource.
func (pin *Pin) Halt() error {
	return nil
}

// Name of the pin.
func (pin *Pin) Name() string {
	return pin.name
}

// Number of the pin.
func (pin *Pin) Number() int {
	return pin.number
}

// Function of the pin.
func (pin *Pin) Function() string {
	return "Out/" + pin.Read().String()
}

// Read returns the current level.
func (pin *Pin) Read() gpio.Level {
	pin.panel.mu.Lock()
	defer pin.panel.mu.Unlock()
	return pin.level
}

// Out sets the pin level.
func (pin *Pin) Out(l gpio.Level) error {
	pin.panel.mu.Lock()
	defer pin.panel.mu.Unlock()
	if pin.err != nil {
		return pin.err
	}
	pin.panel.edge(pin, l)
	return nil
}

// PWM is not supported.
func (pin *Pin) PWM(gpio.Duty, physic.Frequency) error {
	return fmt.Errorf("panel: %s: PWM is not supported", pin.name)
}

// Fail makes Out return err, a nil error restores the pin.
func (pin *Pin) Fail(err error) {
	pin.panel.mu.Lock()
	defer pin.panel.mu.Unlock()
	pin.err = err
}

// Interface checks.
var _ gpio.PinOut = (*Pin)(nil)
