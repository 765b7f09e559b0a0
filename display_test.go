package dotmatrix

import (
	"errors"
	"image"
	"image/draw"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/BeatGlow/dotmatrix/font"
	"github.com/BeatGlow/dotmatrix/memory"
	"github.com/BeatGlow/dotmatrix/panel"
	"github.com/BeatGlow/dotmatrix/pixel"
)

// testDisplay returns a display wired to an emulated panel of the same geometry.
func testDisplay(t *testing.T, config Config) (*Display, *panel.Panel) {
	t.Helper()
	c := config.withDefaults()
	p := panel.New(panel.Config{
		BlocksX:        c.BlocksX,
		BlocksY:        c.BlocksY,
		LSBFirst:       c.LSBFirst,
		ReverseColumns: c.ReverseColumns,
	})
	config.Data = p.Data()
	config.Clock = p.Clock()
	config.Latch = p.Latch()
	d, err := New(&config)
	if err != nil {
		t.Fatal(err)
	}
	return d, p
}

func testPins() (data, clock, latch *gpiotest.Pin) {
	return &gpiotest.Pin{N: "GPIO17", Num: 17, L: gpio.High},
		&gpiotest.Pin{N: "GPIO27", Num: 27, L: gpio.High},
		&gpiotest.Pin{N: "GPIO22", Num: 22, L: gpio.High}
}

func TestNew(t *testing.T) {
	data, clock, latch := testPins()
	d, err := New(&Config{Data: data, Clock: clock, Latch: latch})
	if err != nil {
		t.Fatal(err)
	}
	for _, pin := range []*gpiotest.Pin{data, clock, latch} {
		if pin.L != gpio.Low {
			t.Errorf("%s: expected pin to be driven low", pin)
		}
	}
	if r := d.Bounds(); r != image.Rect(0, 0, 16, 8) {
		t.Errorf("expected default bounds %s, got %s", image.Rect(0, 0, 16, 8), r)
	}
	c := d.Config()
	if c.LatchPulse != DefaultConfig.LatchPulse || c.RefreshRate != DefaultConfig.RefreshRate {
		t.Errorf("expected default timing, got %s and %s", c.LatchPulse, c.RefreshRate)
	}
	if len(d.storage) != 16 {
		t.Errorf("expected 16 columns of storage, got %d", len(d.storage))
	}
}

func TestNewErrors(t *testing.T) {
	data, clock, latch := testPins()
	tests := []struct {
		Name   string
		Config *Config
		Err    error
	}{
		{"nil", nil, ErrDataPin},
		{"data", &Config{Data: gpio.INVALID, Clock: clock, Latch: latch}, ErrDataPin},
		{"clock", &Config{Data: data, Latch: latch}, ErrClockPin},
		{"latch", &Config{Data: data, Clock: clock, Latch: gpio.INVALID}, ErrLatchPin},
		{"blocks", &Config{BlocksX: -1, Data: data, Clock: clock, Latch: latch}, ErrBlocks},
		{"fonts", &Config{Data: data, Clock: clock, Latch: latch, Fonts: make(font.Table, font.MaxFonts+1)}, font.ErrTooManyFonts},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			if _, err := New(test.Config); !errors.Is(err, test.Err) {
				t.Errorf("expected %v, got %v", test.Err, err)
			}
		})
	}
}

func TestScreensShared(t *testing.T) {
	d, _ := testDisplay(t, Config{})
	if d.View(Visible) != d.View(Hidden) {
		t.Fatal("expected hidden screen to alias the visible screen")
	}
	d.SelectScreen(Hidden)
	d.SetPixel(3, 4, pixel.Red)
	if c := d.Pixel(3, 4, Visible); c != pixel.Red {
		t.Errorf("expected %s, got %s", pixel.Red, c)
	}
	d.SwapScreens()
	if c := d.Pixel(3, 4, Visible); c != pixel.Red {
		t.Errorf("expected %s after swap, got %s", pixel.Red, c)
	}
}

func TestScreensHidden(t *testing.T) {
	d, _ := testDisplay(t, Config{HiddenScreen: true})

	total := len(d.storage) / 2
	if total != 16 {
		t.Fatalf("expected a single allocation of 2x16 columns, got %d", len(d.storage))
	}
	if &d.View(Hidden).Pix[0] != &d.storage[total] {
		t.Error("expected hidden screen to use the second half of the storage")
	}

	if s := d.WorkingScreen(); s != Visible {
		t.Errorf("expected working screen %s, got %s", Visible, s)
	}
	d.SelectScreen(Hidden)
	d.SetPixel(1, 2, pixel.Green)
	if c := d.Pixel(1, 2, Visible); c != pixel.Black {
		t.Errorf("expected visible screen to be untouched, got %s", c)
	}
	if c := d.Pixel(1, 2, Hidden); c != pixel.Green {
		t.Errorf("expected %s on hidden screen, got %s", pixel.Green, c)
	}

	d.SwapScreens()
	if c := d.Pixel(1, 2, Visible); c != pixel.Green {
		t.Errorf("expected %s on visible screen after swap, got %s", pixel.Green, c)
	}
	if s := d.WorkingScreen(); s != Hidden {
		t.Errorf("expected working screen to stay %s, got %s", Hidden, s)
	}
	if d.Working() != d.View(Hidden) {
		t.Error("expected working image to follow the hidden screen")
	}
	if d.Working() != d.screens[Visible] {
		t.Error("expected the first buffer to be hidden after swap")
	}

	d.SwapScreens()
	if d.View(Visible) != d.screens[Visible] || d.View(Hidden) != d.screens[Hidden] {
		t.Error("expected two swaps to restore the screens")
	}
	if s := d.WorkingScreen(); s != Hidden {
		t.Errorf("expected working screen to stay %s, got %s", Hidden, s)
	}

	d.SelectScreen(Screen(42))
	if s := d.WorkingScreen(); s != Hidden {
		t.Errorf("expected unknown screen to be ignored, got %s", s)
	}
	if c := d.Pixel(1, 2, Screen(42)); c != pixel.OutOfRange {
		t.Errorf("expected %s for unknown screen, got %s", pixel.OutOfRange, c)
	}
	if v := d.View(Screen(42)); v != nil {
		t.Error("expected no view for unknown screen")
	}
}

func TestClear(t *testing.T) {
	d, _ := testDisplay(t, Config{HiddenScreen: true})
	d.View(Visible).Fill(pixel.Orange)
	d.View(Hidden).Fill(pixel.Orange)

	d.SelectScreen(Hidden)
	d.Clear()
	for _, col := range d.View(Hidden).Pix {
		if !col.IsBlack() {
			t.Fatalf("expected hidden screen to be cleared, got %+v", col)
		}
	}
	if c := d.Pixel(0, 0, Visible); c != pixel.Orange {
		t.Errorf("expected visible screen to be untouched, got %s", c)
	}
}

func TestPixelOutOfRange(t *testing.T) {
	d, _ := testDisplay(t, Config{})
	d.SetPixel(16, 0, pixel.Red)
	d.SetPixel(-1, 0, pixel.Red)
	for _, pt := range []image.Point{{16, 0}, {0, 8}, {-1, 0}, {0, -1}} {
		if c := d.Pixel(pt.X, pt.Y, Visible); c != pixel.OutOfRange {
			t.Errorf("%s: expected %s, got %s", pt, pixel.OutOfRange, c)
		}
	}
	for _, col := range d.storage {
		if !col.IsBlack() {
			t.Fatalf("expected out of range writes to be ignored, got %+v", col)
		}
	}
}

func TestDraw(t *testing.T) {
	d, _ := testDisplay(t, Config{})
	draw.Draw(d, image.Rect(2, 2, 4, 4), image.NewUniform(pixel.Yellow), image.Point{}, draw.Src)
	if c := d.Pixel(3, 3, Visible); c != pixel.Yellow {
		t.Errorf("expected %s, got %s", pixel.Yellow, c)
	}
	if c := d.At(3, 3); c != pixel.Yellow {
		t.Errorf("expected %s, got %v", pixel.Yellow, c)
	}
	if c := d.Pixel(4, 4, Visible); c != pixel.Black {
		t.Errorf("expected %s, got %s", pixel.Black, c)
	}
}

func TestSetColumn(t *testing.T) {
	d, _ := testDisplay(t, Config{BlocksY: 2})
	d.SetColumn(5, 4, d.Encode(0xff, pixel.Red), pixel.Opaque)
	for y := 0; y < 16; y++ {
		want := pixel.Black
		if y >= 4 && y < 12 {
			want = pixel.Red
		}
		if c := d.Pixel(5, y, Visible); c != want {
			t.Errorf("(5,%d): expected %s, got %s", y, want, c)
		}
	}
}

func TestSetOffset(t *testing.T) {
	d, _ := testDisplay(t, Config{})
	d.SetOffset(5)
	if v := d.Offset(); v != 5 {
		t.Errorf("expected offset 5, got %d", v)
	}
	for _, v := range []int{16, 100, -1} {
		d.SetOffset(v)
		if o := d.Offset(); o != 5 {
			t.Errorf("SetOffset(%d): expected offset to stay 5, got %d", v, o)
		}
	}
	d.SetOffset(15)
	if v := d.Offset(); v != 15 {
		t.Errorf("expected offset 15, got %d", v)
	}
}

func TestMemory(t *testing.T) {
	eeprom := memory.Bytes{0x0f, 0x00, 0x0f, 0x00}
	d, _ := testDisplay(t, Config{EEPROM: eeprom})

	if d.Memory(memory.Flash) != ProgramMemory {
		t.Error("expected program memory as default flash")
	}
	if d.Memory(memory.EEPROM).Word(0) != 0x000f {
		t.Error("expected configured EEPROM")
	}
	if d.Memory(memory.Kind(9)) != memory.None {
		t.Error("expected unknown kind to read as zero")
	}
	if ram := d.RAM(); ram == nil || len(ram.Bytes) != DefaultRAMSize {
		t.Error("expected default RAM")
	}
}

func TestDisplayGraphics(t *testing.T) {
	d, _ := testDisplay(t, Config{})

	d.DisplayGraphics(0, 0, pixel.Opaque, RainbowAddr, memory.Flash, RainbowColumns)
	for i := 0; i < RainbowColumns; i++ {
		want := pixel.Column{LSB: rainbow[2*i], MSB: rainbow[2*i+1]}
		if col := d.View(Visible).Pix[i]; col != want {
			t.Errorf("column %d: expected %+v, got %+v", i, want, col)
		}
	}

	d.RAM().PutWords(0, 0x0003, 0x0001)
	d.DisplayGraphics(10, 0, pixel.Opaque, 0, memory.RAM, 1)
	if c := d.Pixel(10, 0, Visible); c != pixel.Yellow {
		t.Errorf("expected %s, got %s", pixel.Yellow, c)
	}

	d.View(Visible).Fill(pixel.Red)
	d.DisplayGraphics(0, 0, pixel.Opaque, 0, memory.EEPROM, 2)
	d.DisplayGraphics(2, 0, pixel.Opaque, 0, memory.Kind(7), 2)
	for x := 0; x < 4; x++ {
		if c := d.Pixel(x, 0, Visible); c != pixel.Black {
			t.Errorf("column %d: expected missing memory to read as black, got %s", x, c)
		}
	}
	if c := d.Pixel(4, 0, Visible); c != pixel.Red {
		t.Errorf("expected column 4 to be untouched, got %s", c)
	}
}

func TestDisplayText(t *testing.T) {
	d, _ := testDisplay(t, Config{})
	d.RAM().WriteString(100, "!!")

	if !d.DisplayText(0, 0, pixel.Opaque, 100, memory.RAM, 0, 16) {
		t.Error("expected end of text")
	}
	g, _ := font.Default.Lookup('!')
	want := append(append([]byte(nil), g.Columns...), g.Columns...)
	for i, pattern := range want {
		if col := d.View(Visible).Pix[i]; col != pixel.Encode(pattern, pixel.Orange) {
			t.Errorf("column %d: expected pattern %#02x, got %+v", i, pattern, col)
		}
	}
	if w := d.TextWidth(100, memory.RAM); w != 2*g.Width() {
		t.Errorf("expected text width %d, got %d", 2*g.Width(), w)
	}

	if d.DisplayString(0, 0, pixel.Opaque, "!!!!!!!!", 0, 4) {
		t.Error("expected end of text not to be reached")
	}
	if !d.DisplayText(0, 0, pixel.Opaque, 0, memory.Kind(7), 0, 4) {
		t.Error("expected unknown memory to read as end of text")
	}
}

func TestDisplayLogo(t *testing.T) {
	t.Run("single row", func(t *testing.T) {
		d, _ := testDisplay(t, Config{BlocksX: 12})
		d.DisplayLogo()
		w := d.Bounds().Dx()
		for i := 0; i < RainbowColumns; i++ {
			want := pixel.Column{LSB: rainbow[2*i], MSB: rainbow[2*i+1]}
			if col := d.View(Visible).Pix[i]; col != want {
				t.Errorf("column %d: expected rainbow %+v, got %+v", i, want, col)
			}
			if col := d.View(Visible).Pix[w-RainbowColumns+i]; col != want {
				t.Errorf("column %d: expected rainbow %+v, got %+v", w-RainbowColumns+i, want, col)
			}
		}
		if c := d.Pixel(RainbowColumns+2, 1, Visible); c != pixel.Red {
			t.Errorf("expected logo to start in %s, got %s", pixel.Red, c)
		}
		if c := d.Pixel(RainbowColumns+2, 0, Visible); c != pixel.Black {
			t.Errorf("expected blank top row, got %s", c)
		}
	})

	t.Run("two rows", func(t *testing.T) {
		d, _ := testDisplay(t, Config{BlocksX: 4, BlocksY: 2})
		d.DisplayLogo()
		var lit int
		for y := 9; y < 16; y++ {
			for x := 0; x < 32; x++ {
				if d.Pixel(x, y, Visible) != pixel.Black {
					lit++
				}
			}
		}
		if lit == 0 {
			t.Error("expected logo to continue on the second row")
		}
	})
}
