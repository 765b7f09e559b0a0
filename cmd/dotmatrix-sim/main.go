// Command dotmatrix-sim runs the display driver against an emulated PixBlock panel and
// shows the time-averaged LED colors in the terminal, in a window or on a framebuffer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"time"

	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/BeatGlow/dotmatrix"
	"github.com/BeatGlow/dotmatrix/draw"
	"github.com/BeatGlow/dotmatrix/font"
	"github.com/BeatGlow/dotmatrix/panel"
	"github.com/BeatGlow/dotmatrix/pixel"
	"github.com/BeatGlow/dotmatrix/text"
)

func main() {
	blocksXFlag := flag.Int("blocks-x", 4, "Number of blocks in horizontal direction")
	blocksYFlag := flag.Int("blocks-y", 1, "Number of blocks in vertical direction")
	hiddenFlag := flag.Bool("hidden", true, "Use a hidden screen for flicker free updates")
	lsbFirstFlag := flag.Bool("lsb-first", false, "Shift out LED bits least significant bit first")
	reverseFlag := flag.Bool("reverse", false, "Scan block columns from right to left")
	speedFlag := flag.Duration("speed", 60*time.Millisecond, "Time per scroll step")
	ttfFlag := flag.String("ttf", "", `TrueType font file used as font 1, "gomono" for the built-in Go Mono font`)
	windowFlag := flag.Bool("window", false, "Show the panel in a window instead of the terminal")
	fbFlag := flag.String("fb", "", "Show the panel on a framebuffer device, such as /dev/fb0")
	scaleFlag := flag.Int("scale", 16, "Window or framebuffer pixels per LED")
	fpsFlag := flag.Int("fps", 25, "Terminal or framebuffer frames per second")
	rate := dotmatrix.DefaultConfig.RefreshRate
	flag.Var(&rate, "rate", "Column refresh rate")
	flag.Parse()

	fonts, err := loadFonts(*ttfFlag)
	if err != nil {
		fatal(err)
	}

	p := panel.New(panel.Config{
		BlocksX:        *blocksXFlag,
		BlocksY:        *blocksYFlag,
		LSBFirst:       *lsbFirstFlag,
		ReverseColumns: *reverseFlag,
	})
	output, err := dotmatrix.New(&dotmatrix.Config{
		BlocksX:        *blocksXFlag,
		BlocksY:        *blocksYFlag,
		HiddenScreen:   *hiddenFlag,
		LSBFirst:       *lsbFirstFlag,
		ReverseColumns: *reverseFlag,
		Data:           p.Data(),
		Clock:          p.Clock(),
		Latch:          p.Latch(),
		RefreshRate:    rate,
		Fonts:          fonts,
	})
	if err != nil {
		fatal(err)
	}
	defer output.Close()

	message := string([]byte{text.Font(1), text.Color(pixel.Green)}) + "Hello, " +
		string(text.Color(pixel.Yellow)) + "PixBlock" +
		string(text.Color(pixel.Red)) + "!"
	if flag.NArg() > 0 {
		message = flag.Arg(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go func() {
		if err := output.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "refresh: "+err.Error())
		}
	}()
	go animate(ctx, output, message, *speedFlag)

	switch {
	case *windowFlag:
		err = runWindow(ctx, p, *scaleFlag)
	case *fbFlag != "":
		err = runFramebuffer(ctx, p, *fbFlag, *scaleFlag, *fpsFlag)
	default:
		err = runTerminal(ctx, p, *fpsFlag)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

func loadFonts(name string) (font.Table, error) {
	var ttf []byte
	switch name {
	case "":
		return nil, nil
	case "gomono":
		ttf = gomono.TTF
	default:
		var err error
		if ttf, err = os.ReadFile(name); err != nil {
			return nil, err
		}
	}
	f, err := font.LoadTrueType(name, ttf, nil)
	if err != nil {
		return nil, err
	}
	return font.Table{f, font.Default}, nil
}

// animate shows the intro, then scrolls the message.
func animate(ctx context.Context, output *dotmatrix.Display, message string, speed time.Duration) {
	if !intro(ctx, output) {
		return
	}

	var (
		scroller = output.NewStringScroller(0, message)
		ticker   = time.NewTicker(speed)
	)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scroller.Step()
		}
	}
}

// intro shows a test pattern and the logo. It returns false if the context is done.
func intro(ctx context.Context, output *dotmatrix.Display) bool {
	r := output.Bounds()
	output.SelectScreen(dotmatrix.Hidden)
	output.Clear()
	draw.RoundedRectangle(output, r, 2, pixel.Orange)
	draw.Line(output, r.Min, r.Max.Sub(image.Pt(1, 1)), pixel.Green)
	draw.Line(output, image.Pt(r.Max.X-1, r.Min.Y), image.Pt(r.Min.X, r.Max.Y-1), pixel.Red)
	output.SwapScreens()
	if !sleep(ctx, time.Second) {
		return false
	}

	output.Clear()
	output.DisplayLogo()
	output.SwapScreens()
	return sleep(ctx, 3*time.Second)
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// ledColor returns the color an LED is drawn with. Unlit LEDs are drawn dimmed so the
// matrix stays visible.
func ledColor(c pixel.Color) color.RGBA {
	if c.Red() == 0 && c.Green() == 0 {
		return colornames.Darkslategray
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
