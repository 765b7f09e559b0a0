package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/dotmatrix"
	"github.com/BeatGlow/dotmatrix/draw"
	"github.com/BeatGlow/dotmatrix/memory"
	"github.com/BeatGlow/dotmatrix/pixel"
	"github.com/BeatGlow/dotmatrix/text"
)

func main() {
	blocksXFlag := flag.Int("blocks-x", dotmatrix.DefaultConfig.BlocksX, "Number of blocks in horizontal direction")
	blocksYFlag := flag.Int("blocks-y", dotmatrix.DefaultConfig.BlocksY, "Number of blocks in vertical direction")
	hiddenFlag := flag.Bool("hidden", true, "Use a hidden screen for flicker free updates")
	lsbFirstFlag := flag.Bool("lsb-first", false, "Shift out LED bits least significant bit first")
	reverseFlag := flag.Bool("reverse", false, "Scan block columns from right to left")
	dataPinFlag := flag.String("data", "GPIO17", "Data GPIO pin")
	clockPinFlag := flag.String("clock", "GPIO27", "Clock GPIO pin")
	latchPinFlag := flag.String("latch", "GPIO22", "Latch GPIO pin")
	speedFlag := flag.Duration("speed", 60*time.Millisecond, "Time per scroll step")
	eepromFlag := flag.String("eeprom", "", "File backing the EEPROM memory (optional)")
	rate := dotmatrix.DefaultConfig.RefreshRate
	flag.Var(&rate, "rate", "Column refresh rate")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	config := &dotmatrix.Config{
		BlocksX:        *blocksXFlag,
		BlocksY:        *blocksYFlag,
		HiddenScreen:   *hiddenFlag,
		LSBFirst:       *lsbFirstFlag,
		ReverseColumns: *reverseFlag,
		Data:           pin(*dataPinFlag),
		Clock:          pin(*clockPinFlag),
		Latch:          pin(*latchPinFlag),
		RefreshRate:    rate,
	}

	if *eepromFlag != "" {
		eeprom, err := memory.OpenStore(*eepromFlag, 1024)
		if err != nil {
			fatal(err)
		}
		defer eeprom.Close()
		config.EEPROM = eeprom
		fmt.Printf("using EEPROM: %s\n", eeprom)
	}

	output, err := dotmatrix.New(config)
	if err != nil {
		fatal(err)
	}
	defer output.Close()
	fmt.Printf("using display: %s\n", output)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go func() {
		if err := output.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "refresh: "+err.Error())
		}
	}()

	if !intro(ctx, output) {
		return
	}

	message := string([]byte{text.Font(1), text.Color(pixel.Green)}) + "Hello, " +
		string(text.Color(pixel.Yellow)) + "PixBlock" +
		string(text.Color(pixel.Red)) + "!"
	if flag.NArg() > 0 {
		message = flag.Arg(0)
	}
	var (
		scroller = output.NewStringScroller(0, message)
		ticker   = time.NewTicker(*speedFlag)
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
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

func pin(name string) gpio.PinOut {
	p := gpioreg.ByName(name)
	if p == nil {
		fatal(fmt.Errorf("no GPIO pin named %q", name))
	}
	return p
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
