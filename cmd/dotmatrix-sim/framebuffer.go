package main

import (
	"context"
	"fmt"
	"image"
	"time"

	"golang.org/x/image/colornames"

	"github.com/BeatGlow/dotmatrix/framebuffer"
	"github.com/BeatGlow/dotmatrix/panel"
)

// runFramebuffer draws the panel centered on a framebuffer device until the context is
// done.
func runFramebuffer(ctx context.Context, p *panel.Panel, name string, scale, fps int) error {
	fb, err := framebuffer.Open(name)
	if err != nil {
		return err
	}
	defer fb.Close()
	fmt.Printf("using output: %s\n", fb)

	var (
		size   = p.Bounds().Size()
		screen = fb.Bounds()
	)
	scale = min(scale, screen.Dx()/size.X, screen.Dy()/size.Y)
	if scale < 2 {
		return fmt.Errorf("%s is too small for %s LEDs", fb, size)
	}
	origin := screen.Min.Add(screen.Size().Sub(size.Mul(scale)).Div(2))

	fb.Fill(screen, colornames.Black)
	frame := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer frame.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-frame.C:
		}

		snap := p.Snapshot()
		p.Reset()
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				cell := image.Rect(x*scale+1, y*scale+1, (x+1)*scale-1, (y+1)*scale-1).Add(origin)
				fb.Fill(cell, ledColor(snap.Pixel(x, y)))
			}
		}
	}
}
