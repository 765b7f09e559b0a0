//go:build !headless

package main

import (
	"context"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/colornames"

	"github.com/BeatGlow/dotmatrix/panel"
	"github.com/BeatGlow/dotmatrix/pixel"
)

// window shows the panel snapshot, one square cell per LED.
type window struct {
	ctx   context.Context
	panel *panel.Panel
	scale int
	size  image.Point
	frame *pixel.Image
}

func runWindow(ctx context.Context, p *panel.Panel, scale int) error {
	if scale < 2 {
		scale = 2
	}
	w := &window{
		ctx:   ctx,
		panel: p,
		scale: scale,
		size:  p.Bounds().Size().Mul(scale),
	}

	ebiten.SetWindowSize(w.size.X, w.size.Y)
	ebiten.SetWindowTitle(p.String())
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(w); err != nil && err != ebiten.Termination {
		return err
	}
	return ctx.Err()
}

func (w *window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	w.frame = w.panel.Snapshot()
	w.panel.Reset()
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	if w.frame == nil {
		return
	}

	r := w.frame.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cell := image.Rect(x*w.scale+1, y*w.scale+1, (x+1)*w.scale-1, (y+1)*w.scale-1)
			screen.SubImage(cell).(*ebiten.Image).Fill(ledColor(w.frame.Pixel(x, y)))
		}
	}
}

func (w *window) Layout(_, _ int) (int, int) {
	return w.size.X, w.size.Y
}
