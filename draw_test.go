package dotmatrix

import (
	"image"
	"testing"

	"github.com/BeatGlow/dotmatrix/draw"
	"github.com/BeatGlow/dotmatrix/pixel"
)

var _ draw.Image = (*Display)(nil)

func TestDrawShapes(t *testing.T) {
	d, _ := testDisplay(t, Config{BlocksX: 2, BlocksY: 2, HiddenScreen: true})
	d.SelectScreen(Hidden)

	draw.Rectangle(d, d.Bounds(), pixel.Red)
	draw.Line(d, image.Pt(0, 0), image.Pt(15, 15), pixel.Green)

	for _, p := range []image.Point{{15, 0}, {0, 15}, {8, 0}, {15, 8}} {
		if c := d.Pixel(p.X, p.Y, Hidden); c != pixel.Red {
			t.Errorf("%s: expected %s, got %s", p, pixel.Red, c)
		}
	}
	// The diagonal crosses the block row boundary.
	for _, p := range []image.Point{{7, 7}, {8, 8}, {15, 15}} {
		if c := d.Pixel(p.X, p.Y, Hidden); c != pixel.Green {
			t.Errorf("%s: expected %s, got %s", p, pixel.Green, c)
		}
	}
	if c := d.Pixel(3, 3, Visible); c != pixel.Black {
		t.Errorf("expected the visible screen to stay empty, got %s", c)
	}
}
