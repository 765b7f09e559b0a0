// Package draw draws shapes and images on bi-color pixel targets.
//
// Targets are anything that can set a single pixel, such as a *pixel.Image or a
// *dotmatrix.Display (which draws on its working screen). Pixels outside of the target
// are clipped by the target itself.
package draw

import (
	"image"
	"image/draw"

	"github.com/BeatGlow/dotmatrix/pixel"
)

// Image is a drawing target.
type Image interface {
	Bounds() image.Rectangle
	SetPixel(x, y int, c pixel.Color)
}

// Draw copies src into dst with sp in src aligned to r.Min in dst. Source colors are
// quantized to the nearest bi-color level; fully transparent source pixels are skipped.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			dst.SetPixel(x, y, pixel.Model.Convert(c).(pixel.Color))
		}
	}
}

// Fill sets every pixel of r to c.
func Fill(dst draw.Image, r image.Rectangle, c pixel.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}
