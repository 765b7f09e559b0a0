package draw

import (
	"image"

	"github.com/BeatGlow/dotmatrix/pixel"
)

// Line draws a line from a to b, both end points included.
func Line(dst Image, a, b image.Point, c pixel.Color) {
	var (
		dx = abs(b.X - a.X)
		dy = -abs(b.Y - a.Y)
		sx = sign(b.X - a.X)
		sy = sign(b.Y - a.Y)
		e  = dx + dy
	)
	for {
		dst.SetPixel(a.X, a.Y, c)
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			e += dx
			a.Y += sy
		}
	}
}

// HorizontalLine draws w pixels from (x, y) to the right.
func HorizontalLine(dst Image, x, y, w int, c pixel.Color) {
	for i := 0; i < w; i++ {
		dst.SetPixel(x+i, y, c)
	}
}

// VerticalLine draws h pixels from (x, y) down.
func VerticalLine(dst Image, x, y, h int, c pixel.Color) {
	for i := 0; i < h; i++ {
		dst.SetPixel(x, y+i, c)
	}
}

// Rectangle draws the outline of r.
func Rectangle(dst Image, r image.Rectangle, c pixel.Color) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	w, h := r.Dx(), r.Dy()
	HorizontalLine(dst, r.Min.X, r.Min.Y, w, c)
	HorizontalLine(dst, r.Min.X, r.Max.Y-1, w, c)
	VerticalLine(dst, r.Min.X, r.Min.Y, h, c)
	VerticalLine(dst, r.Max.X-1, r.Min.Y, h, c)
}

// Box draws a filled rectangle.
func Box(dst Image, r image.Rectangle, c pixel.Color) {
	r = r.Canon().Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		HorizontalLine(dst, r.Min.X, y, r.Dx(), c)
	}
}

// Circle draws the outline of a circle around center.
func Circle(dst Image, center image.Point, radius int, c pixel.Color) {
	circle(radius, func(x, y int) {
		dst.SetPixel(center.X+x, center.Y+y, c)
		dst.SetPixel(center.X-x, center.Y+y, c)
		dst.SetPixel(center.X+x, center.Y-y, c)
		dst.SetPixel(center.X-x, center.Y-y, c)
	})
}

// Disc draws a filled circle around center.
func Disc(dst Image, center image.Point, radius int, c pixel.Color) {
	circle(radius, func(x, y int) {
		HorizontalLine(dst, center.X-x, center.Y+y, 2*x+1, c)
		HorizontalLine(dst, center.X-x, center.Y-y, 2*x+1, c)
	})
}

// circle calls plot for every point (x, y) of the first quadrant of a midpoint circle,
// in both octants.
func circle(radius int, plot func(x, y int)) {
	if radius < 0 {
		return
	}
	x, y, f := radius, 0, 1-radius
	for y <= x {
		plot(x, y)
		plot(y, x)
		y++
		if f < 0 {
			f += 2*y + 1
		} else {
			x--
			f += 2*(y-x) + 1
		}
	}
}

// RoundedRectangle draws the outline of r with quarter circle corners of radius pixels.
func RoundedRectangle(dst Image, r image.Rectangle, radius int, c pixel.Color) {
	r = r.Canon()
	radius = min(radius, (r.Dx()-1)/2, (r.Dy()-1)/2)
	if radius <= 0 {
		Rectangle(dst, r, c)
		return
	}

	var (
		x0, y0 = r.Min.X + radius, r.Min.Y + radius
		x1, y1 = r.Max.X - 1 - radius, r.Max.Y - 1 - radius
	)
	HorizontalLine(dst, x0, r.Min.Y, x1-x0+1, c)
	HorizontalLine(dst, x0, r.Max.Y-1, x1-x0+1, c)
	VerticalLine(dst, r.Min.X, y0, y1-y0+1, c)
	VerticalLine(dst, r.Max.X-1, y0, y1-y0+1, c)
	circle(radius, func(x, y int) {
		dst.SetPixel(x1+x, y1+y, c)
		dst.SetPixel(x0-x, y1+y, c)
		dst.SetPixel(x1+x, y0-y, c)
		dst.SetPixel(x0-x, y0-y, c)
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
