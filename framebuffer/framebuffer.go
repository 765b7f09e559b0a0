// Package framebuffer draws on the operating system's native framebuffer.
//
// This requires framebuffer device support in the operating system (Linux fbdev). The
// simulator uses it to show an emulated panel on a local screen without a window system.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	ErrNotSupported = errors.New("framebuffer: not supported")
	ErrFormat       = errors.New("framebuffer: unsupported pixel format")
)

// Format is a packed pixel format, stored little endian.
type Format int

// Formats.
const (
	RGB565 Format = iota + 1
	XRGB8888
)

func (f Format) String() string {
	switch f {
	case RGB565:
		return "RGB565"
	case XRGB8888:
		return "XRGB8888"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// BytesPerPixel returns the pixel size, or 0 for an unknown format.
func (f Format) BytesPerPixel() int {
	switch f {
	case RGB565:
		return 2
	case XRGB8888:
		return 4
	default:
		return 0
	}
}

// Buffer is a packed image in the memory layout of a framebuffer.
type Buffer struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
	Format Format
}

// NewBuffer allocates a buffer of w by h pixels.
func NewBuffer(w, h int, format Format) *Buffer {
	stride := w * format.BytesPerPixel()
	return &Buffer{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   image.Rect(0, 0, w, h),
		Format: format,
	}
}

func (b *Buffer) Bounds() image.Rectangle {
	return b.Rect
}

func (b *Buffer) ColorModel() color.Model {
	return color.RGBAModel
}

func (b *Buffer) offset(x, y int) int {
	return (y-b.Rect.Min.Y)*b.Stride + (x-b.Rect.Min.X)*b.Format.BytesPerPixel()
}

func (b *Buffer) At(x, y int) color.Color {
	if !image.Pt(x, y).In(b.Rect) {
		return color.RGBA{}
	}
	i := b.offset(x, y)
	switch b.Format {
	case RGB565:
		v := uint16(b.Pix[i]) | uint16(b.Pix[i+1])<<8
		r, g, bl := uint8(v>>11), uint8(v>>5&0x3f), uint8(v&0x1f)
		return color.RGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: bl<<3 | bl>>2, A: 0xff}
	case XRGB8888:
		return color.RGBA{R: b.Pix[i+2], G: b.Pix[i+1], B: b.Pix[i], A: 0xff}
	default:
		return color.RGBA{}
	}
}

func (b *Buffer) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(b.Rect) {
		return
	}
	b.set(b.offset(x, y), color.RGBAModel.Convert(c).(color.RGBA))
}

func (b *Buffer) set(i int, c color.RGBA) {
	switch b.Format {
	case RGB565:
		v := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
		b.Pix[i], b.Pix[i+1] = byte(v), byte(v>>8)
	case XRGB8888:
		b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = c.B, c.G, c.R, 0xff
	}
}

// Fill sets every pixel of r to c.
func (b *Buffer) Fill(r image.Rectangle, c color.Color) {
	var (
		v  = color.RGBAModel.Convert(c).(color.RGBA)
		bp = b.Format.BytesPerPixel()
	)
	r = r.Intersect(b.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for i, end := b.offset(r.Min.X, y), b.offset(r.Max.X, y); i < end; i += bp {
			b.set(i, v)
		}
	}
}

// Device is an opened framebuffer device.
type Device struct {
	*Buffer
	name  string
	close func() error
}

func (d *Device) String() string {
	return fmt.Sprintf("framebuffer %s (%s %s)", d.name, d.Rect.Size(), d.Format)
}

// Close the framebuffer device.
func (d *Device) Close() error {
	return d.close()
}
