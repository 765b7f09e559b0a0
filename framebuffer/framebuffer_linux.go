package framebuffer

import (
	"image"
	"os"
	"syscall"

	"github.com/BeatGlow/dotmatrix/internal/ioctl"
)

// From <linux/fb.h>
const (
	fbioGetVScreenInfo ioctl.Command = 0x4600
	fbioGetFScreenInfo ioctl.Command = 0x4602
)

// Open a Linux framebuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (*Device, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	var (
		fd     = f.Fd()
		fixed  fixScreenInfo
		screen varScreenInfo
	)
	if err = ioctl.Get(fd, fbioGetFScreenInfo, &fixed); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Get(fd, fbioGetVScreenInfo, &screen); err != nil {
		_ = f.Close()
		return nil, err
	}

	format := parseFormat(&screen)
	if format == 0 {
		_ = f.Close()
		return nil, ErrFormat
	}

	pix, err := syscall.Mmap(int(fd), 0, int(fixed.SmemLen), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Device{
		Buffer: &Buffer{
			Pix:    pix,
			Stride: int(fixed.LineLength),
			Rect:   image.Rect(0, 0, int(screen.Xres), int(screen.Yres)),
			Format: format,
		},
		name: name,
		close: func() error {
			if err := syscall.Munmap(pix); err != nil {
				return err
			}
			return f.Close()
		},
	}, nil
}

type fixScreenInfo struct {
	ID         [16]byte
	SmemStart  uintptr
	SmemLen    uint32
	Type       uint32
	TypeAux    uint32
	Visual     uint32
	Xpanstep   uint16
	Ypanstep   uint16
	Ywrapstep  uint16
	LineLength uint32
	MmioStart  uintptr
	MmioLen    uint32
	Accel      uint32
	Reserved   [3]uint16
}

type bitField struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

func parseFormat(info *varScreenInfo) Format {
	switch {
	case info.BitsPerPixel == 16 &&
		info.Red.Offset == 11 && info.Red.Length == 5 &&
		info.Green.Offset == 5 && info.Green.Length == 6 &&
		info.Blue.Offset == 0 && info.Blue.Length == 5:
		return RGB565
	case info.BitsPerPixel == 32 &&
		info.Red.Offset == 16 && info.Red.Length == 8 &&
		info.Green.Offset == 8 && info.Green.Length == 8 &&
		info.Blue.Offset == 0 && info.Blue.Length == 8:
		return XRGB8888
	default:
		return 0
	}
}
