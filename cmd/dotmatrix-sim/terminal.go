package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/BeatGlow/dotmatrix/panel"
	"github.com/BeatGlow/dotmatrix/pixel"
)

// runTerminal draws the panel with 24-bit ANSI colors until the context is done. If
// stdout is not a terminal, frames are printed as plain text.
func runTerminal(ctx context.Context, p *panel.Panel, fps int) error {
	if fps < 1 {
		fps = 1
	}

	var (
		fd    = int(os.Stdout.Fd())
		tty   = term.IsTerminal(fd)
		cell  = "●"
		size  = p.Bounds().Size()
		out   = bufio.NewWriter(os.Stdout)
		frame = time.NewTicker(time.Second / time.Duration(fps))
	)
	defer frame.Stop()

	if tty {
		if width, _, err := term.GetSize(fd); err == nil && width < 2*size.X {
			return fmt.Errorf("terminal is %d columns wide, %d needed", width, 2*size.X)
		}
		fmt.Fprint(out, "\x1b[2J\x1b[?25l")
		defer func() {
			fmt.Fprint(out, "\x1b[0m\x1b[?25h\n")
			out.Flush()
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-frame.C:
		}

		snap := p.Snapshot()
		p.Reset()
		if tty {
			fmt.Fprint(out, "\x1b[H")
			writeANSI(out, snap, cell)
		} else {
			writePlain(out, snap)
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}
}

func writeANSI(out *bufio.Writer, img *pixel.Image, cell string) {
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := ledColor(img.Pixel(x, y))
			fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm%s ", c.R, c.G, c.B, cell)
		}
		fmt.Fprint(out, "\x1b[0m\n")
	}
}

// writePlain prints one character per LED, by brightness.
func writePlain(out *bufio.Writer, img *pixel.Image) {
	const levels = " .+#"
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.Pixel(x, y)
			out.WriteByte(levels[max(c.Red(), c.Green())])
		}
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
}
