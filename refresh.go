package dotmatrix

import (
	"context"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/dotmatrix/pixel"
)

// Tick refreshes one column of every block. It has to be called at a fixed rate, a
// full frame takes 8 ticks and each of the 4 brightness phases lasts one frame.
//
// If a pin fails, the tick is aborted and the error is returned. The refresh state
// advances regardless, so the next tick continues with the next column.
func (d *Display) Tick() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return ErrClosed
	}

	scan := d.scan
	if scan == 0 {
		d.phase = (d.phase - 1) & pixel.MaxLevel
	}
	d.scan = (scan + 1) & (ColumnsPerBlock - 1)
	d.ticks.Add(1)

	if err := d.refresh(scan, d.phase); err != nil {
		return fmt.Errorf("dotmatrix: refresh column %d: %w", scan, err)
	}
	return nil
}

func (d *Display) refresh(scan, phase uint8) error {
	var (
		screen = d.visible.Load()
		index  = d.sourceColumn(scan)
	)

	// The last block of the chain is shifted out first.
	for i := 0; i < d.blocks; i++ {
		if err := d.shiftOut(combine(screen.Pix[index], phase)); err != nil {
			return err
		}
		if index -= ColumnsPerBlock; index < 0 {
			index += d.total
		}
	}

	// Clock low after a latch marks column 0.
	if scan == 0 {
		if err := d.config.Clock.Out(gpio.Low); err != nil {
			return err
		}
	}
	return d.latch()
}

// sourceColumn is the screen column shown by the first column of the last block.
func (d *Display) sourceColumn(scan uint8) int {
	return (d.total - ColumnsPerBlock + int(d.offset.Load()) + d.columns[scan]) % d.total
}

// scanOrder maps a scan index to the block column it drives.
func scanOrder(reverse bool) (order [ColumnsPerBlock]int) {
	for i := range order {
		order[i] = i
		if reverse {
			order[i] = ColumnsPerBlock - 1 - i
		}
	}
	return
}

// shiftOrder returns the bit masks of a word in the order they are shifted out.
func shiftOrder(lsbFirst bool) (order [16]uint16) {
	for i := range order {
		order[i] = 0x8000 >> i
		if lsbFirst {
			order[i] = 1 << i
		}
	}
	return
}

// combine selects the LEDs lit during a brightness phase:
//
//	phase 3, 1: MSB and LSB set (level 3)
//	phase 2:    MSB set (level 2, 3)
//	phase 0:    MSB or LSB set (level 1, 2, 3)
func combine(c pixel.Column, phase uint8) uint16 {
	switch {
	case phase&1 != 0:
		return c.MSB & c.LSB
	case phase == 0:
		return c.MSB | c.LSB
	default:
		return c.MSB
	}
}

func (d *Display) shiftOut(word uint16) error {
	for _, mask := range d.bits {
		if err := d.config.Data.Out(gpio.Level(word&mask != 0)); err != nil {
			return err
		}
		// Data is sampled on the rising edge.
		if err := d.config.Clock.Out(gpio.Low); err != nil {
			return err
		}
		if err := d.config.Clock.Out(gpio.High); err != nil {
			return err
		}
	}
	return nil
}

func (d *Display) latch() error {
	if err := d.config.Latch.Out(gpio.High); err != nil {
		return err
	}
	delay(d.config.LatchPulse)
	return d.config.Latch.Out(gpio.Low)
}

// delay busy waits for d.
func delay(d time.Duration) {
	if d <= 0 {
		return
	}
	for start := time.Now(); time.Since(start) < d; {
	}
}

// Ticks returns the number of refresh ticks since New. At a fixed refresh rate it
// serves as a time base for animations.
func (d *Display) Ticks() uint64 {
	return d.ticks.Load()
}

// Run calls Tick at the configured refresh rate until the context is done. Pin errors
// are logged once per streak of failing ticks.
func (d *Display) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.config.RefreshRate.Period())
	defer ticker.Stop()

	if debug {
		log.Printf("dotmatrix: refresh at %s (%s per tick)", d.config.RefreshRate, d.config.RefreshRate.Period())
	}

	var failing bool
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := d.Tick()
			switch {
			case err == ErrClosed:
				return err
			case err != nil && !failing:
				log.Printf("dotmatrix: %v", err)
				failing = true
			case err == nil && failing:
				log.Printf("dotmatrix: refresh recovered after %d ticks", d.Ticks())
				failing = false
			}
		}
	}
}
