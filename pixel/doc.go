// Package pixel implements the packed bi-color pixel format of PixBlock LED matrix panels.
//
// A [Column] holds 8 vertically stacked red/green pixels in two 16-bit bit-planes. Each
// LED has four intensity levels which are encoded by the combination of its bit in the
// MSB and LSB plane. The [Image] type composes columns into a screen and is compatible
// with Go's native [color.Color] and [draw.Image] interfaces.
package pixel
