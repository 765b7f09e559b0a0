package dotmatrix

import (
	"github.com/BeatGlow/dotmatrix/memory"
	"github.com/BeatGlow/dotmatrix/pixel"
	"github.com/BeatGlow/dotmatrix/text"
)

// rainbow is a block of 8 pixel columns (LSB, MSB pairs) fading from red to green.
var rainbow = [...]uint16{
	0xee20, 0xfa80, 0x7b88, 0xfea0, 0xdee2, 0x7fa8, 0x77b8, 0x5fea,
	0x1dee, 0x57fa, 0x477b, 0x15fe, 0x11de, 0x057f, 0x0477, 0x015f,
}

// logo is the banner text shown by DisplayLogo.
var logo = string([]byte{text.Font(1), text.Color(pixel.Red)}) + "Pix" +
	string(text.Color(pixel.Yellow)) + "Block" +
	string(text.Color(pixel.Green)) + "fab" +
	string(text.Color(pixel.Orange)) + "4" +
	string(text.Color(pixel.Green)) + "U "

// Built-in program memory layout.
const (
	RainbowAddr    = 0
	RainbowColumns = len(rainbow) / 2
	LogoAddr       = RainbowAddr + 2*len(rainbow)
)

// ProgramMemory is the read-only memory holding the built-in graphics and text. It is
// the default memory.Flash source.
var ProgramMemory = newProgramMemory()

func newProgramMemory() *memory.ROM {
	ram := memory.NewArena(LogoAddr + len(logo) + 1)
	ram.PutWords(RainbowAddr, rainbow[:]...)
	ram.WriteString(LogoAddr, logo)
	return memory.NewROM(ram.Bytes)
}
