// Package memory provides the byte sources text and graphics are read from.
//
// The PixBlock controller distinguishes three kinds of memory: directly addressable RAM
// (an Arena), read-only program memory (a ROM) and a persistent byte store (a Store). Reads never fail: addresses
// outside of a memory and unknown kinds read as zero.
package memory

import (
	"encoding/binary"
	"fmt"
)

// Kind of memory.
type Kind uint8

// Memory kinds.
const (
	RAM Kind = iota
	Flash
	EEPROM
)

func (k Kind) String() string {
	switch k {
	case RAM:
		return "RAM"
	case Flash:
		return "flash"
	case EEPROM:
		return "EEPROM"
	default:
		return fmt.Sprintf("memory kind %d", uint8(k))
	}
}

// Reader reads bytes and 16-bit little endian words by address.
type Reader interface {
	// Byte at addr.
	Byte(addr int) byte

	// Word at addr and addr+1.
	Word(addr int) uint16
}

// Order is the byte order of words.
var Order binary.ByteOrder = binary.LittleEndian

// None is a Reader without any data.
var None Reader = none{}

type none struct{}

func (none) Byte(int) byte   { return 0 }
func (none) Word(int) uint16 { return 0 }

// Bytes is a Reader over a byte slice.
type Bytes []byte

func (b Bytes) Byte(addr int) byte {
	if addr < 0 || addr >= len(b) {
		return 0
	}
	return b[addr]
}

func (b Bytes) Word(addr int) uint16 {
	return uint16(b.Byte(addr)) | uint16(b.Byte(addr+1))<<8
}

// ROM is read-only program memory.
type ROM struct {
	data Bytes
}

// NewROM returns a ROM holding a copy of data.
func NewROM(data []byte) *ROM {
	return &ROM{data: append(Bytes(nil), data...)}
}

func (m *ROM) Byte(addr int) byte {
	return m.data.Byte(addr)
}

func (m *ROM) Word(addr int) uint16 {
	return m.data.Word(addr)
}

// Len is the ROM size in bytes.
func (m *ROM) Len() int {
	return len(m.data)
}

// Arena is directly addressable memory, typically used for text that changes at runtime.
// It is the usual backing of the RAM kind.
type Arena struct {
	Bytes
}

// NewArena allocates size bytes of memory.
func NewArena(size int) *Arena {
	return &Arena{Bytes: make(Bytes, size)}
}

// Write copies p to addr. Bytes past the end of the arena are dropped; the number of
// bytes written is returned.
func (m *Arena) Write(addr int, p []byte) int {
	if addr < 0 || addr >= len(m.Bytes) {
		return 0
	}
	return copy(m.Bytes[addr:], p)
}

// WriteString writes s followed by a terminating zero byte.
func (m *Arena) WriteString(addr int, s string) int {
	n := m.Write(addr, []byte(s))
	if n == len(s) {
		n += m.Write(addr+n, []byte{0})
	}
	return n
}

// PutWords writes words in little endian order.
func (m *Arena) PutWords(addr int, words ...uint16) int {
	b := make([]byte, 2*len(words))
	for i, w := range words {
		Order.PutUint16(b[2*i:], w)
	}
	return m.Write(addr, b)
}

// Bank resolves memory kinds to readers.
type Bank [3]Reader

// Reader for kind; unknown or unset kinds return None.
func (b *Bank) Reader(kind Kind) Reader {
	if int(kind) >= len(b) || b[kind] == nil {
		return None
	}
	return b[kind]
}

// Interface checks.
var (
	_ Reader = Bytes(nil)
	_ Reader = (*ROM)(nil)
	_ Reader = (*Arena)(nil)
	_ Reader = (*Store)(nil)
)
