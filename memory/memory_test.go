package memory

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBytes(t *testing.T) {
	b := Bytes{0x34, 0x12, 0xff}
	tests := []struct {
		addr int
		b    byte
		w    uint16
	}{
		{0, 0x34, 0x1234},
		{1, 0x12, 0xff12},
		{2, 0xff, 0x00ff},
		{3, 0x00, 0x0000},
		{-1, 0x00, 0x3400},
	}
	for _, test := range tests {
		if v := b.Byte(test.addr); v != test.b {
			t.Errorf("Byte(%d): expected %#02x, got %#02x", test.addr, test.b, v)
		}
		if v := b.Word(test.addr); v != test.w {
			t.Errorf("Word(%d): expected %#04x, got %#04x", test.addr, test.w, v)
		}
	}
}

func TestROMCopies(t *testing.T) {
	data := []byte{1, 2, 3}
	rom := NewROM(data)
	data[0] = 9
	if v := rom.Byte(0); v != 1 {
		t.Errorf("expected ROM to be isolated from its source, got %d", v)
	}
	if v := rom.Len(); v != 3 {
		t.Errorf("expected length 3, got %d", v)
	}
}

func TestArena(t *testing.T) {
	ram := NewArena(8)
	if n := ram.WriteString(0, "abc"); n != 4 {
		t.Errorf("expected 4 bytes written, got %d", n)
	}
	if v := ram.Byte(3); v != 0 {
		t.Errorf("expected terminating zero, got %#02x", v)
	}
	if n := ram.Write(6, []byte{1, 2, 3}); n != 2 {
		t.Errorf("expected write to be truncated to 2 bytes, got %d", n)
	}
	if n := ram.Write(8, []byte{1}); n != 0 {
		t.Errorf("expected write past the end to be dropped, got %d", n)
	}
	ram.PutWords(4, 0xbeef)
	if v := ram.Word(4); v != 0xbeef {
		t.Errorf("expected word 0xbeef, got %#04x", v)
	}
}

func TestBank(t *testing.T) {
	var bank Bank
	bank[RAM] = Bytes{42}
	if v := bank.Reader(RAM).Byte(0); v != 42 {
		t.Errorf("expected RAM byte 42, got %d", v)
	}
	for _, kind := range []Kind{Flash, EEPROM, Kind(3), Kind(200)} {
		if r := bank.Reader(kind); r != None {
			t.Errorf("%s: expected None reader, got %T", kind, r)
		}
		if v := bank.Reader(kind).Word(0); v != 0 {
			t.Errorf("%s: expected zero, got %#04x", kind, v)
		}
	}
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.eep")

	m, err := OpenStore(path, 4)
	if err != nil {
		t.Fatal(err)
	}
	if v := m.Byte(0); v != Erased {
		t.Errorf("expected erased byte, got %#02x", v)
	}

	n, err := m.Update(1, []byte{Erased, 7})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 changed byte, got %d", n)
	}
	if _, err = m.Update(3, []byte{1, 2}); err == nil {
		t.Error("expected write past the end to fail")
	}
	if _, err = os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file before flush, got %v", err)
	}
	if err = m.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err = m.Update(0, []byte{1}); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	m, err = OpenStore(path, 4)
	if err != nil {
		t.Fatal(err)
	}
	if v := m.Byte(2); v != 7 {
		t.Errorf("expected persisted byte 7, got %d", v)
	}
	if v := m.Word(1); v != 0x07ff {
		t.Errorf("expected word 0x07ff, got %#04x", v)
	}
}

func TestOpenStoreInvalidSize(t *testing.T) {
	if _, err := OpenStore(filepath.Join(t.TempDir(), "x"), 0); err == nil {
		t.Error("expected error for zero size")
	}
}
