package memory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Erased is the value of a Store byte that has never been written.
const Erased = 0xff

// ErrClosed is returned when writing to a closed Store.
var ErrClosed = errors.New("memory: EEPROM is closed")

// Store is a persistent byte store backed by a file, the usual backing of the EEPROM kind.
//
// Changes are kept in memory until Flush or Close is called.
type Store struct {
	Bytes
	path   string
	dirty  bool
	closed bool
}

// OpenStore opens the store at path with a capacity of size bytes. A missing file reads
// as erased memory; a larger file is truncated to size.
func OpenStore(path string, size int) (*Store, error) {
	if size <= 0 {
		return nil, fmt.Errorf("memory: invalid EEPROM size %d", size)
	}

	m := &Store{
		Bytes: make(Bytes, size),
		path:  path,
	}
	for i := range m.Bytes {
		m.Bytes[i] = Erased
	}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("memory: open EEPROM: %w", err)
	default:
		copy(m.Bytes, b)
	}
	return m, nil
}

// Update writes p to addr, only touching bytes that differ from the stored ones. The
// number of changed bytes is returned.
func (m *Store) Update(addr int, p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if addr < 0 || addr+len(p) > len(m.Bytes) {
		return 0, fmt.Errorf("memory: EEPROM write of %d bytes at %d exceeds %d bytes", len(p), addr, len(m.Bytes))
	}

	var n int
	for i, v := range p {
		if m.Bytes[addr+i] != v {
			m.Bytes[addr+i] = v
			n++
		}
	}
	if n > 0 {
		m.dirty = true
	}
	return n, nil
}

// Flush persists pending changes.
func (m *Store) Flush() error {
	if m.closed {
		return ErrClosed
	}
	if !m.dirty {
		return nil
	}

	f, err := os.CreateTemp(filepath.Dir(m.path), filepath.Base(m.path)+".*")
	if err != nil {
		return fmt.Errorf("memory: flush EEPROM: %w", err)
	}
	if _, err = f.Write(m.Bytes); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("memory: flush EEPROM: %w", err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("memory: flush EEPROM: %w", err)
	}
	if err = os.Rename(f.Name(), m.path); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("memory: flush EEPROM: %w", err)
	}

	m.dirty = false
	return nil
}

// Close flushes and closes the store. Reads keep working after Close.
func (m *Store) Close() error {
	if m.closed {
		return nil
	}
	err := m.Flush()
	m.closed = true
	return err
}

func (m *Store) String() string {
	return fmt.Sprintf("EEPROM %s (%d bytes)", m.path, len(m.Bytes))
}
