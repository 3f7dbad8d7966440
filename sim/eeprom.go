package sim

import (
	"sync"

	"blinky/core"
)

// EEPROM models a 24Cxx serial EEPROM with a two-byte memory address.
// Writes do not wrap at page boundaries.
type EEPROM struct {
	mu    sync.Mutex
	mem   []byte
	ptr   int
	phase int // address bytes received in the current write
}

// NewEEPROM creates an erased (all 0xFF) EEPROM of size bytes.
func NewEEPROM(size int) *EEPROM {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &EEPROM{mem: mem}
}

func (e *EEPROM) Start(dir core.I2CDirection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if dir == core.I2CWrite {
		e.phase = 0
	}
}

func (e *EEPROM) Write(b byte) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase {
	case 0:
		e.ptr = int(b) << 8
		e.phase++
	case 1:
		e.ptr = (e.ptr | int(b)) % len(e.mem)
		e.phase++
	default:
		e.mem[e.ptr] = b
		e.ptr = (e.ptr + 1) % len(e.mem)
	}
	return true
}

func (e *EEPROM) Read() byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	b := e.mem[e.ptr]
	e.ptr = (e.ptr + 1) % len(e.mem)
	return b
}

func (e *EEPROM) Stop() {}

// Size returns the memory size in bytes.
func (e *EEPROM) Size() int {
	return len(e.mem)
}

// Bytes returns a copy of n bytes starting at offset.
func (e *EEPROM) Bytes(offset, n int) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]byte(nil), e.mem[offset:offset+n]...)
}

// Load writes data into memory at offset without bus traffic.
func (e *EEPROM) Load(offset int, data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	copy(e.mem[offset:], data)
}
