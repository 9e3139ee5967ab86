package memory

import (
	"errors"
	"log"
)

const (
	MEMORY_SIZE      = 0x1000                      // Addressable bytes.
	FONT_BASE        = 0x000                       // Address of the built-in glyphs.
	PROGRAM_ORIGIN   = 0x200                       // Address programs are loaded at.
	MAX_PROGRAM_SIZE = MEMORY_SIZE - PROGRAM_ORIGIN // Largest loadable program.
	GLYPH_SIZE       = 5                           // Bytes per built-in glyph.
)

// Font is the built-in 4x5 hexadecimal glyph set, one glyph per digit 0-F.
var Font = [16 * GLYPH_SIZE]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the byte store and framebuffer of the machine.
type Memory struct {
	Verbose bool // Set to enable verbose logging.

	Data        [MEMORY_SIZE]uint8 // Byte store.
	framebuffer Framebuffer
	dirty       bool
}

// NewMemory creates a zeroed memory with the font installed.
func NewMemory() (mem *Memory) {
	mem = &Memory{}
	mem.LoadFont()

	return
}

// Reset zeroes all bytes, clears the framebuffer and the dirty flag.
func (mem *Memory) Reset() {
	if mem.Verbose {
		log.Printf("memory: reset")
	}

	clear(mem.Data[:])
	mem.framebuffer.Clear()
	mem.dirty = false
}

// Read returns the byte at address, modulo the memory size.
func (mem *Memory) Read(address uint16) uint8 {
	return mem.Data[int(address)%MEMORY_SIZE]
}

// Write stores value at address, modulo the memory size.
func (mem *Memory) Write(address uint16, value uint8) {
	mem.Data[int(address)%MEMORY_SIZE] = value
}

// CheckRange verifies that count bytes starting at address are all inside
// the memory without wrapping.
func (mem *Memory) CheckRange(address uint16, count int) (err error) {
	if int(address)+count > MEMORY_SIZE {
		err = ErrRange{Address: address, Count: count}
	}

	return
}

// LoadFont installs the built-in glyph set at FONT_BASE.
func (mem *Memory) LoadFont() {
	copy(mem.Data[FONT_BASE:], Font[:])
}

// LoadProgram copies a program image to PROGRAM_ORIGIN.
// Nothing is copied if the image does not fit.
func (mem *Memory) LoadProgram(program []uint8) (err error) {
	if len(program) > MAX_PROGRAM_SIZE {
		err = ErrRange{Address: PROGRAM_ORIGIN, Count: len(program)}
		err = errors.Join(ErrProgramTooLarge, err)
		return
	}

	if mem.Verbose {
		log.Printf("memory: load %d bytes at 0x%03x", len(program), PROGRAM_ORIGIN)
	}

	copy(mem.Data[PROGRAM_ORIGIN:], program)

	return
}

// ClearFramebuffer turns every pixel off and toggles the dirty flag.
func (mem *Memory) ClearFramebuffer() {
	mem.framebuffer.Clear()
	mem.ToggleDirty()
}

// Flip XORs the pixel at (x, y), wrapping both coordinates, and reports
// whether a lit pixel was turned off.
func (mem *Memory) Flip(x, y int) (collision bool) {
	return mem.framebuffer.Flip(x, y)
}

// Pixel returns the pixel at (x, y), wrapping both coordinates.
func (mem *Memory) Pixel(x, y int) bool {
	return mem.framebuffer.Pixel(x, y)
}

// Framebuffer returns a copy of the framebuffer.
func (mem *Memory) Framebuffer() Framebuffer {
	return mem.framebuffer
}

// ToggleDirty flips the dirty flag.
func (mem *Memory) ToggleDirty() {
	mem.dirty = !mem.dirty
}

// Dirty is the current state of the dirty flag.
func (mem *Memory) Dirty() bool {
	return mem.dirty
}
