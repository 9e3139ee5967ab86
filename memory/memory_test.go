package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()

	assert.Equal(Font[:], mem.Data[FONT_BASE:FONT_BASE+len(Font)])
	assert.Equal(uint8(0), mem.Read(PROGRAM_ORIGIN))
	assert.False(mem.Dirty())
	assert.Equal(0, mem.framebuffer.Lit())
}

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()

	table := [](struct {
		address uint16
		actual  int
	}){
		{0x200, 0x200},
		{0xfff, 0xfff},
		{0x1000, 0x000},
		{0x1234, 0x234},
		{0xffff, 0xfff},
	}

	for n, entry := range table {
		mem.Write(entry.address, uint8(n+1))
		assert.Equal(uint8(n+1), mem.Data[entry.actual], "%#04x", entry.address)
		assert.Equal(uint8(n+1), mem.Read(entry.address), "%#04x", entry.address)
	}
}

func TestMemory_CheckRange(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()

	assert.NoError(mem.CheckRange(0x000, 16))
	assert.NoError(mem.CheckRange(0xffd, 3))
	assert.NoError(mem.CheckRange(0xfff, 1))

	err := mem.CheckRange(0xffe, 3)
	assert.ErrorIs(err, ErrAddressRange)

	var rerr ErrRange
	assert.True(errors.As(err, &rerr))
	assert.Equal(uint16(0xffe), rerr.Address)
	assert.Equal(3, rerr.Count)
}

func TestMemory_LoadProgram(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()

	err := mem.LoadProgram([]uint8{0x12, 0x34, 0x56})
	assert.NoError(err)
	assert.Equal([]uint8{0x12, 0x34, 0x56, 0x00}, mem.Data[PROGRAM_ORIGIN:PROGRAM_ORIGIN+4])

	full := make([]uint8, MAX_PROGRAM_SIZE)
	full[len(full)-1] = 0xaa
	assert.NoError(mem.LoadProgram(full))
	assert.Equal(uint8(0xaa), mem.Read(MEMORY_SIZE-1))
}

func TestMemory_LoadProgram_TooLarge(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()

	big := make([]uint8, MAX_PROGRAM_SIZE+1)
	for n := range big {
		big[n] = 0xee
	}
	err := mem.LoadProgram(big)
	assert.ErrorIs(err, ErrProgramTooLarge)
	assert.ErrorIs(err, ErrAddressRange)
	assert.Equal(uint8(0), mem.Read(PROGRAM_ORIGIN))
	assert.Equal(Font[0], mem.Read(0))
}

func TestMemory_Framebuffer(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()

	assert.False(mem.Flip(3, 4))
	assert.True(mem.Pixel(3, 4))
	assert.True(mem.Pixel(3+SCREEN_WIDTH, 4+SCREEN_HEIGHT))

	// Coordinates wrap.
	assert.False(mem.Flip(SCREEN_WIDTH, -1))
	assert.True(mem.Pixel(0, SCREEN_HEIGHT-1))

	fb := mem.Framebuffer()
	assert.Equal(2, fb.Lit())

	assert.True(mem.Flip(3, 4))
	assert.False(mem.Pixel(3, 4))

	// The copy is not affected.
	assert.True(fb.Pixel(3, 4))
}

func TestMemory_ClearFramebuffer(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()
	mem.Flip(10, 10)
	mem.Flip(63, 31)

	mem.ClearFramebuffer()
	assert.True(mem.Dirty())
	fb := mem.Framebuffer()
	assert.Equal(0, fb.Lit())

	// Toggled, not set.
	mem.ClearFramebuffer()
	assert.False(mem.Dirty())
}

func TestMemory_Reset(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()
	mem.Write(0x300, 0x55)
	mem.Flip(1, 1)
	mem.ToggleDirty()

	mem.Reset()
	assert.Equal(uint8(0), mem.Read(0x300))
	assert.Equal(uint8(0), mem.Read(FONT_BASE))
	assert.False(mem.Pixel(1, 1))
	assert.False(mem.Dirty())
}

func TestFramebuffer_String(t *testing.T) {
	assert := assert.New(t)

	var fb Framebuffer
	fb.Flip(0, 0)
	fb.Flip(SCREEN_WIDTH-1, SCREEN_HEIGHT-1)

	text := fb.String()
	assert.Equal((SCREEN_WIDTH+1)*SCREEN_HEIGHT, len(text))
	assert.Equal(byte('#'), text[0])
	assert.Equal(byte('.'), text[1])
	assert.Equal(byte('#'), text[len(text)-2])
}
