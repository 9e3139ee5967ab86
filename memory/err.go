package memory

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrProgramTooLarge = errors.New(f("program too large"))
	ErrAddressRange    = errors.New(f("address out of range"))
)

// ErrRange reports a multi-byte access that would leave memory.
type ErrRange struct {
	Address uint16
	Count   int
}

func (err ErrRange) Error() string {
	return f("access 0x%04x+%d beyond 0x%04x", err.Address, err.Count, MEMORY_SIZE)
}

func (err ErrRange) Unwrap() error {
	return ErrAddressRange
}
