package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackEmpty = errors.New(f("stack empty"))
	ErrStackFull  = errors.New(f("stack full"))

	// Instruction decode errors
	ErrOpcodeUnknown = errors.New(f("unknown instruction"))
	ErrOpcodeAlu     = errors.New(f("alu"))
	ErrOpcodeKey     = errors.New(f("key"))
	ErrOpcodeMisc    = errors.New(f("misc"))
	ErrOpcodeSys     = errors.New(f("sys"))
)

// ErrOpcode identifies the instruction word that failed.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x", uint16(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
