package asm

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/memory"
)

// Opcode is the output of a single line of assembly text.
type Opcode struct {
	LineNo    int      // Source line number.
	Address   uint16   // Load address of Data.
	Words     []string // Source words, after expansion.
	Data      []uint8  // Emitted bytes.
	LinkLabel string   // Label linked into the address field.
	IsData    bool     // Set for .byte and .word output.
}

func (op *Opcode) String() string {
	return fmt.Sprintf("%03X: % X ; %d: %v", op.Address, op.Data, op.LineNo, strings.Join(op.Words, " "))
}

func cloneOpcodes(ops []Opcode) (clone []Opcode) {
	clone = slices.Clone(ops)
	for n := range clone {
		clone[n].Words = slices.Clone(ops[n].Words)
		clone[n].Data = slices.Clone(ops[n].Data)
	}
	return
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Offset int // Byte offset of the address into the opcode.
}

// Debug finds the opcode that emitted the byte at address.
func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if address >= op.Address && int(address) < int(op.Address)+len(op.Data) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Offset: int(address - op.Address),
			}
			break
		}
	}

	return
}

// Binary returns the program image, to be loaded at the program origin.
func (prog *Program) Binary() (bin []uint8) {
	for _, op := range prog.Opcodes {
		offset := int(op.Address) - memory.PROGRAM_ORIGIN
		if len(bin) < offset {
			bin = append(bin, make([]uint8, offset-len(bin))...)
		}
		bin = append(bin[:offset], op.Data...)
	}

	return
}

// Codes iterates over the instruction words of the program.
func (prog *Program) Codes() iter.Seq2[uint16, cpu.Code] {
	return func(yield func(address uint16, code cpu.Code) bool) {
		for _, op := range prog.Opcodes {
			if op.IsData {
				continue
			}
			for n := 0; n+1 < len(op.Data); n += 2 {
				code := cpu.Code(uint16(op.Data[n])<<8 | uint16(op.Data[n+1]))
				if !yield(op.Address+uint16(n), code) {
					return
				}
			}
		}
	}
}
