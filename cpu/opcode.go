package cpu

import (
	"fmt"
)

// CodeOp is the instruction family held in the top nibble of a word.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_SYS  = CodeOp(0x0) // sys
	OP_JP   = CodeOp(0x1) // jp
	OP_CALL = CodeOp(0x2) // call
	OP_SE   = CodeOp(0x3) // se
	OP_SNE  = CodeOp(0x4) // sne
	OP_SER  = CodeOp(0x5) // se.r
	OP_LD   = CodeOp(0x6) // ld
	OP_ADD  = CodeOp(0x7) // add
	OP_ALU  = CodeOp(0x8) // alu
	OP_SNER = CodeOp(0x9) // sne.r
	OP_LDI  = CodeOp(0xA) // ld.i
	OP_JPV0 = CodeOp(0xB) // jp.v0
	OP_RND  = CodeOp(0xC) // rnd
	OP_DRW  = CodeOp(0xD) // drw
	OP_KEY  = CodeOp(0xE) // key
	OP_MISC = CodeOp(0xF) // misc
)

// CodeSysOp selects an instruction of the OP_SYS family by its low byte.
type CodeSysOp uint8

//go:generate go tool stringer -linecomment -type=CodeSysOp
const (
	SYS_OP_CLS = CodeSysOp(0xE0) // cls
	SYS_OP_RET = CodeSysOp(0xEE) // ret
)

// CodeAluOp selects an OP_ALU instruction by its low nibble.
type CodeAluOp uint8

//go:generate go tool stringer -linecomment -type=CodeAluOp
const (
	ALU_OP_SET  = CodeAluOp(0x0) // ld
	ALU_OP_OR   = CodeAluOp(0x1) // or
	ALU_OP_AND  = CodeAluOp(0x2) // and
	ALU_OP_XOR  = CodeAluOp(0x3) // xor
	ALU_OP_ADD  = CodeAluOp(0x4) // add
	ALU_OP_SUB  = CodeAluOp(0x5) // sub
	ALU_OP_SHR  = CodeAluOp(0x6) // shr
	ALU_OP_SUBN = CodeAluOp(0x7) // subn
	ALU_OP_SHL  = CodeAluOp(0xE) // shl
)

// CodeKeyOp selects an OP_KEY instruction by its low byte.
type CodeKeyOp uint8

//go:generate go tool stringer -linecomment -type=CodeKeyOp
const (
	KEY_OP_SKP  = CodeKeyOp(0x9E) // skp
	KEY_OP_SKNP = CodeKeyOp(0xA1) // sknp
)

// CodeMiscOp selects an OP_MISC instruction by its low byte.
type CodeMiscOp uint8

//go:generate go tool stringer -linecomment -type=CodeMiscOp
const (
	MISC_OP_GET_DT = CodeMiscOp(0x07) // get.dt
	MISC_OP_WAIT_K = CodeMiscOp(0x0A) // wait.k
	MISC_OP_SET_DT = CodeMiscOp(0x15) // set.dt
	MISC_OP_SET_ST = CodeMiscOp(0x18) // set.st
	MISC_OP_ADD_I  = CodeMiscOp(0x1E) // add.i
	MISC_OP_GLYPH  = CodeMiscOp(0x29) // glyph
	MISC_OP_BCD    = CodeMiscOp(0x33) // bcd
	MISC_OP_STORE  = CodeMiscOp(0x55) // store
	MISC_OP_LOAD   = CodeMiscOp(0x65) // load
)

// Code is a single 16-bit instruction word.
//
//	|op  |x   |y   |n   |
//	|op  |x   |nn       |
//	|op  |nnn           |
type Code uint16

// MakeCodeNNN creates an instruction with a 12-bit address operand.
func MakeCodeNNN(op CodeOp, nnn uint16) Code {
	return Code((uint16(op)&0xf)<<12 | (nnn & 0xfff))
}

// MakeCodeXNN creates an instruction with a register and a byte operand.
func MakeCodeXNN(op CodeOp, x uint8, nn uint8) Code {
	return Code((uint16(op)&0xf)<<12 | (uint16(x)&0xf)<<8 | uint16(nn))
}

// MakeCodeXYN creates an instruction with two registers and a nibble operand.
func MakeCodeXYN(op CodeOp, x, y, n uint8) Code {
	return Code((uint16(op)&0xf)<<12 | (uint16(x)&0xf)<<8 | (uint16(y)&0xf)<<4 | uint16(n)&0xf)
}

// Op returns the instruction family.
func (code Code) Op() CodeOp {
	return CodeOp((code >> 12) & 0xf)
}

// X returns the first register operand.
func (code Code) X() uint8 {
	return uint8((code >> 8) & 0xf)
}

// Y returns the second register operand.
func (code Code) Y() uint8 {
	return uint8((code >> 4) & 0xf)
}

// N returns the low nibble.
func (code Code) N() uint8 {
	return uint8(code & 0xf)
}

// NN returns the low byte.
func (code Code) NN() uint8 {
	return uint8(code & 0xff)
}

// NNN returns the 12-bit address operand.
func (code Code) NNN() uint16 {
	return uint16(code & 0xfff)
}

// Bytes returns the word in memory order.
func (code Code) Bytes() [2]uint8 {
	return [2]uint8{uint8(code >> 8), uint8(code)}
}

// String returns the word, its family and, for families selected by a
// sub-operation, the sub-operation.
func (code Code) String() (out string) {
	op := code.Op()

	var str string

	switch op {
	case OP_SYS:
		str = CodeSysOp(code.NN()).String()
	case OP_ALU:
		str = CodeAluOp(code.N()).String()
	case OP_KEY:
		str = CodeKeyOp(code.NN()).String()
	case OP_MISC:
		str = CodeMiscOp(code.NN()).String()
	}

	if len(str) == 0 {
		out = fmt.Sprintf("%04X(%v)", uint16(code), op.String())
	} else {
		out = fmt.Sprintf("%04X(%v.%v)", uint16(code), op.String(), str)
	}

	return
}
