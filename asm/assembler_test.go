package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Equal(0, len(prog.Binary()))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("0x200", asm.Equate["PROGRAM_ORIGIN"])
	assert.Equal("0x1000", asm.Equate["MEMORY_SIZE"])
	assert.Equal("64", asm.Equate["SCREEN_WIDTH"])
	assert.Equal("32", asm.Equate["SCREEN_HEIGHT"])
	assert.Equal("5", asm.Equate["GLYPH_SIZE"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerInstructions(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		data []uint8
	}){
		{"cls", []uint8{0x00, 0xE0}},
		{"ret", []uint8{0x00, 0xEE}},
		{"jp 0x345", []uint8{0x13, 0x45}},
		{"jp v0, 0x345", []uint8{0xB3, 0x45}},
		{"call 0x400", []uint8{0x24, 0x00}},
		{"se v1, 0x22", []uint8{0x31, 0x22}},
		{"se v1, v2", []uint8{0x51, 0x20}},
		{"sne v1, 0x22", []uint8{0x41, 0x22}},
		{"sne v1, v2", []uint8{0x91, 0x20}},
		{"ld v3, 0xff", []uint8{0x63, 0xFF}},
		{"ld v3, -1", []uint8{0x63, 0xFF}},
		{"ld v3, ~0x0f", []uint8{0x63, 0xF0}},
		{"ld v3, v4", []uint8{0x83, 0x40}},
		{"ld i, 0x123", []uint8{0xA1, 0x23}},
		{"ld v3, dt", []uint8{0xF3, 0x07}},
		{"ld v3, k", []uint8{0xF3, 0x0A}},
		{"ld dt, v3", []uint8{0xF3, 0x15}},
		{"ld st, v3", []uint8{0xF3, 0x18}},
		{"ld f, v3", []uint8{0xF3, 0x29}},
		{"ld b, v3", []uint8{0xF3, 0x33}},
		{"ld [i], v3", []uint8{0xF3, 0x55}},
		{"ld v3, [i]", []uint8{0xF3, 0x65}},
		{"add v5, 1", []uint8{0x75, 0x01}},
		{"add v5, v6", []uint8{0x85, 0x64}},
		{"add i, v5", []uint8{0xF5, 0x1E}},
		{"or va, vb", []uint8{0x8A, 0xB1}},
		{"and va, vb", []uint8{0x8A, 0xB2}},
		{"xor va, vb", []uint8{0x8A, 0xB3}},
		{"sub va, vb", []uint8{0x8A, 0xB5}},
		{"shr va", []uint8{0x8A, 0xA6}},
		{"shr va, vb", []uint8{0x8A, 0xB6}},
		{"subn va, vb", []uint8{0x8A, 0xB7}},
		{"shl va", []uint8{0x8A, 0xAE}},
		{"rnd vc, 0x0f", []uint8{0xCC, 0x0F}},
		{"drw v0, v1, 5", []uint8{0xD0, 0x15}},
		{"skp v7", []uint8{0xE7, 0x9E}},
		{"sknp v7", []uint8{0xE7, 0xA1}},
		{"LD VF, 'A'", []uint8{0x6F, 0x41}},
		{"  ld v0 1 ; comment", []uint8{0x60, 0x01}},
	}

	asm := &Assembler{}
	for _, entry := range table {
		prog, err := asm.Parse(strings.NewReader(entry.line))
		if !assert.NoError(err, entry.line) {
			continue
		}
		if assert.Equal(1, len(prog.Opcodes), entry.line) {
			op := prog.Opcodes[0]
			assert.Equal(entry.data, op.Data, entry.line)
			assert.Equal(uint16(0x200), op.Address, entry.line)
			assert.False(op.IsData, entry.line)
		}
	}
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".byte 1 2 0xff",
		".byte -128, 'a'",
		".word 0x1234",
		"cls",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	expected := []Opcode{
		{1, 0x200, []string{".byte", "1", "2", "0xff"}, []uint8{0x01, 0x02, 0xff}, "", true},
		{2, 0x203, []string{".byte", "-128", "97"}, []uint8{0x80, 0x61}, "", true},
		{3, 0x205, []string{".word", "0x1234"}, []uint8{0x12, 0x34}, "", true},
		{4, 0x207, []string{"cls"}, []uint8{0x00, 0xE0}, "", false},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".equ PLAYER v3",
		".equ SPEED 2",
		"add PLAYER, SPEED",
		"ld PLAYER, $(SPEED * 10)",
		"ld v0, $(LINENO)",
		"ld v1, $(SCREEN_WIDTH - 8)",
		".equ EDGE $(SCREEN_HEIGHT - 1)",
		"se v1, EDGE",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(errors.Unwrap(err))
	}

	assert.Equal([]uint8{
		0x73, 0x02,
		0x63, 0x14,
		0x60, 0x05,
		0x61, 0x38,
		0x31, 0x1f,
	}, prog.Binary())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("LIVES", "3")
	asm.Predefine("LIVES", "5")

	prog, err := asm.Parse(strings.NewReader("ld v0, LIVES"))
	assert.NoError(err)
	assert.Equal([]uint8{0x60, 0x05}, prog.Binary())

	// Predefines survive a re-parse.
	prog, err = asm.Parse(strings.NewReader("ld v1, $(LIVES + 1)"))
	assert.NoError(err)
	assert.Equal([]uint8{0x61, 0x06}, prog.Binary())
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".macro MOVE reg dx",
		"add reg, dx",
		"ld v0, reg",
		".endm",
		"MOVE v1 4",
		"MOVE v2 $(1 + 1)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	expected := []Opcode{
		{2, 0x200, []string{"add", "v1", "4"}, []uint8{0x71, 0x04}, "", false},
		{3, 0x202, []string{"ld", "v0", "v1"}, []uint8{0x80, 0x10}, "", false},
		{2, 0x204, []string{"add", "v2", "2"}, []uint8{0x72, 0x02}, "", false},
		{3, 0x206, []string{"ld", "v0", "v2"}, []uint8{0x80, 0x20}, "", false},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerMacroLocalLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".macro WAIT",
		"@loop: ld v0, dt",
		"se v0, 0",
		"jp @loop",
		".endm",
		"WAIT",
		"WAIT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(0x200, asm.Label["WAIT_1_loop"])
	assert.Equal(0x206, asm.Label["WAIT_2_loop"])
	assert.Equal([]uint8{
		0xF0, 0x07, 0x30, 0x00, 0x12, 0x00,
		0xF0, 0x07, 0x30, 0x00, 0x12, 0x06,
	}, prog.Binary())
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"start:",
		"  ld i, sprite",
		"  call draw",
		"loop: jp loop",
		"draw: drw v0, v1, 2",
		"  ret",
		"sprite: .byte 0xf0 0x90",
		"jp v0, start",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(map[string]int{
		"start":  0x200,
		"loop":   0x204,
		"draw":   0x206,
		"sprite": 0x20a,
	}, asm.Label)

	assert.Equal([]uint8{
		0xA2, 0x0A,
		0x22, 0x06,
		0x12, 0x04,
		0xD0, 0x12,
		0x00, 0xEE,
		0xF0, 0x90,
		0xB2, 0x00,
	}, prog.Binary())

	assert.Equal("sprite", prog.Opcodes[0].LinkLabel)
	assert.Equal("", prog.Opcodes[3].LinkLabel)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"DUP:\nDUP:\n", 2, ErrLabelDuplicate},
		{"ld v0, nothing", 1, ErrParseNumber("nothing")},
		{"ld v0, $(\"aaa\")", 1, nil},
		{"ld v0, $(more(\"aaa\"))", 1, nil},
		{"ld v0, $(0x10000000000000000)", 1, nil},
		{"ld v0, 0x100", 1, ErrValueRange("0x100")},
		{"ld v0, -129", 1, ErrValueRange("-129")},
		{"ld vg, 1", 1, ErrRegisterInvalid},
		{"ld v0", 1, ErrOpcodeValueMissing},
		{"ld v0, 1, 2", 1, ErrOpcodeExtraArgs},
		{"ld i, 0x1000", 1, ErrValueRange("0x1000")},
		{"ld k, v0", 1, ErrRegisterInvalid},
		{"jp", 1, ErrOpcodeValueMissing},
		{"jp v1, 0x200", 1, ErrRegisterInvalid},
		{"jp nowhere", 1, ErrLabelMissing("nowhere")},
		{"\n\ncall nowhere", 3, ErrLabelMissing("nowhere")},
		{"drw v0, v1, 16", 1, ErrValueRange("16")},
		{"drw v0, v1", 1, ErrOpcodeValueMissing},
		{"cls v0", 1, ErrOpcodeExtraArgs},
		{"skp", 1, ErrOpcodeValueMissing},
		{"se v0, 0x1ff", 1, ErrValueRange("0x1ff")},
		{"add i, 5", 1, ErrRegisterInvalid},
		{"rnd v0", 1, ErrOpcodeValueMissing},
		{"shr", 1, ErrOpcodeValueMissing},
		{"or v0", 1, ErrOpcodeValueMissing},
		{"nop", 1, ErrInstructionInvalid},
		{".byte", 1, ErrOpcodeValueMissing},
		{".byte 256", 1, ErrValueRange("256")},
		{".equ", 1, ErrEquateSyntax},
		{".equ A", 1, ErrEquateSyntax},
		{".equ A 1\n.equ A 2\n", 2, ErrEquateDuplicate},
		{".macro", 1, ErrMacroSyntax},
		{".macro A B C\n.endm\nA 1\n", 3, ErrMacroSyntax},
		{".macro A B\nld B, 1\n.endm\nA q\n", 4, ErrRegisterInvalid},
		{".macro A B\n.macro C\n.endm\n.endm", 2, ErrMacroNesting},
		{".macro A B\n.endm\n.macro A\n.endm\n", 3, ErrMacroDuplicate},
		{".macro A B\n.endm\n.endm\n", 3, ErrMacroLonelyEndm},
		{".macro A\ncls\n", 2, ErrMacroLonely},
		{strings.Repeat(".word 0 0 0 0 0 0 0 0\n", 225), 225, ErrProgramTooLarge},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			if entry.err != nil {
				assert.ErrorIs(err, entry.err, entry.prog)
			}
		}
	}
}

func TestAssemblerFullMemory(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Exactly fills memory from the program origin.
	prog, err := asm.Parse(strings.NewReader(strings.Repeat(".word 0 0 0 0 0 0 0 0\n", 224)))
	assert.NoError(err)
	assert.Equal(0x1000-0x200, len(prog.Binary()))
}
