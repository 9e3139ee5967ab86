// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/memory"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"FONT_BASE":      fmt.Sprint(memory.FONT_BASE),
	"GLYPH_SIZE":     fmt.Sprint(memory.GLYPH_SIZE),
	"PROGRAM_ORIGIN": fmt.Sprintf("%#x", memory.PROGRAM_ORIGIN),
	"MEMORY_SIZE":    fmt.Sprintf("%#x", memory.MEMORY_SIZE),
	"SCREEN_WIDTH":   fmt.Sprint(memory.SCREEN_WIDTH),
	"SCREEN_HEIGHT":  fmt.Sprint(memory.SCREEN_HEIGHT),
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// Assembler is a single pass macro assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansions int // Count of macro expansions, for '@' local labels.
}

// Predefine defines a new equate or redefines an existing equate,
// applied at the start of every Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
		if len(word) == 0 {
			err = ErrParseNumber("~")
			return
		}
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}
	value, err = strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// number returns word as an unsigned field of the given bit width.
// Negative values down to -(1<<(bits-1)) are accepted as two's complement.
func (asm *Assembler) number(word string, bits int) (value uint16, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < -(int64(1)<<(bits-1)) || v64 > (int64(1)<<bits)-1 {
		err = ErrValueRange(word)
		return
	}

	value = uint16(v64) & uint16((1<<bits)-1)
	return
}

// isRegister reports whether the word names V0 to VF.
func isRegister(word string) bool {
	_, err := register(word)
	return err == nil
}

// register returns the register index named by word.
func register(word string) (reg uint8, err error) {
	word = strings.ToLower(word)
	if len(word) != 2 || word[0] != 'v' {
		err = ErrRegisterInvalid
		return
	}

	n, err := strconv.ParseUint(word[1:], 16, 8)
	if err != nil {
		err = ErrRegisterInvalid
		return
	}

	reg = uint8(n)
	return
}

// address returns an absolute address operand, or the label to link it to.
func (asm *Assembler) address(word string) (nnn uint16, label string, err error) {
	if reLabel.MatchString(word) && !isRegister(word) {
		label = word
		return
	}

	nnn, err = asm.number(word, 12)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line into words, handling
// equates, labels and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprint(value)
	})
	if err != nil {
		return
	}

	// Operands may be comma separated.
	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddress gets the address of the next emitted byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return memory.PROGRAM_ORIGIN
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return int(last.Address) + len(last.Data)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.expansions = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(strings.ReplaceAll(line, ",", " "))

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}

		if asm.currentAddress() > memory.MEMORY_SIZE {
			err = ErrProgramTooLarge
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		line = strings.Join(op.Words, " ")
		lineno = op.LineNo

		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if addr > 0xfff {
			err = ErrValueRange(label)
			return
		}
		if len(op.Data) != 2 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
		op.Data[0] |= uint8(addr>>8) & 0xf
		op.Data[1] = uint8(addr)
	}

	prog = &Program{
		Opcodes: cloneOpcodes(asm.Opcode),
	}

	return
}

// argc checks the operand count of an instruction.
func argc(args []string, count int) (err error) {
	switch {
	case len(args) < count:
		err = ErrOpcodeValueMissing
	case len(args) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// aluMap maps register to register ALU instruction names.
var aluMap = map[string]cpu.CodeAluOp{
	"or":   cpu.ALU_OP_OR,
	"and":  cpu.ALU_OP_AND,
	"xor":  cpu.ALU_OP_XOR,
	"sub":  cpu.ALU_OP_SUB,
	"subn": cpu.ALU_OP_SUBN,
	"shr":  cpu.ALU_OP_SHR,
	"shl":  cpu.ALU_OP_SHL,
}

// ldToMisc maps 'ld <target>, vx' forms.
var ldToMisc = map[string]cpu.CodeMiscOp{
	"dt":  cpu.MISC_OP_SET_DT,
	"st":  cpu.MISC_OP_SET_ST,
	"f":   cpu.MISC_OP_GLYPH,
	"b":   cpu.MISC_OP_BCD,
	"[i]": cpu.MISC_OP_STORE,
}

// ldFromMisc maps 'ld vx, <source>' forms.
var ldFromMisc = map[string]cpu.CodeMiscOp{
	"dt":  cpu.MISC_OP_GET_DT,
	"k":   cpu.MISC_OP_WAIT_K,
	"[i]": cpu.MISC_OP_LOAD,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []uint8
	var label string
	var isData bool

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if len(data) == 0 {
			return
		}
		opcode := Opcode{
			LineNo:    lineno,
			Address:   uint16(asm.currentAddress()),
			Words:     words,
			Data:      data,
			LinkLabel: label,
			IsData:    isData,
		}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	emit := func(code cpu.Code) {
		bytes := code.Bytes()
		data = append(data, bytes[:]...)
	}

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	// Register operand helper; only valid after an argc check.
	var vx, vy uint8
	regs := func(count int) (err error) {
		out := [2]*uint8{&vx, &vy}
		for n := range count {
			*out[n], err = register(args[n])
			if err != nil {
				return
			}
		}
		return
	}

	switch mnemonic {
	case ".byte":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		isData = true
		for _, arg := range args {
			var value uint16
			value, err = asm.number(arg, 8)
			if err != nil {
				return
			}
			data = append(data, uint8(value))
		}
	case ".word":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		isData = true
		for _, arg := range args {
			var value uint16
			value, err = asm.number(arg, 16)
			if err != nil {
				return
			}
			data = append(data, uint8(value>>8), uint8(value))
		}
	case "cls", "ret":
		if err = argc(args, 0); err != nil {
			return
		}
		op := cpu.SYS_OP_CLS
		if mnemonic == "ret" {
			op = cpu.SYS_OP_RET
		}
		emit(cpu.MakeCodeXNN(cpu.OP_SYS, 0, uint8(op)))
	case "jp", "call":
		var nnn uint16
		op := cpu.OP_JP
		if mnemonic == "call" {
			op = cpu.OP_CALL
		}
		switch {
		case mnemonic == "jp" && len(args) == 2:
			// jp v0, addr
			if strings.ToLower(args[0]) != "v0" {
				err = ErrRegisterInvalid
				return
			}
			op = cpu.OP_JPV0
			args = args[1:]
		default:
			if err = argc(args, 1); err != nil {
				return
			}
		}
		nnn, label, err = asm.address(args[0])
		if err != nil {
			return
		}
		emit(cpu.MakeCodeNNN(op, nnn))
	case "se", "sne":
		if err = argc(args, 2); err != nil {
			return
		}
		if err = regs(1); err != nil {
			return
		}
		if isRegister(args[1]) {
			vy, _ = register(args[1])
			op := cpu.OP_SER
			if mnemonic == "sne" {
				op = cpu.OP_SNER
			}
			emit(cpu.MakeCodeXYN(op, vx, vy, 0))
			break
		}
		var nn uint16
		nn, err = asm.number(args[1], 8)
		if err != nil {
			return
		}
		op := cpu.OP_SE
		if mnemonic == "sne" {
			op = cpu.OP_SNE
		}
		emit(cpu.MakeCodeXNN(op, vx, uint8(nn)))
	case "ld":
		if err = argc(args, 2); err != nil {
			return
		}
		dst := strings.ToLower(args[0])
		src := strings.ToLower(args[1])
		if dst == "i" {
			var nnn uint16
			nnn, label, err = asm.address(args[1])
			if err != nil {
				return
			}
			emit(cpu.MakeCodeNNN(cpu.OP_LDI, nnn))
			break
		}
		if misc, ok := ldToMisc[dst]; ok {
			vx, err = register(args[1])
			if err != nil {
				return
			}
			emit(cpu.MakeCodeXNN(cpu.OP_MISC, vx, uint8(misc)))
			break
		}
		if err = regs(1); err != nil {
			return
		}
		if misc, ok := ldFromMisc[src]; ok {
			emit(cpu.MakeCodeXNN(cpu.OP_MISC, vx, uint8(misc)))
			break
		}
		if isRegister(src) {
			vy, _ = register(args[1])
			emit(cpu.MakeCodeXYN(cpu.OP_ALU, vx, vy, uint8(cpu.ALU_OP_SET)))
			break
		}
		var nn uint16
		nn, err = asm.number(args[1], 8)
		if err != nil {
			return
		}
		emit(cpu.MakeCodeXNN(cpu.OP_LD, vx, uint8(nn)))
	case "add":
		if err = argc(args, 2); err != nil {
			return
		}
		if strings.ToLower(args[0]) == "i" {
			vx, err = register(args[1])
			if err != nil {
				return
			}
			emit(cpu.MakeCodeXNN(cpu.OP_MISC, vx, uint8(cpu.MISC_OP_ADD_I)))
			break
		}
		if err = regs(1); err != nil {
			return
		}
		if isRegister(args[1]) {
			vy, _ = register(args[1])
			emit(cpu.MakeCodeXYN(cpu.OP_ALU, vx, vy, uint8(cpu.ALU_OP_ADD)))
			break
		}
		var nn uint16
		nn, err = asm.number(args[1], 8)
		if err != nil {
			return
		}
		emit(cpu.MakeCodeXNN(cpu.OP_ADD, vx, uint8(nn)))
	case "or", "and", "xor", "sub", "subn", "shr", "shl":
		alu := aluMap[mnemonic]
		if (alu == cpu.ALU_OP_SHR || alu == cpu.ALU_OP_SHL) && len(args) == 1 {
			// shr vx => shr vx, vx
			args = append(args, args[0])
		}
		if err = argc(args, 2); err != nil {
			return
		}
		if err = regs(2); err != nil {
			return
		}
		emit(cpu.MakeCodeXYN(cpu.OP_ALU, vx, vy, uint8(alu)))
	case "rnd":
		if err = argc(args, 2); err != nil {
			return
		}
		if err = regs(1); err != nil {
			return
		}
		var nn uint16
		nn, err = asm.number(args[1], 8)
		if err != nil {
			return
		}
		emit(cpu.MakeCodeXNN(cpu.OP_RND, vx, uint8(nn)))
	case "drw":
		if err = argc(args, 3); err != nil {
			return
		}
		if err = regs(2); err != nil {
			return
		}
		var n uint16
		n, err = asm.number(args[2], 4)
		if err != nil {
			return
		}
		emit(cpu.MakeCodeXYN(cpu.OP_DRW, vx, vy, uint8(n)))
	case "skp", "sknp":
		if err = argc(args, 1); err != nil {
			return
		}
		if err = regs(1); err != nil {
			return
		}
		op := cpu.KEY_OP_SKP
		if mnemonic == "sknp" {
			op = cpu.KEY_OP_SKNP
		}
		emit(cpu.MakeCodeXNN(cpu.OP_KEY, vx, uint8(op)))
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}
