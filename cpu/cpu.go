package cpu

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/ezrec/chip8/input"
	"github.com/ezrec/chip8/memory"
)

const (
	REG_FLAG = 0xF // Carry, borrow and collision flag register.
)

// Random is the source of the bytes returned by the rnd instruction.
// *math/rand/v2.Rand satisfies it.
type Random interface {
	Uint32() uint32
}

// Quirks selects between the historical dialects of ambiguous instructions.
// The zero value is the CHIP-48/SCHIP dialect used by most modern programs.
// The COSMAC VIP interpreter shifted Vy and advanced I; set both quirks for it.
type Quirks struct {
	// ShiftUsesVy makes 8XY6 and 8XYE shift Vy into Vx, instead of
	// shifting Vx in place.
	ShiftUsesVy bool
	// LoadStoreIncrementsIndex makes FX55 and FX65 leave I at I+X+1.
	LoadStoreIncrementsIndex bool
}

// Cpu is the simulation context for the CHIP-8 processor.
type Cpu struct {
	Verbose bool   // Set to enable verbose logging.
	Quirks  Quirks // Instruction dialect.
	Random  Random // Source for the rnd instruction.

	Register   [16]uint8 // V0-VF.
	Index      uint16    // I.
	Pc         uint16    // Program counter.
	Stack      Stack     // Return addresses.
	DelayTimer uint8     // DT, counts down at 60Hz.
	SoundTimer uint8     // ST, counts down at 60Hz, beeps while non-zero.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a reset CPU with a randomly seeded Random source.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Random: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	cpu.Reset()

	return
}

// Reset the CPU state.
// - Clears the registers, index, stack and timers.
// - Sets the program counter to the program origin.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Index = 0
	cpu.Pc = memory.PROGRAM_ORIGIN
	cpu.Stack.Reset()
	cpu.DelayTimer = 0
	cpu.SoundTimer = 0
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   pc: %03X\n", cpu.Pc)
	text += fmt.Sprintf("    i: %03X\n", cpu.Index)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("   v%X: %02X\n", n, val)
	}
	strval := "---"
	if ret, ok := cpu.Stack.Peek(); ok {
		strval = fmt.Sprintf("%03X", ret)
	}
	text += fmt.Sprintf("stack: %v (%d)\n", strval, cpu.Stack.Depth())
	text += fmt.Sprintf("   dt: %02X\n", cpu.DelayTimer)
	text += fmt.Sprintf("   st: %02X\n", cpu.SoundTimer)

	return
}

// TimerTick decrements both timers, stopping at zero.
func (cpu *Cpu) TimerTick() {
	if cpu.DelayTimer > 0 {
		cpu.DelayTimer--
	}
	if cpu.SoundTimer > 0 {
		cpu.SoundTimer--
	}
}

// Fetch reads the instruction word at the program counter and advances the
// program counter past it.
func (cpu *Cpu) Fetch(mem *memory.Memory) (code Code) {
	hi := mem.Read(cpu.Pc)
	lo := mem.Read(cpu.Pc + 1)
	code = Code(uint16(hi)<<8 | uint16(lo))
	cpu.Pc += 2
	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick(mem *memory.Memory, keys input.Keys) (err error) {
	code := cpu.Fetch(mem)

	err = cpu.Execute(mem, keys, code)

	return
}

// skipIf advances past the next instruction when cond holds.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += 2
	}
}

// Execute executes a single decoded instruction. The program counter must
// already point past the instruction, as left by Fetch.
//
// An instruction that fails leaves the machine as it was, apart from the
// program counter advance done by Fetch.
func (cpu *Cpu) Execute(mem *memory.Memory, keys input.Keys, code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%03x: %v", cpu.Pc-2, code)
	}

	v := &cpu.Register
	x := code.X()
	y := code.Y()

	switch code.Op() {
	case OP_SYS:
		switch CodeSysOp(code.NN()) {
		case SYS_OP_CLS:
			if code.X() != 0 {
				err = errors.Join(ErrOpcodeSys, ErrOpcodeUnknown)
				return
			}
			mem.ClearFramebuffer()
		case SYS_OP_RET:
			if code.X() != 0 {
				err = errors.Join(ErrOpcodeSys, ErrOpcodeUnknown)
				return
			}
			ret, ok := cpu.Stack.Pop()
			if !ok {
				err = errors.Join(ErrOpcodeSys, ErrStackEmpty)
				return
			}
			cpu.Pc = ret
		default:
			// Machine code routines of the host processor.
			err = errors.Join(ErrOpcodeSys, ErrOpcodeUnknown)
			return
		}
	case OP_JP:
		cpu.Pc = code.NNN()
	case OP_CALL:
		if cpu.Stack.Full() {
			err = ErrStackFull
			return
		}
		cpu.Stack.Push(cpu.Pc)
		cpu.Pc = code.NNN()
	case OP_SE:
		cpu.skipIf(v[x] == code.NN())
	case OP_SNE:
		cpu.skipIf(v[x] != code.NN())
	case OP_SER:
		// The low nibble is ignored.
		cpu.skipIf(v[x] == v[y])
	case OP_SNER:
		cpu.skipIf(v[x] != v[y])
	case OP_LD:
		v[x] = code.NN()
	case OP_ADD:
		v[x] += code.NN()
	case OP_ALU:
		err = cpu.doAlu(CodeAluOp(code.N()), x, y)
		if err != nil {
			err = errors.Join(ErrOpcodeAlu, err)
			return
		}
	case OP_LDI:
		cpu.Index = code.NNN()
	case OP_JPV0:
		cpu.Pc = code.NNN() + uint16(v[0])
	case OP_RND:
		v[x] = uint8(cpu.Random.Uint32()) & code.NN()
	case OP_DRW:
		cpu.draw(mem, v[x], v[y], code.N())
	case OP_KEY:
		switch CodeKeyOp(code.NN()) {
		case KEY_OP_SKP:
			cpu.skipIf(keys.Pressed(v[x]))
		case KEY_OP_SKNP:
			cpu.skipIf(!keys.Pressed(v[x]))
		default:
			err = errors.Join(ErrOpcodeKey, ErrOpcodeUnknown)
			return
		}
	case OP_MISC:
		err = cpu.doMisc(mem, keys, CodeMiscOp(code.NN()), x)
		if err != nil {
			err = errors.Join(ErrOpcodeMisc, err)
			return
		}
	}

	cpu.Ticks++

	return
}

// doAlu performs the register to register operation selected by op.
func (cpu *Cpu) doAlu(op CodeAluOp, x, y uint8) (err error) {
	v := &cpu.Register

	switch op {
	case ALU_OP_SET:
		v[x] = v[y]
	case ALU_OP_OR:
		v[x] |= v[y]
	case ALU_OP_AND:
		v[x] &= v[y]
	case ALU_OP_XOR:
		v[x] ^= v[y]
	case ALU_OP_ADD:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = uint8(sum)
		v[REG_FLAG] = flag(sum > 0xff)
	case ALU_OP_SUB:
		borrow := v[y] > v[x]
		v[x] -= v[y]
		v[REG_FLAG] = flag(borrow)
	case ALU_OP_SUBN:
		borrow := v[x] > v[y]
		v[x] = v[y] - v[x]
		v[REG_FLAG] = flag(borrow)
	case ALU_OP_SHR:
		src := v[x]
		if cpu.Quirks.ShiftUsesVy {
			src = v[y]
		}
		v[REG_FLAG] = src & 1
		v[x] = src >> 1
	case ALU_OP_SHL:
		src := v[x]
		if cpu.Quirks.ShiftUsesVy {
			src = v[y]
		}
		v[REG_FLAG] = src >> 7
		v[x] = src << 1
	default:
		err = ErrOpcodeUnknown
	}

	return
}

// doMisc performs the timer, index and memory transfer operations.
func (cpu *Cpu) doMisc(mem *memory.Memory, keys input.Keys, op CodeMiscOp, x uint8) (err error) {
	v := &cpu.Register

	switch op {
	case MISC_OP_GET_DT:
		v[x] = cpu.DelayTimer
	case MISC_OP_WAIT_K:
		key, ok := keys.Highest()
		if !ok {
			// Present this instruction again on the next cycle.
			cpu.Pc -= 2
			return
		}
		v[x] = key
	case MISC_OP_SET_DT:
		cpu.DelayTimer = v[x]
	case MISC_OP_SET_ST:
		cpu.SoundTimer = v[x]
	case MISC_OP_ADD_I:
		sum := cpu.Index + uint16(v[x])
		v[REG_FLAG] = flag(sum > 0xfff)
		cpu.Index = sum & 0xfff
	case MISC_OP_GLYPH:
		cpu.Index = memory.FONT_BASE + uint16(v[x])*memory.GLYPH_SIZE
	case MISC_OP_BCD:
		err = mem.CheckRange(cpu.Index, 3)
		if err != nil {
			return
		}
		mem.Write(cpu.Index+0, v[x]/100)
		mem.Write(cpu.Index+1, (v[x]/10)%10)
		mem.Write(cpu.Index+2, v[x]%10)
	case MISC_OP_STORE:
		count := int(x) + 1
		err = mem.CheckRange(cpu.Index, count)
		if err != nil {
			return
		}
		for n := range count {
			mem.Write(cpu.Index+uint16(n), v[n])
		}
		if cpu.Quirks.LoadStoreIncrementsIndex {
			cpu.Index += uint16(count)
		}
	case MISC_OP_LOAD:
		count := int(x) + 1
		err = mem.CheckRange(cpu.Index, count)
		if err != nil {
			return
		}
		for n := range count {
			v[n] = mem.Read(cpu.Index + uint16(n))
		}
		if cpu.Quirks.LoadStoreIncrementsIndex {
			cpu.Index += uint16(count)
		}
	default:
		err = ErrOpcodeUnknown
	}

	return
}

// draw XORs an 8 pixel wide, rows pixel high sprite read from I onto the
// framebuffer at (vx, vy). Pixels past the edges wrap to the opposite edge.
// VF is set if any lit pixel was turned off.
func (cpu *Cpu) draw(mem *memory.Memory, vx, vy, rows uint8) {
	var collision bool

	for row := range int(rows) {
		pixels := mem.Read(cpu.Index + uint16(row))
		for col := range 8 {
			if pixels&(0x80>>col) == 0 {
				continue
			}
			if mem.Flip(int(vx)+col, int(vy)+row) {
				collision = true
			}
		}
	}

	cpu.Register[REG_FLAG] = flag(collision)
	mem.ToggleDirty()
}

// flag converts a condition to a VF value.
func flag(cond bool) uint8 {
	if cond {
		return 1
	}
	return 0
}
