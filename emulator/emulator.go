// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/ezrec/chip8/asm"
	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/input"
	"github.com/ezrec/chip8/memory"
)

const (
	TIMER_HZ   = 60  // Delay and sound timer rate.
	DEFAULT_HZ = 600 // Default instruction rate.
)

// Emulator state. CPU + memory + keypad.
type Emulator struct {
	Verbose  bool           // If set, enables verbose logging.
	Strict   bool           // If set, Run stops on the first runtime error.
	*cpu.Cpu                // Reference to the CPU simulation.
	Memory   *memory.Memory // Memory and framebuffer.
	Program  *asm.Program   // Listing of the loaded program, if assembled.
	Keypad   input.Keypad   // Latest key snapshot.

	lock  sync.Mutex
	image []uint8
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Memory:  memory.NewMemory(),
		Program: &asm.Program{},
	}

	return
}

// reset must be called with the lock held.
func (emu *Emulator) reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Memory.Verbose = emu.Verbose

	emu.Memory.Reset()
	emu.Memory.LoadFont()
	emu.Cpu.Reset()

	err = emu.Memory.LoadProgram(emu.image)

	return
}

// Reset the machine and reload the current program image.
func (emu *Emulator) Reset() (err error) {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	return emu.reset()
}

// Load a program image, and reset the machine to run it.
// The program listing is cleared.
func (emu *Emulator) Load(image []uint8) (err error) {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	if len(image) > memory.MAX_PROGRAM_SIZE {
		err = memory.ErrProgramTooLarge
		return
	}

	emu.image = slices.Clone(image)
	emu.Program = &asm.Program{}

	return emu.reset()
}

// LoadProgram loads an assembled program, keeping its listing for
// runtime diagnostics.
func (emu *Emulator) LoadProgram(prog *asm.Program) (err error) {
	err = emu.Load(prog.Binary())
	if err != nil {
		return
	}

	emu.lock.Lock()
	emu.Program = prog
	emu.lock.Unlock()

	return
}

// lineNo returns the source line number for the instruction at pc.
func (emu *Emulator) lineNo(pc uint16) int {
	dbg := emu.Program.Debug(pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	return emu.lineNo(emu.Cpu.Pc)
}

// Tick performs a single instruction cycle of the emulator.
func (emu *Emulator) Tick() (err error) {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	code := emu.Cpu.Fetch(emu.Memory)

	err = emu.Cpu.Execute(emu.Memory, emu.Keypad.Snapshot(), code)
	if err != nil {
		err = &ErrRuntime{Pc: pc, Code: code, LineNo: emu.lineNo(pc), Err: err}
	}

	return
}

// TimerTick decrements the delay and sound timers.
func (emu *Emulator) TimerTick() {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	emu.Cpu.TimerTick()
}

// SetKeys replaces the key snapshot seen by following instructions.
func (emu *Emulator) SetKeys(keys input.Keys) {
	emu.Keypad.Set(keys)
}

// Frame returns a copy of the framebuffer, and the dirty flag.
func (emu *Emulator) Frame() (fb memory.Framebuffer, dirty bool) {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	fb = emu.Memory.Framebuffer()
	dirty = emu.Memory.Dirty()

	return
}

// SoundActive reports whether the sound timer is running.
func (emu *Emulator) SoundActive() bool {
	emu.lock.Lock()
	defer emu.lock.Unlock()

	return emu.Cpu.SoundTimer > 0
}

// RunFrame runs one timer period: hz/TIMER_HZ instructions, then a timer tick.
func (emu *Emulator) RunFrame(hz int) (err error) {
	steps := max(hz/TIMER_HZ, 1)

	for range steps {
		err = emu.Tick()
		if err != nil {
			if emu.Strict {
				return
			}
			log.Printf("chip8: %v", err)
			err = nil
		}
	}

	emu.TimerTick()

	return
}

// Run executes instructions at hz per second, and the timers at TIMER_HZ,
// until the context is done.
func (emu *Emulator) Run(ctx context.Context, hz int) (err error) {
	ticker := time.NewTicker(time.Second / TIMER_HZ)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err = emu.RunFrame(hz)
			if err != nil {
				return
			}
		}
	}
}
