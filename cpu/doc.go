// Package cpu implements the processor of the CHIP-8 virtual machine.
//
// The processor consists of sixteen 8-bit registers (V0-VF, with VF doubling
// as the carry, borrow and collision flag), a 16-bit index register (I), a
// program counter, a sixteen entry call stack and the delay and sound timers.
// Instructions are 16-bit big-endian words; Execute implements the semantics
// of every instruction against a borrowed memory.Memory and a snapshot of the
// keypad.
package cpu
