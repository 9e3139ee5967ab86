package main

import (
	"fmt"
	"io"
	"iter"

	"github.com/ezrec/chip8/asm"
)

// writeListing writes the assembled program, one source line per line,
// followed by the instruction words it decodes to.
func writeListing(w io.Writer, prog *asm.Program) (err error) {
	next, stop := iter.Pull2(prog.Codes())
	defer stop()

	address, code, ok := next()
	for n := range prog.Opcodes {
		op := &prog.Opcodes[n]
		_, err = fmt.Fprintf(w, "%v\n", op)
		if err != nil {
			return
		}

		end := int(op.Address) + len(op.Data)
		for ok && int(address) < end {
			_, err = fmt.Fprintf(w, "\t%03X: %v\n", address, code)
			if err != nil {
				return
			}
			address, code, ok = next()
		}
	}

	return
}
