package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/input"
	"github.com/ezrec/chip8/memory"
)

const (
	KEY_HOLD_FRAMES = 6    // Frames a typed key stays held; terminals send no key release.
	KEY_CTRL_C      = 0x03 // Quit.
	KEY_ESCAPE      = 0x1b // Quit.
)

var ErrNotTerminal = errors.New(f("stdin is not a terminal"))

// halfBlocks renders two framebuffer rows per text line.
func halfBlocks(fb *memory.Framebuffer) string {
	var sb strings.Builder

	for y := 0; y < memory.SCREEN_HEIGHT; y += 2 {
		for x := range memory.SCREEN_WIDTH {
			top := fb[y][x]
			bottom := fb[y+1][x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		// Raw mode does not translate newlines.
		sb.WriteString("\r\n")
	}

	return sb.String()
}

// keyHold tracks typed keys as held for a few frames.
type keyHold [input.KEY_COUNT]int

// Press holds key for KEY_HOLD_FRAMES frames.
func (kh *keyHold) Press(key uint8) {
	kh[key&0xf] = KEY_HOLD_FRAMES
}

// Frame counts down the holds, returning the keys held during this frame.
func (kh *keyHold) Frame() (keys input.Keys) {
	for n := range kh {
		if kh[n] > 0 {
			keys[n] = true
			kh[n]--
		}
	}
	return
}

// readKeys sends typed characters until the reader fails.
func readKeys(r io.Reader, typed chan<- rune) {
	defer close(typed)

	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, ch := range buf[:n] {
			typed <- rune(ch)
		}
		if err != nil {
			return
		}
	}
}

// runTerminal runs the emulator in the terminal until the context is done,
// or Ctrl-C or Escape is typed.
func runTerminal(ctx context.Context, emu *emulator.Emulator, hz int, bp *beeper) (err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		err = ErrNotTerminal
		return
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, state)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	typed := make(chan rune, 16)
	go readKeys(os.Stdin, typed)

	done := make(chan error, 1)
	go func() {
		done <- emu.Run(ctx, hz)
	}()

	out := os.Stdout
	// Clear, hide cursor.
	fmt.Fprint(out, "\x1b[2J\x1b[?25l")
	defer fmt.Fprint(out, "\x1b[?25h\r\n")

	ticker := time.NewTicker(time.Second / emulator.TIMER_HZ)
	defer ticker.Stop()

	var hold keyHold
	var last memory.Framebuffer
	first := true

	for {
		select {
		case err = <-done:
			return
		case ch, ok := <-typed:
			if !ok || ch == KEY_CTRL_C || ch == KEY_ESCAPE {
				cancel()
				err = <-done
				return
			}
			if key, ok := keyOf(ch); ok {
				hold.Press(key)
			}
		case <-ticker.C:
			emu.SetKeys(hold.Frame())
			bp.Set(emu.SoundActive())

			fb, _ := emu.Frame()
			if first || fb != last {
				fmt.Fprint(out, "\x1b[H"+halfBlocks(&fb))
				last = fb
				first = false
			}
		}
	}
}
