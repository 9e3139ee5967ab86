package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/input"
	"github.com/ezrec/chip8/memory"
)

var (
	colorLit   = [4]uint8{0x33, 0xff, 0x66, 0xff}
	colorUnlit = [4]uint8{0x00, 0x11, 0x00, 0xff}
)

// display is the ebiten window front end.
type display struct {
	emu    *emulator.Emulator
	hz     int
	scale  int
	beeper *beeper
	pixels []uint8
}

var _ ebiten.Game = (*display)(nil)

func (d *display) Update() (err error) {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		fb, _ := d.emu.Frame()
		name, err := saveScreenshot(&fb, d.scale)
		if err != nil {
			log.Printf("chip8: screenshot: %v", err)
		} else {
			log.Printf("chip8: screenshot: %v", name)
		}
	}

	var keys input.Keys
	for ek, key := range ebitenKeys {
		if ebiten.IsKeyPressed(ek) {
			keys[key] = true
		}
	}
	d.emu.SetKeys(keys)

	err = d.emu.RunFrame(d.hz)
	if err != nil {
		return
	}

	d.beeper.Set(d.emu.SoundActive())

	return
}

// rgba renders the framebuffer as RGBA pixels.
func rgba(fb *memory.Framebuffer, pixels []uint8) []uint8 {
	pixels = pixels[:0]
	for y := range memory.SCREEN_HEIGHT {
		for x := range memory.SCREEN_WIDTH {
			color := colorUnlit
			if fb[y][x] {
				color = colorLit
			}
			pixels = append(pixels, color[:]...)
		}
	}
	return pixels
}

func (d *display) Draw(screen *ebiten.Image) {
	fb, _ := d.emu.Frame()
	d.pixels = rgba(&fb, d.pixels)
	screen.WritePixels(d.pixels)
}

func (d *display) Layout(outsideWidth, outsideHeight int) (int, int) {
	return memory.SCREEN_WIDTH, memory.SCREEN_HEIGHT
}

// runWindow runs the emulator in a window until it is closed.
func runWindow(emu *emulator.Emulator, hz int, scale int, bp *beeper) (err error) {
	ebiten.SetWindowSize(memory.SCREEN_WIDTH*scale, memory.SCREEN_HEIGHT*scale)
	ebiten.SetWindowTitle("CHIP-8")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(emulator.TIMER_HZ)

	d := &display{
		emu:    emu,
		hz:     hz,
		scale:  scale,
		beeper: bp,
		pixels: make([]uint8, 0, memory.SCREEN_WIDTH*memory.SCREEN_HEIGHT*4),
	}

	err = ebiten.RunGame(d)
	if err == ebiten.Termination {
		err = nil
	}

	return
}
