package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/bmp"

	"github.com/ezrec/chip8/memory"
)

var shotPalette = color.Palette{
	color.RGBA{colorUnlit[0], colorUnlit[1], colorUnlit[2], colorUnlit[3]},
	color.RGBA{colorLit[0], colorLit[1], colorLit[2], colorLit[3]},
}

// screenshot writes the framebuffer as a BMP image, scale pixels per cell.
func screenshot(w io.Writer, fb *memory.Framebuffer, scale int) (err error) {
	scale = max(scale, 1)

	img := image.NewPaletted(image.Rect(0, 0, memory.SCREEN_WIDTH*scale, memory.SCREEN_HEIGHT*scale), shotPalette)
	for y := range img.Rect.Dy() {
		for x := range img.Rect.Dx() {
			if fb[y/scale][x/scale] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}

	return bmp.Encode(w, img)
}

// saveScreenshot writes the next free chip8-NNN.bmp in the current directory.
func saveScreenshot(fb *memory.Framebuffer, scale int) (name string, err error) {
	var file *os.File
	for n := 0; ; n++ {
		name = fmt.Sprintf("chip8-%03d.bmp", n)
		file, err = os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return
		}
		break
	}
	defer func() {
		cerr := file.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = screenshot(file, fb, scale)

	return
}
