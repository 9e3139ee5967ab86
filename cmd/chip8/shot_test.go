package main

import (
	"bytes"
	"image/color"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/bmp"

	"github.com/ezrec/chip8/memory"
)

func TestScreenshot(t *testing.T) {
	assert := assert.New(t)

	var fb memory.Framebuffer
	fb.Flip(0, 0)
	fb.Flip(63, 31)

	var buf bytes.Buffer
	err := screenshot(&buf, &fb, 2)
	if !assert.NoError(err) {
		return
	}

	img, err := bmp.Decode(&buf)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(memory.SCREEN_WIDTH*2, img.Bounds().Dx())
	assert.Equal(memory.SCREEN_HEIGHT*2, img.Bounds().Dy())

	lit := color.RGBAModel.Convert(shotPalette[1])
	unlit := color.RGBAModel.Convert(shotPalette[0])

	table := [](struct {
		x, y int
		lit  bool
	}){
		{0, 0, true},
		{1, 1, true},
		{2, 0, false},
		{126, 62, true},
		{127, 63, true},
		{125, 63, false},
	}

	for _, entry := range table {
		got := color.RGBAModel.Convert(img.At(entry.x, entry.y))
		if entry.lit {
			assert.Equal(lit, got, "%d,%d", entry.x, entry.y)
		} else {
			assert.Equal(unlit, got, "%d,%d", entry.x, entry.y)
		}
	}
}

func TestSaveScreenshot(t *testing.T) {
	assert := assert.New(t)

	t.Chdir(t.TempDir())

	var fb memory.Framebuffer

	name, err := saveScreenshot(&fb, 1)
	assert.NoError(err)
	assert.Equal("chip8-000.bmp", name)

	name, err = saveScreenshot(&fb, 1)
	assert.NoError(err)
	assert.Equal("chip8-001.bmp", name)

	_, err = os.Stat("chip8-001.bmp")
	assert.NoError(err)
}
