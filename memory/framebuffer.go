package memory

import (
	"strings"
)

const (
	SCREEN_WIDTH  = 64 // Framebuffer columns.
	SCREEN_HEIGHT = 32 // Framebuffer rows.
)

// Framebuffer is the monochrome pixel grid, row major.
type Framebuffer [SCREEN_HEIGHT][SCREEN_WIDTH]bool

func wrap(x, y int) (int, int) {
	x %= SCREEN_WIDTH
	if x < 0 {
		x += SCREEN_WIDTH
	}
	y %= SCREEN_HEIGHT
	if y < 0 {
		y += SCREEN_HEIGHT
	}
	return x, y
}

// Clear turns every pixel off.
func (fb *Framebuffer) Clear() {
	*fb = Framebuffer{}
}

// Pixel returns the pixel at (x, y), wrapping both coordinates.
func (fb *Framebuffer) Pixel(x, y int) bool {
	x, y = wrap(x, y)
	return fb[y][x]
}

// Flip XORs the pixel at (x, y), wrapping both coordinates, and reports
// whether a lit pixel was turned off.
func (fb *Framebuffer) Flip(x, y int) (collision bool) {
	x, y = wrap(x, y)
	collision = fb[y][x]
	fb[y][x] = !fb[y][x]
	return
}

// Lit counts the pixels that are on.
func (fb *Framebuffer) Lit() (count int) {
	for y := range SCREEN_HEIGHT {
		for x := range SCREEN_WIDTH {
			if fb[y][x] {
				count++
			}
		}
	}
	return
}

// String renders the framebuffer as text, '#' for lit pixels.
func (fb *Framebuffer) String() string {
	var sb strings.Builder
	for y := range SCREEN_HEIGHT {
		for x := range SCREEN_WIDTH {
			if fb[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
