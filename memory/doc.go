// Package memory implements the addressable store of the CHIP-8 machine.
//
// Memory is a flat 4K byte array holding the built-in hexadecimal font at
// FONT_BASE and the loaded program at PROGRAM_ORIGIN. Alongside the bytes it
// owns the 64x32 monochrome framebuffer and the dirty flag that tells a
// renderer the picture may have changed.
package memory
