// Package rom loads and saves CHIP-8 program images.
package rom

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ezrec/chip8/memory"
)

const (
	MAX_SIZE = memory.MAX_PROGRAM_SIZE // Largest image that fits above the program origin.
)

// CreateFS is a file system that supports creating files.
type CreateFS interface {
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
}

// DirFS is a CreateFS rooted at a host directory.
type DirFS string

var _ CreateFS = DirFS("")

func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	return os.Create(filepath.Join(string(dir), filepath.FromSlash(name)))
}

// Rom is a program image. Odd length images are allowed; the trailing byte
// is only ever read as data.
type Rom struct {
	Name string  // Source name, for diagnostics.
	Data []uint8 // Image, loaded at the program origin.
}

// Read reads a program image of at most MAX_SIZE bytes.
func Read(name string, r io.Reader) (rom *Rom, err error) {
	defer func() {
		if err != nil {
			err = &ErrRom{Name: name, Err: err}
		}
	}()

	data, err := io.ReadAll(io.LimitReader(r, MAX_SIZE+1))
	if err != nil {
		return
	}

	switch {
	case len(data) > MAX_SIZE:
		err = ErrRomTooLarge
		return
	case len(data) == 0:
		err = ErrRomEmpty
		return
	}

	rom = &Rom{
		Name: name,
		Data: data,
	}

	return
}

// Open reads the named program image from fsys.
func Open(fsys fs.FS, name string) (rom *Rom, err error) {
	file, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer file.Close()

	rom, err = Read(name, file)

	return
}

// Save writes the image to the named file of fsys.
func (rom *Rom) Save(fsys CreateFS, name string) (err error) {
	defer func() {
		if err != nil {
			err = &ErrRom{Name: name, Err: err}
		}
	}()

	if len(rom.Data) > MAX_SIZE {
		err = ErrRomTooLarge
		return
	}

	file, err := fsys.Create(name)
	if err != nil {
		return
	}

	_, err = file.Write(rom.Data)
	if err != nil {
		file.Close()
		return
	}

	err = file.Close()

	return
}
