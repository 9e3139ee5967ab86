// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ezrec/chip8/asm"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/rom"
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// defines collects -D NAME=VALUE equates.
type defines map[string]string

func (d defines) String() string {
	var list []string
	for name, value := range d {
		list = append(list, name+"="+value)
	}
	return strings.Join(list, ",")
}

func (d defines) Set(arg string) error {
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		value = "1"
	}
	d[name] = value
	return nil
}

func main() {
	var compile string
	var output string
	var hz int
	var scale int
	var useTerm bool
	var seed uint64
	var quirkShift bool
	var quirkIndex bool
	var strict bool
	var mute bool
	var lang string
	var verbose bool
	predefine := defines{}

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&output, "o", "", "Save the program image to a .ch8 file, do not execute")
	flag.IntVar(&hz, "hz", emulator.DEFAULT_HZ, "Instructions per second")
	flag.IntVar(&scale, "scale", 10, "Window pixels per CHIP-8 pixel")
	flag.BoolVar(&useTerm, "term", false, "Run in the terminal instead of a window")
	flag.Uint64Var(&seed, "seed", 0, "Seed for the rnd instruction (0 is random)")
	flag.BoolVar(&quirkShift, "quirk-shift", false, "8XY6/8XYE shift Vy into Vx")
	flag.BoolVar(&quirkIndex, "quirk-index", false, "FX55/FX65 advance I")
	flag.BoolVar(&strict, "strict", false, "Stop on the first runtime error")
	flag.BoolVar(&mute, "mute", false, "Disable the sound timer tone")
	flag.StringVar(&lang, "lang", "", "Diagnostic language (BCP 47 tag)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(predefine, "D", "Predefine an assembler equate, NAME=VALUE")

	flag.Parse()

	if len(lang) != 0 {
		err := translate.SetLanguage(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	var prog *asm.Program
	var image []uint8

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		assembler := &asm.Assembler{Verbose: verbose}
		for name, value := range predefine {
			assembler.Predefine(name, value)
		}

		prog, err = assembler.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		if verbose {
			err = writeListing(log.Writer(), prog)
			if err != nil {
				log.Fatalf("%v", err)
			}
		}

		image = prog.Binary()
	case flag.NArg() == 1:
		name := flag.Arg(0)
		r, err := rom.Open(os.DirFS(filepath.Dir(name)), filepath.Base(name))
		if err != nil {
			log.Fatalf("%v", err)
		}
		image = r.Data
	default:
		log.Fatalf("usage: %v [options] (-c file.asm | file.ch8)", os.Args[0])
	}

	if len(output) != 0 {
		r := &rom.Rom{Name: filepath.Base(output), Data: image}
		err := r.Save(rom.DirFS(filepath.Dir(output)), filepath.Base(output))
		if err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Strict = strict
	emu.Quirks.ShiftUsesVy = quirkShift
	emu.Quirks.LoadStoreIncrementsIndex = quirkIndex
	if seed != 0 {
		emu.Random = rand.New(rand.NewPCG(seed, seed))
	}

	var err error
	if prog != nil {
		err = emu.LoadProgram(prog)
	} else {
		err = emu.Load(image)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	var bp *beeper
	if !mute {
		bp, err = newBeeper()
		if err != nil {
			log.Printf("chip8: audio: %v", err)
			bp = nil
		}
	}
	defer bp.Close()

	if useTerm {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = runTerminal(ctx, emu, hz, bp)
	} else {
		err = runWindow(emu, hz, scale, bp)
	}

	if err != nil {
		log.Printf("%v", err)
		if line := emu.LineNo(); line > 0 {
			log.Printf("%v: line %d", compile, line)
		}
		bp.Close()
		os.Exit(1)
	}
}
