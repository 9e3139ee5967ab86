package main

import (
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	BEEP_SAMPLE_RATE = 44100 // Samples per second.
	BEEP_TONE        = 440   // Square wave frequency, in Hz.
	BEEP_VOLUME      = 0x1000
)

// squareWave is a mono signed 16-bit little endian tone, silent while off.
type squareWave struct {
	on    atomic.Bool
	phase int
}

func (sw *squareWave) Read(p []byte) (n int, err error) {
	half := BEEP_SAMPLE_RATE / BEEP_TONE / 2
	on := sw.on.Load()

	for n = 0; n+1 < len(p); n += 2 {
		var sample int16
		if on {
			sample = BEEP_VOLUME
			if sw.phase >= half {
				sample = -BEEP_VOLUME
			}
		}
		p[n] = uint8(sample)
		p[n+1] = uint8(uint16(sample) >> 8)
		sw.phase = (sw.phase + 1) % (half * 2)
	}

	return
}

// beeper sounds while the sound timer runs. A nil beeper is silent.
type beeper struct {
	player *oto.Player
	tone   squareWave
}

func newBeeper() (bp *beeper, err error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   BEEP_SAMPLE_RATE,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return
	}
	<-ready

	bp = &beeper{}
	bp.player = ctx.NewPlayer(&bp.tone)
	bp.player.Play()

	return
}

func (bp *beeper) Set(on bool) {
	if bp == nil {
		return
	}
	bp.tone.on.Store(on)
}

func (bp *beeper) Close() (err error) {
	if bp == nil {
		return
	}
	return bp.player.Close()
}
