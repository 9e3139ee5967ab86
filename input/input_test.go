package input

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys_Pressed(t *testing.T) {
	assert := assert.New(t)

	var keys Keys
	keys[0x3] = true
	keys[0xf] = true

	assert.True(keys.Pressed(0x3))
	assert.True(keys.Pressed(0xf))
	assert.False(keys.Pressed(0x0))
	assert.True(keys.Pressed(0x13))
}

func TestKeys_Highest(t *testing.T) {
	assert := assert.New(t)

	var keys Keys
	_, ok := keys.Highest()
	assert.False(ok)
	assert.False(keys.Any())

	keys[0x2] = true
	keys[0xa] = true
	key, ok := keys.Highest()
	assert.True(ok)
	assert.Equal(uint8(0xa), key)
	assert.True(keys.Any())

	keys = Keys{}
	keys[0] = true
	key, ok = keys.Highest()
	assert.True(ok)
	assert.Equal(uint8(0), key)
}

func TestKeypad(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}
	assert.Equal(Keys{}, kp.Snapshot())

	var wg sync.WaitGroup
	for n := range KEY_COUNT {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var keys Keys
			keys[n] = true
			kp.Set(keys)
		}()
	}
	wg.Wait()

	keys := kp.Snapshot()
	held := 0
	for _, down := range keys {
		if down {
			held++
		}
	}
	assert.Equal(1, held)
}
