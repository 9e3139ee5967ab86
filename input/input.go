// Package input holds the state of the 16-key hexadecimal keypad.
package input

import (
	"sync"
)

const KEY_COUNT = 16 // Keys 0x0 to 0xF.

// Keys is a snapshot of which keys are held down.
type Keys [KEY_COUNT]bool

// Pressed reports whether key is held. Only the low nibble of key is used.
func (keys Keys) Pressed(key uint8) bool {
	return keys[key&0xf]
}

// Highest returns the highest numbered key held down.
func (keys Keys) Highest() (key uint8, ok bool) {
	for n := KEY_COUNT - 1; n >= 0; n-- {
		if keys[n] {
			return uint8(n), true
		}
	}
	return
}

// Any reports whether at least one key is held.
func (keys Keys) Any() bool {
	_, ok := keys.Highest()
	return ok
}

// Keypad is the latest key snapshot, safe for a poller and an interpreter
// running on different goroutines.
type Keypad struct {
	lock sync.Mutex
	keys Keys
}

// Set replaces the whole snapshot.
func (kp *Keypad) Set(keys Keys) {
	kp.lock.Lock()
	kp.keys = keys
	kp.lock.Unlock()
}

// Snapshot returns the current snapshot.
func (kp *Keypad) Snapshot() (keys Keys) {
	kp.lock.Lock()
	keys = kp.keys
	kp.lock.Unlock()
	return
}
