// Package main - hotkeys.go
//
// HookKeys keeps the set of currently held keys by listening to the global
// keyboard hook from robotn/gohook. The InputMonitor queries it every loop
// iteration, which gives the same level-triggered "is this key down right
// now" view a polling keyboard API would.
package main

import (
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// charUndefined is the keychar libuiohook reports for non-printing keys
const charUndefined = 0xFFFF

// HookKeys tracks pressed keys from the global keyboard hook
type HookKeys struct {
	pressed map[string]bool
	mu      sync.RWMutex
	events  chan hook.Event
	done    chan struct{}
}

// NewHookKeys creates an idle tracker; call Start to begin listening
func NewHookKeys() *HookKeys {
	return &HookKeys{
		pressed: make(map[string]bool),
		done:    make(chan struct{}),
	}
}

// Start installs the global hook and processes events in the background
func (k *HookKeys) Start() {
	k.events = hook.Start()
	LogInfo("Keyboard hook started")

	SafeGo(func() {
		defer close(k.done)
		for ev := range k.events {
			k.handle(ev)
		}
		LogDebug("Keyboard hook event stream closed")
	})
}

// Stop removes the global hook
func (k *HookKeys) Stop() {
	if k.events == nil {
		return
	}
	hook.End()
	LogInfo("Keyboard hook stopped")
}

func (k *HookKeys) handle(ev hook.Event) {
	switch ev.Kind {
	case hook.KeyDown, hook.KeyHold:
		k.set(keyName(ev), true)
	case hook.KeyUp:
		k.set(keyName(ev), false)
	}
}

func (k *HookKeys) set(name string, down bool) {
	if name == "" {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if down {
		k.pressed[name] = true
	} else {
		delete(k.pressed, name)
	}
}

// IsPressed reports whether key is currently held down
func (k *HookKeys) IsPressed(key string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.pressed[strings.ToLower(key)]
}

// keyName maps a hook event to the lower-case key names used in the config
func keyName(ev hook.Event) string {
	if name := hook.RawcodetoKeychar(ev.Rawcode); name != "" {
		return strings.ToLower(name)
	}
	if ev.Keychar > 0 && ev.Keychar != charUndefined {
		return strings.ToLower(string(ev.Keychar))
	}
	return ""
}
