// Package main - input.go
//
// The InputMonitor turns hotkey state into the paused/running flag.
//
// State Machine:
//   Paused  --start hotkey--> Running
//   Paused  --toggle hotkey-> Running
//   Running --toggle hotkey-> Paused
//
// Polling is level-triggered: the hotkeys are read on every loop iteration.
// After every transition the monitor sleeps for HotkeyDebounce, which is the
// only thing keeping one physical press from toggling several times.
package main

import "time"

// KeyState reports whether a key is currently held down
type KeyState interface {
	IsPressed(key string) bool
}

// InputMonitor polls hotkeys and owns transitions of AutomationState.paused
type InputMonitor struct {
	keys     KeyState
	config   *Config
	state    *AutomationState
	debounce time.Duration
	sleep    func(time.Duration)
	notify   func(paused bool, message string)
}

// NewInputMonitor creates a monitor reading hotkeys from config
func NewInputMonitor(keys KeyState, config *Config, state *AutomationState) *InputMonitor {
	return &InputMonitor{
		keys:     keys,
		config:   config,
		state:    state,
		debounce: HotkeyDebounce,
		sleep:    time.Sleep,
		notify: func(_ bool, message string) {
			LogInfo("%s", message)
		},
	}
}

// OnChange replaces the notification sink. The default logs at info level.
func (m *InputMonitor) OnChange(fn func(paused bool, message string)) {
	m.notify = fn
}

// Poll reads both hotkeys once, applies at most one transition and returns
// whether the clicker is paused afterwards.
func (m *InputMonitor) Poll() bool {
	start, toggle := m.config.Hotkeys()

	if m.state.Paused() && m.keys.IsPressed(start) {
		m.state.SetPaused(false)
		m.notify(false, T("PRESS_P_TO_PAUSE", toggle))
		m.sleep(m.debounce)
	} else if m.keys.IsPressed(toggle) {
		m.Toggle()
		m.sleep(m.debounce)
	}

	return m.state.Paused()
}

// Toggle flips the paused flag and emits the matching notification.
// Used by the toggle hotkey and the tray menu.
func (m *InputMonitor) Toggle() bool {
	paused := m.state.TogglePaused()
	if paused {
		m.notify(true, T("PROGRAM_PAUSED"))
	} else {
		m.notify(false, T("PROGRAM_RESUMED"))
	}
	return paused
}
