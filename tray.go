// Package main - tray.go
//
// This file implements the optional system tray UI (-tray flag).
// Uses getlantern/systray library for cross-platform tray menu support.
//
// Menu Structure:
//   Blum Clicker
//   ├─ Status: Paused | replays | idle time (read-only, refreshed every second)
//   ├─ Pause / Resume (same transition as the toggle hotkey)
//   ├─ Replay Limit
//   │  ├─ 1
//   │  ├─ 3
//   │  ├─ 5
//   │  ├─ 10 (default)
//   │  ├─ 20
//   │  ├─ 50
//   │  └─ 100
//   └─ Quit (graceful shutdown)
//
// Lifecycle:
//   1. NewTrayApp: Create instance with bot reference and a quit callback
//   2. Run: Start systray (blocking call, must own the main goroutine)
//   3. onReady: Build menus, start the clicker loop in the background
//   4. When the loop returns the tray quits, which makes Run return.
//      Quit only stops the loop; the tray ends after the current iteration.
//
// Auto-Save:
// Changing the replay limit triggers an immediate SaveState().
package main

import (
	"fmt"
	"time"

	"github.com/getlantern/systray"
)

// replayLimitOptions are the values offered in the Replay Limit submenu
var replayLimitOptions = []int{1, 3, 5, 10, 20, 50, 100}

// TrayApp manages the system tray application and user interface.
type TrayApp struct {
	bot    *Bot
	onQuit func()
	loop   func()
	quit   func()
	done   chan struct{}

	statusItem  *systray.MenuItem
	pauseItem   *systray.MenuItem
	replayItems []*systray.MenuItem
	quitItem    *systray.MenuItem
}

// NewTrayApp creates a new tray application. onQuit is called when the user
// picks Quit and should stop the clicker loop.
func NewTrayApp(bot *Bot, onQuit func()) *TrayApp {
	return &TrayApp{
		bot:    bot,
		onQuit: onQuit,
		quit:   systray.Quit,
		done:   make(chan struct{}),
	}
}

// Run starts the tray and runs loop once the menu is ready.
// It blocks until loop returns or the user quits.
func (t *TrayApp) Run(loop func()) {
	LogInfo("Starting system tray application")
	t.loop = loop
	systray.Run(t.onReady, func() {
		close(t.done)
		LogInfo("System tray exit complete")
	})
}

// onReady is called when the tray is ready
func (t *TrayApp) onReady() {
	systray.SetTitle("Blum Clicker")
	systray.SetTooltip("Blum Clicker")

	t.statusItem = systray.AddMenuItem("Status: Starting...", "Current clicker status")
	t.statusItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem("Resume", "Pause or resume clicking")

	replayMenu := systray.AddMenuItem("Replay Limit", "Number of automatic replays")
	current := t.bot.config.ReplayLimit()
	for _, n := range replayLimitOptions {
		item := replayMenu.AddSubMenuItemCheckbox(fmt.Sprintf("%d", n), "", n == current)
		t.replayItems = append(t.replayItems, item)
	}

	systray.AddSeparator()

	t.quitItem = systray.AddMenuItem("Quit", "Quit the application")

	for i, n := range replayLimitOptions {
		item := t.replayItems[i]
		limit := n
		SafeGo(func() { t.handleReplayLimitClick(limit, item) })
	}
	SafeGo(t.handleEvents)
	SafeGo(t.refreshLoop)

	LogInfo("System tray initialized")

	SafeGo(t.runLoop)
}

// runLoop runs the clicker loop and ends the tray once it returns, so the
// platform is never shut down under a running iteration.
func (t *TrayApp) runLoop() {
	defer t.quit()
	t.loop()
}

// handleEvents handles pause and quit clicks
func (t *TrayApp) handleEvents() {
	for {
		select {
		case <-t.pauseItem.ClickedCh:
			t.bot.monitor.Toggle()
			t.UpdateStatus()
		case <-t.quitItem.ClickedCh:
			LogInfo("Quit requested by user")
			if t.onQuit != nil {
				t.onQuit()
			}
			return
		case <-t.done:
			return
		}
	}
}

// handleReplayLimitClick handles replay limit selection clicks (radio button)
func (t *TrayApp) handleReplayLimitClick(limit int, item *systray.MenuItem) {
	for {
		select {
		case <-item.ClickedCh:
		case <-t.done:
			return
		}

		t.bot.config.SetReplayLimit(limit)
		t.updateReplayCheckmarks()
		t.bot.SaveState()
		LogInfo("Updated replay limit to: %d", limit)
	}
}

// updateReplayCheckmarks updates replay limit checkmarks based on current config
func (t *TrayApp) updateReplayCheckmarks() {
	current := t.bot.config.ReplayLimit()
	for i, n := range replayLimitOptions {
		if n == current {
			t.replayItems[i].Check()
		} else {
			t.replayItems[i].Uncheck()
		}
	}
}

func (t *TrayApp) refreshLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		t.UpdateStatus()
		select {
		case <-ticker.C:
		case <-t.done:
			return
		}
	}
}

// UpdateStatus refreshes the status line, the pause item and the tooltip
func (t *TrayApp) UpdateStatus() {
	paused := t.bot.state.Paused()
	mode := "Running"
	if paused {
		mode = "Paused"
		t.pauseItem.SetTitle("Resume")
	} else {
		t.pauseItem.SetTitle("Pause")
	}

	t.statusItem.SetTitle(fmt.Sprintf("Status: %s | replays %d/%d | idle %s",
		mode, t.bot.state.Replays(), t.bot.config.ReplayLimit(),
		FormatDuration(t.bot.stats.SinceLastAction())))

	tooltip := t.bot.stats.Summary()
	if recent := t.bot.action.RecentActions(1); len(recent) > 0 {
		tooltip += "\nLast: " + recent[0].Message
	}
	systray.SetTooltip(tooltip)
}
