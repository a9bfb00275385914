// Package main - action.go
//
// This file implements the Action dispatcher that turns scanner and detector
// decisions into pointer and keyboard input on the active Platform.
//
// Key Responsibilities:
//   - Move-then-click at an absolute screen point, with optional pixel jitter
//   - Single key taps (reload)
//   - Randomized waits drawn from a uniform range
//   - Recent action log (last 10) for the tray tooltip and Debug.log
//
// Concurrency:
// The four token scans of an iteration run concurrently and share one
// pointer, so a move and its click are issued under a single lock.
package main

import (
	"fmt"
	"sync"
	"time"
)

// ActionLog represents a recorded input action.
type ActionLog struct {
	Message   string
	Timestamp time.Time
}

// Action dispatches input through a Platform.
type Action struct {
	platform Platform
	rng      RandomSource
	sleep    func(time.Duration)

	inputMu    sync.Mutex
	actionLogs []ActionLog
	logMutex   sync.RWMutex
}

// NewAction creates a new Action instance
func NewAction(platform Platform, rng RandomSource) *Action {
	return &Action{
		platform:   platform,
		rng:        rng,
		sleep:      time.Sleep,
		actionLogs: make([]ActionLog, 0, 10),
	}
}

// ClickAt moves the pointer to p and clicks the primary button.
// A positive jitter adds 1..jitter pixels on each axis.
func (a *Action) ClickAt(p Point, jitter int) error {
	if jitter > 0 {
		p.X += 1 + a.rng.Intn(jitter)
		p.Y += 1 + a.rng.Intn(jitter)
	}

	a.inputMu.Lock()
	defer a.inputMu.Unlock()

	if err := a.platform.Move(p.X, p.Y); err != nil {
		return fmt.Errorf("move to (%d, %d): %w", p.X, p.Y, err)
	}
	if err := a.platform.Click(); err != nil {
		return fmt.Errorf("click at (%d, %d): %w", p.X, p.Y, err)
	}

	a.logAction(fmt.Sprintf("Click (%d, %d)", p.X, p.Y))
	return nil
}

// Tap presses and releases a single key
func (a *Action) Tap(key string) error {
	a.inputMu.Lock()
	defer a.inputMu.Unlock()

	if err := a.platform.KeyTap(key); err != nil {
		return fmt.Errorf("key %s: %w", key, err)
	}

	a.logAction("Key " + key)
	return nil
}

// Wait waits for specified duration
func (a *Action) Wait(d time.Duration) {
	if d > 0 {
		a.sleep(d)
	}
}

// WaitUniform waits for a duration drawn uniformly from [min, max)
func (a *Action) WaitUniform(min, max time.Duration) {
	a.Wait(min + time.Duration(a.rng.Float64()*float64(max-min)))
}

func (a *Action) logAction(message string) {
	a.logMutex.Lock()
	defer a.logMutex.Unlock()

	a.actionLogs = append(a.actionLogs, ActionLog{
		Message:   message,
		Timestamp: time.Now(),
	})
	if len(a.actionLogs) > 10 {
		a.actionLogs = a.actionLogs[len(a.actionLogs)-10:]
	}
	LogDebug("Action: %s", message)
}

// RecentActions returns up to n most recent actions, oldest first
func (a *Action) RecentActions(n int) []ActionLog {
	a.logMutex.RLock()
	defer a.logMutex.RUnlock()

	if n > len(a.actionLogs) {
		n = len(a.actionLogs)
	}
	result := make([]ActionLog, n)
	copy(result, a.actionLogs[len(a.actionLogs)-n:])
	return result
}
