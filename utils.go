// Package main - utils.go
//
// Utility functions and helper structures used throughout the clicker.
//
// Major Components:
//
// 1. Performance Timing:
//    - Timer struct for measuring iteration duration
//
// 2. Randomness:
//    - RandomSource abstracts every random draw (upper-band scan, freeze
//      gate, click delays, replay jitter) so tests can force both branches
//    - lockedRand is the goroutine-safe production implementation
//
// 3. Utility Functions:
//    - FormatDuration: Converts duration to human-readable string (e.g., "2m 30s")
//    - SafeGo: Launches goroutines with panic recovery
package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Timer provides performance timing functionality
type Timer struct {
	name      string
	startTime time.Time
}

// NewTimer creates and starts a new timer with given name
func NewTimer(name string) *Timer {
	return &Timer{
		name:      name,
		startTime: time.Now(),
	}
}

// Elapsed returns the elapsed time since timer creation
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Log logs the elapsed time with the timer name
func (t *Timer) Log() {
	LogDebug("Timer [%s]: %v", t.name, t.Elapsed())
}

// FormatDuration formats a duration into human-readable string
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// SafeGo runs a function in a goroutine with panic recovery
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				LogError("Panic recovered in goroutine: %v", r)
			}
		}()
		fn()
	}()
}

// RandomSource is the subset of math/rand used by the clicker.
// Implementations must be safe for concurrent use.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

// lockedRand serializes access to a *rand.Rand
type lockedRand struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// NewRandomSource creates a goroutine-safe random source seeded from the clock
func NewRandomSource() RandomSource {
	return &lockedRand{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}
