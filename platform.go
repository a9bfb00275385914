// Package main - platform.go
//
// The Platform interface is everything the clicker needs from its
// environment: where the game window is, what it currently shows, and a
// way to move/click the pointer and tap keys.
//
// Implementations:
//   - Desktop (desktop.go): native window of a Telegram client, driven with
//     robotgo and captured with kbinani/screenshot
//   - Browser (browser.go): Telegram Web in a chromedp-controlled Chrome
package main

import (
	"errors"
	"image"
)

var (
	// ErrWindowNotFound is returned by FindWindow when no target window exists.
	ErrWindowNotFound = errors.New("target window not found")
	// ErrWindowLost is returned once a previously found window has gone away.
	ErrWindowLost = errors.New("target window lost")
	// ErrReplayLimitReached ends the process when the replay ceiling is hit.
	ErrReplayLimitReached = errors.New("replay limit reached")
)

// Window identifies the tracked game window
type Window struct {
	ID    int
	Title string
}

// Platform provides window discovery, capture and input injection.
type Platform interface {
	FindWindow() (*Window, error)
	ClientRect(w *Window) (Bounds, error)
	Capture(region Bounds) (*image.RGBA, error)
	Move(x, y int) error
	Click() error
	KeyTap(key string) error
	Close()
}
