// Package main - desktop.go
//
// Desktop platform: drives a native Telegram client window.
//
//   - Window discovery: robotgo.FindIds over the configured process names,
//     first match wins
//   - Region: robotgo.GetBounds of the owning process window
//   - Capture: kbinani/screenshot.CaptureRect of that region
//   - Input: robotgo.Move / robotgo.Click / robotgo.KeyTap at absolute
//     screen coordinates
package main

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// Desktop implements Platform with native input and screen capture
type Desktop struct {
	names []string
}

// NewDesktop creates a desktop platform looking for the given process names
func NewDesktop(names []string) *Desktop {
	return &Desktop{names: names}
}

// FindWindow returns the first running process from the configured names
func (d *Desktop) FindWindow() (*Window, error) {
	for _, name := range d.names {
		ids, err := robotgo.FindIds(name)
		if err != nil {
			LogDebug("FindIds(%s) failed: %v", name, err)
			continue
		}
		for _, pid := range ids {
			x, y, w, h := robotgo.GetBounds(pid)
			if w <= 0 || h <= 0 {
				LogDebug("Process %s (%d) has no visible window", name, pid)
				continue
			}
			title := robotgo.GetTitle(pid)
			if title == "" {
				title = name
			}
			LogDebug("Found %s pid=%d at %d,%d %dx%d", name, pid, x, y, w, h)
			if err := robotgo.ActivePid(pid); err != nil {
				LogWarn("Could not activate window %s: %v", title, err)
			}
			return &Window{ID: pid, Title: title}, nil
		}
	}
	return nil, ErrWindowNotFound
}

// ClientRect returns the current window bounds in screen coordinates
func (d *Desktop) ClientRect(w *Window) (Bounds, error) {
	exists, err := robotgo.PidExists(w.ID)
	if err != nil {
		return Bounds{}, fmt.Errorf("check window %d: %w", w.ID, err)
	}
	if !exists {
		return Bounds{}, fmt.Errorf("%s: %w", w.Title, ErrWindowLost)
	}

	x, y, width, height := robotgo.GetBounds(w.ID)
	b := NewBounds(x, y, width, height)
	if b.Empty() {
		return Bounds{}, fmt.Errorf("%s has empty bounds %v: %w", w.Title, b, ErrWindowLost)
	}
	return b, nil
}

// Capture grabs the screen pixels under region
func (d *Desktop) Capture(region Bounds) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(region.Rect())
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", region, err)
	}
	return img, nil
}

// Move moves the pointer to absolute screen coordinates
func (d *Desktop) Move(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Click presses and releases the primary mouse button
func (d *Desktop) Click() error {
	robotgo.Click("left")
	return nil
}

// KeyTap presses and releases a key
func (d *Desktop) KeyTap(key string) error {
	return robotgo.KeyTap(key)
}

// Close is a no-op; the window belongs to the user
func (d *Desktop) Close() {}
