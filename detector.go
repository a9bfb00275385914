// Package main - detector.go
//
// Special screen detection. Both checks probe a few fixed pixels placed as
// fractions of the captured buffer size instead of scanning the grid.
//
//   - Reload screen: dark reload button plus a white panel pixel. Recovery
//     is a page reload key press.
//   - Replay screen: white "Play" button at the bottom of the results page.
//     Recovery is a jittered click, bounded by Config.Replays.
package main

import (
	"fmt"
	"image"
	"time"
)

// StateDetector recognises the reload and replay screens and recovers from them.
type StateDetector struct {
	action *Action
	rng    RandomSource
	state  *AutomationState
	config *Config
	stats  *Statistics
}

// NewStateDetector creates a detector bound to the shared automation state
func NewStateDetector(action *Action, rng RandomSource, state *AutomationState, config *Config, stats *Statistics) *StateDetector {
	return &StateDetector{
		action: action,
		rng:    rng,
		state:  state,
		config: config,
		stats:  stats,
	}
}

// DetectReload presses the reload key when both reload probes match exactly.
func (d *StateDetector) DetectReload(img *image.RGBA) (bool, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	button := proportionalPoint(w, h, ReloadButtonX, ReloadButtonY, true)
	white := proportionalPoint(w, h, ReloadWhiteX, ReloadWhiteY, true)

	if !probeMatches(img, button, ReloadButtonColor) || !probeMatches(img, white, ReloadWhiteColor) {
		return false, nil
	}

	LogInfo("%s", T("RELOAD_DETECTED"))
	d.action.Wait(ReloadWait)
	if err := d.action.Tap(ReloadKey); err != nil {
		return false, fmt.Errorf("reload: %w", err)
	}
	if d.stats != nil {
		d.stats.AddReload()
	}
	return true, nil
}

// DetectReplay clicks the replay button when it is visible. Once the replay
// counter has reached the configured ceiling it returns ErrReplayLimitReached
// instead of clicking.
func (d *StateDetector) DetectReplay(img *image.RGBA, region Bounds) (bool, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	local := proportionalPoint(w, h, ReplayButtonX, ReplayButtonY, false)

	if !probeMatches(img, local, ReplayButtonColor) {
		return false, nil
	}

	limit := d.config.ReplayLimit()
	done := d.state.Replays()
	if done >= limit {
		return false, fmt.Errorf("%d of %d: %w", done, limit, ErrReplayLimitReached)
	}

	LogDebug("Detected the replay button. Remaining replays: %d", limit-done)

	base := d.config.ReplayDelaySeconds()
	wait := time.Duration(base+d.rng.Intn(ReplayExtraMaxSec+1))*time.Second +
		time.Duration(d.rng.Float64()*float64(time.Second))
	d.action.Wait(wait)

	if err := d.action.ClickAt(region.Origin().Add(local), ReplayJitter); err != nil {
		return false, fmt.Errorf("replay: %w", err)
	}
	d.action.Wait(ReplaySettle)

	n := d.state.IncrementReplays()
	if d.stats != nil {
		d.stats.AddReplay()
	}
	LogInfo("%s", T("REPLAY_DETECTED", n, limit))
	return true, nil
}

// probeMatches reports whether the pixel at p exists and equals want exactly
func probeMatches(img *image.RGBA, p Point, want Color) bool {
	c, ok := colorAt(img, p.X, p.Y)
	return ok && c == want
}
