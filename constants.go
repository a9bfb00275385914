package main

import "time"

// Scanner sampling grid and bands.
const (
	SampleStep = 20

	// UpperBandFraction is the share of the window height taken by UI chrome.
	UpperBandFraction = 0.25

	// UpperBandChance is the per-call probability that a collectible scan
	// samples the upper band instead of the lower one.
	UpperBandChance = 0.03

	// FreezeScanChance gates each freeze scan call.
	FreezeScanChance = 0.15

	// HazardRadius is the exclusion distance around a sampled hazard.
	HazardRadius = 30.0
)

// Colour bands of the game tokens.
var (
	CollectibleRange = ColorRange{RMin: 100, RMax: 180, GMin: 210, GMax: 255, BMin: 0, BMax: 99}
	FreezeRange      = ColorRange{RMin: 50, RMax: 100, GMin: 150, GMax: 200, BMin: 210, BMax: 255}
	HazardRange      = ColorRange{RMin: 100, RMax: 150, GMin: 100, GMax: 150, BMin: 100, BMax: 150}
)

// Fixed probe points, as fractions of the captured buffer size.
const (
	ReloadButtonX = 0.43781
	ReloadButtonY = 0.60252
	ReloadWhiteX  = 0.24626
	ReloadWhiteY  = 0.429775

	ReplayButtonX = 0.3075
	ReplayButtonY = 0.87
)

// Expected probe colours.
var (
	ReloadButtonColor = NewColor(40, 40, 40)
	ReloadWhiteColor  = NewColor(255, 255, 255)
	ReplayButtonColor = NewColor(255, 255, 255)
)

// Input timings.
const (
	HotkeyDebounce = 200 * time.Millisecond

	CollectibleClickMin = 40 * time.Millisecond
	CollectibleClickMax = 80 * time.Millisecond

	ReloadWait        = 500 * time.Millisecond
	ReloadKey         = "f5"
	ReplaySettle      = time.Second
	ReplayExtraMaxSec = 3  // replay wait adds 0..3 whole seconds
	ReplayJitter      = 10 // replay click adds 1..10 px on each axis
)
