// Package main - data.go
//
// This file defines core data structures used throughout the clicker.
// It provides geometric primitives, colour ranges, automation state,
// configuration, and statistics.
//
// Major Data Categories:
//
// 1. Geometric Types:
//    - Point: 2D coordinates with distance calculations
//    - Bounds: Screen region of the tracked window (absolute coordinates)
//    - Side: Left/right half of a captured buffer
//
// 2. Colour Classification:
//    - Color: Exact RGB triple
//    - ColorRange: Inclusive per-channel RGB band
//    - Palette: The three bands the scanner classifies against
//
// 3. Automation State:
//    - AutomationState: paused flag and replay counter (process lifetime)
//
// 4. Configuration:
//    - Config: Hotkeys, replay limit, platform selection, browser settings
//    - PersistentData: Container for config + cookies (saved to config.json)
//    - CookieData: Browser cookie representation
//
// 5. Statistics:
//    - Statistics: Click/replay/reload counters and uptime
//
// Thread Safety:
// AutomationState, Config and Statistics use mutexes for concurrent access.
// All other types are value types and should be copied when shared.
package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"time"
)

// Point represents a 2D coordinate, either local to a buffer or absolute on screen.
type Point struct {
	X int
	Y int
}

// Add returns the point translated by another point
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Distance calculates Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Bounds represents a rectangular area on screen
type Bounds struct {
	X int // Top-left X coordinate
	Y int // Top-left Y coordinate
	W int // Width
	H int // Height
}

// NewBounds creates a new Bounds
func NewBounds(x, y, w, h int) Bounds {
	return Bounds{X: x, Y: y, W: w, H: h}
}

// Origin returns the top-left corner
func (b Bounds) Origin() Point {
	return Point{X: b.X, Y: b.Y}
}

// Rect converts the bounds to an image.Rectangle in screen space
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Empty reports whether the bounds cover no pixels
func (b Bounds) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

func (b Bounds) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.W, b.H)
}

// Side selects a horizontal half of the captured buffer
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Columns returns the [start, end) x range of this side for a buffer of the given width
func (s Side) Columns(width int) (int, int) {
	if s == SideRight {
		return width / 2, width
	}
	return 0, width / 2
}

// TokenKind is the type of collectible a scan looks for
type TokenKind int

const (
	TokenCollectible TokenKind = iota // Green tokens
	TokenFreeze                       // Blue freeze tokens
)

func (k TokenKind) String() string {
	if k == TokenFreeze {
		return "freeze"
	}
	return "collectible"
}

// SampleClass is the classification of a single sampled pixel
type SampleClass int

const (
	SampleNone SampleClass = iota
	SampleHazard
	SampleCollectible
	SampleFreeze
)

// Color represents an RGB color
type Color struct {
	R uint8
	G uint8
	B uint8
}

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// RGBA converts to color.RGBA with full opacity
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ColorRange is an inclusive RGB band
type ColorRange struct {
	RMin, RMax uint8
	GMin, GMax uint8
	BMin, BMax uint8
}

// Contains reports whether c falls inside the band on all three channels
func (r ColorRange) Contains(c Color) bool {
	return c.R >= r.RMin && c.R <= r.RMax &&
		c.G >= r.GMin && c.G <= r.GMax &&
		c.B >= r.BMin && c.B <= r.BMax
}

// Palette holds the colour bands the scanner classifies sampled pixels against
type Palette struct {
	Collectible ColorRange
	Freeze      ColorRange
	Hazard      ColorRange
}

// DefaultPalette returns the bands matching the game's current theme
func DefaultPalette() Palette {
	return Palette{
		Collectible: CollectibleRange,
		Freeze:      FreezeRange,
		Hazard:      HazardRange,
	}
}

// For returns the token band for the given kind
func (p Palette) For(kind TokenKind) ColorRange {
	if kind == TokenFreeze {
		return p.Freeze
	}
	return p.Collectible
}

// Classify returns the class of c. Hazard is checked first.
func (p Palette) Classify(c Color) SampleClass {
	switch {
	case p.Hazard.Contains(c):
		return SampleHazard
	case p.Collectible.Contains(c):
		return SampleCollectible
	case p.Freeze.Contains(c):
		return SampleFreeze
	}
	return SampleNone
}

// colorAt reads the pixel at local coordinates (x, y), relative to the
// buffer's own origin. ok is false outside the buffer.
func colorAt(img *image.RGBA, x, y int) (Color, bool) {
	b := img.Bounds()
	px, py := b.Min.X+x, b.Min.Y+y
	if x < 0 || y < 0 || px >= b.Max.X || py >= b.Max.Y {
		return Color{}, false
	}
	c := img.RGBAAt(px, py)
	return Color{R: c.R, G: c.G, B: c.B}, true
}

// proportionalPoint maps fractional coordinates onto a buffer of size w x h.
// ceil selects rounding up instead of truncation.
func proportionalPoint(w, h int, fx, fy float64, ceil bool) Point {
	x := float64(w) * fx
	y := float64(h) * fy
	if ceil {
		return Point{X: int(math.Ceil(x)), Y: int(math.Ceil(y))}
	}
	return Point{X: int(x), Y: int(y)}
}

// AutomationState is the only state that survives between loop iterations.
//
// paused is mutated by the InputMonitor, replays by the StateDetector.
// The clicker starts paused and waits for the start hotkey.
type AutomationState struct {
	paused  bool
	replays int
	mu      sync.Mutex
}

// NewAutomationState creates the initial (paused) state
func NewAutomationState() *AutomationState {
	return &AutomationState{paused: true}
}

// Paused returns the current paused flag
func (s *AutomationState) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetPaused sets the paused flag
func (s *AutomationState) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

// TogglePaused flips the paused flag and returns the new value
func (s *AutomationState) TogglePaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	return s.paused
}

// Replays returns how many replays have been started
func (s *AutomationState) Replays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replays
}

// IncrementReplays bumps the replay counter and returns the new value
func (s *AutomationState) IncrementReplays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replays++
	return s.replays
}

// Platform names accepted in Config.Platform
const (
	PlatformDesktop = "desktop"
	PlatformBrowser = "browser"
)

// Config holds clicker configuration
type Config struct {
	StartHotkey  string `json:"start_hotkey"`
	ToggleHotkey string `json:"toggle_hotkey"`

	// Replays is the ceiling of automatic replays; reaching it ends the process
	Replays int `json:"replays"`
	// ReplayDelay is the base wait in seconds before clicking the replay button
	ReplayDelay int `json:"replay_delay"`

	Language string `json:"language"`

	// Platform selects how the game is driven: "desktop" or "browser"
	Platform    string   `json:"platform"`
	WindowNames []string `json:"window_names"` // Process names tried in order (desktop)

	BrowserURL    string `json:"browser_url"`
	BrowserWidth  int    `json:"browser_width"`
	BrowserHeight int    `json:"browser_height"`
	// BrowserFrame is the CSS selector of the mini app frame; the viewport is used when it is absent
	BrowserFrame string `json:"browser_frame"`

	// IdleInterval is how long the loop sleeps between polls while paused (ms)
	IdleInterval int `json:"idle_interval_ms"`

	mu sync.RWMutex
}

// NewConfig creates default configuration
func NewConfig() *Config {
	return &Config{
		StartHotkey:   "s",
		ToggleHotkey:  "p",
		Replays:       10,
		ReplayDelay:   2,
		Language:      "en",
		Platform:      PlatformDesktop,
		WindowNames:   []string{"Telegram", "TelegramDesktop", "AyuGram", "Kotatogram"},
		BrowserURL:    "https://web.telegram.org/k/",
		BrowserWidth:  1024,
		BrowserHeight: 768,
		BrowserFrame:  "iframe",
		IdleInterval:  10,
	}
}

// Hotkeys safely returns the start and toggle hotkeys
func (c *Config) Hotkeys() (start, toggle string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.StartHotkey, c.ToggleHotkey
}

// ReplayLimit safely returns the replay ceiling
func (c *Config) ReplayLimit() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Replays
}

// SetReplayLimit safely sets the replay ceiling
func (c *Config) SetReplayLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Replays = n
}

// ReplayDelaySeconds safely returns the base replay delay
func (c *Config) ReplayDelaySeconds() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ReplayDelay
}

// Validate fills zero values with defaults and rejects unknown platforms
func (c *Config) Validate() error {
	def := NewConfig()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.StartHotkey == "" {
		c.StartHotkey = def.StartHotkey
	}
	if c.ToggleHotkey == "" {
		c.ToggleHotkey = def.ToggleHotkey
	}
	if c.Replays < 0 {
		return fmt.Errorf("replays must not be negative, got %d", c.Replays)
	}
	if c.ReplayDelay < 0 {
		return fmt.Errorf("replay_delay must not be negative, got %d", c.ReplayDelay)
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.Platform == "" {
		c.Platform = def.Platform
	}
	if c.Platform != PlatformDesktop && c.Platform != PlatformBrowser {
		return fmt.Errorf("unknown platform %q", c.Platform)
	}
	if len(c.WindowNames) == 0 {
		c.WindowNames = def.WindowNames
	}
	if c.BrowserURL == "" {
		c.BrowserURL = def.BrowserURL
	}
	if c.BrowserWidth <= 0 || c.BrowserHeight <= 0 {
		c.BrowserWidth, c.BrowserHeight = def.BrowserWidth, def.BrowserHeight
	}
	if c.IdleInterval < 0 {
		c.IdleInterval = def.IdleInterval
	}
	return nil
}

// PersistentData holds all data that should be saved
type PersistentData struct {
	Config  *Config      `json:"config"`
	Cookies []CookieData `json:"cookies"`
}

// CookieData represents a browser cookie
type CookieData struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// NewPersistentData creates a new persistent data structure
func NewPersistentData() *PersistentData {
	return &PersistentData{
		Config:  NewConfig(),
		Cookies: make([]CookieData, 0),
	}
}

// Statistics holds runtime counters
type Statistics struct {
	StartTime    time.Time
	Collectibles int
	Freezes      int
	Replays      int
	Reloads      int
	LastAction   time.Time
	mu           sync.RWMutex
}

// NewStatistics creates new statistics
func NewStatistics() *Statistics {
	return &Statistics{
		StartTime: time.Now(),
	}
}

// AddToken records a clicked token of the given kind
func (s *Statistics) AddToken(kind TokenKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == TokenFreeze {
		s.Freezes++
	} else {
		s.Collectibles++
	}
	s.LastAction = time.Now()
}

// AddReplay records a replay click
func (s *Statistics) AddReplay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Replays++
	s.LastAction = time.Now()
}

// AddReload records a reload key press
func (s *Statistics) AddReload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reloads++
	s.LastAction = time.Now()
}

// SinceLastAction returns the time since the last click or key press, or
// since the session start when nothing has been done yet
func (s *Statistics) SinceLastAction() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastAction.IsZero() {
		return time.Since(s.StartTime)
	}
	return time.Since(s.LastAction)
}

// ClicksPerMinute calculates token clicks per minute
func (s *Statistics) ClicksPerMinute() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elapsed := time.Since(s.StartTime).Minutes()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.Collectibles+s.Freezes) / elapsed
}

// Summary returns a one-line description of the counters
func (s *Statistics) Summary() string {
	cpm := s.ClicksPerMinute()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("tokens %d | freeze %d | replays %d | reloads %d | %.1f/min | up %s",
		s.Collectibles, s.Freezes, s.Replays, s.Reloads, cpm, FormatDuration(time.Since(s.StartTime)))
}
