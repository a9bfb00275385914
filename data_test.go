package main

import (
	"image"
	"math"
	"strings"
	"testing"
	"time"
)

func TestPointDistance(t *testing.T) {
	d := Point{X: 0, Y: 0}.Distance(Point{X: 20, Y: 20})
	if math.Abs(d-28.2842712) > 1e-6 {
		t.Errorf("Distance = %v", d)
	}
	if got := (Point{X: 1, Y: 2}).Add(Point{X: 10, Y: 20}); got != (Point{X: 11, Y: 22}) {
		t.Errorf("Add = %v", got)
	}
}

func TestBounds(t *testing.T) {
	b := NewBounds(10, 20, 30, 40)
	if b.Rect() != image.Rect(10, 20, 40, 60) {
		t.Errorf("Rect = %v", b.Rect())
	}
	if b.Origin() != (Point{X: 10, Y: 20}) {
		t.Errorf("Origin = %v", b.Origin())
	}
	if b.Empty() || !NewBounds(5, 5, 0, 10).Empty() {
		t.Error("Empty is wrong")
	}
}

func TestSideColumns(t *testing.T) {
	tests := []struct {
		side       Side
		width      int
		start, end int
	}{
		{SideLeft, 200, 0, 100},
		{SideRight, 200, 100, 200},
		{SideLeft, 201, 0, 100},
		{SideRight, 201, 100, 201},
	}
	for _, tt := range tests {
		start, end := tt.side.Columns(tt.width)
		if start != tt.start || end != tt.end {
			t.Errorf("%s.Columns(%d) = [%d, %d), want [%d, %d)", tt.side, tt.width, start, end, tt.start, tt.end)
		}
	}
}

func TestColorRangeBoundsAreInclusive(t *testing.T) {
	r := CollectibleRange
	for _, c := range []Color{
		NewColor(100, 210, 0),
		NewColor(180, 255, 99),
	} {
		if !r.Contains(c) {
			t.Errorf("%v should be inside", c)
		}
	}
	for _, c := range []Color{
		NewColor(99, 230, 50),
		NewColor(181, 230, 50),
		NewColor(150, 209, 50),
		NewColor(150, 230, 100),
	} {
		if r.Contains(c) {
			t.Errorf("%v should be outside", c)
		}
	}
}

func TestPaletteClassify(t *testing.T) {
	p := DefaultPalette()
	tests := []struct {
		c    Color
		want SampleClass
	}{
		{collectibleColor, SampleCollectible},
		{freezeColor, SampleFreeze},
		{hazardColor, SampleHazard},
		{NewColor(0, 0, 0), SampleNone},
		{NewColor(255, 255, 255), SampleNone},
	}
	for _, tt := range tests {
		if got := p.Classify(tt.c); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}

	// overlapping bands resolve to hazard
	p.Hazard = p.Collectible
	if got := p.Classify(collectibleColor); got != SampleHazard {
		t.Errorf("overlap classified as %v, want hazard", got)
	}
}

func TestColorAtIsRelativeToOrigin(t *testing.T) {
	full := newFrame(100, 100)
	setPixel(full, Point{X: 60, Y: 70}, freezeColor)
	sub := full.SubImage(image.Rect(50, 50, 100, 100)).(*image.RGBA)

	c, ok := colorAt(sub, 10, 20)
	if !ok || c != freezeColor {
		t.Errorf("colorAt = %v, %v; want %v", c, ok, freezeColor)
	}
	for _, p := range []Point{{X: -1, Y: 0}, {X: 50, Y: 0}, {X: 0, Y: 50}} {
		if _, ok := colorAt(sub, p.X, p.Y); ok {
			t.Errorf("colorAt(%v) should be out of bounds", p)
		}
	}
}

func TestProportionalPoint(t *testing.T) {
	if got := proportionalPoint(400, 300, ReloadButtonX, ReloadButtonY, true); got != (Point{X: 176, Y: 181}) {
		t.Errorf("ceil point = %v", got)
	}
	if got := proportionalPoint(401, 301, 0.5, 0.5, false); got != (Point{X: 200, Y: 150}) {
		t.Errorf("truncated point = %v", got)
	}
}

func TestAutomationState(t *testing.T) {
	s := NewAutomationState()
	if !s.Paused() {
		t.Fatal("state must start paused")
	}
	if s.TogglePaused() || !s.TogglePaused() {
		t.Error("TogglePaused should alternate")
	}
	if s.IncrementReplays() != 1 || s.IncrementReplays() != 2 || s.Replays() != 2 {
		t.Error("replay counter is wrong")
	}
}

func TestConfigValidate(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	start, toggle := c.Hotkeys()
	if start != "s" || toggle != "p" || c.Platform != PlatformDesktop || len(c.WindowNames) == 0 {
		t.Errorf("defaults not applied: %+v", c)
	}

	for name, c := range map[string]*Config{
		"negative replays": {Replays: -1},
		"negative delay":   {ReplayDelay: -1},
		"unknown platform": {Platform: "android"},
	} {
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestStatistics(t *testing.T) {
	s := NewStatistics()
	s.AddToken(TokenCollectible)
	s.AddToken(TokenCollectible)
	s.AddToken(TokenFreeze)
	s.AddReplay()
	s.AddReload()

	summary := s.Summary()
	for _, want := range []string{"tokens 2", "freeze 1", "replays 1", "reloads 1"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary %q lacks %q", summary, want)
		}
	}
}

func TestStatisticsSinceLastAction(t *testing.T) {
	s := NewStatistics()
	s.StartTime = time.Now().Add(-time.Hour)
	if d := s.SinceLastAction(); d < time.Hour {
		t.Errorf("SinceLastAction before any action = %v, want at least 1h", d)
	}

	s.AddReplay()
	if d := s.SinceLastAction(); d >= time.Minute {
		t.Errorf("SinceLastAction after a replay = %v", d)
	}
}
