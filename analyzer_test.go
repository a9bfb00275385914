package main

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// 200x200 frame: the lower band starts at y=50, the left half is x<100.

func newTestScanner(p Platform, rng RandomSource) (*TokenScanner, *sleepRecorder, *Statistics) {
	action, rec := newTestAction(p, rng)
	stats := NewStatistics()
	return NewTokenScanner(action, rng, stats), rec, stats
}

func TestScanEmptyFrameNeverClicks(t *testing.T) {
	img := newFrame(200, 200)
	p := newFakePlatform(img, NewBounds(0, 0, 200, 200))

	for _, f := range []float64{0.01, 0.1, 0.5} {
		scanner, _, _ := newTestScanner(p, fixedRand{f: f})
		for i := 0; i < 20; i++ {
			for _, side := range []Side{SideLeft, SideRight} {
				for _, kind := range []TokenKind{TokenCollectible, TokenFreeze} {
					acted, err := scanner.Scan(img, p.region, side, kind)
					if err != nil {
						t.Fatalf("Scan: %v", err)
					}
					if acted {
						t.Fatalf("Scan(%s, %s) acted on an empty frame", side, kind)
					}
				}
			}
		}
	}

	if n := len(p.clickList()); n != 0 {
		t.Errorf("got %d clicks, want 0", n)
	}
}

func TestScanClicksAtRegionOffset(t *testing.T) {
	img := newFrame(200, 200)
	setPixel(img, Point{X: 40, Y: 110}, collectibleColor)
	p := newFakePlatform(img, NewBounds(1000, 500, 200, 200))
	scanner, rec, stats := newTestScanner(p, fixedRand{f: 0.5})

	acted, err := scanner.Scan(img, p.region, SideLeft, TokenCollectible)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !acted {
		t.Fatal("expected a click")
	}

	clicks := p.clickList()
	want := Point{X: 1040, Y: 610}
	if len(clicks) != 1 || clicks[0] != want {
		t.Errorf("clicks = %v, want [%v]", clicks, want)
	}
	if stats.Collectibles != 1 {
		t.Errorf("Collectibles = %d, want 1", stats.Collectibles)
	}

	sleeps := rec.list()
	if len(sleeps) != 1 || sleeps[0] != 60*time.Millisecond {
		t.Errorf("sleeps = %v, want [60ms]", sleeps)
	}
}

func TestScanOnlyLooksAtItsSide(t *testing.T) {
	img := newFrame(200, 200)
	setPixel(img, Point{X: 120, Y: 110}, collectibleColor)
	p := newFakePlatform(img, NewBounds(0, 0, 200, 200))
	scanner, _, _ := newTestScanner(p, fixedRand{f: 0.5})

	if acted, _ := scanner.Scan(img, p.region, SideLeft, TokenCollectible); acted {
		t.Error("left scan clicked a token on the right half")
	}
	if acted, _ := scanner.Scan(img, p.region, SideRight, TokenCollectible); !acted {
		t.Error("right scan missed a token on the right half")
	}
}

func TestScanSkipsTokensNearHazard(t *testing.T) {
	img := newFrame(200, 200)
	near := Point{X: 20, Y: 70} // 28.28 from the hazard
	far := Point{X: 40, Y: 50}  // 40 from the hazard
	setPixel(img, near, collectibleColor)
	setPixel(img, far, collectibleColor)

	t.Run("without hazard the first token wins", func(t *testing.T) {
		p := newFakePlatform(img, NewBounds(0, 0, 200, 200))
		scanner, _, _ := newTestScanner(p, fixedRand{f: 0.5})
		if _, err := scanner.Scan(img, p.region, SideLeft, TokenCollectible); err != nil {
			t.Fatal(err)
		}
		if clicks := p.clickList(); len(clicks) != 1 || clicks[0] != near {
			t.Errorf("clicks = %v, want [%v]", clicks, near)
		}
	})

	withHazard := newFrame(200, 200)
	copy(withHazard.Pix, img.Pix)
	setPixel(withHazard, Point{X: 0, Y: 50}, hazardColor)

	t.Run("hazard excludes the near token", func(t *testing.T) {
		p := newFakePlatform(withHazard, NewBounds(0, 0, 200, 200))
		scanner, _, _ := newTestScanner(p, fixedRand{f: 0.5})
		if _, err := scanner.Scan(withHazard, p.region, SideLeft, TokenCollectible); err != nil {
			t.Fatal(err)
		}
		if clicks := p.clickList(); len(clicks) != 1 || clicks[0] != far {
			t.Errorf("clicks = %v, want [%v]", clicks, far)
		}
	})
}

func TestIsNearHazard(t *testing.T) {
	hazards := []Point{{X: 0, Y: 0}}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{X: 29, Y: 0}, true},
		{Point{X: 30, Y: 0}, false},
		{Point{X: 31, Y: 0}, false},
		{Point{X: 20, Y: 20}, true},
	}
	for _, tt := range tests {
		if got := isNearHazard(tt.p, hazards, HazardRadius); got != tt.want {
			t.Errorf("isNearHazard(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if isNearHazard(Point{}, nil, HazardRadius) {
		t.Error("no hazards must never exclude")
	}
}

func TestScanHazardTakesPrecedence(t *testing.T) {
	img := newFrame(200, 200)
	ambiguous := NewColor(120, 230, 50)
	setPixel(img, Point{X: 20, Y: 50}, ambiguous)
	setPixel(img, Point{X: 80, Y: 150}, collectibleColor)

	p := newFakePlatform(img, NewBounds(0, 0, 200, 200))
	scanner, _, _ := newTestScanner(p, fixedRand{f: 0.5})
	scanner.palette.Hazard = ColorRange{RMin: 100, RMax: 149, GMin: 200, GMax: 255, BMin: 0, BMax: 99}

	if !scanner.palette.Collectible.Contains(ambiguous) || !scanner.palette.Hazard.Contains(ambiguous) {
		t.Fatal("test colour must match both bands")
	}

	if _, err := scanner.Scan(img, p.region, SideLeft, TokenCollectible); err != nil {
		t.Fatal(err)
	}
	want := Point{X: 80, Y: 150}
	if clicks := p.clickList(); len(clicks) != 1 || clicks[0] != want {
		t.Errorf("clicks = %v, want [%v]", clicks, want)
	}
}

func TestScanFreezeGate(t *testing.T) {
	img := newFrame(200, 200)
	setPixel(img, Point{X: 0, Y: 50}, freezeColor)

	p := newFakePlatform(img, NewBounds(0, 0, 200, 200))
	scanner, _, _ := newTestScanner(p, fixedRand{f: 0.5})
	if acted, _ := scanner.Scan(img, p.region, SideLeft, TokenFreeze); acted {
		t.Error("freeze scan ran although the gate draw was above 0.15")
	}

	scanner, rec, stats := newTestScanner(p, fixedRand{f: 0.1})
	if acted, _ := scanner.Scan(img, p.region, SideLeft, TokenFreeze); !acted {
		t.Fatal("freeze scan should click when the gate passes")
	}
	if len(rec.list()) != 0 {
		t.Errorf("freeze click must not wait, got %v", rec.list())
	}
	if stats.Freezes != 1 {
		t.Errorf("Freezes = %d, want 1", stats.Freezes)
	}
}

func TestScanUpperBand(t *testing.T) {
	img := newFrame(200, 200)
	setPixel(img, Point{X: 0, Y: 20}, collectibleColor)

	p := newFakePlatform(img, NewBounds(0, 0, 200, 200))
	scanner, _, _ := newTestScanner(p, fixedRand{f: 0.5})
	if acted, _ := scanner.Scan(img, p.region, SideLeft, TokenCollectible); acted {
		t.Error("upper band scanned without winning the draw")
	}

	scanner, _, _ = newTestScanner(p, fixedRand{f: 0.01})
	if acted, _ := scanner.Scan(img, p.region, SideLeft, TokenCollectible); !acted {
		t.Error("upper band should be scanned when the draw is below 0.03")
	}
}

func TestScanAllRunsFourScans(t *testing.T) {
	img := newFrame(200, 200)
	setPixel(img, Point{X: 0, Y: 50}, collectibleColor)
	setPixel(img, Point{X: 100, Y: 50}, collectibleColor)
	setPixel(img, Point{X: 60, Y: 150}, freezeColor)
	setPixel(img, Point{X: 160, Y: 150}, freezeColor)

	p := newFakePlatform(img, NewBounds(0, 0, 200, 200))
	scanner, _, stats := newTestScanner(p, fixedRand{f: 0.1})

	clicks, err := scanner.ScanAll(img, p.region)
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if clicks != 4 {
		t.Errorf("clicks = %d, want 4", clicks)
	}
	if stats.Collectibles != 2 || stats.Freezes != 2 {
		t.Errorf("stats = %d collectibles, %d freezes, want 2 and 2", stats.Collectibles, stats.Freezes)
	}
	if len(p.clickList()) != 4 {
		t.Errorf("platform saw %d clicks, want 4", len(p.clickList()))
	}
}

func TestScanAllReturnsPlatformError(t *testing.T) {
	img := newFrame(200, 200)
	setPixel(img, Point{X: 0, Y: 50}, collectibleColor)

	p := newFakePlatform(img, NewBounds(0, 0, 200, 200))
	p.clickErr = errFake
	scanner, _, _ := newTestScanner(p, fixedRand{f: 0.5})

	_, err := scanner.ScanAll(img, p.region)
	if !errors.Is(err, errFake) {
		t.Errorf("ScanAll error = %v, want %v", err, errFake)
	}
}

// panicPlatform panics on every click
type panicPlatform struct {
	*fakePlatform
}

func (panicPlatform) Click() error {
	panic("input backend crashed")
}

func TestScanAllRecoversPanic(t *testing.T) {
	img := newFrame(200, 200)
	setPixel(img, Point{X: 0, Y: 50}, collectibleColor)
	setPixel(img, Point{X: 100, Y: 50}, collectibleColor)

	p := newFakePlatform(img, NewBounds(0, 0, 200, 200))
	scanner, _, stats := newTestScanner(panicPlatform{p}, fixedRand{f: 0.5})

	clicks, err := scanner.ScanAll(img, p.region)
	if err == nil || !strings.Contains(err.Error(), "input backend crashed") {
		t.Fatalf("ScanAll error = %v, want the panic value", err)
	}
	if clicks != 0 || stats.Collectibles != 0 {
		t.Errorf("clicks %d, collectibles %d, want 0", clicks, stats.Collectibles)
	}
}

func TestClassify(t *testing.T) {
	img := newFrame(100, 100)
	setPixel(img, Point{X: 0, Y: 0}, collectibleColor)
	setPixel(img, Point{X: 20, Y: 40}, freezeColor)
	setPixel(img, Point{X: 80, Y: 80}, hazardColor)
	setPixel(img, Point{X: 5, Y: 5}, hazardColor) // off the grid

	p := newFakePlatform(img, NewBounds(0, 0, 100, 100))
	scanner, _, _ := newTestScanner(p, fixedRand{})
	samples := scanner.Classify(img)

	if len(samples) != 25 {
		t.Fatalf("got %d samples, want 25", len(samples))
	}
	counts := map[SampleClass]int{}
	for _, s := range samples {
		counts[s.Class]++
	}
	if counts[SampleCollectible] != 1 || counts[SampleFreeze] != 1 || counts[SampleHazard] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if len(p.clickList()) != 0 {
		t.Error("Classify must not dispatch input")
	}
}
