// Package main - analyzer.go
//
// Token scanning for the Blum drop game.
//
// Key responsibilities:
//   - Coarse grid sampling of one half of the captured window
//   - Pixel classification into collectible / freeze / hazard by RGB band
//   - Hazard exclusion: tokens close to an already sampled bomb are skipped
//   - Dispatching a click on the first safe token
//   - Running the four per-iteration scans concurrently
package main

import (
	"fmt"
	"image"
	"sync"
)

// TokenScanner finds and clicks tokens in a captured buffer.
//
// Sampling is column-major: x in the outer loop, y in the inner loop, so
// with a fixed buffer the first match in that order is always the one acted on.
type TokenScanner struct {
	palette Palette
	action  *Action
	rng     RandomSource
	stats   *Statistics
}

// NewTokenScanner creates a scanner using the default palette
func NewTokenScanner(action *Action, rng RandomSource, stats *Statistics) *TokenScanner {
	return &TokenScanner{
		palette: DefaultPalette(),
		action:  action,
		rng:     rng,
		stats:   stats,
	}
}

// Scan samples one side of img for tokens of the given kind and clicks the
// first one that is not near a hazard. region is the absolute screen area
// img was captured from. It reports whether a click was dispatched.
func (s *TokenScanner) Scan(img *image.RGBA, region Bounds, side Side, kind TokenKind) (bool, error) {
	if kind == TokenFreeze && s.rng.Float64() >= FreezeScanChance {
		return false, nil
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	xStart, xEnd := side.Columns(width)
	yStart, yEnd := int(float64(height)*UpperBandFraction), height

	// Occasionally look at the upper band for tokens that just spawned
	if kind == TokenCollectible && s.rng.Float64() < UpperBandChance {
		yStart, yEnd = 0, int(float64(height)*UpperBandFraction)
	}

	token := s.palette.For(kind)
	var hazards []Point

	for x := xStart; x < xEnd; x += SampleStep {
		for y := yStart; y < yEnd; y += SampleStep {
			c, ok := colorAt(img, x, y)
			if !ok {
				continue
			}

			if s.palette.Hazard.Contains(c) {
				hazards = append(hazards, Point{X: x, Y: y})
				continue
			}

			local := Point{X: x, Y: y}
			if !token.Contains(c) || isNearHazard(local, hazards, HazardRadius) {
				continue
			}

			target := region.Origin().Add(local)
			if err := s.action.ClickAt(target, 0); err != nil {
				return false, fmt.Errorf("%s %s scan: %w", kind, side, err)
			}
			if s.stats != nil {
				s.stats.AddToken(kind)
			}
			LogDebug("Clicked %s token at %d,%d (%s side, %d hazards seen)",
				kind, target.X, target.Y, side, len(hazards))

			if kind == TokenCollectible {
				s.action.WaitUniform(CollectibleClickMin, CollectibleClickMax)
			}
			return true, nil
		}
	}

	return false, nil
}

// isNearHazard reports whether p lies strictly within radius of any hazard
func isNearHazard(p Point, hazards []Point, radius float64) bool {
	for _, h := range hazards {
		if p.Distance(h) < radius {
			return true
		}
	}
	return false
}

// ScanAll runs the collectible and freeze scans on both halves concurrently
// and waits for all of them. It returns the first error, if any.
func (s *TokenScanner) ScanAll(img *image.RGBA, region Bounds) (int, error) {
	type job struct {
		side Side
		kind TokenKind
	}
	jobs := []job{
		{SideLeft, TokenCollectible},
		{SideRight, TokenCollectible},
		{SideLeft, TokenFreeze},
		{SideRight, TokenFreeze},
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		clicks   int
		firstErr error
	)

	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			acted, err := s.recoverScan(img, region, j.side, j.kind)

			mu.Lock()
			defer mu.Unlock()
			if acted {
				clicks++
			}
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}(j)
	}

	wg.Wait()
	return clicks, firstErr
}

// recoverScan runs Scan and reports a panic in it as an error, so the loop
// boundary sees it like any other iteration failure.
func (s *TokenScanner) recoverScan(img *image.RGBA, region Bounds, side Side, kind TokenKind) (acted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			LogError("Panic in %s scan (%s): %v", kind, side, r)
			acted, err = false, fmt.Errorf("%s scan (%s) panicked: %v", kind, side, r)
		}
	}()
	return s.Scan(img, region, side, kind)
}

// Sample is one classified grid point
type Sample struct {
	Point Point
	Class SampleClass
}

// Classify returns every grid sample of img with its class, walking the
// whole buffer in scan order. No input is dispatched.
func (s *TokenScanner) Classify(img *image.RGBA) []Sample {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	var samples []Sample
	for x := 0; x < width; x += SampleStep {
		for y := 0; y < height; y += SampleStep {
			c, _ := colorAt(img, x, y)
			samples = append(samples, Sample{
				Point: Point{X: x, Y: y},
				Class: s.palette.Classify(c),
			})
		}
	}
	return samples
}
