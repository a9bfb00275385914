// Package main - train.go
//
// Offline analysis mode for tuning detection against a saved screenshot.
// Loads a PNG, runs the token scanner and the state detector on it with
// input recorded instead of dispatched, draws the results, saves result.png.
//
// Usage:
//   1. Save a screenshot of the game window, e.g. shot.png
//   2. Run: blum-clicker -train shot.png [-out result.png]
//   3. Check result.png for visualization
//   4. Check Debug.log for detailed detection info
//
// Legend:
//   - Small squares: grid samples (red hazard, green collectible, blue freeze)
//   - Yellow box: click the scanner or replay check would dispatch
//   - Cyan box: reload probe points, magenta box: replay probe point
package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// trainRand makes every random gate pass deterministically: freeze scans
// always run, the upper band is never chosen, delays and jitter are minimal.
type trainRand struct{}

func (trainRand) Float64() float64 { return 0.1 }
func (trainRand) Intn(int) int     { return 0 }

// trainPlatform serves one image and records input
type trainPlatform struct {
	img    *image.RGBA
	mu     sync.Mutex
	cursor Point
	clicks []Point
	keys   []string
}

func (p *trainPlatform) FindWindow() (*Window, error) {
	return &Window{Title: "offline"}, nil
}

func (p *trainPlatform) ClientRect(*Window) (Bounds, error) {
	return NewBounds(0, 0, p.img.Bounds().Dx(), p.img.Bounds().Dy()), nil
}

func (p *trainPlatform) Capture(Bounds) (*image.RGBA, error) {
	return p.img, nil
}

func (p *trainPlatform) Move(x, y int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursor = Point{X: x, Y: y}
	return nil
}

func (p *trainPlatform) Click() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clicks = append(p.clicks, p.cursor)
	return nil
}

func (p *trainPlatform) KeyTap(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *trainPlatform) Close() {}

// TrainingMode runs offline detection on the screenshot at path and writes
// an annotated copy to outPath.
func TrainingMode(path, outPath string, config *Config) error {
	LogInfo("=== Training Mode Started ===")

	LogInfo("Loading %s...", path)
	img, err := loadPNG(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	LogInfo("Image loaded: %dx%d", img.Bounds().Dx(), img.Bounds().Dy())

	platform := &trainPlatform{img: img}
	result, err := analyzeFrame(platform, config)
	if err != nil {
		return err
	}

	LogInfo("Samples: %d hazard, %d collectible, %d freeze",
		result.count(SampleHazard), result.count(SampleCollectible), result.count(SampleFreeze))
	LogInfo("Token clicks: %d", result.tokenClicks)
	LogInfo("Replay screen: %v, reload screen: %v", result.replay, result.reload)
	for i, c := range platform.clicks {
		LogDebug("Click #%d at %d,%d", i+1, c.X, c.Y)
	}

	out := drawDetectionResults(img, result, platform.clicks)
	LogInfo("Saving visualization to %s...", outPath)
	if err := savePNG(outPath, out); err != nil {
		return fmt.Errorf("save %s: %w", outPath, err)
	}

	LogInfo("=== Training Mode Completed ===")
	return nil
}

// frameResult is what one analyzed frame produced
type frameResult struct {
	samples     []Sample
	tokenClicks int
	replay      bool
	replayLimit bool
	reload      bool
}

func (r *frameResult) count(class SampleClass) int {
	n := 0
	for _, s := range r.samples {
		if s.Class == class {
			n++
		}
	}
	return n
}

// analyzeFrame runs one loop iteration against platform with waits disabled
func analyzeFrame(platform *trainPlatform, config *Config) (*frameResult, error) {
	rng := trainRand{}
	stats := NewStatistics()
	action := NewAction(platform, rng)
	action.sleep = func(time.Duration) {}
	scanner := NewTokenScanner(action, rng, stats)
	detector := NewStateDetector(action, rng, NewAutomationState(), config, stats)

	window, _ := platform.FindWindow()
	region, _ := platform.ClientRect(window)
	img, _ := platform.Capture(region)

	result := &frameResult{samples: scanner.Classify(img)}

	var err error
	if result.tokenClicks, err = scanner.ScanAll(img, region); err != nil {
		return nil, err
	}

	result.replay, err = detector.DetectReplay(img, region)
	if errors.Is(err, ErrReplayLimitReached) {
		LogWarn("Replay screen found but the replay limit is %d", config.ReplayLimit())
		result.replayLimit = true
	} else if err != nil {
		return nil, err
	}

	if result.reload, err = detector.DetectReload(img); err != nil {
		return nil, err
	}
	return result, nil
}

// loadPNG loads a PNG image from file
func loadPNG(filename string) (*image.RGBA, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, err
	}

	// Normalize to a zero origin so offsets match a live capture
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return rgba, nil
}

// savePNG saves an image to PNG file
func savePNG(filename string, img image.Image) error {
	dir := filepath.Dir(filename)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

var sampleColors = map[SampleClass]color.RGBA{
	SampleHazard:      {R: 255, A: 255},
	SampleCollectible: {G: 255, A: 255},
	SampleFreeze:      {B: 255, A: 255},
}

// drawDetectionResults draws samples, clicks and probe points on a copy of img
func drawDetectionResults(img *image.RGBA, result *frameResult, clicks []Point) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, s := range result.samples {
		if col, ok := sampleColors[s.Class]; ok {
			drawRect(out, NewBounds(s.Point.X-2, s.Point.Y-2, 5, 5), col, 2)
		}
	}

	for _, c := range clicks {
		drawRect(out, NewBounds(c.X-8, c.Y-8, 17, 17), color.RGBA{R: 255, G: 255, A: 255}, 2)
	}

	w, h := bounds.Dx(), bounds.Dy()
	cyan := color.RGBA{G: 255, B: 255, A: 255}
	for _, p := range []Point{
		proportionalPoint(w, h, ReloadButtonX, ReloadButtonY, true),
		proportionalPoint(w, h, ReloadWhiteX, ReloadWhiteY, true),
	} {
		drawRect(out, NewBounds(p.X-4, p.Y-4, 9, 9), cyan, 1)
	}
	replay := proportionalPoint(w, h, ReplayButtonX, ReplayButtonY, false)
	drawRect(out, NewBounds(replay.X-4, replay.Y-4, 9, 9), color.RGBA{R: 255, B: 255, A: 255}, 1)

	return out
}

// drawRect draws a rectangle outline
func drawRect(img *image.RGBA, bounds Bounds, col color.RGBA, thickness int) {
	limits := img.Bounds()
	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(limits) {
			img.SetRGBA(x, y, col)
		}
	}

	for t := 0; t < thickness; t++ {
		for x := bounds.X; x < bounds.X+bounds.W; x++ {
			set(x, bounds.Y+t)
			set(x, bounds.Y+bounds.H-t-1)
		}
		for y := bounds.Y; y < bounds.Y+bounds.H; y++ {
			set(bounds.X+t, y)
			set(bounds.X+bounds.W-t-1, y)
		}
	}
}
