package main

import (
	"errors"
	"image"
	"sync"
	"time"
)

var errFake = errors.New("fake failure")

// fakePlatform serves a fixed frame and records input
type fakePlatform struct {
	mu sync.Mutex

	img    *image.RGBA
	region Bounds

	findErr    error
	rectErr    error
	captureErr error
	moveErr    error
	clickErr   error

	onCapture func(n int)

	cursor   Point
	moves    []Point
	clicks   []Point
	keys     []string
	captures int
	closed   bool
}

func newFakePlatform(img *image.RGBA, region Bounds) *fakePlatform {
	return &fakePlatform{img: img, region: region}
}

func (p *fakePlatform) FindWindow() (*Window, error) {
	if p.findErr != nil {
		return nil, p.findErr
	}
	return &Window{ID: 1, Title: "fake"}, nil
}

func (p *fakePlatform) ClientRect(*Window) (Bounds, error) {
	if p.rectErr != nil {
		return Bounds{}, p.rectErr
	}
	return p.region, nil
}

func (p *fakePlatform) Capture(Bounds) (*image.RGBA, error) {
	p.mu.Lock()
	p.captures++
	n := p.captures
	p.mu.Unlock()

	if p.onCapture != nil {
		p.onCapture(n)
	}
	if p.captureErr != nil {
		return nil, p.captureErr
	}
	return p.img, nil
}

func (p *fakePlatform) Move(x, y int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.moveErr != nil {
		return p.moveErr
	}
	p.cursor = Point{X: x, Y: y}
	p.moves = append(p.moves, p.cursor)
	return nil
}

func (p *fakePlatform) Click() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clickErr != nil {
		return p.clickErr
	}
	p.clicks = append(p.clicks, p.cursor)
	return nil
}

func (p *fakePlatform) KeyTap(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *fakePlatform) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *fakePlatform) clickList() []Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Point(nil), p.clicks...)
}

// fixedRand returns f from Float64 and min(n, max-1) from Intn
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }

func (r fixedRand) Intn(max int) int {
	if r.n >= max {
		return max - 1
	}
	return r.n
}

// keyFunc adapts a function to KeyState
type keyFunc func(key string) bool

func (f keyFunc) IsPressed(key string) bool { return f(key) }

// heldKeys reports the listed keys as permanently pressed
func heldKeys(keys ...string) KeyState {
	return keyFunc(func(key string) bool {
		for _, k := range keys {
			if k == key {
				return true
			}
		}
		return false
	})
}

// sleepRecorder collects requested sleeps without sleeping
type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
}

func (s *sleepRecorder) list() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.sleeps...)
}

// newTestAction creates an Action whose waits are recorded instead of slept
func newTestAction(p Platform, rng RandomSource) (*Action, *sleepRecorder) {
	rec := &sleepRecorder{}
	a := NewAction(p, rng)
	a.sleep = rec.sleep
	return a, rec
}

// newFrame returns a black w x h buffer
func newFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func setPixel(img *image.RGBA, p Point, c Color) {
	img.SetRGBA(img.Bounds().Min.X+p.X, img.Bounds().Min.Y+p.Y, c.RGBA())
}

var (
	collectibleColor = NewColor(150, 230, 50)
	freezeColor      = NewColor(80, 180, 230)
	hazardColor      = NewColor(120, 120, 120)
)
