// Package main - browser.go
//
// Browser platform: drives Telegram Web in a chromedp-controlled Chrome.
//
// Key Responsibilities:
//   - Chromedp browser lifecycle management (start, navigate, close)
//   - Cookie persistence (save/load so the Telegram login survives restarts)
//   - Locating the mini app frame inside the page
//   - Screenshot capture cropped to that frame
//   - Mouse and keyboard events dispatched through the DevTools protocol
//
// Coordinates:
// The viewport is emulated at device scale factor 1, so screenshot pixels,
// CSS pixels and the coordinates used for input events are the same space.
// Bounds returned by ClientRect are relative to the viewport.
//
// Timeout Strategy:
//   - Navigation: 60 seconds (slow network tolerance)
//   - Screenshot: 5 seconds (prevent hanging)
//   - Frame lookup and input: 2 seconds
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Browser implements Platform on top of chromedp.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCtx    context.Context
	allocCancel context.CancelFunc

	url     string
	width   int
	height  int
	frame   string
	cookies []CookieData

	// last pointer position, clicks are issued where the pointer was moved
	pointerX float64
	pointerY float64
}

// NewBrowser creates a browser platform from the configuration.
// The browser process is started lazily by FindWindow.
func NewBrowser(config *Config, cookies []CookieData) *Browser {
	return &Browser{
		url:     config.BrowserURL,
		width:   config.BrowserWidth,
		height:  config.BrowserHeight,
		frame:   config.BrowserFrame,
		cookies: cookies,
	}
}

// Start initializes chromedp and navigates to the configured URL.
//
// Algorithm:
//   1. Create exec allocator with a visible window and automation flags disabled
//   2. Create browser context logging to Debug.log
//   3. Restore cookies from the previous session
//   4. Emulate the configured viewport at scale factor 1
//   5. Navigate with a 60s timeout
func (b *Browser) Start() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-gpu", false),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(b.width, b.height),
	)

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		LogDebug(format, args...)
	}))
	LogInfo("Browser context created")

	if len(b.cookies) > 0 {
		LogInfo("Setting %d cookies before navigation", len(b.cookies))
		if err := b.SetCookies(b.cookies); err != nil {
			LogWarn("Failed to set cookies before navigation: %v", err)
		}
	}

	navCtx, navCancel := context.WithTimeout(b.ctx, 60*time.Second)
	defer navCancel()

	LogInfo("Navigating to %s", b.url)
	err := chromedp.Run(navCtx,
		chromedp.EmulateViewport(int64(b.width), int64(b.height)),
		chromedp.Navigate(b.url),
	)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", b.url, err)
	}

	LogInfo("Navigation completed successfully")
	return nil
}

func (b *Browser) alive() bool {
	return b.ctx != nil && b.ctx.Err() == nil
}

// FindWindow starts the browser on first use and returns the page as the window
func (b *Browser) FindWindow() (*Window, error) {
	if !b.alive() {
		if err := b.Start(); err != nil {
			LogError("Failed to start browser: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrWindowNotFound, err)
		}
	}

	var title string
	ctx, cancel := context.WithTimeout(b.ctx, 2*time.Second)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Title(&title)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWindowNotFound, err)
	}
	if title == "" {
		title = b.url
	}
	return &Window{Title: title}, nil
}

// ClientRect returns the bounds of the mini app frame, or the whole viewport
// when the frame is not on the page.
func (b *Browser) ClientRect(_ *Window) (Bounds, error) {
	if !b.alive() {
		return Bounds{}, fmt.Errorf("browser context: %w", ErrWindowLost)
	}

	js := fmt.Sprintf(`(() => {
		const el = %q ? document.querySelector(%q) : null;
		if (el) {
			const r = el.getBoundingClientRect();
			if (r.width > 0 && r.height > 0) {
				return [Math.round(r.left), Math.round(r.top), Math.round(r.width), Math.round(r.height)];
			}
		}
		return [0, 0, window.innerWidth, window.innerHeight];
	})()`, b.frame, b.frame)

	var rect []int
	ctx, cancel := context.WithTimeout(b.ctx, 2*time.Second)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &rect)); err != nil {
		return Bounds{}, fmt.Errorf("locate frame: %w", err)
	}
	if len(rect) != 4 {
		return Bounds{}, fmt.Errorf("locate frame: unexpected result %v", rect)
	}

	bounds := NewBounds(rect[0], rect[1], rect[2], rect[3])
	if bounds.Empty() {
		return Bounds{}, fmt.Errorf("frame %v: %w", bounds, ErrWindowLost)
	}
	return bounds, nil
}

// Capture takes a viewport screenshot and crops it to region
func (b *Browser) Capture(region Bounds) (*image.RGBA, error) {
	if !b.alive() {
		return nil, fmt.Errorf("browser context: %w", ErrWindowLost)
	}

	var buf []byte
	captureCtx, cancel := context.WithTimeout(b.ctx, 5*time.Second)
	defer cancel()

	if err := chromedp.Run(captureCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, region.W, region.H))
	draw.Draw(rgba, rgba.Bounds(), img, image.Pt(region.X, region.Y), draw.Src)
	return rgba, nil
}

func (b *Browser) run(actions ...chromedp.Action) error {
	if !b.alive() {
		return fmt.Errorf("browser context: %w", ErrWindowLost)
	}
	ctx, cancel := context.WithTimeout(b.ctx, 2*time.Second)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Move dispatches a mouse move to viewport coordinates
func (b *Browser) Move(x, y int) error {
	b.pointerX, b.pointerY = float64(x), float64(y)
	return b.run(chromedp.MouseEvent(input.MouseMoved, b.pointerX, b.pointerY))
}

// Click clicks the primary button at the last pointer position
func (b *Browser) Click() error {
	return b.run(chromedp.MouseClickXY(b.pointerX, b.pointerY))
}

// KeyTap sends a key to the page. The reload key reloads the page directly,
// since a synthetic F5 does not reach the browser chrome.
func (b *Browser) KeyTap(key string) error {
	if key == ReloadKey {
		return b.run(chromedp.Reload())
	}
	return b.run(chromedp.KeyEvent(key))
}

// GetCookies retrieves all cookies from the browser
func (b *Browser) GetCookies() ([]CookieData, error) {
	if !b.alive() {
		return nil, fmt.Errorf("browser context is invalid")
	}

	var cookies []*network.Cookie
	err := chromedp.Run(b.ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = network.GetCookies().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("get cookies: %w", err)
	}

	cookieData := make([]CookieData, len(cookies))
	for i, c := range cookies {
		cookieData[i] = CookieData{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		}
	}

	LogDebug("Retrieved %d cookies from browser", len(cookieData))
	return cookieData, nil
}

// SetCookies sets cookies in the browser
func (b *Browser) SetCookies(cookies []CookieData) error {
	if len(cookies) == 0 {
		return nil
	}

	err := chromedp.Run(b.ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, c := range cookies {
				params := network.SetCookie(c.Name, c.Value).
					WithDomain(c.Domain).
					WithPath(c.Path).
					WithHTTPOnly(c.HTTPOnly).
					WithSecure(c.Secure)

				if c.Expires > 0 {
					expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
					params = params.WithExpires(&expires)
				}
				if c.SameSite != "" {
					params = params.WithSameSite(network.CookieSameSite(c.SameSite))
				}

				if err := params.Do(ctx); err != nil {
					LogWarn("Failed to set cookie %s: %v", c.Name, err)
				}
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}

	LogInfo("Set %d cookies in browser", len(cookies))
	return nil
}

// Close closes the browser
func (b *Browser) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	LogInfo("Browser closed")
}
