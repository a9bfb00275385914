// Package main implements an auto-clicker for the Blum drop mini game.
//
// Architecture Overview:
// One loop goroutine drives everything. Each pass polls the hotkeys and, while
// running, captures the game window once and hands the same frame to the
// token scanner and the state detector:
//
//   1. Input Monitor: start/toggle hotkeys flip the paused flag
//   2. Capture: resolve the window region, grab its pixels (*image.RGBA)
//   3. Token Scanner: four concurrent scans (collectible/freeze x left/right),
//      joined before anything else happens
//   4. State Detector: replay screen, then reload screen
//
// Platforms:
//   - desktop: a native Telegram client window (robotgo + kbinani/screenshot)
//   - browser: Telegram Web in Chrome (chromedp)
//
// Error Policy:
//   - No window at startup: WINDOW_NOT_FOUND, return cleanly
//   - Region/capture/input failure while running: WINDOW_CLOSED, loop ends
//   - Replay ceiling reached: REPLAY_LIMIT_REACHED, immediate exit(0) with
//     no state save and no platform cleanup
//
// Startup Sequence:
//   1. Parse flags, initialize Debug.log
//   2. Load config.json (defaults when missing), apply flag overrides
//   3. Select message catalog, print the banner
//   4. Offline analysis (-train) returns here
//   5. Start keyboard hook, create platform and Bot
//   6. Run the loop, optionally under the system tray (-tray)
//   7. Save state, close platform, log session statistics
//
// Exit Codes:
//   - 0: Normal exit (window closed, quit, replay limit)
//   - 1: Logger/config initialization failed
//   - 2: Unhandled panic occurred
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Bot represents the clicker controller and wires all subsystems.
//
// Component Dependencies:
//   - config: Thread-safe configuration (RWMutex protected)
//   - state: paused flag and replay counter shared by monitor and detector
//   - platform: window discovery, capture and input
//   - action: input dispatch on top of platform
//   - scanner / detector: per-frame decisions
//   - monitor: hotkey polling
//   - tray: optional system tray UI, nil without -tray
type Bot struct {
	config   *Config
	data     *PersistentData
	dataPath string
	stats    *Statistics
	state    *AutomationState

	platform Platform
	action   *Action
	scanner  *TokenScanner
	detector *StateDetector
	monitor  *InputMonitor
	tray     *TrayApp

	idle         time.Duration
	sleep        func(time.Duration)
	exit         func(code int)
	cookiesSaved bool
}

// NewBot creates a clicker bound to platform and reading hotkeys from keys.
func NewBot(data *PersistentData, dataPath string, platform Platform, keys KeyState, rng RandomSource) *Bot {
	LogDebug("Initializing clicker components...")

	config := data.Config
	stats := NewStatistics()
	state := NewAutomationState()
	action := NewAction(platform, rng)

	b := &Bot{
		config:   config,
		data:     data,
		dataPath: dataPath,
		stats:    stats,
		state:    state,
		platform: platform,
		action:   action,
		scanner:  NewTokenScanner(action, rng, stats),
		detector: NewStateDetector(action, rng, state, config, stats),
		monitor:  NewInputMonitor(keys, config, state),
		idle:     time.Duration(config.IdleInterval) * time.Millisecond,
		sleep:    time.Sleep,
	}
	b.exit = exitNow

	LogDebug("Clicker components initialized")
	return b
}

// exitNow terminates the process without the normal shutdown: state is not
// saved and the platform is left as is.
func exitNow(code int) {
	CloseLogger()
	os.Exit(code)
}

// newPlatform creates the platform named in the configuration
func newPlatform(data *PersistentData) Platform {
	config := data.Config
	switch config.Platform {
	case PlatformBrowser:
		LogInfo("Using browser platform (%s)", config.BrowserURL)
		return NewBrowser(config, data.Cookies)
	default:
		LogInfo("Using desktop platform (%v)", config.WindowNames)
		return NewDesktop(config.WindowNames)
	}
}

// Run finds the game window and runs the clicker loop until the window is
// lost or ctx is cancelled. Reaching the replay ceiling exits the process.
func (b *Bot) Run(ctx context.Context) error {
	window, err := b.platform.FindWindow()
	if err != nil {
		if errors.Is(err, ErrWindowNotFound) {
			LogError("%s", T("WINDOW_NOT_FOUND"))
			LogDebug("FindWindow: %v", err)
			return nil
		}
		return fmt.Errorf("find window: %w", err)
	}

	start, _ := b.config.Hotkeys()
	LogInfo("%s", T("CLICKER_INITIALIZED"))
	LogInfo("%s", T("FOUND_WINDOW", window.Title))
	LogInfo("%s", T("PRESS_S_TO_START", start))

	for {
		select {
		case <-ctx.Done():
			LogInfo("Clicker loop stopped: %v", ctx.Err())
			return nil
		default:
		}

		if b.monitor.Poll() {
			b.sleep(b.idle)
			continue
		}

		err := b.runIteration(window)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrReplayLimitReached) {
			LogError("%s", T("REPLAY_LIMIT_REACHED", b.config.ReplayLimit()))
			b.exit(0)
			return err
		}
		LogError("%s", T("WINDOW_CLOSED", err))
		return nil
	}
}

// runIteration executes one capture and the scans and checks on it.
//
// Execution Flow:
//   1. Resolve the window region (fails once the window is gone)
//   2. Capture the region into a pixel buffer
//   3. Four concurrent token scans, joined
//   4. Replay check, then reload check, on the same buffer
func (b *Bot) runIteration(window *Window) error {
	timer := NewTimer("iteration")
	defer timer.Log()

	region, err := b.platform.ClientRect(window)
	if err != nil {
		return fmt.Errorf("window region: %w", err)
	}

	img, err := b.platform.Capture(region)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	if !b.cookiesSaved {
		if _, ok := b.platform.(*Browser); ok {
			LogInfo("Game frame captured, saving cookies...")
			b.SaveState()
		}
		b.cookiesSaved = true
	}

	clicks, err := b.scanner.ScanAll(img, region)
	if err != nil {
		return err
	}
	if clicks > 0 {
		LogDebug("Iteration dispatched %d token clicks", clicks)
	}

	if _, err := b.detector.DetectReplay(img, region); err != nil {
		return err
	}
	if _, err := b.detector.DetectReload(img); err != nil {
		return err
	}
	return nil
}

// SaveState persists the configuration and, on the browser platform, the
// current cookies to the data file.
//
// Cookie retrieval failure is logged as warning but does not prevent config save.
func (b *Bot) SaveState() {
	if browser, ok := b.platform.(*Browser); ok {
		cookies, err := browser.GetCookies()
		if err != nil {
			LogWarn("Failed to get cookies: %v", err)
		} else {
			b.data.Cookies = cookies
			LogDebug("Saved %d cookies", len(cookies))
		}
	}

	if err := SaveData(b.dataPath, b.data); err != nil {
		LogError("Failed to save data: %v", err)
	}
}

// Shutdown saves state, releases the platform and logs session statistics
func (b *Bot) Shutdown() {
	b.SaveState()
	b.platform.Close()
	LogInfo("%s", T("SHUTDOWN_STATS", b.stats.Summary()))
}

// options are the command line flags
type options struct {
	configPath string
	platform   string
	language   string
	tray       bool
	trainPath  string
	outPath    string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("blum-clicker", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", defaultDataFile, "configuration file")
	fs.StringVar(&opts.platform, "platform", "", "override platform: desktop or browser")
	fs.StringVar(&opts.language, "lang", "", "override message language (en, ru)")
	fs.BoolVar(&opts.tray, "tray", false, "show the system tray menu")
	fs.StringVar(&opts.trainPath, "train", "", "analyze a screenshot instead of clicking")
	fs.StringVar(&opts.outPath, "out", "result.png", "annotated output for -train")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// applyOverrides copies non-empty flag values into the configuration
func applyOverrides(config *Config, opts *options) error {
	config.mu.Lock()
	if opts.platform != "" {
		config.Platform = opts.platform
	}
	if opts.language != "" {
		config.Language = opts.language
	}
	config.mu.Unlock()
	return config.Validate()
}

// main is the application entry point that initializes logging and starts the clicker.
func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			LogError("PANIC in main: %v", r)
			CloseLogger()
			os.Exit(2)
		}
	}()

	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(1)
	}

	if err := InitLogger("Debug.log"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		LogDebug("=== Blum Clicker Shutdown ===")
		CloseLogger()
	}()

	LogDebug("=== Blum Clicker Started ===")

	data, err := LoadData(opts.configPath)
	if err != nil {
		LogError("Failed to load configuration: %v", err)
		CloseLogger()
		os.Exit(1)
	}
	if err := applyOverrides(data.Config, opts); err != nil {
		LogError("Invalid options: %v", err)
		CloseLogger()
		os.Exit(1)
	}
	if err := SetLanguage(data.Config.Language); err != nil {
		LogWarn("%v, using %s", err, fallbackLanguage)
	}

	LogInfo("%s", T("BANNER"))

	if opts.trainPath != "" {
		if err := TrainingMode(opts.trainPath, opts.outPath, data.Config); err != nil {
			LogError("Training mode failed: %v", err)
			CloseLogger()
			os.Exit(1)
		}
		return
	}

	keys := NewHookKeys()
	keys.Start()
	defer keys.Stop()

	bot := NewBot(data, opts.configPath, newPlatform(data), keys, NewRandomSource())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func() {
		if err := bot.Run(ctx); err != nil {
			LogError("Clicker stopped: %v", err)
		}
	}

	if opts.tray {
		bot.tray = NewTrayApp(bot, stop)
		bot.tray.Run(run)
	} else {
		run()
	}

	bot.Shutdown()
}
