package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Options configures the rendering session
type Options struct {
	Width       int
	Height      int
	SettleDelay time.Duration // politeness/render-completeness wait after load
	Timeout     time.Duration
}

// Session owns one headless browser tab. The tab is stateful and can
// only be at one URL at a time, so a Session must not be shared across
// goroutines.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	settle  time.Duration
	timeout time.Duration
}

// Open launches a headless browser and prepares a single reusable tab.
func Open(opts Options) (*Session, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = 2 * time.Second
	}
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 720
	}

	path, _ := launcher.LookPath()
	u, err := launcher.New().Bin(path).Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("browser connect failed: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("page create failed: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		browser.Close()
		return nil, fmt.Errorf("set viewport failed: %w", err)
	}

	return &Session{
		browser: browser,
		page:    page,
		settle:  opts.SettleDelay,
		timeout: opts.Timeout,
	}, nil
}

// Close cleans up browser resources
func (s *Session) Close() {
	if s.page != nil {
		s.page.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
}

// Fetch navigates the tab to url, waits for the page to settle, and
// extracts its rendered view.
func (s *Session) Fetch(url string) (*Page, error) {
	page := s.page.Timeout(s.timeout)

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load %s: %w", url, err)
	}

	// Wait for network idle with timeout (don't hang on persistent connections)
	page.Timeout(5 * time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

	// Fixed settle delay for client-rendered content
	time.Sleep(s.settle)

	markup, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read markup %s: %w", url, err)
	}

	return ParsePage(url, markup)
}
