package invitepdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Environment variables recognized by the browser driver.
const (
	// EnvBrowserBin points at a pre-installed Chrome/Chromium binary
	// (Docker and containerized environments).
	EnvBrowserBin = "INVITEPDF_BROWSER_BIN"
)

// cssPixelsPerInch is Chrome's CSS pixel density for print sizing.
const cssPixelsPerInch = 96.0

// browserDriver abstracts the browser process so tests can substitute a
// fake driver without launching Chrome.
type browserDriver interface {
	NewPage(ctx context.Context) (pageDriver, error)
	Close() error
}

// pageDriver abstracts one browser page. A page is created fresh per
// render and closed at the end of that render, never shared.
type pageDriver interface {
	Emulate(ctx context.Context, profile DeviceProfile) error
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	Eval(ctx context.Context, js string, args ...any) (gson.JSON, error)
	PDF(ctx context.Context, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ browserDriver = (*rodDriver)(nil)
	_ pageDriver    = (*rodPage)(nil)
)

// BrowserAvailability is the result of an explicit capability probe.
type BrowserAvailability struct {
	Found  bool   `json:"found"`
	Path   string `json:"path,omitempty"`
	Source string `json:"source,omitempty"` // "env" or "lookpath"
}

// Probe reports whether a usable browser binary can be located, without
// launching anything. Callers typically run it once at process startup.
func Probe() BrowserAvailability {
	if bin := os.Getenv(EnvBrowserBin); bin != "" {
		_, err := os.Stat(bin)
		return BrowserAvailability{Found: err == nil, Path: bin, Source: "env"}
	}
	if path, found := launcher.LookPath(); found {
		return BrowserAvailability{Found: true, Path: path, Source: "lookpath"}
	}
	return BrowserAvailability{}
}

// rodDriver implements browserDriver using go-rod.
// Rod automatically downloads Chromium on first run if not found.
// The browser process is launched lazily and shared across renders;
// isolation between concurrent renders comes from one page per render.
type rodDriver struct {
	mu      sync.Mutex
	browser *rod.Browser
	bin     string
}

func newRodDriver(bin string) *rodDriver {
	return &rodDriver{bin: bin}
}

// ensureBrowser lazily launches and connects to the browser.
func (d *rodDriver) ensureBrowser() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser != nil {
		return nil
	}

	l := launcher.New()

	bin := d.bin
	if bin == "" {
		bin = os.Getenv(EnvBrowserBin)
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserInit, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserInit, err)
	}
	d.browser = browser
	return nil
}

// NewPage opens a fresh blank page scoped to one render.
func (d *rodDriver) NewPage(ctx context.Context) (pageDriver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := d.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := d.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return &rodPage{page: page}, nil
}

// Close releases the browser process.
func (d *rodDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser != nil {
		err := d.browser.Close()
		d.browser = nil
		return err
	}
	return nil
}

// rodPage implements pageDriver on a rod page.
type rodPage struct {
	page *rod.Page
}

// Emulate configures the page from the device profile: viewport, pixel
// ratio, mobile flag, user agent, and touch. Media is emulated as
// "screen" so CSS behaves as in a live browser, not a paginated print
// document.
func (p *rodPage) Emulate(ctx context.Context, profile DeviceProfile) error {
	page := p.page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             profile.Viewport.Width,
		Height:            profile.Viewport.Height,
		DeviceScaleFactor: profile.PixelRatio,
		Mobile:            profile.Mobile,
	}); err != nil {
		return fmt.Errorf("setting viewport: %w", err)
	}

	if profile.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: profile.UserAgent,
		}); err != nil {
			return fmt.Errorf("setting user agent: %w", err)
		}
	}

	touchPoints := 0
	if profile.Touch {
		touchPoints = 5
	}
	if err := (proto.EmulationSetTouchEmulationEnabled{
		Enabled:        profile.Touch,
		MaxTouchPoints: gson.Int(touchPoints),
	}).Call(page); err != nil {
		return fmt.Errorf("setting touch emulation: %w", err)
	}

	if err := (proto.EmulationSetEmulatedMedia{Media: "screen"}).Call(page); err != nil {
		return fmt.Errorf("setting emulated media: %w", err)
	}
	return nil
}

// Navigate loads the URL and returns after the initial DOM parse.
// Expensive readiness signals are deferred to the readiness stages.
func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)

	wait := page.WaitEvent(&proto.PageDomContentEventFired{})
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("%w: %v", ErrNavigation, err)
	}
	wait()
	return ctx.Err()
}

// Reload reloads the page and waits for the initial DOM parse again.
func (p *rodPage) Reload(ctx context.Context) error {
	page := p.page.Context(ctx)

	wait := page.WaitEvent(&proto.PageDomContentEventFired{})
	if err := page.Reload(); err != nil {
		return fmt.Errorf("%w: %v", ErrNavigation, err)
	}
	wait()
	return ctx.Err()
}

// Eval runs a JS function on the page. Rod awaits returned promises, so
// wait-style snippets resolve before Eval returns.
func (p *rodPage) Eval(ctx context.Context, js string, args ...any) (gson.JSON, error) {
	obj, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return gson.New(nil), err
	}
	return obj.Value, nil
}

// PDF captures the page as a PDF document.
func (p *rodPage) PDF(ctx context.Context, opts *proto.PagePrintToPDF) ([]byte, error) {
	reader, err := p.page.Context(ctx).PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrCapture, err)
	}
	return buf, nil
}

// Close releases the page.
func (p *rodPage) Close() error {
	return p.page.Close()
}

// buildPrintOptions constructs the capture request: explicit pixel
// dimensions for custom-sized profiles, paper format otherwise, zero
// margins unless overridden, backgrounds always printed.
func buildPrintOptions(output OutputSettings, measuredHeightPx float64) (*proto.PagePrintToPDF, error) {
	opts := &proto.PagePrintToPDF{
		PrintBackground: true,
		MarginTop:       gson.Num(output.Margins.Top / cssPixelsPerInch),
		MarginBottom:    gson.Num(output.Margins.Bottom / cssPixelsPerInch),
		MarginLeft:      gson.Num(output.Margins.Left / cssPixelsPerInch),
		MarginRight:     gson.Num(output.Margins.Right / cssPixelsPerInch),
	}

	if output.CustomSized() {
		heightPx := output.Height
		if heightPx <= 0 {
			heightPx = measuredHeightPx
		}
		opts.PaperWidth = gson.Num(output.Width / cssPixelsPerInch)
		opts.PaperHeight = gson.Num(heightPx / cssPixelsPerInch)
		return opts, nil
	}

	// An override can set Height alone, which clears the profile's
	// format without supplying a width.
	if output.Format == "" {
		return nil, errors.New("height override requires a width")
	}
	w, h, err := formatDimensions(output.Format)
	if err != nil {
		return nil, err
	}
	opts.PaperWidth = gson.Num(w)
	opts.PaperHeight = gson.Num(h)
	return opts, nil
}
