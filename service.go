package invitepdf

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// serviceConfig holds construction-time settings.
type serviceConfig struct {
	timeout        time.Duration // 0 = use the quality preset's timeout
	browserBin     string
	allowedHosts   []string
	tuning         ReadinessTuning
	hiddenSections []string
}

// Service orchestrates the capture pipeline: it owns the browser
// lifecycle and runs each render on its own page.
// Create with New(), render with Generate(), and Close() when done.
type Service struct {
	cfg       serviceConfig
	logger    *zap.Logger
	devices   *DeviceRegistry
	qualities *QualityRegistry
	stylist   *stylist
	driver    browserDriver
}

// Option customizes a Service.
type Option func(*Service)

// WithTimeout overrides the coarse per-request timeout of every quality
// preset. Panics if d is not positive.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("invitepdf: timeout must be positive")
	}
	return func(s *Service) { s.cfg.timeout = d }
}

// WithLogger sets the structured logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBrowserBin points the driver at a pre-installed Chrome/Chromium
// binary instead of the managed download.
func WithBrowserBin(bin string) Option {
	return func(s *Service) { s.cfg.browserBin = bin }
}

// WithAllowedHosts restricts render URLs to the given hosts (exact match
// or subdomain). Empty means any host.
func WithAllowedHosts(hosts ...string) Option {
	return func(s *Service) { s.cfg.allowedHosts = hosts }
}

// WithReadinessTuning overrides the readiness thresholds. Zero fields
// keep their defaults.
func WithReadinessTuning(t ReadinessTuning) Option {
	return func(s *Service) { s.cfg.tuning = t.withDefaults() }
}

// WithHiddenSections replaces the default list of section identifiers
// suppressed in static output.
func WithHiddenSections(identifiers ...string) Option {
	return func(s *Service) { s.cfg.hiddenSections = identifiers }
}

// WithDeviceRegistry substitutes the device catalog (tests, site-specific
// tuning).
func WithDeviceRegistry(r *DeviceRegistry) Option {
	return func(s *Service) { s.devices = r }
}

// WithQualityRegistry substitutes the quality catalog.
func WithQualityRegistry(r *QualityRegistry) Option {
	return func(s *Service) { s.qualities = r }
}

// withDriver substitutes the browser driver (tests).
func withDriver(d browserDriver) Option {
	return func(s *Service) { s.driver = d }
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithAllowedHosts, WithLogger).
// Returns an error if a catalog fails to load or validate.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg: serviceConfig{
			tuning:         DefaultReadinessTuning(),
			hiddenSections: DefaultHiddenSections(),
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.devices == nil {
		s.devices, err = NewDeviceRegistry()
		if err != nil {
			return nil, fmt.Errorf("loading device catalog: %w", err)
		}
	}
	if s.qualities == nil {
		s.qualities, err = NewQualityRegistry()
		if err != nil {
			return nil, fmt.Errorf("loading quality catalog: %w", err)
		}
	}
	if s.stylist == nil {
		s.stylist, err = newStylist(s.cfg.hiddenSections)
		if err != nil {
			return nil, err
		}
	}

	// Create browser driver if not injected (e.g., by tests)
	if s.driver == nil {
		s.driver = newRodDriver(s.cfg.browserBin)
	}

	return s, nil
}

// Devices exposes the device registry for discovery listings.
func (s *Service) Devices() *DeviceRegistry { return s.devices }

// Qualities exposes the quality registry for discovery listings.
func (s *Service) Qualities() *QualityRegistry { return s.qualities }

// Generate runs one render end to end and returns the captured document
// with its metadata.
//
// Validation and registry resolution fail fast, before any browser
// resource is acquired. The browser work runs under the preset's coarse
// timeout; exceeding it surfaces ErrRenderTimeout. The page opened for
// this call is closed on every exit path.
func (s *Service) Generate(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	start := time.Now()
	req = req.withDefaults()

	if err := validateRenderURL(req.URL, s.cfg.allowedHosts); err != nil {
		return nil, err
	}
	profile, err := s.devices.Get(req.DeviceKey)
	if err != nil {
		return nil, err
	}
	preset, err := s.qualities.Get(req.QualityKey)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(
		zap.String("render_id", uuid.NewString()),
		zap.String("device", profile.Key),
		zap.String("quality", preset.Key),
		zap.String("url_host", hostOf(req.URL)),
	)

	timeout := preset.Timeout()
	if s.cfg.timeout > 0 {
		timeout = s.cfg.timeout
	}
	renderCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pdf, err := s.render(renderCtx, logger, req, profile, preset)
	if err != nil {
		if errors.Is(renderCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			logger.Warn("render exceeded coarse timeout", zap.Duration("timeout", timeout))
			return nil, fmt.Errorf("%w: after %s", ErrRenderTimeout, timeout)
		}
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: device %s", ErrEmptyOutput, profile.Key)
	}

	elapsed := time.Since(start)
	logger.Info("render complete",
		zap.Int("bytes", len(pdf)),
		zap.Duration("elapsed", elapsed))

	return &RenderResult{
		PDF:            pdf,
		ByteSize:       len(pdf),
		GenerationTime: elapsed,
		DeviceKey:      profile.Key,
		QualityKey:     preset.Key,
	}, nil
}

// render performs the browser-session part of a request on one page.
func (s *Service) render(ctx context.Context, logger *zap.Logger, req RenderRequest, profile DeviceProfile, preset QualityPreset) ([]byte, error) {
	page, err := s.driver.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			logger.Warn("closing page", zap.Error(cerr))
		}
	}()

	if err := page.Emulate(ctx, profile); err != nil {
		return nil, err
	}
	if err := page.Navigate(ctx, withRenderMarker(req.URL)); err != nil {
		return nil, err
	}

	if len(req.CustomData) > 0 {
		if err := s.injectCustomData(ctx, logger, page, req); err != nil {
			return nil, err
		}
	}

	// Capture styling is best-effort: a page that rejects the style
	// injection still captures, just without suppression.
	if err := s.stylist.apply(ctx, page); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("capture styles not applied", zap.Error(err))
	}

	if err := s.awaitReadiness(ctx, logger, page, preset); err != nil {
		return nil, err
	}

	output := req.Output.apply(profile.Output)
	var measured float64
	if output.CustomSized() && output.Height <= 0 {
		measured = s.measureHeight(ctx, logger, page, profile)
	}

	opts, err := buildPrintOptions(output, measured)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return page.PDF(ctx, opts)
}

// Close releases the browser process.
func (s *Service) Close() error {
	if s.driver != nil {
		return s.driver.Close()
	}
	return nil
}

// hostOf extracts the host for log fields; never fails.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
