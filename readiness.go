package invitepdf

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReadinessTuning holds the thresholds driving the readiness stages.
// The defaults are tuned against the invitation client application;
// other applications should override them via WithReadinessTuning or
// the config file.
type ReadinessTuning struct {
	// FontTimeout bounds the font-settled stage.
	FontTimeout time.Duration

	// ImageTimeout bounds the <img> readiness stage.
	ImageTimeout time.Duration

	// BackgroundTimeout bounds each individual CSS background image
	// preload, not the stage as a whole.
	BackgroundTimeout time.Duration

	// HydrationTimeout bounds the framework hydration stage.
	HydrationTimeout time.Duration

	// StablePollInterval is the delay between document height polls.
	StablePollInterval time.Duration

	// StablePollAttempts caps the number of height polls.
	StablePollAttempts int

	// StableStreak is how many consecutive identical polls count as
	// stable.
	StableStreak int

	// MinContentHeight is the sanity floor, in CSS pixels, below which
	// the page is treated as not yet rendered.
	MinContentHeight float64

	// SettleWait is the pause after a custom-data reload before
	// dispatching sync events.
	SettleWait time.Duration
}

// DefaultReadinessTuning returns the production thresholds.
func DefaultReadinessTuning() ReadinessTuning {
	return ReadinessTuning{
		FontTimeout:        10 * time.Second,
		ImageTimeout:       15 * time.Second,
		BackgroundTimeout:  5 * time.Second,
		HydrationTimeout:   15 * time.Second,
		StablePollInterval: 500 * time.Millisecond,
		StablePollAttempts: 20,
		StableStreak:       3,
		MinContentHeight:   1200,
		SettleWait:         500 * time.Millisecond,
	}
}

// withDefaults fills zero fields so partial overrides keep sane values.
func (t ReadinessTuning) withDefaults() ReadinessTuning {
	def := DefaultReadinessTuning()
	if t.FontTimeout <= 0 {
		t.FontTimeout = def.FontTimeout
	}
	if t.ImageTimeout <= 0 {
		t.ImageTimeout = def.ImageTimeout
	}
	if t.BackgroundTimeout <= 0 {
		t.BackgroundTimeout = def.BackgroundTimeout
	}
	if t.HydrationTimeout <= 0 {
		t.HydrationTimeout = def.HydrationTimeout
	}
	if t.StablePollInterval <= 0 {
		t.StablePollInterval = def.StablePollInterval
	}
	if t.StablePollAttempts <= 0 {
		t.StablePollAttempts = def.StablePollAttempts
	}
	if t.StableStreak <= 0 {
		t.StableStreak = def.StableStreak
	}
	if t.MinContentHeight <= 0 {
		t.MinContentHeight = def.MinContentHeight
	}
	if t.SettleWait <= 0 {
		t.SettleWait = def.SettleWait
	}
	return t
}

// waitFontsJS resolves when the page's font loading settles.
const waitFontsJS = `() => {
	if (!document.fonts || !document.fonts.ready) {
		return true;
	}
	return document.fonts.ready.then(() => true);
}`

// waitImagesJS resolves when every <img> reports loaded with a non-zero
// intrinsic size. Unbounded by itself; the stage timeout cancels it.
const waitImagesJS = `() => new Promise((resolve) => {
	const check = () => {
		const imgs = Array.from(document.querySelectorAll('img'));
		if (imgs.every((img) => img.complete && img.naturalWidth > 0)) {
			resolve(imgs.length);
			return;
		}
		setTimeout(check, 200);
	};
	check();
})`

// waitBackgroundImagesJS enumerates every computed-style background
// image, extracting each URL (multiple and gradient-mixed values), and
// preloads them with an individual timeout. Individual failures resolve
// rather than reject, so one broken image never stalls the stage.
const waitBackgroundImagesJS = `(timeoutMs) => {
	const urls = new Set();
	for (const el of document.querySelectorAll('*')) {
		const bg = getComputedStyle(el).backgroundImage;
		if (!bg || bg === 'none') {
			continue;
		}
		for (const match of bg.matchAll(/url\(["']?([^"')]+)["']?\)/g)) {
			urls.add(match[1]);
		}
	}
	const preload = (url) => new Promise((resolve) => {
		const img = new Image();
		const done = () => resolve(url);
		setTimeout(done, timeoutMs);
		img.onload = done;
		img.onerror = done;
		img.src = url;
	});
	return Promise.all(Array.from(urls).map(preload)).then((loaded) => loaded.length);
}`

// waitHydrationJS polls until the client application looks mounted:
// an app-mount marker exists, structural section markers are present,
// gallery images (when a gallery exists) are loaded, and the rendered
// height clears the sanity floor.
const waitHydrationJS = `(minHeight) => new Promise((resolve) => {
	const check = () => {
		const mounted = document.querySelector(
			'[data-app-mounted], [data-hydrated], #app > *, .invitation-root');
		const sections = document.querySelectorAll('[data-section]');
		const gallery = document.querySelector('[data-section*="gallery"], .gallery-section');
		const galleryReady = !gallery || Array.from(gallery.querySelectorAll('img'))
			.every((img) => img.complete && img.naturalWidth > 0);
		const height = Math.max(
			document.documentElement.scrollHeight,
			document.body ? document.body.scrollHeight : 0);
		if (mounted && sections.length > 0 && galleryReady && height >= minHeight) {
			resolve(true);
			return;
		}
		setTimeout(check, 250);
	};
	check();
})`

const documentHeightJS = `() => Math.max(
	document.documentElement.scrollHeight,
	document.body ? document.body.scrollHeight : 0,
)`

// awaitReadiness runs the fixed stage sequence gated by the preset's
// flags. Every stage is best-effort: a timed-out or failed stage logs a
// warning and the pipeline proceeds. Only cancellation of the render
// context stops the sequence.
func (s *Service) awaitReadiness(ctx context.Context, logger *zap.Logger, page pageDriver, preset QualityPreset) error {
	t := s.cfg.tuning

	if preset.WaitFonts {
		s.runStage(ctx, logger, page, "fonts", t.FontTimeout, waitFontsJS)
	}
	if preset.WaitImages {
		s.runStage(ctx, logger, page, "images", t.ImageTimeout, waitImagesJS)
		s.runStage(ctx, logger, page, "background_images", t.ImageTimeout,
			waitBackgroundImagesJS, t.BackgroundTimeout.Milliseconds())
	}
	if preset.WaitHydration {
		s.runStage(ctx, logger, page, "hydration", t.HydrationTimeout,
			waitHydrationJS, t.MinContentHeight)
	}
	if preset.WaitHeightStable {
		s.waitHeightStable(ctx, logger, page)
	}
	if preset.AdditionalWait() > 0 {
		if err := sleepCtx(ctx, preset.AdditionalWait()); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// runStage evaluates one wait snippet under its own timeout.
// Stage failure is absorbed: logged at Warn, never propagated.
func (s *Service) runStage(ctx context.Context, logger *zap.Logger, page pageDriver, name string, timeout time.Duration, js string, args ...any) {
	if ctx.Err() != nil {
		return
	}

	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	_, err := page.Eval(stageCtx, js, args...)
	elapsed := time.Since(start)

	if err != nil {
		logger.Warn("readiness stage degraded",
			zap.String("stage", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return
	}
	logger.Debug("readiness stage satisfied",
		zap.String("stage", name),
		zap.Duration("elapsed", elapsed))
}

// waitHeightStable polls the document height until it repeats for
// StableStreak consecutive polls above the sanity floor, or attempts
// run out. Either way the render proceeds with the last observed height.
func (s *Service) waitHeightStable(ctx context.Context, logger *zap.Logger, page pageDriver) {
	t := s.cfg.tuning

	var last float64
	streak := 0
	for attempt := 0; attempt < t.StablePollAttempts; attempt++ {
		if ctx.Err() != nil {
			return
		}

		res, err := page.Eval(ctx, documentHeightJS)
		if err != nil {
			logger.Warn("readiness stage degraded",
				zap.String("stage", "height_stability"),
				zap.Error(err))
			return
		}

		height := res.Num()
		if height == last {
			streak++
		} else {
			streak = 1
		}
		last = height

		if streak >= t.StableStreak && height >= t.MinContentHeight {
			logger.Debug("readiness stage satisfied",
				zap.String("stage", "height_stability"),
				zap.Float64("height", height),
				zap.Int("polls", attempt+1))
			return
		}
		if err := sleepCtx(ctx, t.StablePollInterval); err != nil {
			return
		}
	}

	logger.Warn("readiness stage degraded",
		zap.String("stage", "height_stability"),
		zap.Float64("last_height", last))
}

// sleepCtx sleeps for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
