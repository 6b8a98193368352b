package invitepdf

import (
	"context"
	"math"

	"go.uber.org/zap"
)

// measureContentHeightJS locates the trailing anchor and returns its
// bottom edge plus the vertical scroll offset. The anchor is the
// canonical footer marker when present, otherwise the last visible
// section marker, otherwise the document scroll height.
const measureContentHeightJS = `() => {
	let anchor = document.querySelector('[data-section="footer"], footer, .footer-section');
	if (!anchor) {
		const sections = Array.from(document.querySelectorAll('[data-section]'))
			.filter((el) => {
				const style = getComputedStyle(el);
				return style.display !== 'none' && style.visibility !== 'hidden';
			});
		if (sections.length > 0) {
			anchor = sections[sections.length - 1];
		}
	}
	if (anchor) {
		return anchor.getBoundingClientRect().bottom + window.scrollY;
	}
	return Math.max(
		document.documentElement.scrollHeight,
		document.body ? document.body.scrollHeight : 0,
	);
}`

// snapToPixelRatio rounds a height to the nearest unit representable at
// the device pixel ratio, avoiding fractional-pixel seams in the output.
func snapToPixelRatio(value, ratio float64) float64 {
	if ratio <= 0 {
		ratio = 1
	}
	return math.Round(value*ratio) / ratio
}

// measureHeight computes the exact output height for custom-sized
// profiles. A value below the configured floor signals the client
// application has not finished rendering; the floor is substituted and
// the render proceeds rather than failing.
func (s *Service) measureHeight(ctx context.Context, logger *zap.Logger, page pageDriver, profile DeviceProfile) float64 {
	floor := s.cfg.tuning.MinContentHeight

	var raw float64
	res, err := page.Eval(ctx, measureContentHeightJS)
	if err != nil {
		logger.Warn("height measurement failed", zap.Error(err))
	} else {
		raw = res.Num()
	}

	height := snapToPixelRatio(raw, profile.PixelRatio)
	if height < floor {
		logger.Warn("measured height below floor",
			zap.Float64("measured", height),
			zap.Float64("floor", floor))
		return floor
	}

	logger.Debug("content height measured",
		zap.Float64("raw", raw),
		zap.Float64("snapped", height))
	return height
}
