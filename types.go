package invitepdf

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Default request keys, applied when the caller leaves them empty.
const (
	DefaultDeviceKey  = "invitation_mobile"
	DefaultQualityKey = "standard"
)

// Paper format constants for paper-sized device profiles.
const (
	FormatA4     = "a4"
	FormatLetter = "letter"
	FormatLegal  = "legal"
)

// Query parameter appended to every render URL so the target page can
// detect capture mode and adapt (skip animations, disable autoplay).
const renderModeParam = "pdf_capture"

// Viewport holds emulated screen dimensions in CSS pixels.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Margins holds page margins in CSS pixels. The zero value means a
// borderless capture, which is the default for invitation documents.
type Margins struct {
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
}

// OutputSettings describes the captured document's geometry.
// Exactly one of Format or Width is set: paper-sized profiles declare a
// Format, custom-sized profiles declare a Width (Height is measured from
// the rendered page when zero).
type OutputSettings struct {
	Width   float64 `yaml:"width"`  // CSS px; custom-sized when > 0
	Height  float64 `yaml:"height"` // CSS px; 0 = measure from the page
	Format  string  `yaml:"format"` // "a4", "letter", "legal"
	Margins Margins `yaml:"margins"`
}

// CustomSized reports whether the profile captures at an explicit pixel
// width rather than a paper format.
func (o OutputSettings) CustomSized() bool {
	return o.Width > 0
}

// OutputOverride selectively replaces output settings for one request.
// Nil fields keep the device profile's values.
type OutputOverride struct {
	Format  string
	Width   float64
	Height  float64
	Margins *Margins
}

// apply merges the override onto base settings.
// Setting Format clears Width/Height and vice versa, preserving the
// format/width exclusivity invariant.
func (ov *OutputOverride) apply(base OutputSettings) OutputSettings {
	if ov == nil {
		return base
	}
	out := base
	if ov.Format != "" {
		out.Format = ov.Format
		out.Width = 0
		out.Height = 0
	}
	if ov.Width > 0 {
		out.Width = ov.Width
		out.Format = ""
	}
	if ov.Height > 0 {
		out.Height = ov.Height
		out.Format = ""
	}
	if ov.Margins != nil {
		out.Margins = *ov.Margins
	}
	return out
}

// RenderRequest describes one capture job.
type RenderRequest struct {
	// URL of the live invitation page. Required, http or https.
	URL string

	// DeviceKey selects a device profile. Empty = DefaultDeviceKey.
	DeviceKey string

	// QualityKey selects a quality preset. Empty = DefaultQualityKey.
	QualityKey string

	// Filename is a caller-suggested name for the generated document.
	// Not used by the render path itself.
	Filename string

	// Output selectively overrides the profile's output settings.
	Output *OutputOverride

	// CustomData pre-seeds client-side editable state before capture.
	// Values are injected into the page's persistent storage, never
	// written to any backing store.
	CustomData map[string]any
}

// withDefaults fills empty device/quality keys.
func (r RenderRequest) withDefaults() RenderRequest {
	if r.DeviceKey == "" {
		r.DeviceKey = DefaultDeviceKey
	}
	if r.QualityKey == "" {
		r.QualityKey = DefaultQualityKey
	}
	return r
}

// RenderResult holds the generated document and its metadata.
// Only produced after a successful, non-empty capture.
type RenderResult struct {
	PDF            []byte
	ByteSize       int
	GenerationTime time.Duration
	DeviceKey      string
	QualityKey     string
}

// validateRenderURL checks scheme and host before any session work begins.
// When allowedHosts is non-empty, the URL's host must match one of its
// entries exactly or as a subdomain.
func validateRenderURL(rawURL string, allowedHosts []string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("%w: empty URL", ErrValidation)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrValidation, u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: missing host", ErrValidation)
	}

	if len(allowedHosts) == 0 {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	ok := lo.SomeBy(allowedHosts, func(allowed string) bool {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		return allowed != "" && (host == allowed || strings.HasSuffix(host, "."+allowed))
	})
	if !ok {
		return fmt.Errorf("%w: host %q not in allow-list", ErrValidation, host)
	}
	return nil
}

// withRenderMarker appends the capture-mode query parameter.
// The URL is assumed to have passed validateRenderURL.
func withRenderMarker(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(renderModeParam, "1")
	u.RawQuery = q.Encode()
	return u.String()
}

// formatDimensions returns paper dimensions in inches for a format name.
func formatDimensions(format string) (width, height float64, err error) {
	switch strings.ToLower(format) {
	case FormatA4:
		return 8.27, 11.69, nil
	case FormatLetter:
		return 8.5, 11, nil
	case FormatLegal:
		return 8.5, 14, nil
	default:
		return 0, 0, fmt.Errorf("unknown paper format %q", format)
	}
}
