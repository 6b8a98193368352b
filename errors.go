package invitepdf

import "errors"

// Sentinel errors for render operations.
var (
	// ErrConfiguration indicates an unknown device or quality key.
	// Detected before any browser resource is acquired.
	ErrConfiguration = errors.New("unknown device or quality key")

	// ErrValidation indicates a malformed or disallowed render URL.
	// Detected before any browser resource is acquired.
	ErrValidation = errors.New("invalid render URL")

	// ErrBrowserInit indicates the browser process failed to launch or
	// connect. Fatal for the service instance; not a per-request retry.
	ErrBrowserInit = errors.New("browser initialization failed")

	// ErrRenderTimeout indicates the coarse per-request timeout elapsed.
	// Individual readiness-stage timeouts are logged and absorbed, never
	// surfaced through this error.
	ErrRenderTimeout = errors.New("render timed out")

	// ErrEmptyOutput indicates the capture mechanically succeeded but
	// produced zero bytes.
	ErrEmptyOutput = errors.New("capture produced empty output")

	// ErrPageCreate indicates a browser page could not be opened.
	ErrPageCreate = errors.New("failed to create browser page")

	// ErrNavigation indicates the target URL could not be loaded.
	ErrNavigation = errors.New("failed to load page")

	// ErrCapture indicates the PDF capture call itself failed.
	ErrCapture = errors.New("PDF capture failed")

	// Catalog validation errors, surfaced at registry load time.
	ErrInvalidDeviceProfile = errors.New("invalid device profile")
	ErrInvalidQualityPreset = errors.New("invalid quality preset")
)

// Stable error codes reported to callers that need the code without the
// Go error graph (HTTP surfaces, CLI JSON output).
const (
	CodeConfiguration = "configuration_error"
	CodeValidation    = "validation_error"
	CodeBrowserInit   = "browser_init_error"
	CodeRenderTimeout = "render_timeout"
	CodeEmptyOutput   = "empty_output"
	CodeInternal      = "internal_error"
)

// ErrorCode maps an error to its stable code string.
// Unrecognized errors map to CodeInternal; nil maps to the empty string.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrInvalidDeviceProfile),
		errors.Is(err, ErrInvalidQualityPreset):
		return CodeConfiguration
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrBrowserInit):
		return CodeBrowserInit
	case errors.Is(err, ErrRenderTimeout):
		return CodeRenderTimeout
	case errors.Is(err, ErrEmptyOutput):
		return CodeEmptyOutput
	default:
		return CodeInternal
	}
}
