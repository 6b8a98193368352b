package main

import (
	"errors"
	"os"

	invitepdf "github.com/evitely/go-invitepdf"
	"github.com/evitely/go-invitepdf/internal/config"
)

// Exit codes for the invitepdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful render
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/render errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser and render errors (exit 4)
	if errors.Is(err, invitepdf.ErrBrowserInit) ||
		errors.Is(err, invitepdf.ErrPageCreate) ||
		errors.Is(err, invitepdf.ErrNavigation) ||
		errors.Is(err, invitepdf.ErrCapture) ||
		errors.Is(err, invitepdf.ErrRenderTimeout) ||
		errors.Is(err, invitepdf.ErrEmptyOutput) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadData) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, invitepdf.ErrConfiguration) ||
		errors.Is(err, invitepdf.ErrValidation) ||
		errors.Is(err, invitepdf.ErrInvalidDeviceProfile) ||
		errors.Is(err, invitepdf.ErrInvalidQualityPreset) ||
		errors.Is(err, ErrBadData) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
