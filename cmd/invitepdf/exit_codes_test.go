package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	invitepdf "github.com/evitely/go-invitepdf"
	"github.com/evitely/go-invitepdf/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"browser init", invitepdf.ErrBrowserInit, ExitBrowser},
		{"page create", invitepdf.ErrPageCreate, ExitBrowser},
		{"navigation", invitepdf.ErrNavigation, ExitBrowser},
		{"capture", invitepdf.ErrCapture, ExitBrowser},
		{"render timeout", invitepdf.ErrRenderTimeout, ExitBrowser},
		{"empty output", invitepdf.ErrEmptyOutput, ExitBrowser},
		{"file not found", os.ErrNotExist, ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"read data", ErrReadData, ExitIO},
		{"write pdf", ErrWritePDF, ExitIO},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config", config.ErrInvalidConfig, ExitUsage},
		{"configuration", invitepdf.ErrConfiguration, ExitUsage},
		{"validation", invitepdf.ErrValidation, ExitUsage},
		{"bad data", ErrBadData, ExitUsage},
		{"worker count", ErrInvalidWorkerCount, ExitUsage},
		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFor_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("rendering: %w", fmt.Errorf("%w: deadline", invitepdf.ErrRenderTimeout))
	if got := exitCodeFor(err); got != ExitBrowser {
		t.Errorf("exitCodeFor(wrapped timeout) = %d, want %d", got, ExitBrowser)
	}
}
