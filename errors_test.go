package invitepdf

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "configuration", err: ErrConfiguration, want: CodeConfiguration},
		{name: "validation", err: ErrValidation, want: CodeValidation},
		{name: "browser init", err: ErrBrowserInit, want: CodeBrowserInit},
		{name: "render timeout", err: ErrRenderTimeout, want: CodeRenderTimeout},
		{name: "empty output", err: ErrEmptyOutput, want: CodeEmptyOutput},
		{name: "invalid device profile", err: ErrInvalidDeviceProfile, want: CodeConfiguration},
		{name: "invalid quality preset", err: ErrInvalidQualityPreset, want: CodeConfiguration},
		{
			name: "wrapped error keeps its code",
			err:  fmt.Errorf("%w: device %q", ErrConfiguration, "ghost"),
			want: CodeConfiguration,
		},
		{
			name: "deeply wrapped",
			err:  fmt.Errorf("outer: %w", fmt.Errorf("%w: after 30s", ErrRenderTimeout)),
			want: CodeRenderTimeout,
		},
		{name: "unknown error", err: errors.New("boom"), want: CodeInternal},
		{name: "navigation maps to internal", err: ErrNavigation, want: CodeInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ErrorCode(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
