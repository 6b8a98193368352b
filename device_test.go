package invitepdf

import (
	"errors"
	"slices"
	"testing"
)

func TestDeviceRegistry_EmbeddedCatalogInvariants(t *testing.T) {
	t.Parallel()

	registry, err := NewDeviceRegistry()
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}

	for _, summary := range registry.List() {
		profile, err := registry.Get(summary.Key)
		if err != nil {
			t.Fatalf("Get(%q): %v", summary.Key, err)
		}

		if profile.Viewport.Width <= 0 || profile.Viewport.Height <= 0 {
			t.Errorf("%s: viewport must be positive, got %dx%d",
				profile.Key, profile.Viewport.Width, profile.Viewport.Height)
		}
		if profile.PixelRatio <= 0 {
			t.Errorf("%s: pixel ratio must be positive", profile.Key)
		}

		// Custom-size devices never declare a paper format.
		hasFormat := profile.Output.Format != ""
		hasWidth := profile.Output.Width > 0
		if hasFormat == hasWidth {
			t.Errorf("%s: exactly one of output.format or output.width must be set", profile.Key)
		}
	}
}

func TestDeviceRegistry_Get(t *testing.T) {
	t.Parallel()

	registry, err := NewDeviceRegistry()
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantKey string
		wantErr error
	}{
		{name: "canonical key", key: "invitation_mobile", wantKey: "invitation_mobile"},
		{name: "alias resolves", key: "mobile", wantKey: "invitation_mobile"},
		{name: "alias is case-insensitive", key: "Mobile", wantKey: "invitation_mobile"},
		{name: "print alias", key: "print", wantKey: "invitation_a4"},
		{name: "unknown key", key: "unknown_device", wantErr: ErrConfiguration},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			profile, err := registry.Get(tt.key)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if profile.Key != tt.wantKey {
				t.Errorf("expected key %q, got %q", tt.wantKey, profile.Key)
			}
		})
	}
}

func TestDeviceRegistry_ListSorted(t *testing.T) {
	t.Parallel()

	registry, err := NewDeviceRegistry()
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}

	list := registry.List()
	if len(list) == 0 {
		t.Fatal("expected non-empty device list")
	}

	keys := make([]string, len(list))
	for i, s := range list {
		keys[i] = s.Key
		if s.Name == "" {
			t.Errorf("%s: expected display name", s.Key)
		}
	}
	if !slices.IsSorted(keys) {
		t.Errorf("expected keys sorted, got %v", keys)
	}
}

func TestNewDeviceRegistryFromYAML_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "zero viewport",
			yaml: `
devices:
  - key: bad
    name: Bad
    viewport: {width: 0, height: 800}
    pixelRatio: 2
    output: {width: 400}
`,
		},
		{
			name: "format and width both set",
			yaml: `
devices:
  - key: bad
    name: Bad
    viewport: {width: 400, height: 800}
    pixelRatio: 2
    output: {width: 400, format: a4}
`,
		},
		{
			name: "neither format nor width",
			yaml: `
devices:
  - key: bad
    name: Bad
    viewport: {width: 400, height: 800}
    pixelRatio: 2
    output: {}
`,
		},
		{
			name: "unknown paper format",
			yaml: `
devices:
  - key: bad
    name: Bad
    viewport: {width: 400, height: 800}
    pixelRatio: 2
    output: {format: tabloid}
`,
		},
		{
			name: "duplicate key",
			yaml: `
devices:
  - key: dup
    name: One
    viewport: {width: 400, height: 800}
    pixelRatio: 2
    output: {width: 400}
  - key: dup
    name: Two
    viewport: {width: 400, height: 800}
    pixelRatio: 2
    output: {width: 400}
`,
		},
		{
			name: "alias targets unknown key",
			yaml: `
devices:
  - key: ok
    name: OK
    viewport: {width: 400, height: 800}
    pixelRatio: 2
    output: {width: 400}
aliases:
  ghost: missing
`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewDeviceRegistryFromYAML([]byte(tt.yaml)); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}
