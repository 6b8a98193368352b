package invitepdf

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/evitely/go-invitepdf/internal/assets"
	"github.com/evitely/go-invitepdf/internal/yamlutil"
)

// DeviceProfile describes an emulated capture target.
// Loaded once from the embedded catalog and read-only thereafter.
type DeviceProfile struct {
	Key        string         `yaml:"key"`
	Name       string         `yaml:"name"`
	Viewport   Viewport       `yaml:"viewport"`
	PixelRatio float64        `yaml:"pixelRatio"`
	Mobile     bool           `yaml:"mobile"`
	Touch      bool           `yaml:"touch"`
	UserAgent  string         `yaml:"userAgent"`
	Output     OutputSettings `yaml:"output"`
}

// DeviceSummary is the discovery form of a profile, exposed by List.
type DeviceSummary struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Viewport Viewport `json:"viewport"`
}

// deviceCatalog is the YAML shape of the embedded device catalog.
type deviceCatalog struct {
	Devices []DeviceProfile   `yaml:"devices"`
	Aliases map[string]string `yaml:"aliases"`
}

// DeviceRegistry resolves device profiles by key or alias.
// Pure synchronous lookups with no side effects; unknown keys fail before
// any browser resource is acquired.
type DeviceRegistry struct {
	profiles map[string]DeviceProfile
	aliases  map[string]string
}

// NewDeviceRegistry loads the embedded device catalog.
func NewDeviceRegistry() (*DeviceRegistry, error) {
	data, err := assets.Catalog(assets.DeviceCatalogName)
	if err != nil {
		return nil, err
	}
	return NewDeviceRegistryFromYAML(data)
}

// NewDeviceRegistryFromYAML builds a registry from a caller-provided
// catalog, validating every entry. Malformed catalogs fail fast.
func NewDeviceRegistryFromYAML(data []byte) (*DeviceRegistry, error) {
	var catalog deviceCatalog
	if err := yamlutil.UnmarshalStrict(data, &catalog); err != nil {
		return nil, fmt.Errorf("decoding device catalog: %w", err)
	}
	if len(catalog.Devices) == 0 {
		return nil, fmt.Errorf("%w: empty device catalog", ErrInvalidDeviceProfile)
	}

	profiles := make(map[string]DeviceProfile, len(catalog.Devices))
	for _, p := range catalog.Devices {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := profiles[p.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidDeviceProfile, p.Key)
		}
		profiles[p.Key] = p
	}

	for alias, target := range catalog.Aliases {
		if _, ok := profiles[target]; !ok {
			return nil, fmt.Errorf("%w: alias %q targets unknown key %q", ErrInvalidDeviceProfile, alias, target)
		}
	}

	return &DeviceRegistry{profiles: profiles, aliases: catalog.Aliases}, nil
}

// Get resolves a profile by canonical key or alias.
func (r *DeviceRegistry) Get(key string) (DeviceProfile, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if target, ok := r.aliases[k]; ok {
		k = target
	}
	p, ok := r.profiles[k]
	if !ok {
		return DeviceProfile{}, fmt.Errorf("%w: device %q", ErrConfiguration, key)
	}
	return p, nil
}

// List returns all registered profiles in key order.
func (r *DeviceRegistry) List() []DeviceSummary {
	keys := lo.Keys(r.profiles)
	slices.Sort(keys)
	return lo.Map(keys, func(k string, _ int) DeviceSummary {
		p := r.profiles[k]
		return DeviceSummary{Key: p.Key, Name: p.Name, Viewport: p.Viewport}
	})
}

// validate enforces the profile invariants at catalog load time.
func (p DeviceProfile) validate() error {
	if p.Key == "" {
		return fmt.Errorf("%w: missing key", ErrInvalidDeviceProfile)
	}
	if p.Viewport.Width <= 0 || p.Viewport.Height <= 0 {
		return fmt.Errorf("%w: %q viewport must be positive, got %dx%d",
			ErrInvalidDeviceProfile, p.Key, p.Viewport.Width, p.Viewport.Height)
	}
	if p.PixelRatio <= 0 {
		return fmt.Errorf("%w: %q pixel ratio must be positive", ErrInvalidDeviceProfile, p.Key)
	}

	// Custom-size devices never declare a paper format, and vice versa.
	hasFormat := p.Output.Format != ""
	hasWidth := p.Output.Width > 0
	if hasFormat == hasWidth {
		return fmt.Errorf("%w: %q must set exactly one of output.format or output.width",
			ErrInvalidDeviceProfile, p.Key)
	}
	if hasFormat {
		if _, _, err := formatDimensions(p.Output.Format); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidDeviceProfile, p.Key, err)
		}
	}
	return nil
}
