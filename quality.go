package invitepdf

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/evitely/go-invitepdf/internal/assets"
	"github.com/evitely/go-invitepdf/internal/yamlutil"
)

// Fidelity tiers, ordinal 0-3.
const (
	FidelityDraft = iota
	FidelityStandard
	FidelityHigh
	FidelityPremium
)

// QualityPreset controls how long and how thoroughly the pipeline waits
// for page readiness before capturing. Loaded once from the embedded
// catalog and read-only thereafter.
type QualityPreset struct {
	Key              string `yaml:"key"`
	Fidelity         int    `yaml:"fidelity"`
	TimeoutMs        int    `yaml:"timeoutMs"`
	WaitFonts        bool   `yaml:"waitFonts"`
	WaitImages       bool   `yaml:"waitImages"`
	WaitHydration    bool   `yaml:"waitHydration"`
	WaitHeightStable bool   `yaml:"waitHeightStable"`
	AdditionalWaitMs int    `yaml:"additionalWaitMs"`
}

// Timeout returns the coarse per-request timeout.
func (q QualityPreset) Timeout() time.Duration {
	return time.Duration(q.TimeoutMs) * time.Millisecond
}

// AdditionalWait returns the fixed settle wait applied after all
// readiness stages.
func (q QualityPreset) AdditionalWait() time.Duration {
	return time.Duration(q.AdditionalWaitMs) * time.Millisecond
}

// QualitySummary is the discovery form of a preset, exposed by List.
type QualitySummary struct {
	Key       string `json:"key"`
	Fidelity  int    `json:"fidelity"`
	TimeoutMs int    `json:"timeout_ms"`
}

// qualityCatalog is the YAML shape of the embedded quality catalog.
type qualityCatalog struct {
	Qualities []QualityPreset   `yaml:"qualities"`
	Aliases   map[string]string `yaml:"aliases"`
}

// QualityRegistry resolves quality presets by key or alias.
type QualityRegistry struct {
	presets map[string]QualityPreset
	aliases map[string]string
}

// NewQualityRegistry loads the embedded quality catalog.
func NewQualityRegistry() (*QualityRegistry, error) {
	data, err := assets.Catalog(assets.QualityCatalogName)
	if err != nil {
		return nil, err
	}
	return NewQualityRegistryFromYAML(data)
}

// NewQualityRegistryFromYAML builds a registry from a caller-provided
// catalog. Validation enforces that timeouts and settle waits are
// non-decreasing in fidelity: a higher tier never waits less.
func NewQualityRegistryFromYAML(data []byte) (*QualityRegistry, error) {
	var catalog qualityCatalog
	if err := yamlutil.UnmarshalStrict(data, &catalog); err != nil {
		return nil, fmt.Errorf("decoding quality catalog: %w", err)
	}
	if len(catalog.Qualities) == 0 {
		return nil, fmt.Errorf("%w: empty quality catalog", ErrInvalidQualityPreset)
	}

	presets := make(map[string]QualityPreset, len(catalog.Qualities))
	for _, q := range catalog.Qualities {
		if err := q.validate(); err != nil {
			return nil, err
		}
		if _, dup := presets[q.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidQualityPreset, q.Key)
		}
		presets[q.Key] = q
	}

	if err := validateMonotonicity(catalog.Qualities); err != nil {
		return nil, err
	}

	for alias, target := range catalog.Aliases {
		if _, ok := presets[target]; !ok {
			return nil, fmt.Errorf("%w: alias %q targets unknown key %q", ErrInvalidQualityPreset, alias, target)
		}
	}

	return &QualityRegistry{presets: presets, aliases: catalog.Aliases}, nil
}

// Get resolves a preset by canonical key or alias.
func (r *QualityRegistry) Get(key string) (QualityPreset, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if target, ok := r.aliases[k]; ok {
		k = target
	}
	q, ok := r.presets[k]
	if !ok {
		return QualityPreset{}, fmt.Errorf("%w: quality %q", ErrConfiguration, key)
	}
	return q, nil
}

// List returns all registered presets ordered by fidelity, then key.
func (r *QualityRegistry) List() []QualitySummary {
	presets := lo.Values(r.presets)
	slices.SortFunc(presets, func(a, b QualityPreset) int {
		if a.Fidelity != b.Fidelity {
			return a.Fidelity - b.Fidelity
		}
		return strings.Compare(a.Key, b.Key)
	})
	return lo.Map(presets, func(q QualityPreset, _ int) QualitySummary {
		return QualitySummary{Key: q.Key, Fidelity: q.Fidelity, TimeoutMs: q.TimeoutMs}
	})
}

func (q QualityPreset) validate() error {
	if q.Key == "" {
		return fmt.Errorf("%w: missing key", ErrInvalidQualityPreset)
	}
	if q.Fidelity < FidelityDraft || q.Fidelity > FidelityPremium {
		return fmt.Errorf("%w: %q fidelity must be 0-3, got %d", ErrInvalidQualityPreset, q.Key, q.Fidelity)
	}
	if q.TimeoutMs <= 0 {
		return fmt.Errorf("%w: %q timeout must be positive", ErrInvalidQualityPreset, q.Key)
	}
	if q.AdditionalWaitMs < 0 {
		return fmt.Errorf("%w: %q additional wait must not be negative", ErrInvalidQualityPreset, q.Key)
	}
	return nil
}

// validateMonotonicity checks that TimeoutMs and AdditionalWaitMs never
// decrease as fidelity increases.
func validateMonotonicity(presets []QualityPreset) error {
	ordered := slices.Clone(presets)
	slices.SortFunc(ordered, func(a, b QualityPreset) int { return a.Fidelity - b.Fidelity })

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if cur.TimeoutMs < prev.TimeoutMs {
			return fmt.Errorf("%w: %q timeout %dms below lower tier %q (%dms)",
				ErrInvalidQualityPreset, cur.Key, cur.TimeoutMs, prev.Key, prev.TimeoutMs)
		}
		if cur.AdditionalWaitMs < prev.AdditionalWaitMs {
			return fmt.Errorf("%w: %q additional wait %dms below lower tier %q (%dms)",
				ErrInvalidQualityPreset, cur.Key, cur.AdditionalWaitMs, prev.Key, prev.AdditionalWaitMs)
		}
	}
	return nil
}
