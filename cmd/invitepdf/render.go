package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	invitepdf "github.com/evitely/go-invitepdf"
	"github.com/evitely/go-invitepdf/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input URL specified")
	ErrReadData           = errors.New("failed to read data file")
	ErrBadData            = errors.New("custom data must be a JSON object")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrServiceInit        = errors.New("failed to initialize render service")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Renderer is the interface for the render service.
type Renderer interface {
	Generate(ctx context.Context, req invitepdf.RenderRequest) (*invitepdf.RenderResult, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*invitepdf.Service)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire() (Renderer, error)
	Release(Renderer)
	Size() int
}

// servicePool adapts invitepdf.ServicePool to the Pool interface.
type servicePool struct {
	inner *invitepdf.ServicePool
}

func (p *servicePool) Acquire() (Renderer, error) {
	svc, err := p.inner.Acquire()
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (p *servicePool) Release(r Renderer) {
	if svc, ok := r.(*invitepdf.Service); ok {
		p.inner.Release(svc)
	}
}

func (p *servicePool) Size() int { return p.inner.Size() }

// runRenderCmd parses flags, builds the pool, and runs the render batch.
func runRenderCmd(ctx context.Context, args []string, env *Environment) int {
	flags, urls, err := parseRenderFlags(args)
	if err != nil {
		return ExitUsage
	}

	pool, err := buildPool(flags)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	defer func() { _ = pool.Close() }()

	if err := runRender(ctx, urls, flags, &servicePool{inner: pool}, env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// buildPool resolves configuration into service options and a pool.
func buildPool(flags *renderFlags) (*invitepdf.ServicePool, error) {
	if flags.workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, flags.workers)
	}

	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		loaded, err := config.LoadConfig(flags.common.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	opts, err := serviceOptions(flags, cfg)
	if err != nil {
		return nil, err
	}

	size := invitepdf.ResolvePoolSize(flags.workers)
	return invitepdf.NewServicePool(size, opts...), nil
}

// serviceOptions merges flags and config into service options.
// Flags win over config; config wins over library defaults.
func serviceOptions(flags *renderFlags, cfg *config.Config) ([]invitepdf.Option, error) {
	var opts []invitepdf.Option

	opts = append(opts, invitepdf.WithLogger(newLogger(flags.common.quiet, flags.common.verbose)))

	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: invalid timeout %q", invitepdf.ErrValidation, flags.timeout)
		}
		opts = append(opts, invitepdf.WithTimeout(d))
	}

	if bin := firstNonEmpty(flags.browser.bin, cfg.Browser.Bin); bin != "" {
		opts = append(opts, invitepdf.WithBrowserBin(bin))
	}

	if hosts := firstNonEmptySlice(flags.browser.allowedHosts, cfg.Render.AllowedHosts, envAllowedHosts()); len(hosts) > 0 {
		opts = append(opts, invitepdf.WithAllowedHosts(hosts...))
	}

	if sections := firstNonEmptySlice(flags.hideSections, cfg.Render.HiddenSections); len(sections) > 0 {
		opts = append(opts, invitepdf.WithHiddenSections(sections...))
	}

	if tuning, ok := readinessTuning(cfg.Readiness); ok {
		opts = append(opts, invitepdf.WithReadinessTuning(tuning))
	}

	return opts, nil
}

// readinessTuning converts config overrides into library tuning.
// Returns ok=false when no override is set, keeping library defaults.
func readinessTuning(rc config.ReadinessConfig) (invitepdf.ReadinessTuning, bool) {
	if rc == (config.ReadinessConfig{}) {
		return invitepdf.ReadinessTuning{}, false
	}
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return invitepdf.ReadinessTuning{
		FontTimeout:        ms(rc.FontTimeoutMs),
		ImageTimeout:       ms(rc.ImageTimeoutMs),
		BackgroundTimeout:  ms(rc.BackgroundTimeoutMs),
		HydrationTimeout:   ms(rc.HydrationTimeoutMs),
		StablePollInterval: ms(rc.StablePollIntervalMs),
		StablePollAttempts: rc.StablePollAttempts,
		StableStreak:       rc.StableStreak,
		MinContentHeight:   rc.MinContentHeight,
		SettleWait:         ms(rc.SettleWaitMs),
	}, true
}

// newLogger builds a console logger on stderr. Verbosity flags move the
// level; PDF bytes go to stdout, so stdout stays clean.
func newLogger(quiet, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if quiet {
		level = zapcore.ErrorLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// runRender orchestrates the render batch.
func runRender(ctx context.Context, urls []string, flags *renderFlags, pool Pool, env *Environment) error {
	if len(urls) == 0 {
		return ErrNoInput
	}

	customData, err := parseCustomData(flags.data.inline, flags.data.file)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	jobs, err := buildJobs(urls, flags, cfg, customData)
	if err != nil {
		return err
	}

	results := renderBatch(ctx, pool, jobs)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d render(s) failed", failed)
	}
	return nil
}

// buildJobs expands URLs into render jobs with resolved output paths.
func buildJobs(urls []string, flags *renderFlags, cfg *config.Config, customData map[string]any) ([]renderJob, error) {
	override := outputOverride(flags.geometry)
	device := firstNonEmpty(flags.selection.device, cfg.Render.Device)
	quality := firstNonEmpty(flags.selection.quality, cfg.Render.Quality)

	outFile := ""
	outDir := firstNonEmpty(cfg.Output.DefaultDir, ".")
	if flags.output != "" {
		if len(urls) == 1 && strings.EqualFold(filepath.Ext(flags.output), ".pdf") {
			outFile = flags.output
		} else {
			outDir = flags.output
		}
	}

	jobs := make([]renderJob, 0, len(urls))
	seen := make(map[string]int, len(urls))
	for _, rawURL := range urls {
		outputPath := outFile
		if outputPath == "" {
			name := dedupeName(documentName(rawURL), seen)
			outputPath = filepath.Join(outDir, name+".pdf")
		}
		jobs = append(jobs, renderJob{
			OutputPath: outputPath,
			Request: invitepdf.RenderRequest{
				URL:        rawURL,
				DeviceKey:  device,
				QualityKey: quality,
				Filename:   filepath.Base(outputPath),
				Output:     override,
				CustomData: customData,
			},
		})
	}
	return jobs, nil
}

// outputOverride maps geometry flags onto a request override.
// Returns nil when no flag was set, keeping the device profile's output.
func outputOverride(g geometryFlags) *invitepdf.OutputOverride {
	if g.format == "" && g.width == 0 && g.height == 0 && g.margin == 0 {
		return nil
	}
	ov := &invitepdf.OutputOverride{
		Format: g.format,
		Width:  g.width,
		Height: g.height,
	}
	if g.margin > 0 {
		ov.Margins = &invitepdf.Margins{
			Top:    g.margin,
			Bottom: g.margin,
			Left:   g.margin,
			Right:  g.margin,
		}
	}
	return ov
}

// parseCustomData decodes the --data / --data-file JSON object.
// --data wins when both are set.
func parseCustomData(inline, file string) (map[string]any, error) {
	raw := inline
	if raw == "" && file != "" {
		content, err := os.ReadFile(file) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadData, err)
		}
		raw = string(content)
	}
	if raw == "" {
		return nil, nil
	}

	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return nil, ErrBadData
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadData, err)
	}
	return data, nil
}

// documentName derives a file name from the URL's last path segment.
func documentName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invitation"
	}
	segment := path.Base(strings.TrimRight(u.Path, "/"))
	if segment == "" || segment == "." || segment == "/" {
		if u.Hostname() != "" {
			return u.Hostname()
		}
		return "invitation"
	}
	return segment
}

// dedupeName suffixes repeated names so batch outputs never collide.
func dedupeName(name string, seen map[string]int) string {
	seen[name]++
	if seen[name] == 1 {
		return name
	}
	return fmt.Sprintf("%s-%d", name, seen[name])
}

// envAllowedHosts reads the comma-separated host allow-list from the
// environment. Lowest precedence, after flags and config.
func envAllowedHosts() []string {
	raw := os.Getenv("INVITEPDF_ALLOWED_HOSTS")
	if raw == "" {
		return nil
	}
	var hosts []string
	for _, host := range strings.Split(raw, ",") {
		if host = strings.TrimSpace(host); host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstNonEmptySlice returns the first non-empty slice.
func firstNonEmptySlice(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}
