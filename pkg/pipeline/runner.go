package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skygrid/pkg/cache"
	"github.com/matzehuels/skygrid/pkg/chart"
	"github.com/matzehuels/skygrid/pkg/observability"
	"github.com/matzehuels/skygrid/pkg/sky"
)

// Cache key types reported to observability hooks.
const (
	keyTypeFigure   = "figure"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete assemble → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Assemble
	assembleStart := time.Now()
	fig, figHit, err := r.AssembleWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Figure = fig
	result.Stats.AssembleTime = time.Since(assembleStart)
	result.CacheInfo.FigureHit = figHit

	st := fig.Stats()
	for _, s := range st.Series {
		result.Stats.Lines += s.Lines
		result.Stats.Segments += s.Segments
		result.Stats.Points += s.Points
	}
	result.Stats.Annotations = st.Annotations
	result.PoleElevation, _ = fig.PoleElevation()

	figData, err := json.Marshal(fig)
	if err != nil {
		return nil, fmt.Errorf("serialize figure: %w", err)
	}
	result.FigureHash = cache.Hash(figData)

	opts.Logger.Info("assembled chart",
		"site", opts.Site,
		"lines", result.Stats.Lines,
		"segments", result.Stats.Segments,
		"cached", figHit,
		"duration", result.Stats.AssembleTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, fig, result.FigureHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AssembleWithCacheInfo builds the figure with caching and returns cache hit info.
func (r *Runner) AssembleWithCacheInfo(ctx context.Context, opts Options) (*chart.Figure, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAssemble(); err != nil {
		return nil, false, err
	}

	hooks := observability.Cache()
	cacheKey := r.Keyer.FigureKey(opts.FigureKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var fig chart.Figure
			if err := json.Unmarshal(data, &fig); err == nil {
				hooks.OnCacheHit(ctx, keyTypeFigure)
				return &fig, true, nil
			}
			opts.Logger.Warn("discarding unreadable cached figure", "key", cacheKey)
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
	}
	hooks.OnCacheMiss(ctx, keyTypeFigure)

	fig, err := Assemble(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(fig); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLFigure); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeFigure, len(data))
		}
	}

	return fig, false, nil
}

// Assemble builds the figure for opts without touching the cache.
func Assemble(ctx context.Context, opts Options) (*chart.Figure, error) {
	if err := opts.ValidateForAssemble(); err != nil {
		return nil, err
	}
	obs, err := sky.NewObserver(opts.Site, opts.Time, opts.ObserverOptions()...)
	if err != nil {
		return nil, err
	}

	site := opts.Site.String()
	hooks := observability.Pipeline()
	hooks.OnAssembleStart(ctx, site)
	start := time.Now()

	opts.Logger.Debug("sampling grid",
		"lat", opts.Site.Latitude,
		"lon", opts.Site.Longitude,
		"time", opts.Time.UTC().Format(time.RFC3339),
		"refraction", opts.Refraction,
		"workers", opts.Workers)

	fig, err := chart.Assemble(ctx, obs.Transform, opts.ChartOptions()...)
	segments := 0
	if fig != nil {
		segments = len(fig.Traces)
	}
	hooks.OnAssembleComplete(ctx, site, segments, time.Since(start), err)
	return fig, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Only formats missing from the cache are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, fig *chart.Figure, figureHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if !opts.Refresh {
			cacheKey := r.Keyer.ArtifactKey(figureHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	pipeHooks := observability.Pipeline()
	pipeHooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := Render(fig, missing, opts.Width, opts.Height)
	pipeHooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		cacheKey := r.Keyer.ArtifactKey(figureHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
