// Package pipeline provides the chart pipeline for skygrid.
//
// This package implements the complete assemble → render pipeline used by
// the CLI. By centralizing this logic, defaults, validation and caching
// behave the same for every entry point.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Assemble: Sample both grid families through the site's coordinate
//     transform and build a [chart.Figure]
//  2. Render: Draw the figure into one or more sinks (PNG, SVG, PDF, JSON)
//
// Both stages are cached: the figure by site, instant and grid definition,
// each artifact by figure content, format and size.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Site:    sky.DRAO,
//	    Time:    time.Now(),
//	    Formats: []string{"png", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skygrid/pkg/cache"
	"github.com/matzehuels/skygrid/pkg/chart"
	"github.com/matzehuels/skygrid/pkg/errors"
	"github.com/matzehuels/skygrid/pkg/grid"
	"github.com/matzehuels/skygrid/pkg/render/sink"
	"github.com/matzehuels/skygrid/pkg/sky"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config files
// =============================================================================

const (
	// DefaultWidth is the default output width in pixels.
	DefaultWidth = 1250

	// DefaultHeight is the default output height in pixels.
	DefaultHeight = 900

	// DefaultWorkers is the number of grid lines sampled concurrently.
	DefaultWorkers = 4

	// MaxDimension caps width and height.
	MaxDimension = 10000
)

// DefaultFormats is the output format list used when none is given.
var DefaultFormats = []string{sink.FormatPNG}

// DefaultSite is the observing site used when none is given.
var DefaultSite = sky.DRAO

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the chart pipeline.
type Options struct {
	// Assemble options
	Site        sky.Site     `json:"site"` // zero value means DefaultSite
	Time        time.Time    `json:"time"`
	Refraction  bool         `json:"refraction,omitempty"`
	HourAngle   *grid.Family `json:"hour_angle,omitempty"`  // nil means grid.HourAngleFamily()
	Declination *grid.Family `json:"declination,omitempty"` // nil means grid.DeclinationFamily()
	Workers     int          `json:"workers,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Figure is the assembled chart.
	Figure *chart.Figure

	// FigureHash is the content hash of the figure's JSON encoding.
	FigureHash string

	// PoleElevation is the elevation of the north celestial pole at the site.
	PoleElevation float64

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Lines        int
	Segments     int
	Points       int
	Annotations  int
	AssembleTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FigureHit bool // Whether the figure came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid and not repeated.
func ValidateFormats(formats []string) error {
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if err := sink.ValidateFormat(f); err != nil {
			return err
		}
		if seen[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "format %q requested twice", f)
		}
		seen[f] = true
	}
	return nil
}

// ValidateSize checks output dimensions.
func ValidateSize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput, "size %dx%d out of range (1 to %d)", width, height, MaxDimension)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForAssemble(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetAssembleDefaults fills in the site, grid families, workers and logger.
func (o *Options) SetAssembleDefaults() {
	if o.Site == (sky.Site{}) {
		o.Site = DefaultSite
	}
	if o.HourAngle == nil {
		f := grid.HourAngleFamily()
		o.HourAngle = &f
	}
	if o.Declination == nil {
		f := grid.DeclinationFamily()
		o.Declination = &f
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForAssemble applies assemble defaults and validates them.
func (o *Options) ValidateForAssemble() error {
	o.SetAssembleDefaults()
	if o.Time.IsZero() {
		return errors.New(errors.ErrCodeInvalidInput, "observation time is required")
	}
	if err := o.Site.Validate(); err != nil {
		return err
	}
	if o.HourAngle.Fixed != grid.HourAngle {
		return errors.New(errors.ErrCodeInvalidConfig, "hour angle family must hold hour angle fixed")
	}
	if o.Declination.Fixed != grid.Declination {
		return errors.New(errors.ErrCodeInvalidConfig, "declination family must hold declination fixed")
	}
	if err := o.HourAngle.Validate(); err != nil {
		return err
	}
	if err := o.Declination.Validate(); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies render defaults and validates them.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateSize(o.Width, o.Height)
}

// ObserverOptions returns the sky observer options implied by o.
func (o *Options) ObserverOptions() []sky.ObserverOption {
	var opts []sky.ObserverOption
	if o.Refraction {
		opts = append(opts, sky.WithRefraction())
	}
	return opts
}

// ChartOptions returns the chart assembly options implied by o.
// Call after SetAssembleDefaults.
func (o *Options) ChartOptions() []chart.Option {
	return []chart.Option{
		chart.WithHourAngleFamily(*o.HourAngle),
		chart.WithDeclinationFamily(*o.Declination),
		chart.WithWorkers(o.Workers),
	}
}

// FigureKeyOpts returns cache key options for figure assembly.
// Call after SetAssembleDefaults.
func (o *Options) FigureKeyOpts() cache.FigureKeyOpts {
	families, _ := json.Marshal([]*grid.Family{o.HourAngle, o.Declination})
	return cache.FigureKeyOpts{
		Latitude:   o.Site.Latitude,
		Longitude:  o.Site.Longitude,
		Height:     o.Site.Height,
		Instant:    o.Time,
		Refraction: o.Refraction,
		Grid:       cache.Hash(families),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
	}
}
