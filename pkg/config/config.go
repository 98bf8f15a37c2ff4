// Package config loads skygrid run settings from TOML files.
//
// A config file describes the observing site, the observation instant, the
// output formats and optionally custom grid families:
//
//	[site]
//	name = "GALT"
//	latitude = 49.32102306
//	longitude = -119.61898028
//	height = 546.566
//
//	[chart]
//	time = "2024-03-20T04:00:00Z"
//	formats = ["png", "json"]
//
//	[grid.declination]
//	values = { start = -30, stop = 70, step = 10 }
//	gap_threshold = 5
//
//	[cache]
//	url = "redis://localhost:6379/0"
//
// Every key is optional. Unknown keys are rejected so typos surface early.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/skygrid/pkg/errors"
	"github.com/matzehuels/skygrid/pkg/grid"
	"github.com/matzehuels/skygrid/pkg/pipeline"
	"github.com/matzehuels/skygrid/pkg/sky"
)

// Config is the decoded contents of a config file.
type Config struct {
	Site  SiteConfig  `toml:"site"`
	Chart ChartConfig `toml:"chart"`
	Grid  GridConfig  `toml:"grid"`
	Cache CacheConfig `toml:"cache"`

	hasSite bool
	instant time.Time
}

// SiteConfig is the [site] table.
type SiteConfig struct {
	Name      string  `toml:"name"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
	Height    float64 `toml:"height"`
}

// ChartConfig is the [chart] table.
type ChartConfig struct {
	Time       string   `toml:"time"` // RFC 3339, or "now"
	Formats    []string `toml:"formats"`
	Width      int      `toml:"width"`
	Height     int      `toml:"height"`
	Refraction bool     `toml:"refraction"`
	Workers    int      `toml:"workers"`
}

// GridConfig holds optional overrides for the two grid families.
type GridConfig struct {
	HourAngle   *FamilyConfig `toml:"hour_angle"`
	Declination *FamilyConfig `toml:"declination"`
}

// FamilyConfig overrides parts of a default family. Unset fields keep the
// default.
type FamilyConfig struct {
	Values       *grid.Range `toml:"values"`
	Sweep        *grid.Range `toml:"sweep"`
	GapThreshold *float64    `toml:"gap_threshold"`
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	URL      string `toml:"url"`
	Disabled bool   `toml:"disabled"`
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes and validates TOML config data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	if md.IsDefined("site") {
		if !md.IsDefined("site", "latitude") || !md.IsDefined("site", "longitude") {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "[site] needs both latitude and longitude")
		}
		cfg.hasSite = true
		if err := cfg.site().Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[site]")
		}
	}

	switch cfg.Chart.Time {
	case "", "now":
	default:
		t, err := time.Parse(time.RFC3339, cfg.Chart.Time)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart.time %q is not RFC 3339", cfg.Chart.Time)
		}
		cfg.instant = t
	}

	if err := pipeline.ValidateFormats(cfg.Chart.Formats); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart.formats")
	}
	if cfg.Chart.Width < 0 || cfg.Chart.Height < 0 || cfg.Chart.Workers < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "chart width, height and workers must not be negative")
	}
	if cfg.Cache.URL != "" && cfg.Cache.Disabled {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "cache.url and cache.disabled are mutually exclusive")
	}

	for _, f := range []*grid.Family{cfg.hourAngle(), cfg.declination()} {
		if f == nil {
			continue
		}
		if err := f.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[grid]")
		}
	}
	return &cfg, nil
}

// HasSite reports whether the file defined a [site] table.
func (c *Config) HasSite() bool { return c.hasSite }

// Instant returns the configured observation time, or the zero time when
// the file left it unset or asked for "now".
func (c *Config) Instant() time.Time { return c.instant }

// ApplyTo copies every setting the file defines onto opts. Settings the
// file leaves unset are not touched.
func (c *Config) ApplyTo(opts *pipeline.Options) {
	if c.hasSite {
		opts.Site = c.site()
	}
	if !c.instant.IsZero() {
		opts.Time = c.instant
	}
	if len(c.Chart.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Chart.Formats...)
	}
	if c.Chart.Width > 0 {
		opts.Width = c.Chart.Width
	}
	if c.Chart.Height > 0 {
		opts.Height = c.Chart.Height
	}
	if c.Chart.Workers > 0 {
		opts.Workers = c.Chart.Workers
	}
	if c.Chart.Refraction {
		opts.Refraction = true
	}
	if f := c.hourAngle(); f != nil {
		opts.HourAngle = f
	}
	if f := c.declination(); f != nil {
		opts.Declination = f
	}
}

func (c *Config) site() sky.Site {
	return sky.Site{
		Name:      c.Site.Name,
		Latitude:  c.Site.Latitude,
		Longitude: c.Site.Longitude,
		Height:    c.Site.Height,
	}
}

func (c *Config) hourAngle() *grid.Family {
	return c.Grid.HourAngle.merge(grid.HourAngleFamily())
}

func (c *Config) declination() *grid.Family {
	return c.Grid.Declination.merge(grid.DeclinationFamily())
}

// merge returns base with fc's overrides, or nil when fc is nil.
func (fc *FamilyConfig) merge(base grid.Family) *grid.Family {
	if fc == nil {
		return nil
	}
	if fc.Values != nil {
		base.Values = *fc.Values
	}
	if fc.Sweep != nil {
		base.Sweep = *fc.Sweep
	}
	if fc.GapThreshold != nil {
		base.GapThreshold = *fc.GapThreshold
	}
	return &base
}
