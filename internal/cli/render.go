package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/skygrid/pkg/config"
	"github.com/matzehuels/skygrid/pkg/errors"
	"github.com/matzehuels/skygrid/pkg/pipeline"
	"github.com/matzehuels/skygrid/pkg/render/sink"
	"github.com/matzehuels/skygrid/pkg/sky"
)

// defaultOutputSuffix is appended to the site name to derive output files.
const defaultOutputSuffix = "_grid"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	configPath string  // TOML config file
	output     string  // output file (single format) or base path (multiple)
	formats    string  // comma-separated output formats
	siteName   string  // site name
	lat        float64 // site latitude, degrees north
	lon        float64 // site longitude, degrees east
	altitude   float64 // site height, meters
	timeStr    string  // observation time, RFC 3339 or "now"
	width      int     // output width in pixels
	height     int     // output height in pixels
	refraction bool    // apply atmospheric refraction
	workers    int     // concurrent grid lines
	noCache    bool    // disable caching
	refresh    bool    // skip cache reads
	cacheURL   string  // redis cache URL
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the HA/Dec grid chart for a site",
		Long: `Render the HA/Dec grid chart for a site.

Lines of constant hour angle (blue) and constant declination (red) are
projected onto azimuth and elevation for the site and time given, split
where they wrap around north and labelled in place.

Without flags the chart is drawn for DRAO at the current time. A TOML file
passed with --config can set every option; flags given on the command line
override it.

Examples:
  skygrid render                                  # DRAO, now, PNG
  skygrid render -f png,json -o galt              # galt.png and galt.json
  skygrid render --lat 52.2 --lon 6.6 --time 2024-03-20T04:00:00Z
  skygrid render --config examples/galt.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, cs, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), popts, cs, opts.output)
		},
	}

	f := cmd.Flags()
	opts.addSiteFlags(f)
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), svg, pdf, json (comma-separated)")
	f.IntVar(&opts.width, "width", pipeline.DefaultWidth, "output width in pixels")
	f.IntVar(&opts.height, "height", pipeline.DefaultHeight, "output height in pixels")
	f.BoolVar(&opts.refraction, "refraction", false, "apply atmospheric refraction to elevations")
	f.IntVar(&opts.workers, "workers", pipeline.DefaultWorkers, "grid lines sampled concurrently")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	f.StringVar(&opts.cacheURL, "cache-url", "", "redis URL for a shared cache (e.g. redis://localhost:6379/0)")

	return cmd
}

// addSiteFlags registers the flags shared by every command that needs a
// site and an instant.
func (o *renderOpts) addSiteFlags(f *pflag.FlagSet) {
	f.StringVar(&o.configPath, "config", "", "TOML config file")
	f.StringVar(&o.siteName, "site-name", "", "site name")
	f.Float64Var(&o.lat, "lat", pipeline.DefaultSite.Latitude, "site latitude in degrees north")
	f.Float64Var(&o.lon, "lon", pipeline.DefaultSite.Longitude, "site longitude in degrees east")
	f.Float64Var(&o.altitude, "altitude", pipeline.DefaultSite.Height, "site height in meters")
	f.StringVar(&o.timeStr, "time", "now", "observation time (RFC 3339) or now")
}

// resolve merges defaults, the config file and explicitly set flags, in that
// order of increasing precedence.
func (o *renderOpts) resolve(cmd *cobra.Command) (pipeline.Options, cacheSettings, error) {
	var opts pipeline.Options
	var cs cacheSettings
	changed := cmd.Flags().Changed

	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return opts, cs, err
		}
		cfg.ApplyTo(&opts)
		cs = cacheSettings{disabled: cfg.Cache.Disabled, url: cfg.Cache.URL, dir: cfg.Cache.Dir}
	}

	if opts.Site == (sky.Site{}) {
		opts.Site = pipeline.DefaultSite
	}
	if changed("lat") || changed("lon") || changed("altitude") {
		// Coordinates from flags describe a different site unless named.
		if !changed("site-name") {
			opts.Site.Name = ""
		}
	}
	if changed("lat") {
		opts.Site.Latitude = o.lat
	}
	if changed("lon") {
		opts.Site.Longitude = o.lon
	}
	if changed("altitude") {
		opts.Site.Height = o.altitude
	}
	if changed("site-name") {
		opts.Site.Name = o.siteName
	}

	if changed("time") || opts.Time.IsZero() {
		t, err := parseTime(o.timeStr, time.Now)
		if err != nil {
			return opts, cs, err
		}
		opts.Time = t
	}

	if changed("format") {
		opts.Formats = parseFormats(o.formats)
	}
	if changed("width") || opts.Width == 0 {
		opts.Width = o.width
	}
	if changed("height") || opts.Height == 0 {
		opts.Height = o.height
	}
	if changed("workers") || opts.Workers == 0 {
		opts.Workers = o.workers
	}
	if changed("refraction") {
		opts.Refraction = o.refraction
	}
	opts.Refresh = o.refresh

	if changed("cache-url") {
		cs.url = o.cacheURL
	}
	if o.noCache {
		cs = cacheSettings{disabled: true}
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, cs, err
	}
	return opts, cs, nil
}

// parseTime accepts RFC 3339 timestamps and the word "now".
func parseTime(s string, now func() time.Time) (time.Time, error) {
	if s == "" || strings.EqualFold(s, "now") {
		return now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid --time %q (want RFC 3339, e.g. 2024-03-20T04:00:00Z)", s)
	}
	return t.UTC(), nil
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, cs cacheSettings, output string) error {
	runID := uuid.NewString()
	logger := loggerFromContext(ctx).With("run", runID[:8])
	opts.Logger = logger

	logger.Debug("starting render",
		"site", opts.Site,
		"time", opts.Time.Format(time.RFC3339),
		"formats", opts.Formats,
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height))

	runner, err := c.newRunner(ctx, cs)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Charting %s...", opts.Site))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Chart failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.done("Chart complete")

	printSuccess("Charted %s at %s", StyleHighlight.Render(opts.Site.String()), opts.Time.Format(time.RFC3339))
	printStats(result.Stats.Lines, result.Stats.Segments, result.CacheInfo.FigureHit && result.CacheInfo.RenderHit)

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		base:      outputBase(output, opts.Site.String()),
		output:    output,
	})
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // path without extension
	output    string // explicit output path, used as-is for a single format
}

// writeArtifacts writes each artifact to disk in format order.
func writeArtifacts(p artifactWriteParams) error {
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return errors.New(errors.ErrCodeInternal, "no %s artifact produced", format)
		}
		path := artifactPath(p, format)
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// artifactPath returns the file for one format. A single format with an
// explicit output path is written exactly there.
func artifactPath(p artifactWriteParams, format string) string {
	if len(p.formats) == 1 && p.output != "" && filepath.Ext(p.output) != "" {
		return p.output
	}
	return p.base + "." + format
}

// outputBase derives the base output path. A known format extension on
// output is stripped; without output the site name is used.
func outputBase(output, siteName string) string {
	if output == "" {
		return fileStem(siteName) + defaultOutputSuffix
	}
	ext := filepath.Ext(output)
	if sink.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// fileStem lowercases s and replaces anything outside [a-z0-9] with '_'.
func fileStem(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return appName
	}
	return b.String()
}
