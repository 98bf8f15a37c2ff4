package chart

import (
	"context"
	"strconv"

	"github.com/matzehuels/skygrid/pkg/errors"
	"github.com/matzehuels/skygrid/pkg/grid"
)

// HoverTemplate formats the per-point tooltip of every trace.
const HoverTemplate = "HA: %{customdata[0]:.2f}°<br>" +
	"Dec: %{customdata[1]:.2f}°<br>" +
	"Az: %{x:.2f}°<br>" +
	"El: %{y:.2f}°<extra></extra>"

const (
	// HourAngleLabelElevation is the elevation hour-angle labels are pinned to.
	HourAngleLabelElevation = 5.0
	// DeclinationLabelAzimuth is the azimuth declination labels seek.
	DeclinationLabelAzimuth = 180.0

	lineLabelSize  = 12.0
	fixedLabelSize = 14.0
)

// series ties a grid family to its styling and label rule.
type series struct {
	family grid.Family
	color  string
	axis   grid.Axis
	target float64
	pinY   bool // draw the label at Y = target instead of at the sample
}

func hourAngleSeries(fam grid.Family) series {
	return series{family: fam, color: "blue", axis: grid.AxisY, target: HourAngleLabelElevation, pinY: true}
}

func declinationSeries(fam grid.Family) series {
	return series{family: fam, color: "red", axis: grid.AxisX, target: DeclinationLabelAzimuth}
}

// legend is the per-series "legend entry already used" state.
type legend struct{ shown bool }

// claim reports whether the next trace gets the legend entry, and the state
// after it is drawn.
func (l legend) claim() (show bool, next legend) {
	return !l.shown, legend{shown: true}
}

// Option configures Assemble.
type Option func(*config)

type config struct {
	hourAngle   grid.Family
	declination grid.Family
	workers     int
}

// WithHourAngleFamily replaces the default hour-angle lines.
func WithHourAngleFamily(f grid.Family) Option {
	return func(c *config) { c.hourAngle = f }
}

// WithDeclinationFamily replaces the default declination lines.
func WithDeclinationFamily(f grid.Family) Option {
	return func(c *config) { c.declination = f }
}

// WithWorkers samples up to n lines of each family concurrently.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// Assemble builds the pointing chart for tf. tf maps (hour angle,
// declination) to (azimuth, elevation) in degrees; it is called once per
// grid sample plus once more for the north celestial pole.
func Assemble(ctx context.Context, tf grid.Transform, opts ...Option) (*Figure, error) {
	if tf == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "transform is required")
	}
	cfg := config{
		hourAngle:   grid.HourAngleFamily(),
		declination: grid.DeclinationFamily(),
		workers:     1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	fig := &Figure{Layout: DefaultLayout()}
	for _, s := range []series{hourAngleSeries(cfg.hourAngle), declinationSeries(cfg.declination)} {
		lines, err := grid.Build(ctx, s.family, tf, grid.WithWorkers(cfg.workers))
		if err != nil {
			return nil, err
		}
		if err := s.appendTo(fig, lines); err != nil {
			return nil, err
		}
	}

	_, ncp, err := tf(0, 90)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransformFailure, err, "transform north celestial pole")
	}
	fig.Annotations = append(fig.Annotations, FixedAnnotations(ncp)...)
	return fig, nil
}

// appendTo adds one trace and one label per segment of lines to fig.
func (s series) appendTo(fig *Figure, lines []grid.Line) error {
	var lg legend
	for _, line := range lines {
		text := FormatDegrees(line.Fixed)
		for _, seg := range line.Segments {
			anchor, err := grid.PlaceLabel(seg, s.axis, s.target)
			if err != nil {
				return err
			}

			var show bool
			show, lg = lg.claim()
			fig.Traces = append(fig.Traces, s.trace(seg, show))

			y := anchor.Sample.Y
			if s.pinY {
				y = s.target
			}
			fig.Annotations = append(fig.Annotations, Annotation{
				Text:       text,
				X:          anchor.Sample.X,
				Y:          y,
				Font:       Font{Size: lineLabelSize, Color: s.color, Bold: true},
				Background: "white",
			})
		}
	}
	return nil
}

func (s series) trace(seg grid.Segment, showLegend bool) Trace {
	xs, ys := seg.XY()
	meta := make([][2]float64, len(seg.Samples))
	for i, p := range seg.Samples {
		meta[i] = [2]float64{p.A, p.B}
	}
	return Trace{
		Name:          s.family.Name,
		Fixed:         seg.Fixed,
		X:             xs,
		Y:             ys,
		Meta:          meta,
		Color:         s.color,
		ShowLegend:    showLegend,
		HoverTemplate: HoverTemplate,
	}
}

// FormatDegrees renders v with as few digits as needed and a degree sign,
// e.g. "-160°" or "22.5°".
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°"
}
