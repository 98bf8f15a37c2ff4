package grid

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/skygrid/pkg/errors"
	"github.com/matzehuels/skygrid/pkg/segment"
)

const (
	// DefaultSweepStep is the sweep step of both default families, in degrees.
	DefaultSweepStep = 1.0

	// DefaultGapThreshold is the forward azimuth jump, in degrees, that
	// breaks a line. It only makes sense relative to DefaultSweepStep.
	DefaultGapThreshold = 5 * DefaultSweepStep
)

// Channel names used when cutting a raw line.
const (
	channelY = "y"
	channelA = "a"
	channelB = "b"
)

// Family describes one set of grid lines.
type Family struct {
	Name         string  `json:"name"`          // display name, e.g. "Hour angle"
	Fixed        Param   `json:"fixed"`         // coordinate held constant along each line
	Values       Range   `json:"values"`        // one line per value
	Sweep        Range   `json:"sweep"`         // values of the other coordinate along a line
	GapThreshold float64 `json:"gap_threshold"` // forward X jump that starts a new segment
}

// HourAngleFamily returns lines of constant hour angle from -160° to 160°
// every 20°, each swept in declination from -40° to 88°.
func HourAngleFamily() Family {
	return Family{
		Name:         "Hour angle",
		Fixed:        HourAngle,
		Values:       Range{Start: -160, Stop: 160, Step: 20},
		Sweep:        Range{Start: -40, Stop: 88, Step: DefaultSweepStep},
		GapThreshold: DefaultGapThreshold,
	}
}

// DeclinationFamily returns lines of constant declination from -30° to 70°
// every 10°, each swept in hour angle from -179° to 178°.
func DeclinationFamily() Family {
	return Family{
		Name:         "Declination",
		Fixed:        Declination,
		Values:       Range{Start: -30, Stop: 70, Step: 10},
		Sweep:        Range{Start: -179, Stop: 178, Step: DefaultSweepStep},
		GapThreshold: DefaultGapThreshold,
	}
}

// Validate checks both ranges and the gap threshold.
func (f Family) Validate() error {
	if f.Fixed != HourAngle && f.Fixed != Declination {
		return errors.New(errors.ErrCodeInvalidInput, "family %q: unknown fixed coordinate %d", f.Name, f.Fixed)
	}
	if err := f.Values.Validate(f.Name + " values"); err != nil {
		return err
	}
	if err := f.Sweep.Validate(f.Name + " sweep"); err != nil {
		return err
	}
	if math.IsNaN(f.GapThreshold) || math.IsInf(f.GapThreshold, 0) || f.GapThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidRange, "family %q: gap threshold must be finite and non-negative", f.Name)
	}
	return nil
}

// Segment is a contiguous run of a raw line with no forward X jump above
// the gap threshold.
type Segment struct {
	Fixed   float64  // value of the family's fixed coordinate
	Samples []Sample // in sweep order, never empty when produced by Build
}

// XY returns the X and Y coordinates of the segment as parallel slices.
func (s Segment) XY() (xs, ys []float64) {
	xs = make([]float64, len(s.Samples))
	ys = make([]float64, len(s.Samples))
	for i, p := range s.Samples {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// Line is every segment produced from one fixed value. A line whose sweep
// is empty has no segments.
type Line struct {
	Fixed    float64
	Segments []Segment
}

// SegmentLine cuts raw into segments on X, using threshold as the forward
// jump limit. Concatenating the returned segments reproduces raw exactly.
func SegmentLine(raw RawLine, fixed, threshold float64) ([]Segment, error) {
	n := len(raw)
	xs := make([]float64, n)
	ys := make([]float64, n)
	as := make([]float64, n)
	bs := make([]float64, n)
	for i, p := range raw {
		xs[i], ys[i], as[i], bs[i] = p.X, p.Y, p.A, p.B
	}

	groups, err := segment.Split(xs, threshold, []segment.Channel[float64]{
		{Name: channelY, Values: ys},
		{Name: channelA, Values: as},
		{Name: channelB, Values: bs},
	})
	if err != nil {
		return nil, err
	}

	segs := make([]Segment, 0, len(groups))
	for _, g := range groups {
		gy, ga, gb := g.Channel(channelY), g.Channel(channelA), g.Channel(channelB)
		samples := make([]Sample, g.Len())
		for i, x := range g.Ref {
			samples[i] = Sample{A: ga[i], B: gb[i], X: x, Y: gy[i]}
		}
		segs = append(segs, Segment{Fixed: fixed, Samples: samples})
	}
	return segs, nil
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	workers int
}

// WithWorkers samples up to n lines concurrently. Values below 2 keep
// sampling sequential. The result does not depend on n.
func WithWorkers(n int) BuildOption {
	return func(c *buildConfig) { c.workers = n }
}

// Build samples and segments every line of fam. Lines are returned in the
// order of fam.Values regardless of how many workers ran.
//
// A transform failure aborts the build and is returned wrapped with
// TRANSFORM_FAILURE. Cancelling ctx stops sampling of lines not yet started.
func Build(ctx context.Context, fam Family, tf Transform, opts ...BuildOption) ([]Line, error) {
	if err := fam.Validate(); err != nil {
		return nil, err
	}
	cfg := buildConfig{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	fixed := fam.Values.Values()
	lines := make([]Line, len(fixed))

	if cfg.workers < 2 {
		for i, v := range fixed {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			line, err := buildLine(fam, v, tf)
			if err != nil {
				return nil, err
			}
			lines[i] = line
		}
		return lines, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, v := range fixed {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			line, err := buildLine(fam, v, tf)
			if err != nil {
				return err
			}
			lines[i] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}

func buildLine(fam Family, fixed float64, tf Transform) (Line, error) {
	raw, err := SampleLine(fixed, fam.Fixed, fam.Sweep, tf)
	if err != nil {
		return Line{}, err
	}
	segs, err := SegmentLine(raw, fixed, fam.GapThreshold)
	if err != nil {
		return Line{}, errors.Wrap(errors.ErrCodeInternal, err, "segment %s line %g", fam.Fixed, fixed)
	}
	return Line{Fixed: fixed, Segments: segs}, nil
}
