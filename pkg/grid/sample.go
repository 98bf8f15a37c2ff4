package grid

import (
	"github.com/matzehuels/skygrid/pkg/errors"
)

// Transform maps generating coordinates (a, b) to plot coordinates (x, y).
// For sky charts a is hour angle, b is declination, x is azimuth and y is
// elevation, all in degrees.
//
// Build calls the transform from several goroutines when more than one
// worker is configured, so implementations must then be safe for
// concurrent use.
type Transform func(a, b float64) (x, y float64, err error)

// Param identifies one of the two generating coordinates.
type Param int

const (
	// HourAngle is the A coordinate.
	HourAngle Param = iota
	// Declination is the B coordinate.
	Declination
)

// String returns the coordinate name.
func (p Param) String() string {
	switch p {
	case HourAngle:
		return "hour_angle"
	case Declination:
		return "declination"
	default:
		return "unknown"
	}
}

// Sample is one transformed grid point.
type Sample struct {
	A float64 `json:"a"` // hour angle, degrees
	B float64 `json:"b"` // declination, degrees
	X float64 `json:"x"` // azimuth, degrees
	Y float64 `json:"y"` // elevation, degrees
}

// RawLine is the unsegmented result of sweeping one coordinate, ordered by
// increasing sweep value.
type RawLine []Sample

// SampleLine holds fixedParam at fixed and evaluates tf once per value of
// sweep, in increasing order. Transform results are stored as returned;
// normalizing X or Y is the transform's job.
//
// The first transform error aborts the line. It is returned wrapped with
// TRANSFORM_FAILURE; the original error stays reachable through errors.Is
// and errors.As.
func SampleLine(fixed float64, fixedParam Param, sweep Range, tf Transform) (RawLine, error) {
	values := sweep.Values()
	if len(values) == 0 {
		return nil, nil
	}

	line := make(RawLine, 0, len(values))
	for _, v := range values {
		a, b := fixed, v
		if fixedParam == Declination {
			a, b = v, fixed
		}
		x, y, err := tf(a, b)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeTransformFailure, err,
				"transform at %s=%g %s=%g", HourAngle, a, Declination, b)
		}
		line = append(line, Sample{A: a, B: b, X: x, Y: y})
	}
	return line, nil
}
