package grid

import (
	"math"

	"github.com/matzehuels/skygrid/pkg/errors"
)

// Axis selects the X or Y coordinate of a sample.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// String returns "x" or "y".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "unknown"
	}
}

func (a Axis) of(s Sample) float64 {
	if a == AxisY {
		return s.Y
	}
	return s.X
}

// Anchor is the sample a label is attached to.
type Anchor struct {
	Index  int    // position within the segment
	Sample Sample // the sample at Index
}

// PlaceLabel returns the sample of seg whose coordinate on axis is closest
// to target. Ties go to the earliest sample.
//
// An empty segment has nowhere to put a label and fails with EMPTY_SEGMENT.
func PlaceLabel(seg Segment, axis Axis, target float64) (Anchor, error) {
	if axis != AxisX && axis != AxisY {
		return Anchor{}, errors.New(errors.ErrCodeInvalidInput, "unknown label axis %d", axis)
	}
	if len(seg.Samples) == 0 {
		return Anchor{}, errors.New(errors.ErrCodeEmptySegment, "no samples to anchor label for line %g", seg.Fixed)
	}

	best, bestDist := 0, math.Inf(1)
	for i, s := range seg.Samples {
		if d := math.Abs(axis.of(s) - target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return Anchor{Index: best, Sample: seg.Samples[best]}, nil
}
