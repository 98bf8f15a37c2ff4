package grid

import (
	"math"

	"github.com/matzehuels/skygrid/pkg/errors"
)

// rangeEpsilon absorbs rounding in (Stop-Start)/Step so an inclusive stop
// that is an exact multiple of Step is always reached.
const rangeEpsilon = 1e-9

// Range is an inclusive arithmetic progression Start, Start+Step, ... <= Stop.
// A Stop below Start describes an empty range.
type Range struct {
	Start float64 `json:"start" toml:"start"`
	Stop  float64 `json:"stop" toml:"stop"`
	Step  float64 `json:"step" toml:"step"`
}

// Validate checks that the bounds are finite and the step is positive.
func (r Range) Validate(name string) error {
	return errors.ValidateRange(name, r.Start, r.Stop, r.Step)
}

// Len returns the number of values in the range.
func (r Range) Len() int {
	if r.Step <= 0 || r.Stop < r.Start {
		return 0
	}
	return int(math.Floor((r.Stop-r.Start)/r.Step+rangeEpsilon)) + 1
}

// Values returns every value of the range. Each value is computed as
// Start + i*Step rather than accumulated, so long ranges do not drift.
func (r Range) Values() []float64 {
	n := r.Len()
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Start + float64(i)*r.Step
	}
	return out
}
