// Package segment splits parallel sequences into contiguous runs.
//
// A reference sequence drives the split: wherever it jumps forward by more
// than a threshold between two adjacent elements, a new run starts. Any
// number of named companion channels are cut at the same indices, so every
// run keeps its samples aligned across channels.
//
// The canonical use is breaking azimuth polylines at the 360°→0° wrap:
//
//	groups, err := segment.Split(az, 5, []segment.Channel[float64]{
//	    {Name: "el", Values: el},
//	})
//	for _, g := range groups {
//	    draw(g.Ref, g.Channel("el"))
//	}
//
// Only forward jumps count. The comparison is strict and signed, so a drop
// of any size never splits.
package segment

import (
	"github.com/matzehuels/skygrid/pkg/errors"
)

// Number is the set of element types Split accepts. Unsigned types are
// excluded: a backward step would wrap around and read as a forward jump.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Channel is a named companion sequence cut alongside the reference.
type Channel[T Number] struct {
	Name   string
	Values []T
}

// Group is one contiguous run. Ref holds the reference slice; Channels
// holds the aligned companion slices in the order they were passed to Split.
//
// Slices alias the input arrays with their capacity capped at the run end.
type Group[T Number] struct {
	Ref      []T
	Channels []Channel[T]
}

// Len returns the number of elements in the run.
func (g Group[T]) Len() int { return len(g.Ref) }

// Channel returns the slice of the named companion, or nil if no companion
// by that name was supplied.
func (g Group[T]) Channel(name string) []T {
	for _, c := range g.Channels {
		if c.Name == name {
			return c.Values
		}
	}
	return nil
}

// Split partitions ref into runs separated wherever ref[i]-ref[i-1] exceeds
// threshold, cutting every companion at the same indices.
//
// An empty ref yields no groups at all (nil, not one empty group). Every
// companion must have len(ref) elements; otherwise Split fails with
// LENGTH_MISMATCH and returns no groups.
//
// Split is pure and safe for concurrent use with distinct arguments.
func Split[T Number](ref []T, threshold T, companions []Channel[T]) ([]Group[T], error) {
	n := len(ref)
	for _, c := range companions {
		if len(c.Values) != n {
			return nil, errors.New(errors.ErrCodeLengthMismatch,
				"channel %q has %d values, reference has %d", c.Name, len(c.Values), n)
		}
	}
	if n == 0 {
		return nil, nil
	}

	var groups []Group[T]
	start := 0
	for i := 1; i < n; i++ {
		if ref[i]-ref[i-1] > threshold {
			groups = append(groups, cut(ref, companions, start, i))
			start = i
		}
	}
	return append(groups, cut(ref, companions, start, n)), nil
}

// Boundaries returns the start index of every run Split would produce for
// ref, without materializing the groups. It is empty for an empty ref.
func Boundaries[T Number](ref []T, threshold T) []int {
	if len(ref) == 0 {
		return nil
	}
	starts := []int{0}
	for i := 1; i < len(ref); i++ {
		if ref[i]-ref[i-1] > threshold {
			starts = append(starts, i)
		}
	}
	return starts
}

func cut[T Number](ref []T, companions []Channel[T], lo, hi int) Group[T] {
	g := Group[T]{Ref: ref[lo:hi:hi]}
	if len(companions) > 0 {
		g.Channels = make([]Channel[T], len(companions))
		for j, c := range companions {
			g.Channels[j] = Channel[T]{Name: c.Name, Values: c.Values[lo:hi:hi]}
		}
	}
	return g
}
