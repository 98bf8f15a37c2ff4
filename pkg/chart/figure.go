package chart

import (
	"github.com/matzehuels/skygrid/pkg/errors"
)

// Font describes annotation text.
type Font struct {
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Bold  bool    `json:"bold,omitempty"`
}

// Trace is one drawn segment of a grid line.
type Trace struct {
	Name          string       `json:"name"`   // series name, shared by every trace of a series
	Fixed         float64      `json:"fixed"`  // fixed coordinate of the line the segment belongs to
	X             []float64    `json:"x"`      // azimuth, degrees
	Y             []float64    `json:"y"`      // elevation, degrees
	Meta          [][2]float64 `json:"meta"`   // per-point [hour angle, declination]
	Color         string       `json:"color"`  // named color
	ShowLegend    bool         `json:"legend"` // true for exactly one trace per series
	HoverTemplate string       `json:"hover,omitempty"`
}

// Len returns the number of points in the trace.
func (t Trace) Len() int { return len(t.X) }

// Annotation is a text label in data coordinates, optionally nudged by a
// pixel offset.
type Annotation struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	XShift     float64 `json:"xshift,omitempty"` // pixels, positive right
	YShift     float64 `json:"yshift,omitempty"` // pixels, positive up
	Font       Font    `json:"font"`
	Background string  `json:"background,omitempty"` // empty means transparent
}

// AxisLayout describes one plot axis.
type AxisLayout struct {
	Title string  `json:"title"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Major float64 `json:"major"` // labelled tick spacing
	Minor float64 `json:"minor"` // unlabelled tick spacing, 0 for none
}

// Legend places the legend relative to the plot area, in fractions of its
// width and height.
type Legend struct {
	Show       bool    `json:"show"`
	Horizontal bool    `json:"horizontal"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	XAnchor    string  `json:"xanchor"`
	YAnchor    string  `json:"yanchor"`
}

// Layout is the figure-wide presentation.
type Layout struct {
	XAxis      AxisLayout `json:"xaxis"`
	YAxis      AxisLayout `json:"yaxis"`
	GridColor  string     `json:"grid_color"`
	LineColor  string     `json:"line_color"`
	Background string     `json:"background"`
	FontSize   float64    `json:"font_size"`
	Legend     Legend     `json:"legend"`
}

// Figure is an assembled chart.
type Figure struct {
	Traces      []Trace      `json:"traces"`
	Annotations []Annotation `json:"annotations"`
	Layout      Layout       `json:"layout"`
}

// Sink receives a figure piece by piece. Implementations render to a
// concrete output format.
type Sink interface {
	AddLine(Trace) error
	AddAnnotation(Annotation) error
	Configure(Layout) error
}

// Draw hands every trace, then every annotation, then the layout to s. The
// first sink error stops drawing.
func (f *Figure) Draw(s Sink) error {
	for i, t := range f.Traces {
		if err := s.AddLine(t); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "draw trace %d (%s %g)", i, t.Name, t.Fixed)
		}
	}
	for i, a := range f.Annotations {
		if err := s.AddAnnotation(a); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "draw annotation %d (%q)", i, a.Text)
		}
	}
	if err := s.Configure(f.Layout); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "configure layout")
	}
	return nil
}

// PoleElevation returns the elevation of the north celestial pole label,
// and false if the figure has none.
func (f *Figure) PoleElevation() (float64, bool) {
	for _, a := range f.Annotations {
		if a.Text == poleLabel {
			return a.Y, true
		}
	}
	return 0, false
}

// SeriesStats counts what one series contributed.
type SeriesStats struct {
	Name     string `json:"name"`
	Lines    int    `json:"lines"`    // distinct fixed values with at least one segment
	Segments int    `json:"segments"` // traces
	Points   int    `json:"points"`
}

// Stats summarises a figure.
type Stats struct {
	Series      []SeriesStats `json:"series"`
	Annotations int           `json:"annotations"`
}

// Stats counts lines, segments and points per series, in order of first
// appearance.
func (f *Figure) Stats() Stats {
	var st Stats
	index := map[string]int{}
	seen := map[string]map[float64]bool{}
	for _, t := range f.Traces {
		i, ok := index[t.Name]
		if !ok {
			i = len(st.Series)
			index[t.Name] = i
			seen[t.Name] = map[float64]bool{}
			st.Series = append(st.Series, SeriesStats{Name: t.Name})
		}
		s := &st.Series[i]
		if !seen[t.Name][t.Fixed] {
			seen[t.Name][t.Fixed] = true
			s.Lines++
		}
		s.Segments++
		s.Points += t.Len()
	}
	st.Annotations = len(f.Annotations)
	return st
}
