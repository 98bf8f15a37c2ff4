package sink

import (
	"encoding/json"

	"github.com/matzehuels/skygrid/pkg/chart"
	"github.com/matzehuels/skygrid/pkg/errors"
)

// JSON collects a figure as a Plotly figure document.
type JSON struct {
	data        []plotlyTrace
	annotations []plotlyAnnotation
	layout      *chart.Layout
}

// NewJSON returns an empty Plotly figure sink.
func NewJSON() *JSON { return &JSON{} }

type plotlyFigure struct {
	Data   []plotlyTrace `json:"data"`
	Layout plotlyLayout  `json:"layout"`
}

type plotlyTrace struct {
	Type          string       `json:"type"`
	Mode          string       `json:"mode"`
	Name          string       `json:"name"`
	X             []float64    `json:"x"`
	Y             []float64    `json:"y"`
	CustomData    [][2]float64 `json:"customdata"`
	Line          plotlyLine   `json:"line"`
	ShowLegend    bool         `json:"showlegend"`
	LegendGroup   string       `json:"legendgroup"`
	HoverTemplate string       `json:"hovertemplate,omitempty"`
}

type plotlyLine struct {
	Color string `json:"color"`
}

type plotlyFont struct {
	Size   float64 `json:"size"`
	Color  string  `json:"color,omitempty"`
	Weight string  `json:"weight,omitempty"`
}

type plotlyAnnotation struct {
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Text      string     `json:"text"`
	ShowArrow bool       `json:"showarrow"`
	BgColor   string     `json:"bgcolor,omitempty"`
	Font      plotlyFont `json:"font"`
	Align     string     `json:"align"`
	XShift    float64    `json:"xshift,omitempty"`
	YShift    float64    `json:"yshift,omitempty"`
}

type plotlyMinor struct {
	TickLen  int     `json:"ticklen"`
	DTick    float64 `json:"dtick"`
	Ticks    string  `json:"ticks"`
	ShowGrid bool    `json:"showgrid"`
}

type plotlyTitle struct {
	Text string `json:"text"`
}

type plotlyAxis struct {
	Title     plotlyTitle  `json:"title"`
	Range     [2]float64   `json:"range"`
	DTick     float64      `json:"dtick"`
	ShowLine  bool         `json:"showline"`
	LineColor string       `json:"linecolor"`
	LineWidth int          `json:"linewidth"`
	Ticks     string       `json:"ticks"`
	TickWidth int          `json:"tickwidth"`
	TickLen   int          `json:"ticklen"`
	Mirror    string       `json:"mirror"`
	ShowGrid  bool         `json:"showgrid"`
	GridColor string       `json:"gridcolor"`
	GridWidth float64      `json:"gridwidth"`
	Minor     *plotlyMinor `json:"minor,omitempty"`
}

type plotlyLegend struct {
	Orientation string  `json:"orientation,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor,omitempty"`
	YAnchor     string  `json:"yanchor,omitempty"`
}

type plotlyLayout struct {
	XAxis        plotlyAxis         `json:"xaxis"`
	YAxis        plotlyAxis         `json:"yaxis"`
	PaperBgColor string             `json:"paper_bgcolor"`
	PlotBgColor  string             `json:"plot_bgcolor"`
	ShowLegend   bool               `json:"showlegend"`
	Legend       plotlyLegend       `json:"legend"`
	Font         plotlyFont         `json:"font"`
	Annotations  []plotlyAnnotation `json:"annotations"`
	Width        int                `json:"width,omitempty"`
	Height       int                `json:"height,omitempty"`
}

// AddLine records a trace.
func (s *JSON) AddLine(t chart.Trace) error {
	if len(t.X) != len(t.Y) || len(t.Meta) != len(t.X) {
		return errors.New(errors.ErrCodeLengthMismatch, "trace %q has %d x, %d y and %d meta values",
			t.Name, len(t.X), len(t.Y), len(t.Meta))
	}
	s.data = append(s.data, plotlyTrace{
		Type:          "scatter",
		Mode:          "lines+text",
		Name:          t.Name,
		X:             t.X,
		Y:             t.Y,
		CustomData:    t.Meta,
		Line:          plotlyLine{Color: t.Color},
		ShowLegend:    t.ShowLegend,
		LegendGroup:   t.Name,
		HoverTemplate: t.HoverTemplate,
	})
	return nil
}

// AddAnnotation records a text label.
func (s *JSON) AddAnnotation(a chart.Annotation) error {
	f := plotlyFont{Size: a.Font.Size, Color: a.Font.Color}
	if a.Font.Bold {
		f.Weight = "bold"
	}
	s.annotations = append(s.annotations, plotlyAnnotation{
		X:       a.X,
		Y:       a.Y,
		Text:    a.Text,
		BgColor: a.Background,
		Font:    f,
		Align:   "center",
		XShift:  a.XShift,
		YShift:  a.YShift,
	})
	return nil
}

// Configure records the layout.
func (s *JSON) Configure(l chart.Layout) error {
	s.layout = &l
	return nil
}

// Encode returns the figure as JSON. Positive width and height are written
// into the layout; otherwise Plotly sizes the figure to its container.
func (s *JSON) Encode(width, height int) ([]byte, error) {
	if s.layout == nil {
		return nil, errors.New(errors.ErrCodeInternal, "json encoded before layout was configured")
	}
	l := *s.layout

	data := s.data
	if data == nil {
		data = []plotlyTrace{}
	}
	annotations := s.annotations
	if annotations == nil {
		annotations = []plotlyAnnotation{}
	}

	out := plotlyFigure{
		Data: data,
		Layout: plotlyLayout{
			XAxis:        axis(l.XAxis, l),
			YAxis:        axis(l.YAxis, l),
			PaperBgColor: l.Background,
			PlotBgColor:  l.Background,
			ShowLegend:   l.Legend.Show,
			Legend: plotlyLegend{
				X:       l.Legend.X,
				Y:       l.Legend.Y,
				XAnchor: l.Legend.XAnchor,
				YAnchor: l.Legend.YAnchor,
			},
			Font:        plotlyFont{Size: l.FontSize},
			Annotations: annotations,
		},
	}
	if l.Legend.Horizontal {
		out.Layout.Legend.Orientation = "h"
	}
	if width > 0 && height > 0 {
		out.Layout.Width, out.Layout.Height = width, height
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal plotly figure")
	}
	return b, nil
}

func axis(a chart.AxisLayout, l chart.Layout) plotlyAxis {
	out := plotlyAxis{
		Title:     plotlyTitle{Text: a.Title},
		Range:     [2]float64{a.Min, a.Max},
		DTick:     a.Major,
		ShowLine:  true,
		LineColor: l.LineColor,
		LineWidth: 2,
		Ticks:     "inside",
		TickWidth: 2,
		TickLen:   10,
		Mirror:    "ticks",
		ShowGrid:  true,
		GridColor: l.GridColor,
		GridWidth: 0.5,
	}
	if a.Minor > 0 {
		out.Minor = &plotlyMinor{TickLen: 5, DTick: a.Minor, Ticks: "inside"}
	}
	return out
}
