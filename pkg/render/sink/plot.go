package sink

import (
	"bytes"
	"image/color"
	"math"
	"strconv"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/skygrid/pkg/chart"
	"github.com/matzehuels/skygrid/pkg/errors"
)

const (
	dpi        = 96
	lineWidth  = 1.5 // pixels
	labelPad   = 2.0 // pixels around annotation backgrounds
	tickSlop   = 1e-9
	legendOffs = 10 // pixels
)

// pixels converts a pixel measure at 96 DPI to a vg.Length.
func pixels(n float64) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}

// Plot renders a figure with gonum/plot.
type Plot struct {
	plot       *plot.Plot
	grid       *plotter.Grid
	labels     *labels
	legend     []legendEntry
	configured bool
}

type legendEntry struct {
	name  string
	thumb plot.Thumbnailer
}

// NewPlot returns an empty plot ready to be drawn into.
func NewPlot() *Plot {
	p := plot.New()
	g := plotter.NewGrid()
	p.Add(g)
	return &Plot{plot: p, grid: g, labels: &labels{}}
}

// AddLine adds a trace as a polyline, with a legend entry if it claims one.
func (s *Plot) AddLine(t chart.Trace) error {
	if len(t.X) != len(t.Y) {
		return errors.New(errors.ErrCodeLengthMismatch, "trace %q has %d x and %d y values", t.Name, len(t.X), len(t.Y))
	}
	clr, err := resolveColor(t.Color)
	if err != nil {
		return err
	}

	pts := make(plotter.XYs, len(t.X))
	for i := range t.X {
		pts[i] = plotter.XY{X: t.X[i], Y: t.Y[i]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "trace %q", t.Name)
	}
	line.Color = clr
	line.LineStyle.Width = pixels(lineWidth)

	s.plot.Add(line)
	if t.ShowLegend {
		s.legend = append(s.legend, legendEntry{name: t.Name, thumb: line})
	}
	return nil
}

// AddAnnotation queues a text label. Labels are drawn above every line.
func (s *Plot) AddAnnotation(a chart.Annotation) error {
	clr, err := resolveColor(a.Font.Color)
	if err != nil {
		return err
	}
	var bg color.Color
	if a.Background != "" {
		if bg, err = resolveColor(a.Background); err != nil {
			return err
		}
	}

	fnt := font.From(plot.DefaultFont, pixels(a.Font.Size))
	if a.Font.Bold {
		fnt.Weight = xfont.WeightBold
	}
	s.labels.items = append(s.labels.items, label{
		Annotation: a,
		style: text.Style{
			Color:   clr,
			Font:    fnt,
			XAlign:  text.XCenter,
			YAlign:  text.YCenter,
			Handler: plot.DefaultTextHandler,
		},
		background: bg,
	})
	return nil
}

// Configure applies axes, grid, legend and background. It must be called
// after every line and annotation has been added.
func (s *Plot) Configure(l chart.Layout) error {
	for _, ax := range []chart.AxisLayout{l.XAxis, l.YAxis} {
		if !(ax.Max > ax.Min) || !(ax.Major > 0) || ax.Minor < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "axis %q: need min < max and a positive tick step", ax.Title)
		}
	}
	gridColor, err := resolveColor(l.GridColor)
	if err != nil {
		return err
	}
	lineColor, err := resolveColor(l.LineColor)
	if err != nil {
		return err
	}
	bg, err := resolveColor(l.Background)
	if err != nil {
		return err
	}

	p := s.plot
	p.BackgroundColor = bg
	for _, pair := range []struct {
		axis   *plot.Axis
		layout chart.AxisLayout
	}{{&p.X, l.XAxis}, {&p.Y, l.YAxis}} {
		ax, lay := pair.axis, pair.layout
		ax.Label.Text = lay.Title
		ax.Label.TextStyle.Font.Size = pixels(l.FontSize)
		ax.Tick.Label.Font.Size = pixels(l.FontSize * 0.8)
		ax.Min, ax.Max = lay.Min, lay.Max
		ax.Tick.Marker = plot.ConstantTicks(stepTicks(lay.Min, lay.Max, lay.Major, lay.Minor))
		ax.LineStyle.Color = lineColor
		ax.Tick.LineStyle.Color = lineColor
	}

	s.grid.Vertical.Color = gridColor
	s.grid.Horizontal.Color = gridColor

	p.Legend.TextStyle.Font.Size = pixels(l.FontSize)
	p.Legend.Top = l.Legend.YAnchor != "top" && l.Legend.Y >= 0.5
	p.Legend.Left = l.Legend.XAnchor == "left" || l.Legend.X < 0.5
	p.Legend.YOffs = pixels(legendOffs)

	if !s.configured {
		if l.Legend.Show {
			for _, e := range s.legend {
				p.Legend.Add(e.name, e.thumb)
			}
		}
		p.Add(s.labels)
		s.configured = true
	}
	return nil
}

// Encode renders the plot as format at width x height pixels.
func (s *Plot) Encode(format string, width, height int) ([]byte, error) {
	if !IsPlotFormat(format) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "plot cannot encode %q", format)
	}
	if !s.configured {
		return nil, errors.New(errors.ErrCodeInternal, "plot encoded before layout was configured")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid size %dx%d", width, height)
	}

	w, err := s.plot.WriterTo(pixels(float64(width)), pixels(float64(height)), format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s writer", format)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}

// stepTicks returns a tick at every multiple of minor within [lo, hi],
// labelled where it is also a multiple of major. With minor 0 only major
// ticks are produced.
func stepTicks(lo, hi, major, minor float64) []plot.Tick {
	step := minor
	if step <= 0 {
		step = major
	}
	var ticks []plot.Tick
	first := math.Ceil(lo/step - tickSlop)
	for i := 0; ; i++ {
		v := (first + float64(i)) * step
		if v > hi+tickSlop {
			break
		}
		t := plot.Tick{Value: v}
		if multipleOf(v, major) {
			t.Label = strconv.FormatFloat(v, 'f', -1, 64)
		}
		ticks = append(ticks, t)
	}
	return ticks
}

func multipleOf(v, step float64) bool {
	r := math.Mod(math.Abs(v), step)
	return r < tickSlop || step-r < tickSlop
}

type label struct {
	chart.Annotation
	style      text.Style
	background color.Color
}

// labels draws annotations in data coordinates. It implements plot.Plotter.
type labels struct {
	items []label
}

// Plot implements plot.Plotter.
func (ls *labels) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, l := range ls.items {
		pt := vg.Point{
			X: trX(l.X) + pixels(l.XShift),
			Y: trY(l.Y) + pixels(l.YShift),
		}
		if l.background != nil {
			r := l.style.Rectangle(l.Text).Add(pt)
			pad := pixels(labelPad)
			c.FillPolygon(l.background, []vg.Point{
				{X: r.Min.X - pad, Y: r.Min.Y - pad},
				{X: r.Max.X + pad, Y: r.Min.Y - pad},
				{X: r.Max.X + pad, Y: r.Max.Y + pad},
				{X: r.Min.X - pad, Y: r.Max.Y + pad},
			})
		}
		c.FillText(l.style, pt, l.Text)
	}
}
