// Package sink provides output format renderers for pointing charts.
//
// # Overview
//
// A "sink" receives a [chart.Figure] through the [chart.Sink] interface and
// turns it into bytes. This package provides:
//
//   - [Plot]: raster and vector output (PNG, SVG, PDF) drawn with gonum/plot
//   - [JSON]: a Plotly figure (data + layout) for interactive viewing in a
//     browser with Plotly.newPlot
//
// # Plot Output
//
// A Plot is drawn once and can be encoded to several formats:
//
//	p := sink.NewPlot()
//	if err := fig.Draw(p); err != nil {
//	    return err
//	}
//	png, err := p.Encode(sink.FormatPNG, 1250, 900)
//	pdf, err := p.Encode(sink.FormatPDF, 1250, 900)
//
// Sizes are in pixels at 96 DPI. Colors are CSS color names resolved through
// golang.org/x/image/colornames. Annotations are drawn last, above every
// line, with their pixel offsets and optional background box.
//
// # JSON Output
//
// [JSON] keeps the figure in Plotly's own vocabulary (hovertemplate,
// customdata, dtick, annotations with xshift/yshift), so the output renders
// identically to a chart built with the Plotly libraries directly.
package sink
