package pipeline

import (
	"fmt"

	"github.com/matzehuels/skygrid/pkg/chart"
	"github.com/matzehuels/skygrid/pkg/errors"
	"github.com/matzehuels/skygrid/pkg/render/sink"
)

// Render draws fig once per sink and encodes every requested format.
// Plot formats share a single drawing.
func Render(fig *chart.Figure, formats []string, width, height int) (map[string][]byte, error) {
	if fig == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "figure is required")
	}
	artifacts := make(map[string][]byte, len(formats))

	var plot *sink.Plot
	for _, format := range formats {
		var data []byte
		var err error

		switch {
		case format == sink.FormatJSON:
			js := sink.NewJSON()
			if err = fig.Draw(js); err == nil {
				data, err = js.Encode(width, height)
			}
		case sink.IsPlotFormat(format):
			if plot == nil {
				plot = sink.NewPlot()
				if err := fig.Draw(plot); err != nil {
					return nil, fmt.Errorf("draw plot: %w", err)
				}
			}
			data, err = plot.Encode(format, width, height)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
