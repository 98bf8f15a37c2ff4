package sink

import (
	"image/color"
	"slices"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/matzehuels/skygrid/pkg/errors"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatPNG, FormatSVG, FormatPDF, FormatJSON}

// IsPlotFormat reports whether format is rendered by [Plot].
func IsPlotFormat(format string) bool {
	return format == FormatPNG || format == FormatSVG || format == FormatPDF
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// resolveColor looks up a CSS color name.
func resolveColor(name string) (color.Color, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown color %q", name)
	}
	return c, nil
}
