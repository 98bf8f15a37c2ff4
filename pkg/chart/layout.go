package chart

// Compass and reference points along the chart edges.
var compass = []struct {
	text string
	az   float64
}{
	{"North", 0},
	{"North", 360},
	{"East", 90},
	{"South", 180},
	{"West", 270},
}

const (
	poleLabel     = "NCP"
	compassYShift = -35
	zenithXShift  = 50
)

// FixedAnnotations returns the compass labels below the horizon, the zenith
// labels at both top corners and the pole labels at elevation ncp on both
// edges.
func FixedAnnotations(ncp float64) []Annotation {
	font := Font{Size: fixedLabelSize, Color: "black", Bold: true}

	out := make([]Annotation, 0, len(compass)+4)
	for _, c := range compass {
		out = append(out, Annotation{Text: c.text, X: c.az, Y: 0, YShift: compassYShift, Font: font})
	}
	out = append(out,
		Annotation{Text: "Zenith", X: 0, Y: 90, XShift: -zenithXShift, Font: font},
		Annotation{Text: "Zenith", X: 360, Y: 90, XShift: zenithXShift, Font: font},
		Annotation{Text: poleLabel, X: 360, Y: ncp, Font: font, Background: "white"},
		Annotation{Text: poleLabel, X: 0, Y: ncp, Font: font, Background: "white"},
	)
	return out
}

// DefaultLayout returns the azimuth/elevation frame: azimuth 0 to 360 with
// ticks every 20° (minor 10°), elevation 0 to 90 with ticks every 10° (minor
// 5°), light gray grid, legend in a row above the top right corner.
func DefaultLayout() Layout {
	return Layout{
		XAxis:      AxisLayout{Title: "Azimuth (degrees)", Min: 0, Max: 360, Major: 20, Minor: 10},
		YAxis:      AxisLayout{Title: "Elevation (degrees)", Min: 0, Max: 90, Major: 10, Minor: 5},
		GridColor:  "lightgray",
		LineColor:  "black",
		Background: "white",
		FontSize:   18,
		Legend: Legend{
			Show:       true,
			Horizontal: true,
			X:          1,
			Y:          1.02,
			XAnchor:    "right",
			YAnchor:    "bottom",
		},
	}
}
