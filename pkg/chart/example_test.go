package chart_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/skygrid/pkg/chart"
)

func ExampleAssemble() {
	// A toy projection with no wraparound: every line is one segment.
	tf := func(ha, dec float64) (float64, float64, error) {
		return ha + 180, dec + 40, nil
	}

	fig, err := chart.Assemble(context.Background(), tf)
	if err != nil {
		panic(err)
	}

	st := fig.Stats()
	for _, s := range st.Series {
		fmt.Printf("%s: %d lines, %d segments, %d points\n", s.Name, s.Lines, s.Segments, s.Points)
	}
	fmt.Println("annotations:", st.Annotations)

	first := fig.Annotations[0]
	fmt.Printf("%s at (%g, %g)\n", first.Text, first.X, first.Y)
	dec := fig.Annotations[17]
	fmt.Printf("%s at (%g, %g)\n", dec.Text, dec.X, dec.Y)
	// Output:
	// Hour angle: 17 lines, 17 segments, 2193 points
	// Declination: 11 lines, 11 segments, 3938 points
	// annotations: 37
	// -160° at (20, 5)
	// -30° at (180, 10)
}
