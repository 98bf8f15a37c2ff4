package segment_test

import (
	"fmt"

	"github.com/matzehuels/skygrid/pkg/segment"
)

func ExampleSplit() {
	groups, err := segment.Split([]int{1, 2, 4, 5}, 1, []segment.Channel[int]{
		{Name: "other", Values: []int{7, 7, 8, 9}},
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, g := range groups {
		fmt.Println(g.Ref, g.Channel("other"))
	}
	// Output:
	// [1 2] [7 7]
	// [4 5] [8 9]
}

func ExampleSplit_wraparound() {
	az := []float64{357, 358.5, 359.8, 0.9, 2.2}
	el := []float64{10, 11, 12, 13, 14}

	// 359.8 -> 0.9 is a backward jump and does not split.
	groups, _ := segment.Split(az, 5, []segment.Channel[float64]{{Name: "el", Values: el}})
	fmt.Println(len(groups))

	// Decreasing through north jumps forward by 358.9 and splits.
	rev := []float64{2.2, 0.9, 359.8, 358.5, 357}
	groups, _ = segment.Split(rev, 5, []segment.Channel[float64]{{Name: "el", Values: el}})
	for _, g := range groups {
		fmt.Println(g.Ref, g.Channel("el"))
	}
	// Output:
	// 1
	// [2.2 0.9] [10 11]
	// [359.8 358.5 357] [12 13 14]
}
