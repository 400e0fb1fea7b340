package globalview_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvstitch/builder"
	"github.com/katalvlaran/lvstitch/globalview"
)

// ExampleEngine_Fit stitches five rigidly moved patches of a flat strip.
func ExampleEngine_Fit() {
	ds, err := builder.Generate(builder.ShapeStrip, 200, 5, 80)
	if err != nil {
		fmt.Println(err)
		return
	}
	opts := globalview.DefaultOptions()
	opts.RefineAlgoName = "procrustes"
	opts.Logger = quiet()

	eng, err := globalview.New(ds.Views, opts)
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := eng.Fit(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	r, c := res.Y.Dims()
	fmt.Printf("clusters: %d\n", len(res.Clusters))
	fmt.Printf("y: %dx%d\n", r, c)
	fmt.Printf("status: %s\n", res.Status)
	fmt.Printf("stitched: %t\n", res.FinalErr < 1e-10)
	// Output:
	// clusters: 1
	// y: 200x2
	// status: converged
	// stitched: true
}
