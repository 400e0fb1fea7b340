package globalview_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/builder"
	"github.com/katalvlaran/lvstitch/globalview"
	"github.com/katalvlaran/lvstitch/refine"
	"github.com/katalvlaran/lvstitch/repair"
	"github.com/katalvlaran/lvstitch/view"
	"github.com/katalvlaran/lvstitch/vis"
)

func quiet() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{Level: log.ErrorLevel})
}

func stripOptions() globalview.Options {
	o := globalview.DefaultOptions()
	o.RefineAlgoName = "procrustes"
	o.Patience = 1
	o.Logger = quiet()
	return o
}

func TestFit_SingleViewRoundTrip(t *testing.T) {
	ds, err := builder.Generate(builder.ShapeStrip, 40, 1, 10)
	require.NoError(t, err)

	eng, err := globalview.New(ds.Views, stripOptions())
	require.NoError(t, err)
	res, err := eng.Fit(context.Background())
	require.NoError(t, err)

	want, err := ds.Views.Local(0, ds.Views.Domain(0))
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, res.Y, 1e-12))
	assert.Equal(t, [][]int{{0}}, res.Clusters)
	assert.Equal(t, 0, res.TornPairs)
	assert.InDelta(t, 0, res.InitErr, 1e-20)
}

func TestFit_StripStitchedExactly(t *testing.T) {
	ds, err := builder.Generate(builder.ShapeStrip, 200, 5, 80)
	require.NoError(t, err)
	rec := &vis.Recorder{}
	o := stripOptions()
	o.Sink = rec
	o.VisBeforeInit = true
	o.NProc = 3

	eng, err := globalview.New(ds.Views, o)
	require.NoError(t, err)
	res, err := eng.Fit(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Clusters, 1)
	assert.Less(t, res.InitErr, 1e-10)
	assert.Equal(t, refine.Converged, res.Status)
	require.True(t, res.HasFinalErr)
	assert.Less(t, res.FinalErr, 1e-10)
	assert.Equal(t, res.Iterations, len(res.Tracker.Iters))

	titles := rec.Titles()
	require.GreaterOrEqual(t, len(titles), 3)
	assert.Equal(t, "Before_Init", titles[0])
	assert.Equal(t, "Init", titles[1])
	assert.Equal(t, "Iter_1", titles[2])

	// y agrees with each point's owner view.
	owner := ds.Views.Owners()
	for n := 0; n < ds.Views.Points(); n++ {
		e, err := ds.Views.Eval(owner[n], []int{n})
		require.NoError(t, err)
		assert.InDeltaSlice(t, e.RawRowView(0), res.Y.RawRowView(n), 1e-9)
	}
	// The global frame is isometric to the ground truth.
	assert.InDelta(t, dist(ds.Intrinsic, 0, 199), dist(res.Y, 0, 199), 1e-8)
}

func dist(x *mat.Dense, i, j int) float64 {
	var d mat.VecDense
	d.SubVec(x.RowView(i), x.RowView(j))
	return mat.Norm(&d, 2)
}

func TestFit_ForcedClustersSpread(t *testing.T) {
	ds, err := builder.Generate(builder.ShapeStrip, 120, 4, 50)
	require.NoError(t, err)
	o := stripOptions()
	o.NForcedClusters = 2
	o.MaxIter = 2

	eng, err := globalview.New(ds.Views, o)
	require.NoError(t, err)
	res, err := eng.Fit(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Clusters, 2)

	// Spacing is already applied: running it again moves nothing.
	y := mat.DenseCopyOf(res.Y)
	shift, err := eng.Sequence().Spread(y, ds.Views.Owners())
	require.NoError(t, err)
	for _, s := range shift {
		assert.InDelta(t, 0, s, 1e-9)
	}
}

func TestRefine_Resumable(t *testing.T) {
	ds, err := builder.Generate(builder.ShapeRing, 150, 8, 30)
	require.NoError(t, err)
	o := globalview.DefaultOptions()
	o.Logger = quiet()
	o.MaxIter = 2
	o.ComputeError = false
	o.TearColorMethod = "heuristic"

	eng, err := globalview.New(ds.Views, o)
	require.NoError(t, err)

	_, err = eng.Result()
	assert.ErrorIs(t, err, globalview.ErrNotComposed)
	assert.ErrorIs(t, eng.Refine(context.Background(), false), globalview.ErrNotComposed)

	res, err := eng.Fit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, refine.IterationBudgetExhausted, res.Status)
	assert.Equal(t, 2, res.Iterations)
	require.NotNil(t, res.Coloring)
	assert.Equal(t, 150, res.Coloring.Len())

	require.NoError(t, eng.Refine(context.Background(), false))
	res, err = eng.Result()
	require.NoError(t, err)
	assert.Equal(t, 4, res.Iterations)
	assert.Len(t, res.Transforms, 8)

	d, _, err := eng.Distances(context.Background(), repair.Options{})
	require.NoError(t, err)
	r, c := d.Dims()
	assert.Equal(t, 150, r)
	assert.Equal(t, 150, c)
	for i := 0; i < r; i++ {
		assert.Equal(t, 0.0, d.At(i, i))
	}
}

func TestNew_Errors(t *testing.T) {
	ds, err := builder.Generate(builder.ShapeStrip, 40, 2, 10)
	require.NoError(t, err)

	_, err = globalview.New(nil, globalview.DefaultOptions())
	assert.ErrorIs(t, err, view.ErrEmptySet)

	o := globalview.DefaultOptions()
	o.AddDim = true
	_, err = globalview.New(ds.Views, o)
	assert.ErrorIs(t, err, globalview.ErrAddDim)

	padded, err := builder.Generate(builder.ShapeStrip, 40, 2, 10, builder.WithAddDim())
	require.NoError(t, err)
	o.Logger = quiet()
	eng, err := globalview.New(padded.Views, o)
	require.NoError(t, err)
	require.NoError(t, eng.Compose(context.Background()))
	res, err := eng.Result()
	require.NoError(t, err)
	_, cols := res.Y.Dims()
	assert.Equal(t, 3, cols)
}

func TestCompose_AddDimMatchesPlain(t *testing.T) {
	compose := func(opts ...builder.BuilderOption) (*globalview.Result, int) {
		ds, err := builder.Generate(builder.ShapeStrip, 200, 5, 80, opts...)
		require.NoError(t, err)
		o := stripOptions()
		o.AddDim = ds.Views.AddDim()
		eng, err := globalview.New(ds.Views, o)
		require.NoError(t, err)
		require.NoError(t, eng.Compose(context.Background()))
		res, err := eng.Result()
		require.NoError(t, err)
		return res, eng.Overlap().Graph.EdgeCount()
	}

	plain, plainEdges := compose()
	padded, paddedEdges := compose(builder.WithAddDim())

	assert.Equal(t, plainEdges, paddedEdges)
	assert.Len(t, padded.Clusters, len(plain.Clusters))
	require.Len(t, padded.Clusters, 1)
	assert.Less(t, padded.InitErr, 1e-10)
	_, cols := padded.Y.Dims()
	assert.Equal(t, 3, cols)
	// The padded coordinate stays flat.
	for n := 0; n < 200; n++ {
		assert.InDelta(t, 0, padded.Y.At(n, 2), 1e-9)
	}
}

func TestCompose_Canceled(t *testing.T) {
	ds, err := builder.Generate(builder.ShapeStrip, 60, 4, 20)
	require.NoError(t, err)
	o := stripOptions()
	eng, err := globalview.New(ds.Views, o)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, eng.Compose(ctx), context.Canceled)
}
