package align_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/view"
)

func alignError(set *view.Set, y mat.Matrix) (float64, error) {
	return align.Error(set, set.Utilde(), y)
}

func TestFitRecoversRigidMotion(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{0, 0, 1, 0, 0, 2, 3, 1})
	th := 0.8
	rot := mat.NewDense(2, 2, []float64{math.Cos(th), math.Sin(th), -math.Sin(th), math.Cos(th)})
	var y mat.Dense
	y.Mul(x, rot)
	for i := 0; i < 4; i++ {
		y.Set(i, 0, y.At(i, 0)+5)
		y.Set(i, 1, y.At(i, 1)-1)
	}
	tr, v, err := align.Fit(x, &y)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(tr, rot, 1e-9))
	assert.InDeltaSlice(t, []float64{5, -1}, v, 1e-9)
}

func TestFitShapeMismatch(t *testing.T) {
	_, _, err := align.Fit(mat.NewDense(2, 2, nil), mat.NewDense(3, 2, nil))
	assert.ErrorIs(t, err, align.ErrBadProblem)
}

func TestMinSingularValue(t *testing.T) {
	s, ok := align.MinSingularValue(mat.NewDense(2, 2, []float64{3, 0, 0, 0.5}))
	require.True(t, ok)
	assert.InDelta(t, 0.5, s, 1e-12)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"ltsa", "procrustes", "sdp", "spectral"}, align.InitNames())
	assert.Contains(t, align.RefineNames(), "procrustes_final")
	assert.Contains(t, align.RefineNames(), "gpm")
	assert.Contains(t, align.RefineNames(), "rgd")

	_, err := align.Init("rgd")
	assert.ErrorIs(t, err, align.ErrUnknownAlgorithm)
	_, err = align.Refine("nope")
	assert.ErrorIs(t, err, align.ErrUnknownAlgorithm)

	a, err := align.Refine("procrustes_final")
	require.NoError(t, err)
	assert.Equal(t, "procrustes_final", a.Name())

	assert.NoError(t, align.CheckTransform(align.Rigid))
	assert.ErrorIs(t, align.CheckTransform("affine"), align.ErrNotImplemented)
}

func TestInitAlgorithmsStitchExactViews(t *testing.T) {
	for _, name := range []string{"procrustes", "spectral", "sdp"} {
		t.Run(name, func(t *testing.T) {
			set, _, _ := gridSet(t)
			clusters, parents := chain()
			algo, err := align.Init(name)
			require.NoError(t, err)
			err = algo.Align(context.Background(), &align.Problem{
				Views: set, Utilde: set.Utilde(), Clusters: clusters, Parents: parents,
				MaxInternalIter: 1, Seed: 7,
			})
			require.NoError(t, err)
			assert.Less(t, meanError(t, set), 1e-8)

			// The first view keeps the identity frame.
			tr, v := set.Transform(0)
			assert.True(t, mat.EqualApprox(tr, mat.NewDense(2, 2, []float64{1, 0, 0, 1}), 1e-6))
			assert.InDeltaSlice(t, []float64{0, 0}, v, 1e-6)
		})
	}
}

func TestLTSAInitProducesFiniteEmbedding(t *testing.T) {
	set, _, _ := gridSet(t)
	clusters, parents := chain()
	algo, err := align.Init("ltsa")
	require.NoError(t, err)
	require.NoError(t, algo.Align(context.Background(), &align.Problem{
		Views: set, Utilde: set.Utilde(), Clusters: clusters, Parents: parents,
	}))
	e := meanError(t, set)
	assert.False(t, math.IsNaN(e))
	assert.Less(t, e, 1.0)
}

func TestSequentialEmptyOverlapFailsFast(t *testing.T) {
	set, _, _ := gridSet(t)
	algo, err := align.Init("procrustes")
	require.NoError(t, err)
	err = algo.Align(context.Background(), &align.Problem{
		Views: set, Utilde: set.Utilde(), Clusters: [][]int{{0, 2, 1}}, Parents: []int{-1, 0, 0},
	})
	assert.ErrorIs(t, err, align.ErrEmptyOverlap)
}

func TestRefineReducesError(t *testing.T) {
	for _, name := range []string{"procrustes", "gpm", "rgd", "spectral", "sdp"} {
		t.Run(name, func(t *testing.T) {
			set, _, _ := gridSet(t)
			clusters, parents := chain()
			init, err := align.Init("procrustes")
			require.NoError(t, err)
			require.NoError(t, init.Align(context.Background(), &align.Problem{
				Views: set, Utilde: set.Utilde(), Clusters: clusters, Parents: parents,
			}))

			// Knock view 2 off its fitted frame.
			tr, v := set.Transform(2)
			var bent mat.Dense
			th := 0.2
			bent.Mul(tr, mat.NewDense(2, 2, []float64{math.Cos(th), math.Sin(th), -math.Sin(th), math.Cos(th)}))
			v[0] += 0.5
			require.NoError(t, set.SetTransform(2, &bent, v))
			before := meanError(t, set)
			require.Greater(t, before, 1e-3)

			algo, err := align.Refine(name)
			require.NoError(t, err)
			require.NoError(t, algo.Align(context.Background(), &align.Problem{
				Views: set, Utilde: set.Utilde(), Clusters: clusters, Parents: parents,
				MaxInternalIter: 30, Beta: 0.5, Handle: align.NewHandle(),
			}))
			assert.Less(t, meanError(t, set), before)
		})
	}
}

func TestSDPHandleKeepsFactor(t *testing.T) {
	set, _, _ := gridSet(t)
	clusters, parents := chain()
	h := align.NewHandle()
	algo, err := align.Refine("sdp")
	require.NoError(t, err)
	p := &align.Problem{Views: set, Utilde: set.Utilde(), Clusters: clusters, Parents: parents, Handle: h}
	require.NoError(t, algo.Align(context.Background(), p))
	require.NoError(t, algo.Align(context.Background(), p))
	assert.Equal(t, 2, h.Calls)
	require.Contains(t, h.Factors, 0)
	r, c := h.Factors[0].Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 3, c)
}

func TestErrorOfExactEmbeddingIsZero(t *testing.T) {
	set, owner, _ := gridSet(t)
	clusters, parents := chain()
	init, err := align.Init("procrustes")
	require.NoError(t, err)
	require.NoError(t, init.Align(context.Background(), &align.Problem{
		Views: set, Utilde: set.Utilde(), Clusters: clusters, Parents: parents,
	}))
	y, err := view.Embed(set, owner)
	require.NoError(t, err)
	e, err := align.Error(set, set.Utilde(), y)
	require.NoError(t, err)
	assert.InDelta(t, 0, e, 1e-9)

	_, err = align.Error(set, set.Utilde(), mat.NewDense(2, 2, nil))
	assert.ErrorIs(t, err, align.ErrBadProblem)
}

func TestFarOffPoints(t *testing.T) {
	all := []int{0, 1, 2, 3, 4}
	utilde, err := matrix.FromRows(5, [][]int{all, all})
	require.NoError(t, err)
	core, err := matrix.FromRows(5, [][]int{{0, 1, 2}, {3, 4}})
	require.NoError(t, err)
	pos := []float64{0, 1, 2, 3, 4}
	noise := []float64{0.1, 0.1, 0.1, 0.1, 5}
	x0 := mat.NewDense(5, 1, append([]float64(nil), pos...))
	x1 := mat.NewDense(5, 1, nil)
	for i := range pos {
		x1.Set(i, 0, pos[i]+noise[i])
	}
	set, err := view.New(utilde, core, []*mat.Dense{x0, x1}, 1)
	require.NoError(t, err)

	far, err := align.FarOffPoints(set, utilde, set.Owners(), 3)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, false, true}, far)

	far, err = align.FarOffPoints(set, utilde, set.Owners(), 0)
	require.NoError(t, err)
	assert.NotContains(t, far, true)
}

func TestCanceledContext(t *testing.T) {
	set, _, _ := gridSet(t)
	clusters, parents := chain()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	algo, err := align.Refine("gpm")
	require.NoError(t, err)
	err = algo.Align(ctx, &align.Problem{Views: set, Utilde: set.Utilde(), Clusters: clusters, Parents: parents})
	assert.ErrorIs(t, err, context.Canceled)
}
