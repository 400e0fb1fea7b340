package refine_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/refine"
	"github.com/katalvlaran/lvstitch/sequence"
	"github.com/katalvlaran/lvstitch/tear"
	"github.com/katalvlaran/lvstitch/view"
	"github.com/katalvlaran/lvstitch/vis"
)

// fixture returns three rigidly moved views over a 6×4 grid, chained
// 0 → 1 → 2 in a single cluster, already stitched by sequential Procrustes.
func fixture(t *testing.T) (*view.Set, *sequence.Result, *mat.Dense) {
	t.Helper()
	const cols, rows = 6, 4
	id := func(x, y int) int { return x*rows + y }
	var dom, own [][]int
	for m := 0; m < 3; m++ {
		var d, c []int
		for x := 2 * m; x <= 2*m+2 && x < cols; x++ {
			for y := 0; y < rows; y++ {
				d = append(d, id(x, y))
				if x < 2*m+2 {
					c = append(c, id(x, y))
				}
			}
		}
		dom, own = append(dom, d), append(own, c)
	}
	utilde, err := matrix.FromRows(cols*rows, dom)
	require.NoError(t, err)
	core, err := matrix.FromRows(cols*rows, own)
	require.NoError(t, err)

	local := make([]*mat.Dense, 3)
	for m := range local {
		pts := utilde.Row(m)
		x := mat.NewDense(len(pts), 2, nil)
		cs, sn := math.Cos(0.4*float64(m)), math.Sin(0.4*float64(m))
		for r, n := range pts {
			px, py := float64(n/rows), 0.7*float64(n%rows)
			x.Set(r, 0, cs*px-sn*py+float64(3*m))
			x.Set(r, 1, sn*px+cs*py)
		}
		local[m] = x
	}
	set, err := view.New(utilde, core, local, 2)
	require.NoError(t, err)

	seq := &sequence.Result{
		Clusters:    [][]int{{0, 1, 2}},
		Parents:     []int{-1, 0, 1},
		ViewCluster: []int{0, 0, 0},
	}
	init, err := align.Init("procrustes")
	require.NoError(t, err)
	require.NoError(t, init.Align(context.Background(), &align.Problem{
		Views: set, Utilde: utilde, Clusters: seq.Clusters, Parents: seq.Parents,
	}))
	y, err := view.Embed(set, set.Owners())
	require.NoError(t, err)

	return set, seq, y
}

func config(t *testing.T) refine.Config {
	t.Helper()
	alg, err := align.Refine("procrustes")
	require.NoError(t, err)
	return refine.Config{
		Algorithm:       alg,
		MaxIter:         10,
		MaxInternalIter: 1,
		Patience:        1,
		ErrTol:          1e-6,
		ComputeError:    true,
		RepelDecay:      1,
	}
}

func TestRun_Converges(t *testing.T) {
	set, seq, y := fixture(t)
	cfg := config(t)
	rec := &vis.Recorder{}
	cfg.Sink = rec
	r, err := refine.New(set, seq, cfg)
	require.NoError(t, err)

	// An initial error far from the stitched one keeps patience full for
	// the first iteration.
	st := r.NewState(y, 1)
	require.NoError(t, r.Run(context.Background(), st, false))
	assert.Equal(t, refine.Converged, st.Status)
	assert.Equal(t, 2, st.Iter)
	assert.Equal(t, []string{"Iter_1", "Iter_2"}, rec.Titles())

	errs := st.Tracker.RefineErr()
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Less(t, e, 1e-12)
	}
	last, ok := st.LastErr()
	require.True(t, ok)
	assert.Equal(t, errs[1], last)
	// nnz(Utilde_t): 12 + 12 + 8 memberships, nothing masked.
	assert.Equal(t, 32, st.Tracker.Iters[0].Edges)
	assert.Equal(t, set.Utilde().NNZ(), st.Tracker.Iters[1].Edges)
}

func TestRun_FirstIterationMeasuredAgainstInitErr(t *testing.T) {
	set, seq, y := fixture(t)
	r, err := refine.New(set, seq, config(t))
	require.NoError(t, err)

	// y is already stitched, so its initial error is 0 and the first
	// iteration exhausts a patience of 1.
	st := r.NewState(y, 0)
	require.NoError(t, r.Run(context.Background(), st, false))
	assert.Equal(t, refine.Converged, st.Status)
	assert.Equal(t, 1, st.Iter)
	assert.Equal(t, 0, st.PatienceLeft)

	// Without error computation nothing is compared and the budget runs out.
	cfg := config(t)
	cfg.ComputeError = false
	cfg.MaxIter = 2
	r, err = refine.New(set, seq, cfg)
	require.NoError(t, err)
	st = r.NewState(y, 0)
	require.NoError(t, r.Run(context.Background(), st, false))
	assert.Equal(t, refine.IterationBudgetExhausted, st.Status)
	assert.Equal(t, 2, st.Iter)
}

func TestRun_ConvergedIsNoop(t *testing.T) {
	set, seq, y := fixture(t)
	r, err := refine.New(set, seq, config(t))
	require.NoError(t, err)

	st := r.NewState(y, 0)
	require.NoError(t, r.Run(context.Background(), st, false))
	require.Equal(t, refine.Converged, st.Status)

	require.NoError(t, r.Run(context.Background(), st, false))
	assert.Equal(t, 1, st.Iter)
	assert.Len(t, st.Tracker.Iters, 1)

	require.NoError(t, r.Run(context.Background(), st, true))
	assert.Equal(t, refine.Converged, st.Status)
	assert.Equal(t, 1, st.Iter)
	assert.Len(t, st.Tracker.Iters, 1, "reset clears telemetry")
}

func TestRun_BudgetAndResume(t *testing.T) {
	set, seq, y := fixture(t)
	cfg := config(t)
	cfg.MaxIter = 3
	cfg.ComputeError = false
	r, err := refine.New(set, seq, cfg)
	require.NoError(t, err)

	st := r.NewState(y, 0.5)
	require.NoError(t, r.Run(context.Background(), st, false))
	assert.Equal(t, refine.IterationBudgetExhausted, st.Status)
	assert.Equal(t, 3, st.Iter)
	require.Len(t, st.Tracker.Iters, 3)
	assert.False(t, st.Tracker.Iters[0].HasErr)
	assert.False(t, st.Tracker.Iters[1].HasErr)
	assert.True(t, st.Tracker.Iters[2].HasErr, "the last allowed iteration records its error")

	require.NoError(t, r.Run(context.Background(), st, false))
	assert.Equal(t, 6, st.Iter)
	assert.Len(t, st.Tracker.Iters, 6)
	assert.Equal(t, 0.5, st.Tracker.InitErr)

	require.NoError(t, r.Run(context.Background(), st, true))
	assert.Equal(t, 3, st.Iter)
	assert.Len(t, st.Tracker.Iters, 3)
	assert.Equal(t, 0.5, st.Tracker.InitErr)
}

func TestRun_Tearing(t *testing.T) {
	set, seq, y := fixture(t)
	cfg := config(t)
	cfg.ToTear = true
	cfg.Tear = tear.Options{K: 4, Nu: 2, Metric: "euclidean"}
	r, err := refine.New(set, seq, cfg)
	require.NoError(t, err)

	st := r.NewState(y, 0)
	require.NoError(t, r.Run(context.Background(), st, false))
	require.NotNil(t, st.Tear)
	require.NotNil(t, st.UtildeT)
	for _, it := range st.Tracker.Iters {
		assert.Equal(t, 0, it.TornPairs)
	}
	assert.Equal(t, set.Utilde().NNZ(), st.UtildeT.NNZ(), "nothing torn, nothing masked")
}

func TestRun_Errors(t *testing.T) {
	set, seq, y := fixture(t)
	cfg := config(t)

	_, err := refine.New(nil, seq, cfg)
	assert.ErrorIs(t, err, refine.ErrNilInput)

	bad := cfg
	bad.Patience = 0
	_, err = refine.New(set, seq, bad)
	assert.ErrorIs(t, err, refine.ErrBadConfig)

	r, err := refine.New(set, seq, cfg)
	require.NoError(t, err)
	assert.ErrorIs(t, r.Run(context.Background(), nil, false), refine.ErrStateShape)
	assert.ErrorIs(t, r.Run(context.Background(), r.NewState(mat.NewDense(2, 2, nil), 0), false), refine.ErrStateShape)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx, r.NewState(y, 0), false), context.Canceled)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "running", refine.Running.String())
	assert.Equal(t, "converged", refine.Converged.String())
	assert.Equal(t, "iteration_budget_exhausted", refine.IterationBudgetExhausted.String())
	assert.Equal(t, "unknown", refine.Status(9).String())
}
