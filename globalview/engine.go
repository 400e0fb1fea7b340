package globalview

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/overlap"
	"github.com/katalvlaran/lvstitch/refine"
	"github.com/katalvlaran/lvstitch/repair"
	"github.com/katalvlaran/lvstitch/sequence"
	"github.com/katalvlaran/lvstitch/tear"
	"github.com/katalvlaran/lvstitch/view"
	"github.com/katalvlaran/lvstitch/vis"
)

// Engine aligns one view set. It is not safe for concurrent use.
type Engine struct {
	opts  Options
	log   *log.Logger
	sink  vis.Sink
	views *view.Set

	initAlgo   align.Algorithm
	refineAlgo align.Algorithm

	overlap *overlap.Result
	seq     *sequence.Result
	refiner *refine.Refiner
	state   *refine.State
}

// Transform is the placement of one view in the global frame.
type Transform struct {
	T *mat.Dense
	V []float64
}

// Result is a snapshot of the engine after Compose or Refine.
type Result struct {
	// Y is the N×d' global embedding.
	Y *mat.Dense
	// Transforms holds T[m], v[m] for every view.
	Transforms []Transform
	// Coloring is the tear colouring; nil when colouring is off.
	Coloring *tear.Coloring
	// TornPairs is the number of torn view pairs in the last detection.
	TornPairs int

	Clusters [][]int
	Parents  []int

	Status     refine.Status
	Iterations int
	InitErr    float64
	// FinalErr is the last recorded error; valid when HasFinalErr.
	FinalErr    float64
	HasFinalErr bool
	Tracker     refine.Tracker
}

// New validates opts against views and resolves the algorithms.
func New(views *view.Set, opts Options) (*Engine, error) {
	if views == nil {
		return nil, view.ErrEmptySet
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.AddDim != views.AddDim() {
		return nil, ErrAddDim
	}
	ia, err := align.Init(opts.InitAlgoName)
	if err != nil {
		return nil, err
	}
	ra, err := align.Refine(opts.RefineAlgoName)
	if err != nil {
		return nil, err
	}
	e := &Engine{opts: opts, log: opts.Logger, sink: opts.Sink, views: views, initAlgo: ia, refineAlgo: ra}
	if e.log == nil {
		e.log = log.Default()
	}
	if e.sink == nil {
		e.sink = vis.Noop{}
	}
	return e, nil
}

// Fit composes the initial embedding and refines it.
func (e *Engine) Fit(ctx context.Context) (*Result, error) {
	if err := e.Compose(ctx); err != nil {
		return nil, err
	}
	if err := e.Refine(ctx, false); err != nil {
		return nil, err
	}
	return e.Result()
}

// Refine runs up to max_iter further refinement iterations. With reset the
// refinement state starts over from the current embedding's counters.
func (e *Engine) Refine(ctx context.Context, reset bool) error {
	if e.state == nil {
		return ErrNotComposed
	}
	p := newProgress(e.log)
	if err := e.refiner.Run(ctx, e.state, reset); err != nil {
		return err
	}
	p.done("refinement", "status", e.state.Status, "iter", e.state.Iter)
	return nil
}

// State exposes the refinement state for inspection.
func (e *Engine) State() *refine.State { return e.state }

// Sequence returns the cluster sequence built by Compose.
func (e *Engine) Sequence() *sequence.Result { return e.seq }

// Overlap returns the overlap graph built by Compose.
func (e *Engine) Overlap() *overlap.Result { return e.overlap }

// Result returns a copy of the current embedding and its metadata.
func (e *Engine) Result() (*Result, error) {
	if e.state == nil {
		return nil, ErrNotComposed
	}
	st := e.state
	res := &Result{
		Y:          mat.DenseCopyOf(st.Y),
		Transforms: make([]Transform, e.views.Views()),
		Clusters:   e.seq.Clusters,
		Parents:    e.seq.Parents,
		Status:     st.Status,
		Iterations: st.Iter,
		InitErr:    st.Tracker.InitErr,
		Tracker:    st.Tracker,
	}
	for m := range res.Transforms {
		t, v := e.views.Transform(m)
		res.Transforms[m] = Transform{T: t, V: v}
	}
	if st.Tear != nil {
		res.Coloring = st.Tear.Coloring
		res.TornPairs = st.Tear.TornPairs()
	}
	res.FinalErr, res.HasFinalErr = st.LastErr()
	return res, nil
}

// Distances returns the tear-repaired pairwise distances of the current
// embedding. Without a tear report the plain Euclidean distances are
// returned.
func (e *Engine) Distances(ctx context.Context, opts repair.Options) (*mat.Dense, repair.Stats, error) {
	if e.state == nil {
		return nil, repair.Stats{}, ErrNotComposed
	}
	if opts.NProc == 0 {
		opts.NProc = e.opts.NProc
	}
	in := repair.Input{Views: e.views, Utilde: e.views.Utilde(), Owner: e.views.Owners()}
	if e.state.Tear != nil {
		in.Tear = e.state.Tear.Graph
		in.OnTear = e.state.Tear.OnTear
	}
	d, st, err := repair.FromEmbedding(ctx, e.state.Y, in, opts)
	if err != nil {
		return nil, st, fmt.Errorf("globalview: distances: %w", err)
	}
	e.log.Debug("distances repaired", "substituted", st.Substituted, "boundary", st.Boundary, "passes", st.Passes)
	return d, st, nil
}
