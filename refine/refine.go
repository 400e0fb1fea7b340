package refine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/sequence"
	"github.com/katalvlaran/lvstitch/tear"
	"github.com/katalvlaran/lvstitch/view"
	"github.com/katalvlaran/lvstitch/vis"
)

// Sentinel errors for refinement.
var (
	ErrNilInput   = errors.New("refine: nil views, sequence or algorithm")
	ErrBadConfig  = errors.New("refine: invalid configuration")
	ErrStateShape = errors.New("refine: state embedding does not match views")
)

// Config holds the loop parameters.
type Config struct {
	Algorithm       align.Algorithm
	MaxIter         int
	MaxInternalIter int
	Patience        int
	ErrTol          float64
	ComputeError    bool

	ToTear bool
	Tear   tear.Options

	RepelBy      float64
	RepelDecay   float64
	Beta         float64
	FarOffFactor float64
	Seed         int64

	Sink   vis.Sink
	Logger *log.Logger
}

// Refiner runs iterations for one view set and cluster sequence.
type Refiner struct {
	cfg   Config
	views *view.Set
	seq   *sequence.Result
}

// New validates cfg and returns a Refiner.
func New(views *view.Set, seq *sequence.Result, cfg Config) (*Refiner, error) {
	if views == nil || seq == nil || cfg.Algorithm == nil {
		return nil, ErrNilInput
	}
	if cfg.MaxIter < 0 || cfg.Patience < 1 || cfg.ErrTol < 0 {
		return nil, fmt.Errorf("max_iter %d, patience %d, err_tol %g: %w", cfg.MaxIter, cfg.Patience, cfg.ErrTol, ErrBadConfig)
	}
	if cfg.Sink == nil {
		cfg.Sink = vis.Noop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Refiner{cfg: cfg, views: views, seq: seq}, nil
}

// NewState starts a state from the initial embedding y and its error.
func (r *Refiner) NewState(y *mat.Dense, initErr float64) *State {
	st := &State{Y: mat.DenseCopyOf(y)}
	st.Tracker.InitErr = initErr
	r.reset(st)
	return st
}

func (r *Refiner) reset(st *State) {
	st.Iter = 0
	st.Status = Running
	st.PatienceLeft = r.cfg.Patience
	// The first iteration is measured against the initial error.
	st.PrevErr, st.hasPrev = st.Tracker.InitErr, r.cfg.ComputeError
	st.RepelBy = r.cfg.RepelBy
	st.Handle = align.NewHandle()
	st.Tracker = Tracker{InitErr: st.Tracker.InitErr, Start: time.Now()}
}

// tearing reports whether Utildeg must be maintained.
func (r *Refiner) tearing() bool { return r.cfg.ToTear || r.cfg.Tear.Color }

// Run performs up to MaxIter further iterations on st. With reset, the
// iteration counter, patience, repulsion, solver handle and telemetry are
// cleared first (the initial error is kept). A Converged state returns
// immediately unless reset is set.
func (r *Refiner) Run(ctx context.Context, st *State, reset bool) error {
	if st == nil || st.Y == nil {
		return ErrStateShape
	}
	if rows, cols := st.Y.Dims(); rows != r.views.Points() || cols != r.views.Dim() {
		return fmt.Errorf("y is %dx%d: %w", rows, cols, ErrStateShape)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if reset {
		r.reset(st)
	}
	if st.Status == Converged {
		return nil
	}
	st.Status = Running
	if st.Handle == nil {
		st.Handle = align.NewHandle()
	}
	if r.tearing() && st.Tear == nil {
		if err := r.detect(ctx, st); err != nil {
			return err
		}
	}

	last := st.Iter + r.cfg.MaxIter
	for st.Iter < last {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.iterate(ctx, st, st.Iter+1 == last); err != nil {
			return err
		}
		st.Iter++
		st.RepelBy *= r.cfg.RepelDecay
		if st.Status == Converged {
			r.cfg.Logger.Info("refinement converged", "iter", st.Iter, "err", st.PrevErr)
			return nil
		}
	}
	st.Status = IterationBudgetExhausted
	e, _ := st.LastErr()
	r.cfg.Logger.Info("refinement budget exhausted", "iter", st.Iter, "err", e)
	return nil
}

// iterate runs steps 1–8 of one iteration.
func (r *Refiner) iterate(ctx context.Context, st *State, lastAllowed bool) error {
	utilde := r.views.Utilde()
	owner := r.views.Owners()

	far, err := align.FarOffPoints(r.views, utilde, owner, r.cfg.FarOffFactor)
	if err != nil {
		return fmt.Errorf("refine: far-off points: %w", err)
	}
	farCount := 0
	for _, f := range far {
		if f {
			farCount++
		}
	}

	ut := utilde
	if r.cfg.ToTear && st.Tear != nil {
		masked, err := utilde.Mask(st.Tear.Utildeg)
		if err != nil {
			return err
		}
		ut = restore(masked, utilde, far)
	}
	st.UtildeT = ut

	err = r.cfg.Algorithm.Align(ctx, &align.Problem{
		Views:           r.views,
		Utilde:          ut,
		Clusters:        r.seq.Clusters,
		Parents:         r.seq.Parents,
		FarOff:          far,
		RepelBy:         st.RepelBy,
		Beta:            r.cfg.Beta,
		MaxInternalIter: r.cfg.MaxInternalIter,
		Seed:            r.cfg.Seed + int64(st.Iter),
		Handle:          st.Handle,
	})
	if err != nil {
		return fmt.Errorf("refine: iteration %d: %w", st.Iter+1, err)
	}
	y, err := view.Embed(r.views, owner)
	if err != nil {
		return err
	}

	stat := IterStat{Iter: st.Iter + 1, Edges: ut.NNZ(), FarOff: farCount}
	if r.cfg.ComputeError || lastAllowed {
		e, err := align.Error(r.views, ut, y)
		if err != nil {
			return err
		}
		if nnz := ut.NNZ(); nnz > 0 {
			e /= float64(nnz)
		}
		stat.Err, stat.HasErr = e, true
		if st.hasPrev && math.Abs(e-st.PrevErr) < r.cfg.ErrTol {
			st.PatienceLeft--
		} else {
			st.PatienceLeft = r.cfg.Patience
		}
		st.PrevErr, st.hasPrev = e, true
	}

	shift, err := r.seq.Spread(y, owner)
	if err != nil {
		return err
	}
	for c, s := range shift {
		if s == 0 {
			continue
		}
		for _, m := range r.seq.Clusters[c] {
			if err := r.views.Shift(m, []float64{s}); err != nil {
				return err
			}
		}
	}
	st.Y = y

	if r.tearing() {
		if err := r.detect(ctx, st); err != nil {
			return err
		}
		stat.TornPairs = st.Tear.TornPairs()
	}

	var colors *tear.Coloring
	if st.Tear != nil {
		colors = st.Tear.Coloring
	}
	if err := r.cfg.Sink.GlobalEmbedding(vis.Frame{
		Y:            st.Y,
		Colors:       mat.Col(nil, 0, st.Y),
		CmapInterior: "summer",
		Tear:         colors,
		CmapBoundary: "jet",
		Title:        fmt.Sprintf("Iter_%d", st.Iter+1),
	}); err != nil {
		return err
	}

	stat.At = time.Now()
	st.Tracker.Iters = append(st.Tracker.Iters, stat)
	r.cfg.Logger.Debug("refine iteration", "iter", stat.Iter, "err", stat.Err, "has_err", stat.HasErr,
		"patience", st.PatienceLeft, "torn", stat.TornPairs, "far_off", stat.FarOff)

	if r.cfg.ComputeError && st.PatienceLeft <= 0 {
		st.Status = Converged
	}
	return nil
}

// detect refreshes st.Tear from st.Y.
func (r *Refiner) detect(ctx context.Context, st *State) error {
	rep, err := tear.Detect(ctx, st.Y, r.views.Utilde(), r.views.Core(), r.views.Owners(), r.seq.Clusters, r.cfg.Tear)
	if err != nil {
		return fmt.Errorf("refine: tear detection: %w", err)
	}
	st.Tear = rep
	return nil
}

// restore gives far-off points back their full Utilde membership.
func restore(masked, utilde *matrix.Bool, far []bool) *matrix.Bool {
	found := false
	for _, f := range far {
		found = found || f
	}
	if !found {
		return masked
	}
	return utilde.Filter(func(m, n int) bool { return far[n] || masked.Has(m, n) })
}
