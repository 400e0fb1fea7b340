package globalview

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/overlap"
	"github.com/katalvlaran/lvstitch/refine"
	"github.com/katalvlaran/lvstitch/sequence"
	"github.com/katalvlaran/lvstitch/tear"
	"github.com/katalvlaran/lvstitch/view"
	"github.com/katalvlaran/lvstitch/vis"
)

// Colour maps handed to the sink.
const (
	cmapInterior = "summer"
	cmapBoundary = "jet"
)

// progress logs the elapsed time of one phase.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, kv ...interface{}) {
	kv = append(kv, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, kv...)
}

// Compose builds the initial embedding and a fresh refinement state.
// Calling it again starts over from identity transforms.
//
// Steps:
//  1. Overlap counts and ambiguity weights W (parallel over n_proc chunks).
//  2. Cluster sequence from the maximum spanning forest of W.
//  3. Optionally show the unaligned placement (vis_before_init).
//  4. Run the init algorithm from identity transforms and evaluate y.
//  5. Space clusters along x and shift their views accordingly.
//  6. Detect tears (and colour them) when enabled.
//  7. Show the initial embedding; compute the initial error.
func (e *Engine) Compose(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	utilde := e.views.Utilde()
	owner := e.views.Owners()

	p := newProgress(e.log)
	ov, err := overlap.Build(ctx, e.views, utilde, e.views.IntrinsicDim(), e.opts.NProc)
	if err != nil {
		return fmt.Errorf("globalview: overlap: %w", err)
	}
	e.overlap = ov
	p.done("overlap graph built", "pairs", len(ov.Pairs), "edges", ov.Graph.EdgeCount())

	p = newProgress(e.log)
	zeta := make([]float64, e.views.Views())
	for m := range zeta {
		zeta[m] = e.views.Zeta(m)
	}
	seq, err := sequence.Build(ctx, ov.Graph, zeta, e.views.CoreCounts(), sequence.Options{
		ForcedClusters: e.opts.NForcedClusters,
		Method:         e.opts.SpanningMethod,
	})
	if err != nil {
		return fmt.Errorf("globalview: sequence: %w", err)
	}
	e.seq = seq
	p.done("views sequenced", "clusters", len(seq.Clusters), "removed", len(seq.Removed))

	e.views.ResetTransforms()
	if e.opts.VisBeforeInit {
		y0, err := view.Embed(e.views, owner)
		if err != nil {
			return err
		}
		if err := e.show(y0, nil, "Before_Init"); err != nil {
			return err
		}
	}

	p = newProgress(e.log)
	handle := align.NewHandle()
	err = e.initAlgo.Align(ctx, &align.Problem{
		Views:           e.views,
		Utilde:          utilde,
		Clusters:        seq.Clusters,
		Parents:         seq.Parents,
		Beta:            e.opts.Beta,
		MaxInternalIter: e.opts.MaxInternalIter,
		Seed:            e.opts.Seed,
		Handle:          handle,
	})
	if err != nil {
		return fmt.Errorf("globalview: init: %w", err)
	}
	y, err := view.Embed(e.views, owner)
	if err != nil {
		return err
	}
	if err := e.spread(y, owner); err != nil {
		return err
	}

	var rep *tear.Report
	if e.opts.tearing() {
		if rep, err = tear.Detect(ctx, y, utilde, e.views.Core(), owner, seq.Clusters, e.opts.tearOptions()); err != nil {
			return fmt.Errorf("globalview: tear detection: %w", err)
		}
	}
	var colors *tear.Coloring
	if rep != nil {
		colors = rep.Coloring
	}
	if err := e.show(y, colors, "Init"); err != nil {
		return err
	}

	var initErr float64
	if e.opts.ComputeError {
		if initErr, err = align.Error(e.views, utilde, y); err != nil {
			return err
		}
		if nnz := utilde.NNZ(); nnz > 0 {
			initErr /= float64(nnz)
		}
	}
	p.done("initial embedding", "algo", e.initAlgo.Name(), "err", initErr)

	e.refiner, err = refine.New(e.views, seq, refine.Config{
		Algorithm:       e.refineAlgo,
		MaxIter:         e.opts.MaxIter,
		MaxInternalIter: e.opts.MaxInternalIter,
		Patience:        e.opts.Patience,
		ErrTol:          e.opts.ErrTol,
		ComputeError:    e.opts.ComputeError,
		ToTear:          e.opts.ToTear,
		Tear:            e.opts.tearOptions(),
		RepelBy:         e.opts.RepelBy,
		RepelDecay:      e.opts.RepelDecay,
		Beta:            e.opts.Beta,
		FarOffFactor:    e.opts.FarOffFactor,
		Seed:            e.opts.Seed,
		Sink:            e.sink,
		Logger:          e.log,
	})
	if err != nil {
		return err
	}
	e.state = e.refiner.NewState(y, initErr)
	e.state.Tear = rep
	e.state.Handle = handle

	return nil
}

// spread separates clusters along x in y and moves their views with them.
func (e *Engine) spread(y *mat.Dense, owner []int) error {
	shift, err := e.seq.Spread(y, owner)
	if err != nil {
		return err
	}
	for c, s := range shift {
		if s == 0 {
			continue
		}
		for _, m := range e.seq.Clusters[c] {
			if err := e.views.Shift(m, []float64{s}); err != nil {
				return err
			}
		}
	}
	return nil
}

// show hands y to the sink, coloured by its first coordinate.
func (e *Engine) show(y *mat.Dense, colors *tear.Coloring, title string) error {
	return e.sink.GlobalEmbedding(vis.Frame{
		Y:            y,
		Colors:       mat.Col(nil, 0, y),
		CmapInterior: cmapInterior,
		Tear:         colors,
		CmapBoundary: cmapBoundary,
		Title:        title,
	})
}
