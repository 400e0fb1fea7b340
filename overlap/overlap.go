package overlap

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/core"
	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/parallel"
	"github.com/katalvlaran/lvstitch/view"
)

// Sentinel errors for overlap construction.
var (
	ErrNilInput = errors.New("overlap: nil views or membership")
	ErrShape    = errors.New("overlap: membership does not match views")
	ErrBadDim   = errors.New("overlap: intrinsic dimension must be positive")
)

// Result holds the overlap counts, the ambiguity weights and their support graph.
type Result struct {
	// Overlap is n_Utilde_Utilde: shared point counts, zero diagonal.
	Overlap *matrix.Counts

	// Pairs lists every overlapping pair (I < J) in row-major order.
	Pairs []matrix.Pair

	// Weights[i] is W for Pairs[i].
	Weights []float64

	// Graph has an edge I—J with weight W for every pair with W > 0.
	Graph *core.Graph
}

// W returns the ambiguity weight of (m, m'), 0 for non-overlapping pairs.
func (r *Result) W(m, mp int) float64 {
	w, _ := r.Graph.Weight(m, mp)
	return w
}

// Dense returns W as an M×M symmetric matrix.
func (r *Result) Dense() *mat.SymDense {
	m := r.Overlap.Size()
	out := mat.NewSymDense(m, nil)
	for i, p := range r.Pairs {
		out.SetSym(p.I, p.J, r.Weights[i])
	}
	return out
}

// Build computes ambiguity weights for every overlapping pair of views.
//
// Steps:
//  1. n_Utilde_Utilde = Utilde·Utildeᵀ with zero diagonal; list pairs I < J.
//  2. Partition the pair list into nproc contiguous chunks.
//  3. Each worker: S = shared points; |S| < d+1 → 0; else σ_min of the
//     centred cross-covariance of eval(m,S) and eval(m',S).
//  4. Merge by pair index; add an edge for every positive weight.
//
// d is the intrinsic dimension. Complexity: O(P·|S|·d'²) over P pairs.
func Build(ctx context.Context, views view.Params, utilde *matrix.Bool, d, nproc int) (*Result, error) {
	if views == nil || utilde == nil {
		return nil, ErrNilInput
	}
	if utilde.Rows() != views.Views() || utilde.Cols() != views.Points() {
		return nil, ErrShape
	}
	if d <= 0 {
		return nil, ErrBadDim
	}
	if nproc <= 0 {
		nproc = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	counts := utilde.Gram()
	pairs := counts.Pairs()
	weights := make([]float64, len(pairs))

	err := parallel.ForEach(ctx, len(pairs), nproc, func(ctx context.Context, _ int, r parallel.Range) error {
		for i := r.Lo; i < r.Hi; i++ {
			w, err := Weight(views, utilde, pairs[i].I, pairs[i].J, d)
			if err != nil {
				return err
			}
			weights[i] = w
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g := core.NewGraph(utilde.Rows())
	for i, p := range pairs {
		if weights[i] <= 0 {
			continue
		}
		if _, err := g.AddEdge(p.I, p.J, weights[i]); err != nil {
			return nil, fmt.Errorf("overlap: edge %d-%d: %w", p.I, p.J, err)
		}
	}

	return &Result{Overlap: counts, Pairs: pairs, Weights: weights, Graph: g}, nil
}

// Weight returns the ambiguity weight of one pair of views.
// Empty or small (< d+1) overlaps and failed factorisations yield 0.
func Weight(views view.Params, utilde *matrix.Bool, m, mp, d int) (float64, error) {
	shared, err := utilde.Intersect(m, mp)
	if err != nil {
		return 0, err
	}
	if len(shared) < d+1 {
		return 0, nil
	}
	vm, err := views.Eval(m, shared)
	if err != nil {
		return 0, err
	}
	vmp, err := views.Eval(mp, shared)
	if err != nil {
		return 0, err
	}
	// add_dim pads a zero column; W is defined on the d intrinsic columns.
	cm, _ := align.Centre(intrinsic(vm, d))
	cmp, _ := align.Centre(intrinsic(vmp, d))
	var cov mat.Dense
	cov.Mul(cm.T(), cmp)
	s, _ := align.MinSingularValue(&cov)

	return s, nil
}

// intrinsic returns the first d columns of x.
func intrinsic(x *mat.Dense, d int) mat.Matrix {
	r, c := x.Dims()
	if d >= c {
		return x
	}
	return x.Slice(0, r, 0, d)
}
