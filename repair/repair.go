// SPDX-License-Identifier: MIT
// Package: lvstitch/repair
//
// Purpose:
//   - Tear-aware substitution of pairwise distances plus bounded one-hop
//     shortest-path relaxation through tear-boundary points.
//
// Contract:
//   - +Inf means "unknown distance"; the diagonal is always 0.
//   - Relaxation loop order is fixed (i → k → j) with strict improvement, so
//     results do not depend on the worker count.

package repair

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/parallel"
	"github.com/katalvlaran/lvstitch/view"
)

// Sentinel errors.
var (
	ErrShape     = errors.New("repair: shape mismatch")
	ErrNotSquare = errors.New("repair: distance matrix is not square")
	ErrOptions   = errors.New("repair: invalid options")
)

// Operation names for error wrapping.
const (
	opDistances     = "Distances"
	opFromEmbedding = "FromEmbedding"
)

// Defaults used when an Options field is zero.
const (
	DefaultTol          = 1e-6
	DefaultMaxCrossings = 10
)

// Options tunes the relaxation.
type Options struct {
	// Tol stops relaxation once the mean absolute change is below it.
	Tol float64
	// MaxCrossings caps the number of relaxation passes.
	MaxCrossings int
	// NProc is the number of row chunks per pass (1 when zero).
	NProc int
}

// Stats reports what the relaxation did.
type Stats struct {
	// Substituted counts the ordered pairs replaced by local distances.
	Substituted int
	// Boundary is the number of tear-boundary points used as relays.
	Boundary int
	// Passes is the number of relaxation passes run.
	Passes int
	// Delta is the mean absolute change of the last pass.
	Delta float64
}

// Input bundles the view structure the repair needs.
type Input struct {
	Views  view.Params
	Utilde *matrix.Bool
	Owner  []int
	// Tear is the tear graph over views (tear.Graph); nil or empty means
	// nothing is torn and the distances are returned unchanged.
	Tear *matrix.Counts
	// OnTear marks tear-boundary points; derived from Tear when nil.
	OnTear []bool
}

func (o Options) withDefaults() (Options, error) {
	if o.Tol < 0 || o.MaxCrossings < 0 || o.NProc < 0 {
		return o, fmt.Errorf("tol %g, max_crossings %d, n_proc %d: %w", o.Tol, o.MaxCrossings, o.NProc, ErrOptions)
	}
	if o.Tol == 0 {
		o.Tol = DefaultTol
	}
	if o.MaxCrossings == 0 {
		o.MaxCrossings = DefaultMaxCrossings
	}
	if o.NProc == 0 {
		o.NProc = 1
	}
	return o, nil
}

// FromEmbedding builds the Euclidean distance matrix of y and repairs it.
func FromEmbedding(ctx context.Context, y mat.Matrix, in Input, opts Options) (*mat.Dense, Stats, error) {
	n, _ := y.Dims()
	if n != len(in.Owner) {
		return nil, Stats{}, fmt.Errorf("%s: y has %d rows, %d owners: %w", opFromEmbedding, n, len(in.Owner), ErrShape)
	}
	yd := mat.DenseCopyOf(y)
	dist := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := floats.Distance(yd.RawRowView(i), yd.RawRowView(j), 2)
			dist.Set(i, j, d)
			dist.Set(j, i, d)
		}
	}

	return repair(ctx, dist, in, opts)
}

// Distances repairs a copy of the precomputed dense matrix dist.
func Distances(ctx context.Context, dist mat.Matrix, in Input, opts Options) (*mat.Dense, Stats, error) {
	r, c := dist.Dims()
	if r != c {
		return nil, Stats{}, fmt.Errorf("%s: %dx%d: %w", opDistances, r, c, ErrNotSquare)
	}
	if r != len(in.Owner) {
		return nil, Stats{}, fmt.Errorf("%s: %d points, %d owners: %w", opDistances, r, len(in.Owner), ErrShape)
	}

	return repair(ctx, mat.DenseCopyOf(dist), in, opts)
}

// repair runs substitution then relaxation on dist in place.
func repair(ctx context.Context, dist *mat.Dense, in Input, opts Options) (*mat.Dense, Stats, error) {
	var st Stats
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, st, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if in.Tear == nil || in.Tear.NNZ() == 0 {
		return dist, st, nil
	}
	if in.Views == nil || in.Utilde == nil || in.Tear.Size() != in.Utilde.Rows() || len(in.Owner) != in.Utilde.Cols() {
		return nil, st, ErrShape
	}

	if st.Substituted, err = substitute(dist, in); err != nil {
		return nil, st, err
	}

	onTear := in.OnTear
	if onTear == nil {
		onTear = boundary(in)
	}
	if len(onTear) != len(in.Owner) {
		return nil, st, ErrShape
	}
	var relays []int
	for p, b := range onTear {
		if b {
			relays = append(relays, p)
		}
	}
	st.Boundary = len(relays)
	if len(relays) == 0 {
		return dist, st, nil
	}

	for st.Passes < opts.MaxCrossings {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		next, delta, err := relax(ctx, dist, relays, opts.NProc)
		if err != nil {
			return nil, st, err
		}
		dist = next
		st.Passes++
		st.Delta = delta
		if delta < opts.Tol {
			break
		}
	}

	return dist, st, nil
}

// boundary flags points owned by a view torn from another view that
// contains them.
func boundary(in Input) []bool {
	out := make([]bool, len(in.Owner))
	for n, m := range in.Owner {
		for _, mp := range in.Tear.Neighbors(m) {
			if in.Utilde.Has(mp, n) {
				out[n] = true
				break
			}
		}
	}
	return out
}

// substitute replaces distances between points of torn owner views.
// Returns the number of ordered pairs rewritten.
func substitute(dist *mat.Dense, in Input) (int, error) {
	n := len(in.Owner)
	cache := make(map[int]*mat.Dense)
	local := func(m int) (*mat.Dense, error) {
		if x, ok := cache[m]; ok {
			return x, nil
		}
		x, err := in.Views.Local(m, in.Views.Domain(m))
		if err != nil {
			return nil, err
		}
		cache[m] = x
		return x, nil
	}
	// within returns the local distance of (i,j) in view m, or +Inf.
	within := func(m, i, j int) (float64, error) {
		pi, oki := in.Utilde.Pos(m, i)
		pj, okj := in.Utilde.Pos(m, j)
		if !oki || !okj {
			return math.Inf(1), nil
		}
		x, err := local(m)
		if err != nil {
			return 0, err
		}
		return floats.Distance(x.RawRowView(pi), x.RawRowView(pj), 2), nil
	}

	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m, mp := in.Owner[i], in.Owner[j]
			if m == mp || in.Tear.At(m, mp) == 0 {
				continue
			}
			a, err := within(m, i, j)
			if err != nil {
				return 0, err
			}
			b, err := within(mp, i, j)
			if err != nil {
				return 0, err
			}
			d := math.Min(a, b)
			dist.Set(i, j, d)
			dist.Set(j, i, d)
			count += 2
		}
	}

	return count, nil
}

// relax runs one Jacobi pass through the relays and returns the new matrix
// and the mean absolute change over its finite entries. An entry that was
// +Inf before the pass contributes its new value.
func relax(ctx context.Context, dist *mat.Dense, relays []int, nproc int) (*mat.Dense, float64, error) {
	n, _ := dist.Dims()
	next := mat.NewDense(n, n, nil)
	src := dist.RawMatrix().Data
	dst := next.RawMatrix().Data
	ranges, err := parallel.Partition(n, nproc)
	if err != nil {
		return nil, 0, err
	}
	sums := make([]float64, len(ranges))
	counts := make([]int, len(ranges))

	err = parallel.ForEach(ctx, n, nproc, func(_ context.Context, chunk int, r parallel.Range) error {
		var (
			i, j, k      int
			baseI, baseK int
			ik, cand, v  float64
		)
		for i = r.Lo; i < r.Hi; i++ {
			baseI = i * n
			copy(dst[baseI:baseI+n], src[baseI:baseI+n])
			for _, k = range relays {
				ik = src[baseI+k]
				if math.IsInf(ik, 1) {
					continue
				}
				baseK = k * n
				for j = 0; j < n; j++ {
					cand = ik + src[baseK+j]
					if cand < dst[baseI+j] {
						dst[baseI+j] = cand
					}
				}
			}
			for j = 0; j < n; j++ {
				v = dst[baseI+j]
				if math.IsInf(v, 1) {
					continue
				}
				if old := src[baseI+j]; !math.IsInf(old, 1) {
					sums[chunk] += math.Abs(v - old)
				} else {
					sums[chunk] += v
				}
				counts[chunk]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	total, cnt := floats.Sum(sums), 0
	for _, c := range counts {
		cnt += c
	}
	if cnt == 0 {
		return next, 0, nil
	}
	return next, total / float64(cnt), nil
}
