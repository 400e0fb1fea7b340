package align

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// SDPSolver maximises tr(C·Y·Yᵀ) over factors Y (blocks·dim × rank) whose
// dim×rank blocks have orthonormal rows: the Burer–Monteiro form of the
// orthogonal synchronisation semidefinite relaxation.
type SDPSolver interface {
	Solve(ctx context.Context, c *mat.SymDense, blocks, dim int, warm *mat.Dense) (*mat.Dense, error)
}

// BurerMonteiro is the default SDPSolver: block-coordinate ascent where
// each block is replaced by the polar factor of its gradient.
type BurerMonteiro struct {
	// Rank of the factor; 0 means dim+1.
	Rank int
	// MaxIter bounds the number of full sweeps.
	MaxIter int
	// Tol is the relative objective change that stops the ascent.
	Tol float64
	// Seed drives the random start when no warm factor fits.
	Seed int64
}

// DefaultSDPSolver returns BurerMonteiro{MaxIter: 200, Tol: 1e-9}.
func DefaultSDPSolver() *BurerMonteiro {
	return &BurerMonteiro{MaxIter: 200, Tol: 1e-9}
}

// Solve runs the ascent from warm (when its shape fits) or a seeded random
// factor.
func (s *BurerMonteiro) Solve(ctx context.Context, c *mat.SymDense, blocks, dim int, warm *mat.Dense) (*mat.Dense, error) {
	rank := s.Rank
	if rank <= 0 {
		rank = dim + 1
	}
	if rank < dim {
		return nil, fmt.Errorf("rank %d below dimension %d: %w", rank, dim, ErrBadProblem)
	}
	n := blocks * dim
	if r, _ := c.Dims(); r != n {
		return nil, fmt.Errorf("cost is %d×%d, want %d: %w", r, r, n, ErrBadProblem)
	}

	y := mat.NewDense(n, rank, nil)
	if warm != nil {
		if r, q := warm.Dims(); r == n && q == rank {
			y.Copy(warm)
		} else {
			warm = nil
		}
	}
	if warm == nil {
		rng := rand.New(rand.NewSource(s.Seed))
		for i := 0; i < n; i++ {
			for j := 0; j < rank; j++ {
				y.Set(i, j, rng.NormFloat64())
			}
		}
		for b := 0; b < blocks; b++ {
			blk := y.Slice(b*dim, (b+1)*dim, 0, rank).(*mat.Dense)
			pol, ok := Polar(blk)
			if !ok {
				return nil, ErrSolverFailed
			}
			blk.Copy(pol)
		}
	}

	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = 1
	}
	cd := mat.DenseCopyOf(c)
	prev := objective(c, y)
	for it := 0; it < maxIter; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for b := 0; b < blocks; b++ {
			var g mat.Dense
			g.Mul(cd.Slice(b*dim, (b+1)*dim, 0, n), y)
			if mat.Norm(&g, 2) == 0 {
				continue
			}
			pol, ok := Polar(&g)
			if !ok {
				return nil, ErrSolverFailed
			}
			y.Slice(b*dim, (b+1)*dim, 0, rank).(*mat.Dense).Copy(pol)
		}
		obj := objective(c, y)
		if math.Abs(obj-prev) <= s.Tol*math.Max(1, math.Abs(obj)) {
			break
		}
		prev = obj
	}
	return y, nil
}

// objective returns tr(Yᵀ·C·Y).
func objective(c *mat.SymDense, y *mat.Dense) float64 {
	var cy, yt mat.Dense
	cy.Mul(c, y)
	yt.Mul(y.T(), &cy)
	return mat.Trace(&yt)
}

// sdp solves the relaxation per group, rounds the factor to d' columns
// through its SVD and projects every block onto O(d').
type sdp struct {
	solver SDPSolver
}

func (*sdp) Name() string { return "sdp" }

// Align runs one relaxation per group, warm-started from p.Handle.
func (a *sdp) Align(ctx context.Context, p *Problem) error {
	if err := p.validate(); err != nil {
		return err
	}
	gs, err := groups(p)
	if err != nil {
		return alignErrorf(a.Name(), err)
	}
	dim := p.Views.Dim()
	p.Handle.Calls++
	for _, g := range gs {
		if err := ctx.Err(); err != nil {
			return err
		}
		var rot []*mat.Dense
		if len(g.views) == 1 {
			cur, _ := p.Views.Transform(g.views[0])
			rot = []*mat.Dense{cur}
		} else {
			c, _ := g.blockMatrix(dim, false)
			key := g.views[0]
			y, err := a.solver.Solve(ctx, c, len(g.views), dim, p.Handle.Factors[key])
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return alignErrorf(a.Name(), fmt.Errorf("%v: %w", err, ErrSolverFailed))
			}
			p.Handle.Factors[key] = y
			phi, err := round(y, dim)
			if err != nil {
				return alignErrorf(a.Name(), err)
			}
			if rot, err = g.rotations(p, phi, dim); err != nil {
				return alignErrorf(a.Name(), err)
			}
		}
		if err := g.solveTranslations(p, rot); err != nil {
			return alignErrorf(a.Name(), err)
		}
	}
	return nil
}

// round returns U_d'·Σ_d' from the thin SVD of y.
func round(y *mat.Dense, dim int) (*mat.Dense, error) {
	var svd mat.SVD
	if !svd.Factorize(y, mat.SVDThin) {
		return nil, ErrSolverFailed
	}
	var u mat.Dense
	svd.UTo(&u)
	vals := svd.Values(nil)
	n, _ := u.Dims()
	out := mat.DenseCopyOf(u.Slice(0, n, 0, dim))
	for j := 0; j < dim && j < len(vals); j++ {
		for i := 0; i < n; i++ {
			out.Set(i, j, out.At(i, j)*vals[j])
		}
	}
	return out, nil
}
