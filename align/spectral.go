package align

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// spectral solves orthogonal synchronisation per group: the top d'
// eigenvectors of the degree-normalised block matrix of relative rotations
// give every view's rotation up to a common gauge.
type spectral struct{}

func (*spectral) Name() string { return "spectral" }

// Align runs one global solve per group.
//
// Steps:
//  1. Split clusters into groups of overlapping views; relative rotations
//     R_ab = polar(X_aᵀ·X_b) on the shared points, weight |S|.
//  2. C = D^-½·[w·R]·D^-½; Ψ = eigenvectors of the d' largest eigenvalues.
//  3. T_a = polar(Ψ_a), re-gauged to the first view.
//  4. Translations from the weighted Laplacian system.
func (a *spectral) Align(ctx context.Context, p *Problem) error {
	if err := p.validate(); err != nil {
		return err
	}
	gs, err := groups(p)
	if err != nil {
		return alignErrorf(a.Name(), err)
	}
	dim := p.Views.Dim()
	for _, g := range gs {
		if err := ctx.Err(); err != nil {
			return err
		}
		var rot []*mat.Dense
		if len(g.views) == 1 {
			cur, _ := p.Views.Transform(g.views[0])
			rot = []*mat.Dense{cur}
		} else {
			c, _ := g.blockMatrix(dim, true)
			var es mat.EigenSym
			if !es.Factorize(c, true) {
				return alignErrorf(a.Name(), ErrSolverFailed)
			}
			var vecs mat.Dense
			es.VectorsTo(&vecs)
			n, _ := vecs.Dims()
			// Eigenvalues are ascending: keep the last d' columns.
			phi := mat.DenseCopyOf(vecs.Slice(0, n, n-dim, n))
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
