package align

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// rgd takes Riemannian gradient steps on the orthogonal group for every
// view against a per-sweep snapshot of the targets, retracting with the
// polar factor. Translations follow in closed form.
type rgd struct{}

func (*rgd) Name() string { return "rgd" }

// Align runs p.MaxInternalIter sweeps.
//
// For view m with centred local Xc and centred target Zc:
//
//	G     = 2·Xcᵀ(Xc·T − Zc)
//	grad  = G − T·sym(Tᵀ·G)
//	T    ← polar(T − β/‖Xc‖²_F · grad)
//	v     = mean(Z) − mean(X)·T
func (a *rgd) Align(ctx context.Context, p *Problem) error {
	if err := p.validate(); err != nil {
		return err
	}
	beta := p.Beta
	if beta <= 0 {
		beta = 0.5
	}
	for it := 0; it < p.MaxInternalIter; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		pl, err := place(p)
		if err != nil {
			return alignErrorf(a.Name(), err)
		}
		for _, cluster := range p.clusters() {
			for _, m := range cluster {
				pts, z := pl.target(p, m)
				if len(pts) == 0 {
					continue
				}
				if err := a.step(p, m, pts, z, beta); err != nil {
					return alignErrorf(a.Name(), err)
				}
			}
		}
	}
	return nil
}

func (a *rgd) step(p *Problem, m int, pts []int, z *mat.Dense, beta float64) error {
	x, err := p.Views.Local(m, pts)
	if err != nil {
		return err
	}
	xc, mx := Centre(x)
	zc, mz := Centre(z)
	norm := mat.Norm(xc, 2)
	if norm == 0 {
		return nil
	}
	t, _ := p.Views.Transform(m)

	var resid, g, tg, sym, rg mat.Dense
	resid.Mul(xc, t)
	resid.Sub(&resid, zc)
	g.Mul(xc.T(), &resid)
	g.Scale(2, &g)

	tg.Mul(t.T(), &g)
	sym.Add(&tg, tg.T())
	sym.Scale(0.5, &sym)
	rg.Mul(t, &sym)
	rg.Sub(&g, &rg)

	var next mat.Dense
	next.Scale(-beta/(norm*norm), &rg)
	next.Add(t, &next)
	tn, ok := Polar(&next)
	if !ok {
		return ErrSolverFailed
	}

	dim := len(mx)
	shift := mat.NewVecDense(dim, nil)
	shift.MulVec(tn.T(), mat.NewVecDense(dim, mx))
	v := make([]float64, dim)
	for j := range v {
		v[j] = mz[j] - shift.AtVec(j)
	}
	return p.Views.SetTransform(m, tn, v)
}
