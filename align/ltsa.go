package align

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ltsa aligns a cluster through the null space of the local tangent space
// alignment matrix, then fits every view rigidly onto the rescaled result.
type ltsa struct{}

func (*ltsa) Name() string { return "ltsa" }

// Align runs once per cluster.
//
// Steps:
//  1. P = union of the cluster's view domains.
//  2. For each view: G = [1/√k, U] with U the left singular vectors of the
//     centred local coordinates; B[S,S] += I − G·Gᵀ.
//  3. Z = eigenvectors 1..d' of B (skipping the constant one).
//  4. Scale Z by the median ratio of local to Z spread over the views.
//  5. Fit every view onto Z on its domain.
//
// Clusters with at most d' points keep their transforms.
func (a *ltsa) Align(ctx context.Context, p *Problem) error {
	if err := p.validate(); err != nil {
		return err
	}
	dim := p.Views.Dim()
	for _, cluster := range p.clusters() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.cluster(p, cluster, dim); err != nil {
			return alignErrorf(a.Name(), err)
		}
	}
	return nil
}

func (a *ltsa) cluster(p *Problem, cluster []int, dim int) error {
	index := make(map[int]int)
	var pts []int
	for _, m := range cluster {
		for _, n := range p.Utilde.Row(m) {
			if _, ok := index[n]; !ok {
				index[n] = 0
				pts = append(pts, n)
			}
		}
	}
	if len(pts) <= dim {
		return nil
	}
	sort.Ints(pts)
	for i, n := range pts {
		index[n] = i
	}

	b := mat.NewSymDense(len(pts), nil)
	for _, m := range cluster {
		dom := p.Utilde.Row(m)
		if len(dom) == 0 {
			continue
		}
		x, err := p.Views.Local(m, dom)
		if err != nil {
			return err
		}
		xc, _ := Centre(x)
		basis := tangent(xc)
		k := len(dom)
		for r := 0; r < k; r++ {
			for c := r; c < k; c++ {
				g := 1 / float64(k)
				for _, u := range basis {
					g += u[r] * u[c]
				}
				val := -g
				if r == c {
					val += 1
				}
				i, j := index[dom[r]], index[dom[c]]
				b.SetSym(i, j, b.At(i, j)+val)
			}
		}
	}

	var es mat.EigenSym
	if !es.Factorize(b, true) {
		return ErrSolverFailed
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)
	z := mat.DenseCopyOf(vecs.Slice(0, len(pts), 1, dim+1))

	var ratios []float64
	for _, m := range cluster {
		dom := p.Utilde.Row(m)
		if len(dom) < 2 {
			continue
		}
		x, err := p.Views.Local(m, dom)
		if err != nil {
			return err
		}
		xc, _ := Centre(x)
		zc, _ := Centre(rowsOf(z, dom, index))
		if nz := mat.Norm(zc, 2); nz > 0 {
			ratios = append(ratios, mat.Norm(xc, 2)/nz)
		}
	}
	if len(ratios) > 0 {
		sort.Float64s(ratios)
		z.Scale(stat.Quantile(0.5, stat.Empirical, ratios, nil), z)
	}

	for _, m := range cluster {
		dom := p.Utilde.Row(m)
		if len(dom) == 0 {
			continue
		}
		if err := fitView(p, m, dom, rowsOf(z, dom, index)); err != nil {
			return err
		}
	}
	return nil
}

// tangent returns the left singular vectors of xc with non-negligible
// singular values, each as a column slice.
func tangent(xc *mat.Dense) [][]float64 {
	var svd mat.SVD
	if !svd.Factorize(xc, mat.SVDThin) {
		return nil
	}
	vals := svd.Values(nil)
	if len(vals) == 0 || vals[0] == 0 {
		return nil
	}
	var u mat.Dense
	svd.UTo(&u)
	var out [][]float64
	for j, s := range vals {
		if s <= 1e-10*vals[0] || math.IsNaN(s) {
			break
		}
		out = append(out, mat.Col(nil, j, &u))
	}
	return out
}

// rowsOf gathers the rows of z for pts through index.
func rowsOf(z *mat.Dense, pts []int, index map[int]int) *mat.Dense {
	_, c := z.Dims()
	out := mat.NewDense(len(pts), c, nil)
	for r, n := range pts {
		out.SetRow(r, z.RawRowView(index[n]))
	}
	return out
}
