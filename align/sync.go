package align

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// group is a connected set of overlapping views inside one cluster.
// views[0] is the gauge view: its current transform is preserved.
type group struct {
	views []int
	pos   map[int]int // view → position in views
	edges []relEdge
}

// relEdge relates views a, b (positions in group.views): X_a·R ≈ X_b on
// the w shared points, hence T_a ≈ R·T_b.
type relEdge struct {
	a, b int
	w    float64
	r    *mat.Dense
}

// groups splits every cluster into connected groups of overlapping views
// and computes the relative rotation of each overlapping pair.
func groups(p *Problem) ([]*group, error) {
	var out []*group
	gram := p.Utilde.Gram()
	for _, cluster := range p.clusters() {
		inCluster := make(map[int]bool, len(cluster))
		for _, m := range cluster {
			inCluster[m] = true
		}
		seen := make(map[int]bool, len(cluster))
		for _, root := range cluster {
			if seen[root] {
				continue
			}
			g := &group{pos: make(map[int]int)}
			queue := []int{root}
			seen[root] = true
			for qi := 0; qi < len(queue); qi++ {
				m := queue[qi]
				g.pos[m] = len(g.views)
				g.views = append(g.views, m)
				for _, o := range gram.Neighbors(m) {
					if inCluster[o] && !seen[o] {
						seen[o] = true
						queue = append(queue, o)
					}
				}
			}
			for ai, a := range g.views {
				for _, b := range gram.Neighbors(a) {
					bi, ok := g.pos[b]
					if !ok || bi <= ai {
						continue
					}
					shared, err := p.Utilde.Intersect(a, b)
					if err != nil {
						return nil, err
					}
					xa, err := p.Views.Local(a, shared)
					if err != nil {
						return nil, err
					}
					xb, err := p.Views.Local(b, shared)
					if err != nil {
						return nil, err
					}
					r, _, err := Fit(xa, xb)
					if err != nil {
						return nil, fmt.Errorf("views %d,%d: %w", a, b, err)
					}
					g.edges = append(g.edges, relEdge{a: ai, b: bi, w: float64(len(shared)), r: r})
				}
			}
			out = append(out, g)
		}
	}
	return out, nil
}

// blockMatrix assembles the symmetric Kd'×Kd' matrix with blocks w·R (and
// transposes). When normalise is set, block (a,b) is divided by
// sqrt(deg_a·deg_b). It also returns the weighted degrees.
func (g *group) blockMatrix(dim int, normalise bool) (*mat.SymDense, []float64) {
	k := len(g.views)
	deg := make([]float64, k)
	for _, e := range g.edges {
		deg[e.a] += e.w
		deg[e.b] += e.w
	}
	c := mat.NewSymDense(k*dim, nil)
	for _, e := range g.edges {
		s := e.w
		if normalise {
			s /= math.Sqrt(deg[e.a] * deg[e.b])
		}
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				c.SetSym(e.a*dim+i, e.b*dim+j, s*e.r.At(i, j))
			}
		}
	}
	return c, deg
}

// rotations projects every dim×dim block of the Kd'×d' matrix phi to the
// nearest orthogonal matrix and re-gauges so views[0] keeps its current
// rotation.
func (g *group) rotations(p *Problem, phi *mat.Dense, dim int) ([]*mat.Dense, error) {
	rot := make([]*mat.Dense, len(g.views))
	for i := range g.views {
		r, ok := Polar(phi.Slice(i*dim, (i+1)*dim, 0, dim))
		if !ok {
			return nil, ErrSolverFailed
		}
		rot[i] = r
	}
	return g.gauge(p, rot), nil
}

// gauge maps rot[i] → rot[i]·rot[0]ᵀ·T_current[views[0]].
func (g *group) gauge(p *Problem, rot []*mat.Dense) []*mat.Dense {
	cur, _ := p.Views.Transform(g.views[0])
	var fix mat.Dense
	fix.Mul(rot[0].T(), cur)
	out := make([]*mat.Dense, len(rot))
	for i, r := range rot {
		var t mat.Dense
		t.Mul(r, &fix)
		out[i] = &t
	}
	return out
}

// solveTranslations sets T[m] = rot[i] and solves for v minimising the
// overlap mismatch with v[views[0]] held at its current value.
//
// Steps:
//  1. u_an = x_an·T_a for every shared point of every edge.
//  2. Laplacian L (weights |S|) and rhs_a = Σ_b Σ_n (u_bn − u_an).
//  3. Drop the gauge row/column, move its known v to the rhs, Dense.Solve.
func (g *group) solveTranslations(p *Problem, rot []*mat.Dense) error {
	dim := p.Views.Dim()
	k := len(g.views)
	_, v0 := p.Views.Transform(g.views[0])
	if k == 1 {
		return p.Views.SetTransform(g.views[0], rot[0], v0)
	}

	lap := mat.NewDense(k, k, nil)
	rhs := mat.NewDense(k, dim, nil)
	for _, e := range g.edges {
		ma, mb := g.views[e.a], g.views[e.b]
		shared, err := p.Utilde.Intersect(ma, mb)
		if err != nil {
			return err
		}
		xa, err := p.Views.Local(ma, shared)
		if err != nil {
			return err
		}
		xb, err := p.Views.Local(mb, shared)
		if err != nil {
			return err
		}
		var ua, ub mat.Dense
		ua.Mul(xa, rot[e.a])
		ub.Mul(xb, rot[e.b])
		sa, sb := ColumnMeans(&ua), ColumnMeans(&ub)
		for j := 0; j < dim; j++ {
			diff := e.w * (sb[j] - sa[j])
			rhs.Set(e.a, j, rhs.At(e.a, j)+diff)
			rhs.Set(e.b, j, rhs.At(e.b, j)-diff)
		}
		lap.Set(e.a, e.a, lap.At(e.a, e.a)+e.w)
		lap.Set(e.b, e.b, lap.At(e.b, e.b)+e.w)
		lap.Set(e.a, e.b, lap.At(e.a, e.b)-e.w)
		lap.Set(e.b, e.a, lap.At(e.b, e.a)-e.w)
	}

	red := mat.DenseCopyOf(lap.Slice(1, k, 1, k))
	b := mat.DenseCopyOf(rhs.Slice(1, k, 0, dim))
	for i := 1; i < k; i++ {
		for j := 0; j < dim; j++ {
			b.Set(i-1, j, b.At(i-1, j)-lap.At(i, 0)*v0[j])
		}
	}
	var sol mat.Dense
	if err := sol.Solve(red, b); err != nil {
		return fmt.Errorf("translations: %v: %w", err, ErrSolverFailed)
	}

	if err := p.Views.SetTransform(g.views[0], rot[0], v0); err != nil {
		return err
	}
	for i := 1; i < k; i++ {
		if err := p.Views.SetTransform(g.views[i], rot[i], mat.Row(nil, i-1, &sol)); err != nil {
			return err
		}
	}
	return nil
}
