package align

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/matrix"
)

// sequential places views one at a time in BFS order: the root keeps the
// identity frame and each later view is fitted onto its parent.
type sequential struct{}

func (*sequential) Name() string { return "procrustes" }

// Align walks every cluster in order.
//
// Steps:
//  1. Root: T = I, v = 0.
//  2. Each following view m: S = Utilde[m] ∩ Utilde[parent];
//     fit Local(m,S) onto Eval(parent,S).
//  3. An empty S fails fast with ErrEmptyOverlap.
func (a *sequential) Align(ctx context.Context, p *Problem) error {
	if err := p.validate(); err != nil {
		return err
	}
	if len(p.Parents) != p.Views.Views() {
		return alignErrorf(a.Name(), fmt.Errorf("parents: %w", ErrBadProblem))
	}
	dim := p.Views.Dim()
	for _, cluster := range p.clusters() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, m := range cluster {
			parent := p.Parents[m]
			if parent < 0 {
				if err := p.Views.SetTransform(m, identity(dim), make([]float64, dim)); err != nil {
					return err
				}
				continue
			}
			shared, err := p.Utilde.Intersect(m, parent)
			if err != nil {
				return err
			}
			if len(shared) == 0 {
				return alignErrorf(a.Name(), fmt.Errorf("views %d and %d: %w", m, parent, ErrEmptyOverlap))
			}
			target, err := p.Views.Eval(parent, shared)
			if err != nil {
				return err
			}
			if err := fitView(p, m, shared, target); err != nil {
				return alignErrorf(a.Name(), err)
			}
		}
	}
	return nil
}

// fitView fits the local coordinates of pts in view m onto target.
func fitView(p *Problem, m int, pts []int, target mat.Matrix) error {
	x, err := p.Views.Local(m, pts)
	if err != nil {
		return err
	}
	t, v, err := Fit(x, target)
	if err != nil {
		return fmt.Errorf("view %d: %w", m, err)
	}
	return p.Views.SetTransform(m, t, v)
}

// sweep refines each view against the mean placement of its points by the
// other views. Gauss–Seidel sweeps (procrustes) use updates immediately;
// Jacobi sweeps (gpm) fit every view against one snapshot.
type sweep struct {
	name   string
	jacobi bool
}

func (s *sweep) Name() string { return s.name }

func (s *sweep) Align(ctx context.Context, p *Problem) error {
	if err := p.validate(); err != nil {
		return err
	}
	for it := 0; it < p.MaxInternalIter; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		pl, err := place(p)
		if err != nil {
			return alignErrorf(s.name, err)
		}
		for _, cluster := range p.clusters() {
			for _, m := range cluster {
				pts, target := pl.target(p, m)
				if len(pts) == 0 {
					continue
				}
				if err := fitView(p, m, pts, target); err != nil {
					return alignErrorf(s.name, err)
				}
				// Jacobi keeps the sweep's snapshot frozen.
				if !s.jacobi {
					if err := pl.refresh(p, m); err != nil {
						return alignErrorf(s.name, err)
					}
				}
			}
		}
	}
	return nil
}

// placement caches Eval(m, Utilde[m]) for every view: rows[m][k] is the
// global position of the k-th point of Utilde row m.
type placement struct {
	rows    []*mat.Dense
	col     *matrix.Bool // Utildeᵀ: views covering each point
	cluster []int        // cluster index of every view
}

func place(p *Problem) (*placement, error) {
	pl := &placement{
		rows:    make([]*mat.Dense, p.Views.Views()),
		col:     p.Utilde.Transpose(),
		cluster: make([]int, p.Views.Views()),
	}
	for ci, c := range p.clusters() {
		for _, m := range c {
			if m >= 0 && m < len(pl.cluster) {
				pl.cluster[m] = ci
			}
		}
	}
	for m := range pl.rows {
		if err := pl.refresh(p, m); err != nil {
			return nil, err
		}
	}
	return pl, nil
}

// refresh recomputes the cached placement of view m.
func (pl *placement) refresh(p *Problem, m int) error {
	pts := p.Utilde.Row(m)
	if len(pts) == 0 {
		pl.rows[m] = nil
		return nil
	}
	e, err := p.Views.Eval(m, pts)
	if err != nil {
		return err
	}
	pl.rows[m] = e
	return nil
}

// target returns the points of view m covered by at least one other view
// of its cluster and, for each, the mean of the other views' placements. Far-off points are
// pushed away from the target centroid by p.RepelBy.
func (pl *placement) target(p *Problem, m int) ([]int, *mat.Dense) {
	dim := p.Views.Dim()
	var pts []int
	var data []float64
	for _, n := range p.Utilde.Row(m) {
		sum := make([]float64, dim)
		cnt := 0
		for _, o := range pl.col.Row(n) {
			if o == m || pl.rows[o] == nil || pl.cluster[o] != pl.cluster[m] {
				continue
			}
			k, _ := p.Utilde.Pos(o, n)
			floats.Add(sum, pl.rows[o].RawRowView(k))
			cnt++
		}
		if cnt == 0 {
			continue
		}
		floats.Scale(1/float64(cnt), sum)
		pts = append(pts, n)
		data = append(data, sum...)
	}
	if len(pts) == 0 {
		return nil, nil
	}
	z := mat.NewDense(len(pts), dim, data)
	repel(p, pts, z)
	return pts, z
}

// repel moves far-off rows of z away from the centroid of z.
func repel(p *Problem, pts []int, z *mat.Dense) {
	if p.RepelBy <= 0 || len(p.FarOff) == 0 {
		return
	}
	mu := ColumnMeans(z)
	for r, n := range pts {
		if n >= len(p.FarOff) || !p.FarOff[n] {
			continue
		}
		row := z.RawRowView(r)
		dir := make([]float64, len(row))
		floats.SubTo(dir, row, mu)
		norm := floats.Norm(dir, 2)
		if norm == 0 {
			continue
		}
		floats.AddScaled(row, p.RepelBy/norm, dir)
	}
}
