package align

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/view"
)

// Error returns Σ_{(m,n) ∈ utilde} ‖eval(m,n) − y[n]‖².
// The caller normalises by utilde.NNZ().
func Error(p view.Params, utilde *matrix.Bool, y mat.Matrix) (float64, error) {
	if p == nil || utilde == nil || y == nil {
		return 0, ErrBadProblem
	}
	if r, c := y.Dims(); r != p.Points() || c != p.Dim() {
		return 0, fmt.Errorf("y is %dx%d: %w", r, c, ErrBadProblem)
	}
	var total float64
	row := make([]float64, p.Dim())
	for m := 0; m < utilde.Rows(); m++ {
		pts := utilde.Row(m)
		if len(pts) == 0 {
			continue
		}
		e, err := p.Eval(m, pts)
		if err != nil {
			return 0, err
		}
		for r, n := range pts {
			mat.Row(row, n, y)
			total += sqDist(e.RawRowView(r), row)
		}
	}
	return total, nil
}

// FarOffPoints flags points whose placement disagrees across views.
//
// For every point n and every other view m covering it, the discrepancy is
// ‖eval(m,n) − eval(owner[n],n)‖. A point is far-off when its largest
// discrepancy exceeds factor × the median of all discrepancies. A zero
// threshold (no overlaps, perfect agreement or factor ≤ 0) flags nothing.
func FarOffPoints(p view.Params, utilde *matrix.Bool, owner []int, factor float64) ([]bool, error) {
	if p == nil || utilde == nil || len(owner) != p.Points() {
		return nil, ErrBadProblem
	}
	n := p.Points()
	far := make([]bool, n)
	own := make([][]float64, n)
	for m := 0; m < utilde.Rows(); m++ {
		var pts []int
		for _, pt := range utilde.Row(m) {
			if owner[pt] == m {
				pts = append(pts, pt)
			}
		}
		if len(pts) == 0 {
			continue
		}
		e, err := p.Eval(m, pts)
		if err != nil {
			return nil, err
		}
		for r, pt := range pts {
			own[pt] = mat.Row(nil, r, e)
		}
	}

	worst := make([]float64, n)
	var all []float64
	for m := 0; m < utilde.Rows(); m++ {
		var pts []int
		for _, pt := range utilde.Row(m) {
			if owner[pt] != m && own[pt] != nil {
				pts = append(pts, pt)
			}
		}
		if len(pts) == 0 {
			continue
		}
		e, err := p.Eval(m, pts)
		if err != nil {
			return nil, err
		}
		for r, pt := range pts {
			d := floats.Distance(e.RawRowView(r), own[pt], 2)
			all = append(all, d)
			if d > worst[pt] {
				worst[pt] = d
			}
		}
	}
	if len(all) == 0 || factor <= 0 {
		return far, nil
	}
	sort.Float64s(all)
	threshold := factor * stat.Quantile(0.5, stat.Empirical, all, nil)
	if threshold <= 0 {
		return far, nil
	}
	for pt, w := range worst {
		far[pt] = w > threshold
	}
	return far, nil
}
