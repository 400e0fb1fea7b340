package align_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/view"
)

// gridSet builds three views over a 6×4 grid of points. View m covers grid
// columns [2m, 2m+2] (clipped), owns columns 2m and 2m+1, and sees its points
// through a private rigid motion (view 1 also reflected).
func gridSet(t *testing.T) (*view.Set, []int, *mat.Dense) {
	t.Helper()
	const cols, rows = 6, 4
	truth := mat.NewDense(cols*rows, 2, nil)
	id := func(x, y int) int { return x*rows + y }
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			truth.Set(id(x, y), 0, float64(x))
			truth.Set(id(x, y), 1, float64(y)*0.7)
		}
	}
	var dom, core [][]int
	for m := 0; m < 3; m++ {
		var d, c []int
		for x := 2 * m; x <= 2*m+2 && x < cols; x++ {
			for y := 0; y < rows; y++ {
				d = append(d, id(x, y))
				if x < 2*m+2 {
					c = append(c, id(x, y))
				}
			}
		}
		dom = append(dom, d)
		core = append(core, c)
	}
	utilde, err := matrix.FromRows(cols*rows, dom)
	require.NoError(t, err)
	c, err := matrix.FromRows(cols*rows, core)
	require.NoError(t, err)

	angles := []float64{0.3, -1.1, 2.0}
	shifts := [][2]float64{{1, 2}, {-4, 0.5}, {10, -3}}
	local := make([]*mat.Dense, 3)
	for m := range local {
		pts := utilde.Row(m)
		x := mat.NewDense(len(pts), 2, nil)
		cs, sn := math.Cos(angles[m]), math.Sin(angles[m])
		for r, n := range pts {
			px, py := truth.At(n, 0), truth.At(n, 1)
			if m == 1 {
				py = -py
			}
			x.Set(r, 0, cs*px-sn*py+shifts[m][0])
			x.Set(r, 1, sn*px+cs*py+shifts[m][1])
		}
		local[m] = x
	}
	set, err := view.New(utilde, c, local, 2)
	require.NoError(t, err)

	return set, set.Owners(), truth
}

// chain is the cluster/parent structure of gridSet: 0 → 1 → 2.
func chain() ([][]int, []int) {
	return [][]int{{0, 1, 2}}, []int{-1, 0, 1}
}

// meanError returns Error / nnz for the current transforms.
func meanError(t *testing.T, set *view.Set) float64 {
	t.Helper()
	y, err := view.Embed(set, set.Owners())
	require.NoError(t, err)
	e, err := alignError(set, y)
	require.NoError(t, err)
	return e / float64(set.Utilde().NNZ())
}
