package align

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ColumnMeans returns the mean of every column of x.
func ColumnMeans(x mat.Matrix) []float64 {
	r, c := x.Dims()
	out := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		out[j] = stat.Mean(col, nil)
	}
	return out
}

// Centre returns x with its column means subtracted, and the means.
func Centre(x mat.Matrix) (*mat.Dense, []float64) {
	mu := ColumnMeans(x)
	out := mat.DenseCopyOf(x)
	r, _ := out.Dims()
	for i := 0; i < r; i++ {
		floats.Sub(out.RawRowView(i), mu)
	}
	return out, mu
}

// MinSingularValue returns the smallest singular value of a.
// A failed factorisation reports 0 (most ambiguous) and false.
func MinSingularValue(a mat.Matrix) (float64, bool) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return 0, false
	}
	vals := svd.Values(nil)
	if len(vals) == 0 {
		return 0, true
	}
	return vals[len(vals)-1], true
}

// Polar returns the orthogonal factor U·Vᵀ of a = UΣVᵀ (the nearest matrix
// with orthonormal rows or columns).
func Polar(a mat.Matrix) (*mat.Dense, bool) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false
	}
	var u, v, out mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	out.Mul(&u, v.T())
	return &out, true
}

// Fit returns the orthogonal T and translation v minimising ‖X·T + 1vᵀ − Y‖_F.
//
// Steps:
//  1. Centre X and Y.
//  2. T = polar(Xcᵀ·Yc).
//  3. v = mean(Y) − mean(X)·T.
func Fit(x, y mat.Matrix) (*mat.Dense, []float64, error) {
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xr == 0 || xr != yr || xc != yc {
		return nil, nil, ErrBadProblem
	}
	xbar, mx := Centre(x)
	ybar, my := Centre(y)
	var cov mat.Dense
	cov.Mul(xbar.T(), ybar)
	t, ok := Polar(&cov)
	if !ok {
		return nil, nil, ErrSolverFailed
	}
	v := make([]float64, xc)
	mxT := mat.NewVecDense(xc, nil)
	mxT.MulVec(t.T(), mat.NewVecDense(xc, mx))
	for j := range v {
		v[j] = my[j] - mxT.AtVec(j)
	}
	return t, v, nil
}

// identity returns the n×n identity.
func identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

// sqDist returns ‖a − b‖².
func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
