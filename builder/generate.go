package builder

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/knn"
	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/view"
)

// ambientDim is the dimension the shapes are embedded in.
const ambientDim = 3

// Dataset is a generated view set together with its ground truth.
type Dataset struct {
	// Shape is the generator name (ShapeStrip or ShapeRing).
	Shape string

	// Views carries Utilde, C and the per-view local coordinates.
	Views *view.Set

	// Intrinsic holds the N×2 ground-truth manifold coordinates.
	Intrinsic *mat.Dense

	// Ambient holds the N×3 embedding the views were cut from.
	Ambient *mat.Dense

	// Centres lists the point each view was grown around.
	Centres []int
}

// Sample draws n points of the named shape and returns their intrinsic
// (n×2) and ambient (n×3) coordinates.
func Sample(shape string, n int, opts ...BuilderOption) (*mat.Dense, *mat.Dense, error) {
	if n < MinPoints {
		return nil, nil, builderErrorf(MethodSample, ErrTooFew, "points=%d < %d", n, MinPoints)
	}
	cfg := newBuilderConfig(opts...)

	return sample(shape, n, &cfg)
}

func sample(shape string, n int, cfg *builderConfig) (*mat.Dense, *mat.Dense, error) {
	intrinsic := mat.NewDense(n, IntrinsicDim, nil)
	ambient := mat.NewDense(n, ambientDim, nil)
	for i := 0; i < n; i++ {
		u, w := cfg.unit(i)
		switch shape {
		case ShapeStrip:
			x, y := u*cfg.width, w*cfg.height
			intrinsic.SetRow(i, []float64{x, y})
			ambient.SetRow(i, []float64{x, y, 0})
		case ShapeRing:
			theta := u * 2 * math.Pi
			intrinsic.SetRow(i, []float64{theta * cfg.radius, w * cfg.height})
			ambient.SetRow(i, []float64{cfg.radius * math.Cos(theta), cfg.radius * math.Sin(theta), w * cfg.height})
		default:
			return nil, nil, builderErrorf(MethodSample, ErrUnknownShape, "%q", shape)
		}
	}

	return intrinsic, ambient, nil
}

// unit returns the i-th sample of the unit square: uniform with an RNG,
// the Halton (2,3) sequence otherwise.
func (c *builderConfig) unit(i int) (float64, float64) {
	if c.rng != nil {
		return c.rng.Float64(), c.rng.Float64()
	}

	return halton(i+1, 2), halton(i+1, 3)
}

// halton returns the i-th element of the van der Corput sequence in base b.
func halton(i, b int) float64 {
	f, r := 1.0, 0.0
	for i > 0 {
		f /= float64(b)
		r += f * float64(i%b)
		i /= b
	}

	return r
}

// Generate samples a shape and cuts it into overlapping views.
//
// Steps:
//  1. Validate sizes and sample the shape.
//  2. Choose `views` centres by farthest-point sampling (first centre: point 0).
//  3. Owner of each point = nearest centre; domain of view m = the
//     `neighbors` nearest points of its centre plus the points it owns.
//  4. Local coordinates = top-2 principal components of the centred domain,
//     followed by a per-view rigid motion and optional noise.
//  5. Assemble Utilde, C and the view.Set (with zeta scores).
//
// Complexity: O(N·M) for centres plus O(M·k·log N) for the neighbourhoods.
func Generate(shape string, points, views, neighbors int, opts ...BuilderOption) (*Dataset, error) {
	switch {
	case points < MinPoints:
		return nil, builderErrorf(MethodGenerate, ErrTooFew, "points=%d < %d", points, MinPoints)
	case views < MinViews:
		return nil, builderErrorf(MethodGenerate, ErrTooFew, "views=%d < %d", views, MinViews)
	case neighbors < MinNeighbors:
		return nil, builderErrorf(MethodGenerate, ErrTooFew, "neighbors=%d < %d", neighbors, MinNeighbors)
	case views > points:
		return nil, builderErrorf(MethodGenerate, ErrTooMany, "views=%d > points=%d", views, points)
	}
	if neighbors > points {
		neighbors = points
	}
	cfg := newBuilderConfig(opts...)

	intrinsic, ambient, err := sample(shape, points, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodGenerate, err)
	}

	centres := farthestPoints(ambient, views)

	owner, err := nearestCentre(ambient, centres)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodGenerate, err)
	}

	ix, err := knn.New(ambient, knn.Euclidean)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodGenerate, err)
	}
	domains := make([][]int, views)
	owned := make([][]int, views)
	for p, m := range owner {
		owned[m] = append(owned[m], p)
	}
	for m, c := range centres {
		nb, err := ix.Query(c, neighbors)
		if err != nil {
			return nil, fmt.Errorf("%s: view %d: %w", MethodGenerate, m, err)
		}
		domains[m] = append(nb, owned[m]...)
	}

	utilde, err := matrix.FromRows(points, domains)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodGenerate, err)
	}
	core, err := matrix.FromRows(points, owned)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodGenerate, err)
	}

	local := make([]*mat.Dense, views)
	zeta := make([]float64, views)
	for m := 0; m < views; m++ {
		local[m], zeta[m] = cfg.localCoords(ambient, utilde.Row(m), m)
	}

	vopts := []view.Option{view.WithZeta(zeta)}
	if cfg.addDim {
		vopts = append(vopts, view.WithAddDim())
	}
	set, err := view.New(utilde, core, local, IntrinsicDim, vopts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodGenerate, err)
	}

	return &Dataset{Shape: shape, Views: set, Intrinsic: intrinsic, Ambient: ambient, Centres: centres}, nil
}

// farthestPoints greedily picks k rows, each maximising its distance to the
// rows already picked. Ties go to the lower index.
func farthestPoints(x *mat.Dense, k int) []int {
	n, _ := x.Dims()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	out := make([]int, 0, k)
	next := 0
	for len(out) < k {
		out = append(out, next)
		c := x.RawRowView(next)
		best := -1.0
		for i := 0; i < n; i++ {
			if d := floats.Distance(x.RawRowView(i), c, 2); d < dist[i] {
				dist[i] = d
			}
			if dist[i] > best {
				best, next = dist[i], i
			}
		}
	}

	return out
}

// nearestCentre assigns every row of x to the index of its closest centre.
func nearestCentre(x *mat.Dense, centres []int) ([]int, error) {
	n, dim := x.Dims()
	cx := mat.NewDense(len(centres), dim, nil)
	for m, c := range centres {
		cx.SetRow(m, x.RawRowView(c))
	}
	ix, err := knn.New(cx, knn.Euclidean)
	if err != nil {
		return nil, err
	}
	owner := make([]int, n)
	for p := 0; p < n; p++ {
		nb, err := ix.Nearest(x.RawRowView(p), 1)
		if err != nil {
			return nil, err
		}
		owner[p] = nb[0]
	}

	return owner, nil
}

// localCoords projects the centred domain of view m onto its two principal
// directions and applies the view's rigid motion. The second return value is
// σ3/σ1, the share of variance the projection discards.
func (c *builderConfig) localCoords(ambient *mat.Dense, domain []int, m int) (*mat.Dense, float64) {
	x := mat.NewDense(len(domain), ambientDim, nil)
	for r, p := range domain {
		x.SetRow(r, ambient.RawRowView(p))
	}
	for j := 0; j < ambientDim; j++ {
		col := mat.Col(nil, j, x)
		floats.AddConst(-floats.Sum(col)/float64(len(col)), col)
		x.SetCol(j, col)
	}

	var svd mat.SVD
	out := mat.NewDense(len(domain), IntrinsicDim, nil)
	zeta := 0.0
	if svd.Factorize(x, mat.SVDThin) {
		var v mat.Dense
		svd.VTo(&v)
		out.Mul(x, v.Slice(0, ambientDim, 0, IntrinsicDim))
		if s := svd.Values(nil); len(s) > IntrinsicDim && s[0] > 0 {
			zeta = s[IntrinsicDim] / s[0]
		}
	} else {
		out.Copy(x.Slice(0, len(domain), 0, IntrinsicDim))
	}

	if !c.noMotion {
		r, t := c.motion(m)
		var moved mat.Dense
		moved.Mul(out, r)
		for i := 0; i < len(domain); i++ {
			row := moved.RawRowView(i)
			floats.Add(row, t)
		}
		out = &moved
	}
	if c.rng != nil && c.noiseSigma > 0 {
		raw := out.RawMatrix().Data
		for i := range raw {
			raw[i] += c.rng.NormFloat64() * c.noiseSigma
		}
	}

	return out, zeta
}

// motion returns the orthogonal matrix and translation hiding view m's
// placement. Odd views are reflected in the deterministic mode.
func (c *builderConfig) motion(m int) (*mat.Dense, []float64) {
	var theta, sign float64
	t := make([]float64, IntrinsicDim)
	if c.rng != nil {
		theta = c.rng.Float64() * 2 * math.Pi
		sign = 1
		if c.rng.Intn(2) == 1 {
			sign = -1
		}
		for i := range t {
			t[i] = c.rng.NormFloat64() * defaultShift
		}
	} else {
		theta = 0.7 * float64(m+1)
		sign = 1
		if m%2 == 1 {
			sign = -1
		}
		t[0], t[1] = defaultShift*float64(m), -defaultShift*float64(m)
	}
	cos, sin := math.Cos(theta), math.Sin(theta)

	return mat.NewDense(2, 2, []float64{cos, -sin * sign, sin, cos * sign}), t
}
