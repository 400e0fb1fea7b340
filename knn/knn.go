// Package knn answers k-nearest-neighbour queries over the rows of a dense
// point matrix with a gonum k-d tree.
//
// Results are deterministic: neighbours are ordered by (distance, index), and
// every point counts itself as its own nearest neighbour.
package knn

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Euclidean is the only supported metric.
const Euclidean = "euclidean"

// Sentinel errors for neighbour queries.
var (
	ErrUnsupportedMetric = errors.New("knn: unsupported metric")
	ErrBadK              = errors.New("knn: k must be positive")
	ErrNoPoints          = errors.New("knn: no points")
	ErrDims              = errors.New("knn: query dimension mismatch")
)

// indexed is a kd-tree point that remembers its row.
type indexed struct {
	row int
	p   kdtree.Point
}

func (a indexed) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return a.p[d] - b.(indexed).p[d]
}

func (a indexed) Dims() int { return len(a.p) }

// Distance is the squared Euclidean distance.
func (a indexed) Distance(b kdtree.Comparable) float64 {
	return a.p.Distance(b.(indexed).p)
}

type points []indexed

func (s points) Index(i int) kdtree.Comparable { return s[i] }
func (s points) Len() int                      { return len(s) }
func (s points) Pivot(d kdtree.Dim) int        { return plane{Dim: d, points: s}.Pivot() }
func (s points) Slice(start, end int) kdtree.Interface {
	return s[start:end]
}

// plane sorts points along one dimension for median partitioning.
type plane struct {
	kdtree.Dim
	points
}

func (p plane) Less(i, j int) bool { return p.points[i].p[p.Dim] < p.points[j].p[p.Dim] }
func (p plane) Swap(i, j int)      { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p plane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

// Index is a k-d tree over the rows of a matrix.
type Index struct {
	tree *kdtree.Tree
	rows []indexed
}

// CheckMetric returns ErrUnsupportedMetric for anything but Euclidean.
// The empty name means Euclidean.
func CheckMetric(metric string) error {
	if metric != "" && metric != Euclidean {
		return fmt.Errorf("%q: %w", metric, ErrUnsupportedMetric)
	}
	return nil
}

// New builds an Index over the rows of x with the given metric.
func New(x mat.Matrix, metric string) (*Index, error) {
	if err := CheckMetric(metric); err != nil {
		return nil, err
	}
	if x == nil {
		return nil, ErrNoPoints
	}
	r, c := x.Dims()
	if r == 0 {
		return nil, ErrNoPoints
	}
	rows := make([]indexed, r)
	for i := 0; i < r; i++ {
		p := make(kdtree.Point, c)
		for j := 0; j < c; j++ {
			p[j] = x.At(i, j)
		}
		rows[i] = indexed{row: i, p: p}
	}
	build := make(points, r)
	copy(build, rows)

	return &Index{tree: kdtree.New(build, false), rows: rows}, nil
}

// Len returns the number of indexed rows.
func (ix *Index) Len() int { return len(ix.rows) }

// Query returns the k rows nearest to row i, self included, ordered by
// (distance, row). k is capped at Len().
func (ix *Index) Query(i, k int) ([]int, error) {
	if k <= 0 {
		return nil, ErrBadK
	}
	if i < 0 || i >= len(ix.rows) {
		return nil, fmt.Errorf("row %d: %w", i, ErrNoPoints)
	}
	if k > len(ix.rows) {
		k = len(ix.rows)
	}
	return ix.search(ix.rows[i], k), nil
}

func (ix *Index) search(q indexed, k int) []int {
	keep := kdtree.NewNKeeper(k)
	ix.tree.NearestSet(keep, q)

	type hit struct {
		row  int
		dist float64
	}
	hits := make([]hit, 0, k)
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		hits = append(hits, hit{row: cd.Comparable.(indexed).row, dist: cd.Dist})
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].dist != hits[b].dist {
			return hits[a].dist < hits[b].dist
		}
		return hits[a].row < hits[b].row
	})
	out := make([]int, len(hits))
	for j, h := range hits {
		out[j] = h.row
	}

	return out
}

// Nearest returns the k rows nearest to the point q, ordered by
// (distance, row). k is capped at Len().
func (ix *Index) Nearest(q []float64, k int) ([]int, error) {
	if k <= 0 {
		return nil, ErrBadK
	}
	if len(q) != ix.rows[0].Dims() {
		return nil, ErrDims
	}
	if k > len(ix.rows) {
		k = len(ix.rows)
	}
	return ix.search(indexed{row: -1, p: kdtree.Point(q)}, k), nil
}

// Graph returns, for every row, its k nearest rows (see Query).
func Graph(x mat.Matrix, k int, metric string) ([][]int, error) {
	ix, err := New(x, metric)
	if err != nil {
		return nil, err
	}
	out := make([][]int, ix.Len())
	for i := range out {
		if out[i], err = ix.Query(i, k); err != nil {
			return nil, err
		}
	}

	return out, nil
}
