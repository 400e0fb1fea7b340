package tear

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/knn"
	"github.com/katalvlaran/lvstitch/matrix"
)

// Colouring methods.
const (
	Heuristic = "heuristic"
	Spectral  = "spectral"
)

// Sentinel errors for tear detection.
var (
	ErrBadNeighbors = errors.New("tear: k and nu must be positive")
	ErrShape        = errors.New("tear: inputs disagree in shape")
	ErrUnknownColor = errors.New("tear: unknown colouring method")
	ErrEigenFailed  = errors.New("tear: eigendecomposition failed")
)

// Options configures detection and colouring.
type Options struct {
	K, Nu       int
	Metric      string
	Color       bool
	Method      string
	EigInds     []int
	CutoffFrac  float64
	LargestOnly bool
}

// Report is the outcome of one detection pass.
type Report struct {
	// Utildeg is the embedding neighbourhood membership C·A_knn.
	Utildeg *matrix.Bool

	// Graph counts the shared points of every torn pair (symmetric).
	Graph *matrix.Counts

	// OnTear flags points on a tear boundary.
	OnTear []bool

	// Coloring is nil unless colouring was requested.
	Coloring *Coloring
}

// TornPairs returns the number of torn view pairs.
func (r *Report) TornPairs() int { return r.Graph.NNZ() / 2 }

// Neighborhood returns Utildeg = C·A_knn, where A_knn links every point of
// y to its k·nu nearest neighbours (itself included).
func Neighborhood(y mat.Matrix, core *matrix.Bool, k, nu int, metric string) (*matrix.Bool, error) {
	if k <= 0 || nu <= 0 {
		return nil, ErrBadNeighbors
	}
	if r, _ := y.Dims(); r != core.Cols() {
		return nil, fmt.Errorf("y has %d rows, core %d columns: %w", r, core.Cols(), ErrShape)
	}
	nb, err := knn.Graph(y, k*nu, metric)
	if err != nil {
		return nil, err
	}
	a, err := matrix.FromRows(core.Cols(), nb)
	if err != nil {
		return nil, err
	}
	return core.Product(a)
}

// Graph returns the tear graph Gram(utilde) restricted to pairs absent
// from Gram(utildeg).
func Graph(utilde, utildeg *matrix.Bool) (*matrix.Counts, error) {
	if utilde.Rows() != utildeg.Rows() || utilde.Cols() != utildeg.Cols() {
		return nil, ErrShape
	}
	return utilde.Gram().Without(utildeg.Gram())
}

// OnTear flags point n when some view m' torn from owner[n] contains n.
func OnTear(tg *matrix.Counts, utilde *matrix.Bool, owner []int) []bool {
	out := make([]bool, len(owner))
	for n, m := range owner {
		for _, mp := range tg.Neighbors(m) {
			if utilde.Has(mp, n) {
				out[n] = true
				break
			}
		}
	}
	return out
}

// Detect runs neighbourhood construction, tear graph and (optionally)
// colouring for the embedding y.
func Detect(ctx context.Context, y mat.Matrix, utilde, core *matrix.Bool, owner []int, clusters [][]int, opts Options) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(owner) != utilde.Cols() {
		return nil, ErrShape
	}
	ug, err := Neighborhood(y, core, opts.K, opts.Nu, opts.Metric)
	if err != nil {
		return nil, err
	}
	tg, err := Graph(utilde, ug)
	if err != nil {
		return nil, err
	}
	rep := &Report{Utildeg: ug, Graph: tg, OnTear: OnTear(tg, utilde, owner)}
	if !opts.Color {
		return rep, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch opts.Method {
	case Heuristic, "":
		rep.Coloring, err = ColorHeuristic(tg, utilde, owner, clusters)
	case Spectral:
		rep.Coloring, err = ColorSpectral(utilde, owner, rep.OnTear, opts.EigInds, opts.CutoffFrac, opts.LargestOnly)
	default:
		err = fmt.Errorf("%q: %w", opts.Method, ErrUnknownColor)
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}
