package view

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/matrix"
)

// Sentinel errors for view sets.
var (
	ErrEmptySet        = errors.New("view: empty view set")
	ErrShape           = errors.New("view: local coordinates shape mismatch")
	ErrCoreNotInDomain = errors.New("view: core point outside its view domain")
	ErrViewOutOfRange  = errors.New("view: view index out of range")
	ErrPointNotInView  = errors.New("view: point not in view domain")
	ErrEmptyPoints     = errors.New("view: empty point list")
)

// Params is what alignment needs from a view collection.
type Params interface {
	// Views returns M.
	Views() int
	// Points returns N.
	Points() int
	// Dim returns the embedding dimension d'.
	Dim() int
	// Domain returns the sorted points of view m (Utilde row m).
	Domain(m int) []int
	// Local returns the untransformed coordinates of pts in view m (|pts|×d').
	Local(m int, pts []int) (*mat.Dense, error)
	// Eval returns Local(m, pts)·T[m] + v[m].
	Eval(m int, pts []int) (*mat.Dense, error)
	// Transform returns copies of T[m] and v[m].
	Transform(m int) (*mat.Dense, []float64)
	// SetTransform replaces T[m] and v[m].
	SetTransform(m int, t *mat.Dense, v []float64) error
	// Zeta returns the distortion score of view m.
	Zeta(m int) float64
}

// Option configures a Set at construction.
type Option func(*Set)

// WithAddDim pads every view with a zero coordinate (d' = d+1).
func WithAddDim() Option {
	return func(s *Set) { s.addDim = true }
}

// WithZeta sets the per-view distortion scores used for root selection.
// Missing scores default to 0.
func WithZeta(zeta []float64) Option {
	return func(s *Set) { s.zeta = append([]float64(nil), zeta...) }
}

// Set is the arena of M views over N points.
type Set struct {
	utilde *matrix.Bool
	core   *matrix.Bool
	owner  []int
	nC     []int

	d      int
	addDim bool

	local []*mat.Dense
	t     []*mat.Dense
	v     [][]float64
	zeta  []float64
}

// New builds a Set from membership matrices and per-view local coordinates.
// local[m] has one row per point of utilde.Row(m), in that order, and d columns.
// All transforms start at identity.
//
// Steps:
//  1. Validate shapes: utilde and core are M×N with M,N > 0, len(local) == M.
//  2. Derive owners from core (exactly one view per point).
//  3. Check every point lies in its owner's domain.
//  4. Copy local coordinates, padding a zero column WithAddDim.
func New(utilde, core *matrix.Bool, local []*mat.Dense, d int, opts ...Option) (*Set, error) {
	if utilde == nil || core == nil {
		return nil, ErrEmptySet
	}
	m, n := utilde.Rows(), utilde.Cols()
	if m == 0 || n == 0 {
		return nil, ErrEmptySet
	}
	if core.Rows() != m || core.Cols() != n || len(local) != m || d <= 0 {
		return nil, ErrShape
	}
	owner, err := core.Owners()
	if err != nil {
		return nil, err
	}
	for p, o := range owner {
		if !utilde.Has(o, p) {
			return nil, fmt.Errorf("point %d view %d: %w", p, o, ErrCoreNotInDomain)
		}
	}

	s := &Set{utilde: utilde, core: core, owner: owner, nC: core.RowCounts(), d: d}
	for _, opt := range opts {
		opt(s)
	}
	dim := s.Dim()
	s.local = make([]*mat.Dense, m)
	s.t = make([]*mat.Dense, m)
	s.v = make([][]float64, m)
	for i := 0; i < m; i++ {
		rows := len(utilde.Row(i))
		x := local[i]
		if rows == 0 {
			return nil, fmt.Errorf("view %d has no points: %w", i, ErrShape)
		}
		if x == nil {
			return nil, fmt.Errorf("view %d: %w", i, ErrShape)
		}
		if r, c := x.Dims(); r != rows || c != d {
			return nil, fmt.Errorf("view %d is %dx%d, want %dx%d: %w", i, r, c, rows, d, ErrShape)
		}
		cp := mat.NewDense(rows, dim, nil)
		cp.Slice(0, rows, 0, d).(*mat.Dense).Copy(x)
		s.local[i] = cp
		s.t[i] = identity(dim)
		s.v[i] = make([]float64, dim)
	}
	if len(s.zeta) < m {
		s.zeta = append(s.zeta, make([]float64, m-len(s.zeta))...)
	}

	return s, nil
}

func identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

// Views returns M.
func (s *Set) Views() int { return len(s.local) }

// Points returns N.
func (s *Set) Points() int { return len(s.owner) }

// Dim returns d'.
func (s *Set) Dim() int {
	if s.addDim {
		return s.d + 1
	}
	return s.d
}

// IntrinsicDim returns d.
func (s *Set) IntrinsicDim() int { return s.d }

// AddDim reports whether local coordinates are zero-padded.
func (s *Set) AddDim() bool { return s.addDim }

// Utilde returns the extended membership matrix (shared, read-only).
func (s *Set) Utilde() *matrix.Bool { return s.utilde }

// Core returns the core membership matrix (shared, read-only).
func (s *Set) Core() *matrix.Bool { return s.core }

// Owners returns c: the owning view of every point (shared, read-only).
func (s *Set) Owners() []int { return s.owner }

// CoreCounts returns n_C: the number of points each view owns (shared, read-only).
func (s *Set) CoreCounts() []int { return s.nC }

// Domain returns the sorted points of view m.
func (s *Set) Domain(m int) []int { return s.utilde.Row(m) }

// Zeta returns the distortion score of view m.
func (s *Set) Zeta(m int) float64 {
	if m < 0 || m >= len(s.zeta) {
		return 0
	}
	return s.zeta[m]
}

func (s *Set) checkView(m int) error {
	if m < 0 || m >= len(s.local) {
		return fmt.Errorf("view %d: %w", m, ErrViewOutOfRange)
	}
	return nil
}

// Local returns the untransformed coordinates of pts in view m.
func (s *Set) Local(m int, pts []int) (*mat.Dense, error) {
	if err := s.checkView(m); err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return nil, ErrEmptyPoints
	}
	dim := s.Dim()
	out := mat.NewDense(len(pts), dim, nil)
	for r, p := range pts {
		k, ok := s.utilde.Pos(m, p)
		if !ok {
			return nil, fmt.Errorf("point %d view %d: %w", p, m, ErrPointNotInView)
		}
		out.SetRow(r, s.local[m].RawRowView(k))
	}

	return out, nil
}

// Eval returns the global coordinates of pts according to view m.
func (s *Set) Eval(m int, pts []int) (*mat.Dense, error) {
	x, err := s.Local(m, pts)
	if err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(x, s.t[m])
	for r := 0; r < len(pts); r++ {
		row := out.RawRowView(r)
		for c := range row {
			row[c] += s.v[m][c]
		}
	}

	return &out, nil
}

// Transform returns copies of T[m] and v[m]. Out-of-range m yields nils.
func (s *Set) Transform(m int) (*mat.Dense, []float64) {
	if s.checkView(m) != nil {
		return nil, nil
	}
	return mat.DenseCopyOf(s.t[m]), append([]float64(nil), s.v[m]...)
}

// SetTransform replaces T[m] and v[m] with copies of t and v.
func (s *Set) SetTransform(m int, t *mat.Dense, v []float64) error {
	if err := s.checkView(m); err != nil {
		return err
	}
	dim := s.Dim()
	if t == nil || len(v) != dim {
		return ErrShape
	}
	if r, c := t.Dims(); r != dim || c != dim {
		return ErrShape
	}
	s.t[m].Copy(t)
	copy(s.v[m], v)

	return nil
}

// Shift adds dv to v[m].
func (s *Set) Shift(m int, dv []float64) error {
	if err := s.checkView(m); err != nil {
		return err
	}
	for c := range s.v[m] {
		if c < len(dv) {
			s.v[m][c] += dv[c]
		}
	}
	return nil
}

// ResetTransforms sets every T[m] to I and v[m] to 0.
func (s *Set) ResetTransforms() {
	for m := range s.t {
		s.t[m] = identity(s.Dim())
		for c := range s.v[m] {
			s.v[m][c] = 0
		}
	}
}

// Embed writes y[n] = Eval(c[n], n) for every point and returns the N×d'
// global embedding.
func Embed(p Params, owner []int) (*mat.Dense, error) {
	n := p.Points()
	if n == 0 || len(owner) != n {
		return nil, ErrEmptySet
	}
	y := mat.NewDense(n, p.Dim(), nil)
	byView := make(map[int][]int)
	for pt, m := range owner {
		byView[m] = append(byView[m], pt)
	}
	for m := 0; m < p.Views(); m++ {
		pts := byView[m]
		if len(pts) == 0 {
			continue
		}
		e, err := p.Eval(m, pts)
		if err != nil {
			return nil, err
		}
		for r, pt := range pts {
			y.SetRow(pt, e.RawRowView(r))
		}
	}

	return y, nil
}
