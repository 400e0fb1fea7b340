package align

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/view"
)

// Problem is the input of one Align call.
type Problem struct {
	// Views holds local coordinates and the transforms being updated.
	Views view.Params

	// Utilde is the membership used for overlaps: the full Utilde at
	// initialisation, Utilde_t during refinement.
	Utilde *matrix.Bool

	// Clusters lists the views of every cluster in BFS order.
	Clusters [][]int

	// Parents holds the BFS parent of every view, -1 for roots.
	Parents []int

	// FarOff flags points whose refine targets are repelled.
	FarOff []bool

	// RepelBy is the repulsion distance for far-off targets.
	RepelBy float64

	// Beta is the RGD step scale.
	Beta float64

	// MaxInternalIter bounds inner sweeps per Align call.
	MaxInternalIter int

	// Seed drives randomised initialisation.
	Seed int64

	// Handle persists solver state across refine iterations.
	Handle *Handle
}

// Handle is solver state owned by the caller between Align calls.
type Handle struct {
	// Factors holds the Burer–Monteiro factor per group, keyed by the
	// group's first view.
	Factors map[int]*mat.Dense

	// Calls counts Align invocations that used this handle.
	Calls int
}

// NewHandle returns an empty Handle.
func NewHandle() *Handle { return &Handle{Factors: make(map[int]*mat.Dense)} }

func (p *Problem) validate() error {
	if p == nil || p.Views == nil || p.Utilde == nil {
		return ErrBadProblem
	}
	if p.Utilde.Rows() != p.Views.Views() || p.Utilde.Cols() != p.Views.Points() {
		return fmt.Errorf("utilde %dx%d: %w", p.Utilde.Rows(), p.Utilde.Cols(), ErrBadProblem)
	}
	for ci, c := range p.Clusters {
		if len(c) == 0 {
			return fmt.Errorf("cluster %d: %w", ci, ErrEmptyCluster)
		}
	}
	if p.MaxInternalIter <= 0 {
		p.MaxInternalIter = 1
	}
	if p.Handle == nil {
		p.Handle = NewHandle()
	}
	return nil
}

// clusters returns p.Clusters or, when unset, one cluster with every view.
func (p *Problem) clusters() [][]int {
	if len(p.Clusters) > 0 {
		return p.Clusters
	}
	all := make([]int, p.Views.Views())
	for i := range all {
		all[i] = i
	}
	return [][]int{all}
}

// Algorithm updates the view transforms of a Problem.
type Algorithm interface {
	Name() string
	Align(ctx context.Context, p *Problem) error
}

// factory builds an Algorithm.
type factory func() Algorithm

var initRegistry = map[string]factory{
	"procrustes": func() Algorithm { return &sequential{} },
	"spectral":   func() Algorithm { return &spectral{} },
	"sdp":        func() Algorithm { return &sdp{solver: DefaultSDPSolver()} },
	"ltsa":       func() Algorithm { return &ltsa{} },
}

var refineRegistry = map[string]factory{
	"procrustes":       func() Algorithm { return &sweep{name: "procrustes", jacobi: false} },
	"procrustes_final": func() Algorithm { return &sweep{name: "procrustes_final", jacobi: false} },
	"gpm":              func() Algorithm { return &sweep{name: "gpm", jacobi: true} },
	"rgd":              func() Algorithm { return &rgd{} },
	"spectral":         func() Algorithm { return &spectral{} },
	"sdp":              func() Algorithm { return &sdp{solver: DefaultSDPSolver()} },
	"ltsa":             func() Algorithm { return &ltsa{} },
}

// Init returns the initialisation algorithm registered under name.
func Init(name string) (Algorithm, error) {
	f, ok := initRegistry[name]
	if !ok {
		return nil, fmt.Errorf("init %q: %w", name, ErrUnknownAlgorithm)
	}
	return f(), nil
}

// Refine returns the refinement algorithm registered under name.
func Refine(name string) (Algorithm, error) {
	f, ok := refineRegistry[name]
	if !ok {
		return nil, fmt.Errorf("refine %q: %w", name, ErrUnknownAlgorithm)
	}
	return f(), nil
}

// InitNames lists the registered initialisation algorithms, sorted.
func InitNames() []string { return names(initRegistry) }

// RefineNames lists the registered refinement algorithms, sorted.
func RefineNames() []string { return names(refineRegistry) }

func names(r map[string]factory) []string {
	out := make([]string, 0, len(r))
	for n := range r {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// WithSDPSolver returns the sdp algorithm backed by s.
func WithSDPSolver(s SDPSolver) Algorithm { return &sdp{solver: s} }
