package refine

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/matrix"
	"github.com/katalvlaran/lvstitch/tear"
)

// Status is the refiner lifecycle state.
type Status int

const (
	// Running means more iterations may follow.
	Running Status = iota
	// Converged means patience ran out while computing errors.
	Converged
	// IterationBudgetExhausted means the last call used all of max_iter.
	IterationBudgetExhausted
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case IterationBudgetExhausted:
		return "iteration_budget_exhausted"
	default:
		return "unknown"
	}
}

// IterStat is the telemetry of one iteration.
type IterStat struct {
	Iter int
	// Err is the mean alignment error; valid only when HasErr.
	Err    float64
	HasErr bool
	// Edges is |E(Gamma_t)| = nnz(Utilde_t), the normaliser of Err.
	Edges int
	// TornPairs is the number of torn view pairs after the iteration.
	TornPairs int
	// FarOff is the number of far-off points.
	FarOff int
	At     time.Time
}

// Tracker collects telemetry across Run calls.
type Tracker struct {
	InitErr float64
	Iters   []IterStat
	Start   time.Time
}

// RefineErr returns the errors of the iterations that computed one.
func (t *Tracker) RefineErr() []float64 {
	var out []float64
	for _, s := range t.Iters {
		if s.HasErr {
			out = append(out, s.Err)
		}
	}
	return out
}

// State is the caller-owned refinement state.
type State struct {
	// Y is the current N×d' embedding.
	Y *mat.Dense
	// Iter counts completed iterations since the last reset.
	Iter   int
	Status Status

	PatienceLeft int
	PrevErr      float64
	hasPrev      bool

	// RepelBy is the current (decayed) repulsion distance.
	RepelBy float64

	// Handle persists solver state between iterations.
	Handle *align.Handle

	// Tear is the latest detection report; nil before the first one.
	Tear *tear.Report

	// UtildeT is the membership used by the latest iteration.
	UtildeT *matrix.Bool

	Tracker Tracker
}

// LastErr returns the most recent recorded error.
func (s *State) LastErr() (float64, bool) {
	for i := len(s.Tracker.Iters) - 1; i >= 0; i-- {
		if s.Tracker.Iters[i].HasErr {
			return s.Tracker.Iters[i].Err, true
		}
	}
	return 0, false
}
