package align

import (
	"errors"
	"fmt"
)

// Sentinel errors for alignment.
var (
	// ErrNotImplemented indicates a transform family other than rigid.
	ErrNotImplemented = errors.New("align: not implemented")

	// ErrUnknownAlgorithm indicates a name absent from the registry.
	ErrUnknownAlgorithm = errors.New("align: unknown algorithm")

	// ErrEmptyOverlap indicates a required overlap has no points.
	ErrEmptyOverlap = errors.New("align: empty overlap")

	// ErrEmptyCluster indicates a cluster without views.
	ErrEmptyCluster = errors.New("align: empty cluster")

	// ErrSolverFailed wraps a numerical factorisation or solver failure.
	ErrSolverFailed = errors.New("align: solver failed")

	// ErrBadProblem indicates missing or inconsistent Problem fields.
	ErrBadProblem = errors.New("align: bad problem")
)

// Rigid is the only supported transform family.
const Rigid = "rigid"

// CheckTransform returns ErrNotImplemented for any family but Rigid.
func CheckTransform(name string) error {
	if name != Rigid {
		return fmt.Errorf("%q transforms: %w", name, ErrNotImplemented)
	}
	return nil
}

// alignErrorf tags err with the algorithm name.
func alignErrorf(algo string, err error) error {
	return fmt.Errorf("align %s: %w", algo, err)
}
