package builder

import "math/rand"

// builderConfig aggregates all knobs used by Generate.
// It is passed by value (immutable to callers).
type builderConfig struct {
	// RNG for sampling and rigid motions; nil means deterministic lattice.
	rng *rand.Rand

	// Gaussian noise on local coordinates (≥ 0).
	noiseSigma float64

	// Skip the per-view rigid motion (local frame = principal axes).
	noMotion bool

	// Pad local coordinates with a zero column (view.WithAddDim).
	addDim bool

	// Strip dimensions and ring radius (height shared).
	width, height, radius float64
}

// newBuilderConfig applies options in order over deterministic defaults.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		width:  defaultWidth,
		height: defaultHeight,
		radius: defaultRadius,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
