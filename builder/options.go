package builder

import "math/rand"

// BuilderOption customizes Generate by mutating a builderConfig.
type BuilderOption func(*builderConfig)

// WithSeed samples points and motions from a seeded RNG.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand provides an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) { c.rng = r }
}

// WithNoise adds N(0, sigma²) noise to local coordinates. Panics if sigma < 0.
// Noise needs an RNG (WithSeed/WithRand); without one it is ignored.
func WithNoise(sigma float64) BuilderOption {
	if sigma < 0 {
		panic("builder: WithNoise(sigma<0)")
	}
	return func(c *builderConfig) { c.noiseSigma = sigma }
}

// WithStripSize sets the strip rectangle. Panics on non-positive sizes.
func WithStripSize(width, height float64) BuilderOption {
	if width <= 0 || height <= 0 {
		panic("builder: WithStripSize(<=0)")
	}
	return func(c *builderConfig) { c.width, c.height = width, height }
}

// WithRingRadius sets the cylinder radius. Panics if r <= 0.
func WithRingRadius(r float64) BuilderOption {
	if r <= 0 {
		panic("builder: WithRingRadius(r<=0)")
	}
	return func(c *builderConfig) { c.radius = r }
}

// WithoutMotion keeps each view in its principal-axes frame.
func WithoutMotion() BuilderOption {
	return func(c *builderConfig) { c.noMotion = true }
}

// WithAddDim builds the view set with one zero-padded extra dimension.
func WithAddDim() BuilderOption {
	return func(c *builderConfig) { c.addDim = true }
}
