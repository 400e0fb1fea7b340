// Package builder generates synthetic view sets for tests, examples and the
// demo CLI. It follows the same functional-options building blocks as the
// rest of the module: a single builderConfig, BuilderOption mutators that
// panic on meaningless input, and sentinel errors wrapped with the method
// name.
//
// A dataset is produced in four steps:
//
//  1. Shape: sample N points of a 2-D manifold and its 3-D embedding.
//     ShapeStrip is a flat rectangle; ShapeRing is an open cylinder, which
//     cannot be flattened without a tear.
//  2. Views: pick M centres by farthest-point sampling; each view's domain
//     is the `neighbors` nearest ambient points of its centre.
//  3. Ownership: every point is owned by its nearest centre and is added
//     to that view's domain, so C ⊆ Utilde.
//  4. Local coordinates: each view projects its centred domain onto its two
//     principal directions and applies a private rigid motion. Zeta is the
//     ratio of the third to the first singular value (0 for flat views).
//
// Without WithSeed the sampling is a deterministic Halton lattice and the
// rigid motions are fixed rotations, so outputs are reproducible either way.
package builder
