// Package lvstitch stitches overlapping local views of a point set into one
// global embedding.
//
// A view is a small set of points with local coordinates, typically produced
// by a local dimensionality reduction around each point. lvstitch finds the
// rigid or affine transforms that place all views in a common frame, detects
// tears where the data manifold is cut open, and refines the result until the
// alignment error stops improving.
//
// Packages:
//
//	core/       — index-addressed weighted graph (view and point graphs)
//	bfs/        — breadth-first search over core.Graph
//	spanning/   — maximum spanning forests (Prim, Kruskal) and cluster splits
//	matrix/     — sparse boolean membership and overlap-count matrices
//	view/       — local views, their transforms and membership matrices
//	knn/        — k-nearest-neighbour index over the global embedding
//	overlap/    — view overlap graph and ambiguity weights
//	sequence/   — view sequencing, clusters and parents
//	align/      — initial and refinement alignment algorithms
//	tear/       — tear detection and tear-graph colouring
//	refine/     — iterative refinement with tearing and convergence tracking
//	repair/     — distance repair across tears
//	globalview/ — the engine composing all of the above
//	builder/    — synthetic strip and ring datasets
//	vis/        — snapshot sinks for intermediate embeddings
//
// The lvstitch command (cmd/lvstitch) runs the engine on a generated dataset.
//
//	go install github.com/katalvlaran/lvstitch/cmd/lvstitch@latest
package lvstitch
