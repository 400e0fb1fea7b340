// Package core provides a small, thread-safe, index-addressed Graph for the
// view-level and point-level graphs of the alignment engine.
//
// The Graph G = (V,E) is:
//
//   - Undirected, with float64 weights (ambiguity weights, overlap counts).
//   - Simple: at most one edge per vertex pair (ErrMultiEdgeNotAllowed).
//   - Loop-free unless built WithLoops().
//   - Arena-style: vertices are 0..n-1, adjacency is a slice of maps
//     adjacency[u][v] = edgeID, mirrored for both endpoints.
//
// Why index-addressed?
//
//   - Views and points are already dense integer ids in the membership
//     matrices (matrix.Bool), so string ids would only add lookups.
//   - Edges() is sorted by ID and Neighbors() by index, so spanning forests
//     and BFS orders are reproducible.
//
// Core Methods:
//
//	AddEdge(u, v int, w float64) (id int, err error) // O(1)
//	RemoveEdge(id int) error                        // O(1)
//	HasEdge(u, v int) bool                          // O(1)
//	Weight(u, v int) (float64, bool)                // O(1)
//	Neighbors(u int) ([]int, error)                 // O(d·log d)
//	Edges() []Edge                                  // O(E·log E)
//	Components() [][]int                            // O(V+E)
//	Clone() / CloneEmpty()                          // O(V+E) / O(V)
//
// Errors:
//
//	ErrVertexOutOfRange    – index outside [0,n)
//	ErrEdgeNotFound        – missing edge
//	ErrBadWeight           – NaN/Inf weight
//	ErrLoopNotAllowed      – self-loop when loops disabled
//	ErrMultiEdgeNotAllowed – second edge between the same endpoints
package core
