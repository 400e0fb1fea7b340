// Package bfs provides breadth-first search over a core.Graph, returning the
// visit order, hop depths and parent links of the BFS tree.
//
// What
//
//   - Explore vertices in non-decreasing hop distance from a start vertex.
//   - Returns a Result containing:
//   - Order: visit sequence
//   - Depth: hop distance per vertex (-1 if unreached)
//   - Parent: predecessor per vertex in the BFS tree (-1 for the start and
//     unreached vertices)
//   - Hooks: OnVisit (may abort with an error), FilterNeighbor, MaxDepth.
//
// Why
//
//   - The view sequencer walks each spanning tree in BFS order so every view
//     is aligned against an already placed parent.
//   - The heuristic tear colorer walks ambient view adjacency per cluster.
//
// Determinism
//
//	core.Graph.Neighbors returns indices sorted ascending and BFS enqueues
//	them in that order, so the visit sequence is fully reproducible.
//	Edge weights are ignored.
//
// Complexity (V = |Vertices|, E = |Edges|)
//
//   - Time:   O(V + E·log d)
//   - Memory: O(V)
package bfs
