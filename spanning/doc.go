// Package spanning computes maximum (or minimum) spanning forests on an
// undirected, weighted *core.Graph and splits them into a requested number of
// trees.
//
// What & Why
//
//   - The view sequencer needs the most reliable connections between views:
//     a maximum spanning forest of the ambiguity weights W, computed as a
//     minimum spanning forest of −W.
//   - A forest (not a tree) is produced: each connected component of the
//     support graph yields exactly one tree, with |V| − #components edges.
//   - Split removes the globally weakest tree edges until the forest has the
//     requested number of trees, fragmenting ambiguous structure into
//     independent sub-embeddings.
//
// Algorithms Provided
//
//   - Kruskal: sort all edges (stable, so equal weights keep Edge.ID order),
//     union-find with path compression and union by rank.
//     Time O(E log E + α(V)·E), Space O(V + E).
//
//   - Prim: grow one tree per component from its smallest unvisited vertex
//     with a binary heap of candidate edges.
//     Time O(E log V), Space O(V + E).
//
// Both honour Options.Maximum (negated comparison) and return the forest as
// a new *core.Graph sharing the vertex count of the input.
//
// Error Conditions
//
//   - ErrInvalidGraph: nil graph.
//   - ErrUnknownMethod: Method is neither MethodKruskal nor MethodPrim.
//   - ErrSplitTarget: Split target is below the current tree count or above |V|.
package spanning
