// SPDX-License-Identifier: MIT
// Package: lvstitch/repair
//
// Package repair recomputes pairwise distances of a global embedding so that
// they respect tears.
//
// Across a tear the embedding places neighbours of the manifold far apart (or
// strangers close together), so Euclidean distances in y are wrong for points
// owned by torn views. Repair proceeds in two phases:
//
//  1. Substitution: for every pair (i,j) whose owners are torn, replace
//     dist[i,j] by the minimum of the local distances measured inside any
//     of the two owner views that contains both points. When neither view
//     contains both, the pair becomes +Inf (unknown).
//  2. Relaxation: Jacobi passes of
//     dist[i,j] = min(dist[i,j], min_k dist[i,k] + dist[k,j])
//     with k restricted to the tear boundary, until the mean absolute change
//     drops below Tol or MaxCrossings passes were made. Only entries finite
//     after the pass count; one that was +Inf before counts with its value.
//     Rows of a pass are computed in parallel over a fixed partition into a
//     fresh buffer, so no chunk reads what another writes.
//
// Either an embedding (FromEmbedding) or a precomputed dense matrix
// (Distances) can be the starting point.
//
// Errors:
//
//	ErrShape     – y, dist, owner or the tear graph disagree in size
//	ErrNotSquare – dist is not N×N
//	ErrOptions   – negative Tol, MaxCrossings or NProc
package repair
