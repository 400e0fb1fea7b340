// Package tear finds where the global embedding tears overlapping views
// apart and colours the points along each tear.
//
// Detection:
//
//	Utildeg = C · A_knn           A_knn: k·nu nearest neighbours in y
//	tear    = UUᵀ − UUᵀ ⊙ [UgUgᵀ] both with zero diagonal
//
// Two views are torn when they overlap in Utilde but their neighbourhoods
// in the embedding no longer meet. The tear graph is symmetric because both
// Gram matrices are.
//
// Colouring (per point, validity-flagged, see Coloring):
//
//   - Heuristic: per cluster, visit views in BFS order over the ambient
//     overlap graph; each torn pair (m, m') not yet handled colours its
//     uncoloured boundary points, those owned by m with k and those owned by
//     m' with k+1, then k += 2. A point on several tear boundaries keeps the
//     first colour written.
//   - Spectral: tear points are linked when each lies in the other's owner
//     view; components are taken by descending size. Components no larger
//     than cutoff_frac × the largest get the placeholder colour 0; the rest
//     get Laplacian eigenvectors at eig_inds, rescaled to [0,1] and offset
//     by 1 + 2i for the i-th component.
package tear
