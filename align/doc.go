// Package align places views in a common frame by choosing a rigid transform
// (T[m] orthogonal, v[m] a translation) for every view.
//
// Algorithms are looked up by name once, at configuration time:
//
//	Init(name)   – procrustes, spectral, sdp, ltsa
//	Refine(name) – procrustes, procrustes_final, gpm, rgd, spectral, sdp, ltsa
//
// Each returns an Algorithm whose Align(ctx, *Problem) updates the transforms
// held by Problem.Views. The caller rebuilds the embedding with view.Embed.
//
// Conventions:
//
//   - Row vectors: a view maps local coordinates X to X·T + v.
//   - Fit(X, Y) solves min ‖X·T + 1vᵀ − Y‖_F over orthogonal T (reflections
//     allowed) via the SVD of the centred cross-covariance.
//   - Synchronisation methods (spectral, sdp) work per connected group of
//     overlapping views and pin the first view of each group, then solve
//     translations from a weighted Laplacian system.
//
// Utilities:
//
//	Error(views, utildeT, y)               Σ ‖eval(m,n) − y[n]‖² over Utilde_t
//	FarOffPoints(views, utilde, owner, f)  points whose views disagree
//	Fit, Polar, Centre, MinSingularValue   dense linear-algebra helpers
package align
