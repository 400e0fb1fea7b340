// Package view holds the arena of intermediate views that the alignment
// engine stitches together.
//
// A Set stores M views over N points in flat, view-indexed slices:
//
//   - Utilde (M×N, matrix.Bool): extended membership, the domain of each view.
//   - C (M×N, matrix.Bool): core membership; each point has exactly one
//     core view, its owner.
//   - local[m]: |Utilde row m| × d' local coordinates, rows in the order of
//     Utilde.Row(m).
//   - T[m] (d'×d') and v[m] (d'): the rigid transform placing view m in the
//     global frame. Eval(m, pts) = local[m][pts]·T[m] + v[m].
//
// d' is the intrinsic dimension d, or d+1 when the set was built WithAddDim
// (local coordinates are padded with a zero column).
//
// Params is the narrow interface the alignment algorithms depend on; *Set is
// its shipped implementation.
//
// Errors:
//
//	ErrEmptySet        – M or N is zero
//	ErrShape           – local coordinates disagree with Utilde or d
//	ErrCoreNotInDomain – a point's owner view does not contain it
//	ErrViewOutOfRange  – view index outside [0,M)
//	ErrPointNotInView  – Eval/Local asked for a point outside the view domain
//	ErrEmptyPoints     – Eval/Local on an empty point list
package view
