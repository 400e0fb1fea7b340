// SPDX-License-Identifier: MIT

// Package matrix provides the sparse membership matrices used to describe
// views over a point set.
//
// Two types cover every need of the alignment engine:
//
//   - Bool: an M×N boolean matrix stored as sorted column lists per row.
//     Core memberships (C), extended memberships (Utilde) and their
//     transposes are all Bool.
//   - Counts: a symmetric zero-diagonal integer matrix of pairwise row
//     overlaps, produced by Bool.Gram and narrowed with Without.
//
// Products of the form C·Cᵀ·Utilde that would be dense as float matrices are
// computed here as boolean products, so memory stays proportional to nnz.
//
// Errors:
//
//	ErrBadShape          – negative rows or cols
//	ErrOutOfRange        – index outside the shape
//	ErrDimensionMismatch – incompatible operand shapes
//	ErrNilMatrix         – nil operand
//	ErrNotPartition      – core matrix with a column owned by zero or many rows
package matrix
