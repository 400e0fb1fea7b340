// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set for membership and overlap matrices.
// All constructors and accessors return these sentinels (optionally wrapped
// with an operation tag) and tests check them via errors.Is. User-triggered
// conditions never panic.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape is invalid (rows<0 or cols<0).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes (Mask, Product).
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrNotPartition indicates that a core membership matrix does not assign
	// every column to exactly one row.
	ErrNotPartition = errors.New("matrix: columns are not a partition")
)

// Operation tags for uniform error wrapping.
const (
	opNewBool   = "NewBool"
	opFromRows  = "FromRows"
	opSet       = "Set"
	opMask      = "Mask"
	opProduct   = "Product"
	opOwners    = "Owners"
	opIntersect = "Intersect"
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel via %w.
// Call only with err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
