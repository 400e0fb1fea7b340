// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Bool is a sparse boolean matrix stored as sorted column indices per row.
//   - It models view membership: Utilde (extended) and C (core), both M×N.
//
// Determinism:
//   - Row(i) is always sorted ascending with no duplicates.
//   - Every derived matrix (Transpose, Mask, Filter, Product) is built in
//     row-major order, so iteration is stable across runs.

package matrix

import (
	"fmt"
	"sort"
)

// Bool is a sparse rows×cols boolean matrix.
// The zero value is not usable; construct with NewBool or FromRows.
type Bool struct {
	rows, cols int
	idx        [][]int // idx[i] = sorted column indices set in row i
	nnz        int
}

// NewBool returns an empty rows×cols boolean matrix.
// Zero-sized shapes are allowed (M=0 or N=0 yields an empty matrix).
// Complexity: O(rows).
func NewBool(rows, cols int) (*Bool, error) {
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf(opNewBool, ErrBadShape)
	}

	return &Bool{rows: rows, cols: cols, idx: make([][]int, rows)}, nil
}

// FromRows builds a Bool from per-row column lists. Input lists are copied,
// sorted and de-duplicated; any column outside [0,cols) yields ErrOutOfRange.
// Complexity: O(nnz·log nnz).
func FromRows(cols int, rows [][]int) (*Bool, error) {
	if cols < 0 {
		return nil, matrixErrorf(opFromRows, ErrBadShape)
	}
	b := &Bool{rows: len(rows), cols: cols, idx: make([][]int, len(rows))}
	for i, r := range rows {
		cp := make([]int, 0, len(r))
		for _, j := range r {
			if j < 0 || j >= cols {
				return nil, matrixErrorf(opFromRows, fmt.Errorf("row %d col %d: %w", i, j, ErrOutOfRange))
			}
			cp = append(cp, j)
		}
		sort.Ints(cp)
		b.idx[i] = dedupSorted(cp)
		b.nnz += len(b.idx[i])
	}

	return b, nil
}

// dedupSorted removes adjacent duplicates in place.
func dedupSorted(s []int) []int {
	if len(s) < 2 {
		return s
	}
	w := 1
	for r := 1; r < len(s); r++ {
		if s[r] != s[w-1] {
			s[w] = s[r]
			w++
		}
	}

	return s[:w]
}

// Rows returns the number of rows.
func (b *Bool) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Bool) Cols() int { return b.cols }

// NNZ returns the number of set entries.
func (b *Bool) NNZ() int { return b.nnz }

// Row returns the sorted column indices of row i.
// The returned slice is shared; callers must not modify it.
func (b *Bool) Row(i int) []int {
	if i < 0 || i >= b.rows {
		return nil
	}

	return b.idx[i]
}

// RowCounts returns the number of set entries per row (n_C for a core matrix).
func (b *Bool) RowCounts() []int {
	out := make([]int, b.rows)
	for i, r := range b.idx {
		out[i] = len(r)
	}

	return out
}

// Pos returns the position of column j inside Row(i), and whether it is set.
// Complexity: O(log |row|).
func (b *Bool) Pos(i, j int) (int, bool) {
	if i < 0 || i >= b.rows {
		return 0, false
	}
	r := b.idx[i]
	k := sort.SearchInts(r, j)
	if k < len(r) && r[k] == j {
		return k, true
	}

	return 0, false
}

// Has reports whether entry (i,j) is set.
func (b *Bool) Has(i, j int) bool {
	_, ok := b.Pos(i, j)

	return ok
}

// Set marks entry (i,j). Setting an already set entry is a no-op.
// Complexity: O(|row|) for the sorted insert.
func (b *Bool) Set(i, j int) error {
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		return matrixErrorf(opSet, fmt.Errorf("(%d,%d): %w", i, j, ErrOutOfRange))
	}
	r := b.idx[i]
	k := sort.SearchInts(r, j)
	if k < len(r) && r[k] == j {
		return nil
	}
	r = append(r, 0)
	copy(r[k+1:], r[k:])
	r[k] = j
	b.idx[i] = r
	b.nnz++

	return nil
}

// Clone returns a deep copy.
func (b *Bool) Clone() *Bool {
	out := &Bool{rows: b.rows, cols: b.cols, idx: make([][]int, b.rows), nnz: b.nnz}
	for i, r := range b.idx {
		out.idx[i] = append([]int(nil), r...)
	}

	return out
}

// Transpose returns the cols×rows transpose. Rows of the result are sorted
// because the source is walked in row-major order.
// Complexity: O(rows + cols + nnz).
func (b *Bool) Transpose() *Bool {
	out := &Bool{rows: b.cols, cols: b.rows, idx: make([][]int, b.cols), nnz: b.nnz}
	for i, r := range b.idx {
		for _, j := range r {
			out.idx[j] = append(out.idx[j], i)
		}
	}

	return out
}

// Intersect returns the sorted columns set in both row i and row k
// (the points shared by two views).
// Complexity: O(|row i| + |row k|).
func (b *Bool) Intersect(i, k int) ([]int, error) {
	if i < 0 || i >= b.rows || k < 0 || k >= b.rows {
		return nil, matrixErrorf(opIntersect, fmt.Errorf("rows (%d,%d): %w", i, k, ErrOutOfRange))
	}

	return intersectSorted(b.idx[i], b.idx[k]), nil
}

// intersectSorted merges two ascending slices keeping common values.
func intersectSorted(a, c []int) []int {
	var out []int
	p, q := 0, 0
	for p < len(a) && q < len(c) {
		switch {
		case a[p] < c[q]:
			p++
		case a[p] > c[q]:
			q++
		default:
			out = append(out, a[p])
			p++
			q++
		}
	}

	return out
}

// Mask returns the element-wise AND of b and o (b ⊙ o).
// Complexity: O(nnz(b) + nnz(o)).
func (b *Bool) Mask(o *Bool) (*Bool, error) {
	if o == nil {
		return nil, matrixErrorf(opMask, ErrNilMatrix)
	}
	if b.rows != o.rows || b.cols != o.cols {
		return nil, matrixErrorf(opMask, fmt.Errorf("%dx%d vs %dx%d: %w", b.rows, b.cols, o.rows, o.cols, ErrDimensionMismatch))
	}
	out := &Bool{rows: b.rows, cols: b.cols, idx: make([][]int, b.rows)}
	for i := range b.idx {
		out.idx[i] = intersectSorted(b.idx[i], o.idx[i])
		out.nnz += len(out.idx[i])
	}

	return out, nil
}

// Filter returns a copy keeping only entries for which keep(i,j) is true.
func (b *Bool) Filter(keep func(i, j int) bool) *Bool {
	out := &Bool{rows: b.rows, cols: b.cols, idx: make([][]int, b.rows)}
	for i, r := range b.idx {
		for _, j := range r {
			if keep(i, j) {
				out.idx[i] = append(out.idx[i], j)
			}
		}
		out.nnz += len(out.idx[i])
	}

	return out
}

// Product returns the boolean product b·o (rows(b)×cols(o)):
// entry (i,j) is set iff some k has b(i,k) and o(k,j).
// Complexity: O(Σ_i Σ_{k∈row i} |row k of o|).
func (b *Bool) Product(o *Bool) (*Bool, error) {
	if o == nil {
		return nil, matrixErrorf(opProduct, ErrNilMatrix)
	}
	if b.cols != o.rows {
		return nil, matrixErrorf(opProduct, fmt.Errorf("%dx%d · %dx%d: %w", b.rows, b.cols, o.rows, o.cols, ErrDimensionMismatch))
	}
	out := &Bool{rows: b.rows, cols: o.cols, idx: make([][]int, b.rows)}
	seen := make([]int, o.cols) // stamp per column, reset by generation
	for j := range seen {
		seen[j] = -1
	}
	for i, r := range b.idx {
		var acc []int
		for _, k := range r {
			for _, j := range o.idx[k] {
				if seen[j] != i {
					seen[j] = i
					acc = append(acc, j)
				}
			}
		}
		sort.Ints(acc)
		out.idx[i] = acc
		out.nnz += len(acc)
	}

	return out, nil
}

// Owners returns, for a core membership matrix, the unique row set in each
// column. Any column with zero or several set rows yields ErrNotPartition.
// Complexity: O(rows + cols + nnz).
func (b *Bool) Owners() ([]int, error) {
	owner := make([]int, b.cols)
	for j := range owner {
		owner[j] = -1
	}
	for i, r := range b.idx {
		for _, j := range r {
			if owner[j] != -1 {
				return nil, matrixErrorf(opOwners, fmt.Errorf("column %d in rows %d and %d: %w", j, owner[j], i, ErrNotPartition))
			}
			owner[j] = i
		}
	}
	for j, o := range owner {
		if o == -1 {
			return nil, matrixErrorf(opOwners, fmt.Errorf("column %d has no row: %w", j, ErrNotPartition))
		}
	}

	return owner, nil
}

// Contains reports whether every entry of o is also set in b (o ⊆ b).
func (b *Bool) Contains(o *Bool) bool {
	if o == nil || b.rows != o.rows || b.cols != o.cols {
		return false
	}
	for i := range o.idx {
		if len(intersectSorted(b.idx[i], o.idx[i])) != len(o.idx[i]) {
			return false
		}
	}

	return true
}
