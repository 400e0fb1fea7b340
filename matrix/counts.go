// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Counts is a symmetric, zero-diagonal sparse integer matrix over rows of a
//     Bool: Counts(i,k) = |row i ∩ row k| for i != k (n_Utilde_Utilde).
//   - Tear graphs are Counts restricted to pairs that vanished in another
//     Counts (Without).
//
// Determinism:
//   - Pairs() is sorted by (I, J) with I < J.

package matrix

import "sort"

// Pair is one upper-triangular entry of a Counts matrix.
type Pair struct {
	I, J int // I < J
	N    int // shared count
}

// Counts is a sparse symmetric n×n count matrix with zero diagonal.
type Counts struct {
	n   int
	adj []map[int]int
}

// newCounts allocates an empty n×n Counts.
func newCounts(n int) *Counts {
	c := &Counts{n: n, adj: make([]map[int]int, n)}
	for i := range c.adj {
		c.adj[i] = make(map[int]int)
	}

	return c
}

// Gram returns b·bᵀ with its diagonal zeroed: the number of columns shared by
// every pair of distinct rows.
// Complexity: O(Σ_j deg(j)²) where deg(j) is the number of rows set in column j.
func (b *Bool) Gram() *Counts {
	out := newCounts(b.rows)
	t := b.Transpose()
	for _, rs := range t.idx {
		for p := 0; p < len(rs); p++ {
			for q := p + 1; q < len(rs); q++ {
				out.adj[rs[p]][rs[q]]++
				out.adj[rs[q]][rs[p]]++
			}
		}
	}

	return out
}

// Size returns n.
func (c *Counts) Size() int { return c.n }

// At returns the count for (i,k); zero for the diagonal and out-of-range pairs.
func (c *Counts) At(i, k int) int {
	if i < 0 || i >= c.n || k < 0 || k >= c.n {
		return 0
	}

	return c.adj[i][k]
}

// Neighbors returns the sorted indices k with At(i,k) > 0.
func (c *Counts) Neighbors(i int) []int {
	if i < 0 || i >= c.n {
		return nil
	}
	out := make([]int, 0, len(c.adj[i]))
	for k := range c.adj[i] {
		out = append(out, k)
	}
	sort.Ints(out)

	return out
}

// Pairs returns all nonzero upper-triangular entries sorted by (I,J).
func (c *Counts) Pairs() []Pair {
	var out []Pair
	for i := 0; i < c.n; i++ {
		for _, k := range c.Neighbors(i) {
			if k > i {
				out = append(out, Pair{I: i, J: k, N: c.adj[i][k]})
			}
		}
	}

	return out
}

// NNZ returns the number of nonzero entries, counting both triangles.
func (c *Counts) NNZ() int {
	var total int
	for _, m := range c.adj {
		total += len(m)
	}

	return total
}

// Without returns c − c ⊙ [o > 0]: entries of c whose pair is absent from o.
// Shapes must agree.
func (c *Counts) Without(o *Counts) (*Counts, error) {
	if o == nil {
		return nil, matrixErrorf(opMask, ErrNilMatrix)
	}
	if c.n != o.n {
		return nil, matrixErrorf(opMask, ErrDimensionMismatch)
	}
	out := newCounts(c.n)
	for i, m := range c.adj {
		for k, v := range m {
			if o.adj[i][k] == 0 {
				out.adj[i][k] = v
			}
		}
	}

	return out, nil
}
