package tear

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/core"
	"github.com/katalvlaran/lvstitch/matrix"
)

// ColorSpectral colours tear points by Laplacian eigenvectors of their
// connected components.
//
// Steps:
//  1. Link tear points i ≠ j when i ∈ Utilde[owner[j]] and j ∈ Utilde[owner[i]].
//  2. Components of tear points, by descending size (ties: smallest point).
//  3. cutoff = cutoffFrac × largest size. A component of size ≤ cutoff gets
//     the placeholder colour 0 on every channel.
//  4. Otherwise channel c is the eigenvector of L = D − A at eigInds[c]
//     (ascending eigenvalues), sign-fixed so its first nonzero entry is
//     positive, rescaled to [0,1] and offset by 1 + 2i for component rank i.
//     Indices past the component size give 0 before the offset.
//  5. largestOnly stops after the first component that received eigenvector colours.
func ColorSpectral(utilde *matrix.Bool, owner []int, onTear []bool, eigInds []int, cutoffFrac float64, largestOnly bool) (*Coloring, error) {
	if len(owner) != utilde.Cols() || len(onTear) != len(owner) {
		return nil, ErrShape
	}
	if len(eigInds) == 0 {
		eigInds = []int{1}
	}
	col := NewColoring(len(owner), len(eigInds))

	g := core.NewGraph(len(owner))
	for i, ti := range onTear {
		if !ti {
			continue
		}
		for _, j := range utilde.Row(owner[i]) {
			if j <= i || !onTear[j] || !utilde.Has(owner[j], i) {
				continue
			}
			if _, err := g.AddEdge(i, j, 1); err != nil {
				return nil, err
			}
		}
	}

	var comps [][]int
	for _, c := range g.Components() {
		if onTear[c[0]] {
			comps = append(comps, c)
		}
	}
	if len(comps) == 0 {
		return col, nil
	}
	sort.SliceStable(comps, func(a, b int) bool { return len(comps[a]) > len(comps[b]) })
	cutoff := cutoffFrac * float64(len(comps[0]))

	for rank, comp := range comps {
		if float64(len(comp)) <= cutoff {
			for _, n := range comp {
				col.Set(n, make([]float64, len(eigInds))...)
			}
			continue
		}
		vecs, err := laplacianVectors(g, comp)
		if err != nil {
			return nil, err
		}
		for c, idx := range eigInds {
			ch := make([]float64, len(comp))
			if idx >= 0 && idx < len(comp) {
				mat.Col(ch, idx, vecs)
				fixSign(ch)
				rescale(ch)
			}
			for r, n := range comp {
				vals, ok := col.At(n)
				if !ok {
					col.Set(n, make([]float64, len(eigInds))...)
					vals, _ = col.At(n)
				}
				vals[c] = 1 + 2*float64(rank) + ch[r]
			}
		}
		if largestOnly {
			break
		}
	}
	return col, nil
}

// laplacianVectors returns the eigenvectors (ascending eigenvalues) of the
// graph Laplacian restricted to comp. The factorisation is dense, O(|comp|³)
// time and O(|comp|²) memory per component.
func laplacianVectors(g *core.Graph, comp []int) (*mat.Dense, error) {
	pos := make(map[int]int, len(comp))
	for i, n := range comp {
		pos[n] = i
	}
	lap := mat.NewSymDense(len(comp), nil)
	for i, n := range comp {
		nbrs, err := g.Neighbors(n)
		if err != nil {
			return nil, err
		}
		lap.SetSym(i, i, float64(len(nbrs)))
		for _, o := range nbrs {
			if j, ok := pos[o]; ok && j > i {
				lap.SetSym(i, j, -1)
			}
		}
	}
	var es mat.EigenSym
	if !es.Factorize(lap, true) {
		return nil, ErrEigenFailed
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)
	return &vecs, nil
}

// fixSign flips v so that its first entry with magnitude above 1e-12 is positive.
func fixSign(v []float64) {
	for _, x := range v {
		if x > 1e-12 {
			return
		}
		if x < -1e-12 {
			floats.Scale(-1, v)
			return
		}
	}
}

// rescale maps v affinely onto [0,1]; a constant v becomes all zeros.
func rescale(v []float64) {
	lo, hi := floats.Min(v), floats.Max(v)
	if hi-lo <= 0 {
		for i := range v {
			v[i] = 0
		}
		return
	}
	for i := range v {
		v[i] = (v[i] - lo) / (hi - lo)
	}
}
