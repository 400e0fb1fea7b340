// Package sequence orders views for sequential alignment.
//
// Steps of Build:
//  1. Maximum spanning forest of the ambiguity graph W (spanning.MaximumForest).
//  2. Split the forest until it has at least ForcedClusters trees (at most
//     one per view), removing the weakest tree edges first (spanning.Split).
//  3. Until every view is visited: pick the unvisited view with the smallest
//     zeta (ties: larger n_C, then smaller index), BFS the forest from it
//     ignoring weights, record the order and the parents.
//
// Every view appears in exactly one cluster; each cluster starts at its root
// (parent −1) and every other view's parent precedes it in the cluster.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/bfs"
	"github.com/katalvlaran/lvstitch/core"
	"github.com/katalvlaran/lvstitch/spanning"
)

// Sentinel errors for view sequencing.
var (
	ErrNilGraph   = errors.New("sequence: graph is nil")
	ErrShape      = errors.New("sequence: zeta or n_C length differs from view count")
	ErrEmbedShape = errors.New("sequence: embedding does not match owners")
)

// Options configures Build.
type Options struct {
	// ForcedClusters is the minimum number of clusters; 0 or 1 keeps the
	// natural component count.
	ForcedClusters int

	// Method selects the spanning forest algorithm (spanning.MethodKruskal
	// when empty).
	Method string
}

// Result is a cluster sequence.
type Result struct {
	// Clusters lists each cluster's views in BFS order, root first.
	Clusters [][]int

	// Parents[m] is the BFS parent of view m, −1 for roots.
	Parents []int

	// ViewCluster[m] is the index of m's cluster.
	ViewCluster []int

	// Forest is the (possibly split) spanning forest.
	Forest *core.Graph

	// Removed lists the forest edges dropped to reach ForcedClusters.
	Removed []core.Edge
}

// Build sequences the views of w. zeta and nC must have one entry per view.
func Build(ctx context.Context, w *core.Graph, zeta []float64, nC []int, opts Options) (*Result, error) {
	if w == nil {
		return nil, ErrNilGraph
	}
	m := w.VertexCount()
	if len(zeta) != m || len(nC) != m {
		return nil, fmt.Errorf("%d views, %d zeta, %d n_C: %w", m, len(zeta), len(nC), ErrShape)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	method := opts.Method
	if method == "" {
		method = spanning.MethodKruskal
	}

	forest, _, err := spanning.MaximumForest(w, method)
	if err != nil {
		return nil, err
	}
	// More clusters than views means every view on its own.
	target := opts.ForcedClusters
	if target > m {
		target = m
	}
	removed, err := spanning.Split(forest, target)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Parents:     make([]int, m),
		ViewCluster: make([]int, m),
		Forest:      forest,
		Removed:     removed,
	}
	visited := make([]bool, m)
	for left := m; left > 0; {
		root := pickRoot(visited, zeta, nC)
		walk, err := bfs.BFS(forest, root, bfs.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		ci := len(res.Clusters)
		for _, v := range walk.Order {
			visited[v] = true
			res.Parents[v] = walk.Parent[v]
			res.ViewCluster[v] = ci
		}
		res.Clusters = append(res.Clusters, walk.Order)
		left -= len(walk.Order)
	}

	return res, nil
}

// pickRoot returns the unvisited view with the smallest zeta, then the
// largest n_C, then the smallest index.
func pickRoot(visited []bool, zeta []float64, nC []int) int {
	best := -1
	for v := range visited {
		if visited[v] {
			continue
		}
		switch {
		case best == -1,
			zeta[v] < zeta[best],
			zeta[v] == zeta[best] && nC[v] > nC[best]:
			best = v
		}
	}
	return best
}

// Spread shifts clusters along the first axis so that the leftmost x of
// cluster i equals the rightmost x of cluster i−1 (the first cluster stays
// put). Points belong to the cluster of their owner view. y is modified in
// place; the returned slice holds the x shift applied to each cluster.
// Clusters owning no points are skipped. Applying Spread twice changes
// nothing the second time.
func (r *Result) Spread(y *mat.Dense, owner []int) ([]float64, error) {
	rows, _ := y.Dims()
	if rows != len(owner) {
		return nil, ErrEmbedShape
	}
	k := len(r.Clusters)
	lo := make([]float64, k)
	hi := make([]float64, k)
	has := make([]bool, k)
	for n, m := range owner {
		if m < 0 || m >= len(r.ViewCluster) {
			return nil, fmt.Errorf("point %d owner %d: %w", n, m, ErrEmbedShape)
		}
		c := r.ViewCluster[m]
		x := y.At(n, 0)
		if !has[c] || x < lo[c] {
			lo[c] = x
		}
		if !has[c] || x > hi[c] {
			hi[c] = x
		}
		has[c] = true
	}

	shift := make([]float64, k)
	prev := -1
	for c := 0; c < k; c++ {
		if !has[c] {
			continue
		}
		if prev >= 0 {
			shift[c] = hi[prev] - lo[c]
			hi[c] += shift[c]
		}
		prev = c
	}
	for n, m := range owner {
		if s := shift[r.ViewCluster[m]]; s != 0 {
			y.Set(n, 0, y.At(n, 0)+s)
		}
	}

	return shift, nil
}
