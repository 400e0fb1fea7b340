package spanning

import (
	"sort"

	"github.com/katalvlaran/lvstitch/core"
)

// Kruskal computes a spanning forest of an undirected, weighted graph.
// It uses a disjoint-set (union-find) structure with path compression and
// union by rank.
//
// Steps:
//  1. Validate graph != nil.
//  2. Collect edges (sorted by ID), skip self-loops.
//  3. Stable-sort by rank(weight) so ties keep Edge.ID order.
//  4. For each edge joining two different sets, union and keep it.
//  5. Stop once |V| − 1 edges are kept (a single tree) or edges run out.
//
// Complexity: O(E log E + α(V)·E). Memory: O(E + V).
func Kruskal(g *core.Graph, maximum bool) (*core.Graph, float64, error) {
	if g == nil {
		return nil, 0, ErrInvalidGraph
	}
	n := g.VertexCount()
	forest := g.CloneEmpty()
	if n < 2 {
		return forest, 0, nil
	}

	all := g.Edges()
	edges := make([]core.Edge, 0, len(all))
	for _, e := range all {
		if e.From != e.To {
			edges = append(edges, e)
		}
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return rank(edges[i].Weight, maximum) < rank(edges[j].Weight, maximum)
	})

	parent := make([]int, n)
	size := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(u int) int {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}
	union := func(u, v int) {
		ru, rv := find(u), find(v)
		if ru == rv {
			return
		}
		if size[ru] < size[rv] {
			ru, rv = rv, ru
		}
		parent[rv] = ru
		if size[ru] == size[rv] {
			size[ru]++
		}
	}

	var total float64
	kept := 0
	for _, e := range edges {
		if find(e.From) == find(e.To) {
			continue
		}
		union(e.From, e.To)
		if _, err := forest.AddEdge(e.From, e.To, e.Weight); err != nil {
			return nil, 0, err
		}
		total += e.Weight
		kept++
		if kept == n-1 {
			break
		}
	}

	return forest, total, nil
}
