package spanning

import (
	"container/heap"

	"github.com/katalvlaran/lvstitch/core"
)

// Prim computes a spanning forest by growing one tree per component,
// starting each from the smallest vertex not yet covered.
//
// Steps:
//  1. Validate graph != nil.
//  2. For each uncovered root r (ascending): mark r, push its edges.
//  3. Pop the best candidate; skip it if both ends are covered, else keep it,
//     mark the new vertex and push its edges to uncovered neighbors.
//  4. Continue until the heap is empty, then move to the next root.
//
// Ties on the heap are broken by Edge.ID so the forest is reproducible.
// Complexity: O(E log V) time, O(V + E) memory.
func Prim(g *core.Graph, maximum bool) (*core.Graph, float64, error) {
	if g == nil {
		return nil, 0, ErrInvalidGraph
	}
	n := g.VertexCount()
	forest := g.CloneEmpty()
	if n < 2 {
		return forest, 0, nil
	}

	visited := make([]bool, n)
	var total float64
	push := func(pq *edgePQ, u int) error {
		nbrs, err := g.Neighbors(u)
		if err != nil {
			return err
		}
		for _, v := range nbrs {
			if visited[v] || v == u {
				continue
			}
			w, _ := g.Weight(u, v)
			heap.Push(pq, candidate{from: u, to: v, weight: w, key: rank(w, maximum), order: pq.seq})
			pq.seq++
		}
		return nil
	}

	for root := 0; root < n; root++ {
		if visited[root] {
			continue
		}
		visited[root] = true
		pq := &edgePQ{}
		heap.Init(pq)
		if err := push(pq, root); err != nil {
			return nil, 0, err
		}
		for pq.Len() > 0 {
			c := heap.Pop(pq).(candidate)
			if visited[c.to] {
				continue
			}
			visited[c.to] = true
			if _, err := forest.AddEdge(c.from, c.to, c.weight); err != nil {
				return nil, 0, err
			}
			total += c.weight
			if err := push(pq, c.to); err != nil {
				return nil, 0, err
			}
		}
	}

	return forest, total, nil
}

// candidate is a heap entry: an edge leaving the current tree.
type candidate struct {
	from, to int
	weight   float64
	key      float64
	order    int
}

// edgePQ implements heap.Interface as a min-heap on (key, order).
type edgePQ struct {
	items []candidate
	seq   int
}

func (pq edgePQ) Len() int { return len(pq.items) }

func (pq edgePQ) Less(i, j int) bool {
	if pq.items[i].key != pq.items[j].key {
		return pq.items[i].key < pq.items[j].key
	}
	return pq.items[i].order < pq.items[j].order
}

func (pq edgePQ) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *edgePQ) Push(x interface{}) { pq.items = append(pq.items, x.(candidate)) }

func (pq *edgePQ) Pop() interface{} {
	old := pq.items
	n := len(old)
	c := old[n-1]
	pq.items = old[:n-1]
	return c
}
