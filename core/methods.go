// File: methods.go
// Role: Edge lifecycle & queries, neighborhoods, connected components.
// Determinism:
//   - Edges() returns edges sorted by Edge.ID asc.
//   - Neighbors() returns vertex indices sorted asc.
//   - Components() orders components by their smallest vertex.
// Concurrency:
//   - Mutations under mu write lock; queries under mu read lock.

package core

import (
	"math"
	"sort"
)

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return g.n }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// checkVertex validates an index.
func (g *Graph) checkVertex(u int) error {
	if u < 0 || u >= g.n {
		return ErrVertexOutOfRange
	}

	return nil
}

// AddEdge inserts an undirected edge u—v with the given weight and returns its ID.
//
// Steps:
//  1. Validate endpoints, weight (finite) and loop policy.
//  2. Reject a second edge between the same endpoints.
//  3. Assign the next ID, normalise From<To, store and mirror adjacency.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(u, v int, weight float64) (int, error) {
	if err := g.checkVertex(u); err != nil {
		return 0, err
	}
	if err := g.checkVertex(v); err != nil {
		return 0, err
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, ErrBadWeight
	}
	if u == v && !g.allowLoops {
		return 0, ErrLoopNotAllowed
	}
	if u > v {
		u, v = v, u
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.adjacency[u][v]; ok {
		return 0, ErrMultiEdgeNotAllowed
	}
	g.nextEdgeID++
	id := g.nextEdgeID
	g.edges[id] = &Edge{ID: id, From: u, To: v, Weight: weight}
	g.adjacency[u][v] = id
	g.adjacency[v][u] = id

	return id, nil
}

// RemoveEdge deletes the edge with the given ID.
// Complexity: O(1).
func (g *Graph) RemoveEdge(id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.edges[id]
	if !ok {
		return ErrEdgeNotFound
	}
	delete(g.adjacency[e.From], e.To)
	delete(g.adjacency[e.To], e.From)
	delete(g.edges, id)

	return nil
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	if g.checkVertex(u) != nil || g.checkVertex(v) != nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adjacency[u][v]

	return ok
}

// Weight returns the weight of edge u—v and whether it exists.
func (g *Graph) Weight(u, v int) (float64, bool) {
	if g.checkVertex(u) != nil || g.checkVertex(v) != nil {
		return 0, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.adjacency[u][v]
	if !ok {
		return 0, false
	}

	return g.edges[id].Weight, true
}

// Edges returns copies of all edges sorted by ID ascending.
// Complexity: O(E log E).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Neighbors returns the sorted indices adjacent to u.
// Complexity: O(d log d).
func (g *Graph) Neighbors(u int) ([]int, error) {
	if err := g.checkVertex(u); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]int, 0, len(g.adjacency[u]))
	for v := range g.adjacency[u] {
		out = append(out, v)
	}
	sort.Ints(out)

	return out, nil
}

// Clone returns a deep copy, including the edge ID counter so future
// AddEdge calls on the clone continue the same sequence.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c := NewGraph(g.n)
	c.allowLoops = g.allowLoops
	c.nextEdgeID = g.nextEdgeID
	for id, e := range g.edges {
		cp := *e
		c.edges[id] = &cp
		c.adjacency[e.From][e.To] = id
		c.adjacency[e.To][e.From] = id
	}

	return c
}

// CloneEmpty returns a Graph with the same vertex count and flags but no edges.
func (g *Graph) CloneEmpty() *Graph {
	c := NewGraph(g.n)
	c.allowLoops = g.allowLoops

	return c
}

// Components returns the connected components, each sorted ascending, ordered
// by their smallest vertex. Isolated vertices form singleton components.
//
// Time:   O(V + E).
// Memory: O(V) for visited flags and the queue.
func (g *Graph) Components() [][]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make([]bool, g.n)
	var comps [][]int
	for s := 0; s < g.n; s++ {
		if seen[s] {
			continue
		}
		queue := []int{s}
		seen[s] = true
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			for v := range g.adjacency[u] {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		sort.Ints(queue)
		comps = append(comps, queue)
	}

	return comps
}

// ComponentIndex returns, for each vertex, the index of its component in
// the order produced by Components.
func (g *Graph) ComponentIndex() []int {
	comps := g.Components()
	out := make([]int, g.n)
	for ci, comp := range comps {
		for _, v := range comp {
			out[v] = ci
		}
	}

	return out
}
