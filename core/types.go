// File: types.go
// Role: Graph, Edge, GraphOption, sentinel errors and the NewGraph constructor.

package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrVertexOutOfRange indicates an operation referenced an index outside [0, n).
	ErrVertexOutOfRange = errors.New("core: vertex out of range")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrBadWeight indicates a NaN or infinite weight.
	ErrBadWeight = errors.New("core: bad edge weight")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a parallel edge was attempted.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")
)

// Edge is an undirected connection between two vertices.
//
// ID is assigned monotonically by AddEdge and fixes tie-break order in every
// algorithm that sorts edges (stable sorts keep insertion order on ties).
type Edge struct {
	// ID uniquely identifies this edge in the Graph.
	ID int

	// From and To are the endpoints, From < To unless the edge is a loop.
	From, To int

	// Weight is the edge weight (ambiguity weight for view graphs).
	Weight float64
}

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(g *Graph)

// WithLoops permits self-loops (edges from a vertex to itself).
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// Graph is a weighted undirected graph over vertices 0..n-1.
//
// mu guards edges, adjacency and nextEdgeID. Reads may run concurrently.
type Graph struct {
	mu sync.RWMutex

	allowLoops bool

	n          int
	nextEdgeID int
	edges      map[int]*Edge

	// adjacency[u][v] = edge ID; mirrored for undirected edges.
	adjacency []map[int]int
}

// NewGraph creates an edgeless Graph with n vertices.
// Negative n is treated as 0.
// Complexity: O(n).
func NewGraph(n int, opts ...GraphOption) *Graph {
	if n < 0 {
		n = 0
	}
	g := &Graph{
		n:         n,
		edges:     make(map[int]*Edge),
		adjacency: make([]map[int]int, n),
	}
	for i := range g.adjacency {
		g.adjacency[i] = make(map[int]int)
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
