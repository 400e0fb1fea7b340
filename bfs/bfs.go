// Package bfs provides breadth-first search over a core.Graph,
// returning hop distances, parent links, and visit order.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/lvstitch/core"
)

// ErrNeighbors is returned when fetching neighbors from the graph fails.
var ErrNeighbors = errors.New("bfs: neighbor iteration error")

// queueItem pairs a vertex with its BFS depth.
type queueItem struct {
	id    int
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph   *core.Graph
	opts    Options
	ctx     context.Context
	queue   []queueItem
	visited []bool
	res     *Result
}

// BFS runs breadth-first search on g starting from start,
// applying any number of functional Options.
// Returns ErrGraphNil or ErrStartVertexNotFound for invalid input,
// ErrOptionViolation for bad options, ErrNeighbors for graph failures,
// or any user-supplied hook error.
func BFS(g *core.Graph, start int, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	n := g.VertexCount()
	if start < 0 || start >= n {
		return nil, ErrStartVertexNotFound
	}

	w := &walker{
		graph:   g,
		opts:    o,
		ctx:     o.Ctx,
		queue:   make([]queueItem, 0, n),
		visited: make([]bool, n),
		res: &Result{
			Order:  make([]int, 0, n),
			Depth:  make([]int, n),
			Parent: make([]int, n),
		},
	}
	for i := 0; i < n; i++ {
		w.res.Depth[i] = -1
		w.res.Parent[i] = -1
	}

	w.enqueue(start, 0, -1)

	return w.res, w.loop()
}

// enqueue marks id visited at depth d and records its parent.
func (w *walker) enqueue(id, d, parent int) {
	w.visited[id] = true
	w.res.Depth[id] = d
	w.res.Parent[id] = parent
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.OnVisit(item.id, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", item.id, err)
		}
		if err := w.enqueueNeighbors(item); err != nil {
			return err
		}
	}

	return nil
}

// enqueueNeighbors applies filtering and MaxDepth and enqueues unseen neighbors.
func (w *walker) enqueueNeighbors(item queueItem) error {
	neighbors, err := w.graph.Neighbors(item.id)
	if err != nil {
		return fmt.Errorf("%w: failed to get neighbors of %d: %v", ErrNeighbors, item.id, err)
	}
	next := item.depth + 1
	if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
		return nil
	}
	for _, nbr := range neighbors {
		if w.visited[nbr] || !w.opts.FilterNeighbor(item.id, nbr) {
			continue
		}
		w.enqueue(nbr, next, item.id)
	}

	return nil
}
