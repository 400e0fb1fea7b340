package spanning

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvstitch/core"
)

// Split removes the weakest edges of a forest (ascending weight, ties by
// Edge.ID) until it has exactly target trees. Removing a tree edge always
// adds one tree, so exactly target − current edges are removed.
// A target at or below the current tree count is a no-op.
//
// Returns the removed edges in removal order.
// Complexity: O(E log E + V).
func Split(forest *core.Graph, target int) ([]core.Edge, error) {
	if forest == nil {
		return nil, ErrInvalidGraph
	}
	current := len(forest.Components())
	if target <= current {
		return nil, nil
	}
	if target > forest.VertexCount() {
		return nil, fmt.Errorf("%w: %d trees over %d vertices", ErrSplitTarget, target, forest.VertexCount())
	}

	edges := forest.Edges()
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Weight < edges[j].Weight })

	need := target - current
	removed := make([]core.Edge, 0, need)
	for _, e := range edges[:need] {
		if err := forest.RemoveEdge(e.ID); err != nil {
			return nil, err
		}
		removed = append(removed, e)
	}

	return removed, nil
}
