package bfs_test

import (
	"fmt"

	"github.com/katalvlaran/lvstitch/bfs"
	"github.com/katalvlaran/lvstitch/core"
)

// ExampleBFS walks a small spanning tree from its root.
func ExampleBFS() {
	g := core.NewGraph(4)
	_, _ = g.AddEdge(0, 2, 1)
	_, _ = g.AddEdge(2, 1, 1)
	_, _ = g.AddEdge(2, 3, 1)

	res, err := bfs.BFS(g, 0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("order:", res.Order)
	fmt.Println("parent:", res.Parent)
	// Output:
	// order: [0 2 1 3]
	// parent: [-1 2 0 2]
}
