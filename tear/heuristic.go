package tear

import (
	"github.com/katalvlaran/lvstitch/bfs"
	"github.com/katalvlaran/lvstitch/core"
	"github.com/katalvlaran/lvstitch/matrix"
)

// ColorHeuristic colours tear boundaries with incrementing integers.
//
// Steps:
//  1. Ambient view graph: an edge for every overlapping pair of Utilde.
//  2. Per cluster: BFS from its first view over ambient edges inside the
//     cluster; views left unreached start their own BFS, in cluster order.
//  3. For each visited m and each torn neighbour m' (ascending) whose pair
//     is new: uncoloured points owned by m inside Utilde[m'] get k, those
//     owned by m' inside Utilde[m] get k+1; k += 2 (k starts at 1).
//
// The first colour written to a point wins.
func ColorHeuristic(tg *matrix.Counts, utilde *matrix.Bool, owner []int, clusters [][]int) (*Coloring, error) {
	if tg.Size() != utilde.Rows() || len(owner) != utilde.Cols() {
		return nil, ErrShape
	}
	ambient := core.NewGraph(utilde.Rows())
	for _, p := range utilde.Gram().Pairs() {
		if _, err := ambient.AddEdge(p.I, p.J, float64(p.N)); err != nil {
			return nil, err
		}
	}

	col := NewColoring(len(owner), 1)
	done := make(map[[2]int]bool)
	k := 1.0
	paint := func(m, mp int, c float64) {
		for _, n := range utilde.Row(mp) {
			if owner[n] == m && !col.Valid(n) {
				col.Set(n, c)
			}
		}
	}

	for _, cluster := range clusters {
		in := make(map[int]bool, len(cluster))
		for _, m := range cluster {
			in[m] = true
		}
		seen := make(map[int]bool, len(cluster))
		for _, start := range cluster {
			if seen[start] {
				continue
			}
			walk, err := bfs.BFS(ambient, start, bfs.WithFilterNeighbor(func(_, nbr int) bool {
				return in[nbr] && !seen[nbr]
			}))
			if err != nil {
				return nil, err
			}
			for _, m := range walk.Order {
				seen[m] = true
				for _, mp := range tg.Neighbors(m) {
					key := [2]int{m, mp}
					if mp < m {
						key = [2]int{mp, m}
					}
					if done[key] {
						continue
					}
					done[key] = true
					paint(m, mp, k)
					paint(mp, m, k+1)
					k += 2
				}
			}
		}
	}
	return col, nil
}
