package sequence_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/core"
	"github.com/katalvlaran/lvstitch/sequence"
	"github.com/katalvlaran/lvstitch/spanning"
)

func weighted(t *testing.T, n int, edges map[[2]int]float64) *core.Graph {
	t.Helper()
	g := core.NewGraph(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if w, ok := edges[[2]int{i, j}]; ok {
				_, err := g.AddEdge(i, j, w)
				require.NoError(t, err)
			}
		}
	}
	return g
}

func TestScenarioBChain(t *testing.T) {
	g := weighted(t, 4, map[[2]int]float64{{0, 1}: 0.5, {1, 2}: 0.7, {2, 3}: 0.4})
	res, err := sequence.Build(context.Background(), g, make([]float64, 4), []int{1, 1, 1, 1}, sequence.Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, res.Clusters)
	assert.Equal(t, []int{-1, 0, 1, 2}, res.Parents)
	assert.Equal(t, []int{0, 0, 0, 0}, res.ViewCluster)
	assert.Empty(t, res.Removed)
}

func TestScenarioCForcedSplit(t *testing.T) {
	full := map[[2]int]float64{{0, 1}: 5, {0, 2}: 1, {0, 3}: 2, {1, 2}: 4, {1, 3}: 0.5, {2, 3}: 3}
	for _, method := range []string{spanning.MethodKruskal, spanning.MethodPrim} {
		t.Run(method, func(t *testing.T) {
			g := weighted(t, 4, full)
			res, err := sequence.Build(context.Background(), g, make([]float64, 4), []int{1, 1, 1, 1},
				sequence.Options{ForcedClusters: 2, Method: method})
			require.NoError(t, err)
			require.Len(t, res.Removed, 1)
			assert.Equal(t, 2, res.Removed[0].From)
			assert.Equal(t, 3, res.Removed[0].To)
			assert.Equal(t, 3.0, res.Removed[0].Weight)
			assert.Equal(t, [][]int{{0, 1, 2}, {3}}, res.Clusters)
			assert.Equal(t, []int{-1, 0, 1, -1}, res.Parents)
		})
	}
}

func TestRootSelection(t *testing.T) {
	g := core.NewGraph(4)
	res, err := sequence.Build(context.Background(), g,
		[]float64{0.5, 0.2, 0.2, 0.9}, []int{1, 2, 3, 1}, sequence.Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{2}, {1}, {0}, {3}}, res.Clusters)
}

func TestCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		n := 3 + rng.Intn(12)
		g := core.NewGraph(n)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Float64() < 0.3 {
					_, err := g.AddEdge(i, j, rng.Float64()+0.01)
					require.NoError(t, err)
				}
			}
		}
		zeta := make([]float64, n)
		nC := make([]int, n)
		for i := range zeta {
			zeta[i] = rng.Float64()
			nC[i] = rng.Intn(5)
		}
		forced := 1 + rng.Intn(n)
		res, err := sequence.Build(context.Background(), g, zeta, nC, sequence.Options{ForcedClusters: forced})
		require.NoError(t, err)

		seen := make(map[int]bool)
		for ci, cluster := range res.Clusters {
			pos := make(map[int]int)
			for i, v := range cluster {
				assert.False(t, seen[v], "view %d twice", v)
				seen[v] = true
				pos[v] = i
				assert.Equal(t, ci, res.ViewCluster[v])
				if i == 0 {
					assert.Equal(t, -1, res.Parents[v])
					continue
				}
				p := res.Parents[v]
				pi, ok := pos[p]
				require.True(t, ok, "parent of %d outside its cluster", v)
				assert.Less(t, pi, i)
				assert.True(t, res.Forest.HasEdge(p, v))
			}
		}
		assert.Len(t, seen, n)
		assert.GreaterOrEqual(t, len(res.Clusters), forced)
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := sequence.Build(context.Background(), nil, nil, nil, sequence.Options{})
	assert.ErrorIs(t, err, sequence.ErrNilGraph)
	_, err = sequence.Build(context.Background(), core.NewGraph(2), []float64{0}, []int{0, 0}, sequence.Options{})
	assert.ErrorIs(t, err, sequence.ErrShape)
	_, err = sequence.Build(context.Background(), core.NewGraph(2), []float64{0, 0}, []int{0, 0},
		sequence.Options{Method: "boruvka"})
	assert.ErrorIs(t, err, spanning.ErrUnknownMethod)
}

func TestForcedClustersAboveViewCount(t *testing.T) {
	g := weighted(t, 3, map[[2]int]float64{{0, 1}: 0.5, {1, 2}: 0.7})
	res, err := sequence.Build(context.Background(), g, make([]float64, 3), []int{1, 1, 1},
		sequence.Options{ForcedClusters: 5})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0}, {1}, {2}}, res.Clusters)
	assert.Equal(t, []int{-1, -1, -1}, res.Parents)
	assert.Len(t, res.Removed, 2)
	assert.Zero(t, res.Forest.EdgeCount())
}

func TestSpreadIdempotent(t *testing.T) {
	res := &sequence.Result{
		Clusters:    [][]int{{0}, {1}, {2}},
		ViewCluster: []int{0, 1, 2},
	}
	y := mat.NewDense(6, 2, []float64{
		0, 0, 2, 1, // cluster 0: x ∈ [0,2]
		-3, 0, -1, 5, // cluster 1: x ∈ [-3,-1]
		10, 0, 12, 0, // cluster 2: x ∈ [10,12]
	})
	owner := []int{0, 0, 1, 1, 2, 2}

	shift, err := res.Spread(y, owner)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5, -6}, shift)
	assert.Equal(t, []float64{0, 2, 2, 4, 4, 6}, mat.Col(nil, 0, y))
	assert.Equal(t, []float64{0, 1, 0, 5, 0, 0}, mat.Col(nil, 1, y))

	once := mat.DenseCopyOf(y)
	shift, err = res.Spread(y, owner)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, shift)
	assert.True(t, mat.Equal(once, y))
}
