package knn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstitch/knn"
)

func TestGraphOnLine(t *testing.T) {
	x := mat.NewDense(5, 1, []float64{0, 1, 3, 6, 10})
	g, err := knn.Graph(x, 2, knn.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {1, 0}, {2, 1}, {3, 2}, {4, 3}}, g)
}

func TestQueryCapsK(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{0, 0, 1, 0, 0, 1})
	ix, err := knn.New(x, "")
	require.NoError(t, err)
	nb, err := ix.Query(0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, nb)
}

func TestErrors(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{0, 1})
	_, err := knn.New(x, "cosine")
	assert.ErrorIs(t, err, knn.ErrUnsupportedMetric)

	ix, err := knn.New(x, knn.Euclidean)
	require.NoError(t, err)
	_, err = ix.Query(0, 0)
	assert.ErrorIs(t, err, knn.ErrBadK)
	_, err = ix.Query(5, 1)
	assert.ErrorIs(t, err, knn.ErrNoPoints)
}

func TestNearestPoint(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{0, 0, 5, 5, 1, 0, 9, 9})
	ix, err := knn.New(x, knn.Euclidean)
	require.NoError(t, err)
	nb, err := ix.Nearest([]float64{4, 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, nb)
}
