package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvstitch/matrix"
)

func TestGram(t *testing.T) {
	b := mustRows(t, 6, [][]int{{0, 1, 2}, {1, 2, 3}, {3, 4, 5}, {5}})
	g := b.Gram()

	assert.Equal(t, 4, g.Size())
	assert.Equal(t, 2, g.At(0, 1))
	assert.Equal(t, 2, g.At(1, 0))
	assert.Equal(t, 1, g.At(1, 2))
	assert.Equal(t, 1, g.At(2, 3))
	assert.Zero(t, g.At(0, 0))
	assert.Zero(t, g.At(0, 2))
	assert.Zero(t, g.At(-1, 0))
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))
	assert.Nil(t, g.Neighbors(4))
	assert.Equal(t, 6, g.NNZ())
	assert.Equal(t, []matrix.Pair{
		{I: 0, J: 1, N: 2},
		{I: 1, J: 2, N: 1},
		{I: 2, J: 3, N: 1},
	}, g.Pairs())
}

func TestWithout(t *testing.T) {
	utilde := mustRows(t, 4, [][]int{{0, 1, 2}, {1, 2, 3}, {0, 3}})
	core := mustRows(t, 4, [][]int{{0, 1}, {1, 2}, {3}})

	torn, err := utilde.Gram().Without(core.Gram())
	require.NoError(t, err)
	// Only 0-1 overlap in the core; 0-2 and 1-2 remain.
	assert.Equal(t, []matrix.Pair{
		{I: 0, J: 2, N: 1},
		{I: 1, J: 2, N: 1},
	}, torn.Pairs())

	_, err = utilde.Gram().Without(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = utilde.Gram().Without(mustRows(t, 1, [][]int{{0}}).Gram())
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
