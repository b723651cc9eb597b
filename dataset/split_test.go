package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitModulo(t *testing.T) {
	train, test, err := SplitModulo(7, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4, 5}, train)
	assert.Equal(t, []int{0, 3, 6}, test)

	train, test, err = SplitModulo(5, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, train)
	assert.Equal(t, []int{1, 3}, test)
}

func TestSplitModulo_Errors(t *testing.T) {
	_, _, err := SplitModulo(10, 1, 0)
	assert.Error(t, err)
	_, _, err = SplitModulo(10, 3, 3)
	assert.Error(t, err)
	_, _, err = SplitModulo(10, 3, -1)
	assert.Error(t, err)
}

func TestDataset_Split(t *testing.T) {
	ds, err := Iris()
	require.NoError(t, err)

	train, test, err := ds.Split(3, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, train.Len())
	assert.Equal(t, 50, test.Len())
	assert.Equal(t, ds.Row(0), test.Row(0))
	assert.Equal(t, ds.Row(3), test.Row(1))
	assert.Equal(t, ds.Row(1), train.Row(0))
	assert.Equal(t, ds.Row(2), train.Row(1))
	assert.Equal(t, ds.Row(4), train.Row(2))

	single, err := New("one", []string{"x"}, [][]float64{{1}}, []string{"a"})
	require.NoError(t, err)
	_, _, err = single.Split(3, 0)
	assert.Error(t, err)
}
