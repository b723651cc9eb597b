package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIris(t *testing.T) {
	ds, err := Iris()
	require.NoError(t, err)

	assert.Equal(t, IrisName, ds.Name)
	assert.Equal(t, 150, ds.Len())
	assert.Equal(t, []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}, ds.FeatureNames)
	assert.Equal(t, map[string]int{"setosa": 50, "versicolor": 50, "virginica": 50}, ds.ClassCounts())
	assert.Equal(t, []float64{5.1, 3.5, 1.4, 0.2}, ds.Row(0))
	assert.Equal(t, "setosa", ds.Labels[0])
	assert.Equal(t, []float64{5.9, 3.0, 5.1, 1.8}, ds.Row(149))
	assert.Equal(t, "virginica", ds.Labels[149])
}

func TestReadCSV(t *testing.T) {
	in := "x,class,y\n1,a,2\n3,b,4.5\n"
	ds, err := ReadCSV(strings.NewReader(in), "toy", "class")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ds.FeatureNames)
	assert.Equal(t, []string{"a", "b"}, ds.Labels)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4.5}}, ds.Rows())
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("x,class\n1,a\n"), "toy", "label")
	assert.Error(t, err, "missing label column")

	_, err = ReadCSV(strings.NewReader("x,name,class\n1,foo,a\n2,bar,b\n"), "toy", "class")
	assert.Error(t, err, "non-numeric feature column")
}

func TestNew_Errors(t *testing.T) {
	_, err := New("d", []string{"x"}, nil, nil)
	assert.Error(t, err)
	_, err = New("d", []string{"x"}, [][]float64{{1}}, []string{"a", "b"})
	assert.Error(t, err)
	_, err = New("d", nil, [][]float64{{1}}, []string{"a"})
	assert.Error(t, err)
	_, err = New("d", []string{"x"}, [][]float64{{1, 2}}, []string{"a"})
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	ds, err := Iris()
	require.NoError(t, err)

	two, err := ds.Select("sepal_length", "sepal_width")
	require.NoError(t, err)
	assert.Equal(t, 2, two.Dim())
	assert.Equal(t, 150, two.Len())
	assert.Equal(t, []float64{5.1, 3.5}, two.Row(0))

	swapped, err := ds.Select("petal_width", "sepal_length")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 5.1}, swapped.Row(0))

	_, err = ds.Select("nope")
	assert.Error(t, err)
	_, err = ds.Select()
	assert.Error(t, err)
}

func TestPoints(t *testing.T) {
	ds, err := New("d", []string{"x", "y"}, [][]float64{{1, 2}, {3, 4}}, []string{"a", "b"})
	require.NoError(t, err)
	points := ds.Points()
	require.Len(t, points, 2)
	assert.Equal(t, []float64{3, 4}, points[1].Features)
	assert.Equal(t, "b", points[1].Label)

	// Points are copies of the matrix rows.
	points[0].Features[0] = 42
	assert.Equal(t, []float64{1, 2}, ds.Row(0))
}

func TestSummary(t *testing.T) {
	ds, err := New("d", []string{"x"}, [][]float64{{1}, {3}, {5}}, []string{"a", "a", "b"})
	require.NoError(t, err)
	s := ds.Summary()
	require.Len(t, s, 1)
	assert.Equal(t, "x", s[0].Name)
	assert.Equal(t, 1.0, s[0].Min)
	assert.Equal(t, 5.0, s[0].Max)
	assert.Equal(t, 3.0, s[0].Mean)
	assert.InDelta(t, 1.632993, s[0].StdDev, 1e-6)
}
