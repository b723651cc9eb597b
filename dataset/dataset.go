package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/viant/sqlite-knn/knn"
)

// Dataset is a labeled feature table. Row i of Features is labeled by
// Labels[i].
type Dataset struct {
	Name         string
	FeatureNames []string
	Features     *mat.Dense
	Labels       []string
}

// FeatureSummary describes one feature column.
type FeatureSummary struct {
	Name   string  `json:"name"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// New builds a Dataset from row vectors. All rows must have
// len(featureNames) components and there must be one label per row.
func New(name string, featureNames []string, rows [][]float64, labels []string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset: %q has no rows", name)
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("dataset: rows and labels length mismatch: %d != %d", len(rows), len(labels))
	}
	dim := len(featureNames)
	if dim == 0 {
		return nil, fmt.Errorf("dataset: %q has no feature columns", name)
	}
	data := make([]float64, 0, len(rows)*dim)
	for i, r := range rows {
		if len(r) != dim {
			return nil, fmt.Errorf("dataset: row %d has %d features, want %d", i, len(r), dim)
		}
		data = append(data, r...)
	}
	return &Dataset{
		Name:         name,
		FeatureNames: append([]string(nil), featureNames...),
		Features:     mat.NewDense(len(rows), dim, data),
		Labels:       append([]string(nil), labels...),
	}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Labels) }

// Dim returns the number of feature columns.
func (d *Dataset) Dim() int { return len(d.FeatureNames) }

// Row returns a copy of the feature vector at row i.
func (d *Dataset) Row(i int) []float64 {
	return mat.Row(nil, i, d.Features)
}

// Rows returns copies of all feature vectors in row order.
func (d *Dataset) Rows() [][]float64 {
	out := make([][]float64, d.Len())
	for i := range out {
		out[i] = d.Row(i)
	}
	return out
}

// Points converts the dataset into a classifier training set.
func (d *Dataset) Points() []knn.LabeledPoint[string] {
	out := make([]knn.LabeledPoint[string], d.Len())
	for i := range out {
		out[i] = knn.LabeledPoint[string]{Features: d.Row(i), Label: d.Labels[i]}
	}
	return out
}

// Select projects the dataset onto the named feature columns, in the given
// order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("dataset: Select called with no columns")
	}
	cols := make([]int, len(names))
	for i, name := range names {
		cols[i] = -1
		for j, fn := range d.FeatureNames {
			if fn == name {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			return nil, fmt.Errorf("dataset: unknown feature column %q in %q", name, d.Name)
		}
	}
	rows := make([][]float64, d.Len())
	for i := range rows {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = d.Features.At(i, c)
		}
		rows[i] = row
	}
	return New(d.Name, names, rows, d.Labels)
}

// Subset returns the rows at the given positions, in that order.
func (d *Dataset) Subset(positions []int) (*Dataset, error) {
	rows := make([][]float64, len(positions))
	labels := make([]string, len(positions))
	for i, p := range positions {
		if p < 0 || p >= d.Len() {
			return nil, fmt.Errorf("dataset: row %d out of range [0,%d)", p, d.Len())
		}
		rows[i] = d.Row(p)
		labels[i] = d.Labels[p]
	}
	return New(d.Name, d.FeatureNames, rows, labels)
}

// Summary returns per-feature statistics.
func (d *Dataset) Summary() []FeatureSummary {
	out := make([]FeatureSummary, d.Dim())
	for j, name := range d.FeatureNames {
		col := mat.Col(nil, j, d.Features)
		mean, std := stat.PopMeanStdDev(col, nil)
		out[j] = FeatureSummary{
			Name:   name,
			Min:    floats.Min(col),
			Max:    floats.Max(col),
			Mean:   mean,
			StdDev: std,
		}
	}
	return out
}

// ClassCounts returns the number of rows per label.
func (d *Dataset) ClassCounts() map[string]int {
	out := make(map[string]int)
	for _, l := range d.Labels {
		out[l]++
	}
	return out
}
