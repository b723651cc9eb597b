package dataset

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ReadCSV loads a headed CSV table. The labelColumn holds class labels and
// is read as text; every other column must be numeric and becomes a feature
// in header order.
func ReadCSV(r io.Reader, name, labelColumn string) (*Dataset, error) {
	df := dataframe.ReadCSV(r, dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, fmt.Errorf("dataset: failed to read csv: %w", df.Err)
	}
	return FromDataFrame(df, name, labelColumn)
}

// FromDataFrame converts a gota dataframe into a Dataset.
func FromDataFrame(df dataframe.DataFrame, name, labelColumn string) (*Dataset, error) {
	var featureNames []string
	hasLabel := false
	for _, col := range df.Names() {
		if col == labelColumn {
			hasLabel = true
			continue
		}
		featureNames = append(featureNames, col)
	}
	if !hasLabel {
		return nil, fmt.Errorf("dataset: label column %q not found", labelColumn)
	}

	n := df.Nrow()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, len(featureNames))
	}
	for j, col := range featureNames {
		s := df.Col(col)
		switch s.Type() {
		case series.Float, series.Int:
		default:
			return nil, fmt.Errorf("dataset: feature column %q is %s, want numeric", col, s.Type())
		}
		for i, v := range s.Float() {
			rows[i][j] = v
		}
	}
	labels := df.Col(labelColumn).Records()
	return New(name, featureNames, rows, labels)
}
