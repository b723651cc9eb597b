package dataset

import (
	"bytes"
	_ "embed"
)

// IrisName is the dataset name used for the embedded iris table.
const IrisName = "iris"

// IrisLabel is the label column of the iris table.
const IrisLabel = "species"

//go:embed data/iris.csv
var irisCSV []byte

// Iris returns Fisher's iris table: 150 rows, features sepal_length,
// sepal_width, petal_length, petal_width (cm), labeled by species in
// setosa, versicolor, virginica blocks of 50.
func Iris() (*Dataset, error) {
	return ReadCSV(bytes.NewReader(irisCSV), IrisName, IrisLabel)
}
