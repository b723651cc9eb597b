package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunClassify_Defaults(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runClassify(nil, &out))
	assert.True(t, strings.HasPrefix(out.String(), "correct: "), out.String())
	assert.Contains(t, out.String(), "accuracy: ")
}

func TestRunClassify_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runClassify([]string{"-format", "json", "-k", "5", "-features", "petal_length,petal_width"}, &out))

	var decoded struct {
		Correct   int     `json:"correct"`
		Incorrect int     `json:"incorrect"`
		Accuracy  float64 `json:"accuracy"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 50, decoded.Correct+decoded.Incorrect, "every third iris row is held out")
	assert.Greater(t, decoded.Accuracy, 0.9)
}

func TestRunClassify_Debug(t *testing.T) {
	var plain, debug bytes.Buffer
	require.NoError(t, runClassify(nil, &plain))
	require.NoError(t, runClassify([]string{"-debug"}, &debug))
	assert.Equal(t, plain.String(), debug.String(), "debug logging must not change the report")
	assert.Contains(t, debug.String(), "mismatches (test row: true, predicted):")
}

func TestRunClassify_InvalidFlags(t *testing.T) {
	assert.Error(t, runClassify([]string{"-format", "xml"}, &bytes.Buffer{}))
	assert.Error(t, runClassify([]string{"-modulus", "1"}, &bytes.Buffer{}))
	assert.Error(t, runClassify([]string{"-features", "no_such_column"}, &bytes.Buffer{}))
	assert.Error(t, runClassify([]string{"-k", "200"}, &bytes.Buffer{}), "k larger than the training set")
}

func TestImportThenRunFromSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "points.db")

	var out bytes.Buffer
	require.NoError(t, runImport([]string{"-db", dbPath, "-name", "iris"}, &out))
	assert.Equal(t, "imported 150 rows into dataset iris\n", out.String())

	configPath := filepath.Join(dir, "knn.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
dataset:
  source: sqlite
  path: ./points.db
  name: iris
  features: [sepal_length, sepal_width]
`), 0600))

	var fromStore, fromEmbedded bytes.Buffer
	require.NoError(t, runClassify([]string{"-config", configPath}, &fromStore))
	require.NoError(t, runClassify(nil, &fromEmbedded))
	assert.Equal(t, fromEmbedded.String(), fromStore.String())
}

func TestImportCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "toy.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("x,y,class\n0,0,a\n0,1,a\n5,5,b\n"), 0600))

	var out bytes.Buffer
	require.NoError(t, runImport([]string{"-db", filepath.Join(dir, "points.db"), "-name", "toy", "-csv", csvPath, "-label", "class"}, &out))
	assert.Equal(t, "imported 3 rows into dataset toy\n", out.String())

	assert.Error(t, runImport([]string{"-name", "toy"}, &bytes.Buffer{}), "missing -db")
}

func TestRunQuery(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "points.db")
	require.NoError(t, runImport([]string{"-db", dbPath, "-name", "iris"}, &bytes.Buffer{}))

	var out bytes.Buffer
	err := runQuery([]string{"-db", dbPath, "-name", "iris", "-k", "15", "5.0,3.4,1.5,0.2"}, &out)
	if err != nil && (strings.Contains(err.Error(), "no such module") || strings.Contains(err.Error(), "xBestIndex malfunction")) {
		t.Skipf("skipping: knn vtab not available (%v)", err)
	}
	require.NoError(t, err)
	assert.Equal(t, "setosa\n", out.String())
}

func TestRunQuery_InvalidArgs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "points.db")
	var testCases = []struct {
		description string
		args        []string
	}{
		{description: "missing name", args: []string{"-db", dbPath, "1,2"}},
		{description: "bad identifier", args: []string{"-db", dbPath, "-name", "iris; drop", "1,2"}},
		{description: "bad k", args: []string{"-db", dbPath, "-name", "iris", "-k", "0", "1,2"}},
		{description: "no vector", args: []string{"-db", dbPath, "-name", "iris"}},
		{description: "bad number", args: []string{"-db", dbPath, "-name", "iris", "1,x"}},
	}
	for _, testCase := range testCases {
		assert.Error(t, runQuery(testCase.args, &bytes.Buffer{}), testCase.description)
	}
}

func TestParseFeatures(t *testing.T) {
	got, err := parseFeatures(" 5.1, 3.5 ,1.4,0.2 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{5.1, 3.5, 1.4, 0.2}, got)

	_, err = parseFeatures(" , ")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a, ,b,"))
	assert.Nil(t, splitList(""))
}
