// Package dataset provides labeled feature tables for the classifier:
//   - Dataset: a gonum feature matrix with one string label per row
//   - Iris: the embedded iris flower table
//   - ReadCSV: CSV loading through a gota dataframe
//   - Split: index-modulus train/test partitioning
//   - SQLiteStore: durable storage of datasets in a points table
package dataset
