// Package vector holds the feature-vector primitives shared by this module:
//   - Euclidean distance (squared and true) between feature vectors
//   - finiteness checks used to reject NaN/Inf inputs
//   - the float64 BLOB encoding used to store features in SQLite
package vector
