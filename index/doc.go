// Package index defines a minimal abstraction for exact nearest-neighbor
// indexes over feature vectors. Implementations in this module include a
// brute-force baseline.
package index
