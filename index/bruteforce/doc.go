// Package bruteforce provides an exact vector index that answers kNN queries
// by scanning all vectors under squared Euclidean distance and keeping the
// k best candidates in a bounded max-heap.
package bruteforce
