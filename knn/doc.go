// Package knn implements a brute-force k-nearest-neighbors classifier.
//
// Fit binds a labeled training set and a neighbor count k into an immutable
// Classifier. Predict labels each query by a uniform majority vote among its
// k nearest training points under Euclidean distance.
//
// Results are deterministic:
//   - neighbors at equal distance rank by their position in the training set
//   - when several labels share the highest vote count, the label whose
//     nearest neighbor ranks first wins
//
// A fitted Classifier is safe for concurrent use.
package knn
