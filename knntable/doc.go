// Package knntable exposes the k-NN classifier to SQL through a virtual table
// module named knn. Each table instance classifies MATCH arguments against
// one dataset held in the dataset.SQLiteStore points table.
package knntable
