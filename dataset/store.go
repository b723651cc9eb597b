package dataset

import (
	"context"
)

// Store defines durable storage for labeled datasets. Implementations keep
// row order so that index-modulus splits are reproducible after a reload.
type Store interface {
	// AddDataset stores every row of ds under ds.Name. It fails when a
	// dataset with that name already exists.
	AddDataset(ctx context.Context, ds *Dataset) error

	// LoadDataset returns the named dataset with rows in their original
	// order.
	LoadDataset(ctx context.Context, name string) (*Dataset, error)

	// Datasets lists stored dataset names in ascending order.
	Datasets(ctx context.Context) ([]string, error)

	// Count returns the number of stored rows of the named dataset.
	Count(ctx context.Context, name string) (int, error)

	// RemoveDataset deletes the named dataset and its rows.
	RemoveDataset(ctx context.Context, name string) error
}
