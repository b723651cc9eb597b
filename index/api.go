package index

// Neighbor is a single kNN candidate: the position of a vector in the
// built index and its squared Euclidean distance to the query.
type Neighbor struct {
	Index    int
	Distance float64
}

// Index defines an exact nearest-neighbor index over fixed-dimension
// feature vectors.
type Index interface {
	// Build constructs the index from the given vectors. All vectors must
	// share one dimensionality; the index keeps its own copy.
	Build(vectors [][]float64) error

	// Query returns up to k neighbors of the query ordered by ascending
	// distance, with equal distances ordered by ascending Index. When
	// k <= 0 or k exceeds Len, every vector is returned.
	Query(query []float64, k int) ([]Neighbor, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dim returns the dimensionality fixed at Build, or 0 when empty.
	Dim() int
}
