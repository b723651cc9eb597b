package bruteforce

import (
	"fmt"

	"github.com/viant/sqlite-knn/index"
	"github.com/viant/sqlite-knn/vector"
)

// Index is a simple brute-force vector index under Euclidean distance.
// Vectors are stored in one row-major buffer; row i occupies
// data[i*dim:(i+1)*dim].
type Index struct {
	data []float64
	n    int
	dim  int
}

// Build validates dimensions and copies the vectors into the index.
func (i *Index) Build(vectors [][]float64) error {
	if len(vectors) == 0 {
		i.data, i.n, i.dim = nil, 0, 0
		return nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("bruteforce: zero-dimension vector at 0")
	}
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d at %d", len(vectors[j]), dim, j)
		}
	}
	data := make([]float64, 0, len(vectors)*dim)
	for _, v := range vectors {
		data = append(data, v...)
	}
	i.data, i.n, i.dim = data, len(vectors), dim
	return nil
}

// Query returns the k nearest vectors by squared Euclidean distance. Ties on
// distance resolve to the lower index, so results do not depend on scan or
// heap order.
func (i *Index) Query(query []float64, k int) ([]index.Neighbor, error) {
	if i.n == 0 {
		return nil, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	if k <= 0 || k > i.n {
		k = i.n
	}
	h := make(candidates, 0, k)
	for j := 0; j < i.n; j++ {
		d := vector.SquaredL2(query, i.row(j))
		h.pushBounded(index.Neighbor{Index: j, Distance: d}, k)
	}
	return h.sorted(), nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return i.n }

// Dim returns the indexed dimensionality.
func (i *Index) Dim() int { return i.dim }

// Row returns the stored vector at position j. The returned slice aliases
// the index and must not be modified.
func (i *Index) Row(j int) []float64 { return i.row(j) }

func (i *Index) row(j int) []float64 {
	return i.data[j*i.dim : (j+1)*i.dim : (j+1)*i.dim]
}

var _ index.Index = (*Index)(nil)
