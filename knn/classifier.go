package knn

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/viant/sqlite-knn/index/bruteforce"
	"github.com/viant/sqlite-knn/vector"
)

// LabeledPoint is one training example.
type LabeledPoint[L comparable] struct {
	Features []float64
	Label    L
}

// Neighbor is a training point selected for a query. Distance is the true
// Euclidean distance.
type Neighbor[L comparable] struct {
	Index    int
	Label    L
	Distance float64
}

// Classifier is a fitted k-NN classifier. It owns a private copy of the
// training set and is never modified after Fit.
type Classifier[L comparable] struct {
	k      int
	index  *bruteforce.Index
	labels []L
	logger *zap.Logger
}

// Fit validates the training set and k and returns a fitted classifier.
//
// It fails with ErrInvalidInput when points is empty, when k < 1 or
// k > len(points), or when a feature is NaN or infinite, and with a
// *DimensionMismatchError when the vectors disagree on dimensionality.
func Fit[L comparable](points []LabeledPoint[L], k int, opts ...Option) (*Classifier[L], error) {
	o := newOptions(opts)
	if len(points) == 0 {
		return nil, invalidInput("empty training set")
	}
	if k < 1 {
		return nil, invalidInput("k must be positive, got %d", k)
	}
	if k > len(points) {
		return nil, invalidInput("k %d exceeds training set size %d", k, len(points))
	}
	dim := len(points[0].Features)
	if dim == 0 {
		return nil, invalidInput("training point 0 has no features")
	}
	vectors := make([][]float64, len(points))
	labels := make([]L, len(points))
	for i, p := range points {
		if len(p.Features) != dim {
			return nil, &DimensionMismatchError{Expected: dim, Actual: len(p.Features), Index: i, atFit: true}
		}
		if !vector.Finite(p.Features) {
			return nil, invalidInput("training point %d has a non-finite feature", i)
		}
		vectors[i] = p.Features
		labels[i] = p.Label
	}
	idx := &bruteforce.Index{}
	if err := idx.Build(vectors); err != nil {
		return nil, invalidInput("%v", err)
	}
	c := &Classifier[L]{k: k, index: idx, labels: labels, logger: o.logger}
	c.logger.Debug("classifier fitted",
		zap.Int("points", len(points)),
		zap.Int("dimension", dim),
		zap.Int("k", k),
	)
	return c, nil
}

// K returns the neighbor count fixed at Fit.
func (c *Classifier[L]) K() int { return c.k }

// Dim returns the feature dimensionality fixed at Fit.
func (c *Classifier[L]) Dim() int { return c.index.Dim() }

// Len returns the training set size.
func (c *Classifier[L]) Len() int { return c.index.Len() }

// Labels returns the distinct training labels in order of first appearance.
func (c *Classifier[L]) Labels() []L {
	seen := make(map[L]struct{})
	var out []L
	for _, l := range c.labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Predict returns one label per query, in query order. An empty batch yields
// an empty result. No partial result is returned on error.
func (c *Classifier[L]) Predict(queries [][]float64) ([]L, error) {
	return c.PredictContext(context.Background(), queries)
}

// PredictContext is Predict with cancellation checked between queries.
func (c *Classifier[L]) PredictContext(ctx context.Context, queries [][]float64) ([]L, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	out := make([]L, len(queries))
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label, err := c.predictOne(i, q)
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	c.logger.Debug("batch predicted", zap.Int("queries", len(queries)))
	return out, nil
}

// PredictOne labels a single query.
func (c *Classifier[L]) PredictOne(query []float64) (L, error) {
	return c.predictOne(0, query)
}

// Neighbors returns the k nearest training points of query, nearest first,
// with their true Euclidean distances.
func (c *Classifier[L]) Neighbors(query []float64) ([]Neighbor[L], error) {
	if err := c.checkQuery(0, query); err != nil {
		return nil, err
	}
	found, err := c.index.Query(query, c.k)
	if err != nil {
		return nil, err
	}
	out := make([]Neighbor[L], len(found))
	for i, n := range found {
		out[i] = Neighbor[L]{Index: n.Index, Label: c.labels[n.Index], Distance: math.Sqrt(n.Distance)}
	}
	return out, nil
}

func (c *Classifier[L]) predictOne(pos int, query []float64) (L, error) {
	var zero L
	if err := c.checkQuery(pos, query); err != nil {
		return zero, err
	}
	found, err := c.index.Query(query, c.k)
	if err != nil {
		return zero, err
	}
	ranked := make([]L, len(found))
	for i, n := range found {
		ranked[i] = c.labels[n.Index]
	}
	return vote(ranked), nil
}

func (c *Classifier[L]) checkQuery(pos int, query []float64) error {
	if len(query) != c.index.Dim() {
		return &DimensionMismatchError{Expected: c.index.Dim(), Actual: len(query), Index: pos}
	}
	if !vector.Finite(query) {
		return invalidInput("query %d has a non-finite feature", pos)
	}
	return nil
}

// vote returns the most frequent label of ranked, which must be ordered
// nearest first. Among labels with the same count, the one appearing first
// in ranked wins.
func vote[L comparable](ranked []L) L {
	counts := make(map[L]int, len(ranked))
	order := make([]L, 0, len(ranked))
	for _, l := range ranked {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}
	best := order[0]
	for _, l := range order[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best
}
