package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// featureWidth is the encoded size of one feature component.
const featureWidth = 8

// EncodeFeatures encodes a feature vector into a BLOB representation
// suitable for storage in SQLite. The encoding is a little-endian sequence
// of IEEE 754 float64 values without a length prefix; the length is derived
// from the BLOB size on decode.
func EncodeFeatures(vec []float64) ([]byte, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	b := make([]byte, len(vec)*featureWidth)
	for i, v := range vec {
		binary.LittleEndian.PutUint64(b[i*featureWidth:], math.Float64bits(v))
	}
	return b, nil
}

// DecodeFeatures decodes a BLOB produced by EncodeFeatures back into a
// feature vector.
func DecodeFeatures(b []byte) ([]float64, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%featureWidth != 0 {
		return nil, fmt.Errorf("vector: invalid feature blob length %d (not multiple of %d)", len(b), featureWidth)
	}
	n := len(b) / featureWidth
	vec := make([]float64, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*featureWidth:]))
	}
	return vec, nil
}
