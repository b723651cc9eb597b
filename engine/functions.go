package engine

import (
	"database/sql/driver"
	"fmt"

	sqlite "modernc.org/sqlite"

	"github.com/viant/sqlite-knn/vector"
)

// DistanceFunction is the SQL name of the Euclidean distance function.
const DistanceFunction = "knn_l2"

// RegisterDistanceFunctions registers knn_l2 with the driver so it is
// available on new connections opened after this call.
// Note: existing open connections will not see new functions.
func RegisterDistanceFunctions() error {
	// Idempotent registration; the driver rejects duplicates and we ignore that here.
	_ = sqlite.RegisterDeterministicScalarFunction(DistanceFunction, 2, knnL2Impl)
	return nil
}

func asFeatures(arg driver.Value) ([]float64, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return vector.DecodeFeatures(v)
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T for features; want BLOB", DistanceFunction, arg)
	}
}

// knnL2Impl returns the Euclidean distance between two feature BLOBs, or
// NULL when either argument is NULL or empty.
func knnL2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 arguments, got %d", DistanceFunction, len(args))
	}
	a, err := asFeatures(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asFeatures(args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	d, err := vector.L2Distance(a, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", DistanceFunction, err)
	}
	return d, nil
}
