package knntable

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"modernc.org/sqlite/vtab"

	"github.com/viant/sqlite-knn/dataset"
	"github.com/viant/sqlite-knn/knn"
	"github.com/viant/sqlite-knn/vector"
)

// ModuleName is the name used in CREATE VIRTUAL TABLE ... USING knn(...).
const ModuleName = "knn"

// DefaultK is the neighbor count used when the table omits k=.
const DefaultK = 15

// Module provides classification via a virtual table.
// Usage:
//
//	CREATE VIRTUAL TABLE iris_knn USING knn(dataset=iris, k=15);
//	SELECT label FROM iris_knn WHERE label MATCH ?; -- ? is a feature BLOB
//
// Returns a single row holding the predicted label.
//
// SQLite keeps one module per name for the whole process, so a single
// Module is registered and every Register call rebinds it to that
// call's database.
type Module struct {
	mu     sync.RWMutex
	store  *dataset.SQLiteStore
	logger *zap.Logger
}

var (
	registerMu sync.Mutex
	registered *Module
)

// ErrNotRegistered is returned when a knn table is queried before a
// successful Register bound the module to a database.
var ErrNotRegistered = errors.New("knn: module has no bound database; call Register")

func (m *Module) bind(store *dataset.SQLiteStore, logger *zap.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store, m.logger = store, logger
}

func (m *Module) binding() (*dataset.SQLiteStore, *zap.Logger) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store, m.logger
}

// Table is one knn virtual table bound to a dataset.
type Table struct {
	module  *Module
	name    string
	dataset string
	k       int

	mu         sync.Mutex
	classifier  *knn.Classifier[string]
	fittedRows  int
	fittedStore *dataset.SQLiteStore
}

// Cursor iterates the rows produced by one Filter call.
type Cursor struct {
	table *Table
	rows  []string
	pos   int
}

// Register registers the knn module with the provided *sql.DB and ensures
// the dataset schema exists.
func Register(db *sql.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	registerMu.Lock()
	defer registerMu.Unlock()
	if registered == nil {
		registered = &Module{logger: zap.NewNop()}
	}
	// The module must be registered before the pool opens a connection,
	// otherwise that connection reports "no such module".
	if err := vtab.RegisterModule(db, ModuleName, registered); err != nil {
		if !strings.Contains(err.Error(), "already registered") {
			return err
		}
	}
	store, err := dataset.NewSQLiteStore(db, dataset.WithLogger(logger))
	if err != nil {
		return err
	}
	registered.bind(store, logger)
	return nil
}

// Create declares the table schema and parses dataset= and k= arguments.
func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

// Connect attaches to an existing knn table.
func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

func (m *Module) connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("knn: need at least 3 args, got %d", len(args))
	}
	t := &Table{module: m, name: args[2], k: DefaultK}
	if err := t.parseOptions(args[3:]); err != nil {
		return nil, err
	}
	// Single TEXT column `label` reporting the prediction.
	if err := ctx.Declare(fmt.Sprintf("CREATE TABLE %s(label TEXT)", args[2])); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) parseOptions(args []string) error {
	for _, raw := range args {
		a := strings.TrimSpace(raw)
		if a == "" {
			continue
		}
		parts := strings.SplitN(a, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("knn: invalid argument %q, want key=value", a)
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		val := strings.Trim(strings.TrimSpace(parts[1]), `'"`)
		switch key {
		case "dataset":
			t.dataset = val
		case "k":
			k, err := strconv.Atoi(val)
			if err != nil || k < 1 {
				return fmt.Errorf("knn: invalid k %q", val)
			}
			t.k = k
		default:
			return fmt.Errorf("knn: unknown argument %q", key)
		}
	}
	if t.dataset == "" {
		return fmt.Errorf("knn: dataset= argument is required")
	}
	return nil
}

// BestIndex pushes down MATCH on the label column.
func (t *Table) BestIndex(info *vtab.IndexInfo) error {
	for i := range info.Constraints {
		c := &info.Constraints[i]
		if !c.Usable {
			continue
		}
		if c.Column == 0 && c.Op == vtab.OpMATCH {
			c.ArgIndex = 0
			c.Omit = true
			info.IdxNum = 1
			break
		}
	}
	return nil
}

func (t *Table) Open() (vtab.Cursor, error) { return &Cursor{table: t}, nil }
func (t *Table) Disconnect() error { return nil }
func (t *Table) Destroy() error { return nil }

// classifierFor returns the cached classifier, refitting when the stored
// row count has changed since the last fit.
func (t *Table) classifierFor(ctx context.Context) (*knn.Classifier[string], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	store, logger := t.module.binding()
	if store == nil {
		return nil, ErrNotRegistered
	}
	n, err := store.Count(ctx, t.dataset)
	if err != nil {
		return nil, err
	}
	if t.classifier != nil && store == t.fittedStore && n == t.fittedRows {
		return t.classifier, nil
	}
	ds, err := store.LoadDataset(ctx, t.dataset)
	if err != nil {
		return nil, err
	}
	c, err := knn.Fit(ds.Points(), t.k, knn.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	t.classifier, t.fittedRows, t.fittedStore = c, ds.Len(), store
	logger.Debug("knn table fitted",
		zap.String("table", t.name),
		zap.String("dataset", t.dataset),
		zap.Int("rows", ds.Len()),
		zap.Int("k", t.k),
	)
	return c, nil
}

func (c *Cursor) Filter(idxNum int, idxStr string, vals []vtab.Value) error {
	c.rows = nil
	c.pos = 0
	if idxNum != 1 || len(vals) == 0 || vals[0] == nil {
		return nil
	}
	query, err := decodeMatchArg(vals[0])
	if err != nil {
		return err
	}
	ctx := context.Background()
	clf, err := c.table.classifierFor(ctx)
	if err != nil {
		return err
	}
	label, err := clf.PredictOne(query)
	if err != nil {
		return err
	}
	c.rows = []string{label}
	return nil
}

func (c *Cursor) Next() error {
	if c.pos < len(c.rows) {
		c.pos++
	}
	return nil
}

func (c *Cursor) Eof() bool { return c.pos >= len(c.rows) }

func (c *Cursor) Column(col int) (vtab.Value, error) {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, fmt.Errorf("knn: Column out of range")
	}
	if col == 0 {
		return c.rows[c.pos], nil
	}
	return nil, nil
}

func (c *Cursor) Rowid() (int64, error) { return int64(c.pos + 1), nil }

func (c *Cursor) Close() error {
	c.rows = nil
	c.pos = 0
	return nil
}

// decodeMatchArg accepts a feature BLOB or a JSON array of numbers.
func decodeMatchArg(v vtab.Value) ([]float64, error) {
	switch val := v.(type) {
	case []byte:
		return vector.DecodeFeatures(val)
	case string:
		var out []float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(val)), &out); err != nil {
			return nil, fmt.Errorf("knn: MATCH string must be a JSON array of numbers: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("knn: expected MATCH arg as BLOB or string, got %T", v)
	}
}
