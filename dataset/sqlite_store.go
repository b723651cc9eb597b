package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/viant/sqlite-knn/vector"
)

// ErrNotFound is returned when a named dataset does not exist.
var ErrNotFound = errors.New("dataset: not found")

// SQLiteStore is a Store backed by a SQLite database. Feature vectors are
// stored as float64 BLOBs; row order is kept in the position column.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// StoreOption configures a SQLiteStore.
type StoreOption func(*SQLiteStore)

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *SQLiteStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the schema
// exists in the provided database.
func NewSQLiteStore(db *sql.DB, opts ...StoreOption) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("dataset: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddDataset inserts all rows of ds in one transaction. Each row gets a
// generated id.
func (s *SQLiteStore) AddDataset(ctx context.Context, ds *Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return fmt.Errorf("dataset: AddDataset called with empty dataset")
	}
	if ds.Name == "" {
		return fmt.Errorf("dataset: Dataset.Name must be set in AddDataset")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	names, err := json.Marshal(ds.FeatureNames)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO datasets(name, features) VALUES(?, ?)`, ds.Name, string(names)); err != nil {
		return fmt.Errorf("dataset: failed to register %q: %w", ds.Name, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+PointsTable+`(id, dataset, position, label, features) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < ds.Len(); i++ {
		blob, err := vector.EncodeFeatures(ds.Row(i))
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), ds.Name, i, ds.Labels[i], blob); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("dataset stored", zap.String("dataset", ds.Name), zap.Int("rows", ds.Len()))
	return nil
}

// LoadDataset reads the named dataset ordered by position.
func (s *SQLiteStore) LoadDataset(ctx context.Context, name string) (*Dataset, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var rawNames string
	err := s.db.QueryRowContext(ctx, `SELECT features FROM datasets WHERE name = ?`, name).Scan(&rawNames)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	var featureNames []string
	if err := json.Unmarshal([]byte(rawNames), &featureNames); err != nil {
		return nil, fmt.Errorf("dataset: invalid feature names for %q: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT label, features FROM `+PointsTable+` WHERE dataset = ? ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vecs [][]float64
	var labels []string
	for rows.Next() {
		var label string
		var blob []byte
		if err := rows.Scan(&label, &blob); err != nil {
			return nil, err
		}
		vec, err := vector.DecodeFeatures(blob)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, vec)
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.logger.Debug("dataset loaded", zap.String("dataset", name), zap.Int("rows", len(vecs)))
	return New(name, featureNames, vecs, labels)
}

// Datasets lists dataset names.
func (s *SQLiteStore) Datasets(ctx context.Context) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM datasets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Count returns the number of rows stored for name.
func (s *SQLiteStore) Count(ctx context.Context, name string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+PointsTable+` WHERE dataset = ?`, name).Scan(&n)
	return n, err
}

// RemoveDataset deletes a dataset and its rows.
func (s *SQLiteStore) RemoveDataset(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("dataset: RemoveDataset called with empty name")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+PointsTable+` WHERE dataset = ?`, name); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return tx.Commit()
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
