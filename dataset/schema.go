package dataset

import (
	"database/sql"
)

// PointsTable is the table holding labeled rows. Its features column is a
// vector.EncodeFeatures BLOB.
const PointsTable = "points"

const storeSchema = `
CREATE TABLE IF NOT EXISTS datasets (
    name TEXT PRIMARY KEY,
    features TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS ` + PointsTable + ` (
    id TEXT PRIMARY KEY,
    dataset TEXT NOT NULL,
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    features BLOB NOT NULL,
    UNIQUE(dataset, position)
);
`

// EnsureSchema creates the datasets and points tables in the provided
// database if they do not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(storeSchema)
	return err
}
