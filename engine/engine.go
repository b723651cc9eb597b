package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open registers the distance functions and opens a SQLite database using
// the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./knn.sqlite". For in-memory
// databases, pass ":memory:". File databases get a busy timeout so that
// readers nested inside virtual-table scans wait instead of failing.
func Open(dsn string) (*sql.DB, error) {
	if err := RegisterDistanceFunctions(); err != nil {
		return nil, err
	}
	return sql.Open("sqlite", withBusyTimeout(dsn))
}

// OpenContext is Open followed by a ping.
func OpenContext(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("engine: failed to open %s: %w", dsn, err)
	}
	return db, nil
}

func withBusyTimeout(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}
