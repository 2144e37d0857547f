package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"video-vault/internal/logging"
	"video-vault/internal/metrics"
)

// Default timeout for database operations.
const defaultTimeout = 5 * time.Second

// ErrNotFound indicates a record lookup miss.
var ErrNotFound = errors.New("record not found")

// Database is the persistent video index. Writes are serialized through an
// internal mutex so a reader never observes a half-applied record; reads
// proceed concurrently under the read lock.
type Database struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (or creates) the index at dbPath. The parent directory must
// already exist; use startup.LoadConfig to set up the cache area first.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Debug("Index database path: %s", dbPath)

	// WAL keeps readers unblocked during the single writer's transactions;
	// busy_timeout avoids spurious "database is locked" errors.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Index database ready at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS videos (
		path TEXT PRIMARY KEY,
		folder TEXT NOT NULL,
		name TEXT NOT NULL,
		duration REAL,
		created_at INTEGER,
		thumb_path TEXT,
		updated_at INTEGER NOT NULL,
		thumb_error INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_videos_folder ON videos(folder);
	CREATE INDEX IF NOT EXISTS idx_videos_name ON videos(name COLLATE NOCASE);
	`

	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	return d.runMigrations(ctx)
}

// runMigrations applies additive schema migrations. Databases written
// before the failure flag existed gain a thumb_error column with every
// existing row treated as not-failed.
func (d *Database) runMigrations(ctx context.Context) error {
	var columnExists bool
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info('videos')
		WHERE name='thumb_error'
	`).Scan(&columnExists)
	if err != nil {
		return fmt.Errorf("failed to check for thumb_error column: %w", err)
	}

	if !columnExists {
		logging.Info("Migrating database: adding thumb_error column to videos table")

		_, err = d.db.ExecContext(ctx, `
			ALTER TABLE videos ADD COLUMN thumb_error INTEGER NOT NULL DEFAULT 0
		`)
		if err != nil {
			return fmt.Errorf("failed to add thumb_error column: %w", err)
		}

		logging.Info("Migration complete: thumb_error column added")
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// recordQuery records database query metrics.
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil && !errors.Is(err, ErrNotFound) {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
