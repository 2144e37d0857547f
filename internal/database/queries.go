package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertSuccess inserts or fully overwrites the record for rec.Path with
// derived metadata and a cleared failure flag.
func (d *Database) UpsertSuccess(ctx context.Context, rec *VideoRecord) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("upsert_success", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
	INSERT INTO videos (path, folder, name, duration, created_at, thumb_path, updated_at, thumb_error)
	VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	ON CONFLICT(path) DO UPDATE SET
		folder = excluded.folder,
		name = excluded.name,
		duration = excluded.duration,
		created_at = excluded.created_at,
		thumb_path = excluded.thumb_path,
		updated_at = excluded.updated_at,
		thumb_error = 0
	`

	_, err = d.db.ExecContext(ctx, query,
		rec.Path,
		rec.Folder,
		rec.Name,
		rec.Duration,
		rec.CreatedAt,
		rec.ThumbRelPath,
		rec.UpdatedAt,
	)
	return err
}

// UpsertFailure inserts or overwrites the record for path, nulling every
// derived field and setting the failure flag. The row is preserved so the
// orchestrator can compare updatedAt on later passes instead of retrying a
// permanently broken file.
func (d *Database) UpsertFailure(ctx context.Context, path, folder, name string, updatedAt int64) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("upsert_failure", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
	INSERT INTO videos (path, folder, name, duration, created_at, thumb_path, updated_at, thumb_error)
	VALUES (?, ?, ?, NULL, NULL, NULL, ?, 1)
	ON CONFLICT(path) DO UPDATE SET
		folder = excluded.folder,
		name = excluded.name,
		duration = NULL,
		created_at = NULL,
		thumb_path = NULL,
		updated_at = excluded.updated_at,
		thumb_error = 1
	`

	_, err = d.db.ExecContext(ctx, query, path, folder, name, updatedAt)
	return err
}

// ListAll returns a full snapshot of the index for reconciliation.
func (d *Database) ListAll(ctx context.Context) ([]VideoRecord, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_all", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT path, folder, name, duration, created_at, thumb_path, updated_at, thumb_error
		FROM videos
	`)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListByFolder returns the records whose folder matches, ordered by the
// given sort key. Ties (equal sort values, including NULL durations) fall
// back to SQLite rowid order, i.e. insertion order; callers must not depend
// on a total order beyond the sort key.
func (d *Database) ListByFolder(ctx context.Context, folder string, sortBy SortField, order SortOrder) ([]VideoRecord, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_by_folder", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sortColumn := "name COLLATE NOCASE"
	switch sortBy {
	case SortByDuration:
		sortColumn = "duration"
	case SortByCreated:
		sortColumn = "created_at"
	}

	sortDir := "ASC"
	if order == SortDesc {
		sortDir = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT path, folder, name, duration, created_at, thumb_path, updated_at, thumb_error
		FROM videos
		WHERE folder = ?
		ORDER BY %s %s
	`, sortColumn, sortDir)

	rows, err := d.db.QueryContext(ctx, query, folder)
	if err != nil {
		return nil, fmt.Errorf("folder query failed: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByPath retrieves a single record, or ErrNotFound.
func (d *Database) GetByPath(ctx context.Context, path string) (*VideoRecord, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_by_path", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx, `
		SELECT path, folder, name, duration, created_at, thumb_path, updated_at, thumb_error
		FROM videos
		WHERE path = ?
	`, path)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteByPath removes the record for path. Deleting an absent path is not
// an error.
func (d *Database) DeleteByPath(ctx context.Context, path string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_by_path", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `DELETE FROM videos WHERE path = ?`, path)
	return err
}

// Count returns the number of indexed records.
func (d *Database) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("count", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	err = d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*VideoRecord, error) {
	var rec VideoRecord
	var duration sql.NullFloat64
	var createdAt sql.NullInt64
	var thumbPath sql.NullString

	err := row.Scan(
		&rec.Path, &rec.Folder, &rec.Name,
		&duration, &createdAt, &thumbPath,
		&rec.UpdatedAt, &rec.ThumbError,
	)
	if err != nil {
		return nil, err
	}

	if duration.Valid {
		rec.Duration = &duration.Float64
	}
	if createdAt.Valid {
		rec.CreatedAt = &createdAt.Int64
	}
	if thumbPath.Valid {
		rec.ThumbRelPath = &thumbPath.String
	}

	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]VideoRecord, error) {
	var records []VideoRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}
