package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/treetable/pkg/model"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
	id        INTEGER NOT NULL,
	parent_id INTEGER,
	is_active INTEGER NOT NULL DEFAULT 0,
	balance   TEXT,
	name      TEXT,
	email     TEXT
)`

// SQLiteReader provides read access to a records database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRecords reads all records in insertion order
func (r *SQLiteReader) LoadRecords(ctx context.Context) ([]model.Record, error) {
	return r.LoadRecordsFiltered(ctx, nil)
}

// LoadRecordsFiltered reads records matching the filter function. Rows that
// fail to scan or validate are skipped.
func (r *SQLiteReader) LoadRecordsFiltered(ctx context.Context, filter func(*model.Record) bool) ([]model.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, parent_id, is_active, balance, name, email
		FROM records
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		var parentID sql.NullInt64
		var balance, name, email sql.NullString
		if err := rows.Scan(&rec.ID, &parentID, &rec.IsActive, &balance, &name, &email); err != nil {
			continue
		}

		// Map nullable fields
		if parentID.Valid {
			rec.ParentID = int(parentID.Int64)
		}
		rec.Balance = balance.String
		rec.Name = name.String
		rec.Email = email.String

		if rec.Validate() != nil {
			continue
		}
		if filter != nil && !filter(&rec) {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

// CountRecords returns the number of rows in the records table
func (r *SQLiteReader) CountRecords(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// WriteSQLite creates or replaces the records table at path with records.
func WriteSQLite(ctx context.Context, path string, records []model.Record) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", path))
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, recordsSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO records (id, parent_id, is_active, balance, name, email) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var parent any
		if rec.ParentID != 0 {
			parent = rec.ParentID
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, parent, rec.IsActive, rec.Balance, rec.Name, rec.Email); err != nil {
			return fmt.Errorf("inserting record %d: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
