package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"roadboard/roadmap"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteStore struct {
	db *sql.DB
}

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one archived load of the canonical table.
type Snapshot struct {
	ID          int64
	Source      string
	Headers     []string
	RecordCount int
	CreatedAt   time.Time
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// OpenSQLiteReadOnly opens an existing database without running migrations.
// Writes through the returned store fail.
func OpenSQLiteReadOnly(path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", path, err)
	}

	dsn := (&url.URL{Scheme: "file", Opaque: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores every record of table in one transaction.
func (s *SQLiteStore) SaveSnapshot(source string, table *roadmap.Table) (Snapshot, error) {
	headersJSON, err := json.Marshal(table.Headers)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode headers: %w", err)
	}
	createdAt := time.Now().UTC().Truncate(time.Second)

	tx, err := s.db.Begin()
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin transaction: %w", err)
	}

	res, err := tx.Exec(
		`INSERT INTO snapshots (source, headers, record_count, created_at) VALUES (?, ?, ?, ?);`,
		source,
		string(headersJSON),
		table.Len(),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		_ = tx.Rollback()
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return Snapshot{}, fmt.Errorf("read snapshot id: %w", err)
	}

	const insertStmt = `
INSERT INTO snapshot_records (
	snapshot_id,
	row_number,
	department,
	person,
	subject,
	comment,
	status,
	time,
	start_date,
	end_date,
	group_raw,
	extra
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return Snapshot{}, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for i, record := range table.Records {
		extraJSON, err := json.Marshal(record.Extra)
		if err != nil {
			_ = tx.Rollback()
			return Snapshot{}, fmt.Errorf("encode extra columns for row %d: %w", record.RowNumber, err)
		}
		rowNumber := record.RowNumber
		if rowNumber <= 0 {
			rowNumber = i + 2
		}
		if _, err := stmt.Exec(
			id,
			rowNumber,
			record.Department,
			record.Person,
			record.Subject,
			record.Comment,
			record.Status,
			record.Time,
			formatDate(record.StartDate),
			formatDate(record.EndDate),
			record.Group,
			string(extraJSON),
		); err != nil {
			_ = tx.Rollback()
			return Snapshot{}, fmt.Errorf("insert snapshot record %d: %w", rowNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit transaction: %w", err)
	}

	return Snapshot{
		ID:          id,
		Source:      source,
		Headers:     append([]string(nil), table.Headers...),
		RecordCount: table.Len(),
		CreatedAt:   createdAt,
	}, nil
}

// ListSnapshots returns every snapshot, newest first.
func (s *SQLiteStore) ListSnapshots() ([]Snapshot, error) {
	rows, err := s.db.Query(`SELECT id, source, headers, record_count, created_at FROM snapshots ORDER BY id DESC;`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]Snapshot, 0, 16)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// LatestSnapshot returns the most recent snapshot. The second return value is
// false when the store is empty.
func (s *SQLiteStore) LatestSnapshot() (Snapshot, bool, error) {
	row := s.db.QueryRow(`SELECT id, source, headers, record_count, created_at FROM snapshots ORDER BY id DESC LIMIT 1;`)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	return snapshot, true, nil
}

func (s *SQLiteStore) GetSnapshot(id int64) (Snapshot, error) {
	if id <= 0 {
		return Snapshot{}, fmt.Errorf("snapshot id must be > 0")
	}
	row := s.db.QueryRow(`SELECT id, source, headers, record_count, created_at FROM snapshots WHERE id = ?;`, id)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, err
	}
	return snapshot, nil
}

// SnapshotRecords returns the stored records of one snapshot in row order.
func (s *SQLiteStore) SnapshotRecords(id int64) ([]roadmap.Record, error) {
	const query = `
SELECT
	row_number,
	department,
	person,
	subject,
	comment,
	status,
	time,
	start_date,
	end_date,
	group_raw,
	extra
FROM snapshot_records
WHERE snapshot_id = ?
ORDER BY row_number;
`

	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("query snapshot records: %w", err)
	}
	defer rows.Close()

	records := make([]roadmap.Record, 0, 256)
	for rows.Next() {
		var (
			record   roadmap.Record
			startRaw sql.NullString
			endRaw   sql.NullString
			extraRaw string
		)
		if err := rows.Scan(
			&record.RowNumber,
			&record.Department,
			&record.Person,
			&record.Subject,
			&record.Comment,
			&record.Status,
			&record.Time,
			&startRaw,
			&endRaw,
			&record.Group,
			&extraRaw,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot record: %w", err)
		}

		if record.StartDate, err = parseDate(startRaw); err != nil {
			return nil, err
		}
		if record.EndDate, err = parseDate(endRaw); err != nil {
			return nil, err
		}
		if extraRaw != "" && extraRaw != "null" {
			if err := json.Unmarshal([]byte(extraRaw), &record.Extra); err != nil {
				return nil, fmt.Errorf("decode extra columns for row %d: %w", record.RowNumber, err)
			}
		}

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot records: %w", err)
	}
	return records, nil
}

// DeleteSnapshot removes a snapshot and its records.
func (s *SQLiteStore) DeleteSnapshot(id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("snapshot id must be > 0")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM snapshot_records WHERE snapshot_id = ?;`, id); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete snapshot records %d: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM snapshots WHERE id = ?;`, id)
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete snapshot %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete transaction: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted row count: %w", err)
	}
	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var (
		snapshot     Snapshot
		headersRaw   string
		createdAtRaw string
	)
	if err := row.Scan(&snapshot.ID, &snapshot.Source, &headersRaw, &snapshot.RecordCount, &createdAtRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(headersRaw), &snapshot.Headers); err != nil {
		return Snapshot{}, fmt.Errorf("decode headers of snapshot %d: %w", snapshot.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, createdAtRaw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse created_at %q: %w", createdAtRaw, err)
	}
	snapshot.CreatedAt = createdAt
	return snapshot, nil
}

func formatDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.Format(dateLayout)
}

func parseDate(raw sql.NullString) (*time.Time, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw.String)
	if err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", raw.String, err)
	}
	return &parsed, nil
}
