package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leads-cli/internal/model"
)

// SQLiteBackend implements Backend on a local SQLite file, for development
// and offline use. Filters are SQL boolean expressions in which {Field}
// references read from the record's fields.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path, configures WAL mode
// and creates the records table if needed.
func NewSQLite(ctx context.Context, dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Pragmas apply per connection, and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	s := &SQLiteBackend{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	collection TEXT NOT NULL,
	fields     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
`

// Migrate creates the records table.
func (s *SQLiteBackend) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

func (s *SQLiteBackend) Create(ctx context.Context, collection string, fields model.Fields) (*model.Record, error) {
	stored, fieldsJSON, err := normalizeFields(fields)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal fields")
	}

	rec := &model.Record{
		ID:          newRecordID(),
		CreatedTime: time.Now().UTC(),
		Fields:      stored,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, collection, fields, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, collection, string(fieldsJSON), rec.CreatedTime,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert record into %s", collection)
	}
	return rec, nil
}

func (s *SQLiteBackend) Query(ctx context.Context, collection, filter string) ([]model.Record, error) {
	q := `SELECT id, fields, created_at FROM records WHERE collection = ?`
	if strings.TrimSpace(filter) != "" {
		q += ` AND (` + rewriteFieldRefs(filter, sqliteField) + `)`
	}
	q += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, q, collection)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query %s", collection)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]model.Record, 0)
	for rows.Next() {
		var rec model.Record
		var fieldsJSON string
		if err := rows.Scan(&rec.ID, &fieldsJSON, &rec.CreatedTime); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal fields")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate records")
}

// newRecordID returns an id in the "rec" prefixed style hosted services use.
func newRecordID() string {
	return "rec" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// normalizeFields returns fields as they read back from JSON storage, along
// with their encoding.
func normalizeFields(fields model.Fields) (model.Fields, []byte, error) {
	if fields == nil {
		fields = model.Fields{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, err
	}
	var stored model.Fields
	if err := json.Unmarshal(b, &stored); err != nil {
		return nil, nil, err
	}
	return stored, b, nil
}
