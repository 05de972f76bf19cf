package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leads-cli/internal/model"
)

// Pool is the subset of *pgxpool.Pool used by PostgresBackend, so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresBackend implements Backend on a Postgres database. Fields are kept
// in a JSONB column; filters are SQL boolean expressions in which {Field}
// references read a field as text.
type PostgresBackend struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// NewPostgres creates a PostgresBackend with a connection pool and creates
// the records table if needed.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresBackend, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	b := &PostgresBackend{pool: pool}
	if err := b.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return b, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS records (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	collection TEXT NOT NULL,
	fields     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
`

// Migrate creates the records table.
func (b *PostgresBackend) Migrate(ctx context.Context) error {
	_, err := b.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}

func (b *PostgresBackend) Create(ctx context.Context, collection string, fields model.Fields) (*model.Record, error) {
	stored, fieldsJSON, err := normalizeFields(fields)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal fields")
	}

	rec := &model.Record{
		ID:          newRecordID(),
		CreatedTime: time.Now().UTC(),
		Fields:      stored,
	}
	_, err = b.pool.Exec(ctx,
		`INSERT INTO records (id, collection, fields, created_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, collection, fieldsJSON, rec.CreatedTime,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert record into %s", collection)
	}
	return rec, nil
}

func (b *PostgresBackend) Query(ctx context.Context, collection, filter string) ([]model.Record, error) {
	q := `SELECT id, fields, created_at FROM records WHERE collection = $1`
	if strings.TrimSpace(filter) != "" {
		q += ` AND (` + rewriteFieldRefs(filter, postgresField) + `)`
	}
	q += ` ORDER BY seq`

	rows, err := b.pool.Query(ctx, q, collection)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query %s", collection)
	}
	defer rows.Close()

	out := make([]model.Record, 0)
	for rows.Next() {
		var rec model.Record
		var fieldsJSON []byte
		if err := rows.Scan(&rec.ID, &fieldsJSON, &rec.CreatedTime); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		if err := json.Unmarshal(fieldsJSON, &rec.Fields); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal fields")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate records")
}
