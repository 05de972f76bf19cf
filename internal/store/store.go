// Package store gives typed access to a named record collection held by a
// remote database service (Airtable, Notion) or a self-hosted SQL database.
package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leads-cli/internal/model"
)

// Backend is the remote service boundary: one create and one paginated query
// per call. Implementations must be safe for concurrent use.
type Backend interface {
	// Create submits fields as a new record in collection.
	Create(ctx context.Context, collection string, fields model.Fields) (*model.Record, error)
	// Query returns every record in collection matching the backend-specific
	// filter expression, in the order the backend returns them. An empty
	// filter matches all records.
	Query(ctx context.Context, collection, filter string) ([]model.Record, error)
	Close() error
}

// Table is a handle on one named collection. The collection name is
// normalized once at construction and never changes.
type Table struct {
	name    string
	backend Backend
}

// NewTable returns a Table for the collection called name, normalized to
// title case so that "raw leads" and "Raw Leads" share a collection.
func NewTable(b Backend, name string) *Table {
	return &Table{name: CollectionName(name), backend: b}
}

// Name returns the normalized collection name.
func (t *Table) Name() string {
	return t.name
}

// Create submits fields as a new record and returns the id and stored fields
// assigned by the service. No local validation is performed.
func (t *Table) Create(ctx context.Context, fields model.Fields) (*model.Record, error) {
	rec, err := t.backend.Create(ctx, t.name, fields)
	if err != nil {
		return nil, &RemoteWriteError{Collection: t.name, Err: err}
	}
	zap.L().Debug("store: record created",
		zap.String("table", t.name),
		zap.String("id", rec.ID),
	)
	return rec, nil
}

// Where returns all records matching filter, every page concatenated.
func (t *Table) Where(ctx context.Context, filter string) ([]model.Record, error) {
	recs, err := t.backend.Query(ctx, t.name, filter)
	if err != nil {
		return nil, &RemoteQueryError{Collection: t.name, Filter: filter, Err: err}
	}
	zap.L().Debug("store: query complete",
		zap.String("table", t.name),
		zap.String("filter", filter),
		zap.Int("records", len(recs)),
	)
	return recs, nil
}
