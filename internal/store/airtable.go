package store

import (
	"context"

	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/pkg/airtable"
)

// AirtableBackend stores records in the tables of one Airtable base. Filters
// are Airtable formulas, e.g. NOT({Company} = '').
type AirtableBackend struct {
	client airtable.Client
}

// NewAirtableBackend returns a Backend over an Airtable client.
func NewAirtableBackend(c airtable.Client) *AirtableBackend {
	return &AirtableBackend{client: c}
}

func (b *AirtableBackend) Create(ctx context.Context, collection string, fields model.Fields) (*model.Record, error) {
	rec, err := b.client.CreateRecord(ctx, collection, fields)
	if err != nil {
		return nil, err
	}
	r := fromAirtable(*rec)
	return &r, nil
}

func (b *AirtableBackend) Query(ctx context.Context, collection, filter string) ([]model.Record, error) {
	recs, err := airtable.ListAll(ctx, b.client, collection, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromAirtable(rec))
	}
	return out, nil
}

// Close is a no-op; the HTTP client holds no resources that need release.
func (b *AirtableBackend) Close() error {
	return nil
}

func fromAirtable(rec airtable.Record) model.Record {
	fields := model.Fields(rec.Fields)
	if fields == nil {
		fields = model.Fields{}
	}
	return model.Record{
		ID:          rec.ID,
		CreatedTime: rec.CreatedTime,
		Fields:      fields,
	}
}
