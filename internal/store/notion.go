package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/pkg/notion"
)

// NotionBackend stores records as pages of Notion databases. Each collection
// maps to a database id; filters are JSON-encoded Notion property filters.
type NotionBackend struct {
	client     notion.Client
	databases  map[string]string
	titleField string
}

// NewNotionBackend returns a Backend over a Notion client. databases maps
// collection names to database ids and is matched case-insensitively.
// titleField names the field written to each database's title property.
func NewNotionBackend(c notion.Client, databases map[string]string, titleField string) *NotionBackend {
	dbs := make(map[string]string, len(databases))
	for name, id := range databases {
		dbs[strings.ToLower(CollectionName(name))] = id
	}
	return &NotionBackend{client: c, databases: dbs, titleField: titleField}
}

func (b *NotionBackend) databaseID(collection string) (string, error) {
	id, ok := b.databases[strings.ToLower(collection)]
	if !ok {
		return "", eris.Errorf("notion: no database configured for collection %q", collection)
	}
	return id, nil
}

func (b *NotionBackend) Create(ctx context.Context, collection string, fields model.Fields) (*model.Record, error) {
	dbID, err := b.databaseID(collection)
	if err != nil {
		return nil, err
	}
	page, err := notion.CreateInDatabase(ctx, b.client, dbID, b.titleField, fields)
	if err != nil {
		return nil, err
	}
	return &model.Record{
		ID:          string(page.ID),
		CreatedTime: page.CreatedTime,
		Fields:      model.Fields(notion.PageFields(*page)),
	}, nil
}

func (b *NotionBackend) Query(ctx context.Context, collection, filter string) ([]model.Record, error) {
	dbID, err := b.databaseID(collection)
	if err != nil {
		return nil, err
	}
	f, err := notion.ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	pages, err := notion.QueryAll(ctx, b.client, dbID, f)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(pages))
	for _, p := range pages {
		out = append(out, model.Record{
			ID:          string(p.ID),
			CreatedTime: p.CreatedTime,
			Fields:      model.Fields(notion.PageFields(p)),
		})
	}
	return out, nil
}

// Close is a no-op.
func (b *NotionBackend) Close() error {
	return nil
}
