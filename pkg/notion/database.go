package notion

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches all pages from a Notion database matching filter (nil for
// every page), following cursors until the last page. Pages are returned in
// API order.
func QueryAll(ctx context.Context, c Client, dbID string, filter notionapi.Filter) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{Filter: filter}
	for {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}

		all = append(all, resp.Results...)

		if !resp.HasMore {
			break
		}
		req = &notionapi.DatabaseQueryRequest{
			Filter:      filter,
			StartCursor: resp.NextCursor,
		}
	}

	return all, nil
}

// ParseFilter decodes a JSON-encoded Notion property filter, e.g.
// {"property":"Company","rich_text":{"equals":"Acme"}}. An empty expression
// yields a nil filter.
func ParseFilter(expr string) (notionapi.Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	var pf notionapi.PropertyFilter
	if err := json.Unmarshal([]byte(expr), &pf); err != nil {
		return nil, eris.Wrap(err, "notion: decode filter")
	}
	if pf.Property == "" {
		return nil, eris.New("notion: filter has no property")
	}
	return pf, nil
}

// CreateInDatabase creates one page in a database from a field map.
func CreateInDatabase(ctx context.Context, c Client, dbID, titleField string, fields map[string]any) (*notionapi.Page, error) {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: BuildProperties(fields, titleField),
	}
	page, err := c.CreatePage(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "notion: create in database")
	}
	return page, nil
}
