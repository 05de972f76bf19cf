package airtable

import (
	"context"

	"github.com/rotisserie/eris"
)

// ListAll fetches every record matching formula from a table, following
// offsets until the last page. Records are returned in API order.
func ListAll(ctx context.Context, c Client, table, formula string) ([]Record, error) {
	var all []Record

	params := ListParams{FilterByFormula: formula}
	for {
		page, err := c.ListRecords(ctx, table, params)
		if err != nil {
			return nil, eris.Wrap(err, "airtable: list all page")
		}

		all = append(all, page.Records...)

		if page.Offset == "" {
			break
		}
		params.Offset = page.Offset
	}

	return all, nil
}
