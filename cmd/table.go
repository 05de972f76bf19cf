package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leads-cli/internal/store"
)

// openTable builds the configured backend and returns a handle on the named
// collection, falling back to the intake table. The caller must call close.
func openTable(ctx context.Context, name string) (tbl *store.Table, closeFn func(), err error) {
	if name == "" {
		name = cfg.Intake.Table
	}
	if name == "" {
		return nil, nil, eris.New("table name is required (--table or LEADS_INTAKE_TABLE)")
	}

	b, err := store.NewBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store.NewTable(b, name), func() { _ = b.Close() }, nil
}
