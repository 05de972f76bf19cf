package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leads-cli/internal/config"
	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/pkg/airtable"
	"github.com/sells-group/leads-cli/pkg/notion"
)

// defaultSQLitePath is used when the sqlite backend has no database_url.
const defaultSQLitePath = "leads.db"

// NewBackend builds the backend selected by cfg.Store.Backend. Missing
// credentials are reported as *config.ConfigurationError before any
// connection is attempted.
func NewBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	if err := cfg.ValidateBackend(); err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case config.BackendAirtable:
		opts := []airtable.Option{airtable.WithRateLimit(cfg.Airtable.RateLimit)}
		if cfg.Airtable.BaseURL != "" {
			opts = append(opts, airtable.WithBaseURL(cfg.Airtable.BaseURL))
		}
		if cfg.Airtable.TimeoutSecs > 0 {
			opts = append(opts, airtable.WithTimeout(time.Duration(cfg.Airtable.TimeoutSecs)*time.Second))
		}
		return NewAirtableBackend(airtable.NewClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID, opts...)), nil

	case config.BackendNotion:
		c := notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit))
		return NewNotionBackend(c, cfg.Notion.Databases, model.FieldCompany), nil

	case config.BackendSQLite:
		dsn := cfg.SQL.DatabaseURL
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		b, err := NewSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return b, nil

	case config.BackendPostgres:
		b, err := NewPostgres(ctx, cfg.SQL.DatabaseURL, &PoolConfig{
			MaxConns: cfg.SQL.MaxConns,
			MinConns: cfg.SQL.MinConns,
		})
		if err != nil {
			return nil, err
		}
		return b, nil

	default:
		// ValidateBackend rejects unknown backends.
		return nil, eris.Errorf("store: unsupported backend %q", cfg.Store.Backend)
	}
}
