package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leads-cli/internal/config"
)

func TestNewBackend_MissingCredentials(t *testing.T) {
	for _, backend := range []string{config.BackendAirtable, config.BackendNotion, config.BackendPostgres, "dynamodb"} {
		t.Run(backend, func(t *testing.T) {
			cfg := &config.Config{Store: config.StoreConfig{Backend: backend}}

			b, err := NewBackend(context.Background(), cfg)
			assert.Nil(t, b)

			var ce *config.ConfigurationError
			require.True(t, errors.As(err, &ce), "got %v", err)
		})
	}
}

func TestNewBackend_Airtable(t *testing.T) {
	cfg := &config.Config{
		Store:    config.StoreConfig{Backend: config.BackendAirtable},
		Airtable: config.AirtableConfig{APIKey: "key", BaseID: "appX", RateLimit: 5, TimeoutSecs: 10},
	}

	b, err := NewBackend(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &AirtableBackend{}, b)
	assert.NoError(t, b.Close())
}

func TestNewBackend_Notion(t *testing.T) {
	cfg := &config.Config{
		Store:  config.StoreConfig{Backend: config.BackendNotion},
		Notion: config.NotionConfig{Token: "secret", Databases: map[string]string{"raw": "db-1"}},
	}

	b, err := NewBackend(context.Background(), cfg)
	require.NoError(t, err)
	nb, ok := b.(*NotionBackend)
	require.True(t, ok)
	assert.Equal(t, "db-1", nb.databases["raw"])
}

func TestNewBackend_SQLite(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendSQLite},
		SQL:   config.SQLConfig{DatabaseURL: filepath.Join(t.TempDir(), "leads.db")},
	}

	b, err := NewBackend(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close() //nolint:errcheck
	assert.IsType(t, &SQLiteBackend{}, b)
}

func TestNewBackend_PostgresBadURL(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendPostgres},
		SQL:   config.SQLConfig{DatabaseURL: "postgres://%zz"},
	}

	b, err := NewBackend(context.Background(), cfg)
	assert.Nil(t, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: parse config")
}
