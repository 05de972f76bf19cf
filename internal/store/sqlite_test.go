package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leads-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	b, err := NewSQLite(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() }) //nolint:errcheck
	return b
}

func TestSQLite_CreateThenWhere(t *testing.T) {
	tbl := NewTable(newTestSQLite(t), "raw")
	ctx := context.Background()

	lead := model.Lead{Company: "Acme Inc", URL: "https://acme.example", Location: "Remote", Description: "Widgets for robots"}
	rec, err := tbl.Create(ctx, lead.Fields())
	require.NoError(t, err)
	assert.Regexp(t, `^rec[0-9a-f]{32}$`, rec.ID)
	assert.False(t, rec.CreatedTime.IsZero())

	recs, err := tbl.Where(ctx, "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.ID, recs[0].ID)
	assert.Equal(t, rec.Fields, recs[0].Fields)
	assert.Equal(t, "Widgets for robots", recs[0].Fields.String(model.FieldDescription))
}

func TestSQLite_WhereFieldReference(t *testing.T) {
	tbl := NewTable(newTestSQLite(t), "Raw")
	ctx := context.Background()

	for _, l := range []model.Lead{
		{Company: "Acme", Location: "Remote"},
		{Company: "Globex", Location: "Springfield"},
		{Company: "Initech", Location: "Remote"},
	} {
		_, err := tbl.Create(ctx, l.Fields())
		require.NoError(t, err)
	}

	recs, err := tbl.Where(ctx, "{Location} = 'Remote'")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Acme", recs[0].Fields.String("Company"))
	assert.Equal(t, "Initech", recs[1].Fields.String("Company"))

	recs, err = tbl.Where(ctx, "NOT({Company} = 'Acme') AND {Location} = 'Remote'")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Initech", recs[0].Fields.String("Company"))

	recs, err = tbl.Where(ctx, "{Location} = 'Mars'")
	require.NoError(t, err)
	assert.NotNil(t, recs, "no matches is an empty list, not nil")
	assert.Empty(t, recs)
}

func TestSQLite_CollectionsAreIsolated(t *testing.T) {
	b := newTestSQLite(t)
	ctx := context.Background()

	_, err := NewTable(b, "raw leads").Create(ctx, model.Fields{"Company": "Acme"})
	require.NoError(t, err)
	_, err = NewTable(b, "Contacts").Create(ctx, model.Fields{"Name": "Wile"})
	require.NoError(t, err)

	recs, err := NewTable(b, "Raw Leads").Where(ctx, "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Acme", recs[0].Fields.String("Company"))
}

func TestSQLite_NumbersReadBackAsStored(t *testing.T) {
	tbl := NewTable(newTestSQLite(t), "Raw")
	ctx := context.Background()

	rec, err := tbl.Create(ctx, model.Fields{"Employees": 12})
	require.NoError(t, err)
	assert.Equal(t, float64(12), rec.Fields["Employees"])

	recs, err := tbl.Where(ctx, "{Employees} > 10")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.Fields, recs[0].Fields)
}

func TestSQLite_BadFilter(t *testing.T) {
	tbl := NewTable(newTestSQLite(t), "Raw")

	_, err := tbl.Where(context.Background(), "{Company} = = 'x'")
	require.Error(t, err)
	var qe *RemoteQueryError
	assert.ErrorAs(t, err, &qe)
}

func TestSQLite_ConcurrentCreates(t *testing.T) {
	tbl := NewTable(newTestSQLite(t), "Raw")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tbl.Create(ctx, model.Fields{"Company": "Acme"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	recs, err := tbl.Where(ctx, "")
	require.NoError(t, err)
	assert.Len(t, recs, 10)
}

func TestSQLite_CancelledContext(t *testing.T) {
	tbl := NewTable(newTestSQLite(t), "Raw")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tbl.Create(ctx, model.Fields{"Company": "Acme"})
	var we *RemoteWriteError
	assert.ErrorAs(t, err, &we)
}
