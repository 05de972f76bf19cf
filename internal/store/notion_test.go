package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leads-cli/internal/model"
)

// mockNotion implements notion.Client for testing.
type mockNotion struct {
	mock.Mock
}

func (m *mockNotion) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func (m *mockNotion) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func leadPage(id, company string) notionapi.Page {
	return notionapi.Page{
		ID:          notionapi.ObjectID(id),
		CreatedTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Properties: notionapi.Properties{
			"Company": &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: company}}},
			"URL":     &notionapi.URLProperty{URL: "https://" + company + ".example"},
		},
	}
}

func TestNotionBackend_Create(t *testing.T) {
	mn := new(mockNotion)
	ctx := context.Background()
	page := leadPage("page-1", "acme")

	mn.On("CreatePage", ctx, mock.MatchedBy(func(req *notionapi.PageCreateRequest) bool {
		_, isTitle := req.Properties["Company"].(notionapi.TitleProperty)
		return req.Parent.DatabaseID == notionapi.DatabaseID("db-raw-leads") && isTitle
	})).Return(&page, nil).Once()

	// viper hands map keys over lower-cased.
	b := NewNotionBackend(mn, map[string]string{"raw leads": "db-raw-leads"}, model.FieldCompany)
	rec, err := NewTable(b, "Raw Leads").Create(ctx, model.Fields{"Company": "acme", "URL": "https://acme.example"})
	require.NoError(t, err)
	assert.Equal(t, "page-1", rec.ID)
	assert.Equal(t, "acme", rec.Fields.String("Company"))
	assert.Equal(t, "https://acme.example", rec.Fields.String("URL"))
	mn.AssertExpectations(t)
}

func TestNotionBackend_Where(t *testing.T) {
	mn := new(mockNotion)
	ctx := context.Background()

	mn.On("QueryDatabase", ctx, "db-raw", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		pf, ok := req.Filter.(notionapi.PropertyFilter)
		return ok && pf.Property == "Company" && pf.RichText != nil && pf.RichText.Equals == "acme"
	})).Return(&notionapi.DatabaseQueryResponse{
		Results: []notionapi.Page{leadPage("page-1", "acme")},
	}, nil).Once()

	b := NewNotionBackend(mn, map[string]string{"Raw": "db-raw"}, model.FieldCompany)
	recs, err := NewTable(b, "raw").Where(ctx, `{"property":"Company","rich_text":{"equals":"acme"}}`)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "page-1", recs[0].ID)
	assert.Equal(t, "acme", recs[0].Fields.String("Company"))
	mn.AssertExpectations(t)
}

func TestNotionBackend_UnknownCollection(t *testing.T) {
	mn := new(mockNotion)
	b := NewNotionBackend(mn, map[string]string{"Raw": "db-raw"}, model.FieldCompany)

	_, err := NewTable(b, "Contacts").Create(context.Background(), model.Fields{})
	var we *RemoteWriteError
	require.True(t, errors.As(err, &we))
	assert.Contains(t, err.Error(), `no database configured for collection "Contacts"`)

	_, err = NewTable(b, "Contacts").Where(context.Background(), "")
	var qe *RemoteQueryError
	require.True(t, errors.As(err, &qe))
	mn.AssertNotCalled(t, "CreatePage", mock.Anything, mock.Anything)
}

func TestNotionBackend_BadFilter(t *testing.T) {
	mn := new(mockNotion)
	b := NewNotionBackend(mn, map[string]string{"Raw": "db-raw"}, model.FieldCompany)

	_, err := NewTable(b, "Raw").Where(context.Background(), "{Company} = 'Acme'")
	var qe *RemoteQueryError
	require.True(t, errors.As(err, &qe))
	assert.Contains(t, err.Error(), "notion: decode filter")
	mn.AssertNotCalled(t, "QueryDatabase", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotionBackend_ServiceError(t *testing.T) {
	mn := new(mockNotion)
	ctx := context.Background()

	mn.On("CreatePage", ctx, mock.Anything).Return(nil, assert.AnError).Once()

	b := NewNotionBackend(mn, map[string]string{"Raw": "db-raw"}, model.FieldCompany)
	_, err := NewTable(b, "Raw").Create(ctx, model.Fields{"Company": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
