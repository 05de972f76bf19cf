package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteFieldRefs(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		lookup func(string) string
		want   string
	}{
		{
			name:   "sqlite single ref",
			filter: "{Company} = 'Acme'",
			lookup: sqliteField,
			want:   `json_extract(fields, '$."Company"') = 'Acme'`,
		},
		{
			name:   "postgres single ref",
			filter: "{Company} = 'Acme'",
			lookup: postgresField,
			want:   `(fields->>'Company') = 'Acme'`,
		},
		{
			name:   "field name with spaces is trimmed",
			filter: "NOT({ Job Title } = '')",
			lookup: postgresField,
			want:   `NOT((fields->>'Job Title') = '')`,
		},
		{
			name:   "multiple refs",
			filter: "{A} = 'x' AND {B} <> 'y'",
			lookup: postgresField,
			want:   `(fields->>'A') = 'x' AND (fields->>'B') <> 'y'`,
		},
		{
			name:   "quotes in field names are escaped",
			filter: "{O'Brien} = 'x'",
			lookup: postgresField,
			want:   `(fields->>'O''Brien') = 'x'`,
		},
		{
			name:   "double quotes dropped from json path",
			filter: `{Say "hi"} = 'x'`,
			lookup: sqliteField,
			want:   `json_extract(fields, '$."Say hi"') = 'x'`,
		},
		{
			name:   "no refs",
			filter: "1 = 1",
			lookup: sqliteField,
			want:   "1 = 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteFieldRefs(tt.filter, tt.lookup))
		})
	}
}
