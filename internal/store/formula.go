package store

import (
	"regexp"
	"strings"
)

// fieldRef matches an Airtable-style {Field Name} reference.
var fieldRef = regexp.MustCompile(`\{([^{}]+)\}`)

// rewriteFieldRefs replaces every {Field} reference in a SQL filter with the
// expression returned by lookup. Everything else is passed through verbatim,
// so only formulas that are also valid SQL (=, <>, NOT(...), AND/OR
// operators, LIKE) work on the SQL backends.
func rewriteFieldRefs(filter string, lookup func(field string) string) string {
	return fieldRef.ReplaceAllStringFunc(filter, func(m string) string {
		return lookup(strings.TrimSpace(m[1 : len(m)-1]))
	})
}

func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// sqliteField reads a field from the JSON fields column.
func sqliteField(field string) string {
	path := `$."` + strings.ReplaceAll(field, `"`, ``) + `"`
	return "json_extract(fields, " + sqlQuote(path) + ")"
}

// postgresField reads a field from the JSONB fields column as text.
func postgresField(field string) string {
	return "(fields->>" + sqlQuote(field) + ")"
}
