package model

import (
	"fmt"
	"sort"
	"time"
)

// Fields is a field-name to value map as stored by a remote collection.
type Fields map[string]any

// String returns the value of a field formatted as a string, or "" when absent.
func (f Fields) String(name string) string {
	v, ok := f[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Names returns the field names in sorted order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Record is a row as returned by a remote collection.
type Record struct {
	ID          string    `json:"id" yaml:"id"`
	CreatedTime time.Time `json:"created_time" yaml:"created_time"`
	Fields      Fields    `json:"fields" yaml:"fields"`
}
