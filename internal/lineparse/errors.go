package lineparse

import "fmt"

// MalformedLineError reports a line that does not have the three
// pipe-separated segments an intake line needs.
type MalformedLineError struct {
	Line     string
	Segments int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("lineparse: malformed line %q: want %d pipe-separated segments, got %d",
		e.Line, segmentCount, e.Segments)
}

// PatternNotFoundError reports a company/url segment that is missing the
// bracketed company name or the parenthesized url.
type PatternNotFoundError struct {
	Line    string
	Segment string
	Field   string
}

func (e *PatternNotFoundError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("lineparse: no %s found in %q", e.Field, e.Segment)
	}
	return fmt.Sprintf("lineparse: no %s found in %q (line %q)", e.Field, e.Segment, e.Line)
}
