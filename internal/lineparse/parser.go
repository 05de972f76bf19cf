// Package lineparse extracts company leads from pipe-delimited intake lines
// of the form "[Company](https://url) | Location | Description".
package lineparse

import (
	"regexp"
	"strings"

	"github.com/sells-group/leads-cli/internal/model"
)

const segmentCount = 3

// Field names reported by PatternNotFoundError.
const (
	FieldCompany = "company"
	FieldURL     = "url"
)

// First match wins. There is no escaping, so a literal "]" or ")" inside the
// intended content ends the match early.
var (
	companyPattern = regexp.MustCompile(`\[(.*?)\]`)
	urlPattern     = regexp.MustCompile(`\((.*?)\)`)
)

// Split breaks a line into its company/url, location and description
// segments. Segments past the third are ignored.
func Split(line string) ([segmentCount]string, error) {
	var out [segmentCount]string
	parts := strings.Split(line, "|")
	if len(parts) < segmentCount {
		return out, &MalformedLineError{Line: line, Segments: len(parts)}
	}
	for i := range out {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out, nil
}

// ExtractCompanyName returns the text inside the first [...] span.
func ExtractCompanyName(segment string) (string, error) {
	return firstGroup(companyPattern, segment, FieldCompany)
}

// ExtractURL returns the text inside the first (...) span.
func ExtractURL(segment string) (string, error) {
	return firstGroup(urlPattern, segment, FieldURL)
}

func firstGroup(re *regexp.Regexp, segment, field string) (string, error) {
	m := re.FindStringSubmatch(segment)
	if m == nil {
		return "", &PatternNotFoundError{Segment: segment, Field: field}
	}
	return m[1], nil
}

// Parse converts one intake line into a Lead. Errors carry the raw line so
// the caller can report it for manual correction.
func Parse(line string) (model.Lead, error) {
	segs, err := Split(line)
	if err != nil {
		return model.Lead{}, err
	}

	company, err := ExtractCompanyName(segs[0])
	if err != nil {
		return model.Lead{}, withLine(err, line)
	}
	url, err := ExtractURL(segs[0])
	if err != nil {
		return model.Lead{}, withLine(err, line)
	}

	return model.Lead{
		Company:     company,
		URL:         url,
		Location:    segs[1],
		Description: segs[2],
	}, nil
}

func withLine(err error, line string) error {
	if pe, ok := err.(*PatternNotFoundError); ok {
		pe.Line = line
	}
	return err
}
