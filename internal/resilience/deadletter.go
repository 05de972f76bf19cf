package resilience

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// DeadLetter is one input line that did not become a record.
type DeadLetter struct {
	LineNo    int       `json:"line_no"`
	Line      string    `json:"line"`
	Error     string    `json:"error"`
	ErrorType string    `json:"error_type"` // "rejected", "transient" or "permanent"
	Table     string    `json:"table"`
	FailedAt  time.Time `json:"failed_at"`
}

// DeadLetterWriter appends dead letters to w as JSON lines. It is safe for
// concurrent use.
type DeadLetterWriter struct {
	mu    sync.Mutex
	enc   *json.Encoder
	count int
}

// NewDeadLetterWriter returns a writer encoding to w.
func NewDeadLetterWriter(w io.Writer) *DeadLetterWriter {
	return &DeadLetterWriter{enc: json.NewEncoder(w)}
}

// Write records one entry, stamping FailedAt when unset.
func (d *DeadLetterWriter) Write(e DeadLetter) error {
	if e.FailedAt.IsZero() {
		e.FailedAt = time.Now().UTC()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enc.Encode(e); err != nil {
		return eris.Wrap(err, "resilience: write dead letter")
	}
	d.count++
	return nil
}

// Count returns the number of entries written.
func (d *DeadLetterWriter) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}
