// Package intake turns raw lead lines into records in the intake table.
package intake

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leads-cli/internal/lineparse"
	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/internal/resilience"
	"github.com/sells-group/leads-cli/internal/store"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Creator is the part of store.Table the processor writes through.
type Creator interface {
	Name() string
	Create(ctx context.Context, fields model.Fields) (*model.Record, error)
}

var _ Creator = (*store.Table)(nil)

// Processor parses lines and creates one record per line.
type Processor struct {
	table      Creator
	deadLetter *resilience.DeadLetterWriter
}

// Option configures a Processor.
type Option func(*Processor)

// WithDeadLetter records every line that does not become a record.
func WithDeadLetter(w *resilience.DeadLetterWriter) Option {
	return func(p *Processor) {
		p.deadLetter = w
	}
}

// NewProcessor returns a Processor writing to table.
func NewProcessor(table Creator, opts ...Option) *Processor {
	p := &Processor{table: table}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Summary counts the outcome of a batch of lines.
type Summary struct {
	Created  int64
	Rejected int64
	Failed   int64
}

// Total returns the number of lines processed.
func (s Summary) Total() int64 {
	return s.Created + s.Rejected + s.Failed
}

// Rejected reports whether err means the line itself could not be parsed,
// as opposed to the store failing to accept it.
func Rejected(err error) bool {
	var me *lineparse.MalformedLineError
	var pe *lineparse.PatternNotFoundError
	return errors.As(err, &me) || errors.As(err, &pe)
}

// Process parses one line and creates it as a record.
func (p *Processor) Process(ctx context.Context, line string) (*model.Record, error) {
	return p.process(ctx, 1, line)
}

func (p *Processor) process(ctx context.Context, lineNo int, line string) (*model.Record, error) {
	lead, err := lineparse.Parse(line)
	if err != nil {
		zap.L().Warn("intake: line rejected",
			zap.Int("line_no", lineNo),
			zap.String("line", line),
			zap.Error(err),
		)
		p.recordDeadLetter(lineNo, line, errorTypeRejected, err)
		return nil, err
	}

	rec, err := p.table.Create(ctx, lead.Fields())
	if err != nil {
		class := resilience.Classify(err)
		zap.L().Error("intake: create failed",
			zap.Int("line_no", lineNo),
			zap.String("company", lead.Company),
			zap.String("error_type", class),
			zap.Error(err),
		)
		p.recordDeadLetter(lineNo, line, class, err)
		return nil, err
	}

	zap.L().Info("intake: record created",
		zap.String("table", p.table.Name()),
		zap.String("id", rec.ID),
		zap.String("company", lead.Company),
	)
	return rec, nil
}

// errorTypeRejected marks dead letters for lines that failed to parse.
const errorTypeRejected = "rejected"

func (p *Processor) recordDeadLetter(lineNo int, line, errorType string, cause error) {
	if p.deadLetter == nil {
		return
	}
	err := p.deadLetter.Write(resilience.DeadLetter{
		LineNo:    lineNo,
		Line:      line,
		Error:     cause.Error(),
		ErrorType: errorType,
		Table:     p.table.Name(),
	})
	if err != nil {
		zap.L().Error("intake: dead letter lost", zap.Int("line_no", lineNo), zap.Error(err))
	}
}

// ProcessAll reads r line by line and processes every non-blank line that
// does not start with '#', at most concurrency at a time. A bad line never
// stops the batch; only a read error is returned.
func (p *Processor) ProcessAll(ctx context.Context, r io.Reader, concurrency int) (Summary, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var created, rejected, failed atomic.Int64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		n := lineNo
		g.Go(func() error {
			_, err := p.process(gCtx, n, line)
			switch {
			case err == nil:
				created.Add(1)
			case Rejected(err):
				rejected.Add(1)
			default:
				failed.Add(1)
			}
			return nil // one line never aborts the batch
		})
	}
	scanErr := sc.Err()

	_ = g.Wait()

	sum := Summary{
		Created:  created.Load(),
		Rejected: rejected.Load(),
		Failed:   failed.Load(),
	}
	zap.L().Info("intake: batch complete",
		zap.String("table", p.table.Name()),
		zap.Int64("created", sum.Created),
		zap.Int64("rejected", sum.Rejected),
		zap.Int64("failed", sum.Failed),
	)

	if scanErr != nil {
		return sum, eris.Wrap(scanErr, "intake: read lines")
	}
	return sum, nil
}
