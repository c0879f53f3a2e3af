package session

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/msto63/sessionkit/internal/literal"
	"github.com/msto63/sessionkit/internal/scan"
	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/logging"
)

// DefaultAnchor is the name the sessions container is assigned to
const DefaultAnchor = "sessionsData"

// Options configures an extraction pass
type Options struct {
	// Anchor names the variable holding the container literal
	Anchor string

	// Workers > 1 assembles records on a bounded worker pool. Output order
	// does not depend on it.
	Workers int

	Logger *logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Anchor == "" {
		o.Anchor = DefaultAnchor
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}

// Result is the outcome of one extraction pass
type Result struct {
	Sessions []Session
	Warnings []Warning

	// Records is the number of top-level records found, Dropped the number
	// that did not produce a session
	Records int
	Dropped int

	// Container is the span of the container literal, delimiters included.
	// End is the buffer length when the container never closes.
	Container scan.Span
}

// Session returns the first session with the given number
func (r *Result) Session(number int) (Session, bool) {
	for _, s := range r.Sessions {
		if s.Number == number {
			return s, true
		}
	}
	return Session{}, false
}

// Numbers returns the session numbers in record order
func (r *Result) Numbers() []int {
	out := make([]int, len(r.Sessions))
	for i, s := range r.Sessions {
		out[i] = s.Number
	}
	return out
}

type outcome struct {
	session  Session
	ok       bool
	warnings []Warning
}

// Extract locates the container assigned to opts.Anchor in buf, splits it
// into records and assembles a Session from each. Only a missing anchor is
// an error; broken or incomplete records are skipped and counted.
func Extract(buf []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	logger := opts.Logger.WithField("anchor", opts.Anchor)

	open, err := scan.FindContainer(buf, opts.Anchor)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAnchorNotFound, "locate sessions container").
			WithOp("session.Extract")
	}

	it := scan.Records(buf, open)
	spans := it.Collect()
	logger.Debug("records split", logging.Fields{"count": len(spans), "offset": open})

	outcomes := make([]outcome, len(spans))
	if opts.Workers > 1 && len(spans) > 1 {
		if err := assembleParallel(buf, spans, opts.Workers, outcomes); err != nil {
			return nil, err
		}
	} else {
		for i, span := range spans {
			outcomes[i] = assembleRecord(buf, span)
		}
	}

	res := &Result{
		Sessions:  make([]Session, 0, len(spans)),
		Records:   len(spans),
		Container: scan.Span{Start: open, End: len(buf)},
	}
	if it.Closed() {
		res.Container.End = it.End()
	}

	for i, out := range outcomes {
		if out.ok {
			res.Sessions = append(res.Sessions, out.session)
		} else {
			res.Dropped++
		}
		for _, w := range out.warnings {
			w.Record = i
			w.Span = spans[i]
			w.Line = lineOf(buf, spans[i].Start)
			res.Warnings = append(res.Warnings, w)
			logger.Warn("record skipped", logging.Fields{"record": i, "line": w.Line, "reason": w.Message})
		}
	}

	if err := it.Err(); err != nil {
		w := Warning{
			Record:  len(spans),
			Line:    lineOf(buf, it.Offset()),
			Message: fmt.Sprintf("container not closed: %v", err),
			Err:     err,
		}
		res.Warnings = append(res.Warnings, w)
		logger.Warn("container not closed", logging.Fields{"err": err})
	}

	logger.Debug("records assembled", logging.Fields{
		"sessions": len(res.Sessions),
		"dropped":  res.Dropped,
		"warnings": len(res.Warnings),
	})
	return res, nil
}

func assembleRecord(buf []byte, span scan.Span) outcome {
	obj, err := literal.Parse(buf, span)
	if err != nil {
		return outcome{warnings: []Warning{{Message: "malformed record: " + err.Error(), Err: err}}}
	}
	s, warnings, ok := Assemble(obj)
	return outcome{session: s, ok: ok, warnings: warnings}
}

// assembleParallel fills out[i] for every span on a pool of workers. Each
// task only reads buf and writes its own slot.
func assembleParallel(buf []byte, spans []scan.Span, workers int, out []outcome) error {
	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(workers, func(arg any) {
		defer wg.Done()
		i := arg.(int)
		out[i] = assembleRecord(buf, spans[i])
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "create assembly pool")
	}
	defer pool.Release()

	for i := range spans {
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			wg.Wait()
			return errors.Wrap(err, errors.CodeUnknown, "submit record")
		}
	}
	wg.Wait()
	return nil
}

func lineOf(buf []byte, off int) int {
	if off > len(buf) {
		off = len(buf)
	}
	return bytes.Count(buf[:off], []byte{'\n'}) + 1
}
