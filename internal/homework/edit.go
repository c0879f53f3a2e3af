// File: edit.go
// Title: Homework Field Editor
// Description: Inserts the homework instruction of each session right after
//              its resources list, replacing earlier insertions. Works in two
//              phases: locate byte ranges read-only, then splice them in one
//              pass. Bytes outside the touched ranges are preserved.
// Author: msto63
// Version: v0.2.0
// Created: 2026-02-20
// Modified: 2026-03-08
//
// Change History:
// - 2026-02-20 v0.1.0: Initial editor
// - 2026-03-08 v0.2.0: Atomic file writes, dry run

package homework

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/msto63/sessionkit/internal/extract"
	"github.com/msto63/sessionkit/internal/literal"
	"github.com/msto63/sessionkit/internal/scan"
	"github.com/msto63/sessionkit/internal/session"
	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/logging"
)

// DefaultField is the name of the inserted field
const DefaultField = session.FieldHomework

// Options configures an edit
type Options struct {
	Anchor string
	Field  string
	Logger *logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Anchor == "" {
		o.Anchor = session.DefaultAnchor
	}
	if o.Field == "" {
		o.Field = DefaultField
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}

// Report lists session numbers by what happened to them
type Report struct {
	Inserted []int // instruction written
	Removed  []int // earlier field removed
	Skipped  []int // instruction present but the record has no resources list
	Missing  []int // in the table but no record found
}

// splice replaces buf[start:end] with text
type splice struct {
	start, end int
	text       string
}

// Edit returns buf with every record whose sessionNumber is in table
// rewritten: existing fields named opts.Field are removed, and for Text
// instructions a new field is inserted after the resources list. Records
// with a None instruction only lose their field. Running Edit on its own
// output returns the same bytes.
func Edit(buf []byte, table *Table, opts Options) ([]byte, Report, error) {
	opts = opts.withDefaults()
	logger := opts.Logger.WithField("field", opts.Field)

	var report Report

	open, err := scan.FindContainer(buf, opts.Anchor)
	if err != nil {
		return nil, report, errors.Wrap(err, errors.CodeAnchorNotFound, "locate sessions container").
			WithOp("homework.Edit")
	}

	// phase 1: locate
	var splices []splice
	seen := make(map[int]bool)
	inserted := make(map[int]bool)
	removed := make(map[int]bool)
	skipped := make(map[int]bool)

	for span := range scan.Records(buf, open).All() {
		obj, err := literal.Parse(buf, span)
		if err != nil {
			logger.Warn("record not editable", logging.Fields{"offset": span.Start, "err": err})
			continue
		}
		num, ok := extract.Int(obj, session.FieldNumber)
		if !ok {
			continue
		}
		instr, ok := table.Lookup(num)
		if !ok {
			continue
		}
		seen[num] = true

		for _, f := range obj.All(opts.Field) {
			splices = append(splices, splice{start: removalStart(buf, f.KeySpan.Start), end: fieldEnd(f)})
			removed[num] = true
		}

		text, ok := instr.Value()
		if !ok {
			continue
		}
		ins, ok := insertion(buf, obj, opts.Field, text)
		if !ok {
			skipped[num] = true
			logger.Debug("no resources list, skipping", logging.Fields{"session": num})
			continue
		}
		splices = append(splices, ins)
		inserted[num] = true
	}

	for _, n := range table.Numbers() {
		if !seen[n] {
			report.Missing = append(report.Missing, n)
		}
	}
	report.Inserted = sortedKeys(inserted)
	report.Removed = sortedKeys(removed)
	report.Skipped = sortedKeys(skipped)

	// phase 2: splice
	out, err := apply(buf, splices)
	if err != nil {
		return nil, report, errors.Wrap(err, errors.CodeInvalidInput, "apply edits").WithOp("homework.Edit")
	}

	logger.Debug("homework edit planned", logging.Fields{
		"inserted": len(report.Inserted),
		"removed":  len(report.Removed),
		"skipped":  len(report.Skipped),
		"missing":  len(report.Missing),
	})
	return out, report, nil
}

// insertion builds the splice that adds field after the resources list
func insertion(buf []byte, obj *literal.Object, field, text string) (splice, bool) {
	res, ok := obj.Field(session.FieldResources)
	if !ok {
		return splice{}, false
	}
	// the value has to be a bracketed list
	if _, ok := extract.ListBody(buf, scan.Span{Start: res.KeySpan.Start, End: res.Span.End}, session.FieldResources); !ok {
		return splice{}, false
	}

	line := "\n" + indentOf(buf, res.KeySpan.Start) + field + ": '" + Escape(text) + "',"
	if res.Comma >= 0 {
		return splice{start: res.Comma + 1, end: res.Comma + 1, text: line}, true
	}
	return splice{start: res.Span.End, end: res.Span.End, text: "," + line}, true
}

// removalStart extends a field's start over the blanks before it and, when
// the field starts its own line, over the preceding line break
func removalStart(buf []byte, keyStart int) int {
	start := keyStart
	for start > 0 && (buf[start-1] == ' ' || buf[start-1] == '\t') {
		start--
	}
	if start > 0 && buf[start-1] == '\n' {
		start--
		if start > 0 && buf[start-1] == '\r' {
			start--
		}
	}
	return start
}

// fieldEnd is the end of the field including its comma
func fieldEnd(f literal.Field) int {
	if f.Comma >= 0 {
		return f.Comma + 1
	}
	return f.Span.End
}

// indentOf returns the blanks between the previous line break and off, or
// four spaces when off does not start its line
func indentOf(buf []byte, off int) string {
	start := off
	for start > 0 && (buf[start-1] == ' ' || buf[start-1] == '\t') {
		start--
	}
	if start > 0 && buf[start-1] != '\n' {
		return "    "
	}
	return string(buf[start:off])
}

// apply performs the splices in one forward pass. Splices sharing a start
// are merged: removals first, then insertions.
func apply(buf []byte, splices []splice) ([]byte, error) {
	sort.SliceStable(splices, func(i, j int) bool {
		if splices[i].start != splices[j].start {
			return splices[i].start < splices[j].start
		}
		// wider range first so the removal precedes the insertion
		return splices[i].end > splices[j].end
	})

	var out bytes.Buffer
	out.Grow(len(buf))
	pos, last := 0, -1
	for _, s := range splices {
		if s.start < pos {
			// an insertion at the start of a removal replaces it
			if s.start == last && s.start == s.end {
				out.WriteString(s.text)
				continue
			}
			return nil, fmt.Errorf("overlapping edits at offset %d", s.start)
		}
		out.Write(buf[pos:s.start])
		out.WriteString(s.text)
		pos, last = s.end, s.start
	}
	out.Write(buf[pos:])
	return out.Bytes(), nil
}

// Escape encodes s for a single-quoted string literal
func Escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		"\n", `\n`,
		"\r", `\r`,
	)
	return r.Replace(s)
}

func sortedKeys(m map[int]bool) []int {
	if len(m) == 0 {
		return nil
	}
	out := make([]int, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// FileOptions configures EditFile
type FileOptions struct {
	Options
	DryRun bool
}

// EditFile edits the file at path in place. The new content is written to a
// temporary file in the same directory and renamed over the original. With
// DryRun, or when nothing changes, the file is left untouched.
func EditFile(path string, table *Table, opts FileOptions) (Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithField("path", path)

	info, err := os.Stat(path)
	if err != nil {
		return Report{}, errors.Wrap(err, errors.CodeIO, "stat sessions file").WithDetail("path", path)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return Report{}, errors.Wrap(err, errors.CodeIO, "read sessions file").WithDetail("path", path)
	}

	out, report, err := Edit(buf, table, opts.Options)
	if err != nil {
		return report, err
	}

	if bytes.Equal(out, buf) {
		logger.Info("sessions file already up to date")
		return report, nil
	}
	if opts.DryRun {
		logger.Info("dry run, file not written", logging.Fields{"bytes_before": len(buf), "bytes_after": len(out)})
		return report, nil
	}

	if err := writeAtomic(path, out, info.Mode().Perm()); err != nil {
		return report, errors.Wrap(err, errors.CodeIO, "write sessions file").WithDetail("path", path)
	}
	logger.Info("sessions file updated", logging.Fields{
		"inserted": len(report.Inserted),
		"removed":  len(report.Removed),
	})
	return report, nil
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
