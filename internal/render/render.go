// File: render.go
// Title: PDF Handout Renderer
// Description: Lays out a one-page handout for a resource file from the
//              metadata of its primary session.
// Author: msto63
// Version: v0.2.0
// Created: 2026-02-17
// Modified: 2026-03-06
//
// Change History:
// - 2026-02-17 v0.1.0: Initial renderer
// - 2026-03-06 v0.2.0: NFC normalization before cp1252 translation

package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/unicode/norm"

	"github.com/msto63/sessionkit/internal/catalog"
	"github.com/msto63/sessionkit/pkg/core/version"
)

// Options controls handout content
type Options struct {
	Author        string
	Tip           string
	MaxObjectives int
	MaxRules      int
	MaxTerms      int

	// Now supplies the "Actualizado" date; defaults to time.Now
	Now func() time.Time
}

// Renderer writes handouts. It is safe for concurrent use.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer
func NewRenderer(opts Options) *Renderer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Renderer{opts: opts}
}

// colors
var (
	ink   = [3]int{17, 24, 39}
	muted = [3]int{55, 65, 81}
	frame = [3]int{209, 213, 219}
	fill  = [3]int{249, 250, 251}
)

// Render writes the handout for entry to w
func (r *Renderer) Render(w io.Writer, e catalog.Entry) error {
	s := e.Primary
	now := r.opts.Now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(16, 15, 16)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(str string) string { return tr(norm.NFC.String(str)) }

	pdf.SetTitle(text(e.Title), false)
	pdf.SetAuthor(text(r.opts.Author), false)
	pdf.SetCreator(version.UserAgent(), false)
	pdf.AddPage()

	setColor := func(c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }
	heading := func(title string) {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12.5)
		setColor(ink)
		pdf.MultiCell(0, 6, text(title), "", "L", false)
		pdf.Ln(1)
	}
	paragraph := func(style string, body string) {
		pdf.SetFont("Helvetica", style, 10.5)
		setColor(ink)
		pdf.MultiCell(0, 5, text(body), "", "L", false)
	}
	bullets := func(items []string) {
		for _, item := range items {
			paragraph("", "• "+item)
		}
	}

	// title and meta line
	pdf.SetFont("Helvetica", "B", 18)
	setColor(ink)
	pdf.MultiCell(0, 8, text(e.Title), "", "L", false)
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "", 9.5)
	setColor(muted)
	pdf.MultiCell(0, 4.5, text(MetaLine(e, now)), "", "L", false)
	pdf.Ln(4)

	if s.Subtitle != nil && *s.Subtitle != "" {
		pdf.SetFont("Helvetica", "B", 10.5)
		setColor(ink)
		pdf.Write(5, text("Subtítulo: "))
		pdf.SetFont("Helvetica", "", 10.5)
		pdf.Write(5, text(*s.Subtitle))
		pdf.Ln(6)
	}

	if len(s.Objectives) > 0 {
		heading("Objetivos")
		bullets(limit(s.Objectives, r.opts.MaxObjectives))
	}

	if g := s.Grammar; g != nil && (g.Title != nil || len(g.Rules) > 0) {
		heading("Gramática (resumen)")
		if g.Title != nil {
			paragraph("B", *g.Title)
		}
		bullets(limit(g.Rules, r.opts.MaxRules))
	}

	if v := s.Vocabulary; v != nil && (v.Title != nil || len(v.Terms) > 0) {
		heading("Vocabulario (selección)")
		if v.Title != nil {
			paragraph("B", *v.Title)
		}
		if terms := limit(v.Terms, r.opts.MaxTerms); len(terms) > 0 {
			paragraph("", strings.Join(terms, ", "))
		}
	}

	if r.opts.Tip != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9.5)
		setColor(muted)
		pdf.SetDrawColor(frame[0], frame[1], frame[2])
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		pdf.SetLineWidth(0.25)
		pdf.SetCellMargin(3)
		pdf.MultiCell(0, 5, text(r.opts.Tip), "1", "L", true)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render %s: %w", e.URL, err)
	}
	return nil
}

// MetaLine builds the line printed under the handout title
func MetaLine(e catalog.Entry, today time.Time) string {
	s := e.Primary
	bits := []string{fmt.Sprintf("Sesión %d: %s", s.Number, s.Title)}
	if s.Date != nil {
		bits = append(bits, "Fecha: "+s.Date.String())
	}
	if s.Block != nil && s.Block.Number > 0 && s.Block.Title != "" {
		bits = append(bits, fmt.Sprintf("Bloque %d: %s", s.Block.Number, s.Block.Title))
	}
	if len(e.UsedIn) > 1 {
		nums := make([]string, len(e.UsedIn))
		for i, n := range e.UsedIn {
			nums[i] = strconv.Itoa(n)
		}
		bits = append(bits, "Usado en sesiones: "+strings.Join(nums, ", "))
	}
	bits = append(bits, "Actualizado: "+today.Format("2006-01-02"))
	return strings.Join(bits, " · ")
}

// limit returns at most n items; n <= 0 means no limit
func limit(items []string, n int) []string {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
