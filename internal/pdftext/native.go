// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeSource reads the PDF text layer with github.com/ledongthuc/pdf and
// rebuilds lines from positioned glyphs.
type NativeSource struct{}

func (NativeSource) Name() string { return "native" }

// Pages opens path, reads every page's glyphs, and groups them into lines.
func (NativeSource) Pages(path string) ([]Page, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	pages := make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, Page{Number: i})
			continue
		}
		texts, err := pageTexts(p)
		if err != nil {
			return nil, fmt.Errorf("reading page %d of %s: %w", i, path, err)
		}
		pages = append(pages, Page{Number: i, Lines: groupLines(texts)})
	}
	return pages, nil
}

// pageTexts returns the page's glyph runs. The content decoder panics on
// some malformed streams; that is reported as an error.
func pageTexts(p pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoding content stream: %v", r)
		}
	}()
	return p.Content().Text, nil
}

const (
	// baselineTolerance is how far apart two baselines may be, in points,
	// and still belong to one line.
	baselineTolerance = 2.0
	// wordGapRatio is the horizontal gap, as a fraction of font size, that
	// separates two words.
	wordGapRatio = 0.2
)

type textLine struct {
	y     float64
	texts []pdf.Text
}

// groupLines clusters glyph runs by baseline, orders lines top to bottom
// and runs left to right, and joins runs with a space where they are
// visibly separated.
func groupLines(texts []pdf.Text) []string {
	var rows []*textLine
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		var row *textLine
		for _, r := range rows {
			if math.Abs(r.y-t.Y) < baselineTolerance {
				row = r
				break
			}
		}
		if row == nil {
			row = &textLine{y: t.Y}
			rows = append(rows, row)
		}
		row.texts = append(row.texts, t)
	}

	// PDF user space grows upward, so the top line has the largest y.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		if l := strings.TrimSpace(joinRuns(r.texts)); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func joinRuns(texts []pdf.Text) string {
	sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

	var b strings.Builder
	for i, t := range texts {
		if i > 0 && separated(texts[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
	}
	return b.String()
}

// separated reports whether a word break falls between prev and next.
// Runs without width information are words unless both are single glyphs.
func separated(prev, next pdf.Text) bool {
	size := prev.FontSize
	if size <= 0 {
		size = 10
	}
	if prev.W <= 0 {
		if len([]rune(prev.S)) == 1 && len([]rune(next.S)) == 1 {
			return next.X-prev.X > size
		}
		return true
	}
	return next.X-(prev.X+prev.W) > size*wordGapRatio
}
