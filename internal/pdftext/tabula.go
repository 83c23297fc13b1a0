// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/reader"
)

// TabulaSource reads the PDF with github.com/tsawler/tabula, using its line
// detector to assemble each page's text lines.
type TabulaSource struct{}

func (TabulaSource) Name() string { return "tabula" }

// Pages opens path once and extracts detected lines page by page.
func (TabulaSource) Pages(path string) ([]Page, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer r.Close()

	n, err := r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("counting pages of %s: %w", path, err)
	}

	pages := make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		detected, err := tabula.FromReader(r).Pages(i).Lines()
		if err != nil {
			return nil, fmt.Errorf("reading page %d of %s: %w", i, path, err)
		}
		page := Page{Number: i}
		for _, l := range detected {
			page.Lines = append(page.Lines, splitLines(l.Text)...)
		}
		pages = append(pages, page)
	}
	return pages, nil
}
