// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext turns a PDF into per-page lines of text with pluggable
// backends: the in-process ledongthuc/pdf and tsawler/tabula readers, and
// poppler's pdftotext run through a container runtime.
package pdftext

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/lineups/internal/container"
	"github.com/pdiddy/lineups/pkg/types"
)

// Page is the text of one PDF page, top to bottom.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Lines holds the page's non-empty lines with surrounding space trimmed.
	Lines []string
}

// Source reads the text lines of every page in a PDF. The file is opened
// and closed within the call.
type Source interface {
	// Name identifies the backend in log output.
	Name() string

	// Pages returns one Page per PDF page in document order.
	Pages(path string) ([]Page, error)
}

// NewSource returns the Source for backend. The pdftotext backend detects
// a container runtime and checks that its image is present.
func NewSource(backend types.ExtractionBackend) (Source, error) {
	switch backend {
	case types.BackendNative, "":
		return NativeSource{}, nil
	case types.BackendTabula:
		return TabulaSource{}, nil
	case types.BackendPdftotext:
		rt, err := container.Detect()
		if err != nil {
			return nil, err
		}
		return NewPdftotextSource(rt)
	default:
		return nil, fmt.Errorf("unsupported backend %q: use native, tabula, or pdftotext", backend)
	}
}

// checkFile returns a wrapped os error when path cannot be read as a file,
// so callers can test for fs.ErrNotExist.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("opening PDF %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("opening PDF %s: is a directory", path)
	}
	return nil
}

// splitLines breaks text into trimmed, non-empty lines.
func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
