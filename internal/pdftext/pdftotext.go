// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/lineups/internal/container"
)

const imagePdftotext = "pdftotext:latest"

// extractTimeout bounds one pdftotext run. A two-page report takes well
// under a second; a hung container is killed.
const extractTimeout = 2 * time.Minute

// pdftotextArgs keep column layout and stream stdin to stdout.
var pdftotextArgs = []string{"-layout", "-enc", "UTF-8", "-", "-"}

// PdftotextSource pipes the PDF through poppler's pdftotext inside a
// container image. pdftotext ends every page with a form feed.
type PdftotextSource struct {
	runtime container.Runtime
}

// NewPdftotextSource returns a source backed by rt after checking that the
// pdftotext image exists locally.
func NewPdftotextSource(rt container.Runtime) (*PdftotextSource, error) {
	if err := rt.HasImage(imagePdftotext); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &PdftotextSource{runtime: rt}, nil
}

func (s *PdftotextSource) Name() string { return "pdftotext" }

// Pages runs pdftotext over path and splits its output into pages.
func (s *PdftotextSource) Pages(path string) ([]Page, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	var out bytes.Buffer
	if err := s.runtime.Exec(ctx, imagePdftotext, pdftotextArgs, f, &out); err != nil {
		return nil, fmt.Errorf("extracting %s with pdftotext: %w", path, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("pdftotext produced empty output for %s", path)
	}

	return splitPages(out.String()), nil
}

// splitPages cuts pdftotext output at form feeds. The feed after the last
// page does not start a new one.
func splitPages(text string) []Page {
	chunks := strings.Split(text, "\f")
	if len(chunks) > 1 && strings.TrimSpace(chunks[len(chunks)-1]) == "" {
		chunks = chunks[:len(chunks)-1]
	}
	pages := make([]Page, len(chunks))
	for i, c := range chunks {
		pages[i] = Page{Number: i + 1, Lines: splitLines(c)}
	}
	return pages
}
