// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lineups/pkg/types"
)

// glyph builds a positioned run with width proportional to its length.
func glyph(s string, x, y float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: float64(len(s)) * 5, FontSize: 10}
}

func TestGroupLines(t *testing.T) {
	texts := []pdf.Text{
		// Second line first in stream order, slightly wobbly baseline.
		glyph("5.2", 120, 680),
		glyph("A-B-C-D-E", 40, 680.5),
		glyph("21-18", 160, 679.8),
		// Title line at the top.
		glyph("QAT", 40, 720),
		// Glyphs of one word touching each other.
		glyph("Pa", 40, 40),
		glyph("ge", 50, 40),
		glyph("1", 70, 40),
		glyph("  ", 90, 40),
	}

	lines := groupLines(texts)

	assert.Equal(t, []string{
		"QAT",
		"A-B-C-D-E 5.2 21-18",
		"Page 1",
	}, lines)
}

func TestSeparated_WithoutWidths(t *testing.T) {
	a := pdf.Text{S: "2", X: 100, FontSize: 10}
	b := pdf.Text{S: "1", X: 105, FontSize: 10}
	c := pdf.Text{S: "8", X: 130, FontSize: 10}

	assert.False(t, separated(a, b), "adjacent single glyphs form one word")
	assert.True(t, separated(b, c), "a gap wider than the font size breaks words")
	assert.True(t, separated(pdf.Text{S: "21-18", X: 100}, pdf.Text{S: "8-15", X: 101}))
}

func TestSplitPages(t *testing.T) {
	out := "QAT Lineup Analysis\n  Line-up   MIN\nA-B 5.2 21-18\n\fLBN\nF-G 4.0 10-12\n\f"

	pages := splitPages(out)

	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, []string{"QAT Lineup Analysis", "Line-up   MIN", "A-B 5.2 21-18"}, pages[0].Lines)
	assert.Equal(t, 2, pages[1].Number)
	assert.Equal(t, []string{"LBN", "F-G 4.0 10-12"}, pages[1].Lines)
}

func TestSplitPages_NoTrailingFeed(t *testing.T) {
	pages := splitPages("only page\n")
	require.Len(t, pages, 1)
	assert.Equal(t, []string{"only page"}, pages[0].Lines)
}

// fakeRuntime implements container.Runtime with canned output.
type fakeRuntime struct {
	hasImage error
	output   string
	err      error
	gotArgs  []string
}

func (f *fakeRuntime) Name() string          { return "docker" }
func (f *fakeRuntime) Available() bool       { return true }
func (f *fakeRuntime) HasImage(string) error { return f.hasImage }

func (f *fakeRuntime) Exec(_ context.Context, _ string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.gotArgs = args
	if _, err := io.ReadAll(stdin); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func writeFakePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lineup-analysis_D1_QAT_LBN_20251127.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func TestPdftotextSource(t *testing.T) {
	rt := &fakeRuntime{output: "QAT\nA-B 5.2\n\fLBN\nC-D 4.0\n\f"}
	src, err := NewPdftotextSource(rt)
	require.NoError(t, err)

	pages, err := src.Pages(writeFakePDF(t))

	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, []string{"LBN", "C-D 4.0"}, pages[1].Lines)
	assert.Contains(t, rt.gotArgs, "-layout")
	assert.Equal(t, "pdftotext", src.Name())
}

func TestPdftotextSource_Failures(t *testing.T) {
	t.Run("image missing", func(t *testing.T) {
		_, err := NewPdftotextSource(&fakeRuntime{hasImage: errors.New("no such image")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pdftotext image not available")
	})

	t.Run("container fails", func(t *testing.T) {
		src, err := NewPdftotextSource(&fakeRuntime{err: errors.New("exit status 1")})
		require.NoError(t, err)
		_, err = src.Pages(writeFakePDF(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exit status 1")
	})

	t.Run("empty output", func(t *testing.T) {
		src, err := NewPdftotextSource(&fakeRuntime{})
		require.NoError(t, err)
		_, err = src.Pages(writeFakePDF(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty output")
	})
}

func TestSources_ReportFile(t *testing.T) {
	for _, src := range []Source{NativeSource{}, TabulaSource{}} {
		t.Run(src.Name(), func(t *testing.T) {
			pages, err := src.Pages(filepath.Join("testdata", "report.pdf"))
			require.NoError(t, err)

			require.Len(t, pages, 2)
			assert.Equal(t, 1, pages[0].Number)
			assert.Equal(t, []string{
				"QAT Lineup Analysis",
				"Line-up MIN Score +/- Field Goals Rebounds AS TO ST",
				"A-B-C-D-E 5.2 21-18 8-15 2 3 4 1 0",
				"Page 1 of 2",
			}, pages[0].Lines)
			assert.Equal(t, 2, pages[1].Number)
			assert.Contains(t, pages[1].Lines, "K-L-M-N-O 3:30 10 - 8 4/9 0 2 1 0 1")
		})
	}
}

func TestSources_OnePageFile(t *testing.T) {
	for _, src := range []Source{NativeSource{}, TabulaSource{}} {
		t.Run(src.Name(), func(t *testing.T) {
			pages, err := src.Pages(filepath.Join("testdata", "one-page.pdf"))
			require.NoError(t, err)
			require.Len(t, pages, 1)
			assert.Equal(t, "QAT Lineup Analysis", pages[0].Lines[0])
		})
	}
}

func TestSources_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.pdf")
	pdftotext, err := NewPdftotextSource(&fakeRuntime{})
	require.NoError(t, err)

	for _, src := range []Source{NativeSource{}, TabulaSource{}, pdftotext} {
		t.Run(src.Name(), func(t *testing.T) {
			_, err := src.Pages(missing)
			require.Error(t, err)
			assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
		})
	}
}

func TestSources_Directory(t *testing.T) {
	_, err := NativeSource{}.Pages(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(types.BackendNative)
	require.NoError(t, err)
	assert.Equal(t, "native", src.Name())

	src, err = NewSource("")
	require.NoError(t, err)
	assert.Equal(t, "native", src.Name())

	src, err = NewSource(types.BackendTabula)
	require.NoError(t, err)
	assert.Equal(t, "tabula", src.Name())

	_, err = NewSource("ocr")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), `unsupported backend "ocr"`))
}
