// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lineup

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lineups/internal/pdftext"
	"github.com/pdiddy/lineups/pkg/types"
)

const exportName = "lineup-analysis_D1_QAT_LBN_20251127.pdf"

// fakeSource implements pdftext.Source with canned pages.
type fakeSource struct {
	pages []pdftext.Page
	err   error
	calls int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Pages(string) ([]pdftext.Page, error) {
	f.calls++
	return f.pages, f.err
}

func page(n int, lines ...string) pdftext.Page {
	return pdftext.Page{Number: n, Lines: lines}
}

func sampleReport() []pdftext.Page {
	return []pdftext.Page{
		page(1,
			"QAT Lineup Analysis",
			"Line-up MIN Score +/- Field Goals Rebounds AS TO ST",
			"A-B-C-D-E  5.2  21-18  8-15  2 3 4 1 0",
			"Page 1 of 2",
		),
		page(2,
			"LBN Lineup Analysis",
			"Line-up MIN Score +/- Field Goals Rebounds AS TO ST",
			"F-G-H-I-J 5.2 18-21 7-14 1 4 2 2 1",
			"K-L-M-N-O 3:30 10 - 8 4/9 0 2 1 0 1",
			"Page 2 of 2",
		),
	}
}

func parseSample(t *testing.T, name string, pages []pdftext.Page, opts Options) (*types.Table, error) {
	t.Helper()
	return NewParser(&fakeSource{pages: pages}, opts).Parse(filepath.Join(t.TempDir(), name))
}

func TestParse_ExportFilename(t *testing.T) {
	table, err := parseSample(t, exportName, sampleReport(), Options{})
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, types.LineupRow{
		Team: "QAT", Opponent: "LBN", Lineup: "A-B-C-D-E", Min: 5.2,
		TeamScore: 21, OpponentScore: 18, FGA: 15, FGM: 8,
		OR: 2, DR: 3, AS: 4, TO: 1, ST: 0,
	}, table.Rows[0])
	assert.Equal(t, types.LineupRow{
		Team: "LBN", Opponent: "QAT", Lineup: "K-L-M-N-O", Min: 3.5,
		TeamScore: 10, OpponentScore: 8, FGA: 9, FGM: 4,
		OR: 0, DR: 2, AS: 1, TO: 0, ST: 1,
	}, table.Rows[2])

	assert.Equal(t, types.MatchInfo{
		Division: "D1", Team1: "QAT", Team2: "LBN",
		Date: time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC),
	}, table.Match)
}

func TestParse_TableProperties(t *testing.T) {
	pages := sampleReport()
	table, err := parseSample(t, exportName, pages, Options{})
	require.NoError(t, err)

	// Footers, titles, and column headers are not rows.
	assert.Equal(t, 1+2, table.Len())
	assert.Equal(t, []string{"QAT", "LBN"}, table.Teams())

	for _, r := range table.Rows {
		assert.NotEmpty(t, r.Team)
		assert.NotEmpty(t, r.Opponent)
		assert.NotEqual(t, r.Team, r.Opponent)
		assert.LessOrEqual(t, r.FGM, r.FGA)
		want := map[string]string{"QAT": "LBN", "LBN": "QAT"}[r.Team]
		assert.Equal(t, want, r.Opponent)
	}

	assert.Equal(t, types.Columns, table.Records()[0])
}

func TestParse_Deterministic(t *testing.T) {
	first, err := parseSample(t, exportName, sampleReport(), Options{})
	require.NoError(t, err)
	second, err := parseSample(t, exportName, sampleReport(), Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Records(), second.Records())
}

func TestParse_HeaderFallback(t *testing.T) {
	pages := []pdftext.Page{
		page(1, "Team: QAT", "Line-up MIN Score", "A-B-C-D-E 5.2 21-18 8-15 2 3 4 1 0"),
		page(2, "LBN vs QAT - Lineup Analysis", "F-G-H-I-J 5.2 18-21 7-14 1 4 2 2 1"),
	}

	table, err := parseSample(t, "qatar-lebanon.pdf", pages, Options{})
	require.NoError(t, err)

	assert.Equal(t, "QAT", table.Rows[0].Team)
	assert.Equal(t, "LBN", table.Rows[0].Opponent)
	assert.Equal(t, "LBN", table.Rows[1].Team)
	assert.Equal(t, types.MatchInfo{}, table.Match)
}

func TestParse_HeaderFallbackFails(t *testing.T) {
	pages := []pdftext.Page{
		page(1, "Line-up MIN Score", "A-B-C-D-E 5.2 21-18 8-15 2 3 4 1 0"),
		page(2, "LBN", "F-G-H-I-J 5.2 18-21 7-14 1 4 2 2 1"),
	}

	_, err := parseSample(t, "export.pdf", pages, Options{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStructure))
	var se *StructureError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Page)
	assert.Contains(t, se.Reason, "team name not found")
}

func TestParse_TeamOverride(t *testing.T) {
	table, err := parseSample(t, exportName, sampleReport(), Options{Teams: []string{" Qatar ", "Lebanon"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Qatar", "Lebanon"}, table.Teams())
	assert.Equal(t, "QAT", table.Match.Team1, "filename metadata is still recorded")

	_, err = parseSample(t, exportName, sampleReport(), Options{Teams: []string{"Qatar"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)
	assert.Contains(t, err.Error(), "two team names are required")

	_, err = parseSample(t, exportName, sampleReport(), Options{Teams: []string{"Qatar", " "}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)
	assert.Contains(t, err.Error(), "team name 2 is empty")
}

func TestParse_SameTeamOnBothPages(t *testing.T) {
	pages := []pdftext.Page{
		page(1, "QAT", "A-B-C-D-E 5.2 21-18 8-15 2 3 4 1 0"),
		page(2, "qat", "F-G-H-I-J 5.2 18-21 7-14 1 4 2 2 1"),
	}

	_, err := parseSample(t, "export.pdf", pages, Options{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStructure))
	assert.Contains(t, err.Error(), "both pages belong to team")
}

func TestParse_StructureErrors(t *testing.T) {
	row := "A-B-C-D-E 5.2 21-18 8-15 2 3 4 1 0"
	tests := []struct {
		name     string
		pages    []pdftext.Page
		wantPage int
		wantMsg  string
	}{
		{
			name:    "one page",
			pages:   []pdftext.Page{page(1, "QAT", row)},
			wantMsg: "expected 2 pages (one per team), found 1",
		},
		{
			name:    "three pages",
			pages:   []pdftext.Page{page(1, row), page(2, row), page(3, row)},
			wantMsg: "found 3",
		},
		{
			name:     "page without rows",
			pages:    []pdftext.Page{page(1, "QAT", row), page(2, "LBN", "Page 2 of 2")},
			wantPage: 2,
			wantMsg:  "no lineup rows found",
		},
		{
			name:     "blank page",
			pages:    []pdftext.Page{page(1), page(2, "LBN", row)},
			wantPage: 1,
			wantMsg:  "no lineup rows found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSample(t, exportName, tt.pages, Options{})
			require.Error(t, err)

			var se *StructureError
			require.True(t, errors.As(err, &se), "got %T: %v", err, err)
			assert.Equal(t, tt.wantPage, se.Page)
			assert.Contains(t, se.Error(), tt.wantMsg)
		})
	}
}

func TestParse_FieldParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		row        string
		wantColumn string
		wantToken  string
	}{
		{"score without separator", "A-B-C-D-E 5.2 21 18 8-15 2 3 4 1 0", "Score", "21"},
		{"made exceeds attempted", "A-B-C-D-E 5.2 21-18 9-5 2 3 4 1 0", "FG", "9-5"},
		{"count with decimals", "A-B-C-D-E 5.2 21-18 8-15 2 3.5 4 1 0", "DR", "3.5"},
		{"bad minutes", "A-B-C-D-E 5:75 21-18 8-15 2 3 4 1 0", "Min", "5:75"},
		{"full layout bad percent", "A-B-C-D-E 5.2 21-18 8-15 153% 2 3 5 4 1 0", "FG%", "153%"},
		{"extra column", "A-B-C-D-E 5.2 21-18 8-15 2 3 4 1 0 7", "row", "7"},
		{"bare numbers that fit no layout", "4 7 10 12 15 5.2 21 18 8-15 2 3 4 1 0", "Score", "5.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := []pdftext.Page{
				page(1, "QAT", "Line-up MIN", tt.row),
				page(2, "LBN", "F-G-H-I-J 5.2 18-21 7-14 1 4 2 2 1"),
			}

			table, err := parseSample(t, exportName, pages, Options{})

			assert.Nil(t, table)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFieldParse))
			var fe *FieldParseError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, 1, fe.Page)
			assert.Equal(t, 3, fe.Line)
			assert.Equal(t, tt.wantColumn, fe.Column)
			assert.Equal(t, tt.wantToken, fe.Token)
		})
	}
}

func TestParse_FullLayout(t *testing.T) {
	pages := []pdftext.Page{
		page(1, "QAT",
			"Line-up MIN Score +/- Field Goals Rebounds AS TO ST",
			"M/A % OR DR TOT",
			"A-B-C-D-E 5.2 21-18 8/15 53.3% 2 3 5 4 1 0",
			"Totals 40.0 80-70 30/60 50 10 20 30 15 12 8",
		),
		page(2, "LBN", "Jones Smith Lee Kim Park 4.0 6-9 0/3 - 0 1 1 0 0 0"),
	}

	table, err := parseSample(t, exportName, pages, Options{})
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, 8, table.Rows[0].FGM)
	assert.Equal(t, 15, table.Rows[0].FGA)
	assert.Equal(t, 4, table.Rows[0].AS)
	assert.Equal(t, "Jones Smith Lee Kim Park", table.Rows[1].Lineup)
	assert.Equal(t, 0, table.Rows[1].FGM)
	assert.Equal(t, 3, table.Rows[1].FGA)
}

func TestParse_NumberedLineups(t *testing.T) {
	pages := []pdftext.Page{
		page(1, "QAT", "4 - 7 - 10 - 12 - 15 5.2 21-18 8-15 2 3 4 1 0"),
		page(2, "LBN", "#1-#3-#5-#8-#11 5.2 18-21 7-14 1 4 2 2 1"),
	}

	table, err := parseSample(t, "game.pdf", pages, Options{})
	require.NoError(t, err)

	assert.Equal(t, "4-7-10-12-15", table.Rows[0].Lineup)
	assert.Equal(t, "#1-#3-#5-#8-#11", table.Rows[1].Lineup)
}

func TestParse_LabelsEndingInNumbers(t *testing.T) {
	pages := []pdftext.Page{
		page(1, "QAT",
			"Smith 4, Jones 7, Lee 10, Kim 12, Park 15 5.2 21-18 8-15 2 3 4 1 0",
			"4 7 10 12 15 3.0 9-11 4-6 0 2 1 1 1",
		),
		page(2, "LBN", "Lee 10 Kim 12 4.0 6-9 0/3 - 0 1 1 0 0 0"),
	}

	table, err := parseSample(t, exportName, pages, Options{})
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, "Smith 4, Jones 7, Lee 10, Kim 12, Park 15", table.Rows[0].Lineup)
	assert.Equal(t, 5.2, table.Rows[0].Min)
	assert.Equal(t, 21, table.Rows[0].TeamScore)
	assert.Equal(t, "4 7 10 12 15", table.Rows[1].Lineup)
	assert.Equal(t, 9, table.Rows[1].TeamScore)
	assert.Equal(t, 11, table.Rows[1].OpponentScore)
	assert.Equal(t, "QAT", table.Rows[1].Team)
	assert.Equal(t, "Lee 10 Kim 12", table.Rows[2].Lineup)
	assert.Equal(t, 3, table.Rows[2].FGA)
}

func TestParse_SpacedCompounds(t *testing.T) {
	pages := []pdftext.Page{
		page(1, "QAT", "A-B-C-D-E 5.2 21 -18 8- 15 2 3 4 1 0"),
		page(2, "LBN", "F-G-H-I-J 5.2 18 - 21 7 /14 1 4 2 2 1"),
	}

	table, err := parseSample(t, exportName, pages, Options{})
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, 21, table.Rows[0].TeamScore)
	assert.Equal(t, 18, table.Rows[0].OpponentScore)
	assert.Equal(t, 8, table.Rows[0].FGM)
	assert.Equal(t, 15, table.Rows[0].FGA)
	assert.Equal(t, 18, table.Rows[1].TeamScore)
	assert.Equal(t, 14, table.Rows[1].FGA)
}

func TestParse_SourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("corrupt xref")}
	_, err := NewParser(src, Options{}).Parse("x.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt xref")
	assert.Equal(t, 1, src.calls)
}

func TestParse_Log(t *testing.T) {
	var log bytes.Buffer
	_, err := parseSample(t, exportName, sampleReport(), Options{Log: &log})
	require.NoError(t, err)

	assert.Contains(t, log.String(), "page 1: QAT vs LBN, 1 rows (3 lines skipped)")
	assert.Contains(t, log.String(), "page 2: LBN vs QAT, 2 rows (3 lines skipped)")
}

func TestParsePDF_ReportFile(t *testing.T) {
	path := filepath.Join("testdata", exportName)
	parsers := map[string]func() (*types.Table, error){
		"native": func() (*types.Table, error) { return ParsePDF(path, Options{}) },
		"tabula": func() (*types.Table, error) {
			return NewParser(pdftext.TabulaSource{}, Options{}).Parse(path)
		},
	}
	for name, parse := range parsers {
		t.Run(name, func(t *testing.T) {
			table, err := parse()
			require.NoError(t, err)

			require.Equal(t, 3, table.Len())
			assert.Equal(t, []string{"QAT", "LBN"}, table.Teams())
			assert.Equal(t, types.LineupRow{
				Team: "QAT", Opponent: "LBN", Lineup: "A-B-C-D-E", Min: 5.2,
				TeamScore: 21, OpponentScore: 18, FGA: 15, FGM: 8,
				OR: 2, DR: 3, AS: 4, TO: 1, ST: 0,
			}, table.Rows[0])
			assert.Equal(t, "F-G-H-I-J", table.Rows[1].Lineup)
			assert.Equal(t, types.LineupRow{
				Team: "LBN", Opponent: "QAT", Lineup: "K-L-M-N-O", Min: 3.5,
				TeamScore: 10, OpponentScore: 8, FGA: 9, FGM: 4,
				OR: 0, DR: 2, AS: 1, TO: 0, ST: 1,
			}, table.Rows[2])
			assert.Equal(t, "D1", table.Match.Division)
		})
	}
}

func TestParsePDF_MissingFile(t *testing.T) {
	_, err := ParsePDF(filepath.Join(t.TempDir(), exportName), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
