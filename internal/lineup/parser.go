// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lineup parses two-page basketball lineup-analysis reports into a
// single normalized table. Page 1 holds one team's lineups and page 2 the
// other's; each row's compound Score and FG tokens are split into separate
// integer columns.
//
// Parsing runs in two stages per line: tokenize into a label and raw stat
// tokens, then convert every token strictly for its column. Lines that are
// too short to be rows are skipped; a row whose tokens do not convert fails
// the whole parse with a *FieldParseError.
package lineup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/lineups/internal/pdftext"
	"github.com/pdiddy/lineups/pkg/types"
)

// reportPages is the number of pages in a lineup report: one per team.
const reportPages = 2

// Options adjusts how a report is parsed.
type Options struct {
	// Teams names the page 1 and page 2 teams, overriding the filename and
	// page headers. Empty means infer.
	Teams []string

	// Log receives one progress line per page. Nil discards.
	Log io.Writer
}

// Parser turns lineup reports into tables using a pdftext.Source.
type Parser struct {
	source pdftext.Source
	opts   Options
}

// NewParser returns a parser that reads pages from src.
func NewParser(src pdftext.Source, opts Options) *Parser {
	if opts.Log == nil {
		opts.Log = io.Discard
	}
	return &Parser{source: src, opts: opts}
}

// ParsePDF parses the report at path with the in-process native backend.
func ParsePDF(path string, opts Options) (*types.Table, error) {
	return NewParser(pdftext.NativeSource{}, opts).Parse(path)
}

// Parse reads the report at path and returns its normalized table.
func (p *Parser) Parse(path string) (*types.Table, error) {
	pages, err := p.source.Pages(path)
	if err != nil {
		return nil, err
	}
	return p.ParsePages(path, pages)
}

// pageRows is the parse result for one page before team assignment.
type pageRows struct {
	number   int
	rows     []types.LineupRow
	firstRow int // index into the page's lines of the first row
	skipped  int
}

// ParsePages builds the table from already-extracted pages. path names the
// report for team inference and error messages.
func (p *Parser) ParsePages(path string, pages []pdftext.Page) (*types.Table, error) {
	if len(pages) != reportPages {
		return nil, &StructureError{
			Path:   path,
			Reason: fmt.Sprintf("expected %d pages (one per team), found %d", reportPages, len(pages)),
		}
	}

	parsed := make([]pageRows, len(pages))
	for i, pg := range pages {
		pr, err := parsePage(pg)
		if err != nil {
			return nil, err
		}
		if len(pr.rows) == 0 {
			return nil, &StructureError{Path: path, Page: pg.Number, Reason: "no lineup rows found"}
		}
		parsed[i] = pr
	}

	match, teams, err := p.resolveTeams(path, pages, parsed)
	if err != nil {
		return nil, err
	}

	table := &types.Table{Source: path, Match: match}
	for i, pr := range parsed {
		team, opponent := teams[i], teams[1-i]
		for _, r := range pr.rows {
			r.Team, r.Opponent = team, opponent
			table.Rows = append(table.Rows, r)
		}
		fmt.Fprintf(p.opts.Log, "page %d: %s vs %s, %d rows (%d lines skipped)\n",
			pr.number, team, opponent, len(pr.rows), pr.skipped)
	}
	return table, nil
}

func parsePage(pg pdftext.Page) (pageRows, error) {
	pr := pageRows{number: pg.Number, firstRow: len(pg.Lines)}
	for i, line := range pg.Lines {
		raw, ok := tokenize(line, i+1)
		if !ok {
			pr.skipped++
			continue
		}
		row, err := convertRow(raw, pg.Number)
		if errors.Is(err, errUnlabeled) {
			pr.skipped++
			continue
		}
		if err != nil {
			return pageRows{}, err
		}
		if len(pr.rows) == 0 {
			pr.firstRow = i
		}
		pr.rows = append(pr.rows, row)
	}
	return pr, nil
}

// resolveTeams names the team of each page: the explicit override, then the
// filename, then each page's header.
func (p *Parser) resolveTeams(path string, pages []pdftext.Page, parsed []pageRows) (types.MatchInfo, []string, error) {
	match, fromFilename := MatchFromFilename(path)

	var teams []string
	switch {
	case len(p.opts.Teams) > 0:
		if len(p.opts.Teams) != reportPages {
			return match, nil, &StructureError{
				Path:   path,
				Reason: fmt.Sprintf("two team names are required to map pages to teams, got %d", len(p.opts.Teams)),
			}
		}
		for i, t := range p.opts.Teams {
			t = strings.TrimSpace(t)
			if t == "" {
				return match, nil, &StructureError{Path: path, Reason: fmt.Sprintf("team name %d is empty", i+1)}
			}
			teams = append(teams, t)
		}
	case fromFilename:
		teams = []string{match.Team1, match.Team2}
	default:
		for i, pg := range pages {
			name := headerTeam(pg.Lines, parsed[i].firstRow)
			if name == "" {
				return match, nil, &StructureError{
					Path:   path,
					Page:   pg.Number,
					Reason: "team name not found in filename or page header",
				}
			}
			teams = append(teams, name)
		}
	}

	if strings.EqualFold(teams[0], teams[1]) {
		return match, nil, &StructureError{
			Path:   path,
			Reason: fmt.Sprintf("both pages belong to team %q", teams[0]),
		}
	}
	return match, teams, nil
}
