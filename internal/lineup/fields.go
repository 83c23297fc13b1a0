// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lineup

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/lineups/pkg/types"
)

// column is one stat position in a lineup row.
type column int

const (
	colMin column = iota
	colScore
	colFG
	colFGPct
	colOR
	colDR
	colTOT
	colAS
	colTO
	colST
)

var columnNames = map[column]string{
	colMin:   "Min",
	colScore: "Score",
	colFG:    "FG",
	colFGPct: "FG%",
	colOR:    "OR",
	colDR:    "DR",
	colTOT:   "TOT",
	colAS:    "AS",
	colTO:    "TO",
	colST:    "ST",
}

func (c column) String() string { return columnNames[c] }

var (
	// compactLayout is the minimal export: no FG% or rebound totals.
	compactLayout = []column{colMin, colScore, colFG, colOR, colDR, colAS, colTO, colST}
	// fullLayout is the export with "Field Goals M/A %" and "Rebounds OR DR TOT".
	fullLayout = []column{colMin, colScore, colFG, colFGPct, colOR, colDR, colTOT, colAS, colTO, colST}
)

// layoutFor picks the layout for n stat tokens. Counts that match neither
// layout are read against the compact layout and reported as malformed.
func layoutFor(n int) (layout []column, exact bool) {
	switch n {
	case len(fullLayout):
		return fullLayout, true
	case len(compactLayout):
		return compactLayout, true
	default:
		return compactLayout, false
	}
}

var (
	compoundToken = regexp.MustCompile(`^(\d+)[-/](\d+)$`)
	clockToken    = regexp.MustCompile(`^(\d+):([0-5]\d)$`)
)

// errUnlabeled marks a row of bare numbers that no label split converts.
// Such lines are treated as noise, not as malformed rows.
var errUnlabeled = errors.New("no lineup label")

// convertRow converts a tokenized row into a LineupRow. Team and Opponent
// are filled in by the caller.
//
// A lineup label may end in numbers ("Park 15") or consist of them
// ("4 7 10 12 15"), so leading stat tokens are moved into the label until
// the rest fits the full or compact layout. The error reported when no
// split converts is the one from reading the tokens as given.
func convertRow(raw rawRow, page int) (types.LineupRow, error) {
	var firstErr error
	if raw.Label != "" {
		row, err := convertFields(raw.Label, raw.Fields, raw.Line, page)
		if err == nil {
			return row, nil
		}
		firstErr = err
	}

	n := len(raw.Fields)
	for _, layout := range [][]column{fullLayout, compactLayout} {
		k := n - len(layout)
		if k < 1 {
			continue
		}
		label := strings.TrimSpace(raw.Label + " " + strings.Join(raw.Fields[:k], " "))
		row, err := convertFields(label, raw.Fields[k:], raw.Line, page)
		if err == nil {
			return row, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	if raw.Label == "" {
		if _, exact := layoutFor(n); exact || firstErr == nil {
			return types.LineupRow{}, errUnlabeled
		}
	}
	return types.LineupRow{}, firstErr
}

// convertFields reads fields against the layout for their count, column by
// column.
func convertFields(label string, fields []string, line, page int) (types.LineupRow, error) {
	row := types.LineupRow{Lineup: label}
	layout, exact := layoutFor(len(fields))

	fail := func(col, tok, reason string) error {
		return &FieldParseError{Page: page, Line: line, Column: col, Token: tok, Reason: reason}
	}

	if len(fields) < len(layout) {
		return types.LineupRow{}, fail("row", strings.Join(fields, " "),
			fmt.Sprintf("expected %d stat columns, found %d", len(layout), len(fields)))
	}

	for i, col := range layout {
		tok := fields[i]
		var err error
		switch col {
		case colMin:
			row.Min, err = parseMinutes(tok)
		case colScore:
			row.TeamScore, row.OpponentScore, err = splitCompound(tok)
		case colFG:
			row.FGM, row.FGA, err = splitCompound(tok)
			if err == nil && row.FGM > row.FGA {
				err = fmt.Errorf("made %d exceeds attempted %d", row.FGM, row.FGA)
			}
		case colFGPct:
			err = checkPercent(tok)
		case colOR:
			row.OR, err = parseCount(tok)
		case colDR:
			row.DR, err = parseCount(tok)
		case colTOT:
			_, err = parseCount(tok)
		case colAS:
			row.AS, err = parseCount(tok)
		case colTO:
			row.TO, err = parseCount(tok)
		case colST:
			row.ST, err = parseCount(tok)
		}
		if err != nil {
			return types.LineupRow{}, fail(col.String(), tok, err.Error())
		}
	}

	if !exact {
		extra := fields[len(layout):]
		return types.LineupRow{}, fail("row", strings.Join(extra, " "),
			fmt.Sprintf("expected %d or %d stat columns, found %d",
				len(compactLayout), len(fullLayout), len(fields)))
	}
	return row, nil
}

// splitCompound splits "X-Y" or "X/Y" into two integers.
func splitCompound(tok string) (int, int, error) {
	m := compoundToken.FindStringSubmatch(tok)
	if m == nil {
		return 0, 0, fmt.Errorf("want two integers separated by - or /")
	}
	a, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// parseMinutes reads decimal minutes ("5.2", "5,2") or a clock ("05:12").
func parseMinutes(tok string) (float64, error) {
	if m := clockToken.FindStringSubmatch(tok); m != nil {
		mins, _ := strconv.Atoi(m[1])
		secs, _ := strconv.Atoi(m[2])
		return math.Round((float64(mins)+float64(secs)/60)*100) / 100, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(tok, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("want decimal minutes or mm:ss")
	}
	if v < 0 || math.IsInf(v, 0) {
		return 0, fmt.Errorf("minutes out of range")
	}
	return v, nil
}

func parseCount(tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("want a whole number")
	}
	if v < 0 {
		return 0, fmt.Errorf("count is negative")
	}
	return v, nil
}

// checkPercent accepts "53.3", "53.3%", "0.533", or a dash for no attempts.
func checkPercent(tok string) error {
	switch tok {
	case "-", "–", "—":
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(strings.TrimSuffix(tok, "%"), ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("want a percentage")
	}
	if v < 0 || v > 100 {
		return fmt.Errorf("percentage out of range")
	}
	return nil
}
