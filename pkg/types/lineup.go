// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for the lineups pipeline:
// the normalized lineup row, the table that merges both teams' pages, and
// the stage configurations.
package types

import (
	"strconv"
	"time"
)

// Columns is the fixed output schema. Every Table, export, and store query
// uses exactly these names in exactly this order.
var Columns = []string{
	"Team",
	"Opponent",
	"Lineup",
	"Min",
	"Team Score",
	"Opponent Score",
	"FGA",
	"FGM",
	"OR",
	"DR",
	"AS",
	"TO",
	"ST",
}

// LineupRow is one five-player group's line from a lineup analysis page.
// Field order matches Columns; the csv tags drive the CSV header.
type LineupRow struct {
	// Team is the team the lineup belongs to (inferred once per page).
	Team string `json:"team" yaml:"team" csv:"Team"`

	// Opponent is the other team in the game.
	Opponent string `json:"opponent" yaml:"opponent" csv:"Opponent"`

	// Lineup names the five-player group as printed on the page.
	Lineup string `json:"lineup" yaml:"lineup" csv:"Lineup"`

	// Min is minutes played in decimal form.
	Min float64 `json:"min" yaml:"min" csv:"Min"`

	// TeamScore and OpponentScore come from the combined "X-Y" score token.
	TeamScore     int `json:"team_score" yaml:"team_score" csv:"Team Score"`
	OpponentScore int `json:"opponent_score" yaml:"opponent_score" csv:"Opponent Score"`

	// FGA and FGM come from the combined "made-attempted" field-goal token.
	FGA int `json:"fga" yaml:"fga" csv:"FGA"`
	FGM int `json:"fgm" yaml:"fgm" csv:"FGM"`

	// OR and DR are offensive and defensive rebounds.
	OR int `json:"or" yaml:"or" csv:"OR"`
	DR int `json:"dr" yaml:"dr" csv:"DR"`

	// AS, TO, and ST are assists, turnovers, and steals.
	AS int `json:"as" yaml:"as" csv:"AS"`
	TO int `json:"to" yaml:"to" csv:"TO"`
	ST int `json:"st" yaml:"st" csv:"ST"`
}

// Values returns the row's cells in Columns order.
func (r LineupRow) Values() []any {
	return []any{
		r.Team, r.Opponent, r.Lineup, r.Min,
		r.TeamScore, r.OpponentScore, r.FGA, r.FGM,
		r.OR, r.DR, r.AS, r.TO, r.ST,
	}
}

// Strings returns the row's cells formatted as text in Columns order.
func (r LineupRow) Strings() []string {
	return []string{
		r.Team, r.Opponent, r.Lineup,
		strconv.FormatFloat(r.Min, 'f', -1, 64),
		strconv.Itoa(r.TeamScore), strconv.Itoa(r.OpponentScore),
		strconv.Itoa(r.FGA), strconv.Itoa(r.FGM),
		strconv.Itoa(r.OR), strconv.Itoa(r.DR),
		strconv.Itoa(r.AS), strconv.Itoa(r.TO), strconv.Itoa(r.ST),
	}
}

// MatchInfo holds what a lineup-analysis filename encodes about the game.
// Fields are empty when the filename does not follow the export pattern.
type MatchInfo struct {
	// Division is the competition division code (e.g. "D1").
	Division string `json:"division,omitempty" yaml:"division,omitempty"`

	// Team1 and Team2 are the team codes for page 1 and page 2.
	Team1 string `json:"team1,omitempty" yaml:"team1,omitempty"`
	Team2 string `json:"team2,omitempty" yaml:"team2,omitempty"`

	// Date is the game date.
	Date time.Time `json:"date,omitzero" yaml:"date,omitempty"`
}

// Table is the normalized result of parsing one lineup report: page 1 rows
// followed by page 2 rows.
type Table struct {
	// Source is the path of the parsed PDF.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Match is the game metadata recovered from the filename, if any.
	Match MatchInfo `json:"match" yaml:"match"`

	// Rows holds every lineup row from both pages.
	Rows []LineupRow `json:"rows" yaml:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Teams returns the distinct team names in first-seen order.
func (t *Table) Teams() []string {
	var teams []string
	seen := make(map[string]bool)
	for _, r := range t.Rows {
		if !seen[r.Team] {
			seen[r.Team] = true
			teams = append(teams, r.Team)
		}
	}
	return teams
}

// Records returns the table as text cells with the Columns header first.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, append([]string(nil), Columns...))
	for _, r := range t.Rows {
		records = append(records, r.Strings())
	}
	return records
}
