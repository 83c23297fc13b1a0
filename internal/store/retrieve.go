// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/lineups/pkg/types"
)

// QueryOptions holds filters for lineup queries. Empty fields do not filter.
type QueryOptions struct {
	// Team matches the lineup's team, case-insensitively.
	Team string

	// Opponent matches the opposing team, case-insensitively.
	Opponent string

	// Player matches a substring of the lineup label.
	Player string

	// GameID restricts results to one stored report.
	GameID string

	// MinMinutes drops lineups that played less than this.
	MinMinutes float64

	// MaxResults limits result count. Zero uses store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Team == "" && q.Opponent == "" && q.Player == "" && q.GameID == "" && q.MinMinutes <= 0
}

// QueryResult is a stored lineup row with the game it came from.
type QueryResult struct {
	types.LineupRow
	GameID string    `json:"game_id" yaml:"game_id"`
	Date   time.Time `json:"date,omitzero" yaml:"date,omitempty"`
}

// where appends the filter clauses for opts to qb.
func (q QueryOptions) where(qb *strings.Builder, args []any) []any {
	qb.WriteString(` WHERE 1=1`)
	if q.Team != "" {
		qb.WriteString(` AND l.team = ? COLLATE NOCASE`)
		args = append(args, q.Team)
	}
	if q.Opponent != "" {
		qb.WriteString(` AND l.opponent = ? COLLATE NOCASE`)
		args = append(args, q.Opponent)
	}
	if q.Player != "" {
		qb.WriteString(` AND l.lineup LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q.Player)+"%")
	}
	if q.GameID != "" {
		qb.WriteString(` AND l.game_id = ?`)
		args = append(args, q.GameID)
	}
	if q.MinMinutes > 0 {
		qb.WriteString(` AND l.min >= ?`)
		args = append(args, q.MinMinutes)
	}
	return args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Retrieve returns lineup rows matching opts, ordered by game date, game,
// and position within the report.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var qb strings.Builder
	qb.WriteString(
		`SELECT l.game_id, g.date, l.team, l.opponent, l.lineup, l.min,
			l.team_score, l.opponent_score, l.fga, l.fgm,
			l.off_reb, l.def_reb, l.assists, l.turnovers, l.steals
		FROM lineups l
		JOIN games g ON g.id = l.game_id`)
	args := opts.where(&qb, nil)
	qb.WriteString(` ORDER BY g.date, l.game_id, l.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying lineups: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr   QueryResult
			date sql.NullString
		)
		if err := rows.Scan(
			&qr.GameID, &date, &qr.Team, &qr.Opponent, &qr.Lineup, &qr.Min,
			&qr.TeamScore, &qr.OpponentScore, &qr.FGA, &qr.FGM,
			&qr.OR, &qr.DR, &qr.AS, &qr.TO, &qr.ST,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if date.Valid && date.String != "" {
			qr.Date, _ = time.Parse(dateLayout, date.String)
		}
		results = append(results, qr)
	}

	return results, rows.Err()
}

// Table collects query results into a table for export. Source is left
// empty because the rows may span several reports.
func Table(results []QueryResult) *types.Table {
	t := &types.Table{Rows: make([]types.LineupRow, len(results))}
	for i, r := range results {
		t.Rows[i] = r.LineupRow
	}
	return t
}

// LineupTotal aggregates one lineup's rows across stored games. Opponent
// is left empty.
type LineupTotal struct {
	types.LineupRow
	Games int `json:"games" yaml:"games"`
}

// Totals sums every stat per lineup for team across all stored games,
// most minutes first. An empty team aggregates every team.
func (s *Store) Totals(ctx context.Context, team string) ([]LineupTotal, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT l.team, l.lineup, COUNT(DISTINCT l.game_id), ROUND(SUM(l.min), 2),
			SUM(l.team_score), SUM(l.opponent_score), SUM(l.fga), SUM(l.fgm),
			SUM(l.off_reb), SUM(l.def_reb), SUM(l.assists), SUM(l.turnovers), SUM(l.steals)
		FROM lineups l`)
	if team != "" {
		qb.WriteString(` WHERE l.team = ? COLLATE NOCASE`)
		args = append(args, team)
	}
	qb.WriteString(` GROUP BY l.team, l.lineup ORDER BY SUM(l.min) DESC, l.team, l.lineup`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("aggregating lineups: %w", err)
	}
	defer rows.Close()

	var totals []LineupTotal
	for rows.Next() {
		var lt LineupTotal
		if err := rows.Scan(
			&lt.Team, &lt.Lineup, &lt.Games, &lt.Min,
			&lt.TeamScore, &lt.OpponentScore, &lt.FGA, &lt.FGM,
			&lt.OR, &lt.DR, &lt.AS, &lt.TO, &lt.ST,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		totals = append(totals, lt)
	}

	return totals, rows.Err()
}

// Games returns the stored game IDs in date order.
func (s *Store) Games(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM games ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
